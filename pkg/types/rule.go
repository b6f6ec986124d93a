package types

// Rule is the descriptive metadata of a lint rule, used for listings and
// SARIF driver rules.
type Rule struct {
	ID          string   // e.g., "id-class-value"
	Name        string   // human-readable name
	Description string   // optional
	References  []string // documentation URLs
	Categories  []string // classification tags
	Keywords    []string // lowercase keywords for Aho-Corasick prefiltering
}
