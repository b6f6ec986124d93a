package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/praetorian-inc/lintel/pkg/types"
	"github.com/spf13/cobra"
)

var outputFormat string

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect lint rules",
	Long:  "Commands for listing and inspecting lint rules",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available rules",
	Long:  "Display all registered lint rules with their IDs, names and default severity",
	RunE:  runRulesList,
}

func init() {
	rulesCmd.AddCommand(rulesListCmd)
	rulesListCmd.Flags().StringVar(&outputFormat, "format", "table", "Output format: table, json")
}

// ruleListing is the JSON form of one registered rule.
type ruleListing struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Description     string         `json:"description,omitempty"`
	DefaultSeverity types.Severity `json:"default_severity"`
	Categories      []string       `json:"categories,omitempty"`
	References      []string       `json:"references,omitempty"`
}

func runRulesList(cmd *cobra.Command, args []string) error {
	rules := registeredRules()

	// Output based on format
	switch outputFormat {
	case "json":
		return outputRulesJSON(cmd, rules)
	case "table":
		return outputRulesTable(cmd, rules)
	default:
		return fmt.Errorf("unknown output format: %s", outputFormat)
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func outputRulesJSON(cmd *cobra.Command, rules []ruleEntry) error {
	listing := make([]ruleListing, 0, len(rules))
	for _, r := range rules {
		listing = append(listing, ruleListing{
			ID:              r.info.ID,
			Name:            r.info.Name,
			Description:     r.info.Description,
			DefaultSeverity: r.severity,
			Categories:      r.info.Categories,
			References:      r.info.References,
		})
	}
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(listing)
}

func outputRulesTable(cmd *cobra.Command, rules []ruleEntry) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "ID\tName\tDefault\tCategories\n")
	fmt.Fprintf(w, "--\t----\t-------\t----------\n")

	for _, r := range rules {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.info.ID, r.info.Name, r.severity, strings.Join(r.info.Categories, ", "))
	}

	return nil
}
