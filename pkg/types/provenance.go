package types

import "time"

// Provenance tracks where a document was found.
type Provenance interface {
	Kind() string
	// Path returns displayable path (if applicable)
	Path() string
}

// FileProvenance for filesystem files.
type FileProvenance struct {
	FilePath string
}

// Kind returns "file".
func (f FileProvenance) Kind() string {
	return "file"
}

// Path returns the file path.
func (f FileProvenance) Path() string {
	return f.FilePath
}

// GitProvenance for files read from a git tree.
type GitProvenance struct {
	RepoPath string
	Commit   *CommitMetadata // nil if not tracking commit info
	BlobPath string          // path within repo at commit
}

// Kind returns "git".
func (g GitProvenance) Kind() string {
	return "git"
}

// Path returns the file path within the repository.
func (g GitProvenance) Path() string {
	return g.BlobPath
}

// CommitMetadata holds git commit information.
type CommitMetadata struct {
	CommitID      string
	AuthorName    string
	AuthorEmail   string
	CommitterWhen time.Time
	Message       string
}

// SourceProvenance names in-memory content handed to the library or the
// streaming server ("stdin", "inline:3", a URL, ...).
type SourceProvenance struct {
	Source string
}

// Kind returns "source".
func (s SourceProvenance) Kind() string {
	return "source"
}

// Path returns the source name.
func (s SourceProvenance) Path() string {
	return s.Source
}
