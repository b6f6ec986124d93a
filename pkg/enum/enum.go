// Package enum discovers HTML documents to lint.
package enum

import (
	"context"
	"log/slog"

	"github.com/praetorian-inc/lintel/pkg/types"
)

// Callback receives one document's content, its ID and where it was found.
// Enumerators may call it from several goroutines at once.
type Callback func(content []byte, id types.DocumentID, prov types.Provenance) error

// Enumerator discovers documents from a source.
type Enumerator interface {
	// Enumerate yields documents from the source.
	Enumerate(ctx context.Context, callback Callback) error
}

// Config for enumeration.
type Config struct {
	// Root is the starting path for enumeration.
	Root string

	// Include lists doublestar globs, relative to Root, a file must match
	// (empty = every file).
	Include []string

	// Ignore lists doublestar globs, relative to Root, that exclude files
	// and prune directories.
	Ignore []string

	// IncludeHidden includes hidden files/directories (starting with .).
	IncludeHidden bool

	// MaxFileSize is the maximum file size to process (0 = no limit).
	MaxFileSize int64

	// FollowSymlinks follows symbolic links.
	FollowSymlinks bool

	Logger *slog.Logger
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}
