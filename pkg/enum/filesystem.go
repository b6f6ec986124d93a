package enum

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/praetorian-inc/lintel/pkg/types"
	"golang.org/x/sync/errgroup"
)

// FilesystemEnumerator enumerates files from a filesystem directory, or a
// single file when Root names one.
type FilesystemEnumerator struct {
	config Config
}

// NewFilesystemEnumerator creates a new filesystem enumerator.
func NewFilesystemEnumerator(config Config) *FilesystemEnumerator {
	return &FilesystemEnumerator{config: config}
}

// Enumerate walks Root, collecting eligible paths, then reads them in
// parallel and yields one document per text file.
func (e *FilesystemEnumerator) Enumerate(ctx context.Context, callback Callback) error {
	logger := e.config.logger()
	root := e.config.Root

	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", root, err)
	}
	if !info.IsDir() {
		// an explicitly named file bypasses include/ignore
		return e.processFile(ctx, root, callback)
	}

	paths, err := newPathMatcher(e.config.Include, e.config.Ignore)
	if err != nil {
		return err
	}

	var ignore *gitignore.GitIgnore
	gitignorePath := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(gitignorePath); err == nil {
		ignore, err = gitignore.CompileIgnoreFile(gitignorePath)
		if err != nil {
			logger.Warn("ignoring unreadable .gitignore", "path", gitignorePath, "error", err)
		}
	}

	// Phase 1: Walk and collect eligible file paths
	var files []string
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		if info.IsDir() {
			if path == root {
				return nil
			}
			if !e.config.IncludeHidden && isHidden(info.Name()) {
				return filepath.SkipDir
			}
			if paths.ignoredDir(relPath) || (ignore != nil && ignore.MatchesPath(relPath+"/")) {
				logger.Debug("skipping directory", "path", relPath)
				return filepath.SkipDir
			}
			return nil
		}

		if info.Mode()&os.ModeSymlink != 0 && !e.config.FollowSymlinks {
			return nil
		}

		if !e.config.IncludeHidden && isHidden(info.Name()) {
			return nil
		}

		if e.config.MaxFileSize > 0 && info.Size() > e.config.MaxFileSize {
			logger.Debug("skipping large file", "path", relPath, "size", info.Size())
			return nil
		}

		if ignore != nil && ignore.MatchesPath(relPath) {
			return nil
		}

		if !paths.included(relPath) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return err
	}
	logger.Debug("walk complete", "root", root, "files", len(files))

	// Phase 2: read files in parallel
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for _, path := range files {
		g.Go(func() error {
			return e.processFile(gctx, path, callback)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// processFile reads a single file and invokes the callback.
func (e *FilesystemEnumerator) processFile(ctx context.Context, path string, callback Callback) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}

	if isBinary(content) {
		e.config.logger().Debug("skipping binary file", "path", path)
		return nil
	}

	prov := types.FileProvenance{
		FilePath: path,
	}

	return callback(content, types.ComputeDocumentID(content), prov)
}
