package enum

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// pathMatcher applies Include/Ignore globs to slash-separated relative paths.
type pathMatcher struct {
	include []string
	ignore  []string
}

func newPathMatcher(include, ignore []string) (*pathMatcher, error) {
	for _, p := range append(append([]string(nil), include...), ignore...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid glob pattern %q", p)
		}
	}
	return &pathMatcher{include: include, ignore: ignore}, nil
}

// ignored reports whether rel matches an ignore pattern.
func (m *pathMatcher) ignored(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, p := range m.ignore {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// ignoredDir reports whether everything below the directory rel is ignored.
func (m *pathMatcher) ignoredDir(rel string) bool {
	return m.ignored(rel) || m.ignored(filepath.ToSlash(rel)+"/\x00")
}

// included reports whether the file rel should be yielded.
func (m *pathMatcher) included(rel string) bool {
	if m.ignored(rel) {
		return false
	}
	if len(m.include) == 0 {
		return true
	}
	rel = filepath.ToSlash(rel)
	for _, p := range m.include {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// isHidden checks if a filename is hidden (starts with .).
// The special entries "." and ".." are NOT considered hidden.
func isHidden(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return strings.HasPrefix(name, ".")
}

// isBinary detects if content is binary by checking first 8KB for null bytes.
func isBinary(content []byte) bool {
	checkSize := len(content)
	if checkSize > 8192 {
		checkSize = 8192
	}
	return bytes.IndexByte(content[:checkSize], 0) != -1
}

// hasHiddenSegment reports whether any element of a slash path is hidden.
func hasHiddenSegment(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if isHidden(seg) {
			return true
		}
	}
	return false
}

func cleanPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
