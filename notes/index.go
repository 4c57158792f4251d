// Package notes indexes release-note files by minor release series and
// resolves display titles for each series.
package notes

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/c360studio/relidx/version"
)

// ErrPathEscape indicates a requested index path that resolves outside
// the output root.
var ErrPathEscape = errors.New("path escapes the output root")

// ErrNotFound indicates a requested index path that does not exist.
var ErrNotFound = errors.New("index path does not exist")

// Index maps a "major.minor" series key to its release records in
// discovery order. The builder never sorts; ordering beyond discovery
// order is the template's responsibility.
type Index map[string][]version.Record

// Indexer enumerates release-note directories under a fixed output root.
type Indexer struct {
	root   string
	ignore []string
}

// NewIndexer returns an Indexer bound to the given output root. Entries
// whose names match any of the ignore globs are skipped before version
// extraction; with no globs, every entry must parse.
func NewIndexer(root string, ignore []string) *Indexer {
	return &Indexer{root: filepath.Clean(root), ignore: ignore}
}

// Index enumerates the immediate entries of root/rel (non-recursive) and
// groups them by series key. The resolved path is containment-checked
// before any filesystem access.
func (ix *Indexer) Index(rel string) (Index, error) {
	dir, err := ix.resolve(rel)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, dir)
	}
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	idx := make(Index)
	for _, entry := range entries {
		name := entry.Name()
		if ix.ignored(name) {
			continue
		}

		rec, err := version.Parse(version.Stem(name), filepath.ToSlash(filepath.Join(rel, name)))
		if err != nil {
			return nil, fmt.Errorf("index %s: %w", dir, err)
		}
		idx[rec.Series()] = append(idx[rec.Series()], rec)
	}

	return idx, nil
}

// resolve joins rel onto the root and rejects paths that escape it.
func (ix *Indexer) resolve(rel string) (string, error) {
	dir := filepath.Join(ix.root, filepath.FromSlash(rel))
	if dir != ix.root && !strings.HasPrefix(dir, ix.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %q", ErrPathEscape, rel)
	}
	return dir, nil
}

// ignored reports whether an entry name matches a configured ignore
// glob. Patterns are validated at config load time.
func (ix *Indexer) ignored(name string) bool {
	for _, pattern := range ix.ignore {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}
