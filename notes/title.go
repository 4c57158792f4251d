package notes

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// seriesTitleOverrides maps series keys whose first release note lacks a
// usable title to their full display titles. The title of a minor series
// normally lives in the front-matter of its ".0" release, but a few
// historic releases are inconsistent.
var seriesTitleOverrides = map[string]string{
	"1.19": "1.19 Fantastic Donkeys",
	"1.13": "1.13 Donkerine",
}

// codenameMarker splits a ".0" release title into version and codename,
// as in `1.27.0 Fantastic Aardvark`.
const codenameMarker = ".0 "

// Titler resolves display titles for minor release series under a fixed
// output root.
type Titler struct {
	root string
}

// NewTitler returns a Titler bound to the given output root.
func NewTitler(root string) *Titler {
	return &Titler{root: filepath.Clean(root)}
}

// SeriesTitle returns the display title for a "major.minor" series key.
// Overrides win without touching the filesystem; otherwise the title
// comes from the front-matter of root/rel/<key>.0.md, and if that file
// is absent the key itself is the title.
func (t *Titler) SeriesTitle(rel, key string) (string, error) {
	if title, ok := seriesTitleOverrides[key]; ok {
		return title, nil
	}

	path := filepath.Join(t.root, filepath.FromSlash(rel), key+".0.md")
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return key, nil
	}
	if err != nil {
		return "", fmt.Errorf("read title file %s: %w", path, err)
	}

	frontmatter, err := extractFrontmatter(content)
	if err != nil {
		return "", fmt.Errorf("title file %s: %w", path, err)
	}

	title, ok := frontmatter["title"].(string)
	if !ok {
		return "", fmt.Errorf("title file %s: front-matter has no title string", path)
	}

	title = strings.NewReplacer(`"`, "", `'`, "").Replace(title)
	_, codename, found := strings.Cut(title, codenameMarker)
	if !found {
		return "", fmt.Errorf("title file %s: title %q lacks %q marker", path, title, codenameMarker)
	}

	return key + " " + codename, nil
}
