// Package render expands index-page templates against the grouped
// release-note data and writes the results into the output root.
package render

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/natefinch/atomic"

	"github.com/c360studio/relidx/notes"
	"github.com/c360studio/relidx/version"
)

// renderableSuffix is the first filename suffix a template must carry to
// be selected for rendering. The output name is the template name
// truncated right after this suffix, so "index.md.tmpl" renders to
// "index.md".
const renderableSuffix = ".md"

// Renderer expands every renderable template in the templates directory
// into the output root. All data access happens through the registered
// template functions; templates receive no other variables.
type Renderer struct {
	logger       *slog.Logger
	templatesDir string
	root         string
	funcs        template.FuncMap
}

// New returns a Renderer for the given templates directory and output
// root. The index and title functions it registers are bound to the
// root for the lifetime of the renderer.
func New(logger *slog.Logger, templatesDir, root string, ignore []string) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}

	indexer := notes.NewIndexer(root, ignore)
	titler := notes.NewTitler(root)

	return &Renderer{
		logger:       logger,
		templatesDir: filepath.Clean(templatesDir),
		root:         filepath.Clean(root),
		funcs: template.FuncMap{
			"index":             indexer.Index,
			"minorReleaseTitle": titler.SeriesTitle,
			"sortReleases":      sortReleases,
		},
	}
}

// Render expands every renderable template and writes one output file
// per template. The first failure aborts the whole pass; writes are
// atomic, so an aborted pass never leaves a torn output file.
func (r *Renderer) Render() error {
	entries, err := os.ReadDir(r.templatesDir)
	if err != nil {
		return fmt.Errorf("list templates dir %s: %w", r.templatesDir, err)
	}

	rendered := 0
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || !renderable(name) {
			continue
		}

		if err := r.renderOne(name); err != nil {
			return err
		}
		rendered++
	}

	r.logger.Info("render pass complete", "templates", rendered, "output", r.root)
	return nil
}

func (r *Renderer) renderOne(name string) error {
	path := filepath.Join(r.templatesDir, name)
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read template %s: %w", path, err)
	}

	tmpl, err := template.New(name).Funcs(r.funcs).Parse(string(content))
	if err != nil {
		return fmt.Errorf("parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, nil); err != nil {
		return fmt.Errorf("render template %s: %w", name, err)
	}

	outName := outputName(name)
	outPath := filepath.Join(r.root, outName)
	if err := atomic.WriteFile(outPath, &buf); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	r.logger.Info("rendered template", "template", name, "output", outName)
	return nil
}

// renderable reports whether a templates-dir entry is an entry point:
// non-hidden, with ".md" as its first suffix.
func renderable(name string) bool {
	return !strings.HasPrefix(name, ".") && firstSuffix(name) == renderableSuffix
}

// firstSuffix returns the first dot-suffix of a filename, so
// "index.md.tmpl" yields ".md" and "index" yields "".
func firstSuffix(name string) string {
	i := strings.Index(name, ".")
	if i < 0 {
		return ""
	}
	rest := name[i:]
	if j := strings.Index(rest[1:], "."); j >= 0 {
		return rest[:j+1]
	}
	return rest
}

// outputName truncates a template name right after the first ".md".
func outputName(name string) string {
	return name[:strings.Index(name, renderableSuffix)+len(renderableSuffix)]
}

// sortReleases returns a copy of the records ordered by major, minor,
// patch, then pre/final/post rank. The index itself preserves discovery
// order; templates opt into sorting by calling this.
func sortReleases(records []version.Record) []version.Record {
	sorted := make([]version.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Major != b.Major {
			return a.Major < b.Major
		}
		if a.Minor != b.Minor {
			return a.Minor < b.Minor
		}
		if a.Patch != b.Patch {
			return a.Patch < b.Patch
		}
		return a.Rank < b.Rank
	})
	return sorted
}
