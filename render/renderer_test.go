package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/relidx/version"
)

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func read(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func TestRender_EndToEnd(t *testing.T) {
	root := t.TempDir()
	templates := t.TempDir()

	notesDir := filepath.Join(root, "release-notes")
	write(t, notesDir, "1.27.0.md", `---
title: "1.27.0 Fantastic Aardvark"
---
`)
	write(t, notesDir, "1.27.1.md", "# 1.27.1\n")
	write(t, notesDir, "1.27.2.post1.md", "# 1.27.2.post1\n")

	write(t, templates, "index.md.tmpl", `{{ range $series, $records := index "release-notes" -}}
## {{ minorReleaseTitle "release-notes" $series }}
{{ range sortReleases $records }}- [{{ .Stem }}]({{ .Path }})
{{ end }}{{ end }}`)

	r := New(nil, templates, root, nil)
	require.NoError(t, r.Render())

	out := read(t, filepath.Join(root, "index.md"))
	assert.Contains(t, out, "## 1.27 Fantastic Aardvark")
	assert.Contains(t, out, "- [1.27.0](release-notes/1.27.0.md)")
	assert.Contains(t, out, "- [1.27.1](release-notes/1.27.1.md)")
	assert.Contains(t, out, "- [1.27.2.post1](release-notes/1.27.2.post1.md)")
}

func TestRender_OverrideTitleInTemplate(t *testing.T) {
	root := t.TempDir()
	templates := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "release-notes"), 0o755))

	write(t, templates, "index.md", `{{ minorReleaseTitle "release-notes" "1.19" }}`)

	r := New(nil, templates, root, nil)
	require.NoError(t, r.Render())

	assert.Equal(t, "1.19 Fantastic Donkeys", read(t, filepath.Join(root, "index.md")))
}

func TestRender_DoubleSuffixOutputName(t *testing.T) {
	root := t.TempDir()
	templates := t.TempDir()

	write(t, templates, "index.md.tmpl", "hello\n")

	r := New(nil, templates, root, nil)
	require.NoError(t, r.Render())

	assert.Equal(t, "hello\n", read(t, filepath.Join(root, "index.md")))
	_, err := os.Stat(filepath.Join(root, "index.md.tmpl"))
	assert.True(t, os.IsNotExist(err))
}

func TestRender_SkipsHiddenAndNonTemplates(t *testing.T) {
	root := t.TempDir()
	templates := t.TempDir()

	write(t, templates, ".hidden.md", "hidden\n")
	write(t, templates, "notes.txt", "not a template\n")
	write(t, templates, "archive.tmpl.md", "wrong suffix order\n")
	write(t, templates, "index.md", "indexed\n")

	r := New(nil, templates, root, nil)
	require.NoError(t, r.Render())

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "index.md", entries[0].Name())
}

func TestRender_OverwritesExistingOutput(t *testing.T) {
	root := t.TempDir()
	templates := t.TempDir()

	write(t, root, "index.md", "stale\n")
	write(t, templates, "index.md", "fresh\n")

	r := New(nil, templates, root, nil)
	require.NoError(t, r.Render())

	assert.Equal(t, "fresh\n", read(t, filepath.Join(root, "index.md")))
}

func TestRender_IndexErrorAbortsPass(t *testing.T) {
	root := t.TempDir()
	templates := t.TempDir()

	write(t, templates, "index.md", `{{ index "missing" }}`)

	r := New(nil, templates, root, nil)
	err := r.Render()
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(root, "index.md"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRender_EscapingIndexPathFails(t *testing.T) {
	root := t.TempDir()
	templates := t.TempDir()

	write(t, templates, "index.md", `{{ index "../elsewhere" }}`)

	r := New(nil, templates, root, nil)
	require.Error(t, r.Render())
}

func TestFirstSuffix(t *testing.T) {
	assert.Equal(t, ".md", firstSuffix("index.md"))
	assert.Equal(t, ".md", firstSuffix("index.md.tmpl"))
	assert.Equal(t, ".tmpl", firstSuffix("archive.tmpl.md"))
	assert.Equal(t, "", firstSuffix("README"))
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "index.md", outputName("index.md"))
	assert.Equal(t, "index.md", outputName("index.md.tmpl"))
	assert.Equal(t, "changelog.md", outputName("changelog.md.jinja"))
}

func TestSortReleases(t *testing.T) {
	records := []version.Record{
		{Major: 1, Minor: 27, Patch: 2, Rank: version.RankPost, Stem: "1.27.2.post1"},
		{Major: 1, Minor: 27, Patch: 0, Rank: version.RankFinal, Stem: "1.27.0"},
		{Major: 1, Minor: 27, Patch: 0, Rank: version.RankCandidate, Stem: "1.27.0rc1"},
		{Major: 1, Minor: 27, Patch: 1, Rank: version.RankFinal, Stem: "1.27.1"},
	}

	sorted := sortReleases(records)

	var stems []string
	for _, rec := range sorted {
		stems = append(stems, rec.Stem)
	}
	assert.Equal(t, []string{"1.27.0rc1", "1.27.0", "1.27.1", "1.27.2.post1"}, stems)

	// Input order is untouched.
	assert.Equal(t, "1.27.2.post1", records[0].Stem)
}
