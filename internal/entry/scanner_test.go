package entry

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/jsentry/internal/config"
	"github.com/specialistvlad/jsentry/internal/ordered"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// project lays out a base app and a kit app under a temp root.
type project struct {
	root string
	apps *ordered.Map[string]
}

func newProject(t *testing.T) *project {
	t.Helper()
	root := t.TempDir()
	apps := ordered.New[string]()
	apps.Set("base", filepath.Join(root, "base"))
	apps.Set("kit/foo", filepath.Join(root, "kit", "foo"))
	touch(t, filepath.Join(root, "base", "assets", "common_entry.js"))
	touch(t, filepath.Join(root, "kit", "foo", "assets", "bar_entry.js"))
	return &project{root: root, apps: apps}
}

func (p *project) template(t *testing.T, rel, content string) string {
	t.Helper()
	path := filepath.Join(p.root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestScanner(t *testing.T, apps *ordered.Map[string], prod bool) *Scanner {
	t.Helper()
	s, err := NewScanner(config.Default(), apps, prod)
	require.NoError(t, err)
	return s
}

func TestScanDir_RecordsEntry(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		prod     bool
		filename string
	}{
		{name: "development mode", prod: false, filename: "base/common_entry.js"},
		{name: "production mode", prod: true, filename: "base/common_entry.[contenthash].js"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			p := newProject(t)
			p.template(t, "base/templates/base.html", `{% js_entry "base/common_entry" %}`)

			got, err := newTestScanner(t, p.apps, tc.prod).ScanDir(context.Background(), filepath.Join(p.root, "base", "templates"))
			require.NoError(t, err)

			rec, ok := got.Entries.Get("base/common_entry")
			require.True(t, ok)
			want := Record{
				Import:   filepath.Join(p.root, "base", "assets", "common_entry.js"),
				Filename: tc.filename,
			}
			if diff := cmp.Diff(want, rec); diff != "" {
				t.Errorf("Record mismatch (-want +got):\n%s", diff)
			}

			alias, ok := got.Aliases.Get("base")
			require.True(t, ok)
			assert.Equal(t, filepath.Join(p.root, "base", "assets"), alias)
			assert.Equal(t, []string{"base"}, got.Apps)
		})
	}
}

func TestScanDir_RecursesAndIgnoresOtherFiles(t *testing.T) {
	t.Parallel()

	p := newProject(t)
	p.template(t, "base/templates/a/b/deep.html", `{% js_entry 'kit/foo/bar_entry' %}`)
	p.template(t, "base/templates/notes.txt", `{% js_entry "nope/never" %}`)

	got, err := newTestScanner(t, p.apps, false).ScanDir(context.Background(), filepath.Join(p.root, "base", "templates"))
	require.NoError(t, err)

	assert.Equal(t, []string{"kit/foo/bar_entry"}, got.Entries.Keys())
	assert.Equal(t, []string{"kit/foo"}, got.Apps)
}

func TestScanDir_MissingDirectory(t *testing.T) {
	t.Parallel()

	p := newProject(t)
	got, err := newTestScanner(t, p.apps, false).ScanDir(context.Background(), filepath.Join(p.root, "base", "templates"))
	require.NoError(t, err)
	assert.Equal(t, 0, got.Entries.Len())
	assert.Empty(t, got.Apps)
}

func TestScanDir_UnknownApp(t *testing.T) {
	t.Parallel()

	p := newProject(t)
	tpl := p.template(t, "base/templates/page.html", `{% js_entry "base/common_entry" %}{% js_entry "ghost/entry" %}`)

	_, err := newTestScanner(t, p.apps, false).ScanDir(context.Background(), filepath.Join(p.root, "base", "templates"))

	var unknown *UnknownAppError
	require.True(t, errors.As(err, &unknown), "expected UnknownAppError, got %v", err)
	assert.Equal(t, "ghost/entry", unknown.Entry)
	assert.Equal(t, tpl, unknown.Template)
}

func TestScanDir_MissingAsset(t *testing.T) {
	t.Parallel()

	p := newProject(t)
	p.template(t, "base/templates/page.html", `{% js_entry "kit/foo/gone" %}`)

	_, err := newTestScanner(t, p.apps, false).ScanDir(context.Background(), filepath.Join(p.root, "base", "templates"))

	var missing *MissingAssetError
	require.True(t, errors.As(err, &missing), "expected MissingAssetError, got %v", err)
	assert.Equal(t, filepath.Join(p.root, "kit", "foo", "assets", "gone.js"), missing.Path)
}

func TestScanApps_IsIdempotentAcrossTemplates(t *testing.T) {
	t.Parallel()

	p := newProject(t)
	same := `{% js_entry "base/common_entry" %}`
	p.template(t, "base/templates/one.html", same)
	p.template(t, "base/templates/two.html", same+same)
	p.template(t, "kit/foo/templates/page.html", same+`{% js_entry "kit/foo/bar_entry" %}`)

	got, err := newTestScanner(t, p.apps, false).ScanApps(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"base/common_entry", "kit/foo/bar_entry"}, got.Entries.Keys())
	assert.Equal(t, []string{"base", "kit/foo"}, got.Aliases.Keys())
	assert.Equal(t, []string{"base", "kit/foo"}, got.Apps)
}

func TestPartial_MergeRejectsConflicts(t *testing.T) {
	t.Parallel()

	a := FromResolution(Resolution{Entry: "base/x", App: "base", AssetsDir: "/a/assets", Import: "/a/assets/x.js"}, ".js", false)
	b := FromResolution(Resolution{Entry: "base/x", App: "base", AssetsDir: "/b/assets", Import: "/b/assets/x.js"}, ".js", false)

	err := a.Merge(b)
	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "/a/assets/x.js", conflict.Existing)
	assert.Equal(t, "/b/assets/x.js", conflict.Incoming)

	rec, _ := a.Entries.Get("base/x")
	assert.Equal(t, "/a/assets/x.js", rec.Import, "a failed merge leaves the receiver unchanged")
}

func TestPartial_MergeFirstAliasWins(t *testing.T) {
	t.Parallel()

	a := NewPartial()
	a.Aliases.Set("base", "/first")
	a.Apps = []string{"base"}

	b := FromResolution(Resolution{Entry: "base/y", App: "base", AssetsDir: "/second", Import: "/second/y.js"}, ".js", true)
	require.NoError(t, a.Merge(b))

	alias, _ := a.Aliases.Get("base")
	assert.Equal(t, "/first", alias)
	assert.Equal(t, []string{"base"}, a.Apps)
	rec, _ := a.Entries.Get("base/y")
	assert.Equal(t, "base/y.[contenthash].js", rec.Filename)
	require.NoError(t, a.Merge(nil))
}
