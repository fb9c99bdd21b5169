package descriptor

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/jsentry/internal/config"
	"github.com/specialistvlad/jsentry/internal/ctxlog"
	"github.com/specialistvlad/jsentry/internal/entry"
	"github.com/specialistvlad/jsentry/internal/ordered"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// newLayout builds:
//
//	ui/base/assets/common_entry.js
//	ui/home/templates/index.html      -> home/index_entry
//	ui/home/assets/index_entry.js
//	ui/kit/shop/templates/cart.html   -> kit/shop/cart_entry
//	ui/kit/shop/assets/cart_entry.js
func newLayout(t *testing.T) config.Settings {
	t.Helper()
	root := t.TempDir()
	ui := filepath.Join(root, "ui")

	write(t, filepath.Join(ui, "base", "assets", "common_entry.js"), "")
	write(t, filepath.Join(ui, "home", "templates", "index.html"), `{% js_entry "home/index_entry" %}`)
	write(t, filepath.Join(ui, "home", "assets", "index_entry.js"), "")
	write(t, filepath.Join(ui, "kit", "shop", "templates", "cart.html"), `{% js_entry "kit/shop/cart_entry" %}`)
	write(t, filepath.Join(ui, "kit", "shop", "assets", "cart_entry.js"), "")

	s := config.Default()
	s.ProjectPath = ui
	s.BuildArtifactsDir = filepath.Join(root, "webpack", "_build")
	return s
}

func TestAssemble_AlwaysIncludeAppsLead(t *testing.T) {
	t.Parallel()

	s := newLayout(t)
	d, err := Assemble(context.Background(), s, false)
	require.NoError(t, err)

	assert.Equal(t, []string{"base", "home", "kit/shop"}, d.AppsWithEntries)
	assert.Equal(t, []string{"base", "home", "kit/shop"}, d.Aliases.Keys())
	assert.Equal(t, []string{"home/index_entry", "kit/shop/cart_entry"}, d.Entries.Keys())
	assert.Equal(t, []string{"base", "home", "kit/shop"}, d.AllAppPaths.Keys())

	alias, _ := d.Aliases.Get("base")
	assert.Equal(t, filepath.Join(s.ProjectPath, "base", "assets"), alias)
	assert.False(t, d.Entries.Has("base/common_entry"), "always-include apps do not invent entries")
}

func TestAssemble_AlwaysIncludeAppWithEntriesIsListedOnce(t *testing.T) {
	t.Parallel()

	s := newLayout(t)
	write(t, filepath.Join(s.ProjectPath, "home", "templates", "more.html"), `{% js_entry "base/common_entry" %}`)

	d, err := Assemble(context.Background(), s, true)
	require.NoError(t, err)

	assert.Equal(t, []string{"base", "home", "kit/shop"}, d.AppsWithEntries)
	rec, ok := d.Entries.Get("base/common_entry")
	require.True(t, ok)
	assert.Equal(t, "base/common_entry.[contenthash].js", rec.Filename)
}

func TestAssemble_MissingAlwaysIncludeAppWarns(t *testing.T) {
	t.Parallel()

	s := newLayout(t)
	s.AlwaysIncludeApps = []string{"ghost", "base"}

	var logs bytes.Buffer
	ctx := ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(&logs, nil)))

	d, err := Assemble(ctx, s, false)
	require.NoError(t, err)

	assert.Equal(t, []string{"base", "home", "kit/shop"}, d.AppsWithEntries)
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "app=ghost")
}

func TestBuild_WritesDescriptor(t *testing.T) {
	t.Parallel()

	s := newLayout(t)
	_, err := Build(context.Background(), s, false)
	require.NoError(t, err)

	got, err := Read(s.DetailsPath())
	require.NoError(t, err)

	rec, ok := got.Entries.Get("kit/shop/cart_entry")
	require.True(t, ok)
	assert.Equal(t, entry.Record{
		Import:   filepath.Join(s.ProjectPath, "kit", "shop", "assets", "cart_entry.js"),
		Filename: "kit/shop/cart_entry.js",
	}, rec)
	assert.Equal(t, []string{"base", "home", "kit/shop"}, got.AppsWithEntries)

	raw, err := os.ReadFile(s.DetailsPath())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  \"entries\": {\n")
	assert.Contains(t, string(raw), `"filename": "kit/shop/cart_entry.js"`)
}

func TestBuild_FatalErrorWritesNothing(t *testing.T) {
	t.Parallel()

	s := newLayout(t)
	write(t, filepath.Join(s.ProjectPath, "home", "templates", "bad.html"), `{% js_entry "nowhere/entry" %}`)

	_, err := Build(context.Background(), s, false)
	var unknown *entry.UnknownAppError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "nowhere/entry", unknown.Entry)

	_, statErr := os.Stat(s.DetailsPath())
	assert.True(t, os.IsNotExist(statErr))
}

func TestBuild_MissingProjectPath(t *testing.T) {
	t.Parallel()

	s := config.Default()
	s.ProjectPath = filepath.Join(t.TempDir(), "missing")
	s.BuildArtifactsDir = t.TempDir()

	_, err := Build(context.Background(), s, false)
	require.Error(t, err)
}

func TestEncode_EmptyDescriptor(t *testing.T) {
	t.Parallel()

	data, err := Encode(NewBuilder(ordered.New[string]()).Descriptor())
	require.NoError(t, err)
	assert.JSONEq(t, `{"entries":{},"aliases":{},"appsWithEntries":[],"allAppPaths":{}}`, string(data))
}
