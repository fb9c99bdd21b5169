package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/jsentry/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEmitter(t *testing.T) *Emitter {
	t.Helper()
	s := config.Default()
	s.BuildArtifactsDir = filepath.Join(t.TempDir(), "_build")
	return NewEmitter(s)
}

func TestCollect_PartitionsBySuffixInOrder(t *testing.T) {
	t.Parallel()

	g := &Graph{Entrypoints: []Entrypoint{
		{Name: "x", Chunks: []Chunk{
			{ID: "1", Files: []string{"x.a1b2.js", "vendor.c3d4.js"}},
			{ID: "2", Files: []string{"x.e5f6.css", "x.png"}},
		}},
		{Name: "y"},
	}}

	scripts, styles := Collect(g, ".js", ".css")

	js, _ := scripts.Get("x")
	css, _ := styles.Get("x")
	assert.Equal(t, []string{"x.a1b2.js", "vendor.c3d4.js"}, js)
	assert.Equal(t, []string{"x.e5f6.css"}, css)

	yJS, ok := scripts.Get("y")
	require.True(t, ok)
	assert.Empty(t, yJS)
	assert.Equal(t, []string{"x", "y"}, styles.Keys())
}

func TestEmit_WritesBothManifests(t *testing.T) {
	t.Parallel()

	e := newTestEmitter(t)
	g := &Graph{Entrypoints: []Entrypoint{
		{Name: "zeta", Chunks: []Chunk{{ID: "1", Files: []string{"zeta.js"}}}},
		{Name: "alpha", Chunks: []Chunk{{ID: "2", Files: []string{"alpha.js", "alpha.css"}}}},
	}}

	require.NoError(t, e.Emit(context.Background(), g))

	scripts, err := os.ReadFile(e.ScriptPath())
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"zeta\": [\n    \"zeta.js\"\n  ],\n  \"alpha\": [\n    \"alpha.js\"\n  ]\n}\n", string(scripts))

	styles, err := os.ReadFile(e.StylePath())
	require.NoError(t, err)
	assert.JSONEq(t, `{"zeta": [], "alpha": ["alpha.css"]}`, string(styles))
}

func TestEmit_OverwritesPreviousManifest(t *testing.T) {
	t.Parallel()

	e := newTestEmitter(t)
	first := &Graph{Entrypoints: []Entrypoint{{Name: "old", Chunks: []Chunk{{ID: "1", Files: []string{"old.js"}}}}}}
	second := &Graph{Entrypoints: []Entrypoint{{Name: "new", Chunks: []Chunk{{ID: "1", Files: []string{"new.js"}}}}}}

	require.NoError(t, e.Emit(context.Background(), first))
	require.NoError(t, e.Emit(context.Background(), second))

	m, err := Load(e.ScriptPath())
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, m.Keys())
}

func TestEmit_FailedWriteKeepsPreviousPair(t *testing.T) {
	t.Parallel()

	e := newTestEmitter(t)
	first := &Graph{Entrypoints: []Entrypoint{{Name: "old", Chunks: []Chunk{{ID: "1", Files: []string{"old.js", "old.css"}}}}}}
	second := &Graph{Entrypoints: []Entrypoint{{Name: "new", Chunks: []Chunk{{ID: "1", Files: []string{"new.js", "new.css"}}}}}}
	require.NoError(t, e.Emit(context.Background(), first))

	stylePath := e.StylePath()
	e.StyleFile = filepath.Join("missing", "manifest.css.json")
	require.Error(t, e.Emit(context.Background(), second))

	scripts, err := Load(e.ScriptPath())
	require.NoError(t, err)
	assert.Equal(t, []string{"old"}, scripts.Keys())
	styles, err := Load(stylePath)
	require.NoError(t, err)
	assert.Equal(t, []string{"old"}, styles.Keys())

	leftovers, err := filepath.Glob(filepath.Join(e.Dir, ".*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers, "staged files are cleaned up")
}

func TestTap_CallsDoneExactlyOnce(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		calls := 0
		var got error
		newTestEmitter(t).Tap(context.Background(), &Graph{}, func(err error) {
			calls++
			got = err
		})
		assert.Equal(t, 1, calls)
		assert.NoError(t, got)
	})

	t.Run("write failure", func(t *testing.T) {
		t.Parallel()
		e := newTestEmitter(t)
		blocker := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(blocker, nil, 0o644))
		e.Dir = filepath.Join(blocker, "_build")

		calls := 0
		var got error
		e.Tap(context.Background(), &Graph{}, func(err error) {
			calls++
			got = err
		})
		assert.Equal(t, 1, calls)
		assert.Error(t, got)
	})

	t.Run("panic", func(t *testing.T) {
		t.Parallel()
		calls := 0
		var got error
		newTestEmitter(t).Tap(context.Background(), nil, func(err error) {
			calls++
			got = err
		})
		assert.Equal(t, 1, calls)
		require.Error(t, got)
		assert.Contains(t, got.Error(), "panicked")
	})
}
