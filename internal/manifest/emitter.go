package manifest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/jsentry/internal/config"
	"github.com/specialistvlad/jsentry/internal/ctxlog"
	"github.com/specialistvlad/jsentry/internal/fsutil"
	"github.com/specialistvlad/jsentry/internal/ordered"
)

// Manifest maps an entrypoint name to its files in load order.
type Manifest = ordered.Map[[]string]

// Emitter writes the script and style manifests of a finished build.
type Emitter struct {
	Dir          string
	ScriptFile   string
	StyleFile    string
	ScriptSuffix string
	StyleSuffix  string
}

// NewEmitter returns an Emitter writing to the settings' build artifacts dir.
func NewEmitter(s config.Settings) *Emitter {
	return &Emitter{
		Dir:          s.BuildArtifactsDir,
		ScriptFile:   s.ManifestFile,
		StyleFile:    s.CSSManifestFile,
		ScriptSuffix: s.ScriptSuffix,
		StyleSuffix:  s.StyleSuffix,
	}
}

// Collect partitions every entrypoint's files into scripts and stylesheets,
// keeping the order chunks and files were visited. Every entrypoint appears
// in both manifests, with an empty list when it has no such files.
func Collect(g *Graph, scriptSuffix, styleSuffix string) (scripts, styles *Manifest) {
	scripts = ordered.New[[]string]()
	styles = ordered.New[[]string]()
	for _, ep := range g.Entrypoints {
		js := []string{}
		css := []string{}
		for _, chunk := range ep.Chunks {
			for _, file := range chunk.Files {
				if strings.HasSuffix(file, scriptSuffix) {
					js = append(js, file)
				}
				if strings.HasSuffix(file, styleSuffix) {
					css = append(css, file)
				}
			}
		}
		scripts.Set(ep.Name, js)
		styles.Set(ep.Name, css)
	}
	return scripts, styles
}

// Emit writes both manifests, replacing any previous ones.
func (e *Emitter) Emit(ctx context.Context, g *Graph) error {
	logger := ctxlog.FromContext(ctx)

	scripts, styles := Collect(g, e.ScriptSuffix, e.StyleSuffix)

	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create build artifacts directory: %w", err)
	}
	scriptData, err := encodeManifest(e.ScriptPath(), scripts)
	if err != nil {
		return err
	}
	styleData, err := encodeManifest(e.StylePath(), styles)
	if err != nil {
		return err
	}
	err = fsutil.WriteFilesAtomic([]fsutil.File{
		{Path: e.ScriptPath(), Data: scriptData},
		{Path: e.StylePath(), Data: styleData},
	}, 0o644)
	if err != nil {
		return err
	}

	logger.Info("Manifests written.", "entrypoints", len(g.Entrypoints), "scripts", e.ScriptPath(), "styles", e.StylePath())
	return nil
}

// Tap runs Emit as a post-build hook. done is called exactly once, with the
// emission error if there was one, even when emission panics.
func (e *Emitter) Tap(ctx context.Context, g *Graph, done func(error)) {
	var err error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("manifest emission panicked: %v", r)
		}
		done(err)
	}()
	err = e.Emit(ctx, g)
}

// ScriptPath is the path of the script manifest.
func (e *Emitter) ScriptPath() string {
	return filepath.Join(e.Dir, e.ScriptFile)
}

// StylePath is the path of the style manifest.
func (e *Emitter) StylePath() string {
	return filepath.Join(e.Dir, e.StyleFile)
}

func encodeManifest(path string, m *Manifest) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("failed to encode manifest %s: %w", path, err)
	}
	return buf.Bytes(), nil
}
