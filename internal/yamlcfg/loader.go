// Package yamlcfg provides the YAML implementation of config.Loader for
// projects that keep their build settings in jsentry.yml.
//
// String values may reference ${base_dir} and ${env.NAME}; both are expanded
// in the decoded values, never in the document text.
package yamlcfg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/specialistvlad/jsentry/internal/config"
	"github.com/specialistvlad/jsentry/internal/ctxlog"
	"gopkg.in/yaml.v3"
)

// Loader is the YAML-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new YAML settings loader.
func NewLoader() *Loader {
	return &Loader{}
}

type settingsFile struct {
	ProjectPath       *string   `yaml:"project_path"`
	BuildArtifactsDir *string   `yaml:"build_artifacts_dir"`
	DetailsFile       *string   `yaml:"details_file"`
	ManifestFile      *string   `yaml:"manifest_file"`
	CSSManifestFile   *string   `yaml:"css_manifest_file"`
	TemplatesDir      *string   `yaml:"templates_dir"`
	AssetsDir         *string   `yaml:"assets_dir"`
	TemplateSuffix    *string   `yaml:"template_suffix"`
	ScriptSuffix      *string   `yaml:"script_suffix"`
	StyleSuffix       *string   `yaml:"style_suffix"`
	EntryPattern      *string   `yaml:"entry_pattern"`
	BuiltAssetsFolder *string   `yaml:"built_assets_folder"`
	OtherAppPaths     yaml.Node `yaml:"other_app_paths"`
	AlwaysIncludeApps *[]string `yaml:"always_include_apps"`
}

var placeholderRegex = regexp.MustCompile(`\$\{\s*(base_dir|env\.[A-Za-z_][A-Za-z0-9_]*)\s*\}`)

// Load reads the settings file at path and translates it into overrides.
func (l *Loader) Load(ctx context.Context, path string, baseDir string) (*config.Overrides, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML settings loader started.", "path", path)

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	var file settingsFile
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML file %s: %w", path, err)
	}

	o := &config.Overrides{
		ProjectPath:       file.ProjectPath,
		BuildArtifactsDir: file.BuildArtifactsDir,
		DetailsFile:       file.DetailsFile,
		ManifestFile:      file.ManifestFile,
		CSSManifestFile:   file.CSSManifestFile,
		TemplatesDir:      file.TemplatesDir,
		AssetsDir:         file.AssetsDir,
		TemplateSuffix:    file.TemplateSuffix,
		ScriptSuffix:      file.ScriptSuffix,
		StyleSuffix:       file.StyleSuffix,
		EntryPattern:      file.EntryPattern,
		BuiltAssetsFolder: file.BuiltAssetsFolder,
	}
	for _, field := range []*string{
		o.ProjectPath, o.BuildArtifactsDir, o.DetailsFile, o.ManifestFile,
		o.CSSManifestFile, o.TemplatesDir, o.AssetsDir, o.TemplateSuffix,
		o.ScriptSuffix, o.StyleSuffix, o.EntryPattern, o.BuiltAssetsFolder,
	} {
		if field != nil {
			*field = expand(*field, baseDir)
		}
	}
	if file.AlwaysIncludeApps != nil {
		o.AlwaysIncludeApps = make([]string, 0, len(*file.AlwaysIncludeApps))
		for _, app := range *file.AlwaysIncludeApps {
			o.AlwaysIncludeApps = append(o.AlwaysIncludeApps, expand(app, baseDir))
		}
	}

	others, err := appPaths(&file.OtherAppPaths)
	if err != nil {
		return nil, fmt.Errorf("invalid value for other_app_paths in %s: %w", path, err)
	}
	for i := range others {
		others[i].Path = expand(others[i].Path, baseDir)
	}
	o.OtherAppPaths = others

	logger.Debug("YAML settings loaded.", "path", path)
	return o, nil
}

// appPaths reads a mapping node, keeping the keys in document order.
func appPaths(node *yaml.Node) ([]config.AppPath, error) {
	if node.Kind == 0 {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping of app key to path", node.Line)
	}

	var out []config.AppPath
	for i := 0; i+1 < len(node.Content); i += 2 {
		var key, path string
		if err := node.Content[i].Decode(&key); err != nil {
			return nil, err
		}
		if err := node.Content[i+1].Decode(&path); err != nil {
			return nil, fmt.Errorf("app %q: %w", key, err)
		}
		out = append(out, config.AppPath{Key: key, Path: path})
	}
	return out, nil
}

// expand substitutes ${base_dir} and ${env.NAME} placeholders in one value.
func expand(value, baseDir string) string {
	return placeholderRegex.ReplaceAllStringFunc(value, func(match string) string {
		name := placeholderRegex.FindStringSubmatch(match)[1]
		if name == "base_dir" {
			return baseDir
		}
		return os.Getenv(strings.TrimPrefix(name, "env."))
	})
}
