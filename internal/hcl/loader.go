package hcl

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/jsentry/internal/config"
	"github.com/specialistvlad/jsentry/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL settings loader.
func NewLoader() *Loader {
	return &Loader{}
}

// settingsFile is the schema of jsentry.hcl. Every attribute is optional; an
// absent attribute decodes to an expression that evaluates to null.
type settingsFile struct {
	ProjectPath       hcl.Expression `hcl:"project_path,optional"`
	BuildArtifactsDir hcl.Expression `hcl:"build_artifacts_dir,optional"`
	DetailsFile       hcl.Expression `hcl:"details_file,optional"`
	ManifestFile      hcl.Expression `hcl:"manifest_file,optional"`
	CSSManifestFile   hcl.Expression `hcl:"css_manifest_file,optional"`
	TemplatesDir      hcl.Expression `hcl:"templates_dir,optional"`
	AssetsDir         hcl.Expression `hcl:"assets_dir,optional"`
	TemplateSuffix    hcl.Expression `hcl:"template_suffix,optional"`
	ScriptSuffix      hcl.Expression `hcl:"script_suffix,optional"`
	StyleSuffix       hcl.Expression `hcl:"style_suffix,optional"`
	EntryPattern      hcl.Expression `hcl:"entry_pattern,optional"`
	BuiltAssetsFolder hcl.Expression `hcl:"built_assets_folder,optional"`
	OtherAppPaths     hcl.Expression `hcl:"other_app_paths,optional"`
	AlwaysIncludeApps hcl.Expression `hcl:"always_include_apps,optional"`
}

// Load parses the settings file at path and translates it into overrides.
func (l *Loader) Load(ctx context.Context, path string, baseDir string) (*config.Overrides, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL settings loader started.", "path", path)

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var root settingsFile
	diags = gohcl.DecodeBody(file.Body, nil, &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	evalCtx := newEvalContext(baseDir)
	o := &config.Overrides{}

	strs := []struct {
		name string
		expr hcl.Expression
		dst  **string
	}{
		{"project_path", root.ProjectPath, &o.ProjectPath},
		{"build_artifacts_dir", root.BuildArtifactsDir, &o.BuildArtifactsDir},
		{"details_file", root.DetailsFile, &o.DetailsFile},
		{"manifest_file", root.ManifestFile, &o.ManifestFile},
		{"css_manifest_file", root.CSSManifestFile, &o.CSSManifestFile},
		{"templates_dir", root.TemplatesDir, &o.TemplatesDir},
		{"assets_dir", root.AssetsDir, &o.AssetsDir},
		{"template_suffix", root.TemplateSuffix, &o.TemplateSuffix},
		{"script_suffix", root.ScriptSuffix, &o.ScriptSuffix},
		{"style_suffix", root.StyleSuffix, &o.StyleSuffix},
		{"entry_pattern", root.EntryPattern, &o.EntryPattern},
		{"built_assets_folder", root.BuiltAssetsFolder, &o.BuiltAssetsFolder},
	}
	for _, s := range strs {
		val, err := evaluate(s.expr, evalCtx)
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate %s: %w", s.name, err)
		}
		if val.IsNull() {
			continue
		}
		var out string
		if err := decode(val, cty.String, &out); err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", s.name, err)
		}
		*s.dst = &out
	}

	others, err := evaluate(root.OtherAppPaths, evalCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate other_app_paths: %w", err)
	}
	if !others.IsNull() {
		var m map[string]string
		if err := decode(others, cty.Map(cty.String), &m); err != nil {
			return nil, fmt.Errorf("invalid value for other_app_paths: %w", err)
		}
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			o.OtherAppPaths = append(o.OtherAppPaths, config.AppPath{Key: k, Path: m[k]})
		}
	}

	always, err := evaluate(root.AlwaysIncludeApps, evalCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate always_include_apps: %w", err)
	}
	if !always.IsNull() {
		var list []string
		if err := decode(always, cty.List(cty.String), &list); err != nil {
			return nil, fmt.Errorf("invalid value for always_include_apps: %w", err)
		}
		if list == nil {
			list = []string{}
		}
		o.AlwaysIncludeApps = list
	}

	logger.Debug("HCL settings loaded.", "path", path)
	return o, nil
}

// newEvalContext exposes base_dir and the process environment to settings
// expressions, e.g. "${base_dir}/looplink/ui" or env.JSENTRY_PROJECT.
func newEvalContext(baseDir string) *hcl.EvalContext {
	envVals := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		envVals[k] = cty.StringVal(v)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"base_dir": cty.StringVal(baseDir),
			"env":      cty.ObjectVal(envVals),
		},
	}
}

func evaluate(expr hcl.Expression, evalCtx *hcl.EvalContext) (cty.Value, error) {
	if expr == nil {
		return cty.NullVal(cty.DynamicPseudoType), nil
	}
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return cty.NilVal, diags
	}
	return val, nil
}
