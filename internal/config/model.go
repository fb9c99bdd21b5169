package config

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/specialistvlad/jsentry/internal/ordered"
)

// BaseAppName is the shared app every page depends on.
const BaseAppName = "base"

// DefaultEntryPattern matches {% js_entry "name" %} with single or double quotes.
const DefaultEntryPattern = `\{% js_entry ["']([/\w\-]+)["'] %\}`

// Settings is the complete configuration of one build invocation. Path
// fields are absolute once Resolve has run.
type Settings struct {
	ProjectPath       string
	BuildArtifactsDir string
	DetailsFile       string
	ManifestFile      string
	CSSManifestFile   string
	TemplatesDir      string
	AssetsDir         string
	TemplateSuffix    string
	ScriptSuffix      string
	StyleSuffix       string
	EntryPattern      string
	BuiltAssetsFolder string

	// OtherAppPaths are apps outside the standard layout. They are merged
	// into the discovered apps without the templates/assets check.
	OtherAppPaths *ordered.Map[string]
	// AlwaysIncludeApps are registered as aliases and apps-with-entries even
	// when no template declares an entry for them.
	AlwaysIncludeApps []string
}

// Default returns the settings of a standard project layout.
func Default() Settings {
	return Settings{
		ProjectPath:       filepath.Join("looplink", "ui"),
		BuildArtifactsDir: filepath.Join("webpack", "_build"),
		DetailsFile:       "js_entry.json",
		ManifestFile:      "manifest.json",
		CSSManifestFile:   "manifest.css.json",
		TemplatesDir:      "templates",
		AssetsDir:         "assets",
		TemplateSuffix:    ".html",
		ScriptSuffix:      ".js",
		StyleSuffix:       ".css",
		EntryPattern:      DefaultEntryPattern,
		BuiltAssetsFolder: "webpack",
		OtherAppPaths:     ordered.New[string](),
		AlwaysIncludeApps: []string{BaseAppName},
	}
}

// Apply returns a copy of s with every value set in o replacing the default.
func (s Settings) Apply(o *Overrides) Settings {
	if o == nil {
		return s
	}
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&s.ProjectPath, o.ProjectPath)
	set(&s.BuildArtifactsDir, o.BuildArtifactsDir)
	set(&s.DetailsFile, o.DetailsFile)
	set(&s.ManifestFile, o.ManifestFile)
	set(&s.CSSManifestFile, o.CSSManifestFile)
	set(&s.TemplatesDir, o.TemplatesDir)
	set(&s.AssetsDir, o.AssetsDir)
	set(&s.TemplateSuffix, o.TemplateSuffix)
	set(&s.ScriptSuffix, o.ScriptSuffix)
	set(&s.StyleSuffix, o.StyleSuffix)
	set(&s.EntryPattern, o.EntryPattern)
	set(&s.BuiltAssetsFolder, o.BuiltAssetsFolder)

	if len(o.OtherAppPaths) > 0 {
		others := ordered.New[string]()
		if s.OtherAppPaths != nil {
			others = s.OtherAppPaths.Clone()
		}
		for _, ap := range o.OtherAppPaths {
			others.Set(ap.Key, ap.Path)
		}
		s.OtherAppPaths = others
	}
	if o.AlwaysIncludeApps != nil {
		s.AlwaysIncludeApps = append([]string(nil), o.AlwaysIncludeApps...)
	}
	return s
}

// Resolve returns a copy of s with relative paths anchored at baseDir.
func (s Settings) Resolve(baseDir string) (Settings, error) {
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return s, fmt.Errorf("failed to resolve base directory %q: %w", baseDir, err)
	}
	abs := func(p string) string {
		if filepath.IsAbs(p) {
			return filepath.Clean(p)
		}
		return filepath.Join(base, p)
	}

	s.ProjectPath = abs(s.ProjectPath)
	s.BuildArtifactsDir = abs(s.BuildArtifactsDir)

	others := ordered.New[string]()
	if s.OtherAppPaths != nil {
		for k, p := range s.OtherAppPaths.All() {
			others.Set(k, abs(p))
		}
	}
	s.OtherAppPaths = others
	return s, nil
}

// Validate checks the settings for values the build cannot run with.
func (s Settings) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"project_path", s.ProjectPath},
		{"build_artifacts_dir", s.BuildArtifactsDir},
		{"details_file", s.DetailsFile},
		{"manifest_file", s.ManifestFile},
		{"css_manifest_file", s.CSSManifestFile},
		{"templates_dir", s.TemplatesDir},
		{"assets_dir", s.AssetsDir},
		{"template_suffix", s.TemplateSuffix},
		{"script_suffix", s.ScriptSuffix},
		{"style_suffix", s.StyleSuffix},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%s must not be empty", r.name)
		}
	}

	if _, err := s.Pattern(); err != nil {
		return err
	}
	return nil
}

// Pattern compiles EntryPattern. The pattern must have exactly one capture
// group, which yields the entry name.
func (s Settings) Pattern() (*regexp.Regexp, error) {
	re, err := regexp.Compile(s.EntryPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid entry_pattern: %w", err)
	}
	if re.NumSubexp() != 1 {
		return nil, fmt.Errorf("entry_pattern must have exactly one capture group, found %d", re.NumSubexp())
	}
	return re, nil
}

// DetailsPath is where the build descriptor is written.
func (s Settings) DetailsPath() string {
	return filepath.Join(s.BuildArtifactsDir, s.DetailsFile)
}

// ManifestPath is where the script manifest is written.
func (s Settings) ManifestPath() string {
	return filepath.Join(s.BuildArtifactsDir, s.ManifestFile)
}

// CSSManifestPath is where the style manifest is written.
func (s Settings) CSSManifestPath() string {
	return filepath.Join(s.BuildArtifactsDir, s.CSSManifestFile)
}
