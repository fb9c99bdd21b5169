package config

import "context"

// Loader is the interface for a format-specific settings file loader.
type Loader interface {
	// Load reads the settings file at path and returns the values it sets.
	// baseDir is exposed to the file so paths can be written relative to it.
	Load(ctx context.Context, path string, baseDir string) (*Overrides, error)
}

// Overrides holds the values a settings file sets. Nil fields keep the
// defaults.
type Overrides struct {
	ProjectPath       *string
	BuildArtifactsDir *string
	DetailsFile       *string
	ManifestFile      *string
	CSSManifestFile   *string
	TemplatesDir      *string
	AssetsDir         *string
	TemplateSuffix    *string
	ScriptSuffix      *string
	StyleSuffix       *string
	EntryPattern      *string
	BuiltAssetsFolder *string

	// OtherAppPaths lists apps living outside the project path, in file order.
	OtherAppPaths []AppPath
	// AlwaysIncludeApps replaces the default list when non-nil.
	AlwaysIncludeApps []string
}

// AppPath is a statically configured app key and its directory.
type AppPath struct {
	Key  string
	Path string
}
