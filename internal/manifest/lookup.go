package manifest

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/specialistvlad/jsentry/internal/config"
	"github.com/specialistvlad/jsentry/internal/ordered"
)

// ErrManifestNotFound is returned when no manifest has been built yet.
var ErrManifestNotFound = errors.New("no webpack manifest found; did you run the bundler build?")

// EntryNotFoundError is returned when a manifest has no files for an entry.
type EntryNotFoundError struct {
	Entry string
}

func (e *EntryNotFoundError) Error() string {
	return fmt.Sprintf("no webpack manifest entry found for %q; is this a newly added entry point? Try restarting the bundler build", e.Entry)
}

// Load reads a manifest file.
func Load(file string) (*Manifest, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrManifestNotFound
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	m := ordered.New[[]string]()
	if err := m.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", file, err)
	}
	return m, nil
}

// Lookup returns the files of entry in the manifest at file, each prefixed
// with prefix as a URL path.
func Lookup(file, entry, prefix string) ([]string, error) {
	m, err := Load(file)
	if err != nil {
		return nil, err
	}

	files, _ := m.Get(entry)
	if len(files) == 0 {
		return nil, &EntryNotFoundError{Entry: entry}
	}

	out := make([]string, len(files))
	for i, f := range files {
		if prefix == "" {
			out[i] = f
			continue
		}
		out[i] = strings.TrimSuffix(prefix, "/") + "/" + f
	}
	return out, nil
}

// Bundles returns the script files of entry, or its stylesheets when css is
// set, as URLs under the built assets folder.
func Bundles(s config.Settings, entry string, css bool) ([]string, error) {
	file := s.ManifestPath()
	if css {
		file = s.CSSManifestPath()
	}
	return Lookup(file, entry, s.BuiltAssetsFolder)
}
