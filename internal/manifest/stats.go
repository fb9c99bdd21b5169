package manifest

import (
	"fmt"
	"io"
	"os"

	"github.com/tidwall/gjson"
)

// ReadStatsFile reads a bundler stats document from path.
func ReadStatsFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stats file: %w", err)
	}
	defer f.Close()

	g, err := ReadStats(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// ReadStats parses a webpack JSON stats document. Entrypoints keep the order
// of the "entrypoints" object; each entrypoint's chunk ids are resolved
// through the top-level "chunks" array.
func ReadStats(r io.Reader) (*Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read stats: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("stats is not valid JSON")
	}

	root := gjson.ParseBytes(data)
	entrypoints := root.Get("entrypoints")
	if !entrypoints.IsObject() {
		return nil, fmt.Errorf("stats has no entrypoints object; was the bundler run with --json?")
	}

	chunks := make(map[string][]string)
	for _, c := range root.Get("chunks").Array() {
		id := c.Get("id")
		if !id.Exists() {
			return nil, fmt.Errorf("stats chunk without id")
		}
		files := []string{}
		for _, f := range c.Get("files").Array() {
			files = append(files, f.String())
		}
		chunks[id.String()] = files
	}

	g := &Graph{}
	var walkErr error
	entrypoints.ForEach(func(name, ep gjson.Result) bool {
		entry := Entrypoint{Name: name.String()}
		for _, id := range ep.Get("chunks").Array() {
			files, ok := chunks[id.String()]
			if !ok {
				walkErr = fmt.Errorf("entrypoint %q references unknown chunk %s", name.String(), id.String())
				return false
			}
			entry.Chunks = append(entry.Chunks, Chunk{ID: id.String(), Files: files})
		}
		g.Entrypoints = append(g.Entrypoints, entry)
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return g, nil
}
