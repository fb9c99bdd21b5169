// Package manifest turns a finished bundler build into the chunk and style
// manifests the page renderer reads, and answers bundle lookups against
// those manifests.
package manifest

// Graph is the entrypoint to chunk to file graph of a finished build.
type Graph struct {
	Entrypoints []Entrypoint
}

// Entrypoint is a named bundle root and the chunks it needs, in load order.
type Entrypoint struct {
	Name   string
	Chunks []Chunk
}

// Chunk is a unit of bundler output and the files it was emitted as.
type Chunk struct {
	ID    string
	Files []string
}
