// Package descriptor assembles the build descriptor: the single JSON document
// the bundler configuration reads to learn its entries and import aliases,
// and that the server side reads for app paths.
package descriptor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/specialistvlad/jsentry/internal/entry"
	"github.com/specialistvlad/jsentry/internal/fsutil"
	"github.com/specialistvlad/jsentry/internal/ordered"
)

// Descriptor is the complete result of one scan.
type Descriptor struct {
	Entries         *ordered.Map[entry.Record] `json:"entries"`
	Aliases         *ordered.Map[string]       `json:"aliases"`
	AppsWithEntries []string                   `json:"appsWithEntries"`
	AllAppPaths     *ordered.Map[string]       `json:"allAppPaths"`
}

// Builder accumulates a Descriptor. Always-include apps are registered first
// so they lead the alias and app order; scan results are merged on top.
type Builder struct {
	acc      *entry.Partial
	allPaths *ordered.Map[string]
}

// NewBuilder starts a descriptor for the given app paths.
func NewBuilder(allAppPaths *ordered.Map[string]) *Builder {
	return &Builder{acc: entry.NewPartial(), allPaths: allAppPaths}
}

// Include registers app as having entries, with its alias pointing at
// assetsDir, whether or not any template declares an entry for it.
func (b *Builder) Include(app, assetsDir string) {
	p := entry.NewPartial()
	p.Aliases.Set(app, assetsDir)
	p.Apps = []string{app}
	// A Partial without entries cannot conflict.
	_ = b.acc.Merge(p)
}

// Merge folds a scan result into the descriptor.
func (b *Builder) Merge(p *entry.Partial) error {
	return b.acc.Merge(p)
}

// Descriptor returns the assembled descriptor.
func (b *Builder) Descriptor() *Descriptor {
	apps := append([]string{}, b.acc.Apps...)
	allPaths := b.allPaths
	if allPaths == nil {
		allPaths = ordered.New[string]()
	}
	return &Descriptor{
		Entries:         b.acc.Entries.Clone(),
		Aliases:         b.acc.Aliases.Clone(),
		AppsWithEntries: apps,
		AllAppPaths:     allPaths.Clone(),
	}
}

// Encode renders d as indented JSON.
func Encode(d *Descriptor) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("failed to encode build descriptor: %w", err)
	}
	return buf.Bytes(), nil
}

// Write replaces the descriptor file at path.
func Write(path string, d *Descriptor) error {
	data, err := Encode(d)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, 0o644)
}

// Read loads a descriptor written by Write.
func Read(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read build descriptor: %w", err)
	}
	d := &Descriptor{}
	if err := json.Unmarshal(data, d); err != nil {
		return nil, fmt.Errorf("failed to parse build descriptor %s: %w", path, err)
	}
	return d, nil
}
