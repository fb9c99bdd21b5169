package entry

import "github.com/specialistvlad/jsentry/internal/ordered"

// Record is the bundler entry for one declared name.
type Record struct {
	Import   string `json:"import"`
	Filename string `json:"filename"`
}

// Partial is what a scan contributes to the build descriptor: the entries,
// the alias of every app that owns one, and those apps in first-seen order.
type Partial struct {
	Entries *ordered.Map[Record]
	Aliases *ordered.Map[string]
	Apps    []string
}

// NewPartial returns an empty Partial.
func NewPartial() *Partial {
	return &Partial{
		Entries: ordered.New[Record](),
		Aliases: ordered.New[string](),
	}
}

// Filename is the bundler output name of an entry. Production builds carry a
// content hash placeholder.
func Filename(entry, scriptSuffix string, prod bool) string {
	if prod {
		return entry + ".[contenthash]" + scriptSuffix
	}
	return entry + scriptSuffix
}

// FromResolution returns the Partial of a single resolved declaration.
func FromResolution(r Resolution, scriptSuffix string, prod bool) *Partial {
	p := NewPartial()
	p.Entries.Set(r.Entry, Record{Import: r.Import, Filename: Filename(r.Entry, scriptSuffix, prod)})
	p.Aliases.Set(r.App, r.AssetsDir)
	p.Apps = append(p.Apps, r.App)
	return p
}

// Merge folds other into p. A re-declared entry is accepted when it resolves
// to the same script; the first alias of an app wins; apps keep their
// first-seen position.
func (p *Partial) Merge(other *Partial) error {
	if other == nil {
		return nil
	}

	for name, rec := range other.Entries.All() {
		if existing, ok := p.Entries.Get(name); ok && existing.Import != rec.Import {
			return &ConflictError{Entry: name, Existing: existing.Import, Incoming: rec.Import}
		}
	}

	for name, rec := range other.Entries.All() {
		p.Entries.Set(name, rec)
	}
	for app, alias := range other.Aliases.All() {
		p.Aliases.SetIfAbsent(app, alias)
	}
	for _, app := range other.Apps {
		if !p.HasApp(app) {
			p.Apps = append(p.Apps, app)
		}
	}
	return nil
}

// HasApp reports whether app is already listed.
func (p *Partial) HasApp(app string) bool {
	for _, a := range p.Apps {
		if a == app {
			return true
		}
	}
	return false
}
