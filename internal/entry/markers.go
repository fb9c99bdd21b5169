package entry

import (
	"iter"
	"regexp"
)

// Declaration is one entry marker found in a template.
type Declaration struct {
	Name     string
	Template string
}

// Markers yields the first capture group of every non-overlapping match of
// pattern in content, in order of appearance. Each range over the sequence
// starts again from the beginning of content.
func Markers(pattern *regexp.Regexp, content []byte) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, loc := range pattern.FindAllSubmatchIndex(content, -1) {
			if len(loc) < 4 || loc[2] < 0 {
				continue
			}
			if !yield(string(content[loc[2]:loc[3]])) {
				return
			}
		}
	}
}

// Declarations yields the declarations of one template file.
func Declarations(pattern *regexp.Regexp, template string, content []byte) iter.Seq[Declaration] {
	return func(yield func(Declaration) bool) {
		for name := range Markers(pattern, content) {
			if !yield(Declaration{Name: name, Template: template}) {
				return
			}
		}
	}
}
