package entry

import "fmt"

// UnknownAppError is returned when a declaration's prefix matches no app.
type UnknownAppError struct {
	Entry    string
	Template string
}

func (e *UnknownAppError) Error() string {
	return fmt.Sprintf("JS Entry not found: {%% js_entry %q %%} in %s", e.Entry, e.Template)
}

// MissingAssetError is returned when a resolved entry's script does not exist.
type MissingAssetError struct {
	Entry string
	Path  string
}

func (e *MissingAssetError) Error() string {
	return fmt.Sprintf("File not found: %s", e.Path)
}

// ConflictError is returned when one entry name resolves to two different
// scripts.
type ConflictError struct {
	Entry    string
	Existing string
	Incoming string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("entry %q resolves to both %s and %s", e.Entry, e.Existing, e.Incoming)
}
