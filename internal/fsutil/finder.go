// Package fsutil provides the small set of file system helpers the build
// needs: directory listing, existence checks, suffix-based file discovery and
// all-or-nothing file writes.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FindFilesBySuffix recursively searches rootPath for regular files whose name
// ends with suffix and returns their full paths in lexical walk order. A
// missing rootPath yields no files and no error.
func FindFilesBySuffix(rootPath string, suffix string) ([]string, error) {
	if suffix == "" {
		panic("suffix must not be empty")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == rootPath && errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipAll
			}
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), suffix) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// ListDirs returns the names of the immediate subdirectories of path, sorted.
func ListDirs(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		}
	}
	return dirs, nil
}

// Exists reports whether anything exists at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// File is one pending write for WriteFilesAtomic.
type File struct {
	Path string
	Data []byte
}

// WriteFileAtomic writes data to a temporary file next to path and renames it
// into place, so readers never observe a half-written file.
func WriteFileAtomic(path string, data []byte, perm fs.FileMode) error {
	return WriteFilesAtomic([]File{{Path: path, Data: data}}, perm)
}

// WriteFilesAtomic stages every file in a temporary sibling and only renames
// them into place once all of them were written. A failed write leaves every
// target untouched.
func WriteFilesAtomic(files []File, perm fs.FileMode) error {
	staged := make([]string, 0, len(files))
	defer func() {
		for _, tmpName := range staged {
			os.Remove(tmpName)
		}
	}()

	for _, f := range files {
		tmpName, err := stage(f.Path, f.Data, perm)
		if err != nil {
			return err
		}
		staged = append(staged, tmpName)
	}
	for i, f := range files {
		if err := os.Rename(staged[i], f.Path); err != nil {
			return fmt.Errorf("failed to move %s into place: %w", f.Path, err)
		}
	}
	return nil
}

// stage writes data to a temporary file in the directory of path.
func stage(path string, data []byte, perm fs.FileMode) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to set mode on %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return tmpName, nil
}
