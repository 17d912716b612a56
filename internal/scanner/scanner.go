// Package scanner enumerates photo files under a registered source
// directory, grounded on the teacher's util/import.go WalkDir (same
// skip-dotfiles, skip-per-entry-error shape), upgraded to
// path/filepath.WalkDir per spec.md §4.5's expansion note.
package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jterrazz/photopack/internal/model"
)

// Entry describes one file found under a source directory.
type Entry struct {
	Path   string
	Size   int64
	Mtime  int64 // epoch seconds
	Format model.PhotoFormat
}

// Scan walks root recursively. Regular files whose extension matches a
// known PhotoFormat are returned; files with unknown extensions are
// skipped silently. Errors on individual directory entries are skipped;
// if root itself is inaccessible, Scan returns an error.
func Scan(root string) ([]Entry, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("scan root %q inaccessible: %w", root, err)
	}

	var entries []Entry
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Per-entry error: skip this entry, keep walking.
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		format, ok := model.FormatFromExtension(filepath.Ext(d.Name()))
		if !ok {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		entries = append(entries, Entry{
			Path:   path,
			Size:   info.Size(),
			Mtime:  info.ModTime().Unix(),
			Format: format,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan root %q: %w", root, err)
	}
	return entries, nil
}
