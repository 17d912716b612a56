// Package cerrors defines photopack's typed error taxonomy. The catalog,
// pack store and exporter report their errors as these kinds, so
// callers can branch with errors.Is/errors.As instead of string
// matching, the way the teacher wraps backend errors with fmt.Errorf
// and %w throughout util/library.go. The scanner's errors and the CLI's
// argument errors are plain fmt.Errorf values, not cerrors kinds.
package cerrors

import "fmt"

// Sentinel errors for preconditions that carry no extra data.
var (
	ErrSourceNotFound       = fmt.Errorf("source not found")
	ErrSourceNotDirectory   = fmt.Errorf("source is not a directory")
	ErrSourceAlreadyExists  = fmt.Errorf("source already registered")
	ErrSourceNotRegistered  = fmt.Errorf("source not registered")
	ErrVaultPathNotSet      = fmt.Errorf("vault path not configured")
	ErrVaultPathNotFound    = fmt.Errorf("vault path does not exist")
	ErrExportPathNotSet     = fmt.Errorf("export path not configured")
	ErrExportPathNotFound   = fmt.Errorf("export path does not exist")
	ErrSipsNotAvailable     = fmt.Errorf("HEIC encoder not available")
)

// DatabaseError wraps any catalog backend failure. Fatal to the current
// operation.
type DatabaseError struct{ Err error }

func (e *DatabaseError) Error() string { return fmt.Sprintf("database error: %v", e.Err) }
func (e *DatabaseError) Unwrap() error { return e.Err }

// IoError wraps a filesystem read/write failure.
type IoError struct{ Err error }

func (e *IoError) Error() string { return fmt.Sprintf("IO error: %v", e.Err) }
func (e *IoError) Unwrap() error { return e.Err }

// ImageError wraps a decode failure. Perceptual hashing continues by
// treating the hashes as absent; this type exists for logging/testing.
type ImageError struct{ Err error }

func (e *ImageError) Error() string { return fmt.Sprintf("image decode error: %v", e.Err) }
func (e *ImageError) Unwrap() error { return e.Err }

// ExifError wraps an EXIF parse failure. Scan continues with the EXIF
// field set absent.
type ExifError struct{ Err error }

func (e *ExifError) Error() string { return fmt.Sprintf("EXIF error: %v", e.Err) }
func (e *ExifError) Unwrap() error { return e.Err }

// GroupNotFound reports a lookup of a nonexistent duplicate group.
type GroupNotFound struct{ ID int64 }

func (e *GroupNotFound) Error() string { return fmt.Sprintf("group %d not found", e.ID) }

// UnsupportedFormat reports an extension outside the known PhotoFormat
// enum, surfaced only when a caller forces classification of a path.
type UnsupportedFormat struct{ Path string }

func (e *UnsupportedFormat) Error() string { return fmt.Sprintf("unsupported format: %s", e.Path) }

// ConversionFailed reports a HEIC conversion error from the external
// encoder.
type ConversionFailed struct {
	Path    string
	Message string
}

func (e *ConversionFailed) Error() string {
	return fmt.Sprintf("conversion failed for %s: %s", e.Path, e.Message)
}

// SchemaTooNew reports that the catalog database's schema_version
// exceeds what this binary knows how to read.
type SchemaTooNew struct {
	DB   string
	Code int
}

func (e *SchemaTooNew) Error() string {
	return fmt.Sprintf("catalog %q has schema_version %d, newer than this binary supports", e.DB, e.Code)
}
