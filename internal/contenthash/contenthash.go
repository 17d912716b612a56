// Package contenthash streams a file's bytes through SHA-256 using a
// fixed-size buffer, grounded on the teacher's util/import.go HashFile
// (which does the same with crypto/sha256 + io.Copy, minus the
// intermediate base64 encoding the teacher used — photopack persists
// lowercase hex, per spec.md §6).
package contenthash

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"github.com/jterrazz/photopack/internal/cerrors"
)

// bufSize is the fixed read-buffer size; io.CopyBuffer reuses it across
// the whole stream so memory use is independent of file size.
const bufSize = 64 * 1024

// HashFile returns the lowercase hex SHA-256 of the file at path.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", &cerrors.IoError{Err: err}
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, bufSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", &cerrors.IoError{Err: err}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
