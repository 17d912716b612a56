package model

import "strings"

// PhotoFormat identifies the on-disk encoding of a photo file.
type PhotoFormat string

const (
	FormatJpeg PhotoFormat = "jpeg"
	FormatPng  PhotoFormat = "png"
	FormatTiff PhotoFormat = "tiff"
	FormatWebp PhotoFormat = "webp"
	FormatHeic PhotoFormat = "heic"
	FormatCr2  PhotoFormat = "cr2"
	FormatCr3  PhotoFormat = "cr3"
	FormatNef  PhotoFormat = "nef"
	FormatArw  PhotoFormat = "arw"
	FormatOrf  PhotoFormat = "orf"
	FormatRaf  PhotoFormat = "raf"
	FormatRw2  PhotoFormat = "rw2"
	FormatDng  PhotoFormat = "dng"
)

// extensionFormats maps lowercase, dot-less extensions to their format.
var extensionFormats = map[string]PhotoFormat{
	"jpg":  FormatJpeg,
	"jpeg": FormatJpeg,
	"png":  FormatPng,
	"tif":  FormatTiff,
	"tiff": FormatTiff,
	"webp": FormatWebp,
	"heic": FormatHeic,
	"heif": FormatHeic,
	"cr2":  FormatCr2,
	"cr3":  FormatCr3,
	"nef":  FormatNef,
	"arw":  FormatArw,
	"orf":  FormatOrf,
	"raf":  FormatRaf,
	"rw2":  FormatRw2,
	"dng":  FormatDng,
}

// rawFormats holds the set of RAW-family formats, consulted by IsRaw
// (and through it by the ranker's format-tier comparison).
var rawFormats = map[PhotoFormat]bool{
	FormatCr2: true,
	FormatCr3: true,
	FormatNef: true,
	FormatArw: true,
	FormatOrf: true,
	FormatRaf: true,
	FormatRw2: true,
	FormatDng: true,
}

// FormatFromExtension classifies a file extension (with or without a
// leading dot, any case) into a PhotoFormat. ok is false for unknown
// extensions, in which case the scanner must skip the file silently.
func FormatFromExtension(ext string) (fmt PhotoFormat, ok bool) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	fmt, ok = extensionFormats[ext]
	return
}

// Extension returns the canonical lowercase file extension for a format,
// used when building pack/export target paths.
func (f PhotoFormat) Extension() string {
	switch f {
	case FormatJpeg:
		return "jpg"
	case FormatTiff:
		return "tiff"
	default:
		return string(f)
	}
}

// SupportsPerceptualHash reports whether the image decode/resize
// pipeline in perceptualhash can process this format. RAW variants and
// HEIC are tracked by SHA-256 and EXIF only.
func (f PhotoFormat) SupportsPerceptualHash() bool {
	switch f {
	case FormatJpeg, FormatPng, FormatTiff, FormatWebp:
		return true
	default:
		return false
	}
}

// IsRaw reports whether the format belongs to the RAW family, used by
// the ranker's format-tier comparison.
func (f PhotoFormat) IsRaw() bool {
	return rawFormats[f]
}
