// Package metaextract extracts EXIF metadata from image files using
// github.com/barasher/go-exiftool, the teacher's own dependency
// (util/import.go's worker function constructs one *exiftool.Exiftool
// per goroutine; this package exposes that as a reusable Extractor so
// the orchestrator's worker pool can do the same).
package metaextract

import (
	"strconv"
	"strings"

	exiftool "github.com/barasher/go-exiftool"

	"github.com/jterrazz/photopack/internal/model"
)

// Extractor wraps a single exiftool process. Not safe for concurrent
// use from multiple goroutines — the orchestrator's worker pool
// allocates one Extractor per worker, mirroring the teacher's pattern.
type Extractor struct {
	et *exiftool.Exiftool
}

// New starts a new exiftool process in -stay_open mode.
func New() (*Extractor, error) {
	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, err
	}
	return &Extractor{et: et}, nil
}

// Close terminates the underlying exiftool process.
func (x *Extractor) Close() error {
	return x.et.Close()
}

// Extract parses EXIF metadata for the file at path. It returns
// (nil, false) if the file has no readable EXIF data, per spec.md §4.4
// ("failure to parse => no EXIF record").
func (x *Extractor) Extract(path string) (*model.ExifData, bool) {
	metas := x.et.ExtractMetadata(path)
	if len(metas) == 0 || metas[0].Err != nil {
		return nil, false
	}
	fields := metas[0].Fields
	if len(fields) == 0 {
		return nil, false
	}

	data := &model.ExifData{}
	any := false

	if s, ok := stringField(fields, "CreateDate"); ok {
		data.Date = &s
		any = true
	} else if s, ok := stringField(fields, "DateTimeOriginal"); ok {
		data.Date = &s
		any = true
	}
	if s, ok := stringField(fields, "Make"); ok {
		data.CameraMake = &s
		any = true
	}
	if s, ok := stringField(fields, "Model"); ok {
		data.CameraModel = &s
		any = true
	}
	if f, ok := floatField(fields, "GPSLatitude"); ok {
		data.GPSLat = &f
		any = true
	}
	if f, ok := floatField(fields, "GPSLongitude"); ok {
		data.GPSLon = &f
		any = true
	}
	if n, ok := intField(fields, "ImageWidth"); ok {
		data.Width = &n
		any = true
	}
	if n, ok := intField(fields, "ImageHeight"); ok {
		data.Height = &n
		any = true
	}

	if !any {
		return nil, false
	}
	return data, true
}

func stringField(fields map[string]interface{}, key string) (string, bool) {
	v, ok := fields[key]
	if !ok {
		return "", false
	}
	switch t := v.(type) {
	case string:
		t = strings.TrimSpace(t)
		if t == "" {
			return "", false
		}
		return t, true
	default:
		return "", false
	}
}

func floatField(fields map[string]interface{}, key string) (float64, bool) {
	v, ok := fields[key]
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func intField(fields map[string]interface{}, key string) (int, bool) {
	v, ok := fields[key]
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return int(t), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
