// Package model holds the shared data types threaded through every
// photopack component: sources, photos, EXIF records, duplicate groups
// and catalog configuration keys.
package model

// Source is a registered directory that photos are discovered under.
type Source struct {
	ID          int64
	Path        string // canonical absolute path, unique
	LastScanned *int64 // epoch seconds, nil if never scanned
}

// ExifData is the optional metadata record attached to a photo. Every
// field may be independently absent.
type ExifData struct {
	Date        *string // "YYYY-MM-DD HH:MM:SS" or "YYYY:MM:DD HH:MM:SS"
	CameraMake  *string
	CameraModel *string
	GPSLat      *float64
	GPSLon      *float64
	Width       *int
	Height      *int
}

// FieldCount returns how many of the optional EXIF fields are present,
// used by the ranker's "EXIF richness" tiebreak.
func (e *ExifData) FieldCount() int {
	if e == nil {
		return 0
	}
	n := 0
	for _, present := range []bool{
		e.Date != nil, e.CameraMake != nil, e.CameraModel != nil,
		e.GPSLat != nil, e.GPSLon != nil, e.Width != nil, e.Height != nil,
	} {
		if present {
			n++
		}
	}
	return n
}

// PixelArea returns width*height if both are known, else 0.
func (e *ExifData) PixelArea() int64 {
	if e == nil || e.Width == nil || e.Height == nil {
		return 0
	}
	return int64(*e.Width) * int64(*e.Height)
}

// CameraModelOrUnknown returns the camera model, or the literal
// "unknown" sentinel used as a partition key by Phase 2 of the matcher
// when the model is absent.
func (e *ExifData) CameraModelOrUnknown() string {
	if e == nil || e.CameraModel == nil {
		return "unknown"
	}
	return *e.CameraModel
}

// Photo is a single image file known to the catalog.
type Photo struct {
	ID       int64
	SourceID int64
	Path     string // absolute, unique across the catalog
	Size     int64
	Format   PhotoFormat
	SHA256   string // lowercase hex
	PHash    *uint64
	DHash    *uint64
	Mtime    int64 // epoch seconds
	Exif     *ExifData
}

// DuplicateGroup is a set of 2+ photos judged to depict the same
// captured image, with one member elected as the source of truth.
type DuplicateGroup struct {
	ID               int64
	SourceOfTruthID  int64
	Confidence       Confidence
	MemberPhotoIDs   []int64
}

// Config keys recognized by the catalog's key/value store.
const (
	ConfigSchemaVersion = "schema_version"
	ConfigPhashVersion  = "phash_version"
	ConfigVaultPath     = "vault_path"
	ConfigExportPath    = "export_path"
)
