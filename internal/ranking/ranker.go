// Package ranking elects a duplicate group's source of truth: the
// member judged the highest-quality canonical copy.
package ranking

import (
	"sort"

	"github.com/jterrazz/photopack/internal/model"
)

// formatTier ranks format families, lower is better. RAW > lossless >
// lossy-modern > lossy-legacy, per spec.md §4.7.
func formatTier(f model.PhotoFormat) int {
	switch {
	case f.IsRaw():
		return 0
	case f == model.FormatTiff || f == model.FormatPng:
		return 1
	case f == model.FormatHeic || f == model.FormatWebp:
		return 2
	case f == model.FormatJpeg:
		return 3
	default:
		return 4
	}
}

// Elect returns the source-of-truth photo from a group's members,
// applying the total order: format tier, EXIF richness, pixel area,
// file size, then lexicographic path as a deterministic tiebreak.
func Elect(members []model.Photo) model.Photo {
	best := members[0]
	for _, p := range members[1:] {
		if better(p, best) {
			best = p
		}
	}
	return best
}

// better reports whether a outranks b as source of truth.
func better(a, b model.Photo) bool {
	if ta, tb := formatTier(a.Format), formatTier(b.Format); ta != tb {
		return ta < tb
	}
	if ra, rb := a.Exif.FieldCount(), b.Exif.FieldCount(); ra != rb {
		return ra > rb
	}
	if pa, pb := a.Exif.PixelArea(), b.Exif.PixelArea(); pa != pb {
		return pa > pb
	}
	if a.Size != b.Size {
		return a.Size > b.Size
	}
	return a.Path < b.Path
}

// Sort orders members best-first using the same total order as Elect,
// used by status --files to render a "Best Copy" / "Duplicate" role
// column.
func Sort(members []model.Photo) []model.Photo {
	out := make([]model.Photo, len(members))
	copy(out, members)
	sort.Slice(out, func(i, j int) bool { return better(out[i], out[j]) })
	return out
}
