package ranking

import (
	"testing"

	"github.com/jterrazz/photopack/internal/model"
)

func intPtr(v int) *int { return &v }

func TestElectFormatTierWins(t *testing.T) {
	raw := model.Photo{ID: 1, Format: model.FormatCr2, Path: "b.cr2", Size: 100}
	jpeg := model.Photo{ID: 2, Format: model.FormatJpeg, Path: "a.jpg", Size: 9000}

	got := Elect([]model.Photo{jpeg, raw})
	if got.ID != raw.ID {
		t.Errorf("Elect() = photo %d, want RAW photo %d", got.ID, raw.ID)
	}
}

func TestElectExifRichnessTiebreak(t *testing.T) {
	rich := model.Photo{
		ID: 1, Format: model.FormatJpeg, Path: "a.jpg", Size: 100,
		Exif: &model.ExifData{CameraMake: strPtr("Canon"), CameraModel: strPtr("R5"), Width: intPtr(100), Height: intPtr(100)},
	}
	sparse := model.Photo{ID: 2, Format: model.FormatJpeg, Path: "b.jpg", Size: 100}

	got := Elect([]model.Photo{sparse, rich})
	if got.ID != rich.ID {
		t.Errorf("Elect() = photo %d, want richer-EXIF photo %d", got.ID, rich.ID)
	}
}

func strPtr(v string) *string { return &v }

func TestElectPixelAreaTiebreak(t *testing.T) {
	small := model.Photo{ID: 1, Format: model.FormatJpeg, Path: "a.jpg", Size: 100, Exif: &model.ExifData{Width: intPtr(100), Height: intPtr(100)}}
	large := model.Photo{ID: 2, Format: model.FormatJpeg, Path: "b.jpg", Size: 100, Exif: &model.ExifData{Width: intPtr(4000), Height: intPtr(3000)}}

	got := Elect([]model.Photo{small, large})
	if got.ID != large.ID {
		t.Errorf("Elect() = photo %d, want larger-pixel-area photo %d", got.ID, large.ID)
	}
}

func TestElectSizeTiebreak(t *testing.T) {
	smaller := model.Photo{ID: 1, Format: model.FormatJpeg, Path: "a.jpg", Size: 100}
	bigger := model.Photo{ID: 2, Format: model.FormatJpeg, Path: "b.jpg", Size: 200}

	got := Elect([]model.Photo{smaller, bigger})
	if got.ID != bigger.ID {
		t.Errorf("Elect() = photo %d, want bigger-file photo %d", got.ID, bigger.ID)
	}
}

func TestElectPathTiebreak(t *testing.T) {
	a := model.Photo{ID: 1, Format: model.FormatJpeg, Path: "a.jpg", Size: 100}
	b := model.Photo{ID: 2, Format: model.FormatJpeg, Path: "b.jpg", Size: 100}

	got := Elect([]model.Photo{b, a})
	if got.ID != a.ID {
		t.Errorf("Elect() = photo %d, want lexicographically-first photo %d", got.ID, a.ID)
	}
}

func TestSortOrdersBestFirst(t *testing.T) {
	raw := model.Photo{ID: 1, Format: model.FormatCr2, Path: "a.cr2", Size: 100}
	jpeg := model.Photo{ID: 2, Format: model.FormatJpeg, Path: "b.jpg", Size: 100}

	sorted := Sort([]model.Photo{jpeg, raw})
	if sorted[0].ID != raw.ID {
		t.Errorf("Sort()[0] = photo %d, want RAW photo %d first", sorted[0].ID, raw.ID)
	}
}
