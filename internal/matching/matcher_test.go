package matching

import (
	"testing"

	"github.com/jterrazz/photopack/internal/model"
)

func ptr64(v uint64) *uint64 { return &v }
func strp(v string) *string  { return &v }

func TestScenario1ExactSha(t *testing.T) {
	photos := []model.Photo{
		{ID: 1, SHA256: "aaa"},
		{ID: 2, SHA256: "aaa"},
		{ID: 3, SHA256: "bbb"},
	}
	groups := Match(photos)
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if groups[0].Confidence != model.Certain {
		t.Errorf("confidence = %v, want Certain", groups[0].Confidence)
	}
	if len(groups[0].MemberIDs) != 2 {
		t.Errorf("members = %v, want 2", groups[0].MemberIDs)
	}
}

func TestScenario2ExifNoPhash(t *testing.T) {
	exif := &model.ExifData{Date: strp("2024-01-15 12:00:00"), CameraModel: strp("iPhone 16")}
	photos := []model.Photo{
		{ID: 1, SHA256: "a1", Exif: exif},
		{ID: 2, SHA256: "a2", Exif: exif},
	}
	groups := Match(photos)
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if groups[0].Confidence != model.NearCertain {
		t.Errorf("confidence = %v, want NearCertain", groups[0].Confidence)
	}
}

func TestScenario3SequentialShotRejection(t *testing.T) {
	exif := &model.ExifData{Date: strp("2024-01-15 12:00:00"), CameraModel: strp("iPhone 16")}
	photos := []model.Photo{
		{ID: 1, SHA256: "a1", Exif: exif, PHash: ptr64(0), DHash: ptr64(0)},
		{ID: 2, SHA256: "a2", Exif: exif, PHash: ptr64(0b11), DHash: ptr64(0b111111)},
	}
	groups := Match(photos)
	if len(groups) != 0 {
		t.Fatalf("got %d groups, want 0 (sequential-shot rejection)", len(groups))
	}
}

func TestScenario4CrossFormatDualHashAccept(t *testing.T) {
	photos := []model.Photo{
		{ID: 1, SHA256: "a1", PHash: ptr64(0), DHash: ptr64(0)},
		{ID: 2, SHA256: "a2", PHash: ptr64(0b1), DHash: ptr64(0b1)},
	}
	groups := Match(photos)
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if groups[0].Confidence != model.NearCertain {
		t.Errorf("confidence = %v, want NearCertain", groups[0].Confidence)
	}
}

func TestScenario5DualHashConsensusReject(t *testing.T) {
	photos := []model.Photo{
		{ID: 1, SHA256: "a1", PHash: ptr64(0), DHash: ptr64(0)},
		{ID: 2, SHA256: "a2", PHash: ptr64(0b1), DHash: ptr64(0x0003FFFFFFFFFFFF)},
	}
	groups := Match(photos)
	if len(groups) != 0 {
		t.Fatalf("got %d groups, want 0 (dual-hash consensus)", len(groups))
	}
}

func TestScenario6CrossFormatMerge(t *testing.T) {
	exif := &model.ExifData{Date: strp("2024-06-01 09:00:00"), CameraModel: strp("Canon R5")}
	photos := []model.Photo{
		{ID: 1, SHA256: "j1", Exif: exif, PHash: ptr64(0), DHash: ptr64(0)},
		{ID: 2, SHA256: "j2", Exif: exif, PHash: ptr64(0b1), DHash: ptr64(0b1)},
		{ID: 3, SHA256: "h1", Exif: exif},
		{ID: 4, SHA256: "h2", Exif: exif},
	}
	groups := Match(photos)
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1 merged group", len(groups))
	}
	if len(groups[0].MemberIDs) != 4 {
		t.Errorf("members = %v, want all 4", groups[0].MemberIDs)
	}
}

func TestScenario7ChainMerge(t *testing.T) {
	byID := map[int64]model.Photo{
		1: {ID: 1, PHash: ptr64(0)},
		2: {ID: 2, PHash: ptr64(0)},
		3: {ID: 3, PHash: ptr64(0)},
		4: {ID: 4, PHash: ptr64(0)},
	}
	groups := []rawGroup{
		{members: map[int64]bool{1: true, 2: true}, confidence: model.Low},
		{members: map[int64]bool{2: true, 3: true}, confidence: model.High},
		{members: map[int64]bool{3: true, 4: true}, confidence: model.NearCertain},
	}

	merged := phase4Merge(groups, byID)
	if len(merged) != 1 {
		t.Fatalf("got %d groups, want 1 merged group", len(merged))
	}
	if len(merged[0].members) != 4 {
		t.Errorf("members = %v, want all 4", merged[0].members)
	}
	if merged[0].confidence != model.Low {
		t.Errorf("confidence = %v, want Low (worst of inputs)", merged[0].confidence)
	}
}

func TestScenario8NoCrossGroupMergeWhenVisuallyDistant(t *testing.T) {
	byID := map[int64]model.Photo{
		1: {ID: 1, PHash: ptr64(0)},
		2: {ID: 2},
		3: {ID: 3, PHash: ptr64(^uint64(0))}, // maximally distant from photo 1
	}
	groups := []rawGroup{
		{members: map[int64]bool{1: true, 2: true}, confidence: model.High},
		{members: map[int64]bool{2: true, 3: true}, confidence: model.High},
	}

	merged := phase4Merge(groups, byID)
	if len(merged) != 2 {
		t.Fatalf("got %d groups, want 2 (no cross-group merge)", len(merged))
	}
}

func TestMatchSkipsSinglePhotoGroups(t *testing.T) {
	photos := []model.Photo{{ID: 1, SHA256: "unique"}}
	groups := Match(photos)
	if len(groups) != 0 {
		t.Errorf("got %d groups, want 0 for a single unmatched photo", len(groups))
	}
}
