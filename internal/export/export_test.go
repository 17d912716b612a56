package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseExifDateColonSeparator(t *testing.T) {
	got, ok := parseExifDate("2024:01:15 12:00:00")
	if !ok {
		t.Fatal("expected parseExifDate to accept colon separator")
	}
	want := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("parseExifDate = %v, want %v", got, want)
	}
}

func TestParseExifDateDashSeparator(t *testing.T) {
	got, ok := parseExifDate("2024-01-15 12:00:00")
	if !ok {
		t.Fatal("expected parseExifDate to accept dash separator")
	}
	want := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("parseExifDate = %v, want %v", got, want)
	}
}

func TestParseExifDateRejectsOutOfRange(t *testing.T) {
	cases := []string{"2024:13:01", "2024:01:32", "1969:01:01", "2101:01:01", "not-a-date"}
	for _, s := range cases {
		if _, ok := parseExifDate(s); ok {
			t.Errorf("parseExifDate(%q) = ok, want rejected", s)
		}
	}
}

func TestParseExifDateEmptyString(t *testing.T) {
	if _, ok := parseExifDate(""); ok {
		t.Error("expected parseExifDate(\"\") to fail")
	}
}

func TestBuildTargetPathVacant(t *testing.T) {
	dir := t.TempDir()
	path, skip, err := buildTargetPath(dir, "photo", "heic", 100)
	if err != nil {
		t.Fatal(err)
	}
	if skip {
		t.Error("expected skip=false for a vacant path")
	}
	if path != filepath.Join(dir, "photo.heic") {
		t.Errorf("path = %q, want photo.heic", path)
	}
}

func TestBuildTargetPathSkipsOnSizeMatch(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "photo.heic")
	if err := os.WriteFile(existing, make([]byte, 100), 0o644); err != nil {
		t.Fatal(err)
	}

	path, skip, err := buildTargetPath(dir, "photo", "heic", 100)
	if err != nil {
		t.Fatal(err)
	}
	if !skip || path != existing {
		t.Errorf("buildTargetPath = (%q, %v), want (%q, true)", path, skip, existing)
	}
}

func TestBuildTargetPathIncrementsOnSizeMismatch(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "photo.heic")
	if err := os.WriteFile(existing, make([]byte, 50), 0o644); err != nil {
		t.Fatal(err)
	}

	path, skip, err := buildTargetPath(dir, "photo", "heic", 100)
	if err != nil {
		t.Fatal(err)
	}
	if skip {
		t.Error("expected skip=false when existing file size differs")
	}
	if path != filepath.Join(dir, "photo_1.heic") {
		t.Errorf("path = %q, want photo_1.heic", path)
	}
}

func TestBuildTargetPathSkipsSecondCollisionOnSizeMatch(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "photo.heic"), make([]byte, 50), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "photo_1.heic"), make([]byte, 100), 0o644); err != nil {
		t.Fatal(err)
	}

	path, skip, err := buildTargetPath(dir, "photo", "heic", 100)
	if err != nil {
		t.Fatal(err)
	}
	if !skip || path != filepath.Join(dir, "photo_1.heic") {
		t.Errorf("buildTargetPath = (%q, %v), want (photo_1.heic, true)", path, skip)
	}
}
