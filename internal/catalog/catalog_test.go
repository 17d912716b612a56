package catalog

import (
	"errors"
	"testing"

	"github.com/jterrazz/photopack/internal/cerrors"
	"github.com/jterrazz/photopack/internal/model"
)

func openTest(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestOpenAdoptsCurrentSchemaVersion(t *testing.T) {
	c := openTest(t)
	v, ok, err := c.GetConfig(model.ConfigSchemaVersion)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected schema_version to be set after Open")
	}
	if v != "1" {
		t.Errorf("schema_version = %q, want \"1\"", v)
	}
}

func TestOpenRejectsNewerSchema(t *testing.T) {
	c := openTest(t)
	if err := c.SetConfig(model.ConfigSchemaVersion, "99"); err != nil {
		t.Fatal(err)
	}
	err := c.migrate()
	var tooNew *cerrors.SchemaTooNew
	if !errors.As(err, &tooNew) {
		t.Fatalf("migrate() = %v, want *cerrors.SchemaTooNew", err)
	}
}

func TestConfigGetSetRoundtrip(t *testing.T) {
	c := openTest(t)
	if _, ok, _ := c.GetConfig("nope"); ok {
		t.Fatal("expected missing key to report ok=false")
	}
	if err := c.SetConfig("k", "v1"); err != nil {
		t.Fatal(err)
	}
	if err := c.SetConfig("k", "v2"); err != nil {
		t.Fatal(err)
	}
	v, ok, err := c.GetConfig("k")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || v != "v2" {
		t.Errorf("GetConfig(k) = (%q, %v), want (\"v2\", true)", v, ok)
	}
}

func TestAddSourceRejectsMissingDirectory(t *testing.T) {
	c := openTest(t)
	if _, err := c.AddSource("/nonexistent/dir/xyz"); !errors.Is(err, cerrors.ErrSourceNotFound) {
		t.Errorf("AddSource(missing) = %v, want ErrSourceNotFound", err)
	}
}

func TestAddSourceRejectsDuplicate(t *testing.T) {
	c := openTest(t)
	dir := t.TempDir()
	if _, err := c.AddSource(dir); err != nil {
		t.Fatal(err)
	}
	if _, err := c.AddSource(dir); !errors.Is(err, cerrors.ErrSourceAlreadyExists) {
		t.Errorf("AddSource(dup) = %v, want ErrSourceAlreadyExists", err)
	}
}

func TestRemoveSourceCascadesPhotosAndGroups(t *testing.T) {
	c := openTest(t)
	dir := t.TempDir()
	src, err := c.AddSource(dir)
	if err != nil {
		t.Fatal(err)
	}

	id1, err := c.UpsertPhoto(model.Photo{SourceID: src.ID, Path: dir + "/a.jpg", Size: 1, Format: model.FormatJpeg, SHA256: "aaa", Mtime: 1})
	if err != nil {
		t.Fatal(err)
	}
	id2, err := c.UpsertPhoto(model.Photo{SourceID: src.ID, Path: dir + "/b.jpg", Size: 1, Format: model.FormatJpeg, SHA256: "aaa", Mtime: 1})
	if err != nil {
		t.Fatal(err)
	}

	if err := c.ReplaceGroupsBatch([]model.DuplicateGroup{
		{SourceOfTruthID: id1, Confidence: model.Certain, MemberPhotoIDs: []int64{id1, id2}},
	}); err != nil {
		t.Fatal(err)
	}

	removedSrc, n, err := c.RemoveSource(dir)
	if err != nil {
		t.Fatal(err)
	}
	if removedSrc.ID != src.ID || n != 2 {
		t.Errorf("RemoveSource = (%+v, %d), want (id=%d, 2)", removedSrc, n, src.ID)
	}

	groups, err := c.ListGroups()
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 0 {
		t.Errorf("expected groups to be cascaded away, got %d", len(groups))
	}

	photos, err := c.ListAllPhotos()
	if err != nil {
		t.Fatal(err)
	}
	if len(photos) != 0 {
		t.Errorf("expected photos to be cascaded away, got %d", len(photos))
	}
}

func TestRemoveSourceUnregisteredFails(t *testing.T) {
	c := openTest(t)
	if _, _, err := c.RemoveSource(t.TempDir()); !errors.Is(err, cerrors.ErrSourceNotRegistered) {
		t.Errorf("RemoveSource(unregistered) = %v, want ErrSourceNotRegistered", err)
	}
}

func TestUpsertPhotoUpdatesExistingRowByPath(t *testing.T) {
	c := openTest(t)
	dir := t.TempDir()
	src, err := c.AddSource(dir)
	if err != nil {
		t.Fatal(err)
	}

	id, err := c.UpsertPhoto(model.Photo{SourceID: src.ID, Path: dir + "/a.jpg", Size: 100, Format: model.FormatJpeg, SHA256: "v1", Mtime: 1})
	if err != nil {
		t.Fatal(err)
	}
	id2, err := c.UpsertPhoto(model.Photo{SourceID: src.ID, Path: dir + "/a.jpg", Size: 200, Format: model.FormatJpeg, SHA256: "v2", Mtime: 2})
	if err != nil {
		t.Fatal(err)
	}
	if id != id2 {
		t.Errorf("expected same row id on re-upsert by path, got %d then %d", id, id2)
	}

	photos, err := c.ListAllPhotos()
	if err != nil {
		t.Fatal(err)
	}
	if len(photos) != 1 || photos[0].SHA256 != "v2" || photos[0].Size != 200 {
		t.Errorf("expected one updated photo, got %+v", photos)
	}
}

func TestRemovePhotosByPathsCascadesGroups(t *testing.T) {
	c := openTest(t)
	dir := t.TempDir()
	src, _ := c.AddSource(dir)
	id1, _ := c.UpsertPhoto(model.Photo{SourceID: src.ID, Path: dir + "/a.jpg", Size: 1, Format: model.FormatJpeg, SHA256: "aaa", Mtime: 1})
	id2, _ := c.UpsertPhoto(model.Photo{SourceID: src.ID, Path: dir + "/b.jpg", Size: 1, Format: model.FormatJpeg, SHA256: "aaa", Mtime: 1})

	if err := c.ReplaceGroupsBatch([]model.DuplicateGroup{
		{SourceOfTruthID: id1, Confidence: model.Certain, MemberPhotoIDs: []int64{id1, id2}},
	}); err != nil {
		t.Fatal(err)
	}

	if err := c.RemovePhotosByPaths([]string{dir + "/a.jpg"}); err != nil {
		t.Fatal(err)
	}

	groups, err := c.ListGroups()
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 0 {
		t.Errorf("expected group to be removed once a member is deleted, got %d", len(groups))
	}

	photos, err := c.ListAllPhotos()
	if err != nil {
		t.Fatal(err)
	}
	if len(photos) != 1 || photos[0].Path != dir+"/b.jpg" {
		t.Errorf("expected only b.jpg to remain, got %+v", photos)
	}
}

func TestClearPerceptualHashes(t *testing.T) {
	c := openTest(t)
	dir := t.TempDir()
	src, _ := c.AddSource(dir)
	ph := uint64(42)
	dh := uint64(7)
	if _, err := c.UpsertPhoto(model.Photo{SourceID: src.ID, Path: dir + "/a.jpg", Size: 1, Format: model.FormatJpeg, SHA256: "aaa", PHash: &ph, DHash: &dh, Mtime: 1}); err != nil {
		t.Fatal(err)
	}

	n, err := c.ClearPerceptualHashes()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("ClearPerceptualHashes() = %d, want 1", n)
	}

	photos, err := c.ListAllPhotos()
	if err != nil {
		t.Fatal(err)
	}
	if photos[0].PHash != nil || photos[0].DHash != nil {
		t.Errorf("expected hashes cleared, got %+v", photos[0])
	}
}

func TestGetGroupNotFound(t *testing.T) {
	c := openTest(t)
	_, err := c.GetGroup(999)
	var notFound *cerrors.GroupNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("GetGroup(missing) = %v, want *cerrors.GroupNotFound", err)
	}
}

func TestStatsSummary(t *testing.T) {
	c := openTest(t)
	dir := t.TempDir()
	src, _ := c.AddSource(dir)
	id1, _ := c.UpsertPhoto(model.Photo{SourceID: src.ID, Path: dir + "/a.jpg", Size: 1, Format: model.FormatJpeg, SHA256: "aaa", Mtime: 1})
	id2, _ := c.UpsertPhoto(model.Photo{SourceID: src.ID, Path: dir + "/b.jpg", Size: 1, Format: model.FormatJpeg, SHA256: "aaa", Mtime: 1})
	id3, _ := c.UpsertPhoto(model.Photo{SourceID: src.ID, Path: dir + "/c.jpg", Size: 1, Format: model.FormatJpeg, SHA256: "bbb", Mtime: 1})

	if err := c.ReplaceGroupsBatch([]model.DuplicateGroup{
		{SourceOfTruthID: id1, Confidence: model.Certain, MemberPhotoIDs: []int64{id1, id2}},
	}); err != nil {
		t.Fatal(err)
	}
	_ = id3

	stats, err := c.StatsSummary()
	if err != nil {
		t.Fatal(err)
	}
	if stats.SourceCount != 1 || stats.PhotoCount != 3 || stats.GroupCount != 1 || stats.DuplicatePhotos != 1 {
		t.Errorf("StatsSummary() = %+v, want {1 3 1 1}", stats)
	}
}
