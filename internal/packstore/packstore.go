// Package packstore implements the content-addressed pack directory:
// shard layout under vault_path, a sibling manifest.sqlite tracking
// what's stored, and the copy/skip/cleanup sync semantics of
// vault_save. The manifest is a second database/sql handle over the
// same glebarez/go-sqlite driver the catalog uses, opened against its
// own file per spec.md §4.9 — no new dependency.
package packstore

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/glebarez/go-sqlite"

	"github.com/jterrazz/photopack/internal/cerrors"
	"github.com/jterrazz/photopack/internal/model"
	"github.com/jterrazz/photopack/internal/progress"
)

const manifestVersion = "1"

// Store is a handle to one vault's manifest database.
type Store struct {
	vaultPath string
	db        *sql.DB
}

// Open opens (creating if absent) the manifest at
// <vaultPath>/.photopack/manifest.sqlite, creating the .photopack
// directory and writing the plain-text version file. vaultPath itself
// must already exist; otherwise Open fails with ErrVaultPathNotFound.
func Open(vaultPath string) (*Store, error) {
	if _, err := os.Stat(vaultPath); err != nil {
		return nil, cerrors.ErrVaultPathNotFound
	}

	metaDir := filepath.Join(vaultPath, ".photopack")
	if err := os.MkdirAll(metaDir, 0o755); err != nil {
		return nil, &cerrors.IoError{Err: err}
	}

	db, err := sql.Open("sqlite", filepath.Join(metaDir, "manifest.sqlite"))
	if err != nil {
		return nil, &cerrors.DatabaseError{Err: err}
	}
	db.SetMaxOpenConns(1)

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS metadata (key TEXT PRIMARY KEY, value TEXT)`,
		`CREATE TABLE IF NOT EXISTS pack_files (
			sha256 TEXT PRIMARY KEY,
			original_filename TEXT NOT NULL,
			format TEXT NOT NULL,
			size INTEGER NOT NULL,
			exif_date TEXT,
			camera_make TEXT,
			camera_model TEXT,
			added_at INTEGER NOT NULL
		)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			db.Close()
			return nil, &cerrors.DatabaseError{Err: err}
		}
	}

	if _, ok, err := getMetadata(db, "version"); err != nil {
		db.Close()
		return nil, err
	} else if !ok {
		if _, err := db.Exec(`INSERT INTO metadata (key, value) VALUES ('version', ?)`, manifestVersion); err != nil {
			db.Close()
			return nil, &cerrors.DatabaseError{Err: err}
		}
		if _, err := db.Exec(`INSERT INTO metadata (key, value) VALUES ('created_at', ?)`, time.Now().Unix()); err != nil {
			db.Close()
			return nil, &cerrors.DatabaseError{Err: err}
		}
	}

	versionFile := filepath.Join(metaDir, "version")
	if err := os.WriteFile(versionFile, []byte(manifestVersion+"\n"), 0o644); err != nil {
		db.Close()
		return nil, &cerrors.IoError{Err: err}
	}

	return &Store{vaultPath: vaultPath, db: db}, nil
}

// Close releases the manifest database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func getMetadata(db *sql.DB, key string) (string, bool, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, &cerrors.DatabaseError{Err: err}
	}
	return value, true, nil
}

// Summary reports how a Save call went.
type Summary struct {
	Copied  int
	Skipped int
	Removed int
}

// Save syncs the pack to desired, the set of source-of-truth (or
// ungrouped) photos the caller wants archived. sink may be nil.
func (s *Store) Save(desired []model.Photo, sink func(progress.VaultEvent)) (Summary, error) {
	var summary Summary
	desiredShas := make(map[string]bool, len(desired))

	for _, p := range desired {
		desiredShas[p.SHA256] = true

		target := s.packPath(p.SHA256, p.Format)
		if info, err := os.Stat(target); err == nil && info.Size() == p.Size {
			summary.Skipped++
			progress.Emit[progress.VaultEvent](sink, progress.FileSkipped{Path: p.Path})
			continue
		}

		if err := copyFile(p.Path, target); err != nil {
			return summary, &cerrors.IoError{Err: err}
		}
		if err := s.recordPackFile(p); err != nil {
			return summary, err
		}
		summary.Copied++
		progress.Emit[progress.VaultEvent](sink, progress.FileCopied{Path: p.Path})
	}

	removed, err := s.cleanup(desiredShas, sink)
	if err != nil {
		return summary, err
	}
	summary.Removed = removed

	progress.Emit[progress.VaultEvent](sink, progress.VaultComplete{Copied: summary.Copied, Skipped: summary.Skipped, Removed: summary.Removed})
	return summary, nil
}

func (s *Store) packPath(sha256 string, format model.PhotoFormat) string {
	shard := sha256[:2]
	return filepath.Join(s.vaultPath, shard, sha256+"."+format.Extension())
}

func (s *Store) recordPackFile(p model.Photo) error {
	var exifDate, cameraMake, cameraModel sql.NullString
	if p.Exif != nil {
		if p.Exif.Date != nil {
			exifDate = sql.NullString{String: *p.Exif.Date, Valid: true}
		}
		if p.Exif.CameraMake != nil {
			cameraMake = sql.NullString{String: *p.Exif.CameraMake, Valid: true}
		}
		if p.Exif.CameraModel != nil {
			cameraModel = sql.NullString{String: *p.Exif.CameraModel, Valid: true}
		}
	}
	_, err := s.db.Exec(`
		INSERT INTO pack_files (sha256, original_filename, format, size, exif_date, camera_make, camera_model, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(sha256) DO UPDATE SET
			original_filename = excluded.original_filename,
			format = excluded.format,
			size = excluded.size,
			exif_date = excluded.exif_date,
			camera_make = excluded.camera_make,
			camera_model = excluded.camera_model
	`, p.SHA256, filepath.Base(p.Path), string(p.Format), p.Size, exifDate, cameraMake, cameraModel, time.Now().Unix())
	if err != nil {
		return &cerrors.DatabaseError{Err: err}
	}
	return nil
}

// cleanup removes every manifest entry (and its on-disk file) whose
// sha256 is not in desiredShas.
func (s *Store) cleanup(desiredShas map[string]bool, sink func(progress.VaultEvent)) (int, error) {
	rows, err := s.db.Query(`SELECT sha256, format FROM pack_files`)
	if err != nil {
		return 0, &cerrors.DatabaseError{Err: err}
	}
	type entry struct{ sha, format string }
	var obsolete []entry
	for rows.Next() {
		var e entry
		if err := rows.Scan(&e.sha, &e.format); err != nil {
			rows.Close()
			return 0, &cerrors.DatabaseError{Err: err}
		}
		if !desiredShas[e.sha] {
			obsolete = append(obsolete, e)
		}
	}
	rows.Close()

	removed := 0
	for _, e := range obsolete {
		target := s.packPath(e.sha, model.PhotoFormat(e.format))
		if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
			return removed, &cerrors.IoError{Err: err}
		}
		if _, err := s.db.Exec(`DELETE FROM pack_files WHERE sha256 = ?`, e.sha); err != nil {
			return removed, &cerrors.DatabaseError{Err: err}
		}
		removed++
		progress.Emit[progress.VaultEvent](sink, progress.VaultFileRemoved{Path: target})
	}
	return removed, nil
}

// copyFile copies src to dst, creating dst's parent directory, and
// removes a partial dst on failure. Grounded on the teacher's
// util/import.go Copy helper.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", src)
	}

	source, err := os.Open(src)
	if err != nil {
		return err
	}
	defer source.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	dest, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer dest.Close()

	if _, err := io.Copy(dest, source); err != nil {
		os.Remove(dst)
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	return nil
}

// SelectSots reduces all photos down to the desired archival set: for
// each group, only its source-of-truth; every ungrouped photo as-is.
func SelectSots(allPhotos []model.Photo, groups []model.DuplicateGroup) []model.Photo {
	byID := make(map[int64]model.Photo, len(allPhotos))
	for _, p := range allPhotos {
		byID[p.ID] = p
	}

	grouped := make(map[int64]bool)
	var desired []model.Photo
	for _, g := range groups {
		if p, ok := byID[g.SourceOfTruthID]; ok {
			desired = append(desired, p)
		}
		for _, id := range g.MemberPhotoIDs {
			grouped[id] = true
		}
	}
	for _, p := range allPhotos {
		if !grouped[p.ID] {
			desired = append(desired, p)
		}
	}
	return desired
}
