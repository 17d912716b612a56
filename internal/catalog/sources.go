package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jterrazz/photopack/internal/cerrors"
	"github.com/jterrazz/photopack/internal/model"
)

// canonicalize resolves path to an absolute, symlink-free form.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	return resolved, nil
}

// canonicalizeOrLiteral resolves path, falling back to the literal
// absolute path if canonicalization fails (e.g. the directory was
// deleted between registration and removal), per spec.md §4.1's
// remove_source note.
func canonicalizeOrLiteral(path string) string {
	if resolved, err := canonicalize(path); err == nil {
		return resolved
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// AddSource registers a new source directory. The directory must exist
// at registration time.
func (c *Catalog) AddSource(path string) (model.Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return model.Source{}, cerrors.ErrSourceNotFound
	}
	if !info.IsDir() {
		return model.Source{}, cerrors.ErrSourceNotDirectory
	}

	canonical, err := canonicalize(path)
	if err != nil {
		return model.Source{}, &cerrors.IoError{Err: err}
	}

	res, err := c.db.Exec(`INSERT INTO sources (path) VALUES (?)`, canonical)
	if err != nil {
		if isUniqueConstraint(err) {
			return model.Source{}, cerrors.ErrSourceAlreadyExists
		}
		return model.Source{}, &cerrors.DatabaseError{Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Source{}, &cerrors.DatabaseError{Err: err}
	}
	return model.Source{ID: id, Path: canonical}, nil
}

// RemoveSource unregisters the source at path, cascading to its photos
// and any groups they participated in, all in one transaction. Returns
// the removed source and how many photos were deleted.
func (c *Catalog) RemoveSource(path string) (model.Source, int, error) {
	canonical := canonicalizeOrLiteral(path)

	tx, err := c.db.Begin()
	if err != nil {
		return model.Source{}, 0, &cerrors.DatabaseError{Err: err}
	}
	defer tx.Rollback()

	var src model.Source
	var lastScanned sql.NullInt64
	err = tx.QueryRow(`SELECT id, path, last_scanned FROM sources WHERE path = ?`, canonical).
		Scan(&src.ID, &src.Path, &lastScanned)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Source{}, 0, cerrors.ErrSourceNotRegistered
	}
	if err != nil {
		return model.Source{}, 0, &cerrors.DatabaseError{Err: err}
	}
	if lastScanned.Valid {
		v := lastScanned.Int64
		src.LastScanned = &v
	}

	photoCount, err := cascadeRemovePhotosForSource(tx, src.ID)
	if err != nil {
		return model.Source{}, 0, err
	}

	if _, err := tx.Exec(`DELETE FROM sources WHERE id = ?`, src.ID); err != nil {
		return model.Source{}, 0, &cerrors.DatabaseError{Err: err}
	}

	if err := tx.Commit(); err != nil {
		return model.Source{}, 0, &cerrors.DatabaseError{Err: err}
	}
	return src, photoCount, nil
}

// cascadeRemovePhotosForSource deletes, in cascade order, the group
// members / groups / photos belonging to sourceID. Must run inside an
// existing transaction. Returns the number of photos removed.
func cascadeRemovePhotosForSource(tx *sql.Tx, sourceID int64) (int, error) {
	rows, err := tx.Query(`SELECT id FROM photos WHERE source_id = ?`, sourceID)
	if err != nil {
		return 0, &cerrors.DatabaseError{Err: err}
	}
	var photoIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, &cerrors.DatabaseError{Err: err}
		}
		photoIDs = append(photoIDs, id)
	}
	rows.Close()

	if err := deleteGroupsReferencingPhotos(tx, photoIDs); err != nil {
		return 0, err
	}

	if _, err := tx.Exec(`DELETE FROM photos WHERE source_id = ?`, sourceID); err != nil {
		return 0, &cerrors.DatabaseError{Err: err}
	}
	return len(photoIDs), nil
}

// deleteGroupsReferencingPhotos removes every group that has any of
// photoIDs as a member (and its group_members rows), chunked to respect
// variable limits.
func deleteGroupsReferencingPhotos(tx *sql.Tx, photoIDs []int64) error {
	if len(photoIDs) == 0 {
		return nil
	}
	groupIDSet := make(map[int64]bool)
	for _, chunk := range chunkInt64(photoIDs, chunkSize) {
		placeholders, args := placeholdersFor(chunk)
		query := fmt.Sprintf(`SELECT DISTINCT group_id FROM group_members WHERE photo_id IN (%s)`, placeholders)
		rows, err := tx.Query(query, args...)
		if err != nil {
			return &cerrors.DatabaseError{Err: err}
		}
		for rows.Next() {
			var gid int64
			if err := rows.Scan(&gid); err != nil {
				rows.Close()
				return &cerrors.DatabaseError{Err: err}
			}
			groupIDSet[gid] = true
		}
		rows.Close()
	}

	if len(groupIDSet) == 0 {
		return nil
	}
	groupIDs := make([]int64, 0, len(groupIDSet))
	for id := range groupIDSet {
		groupIDs = append(groupIDs, id)
	}

	for _, chunk := range chunkInt64(groupIDs, chunkSize) {
		placeholders, args := placeholdersFor(chunk)
		if _, err := tx.Exec(fmt.Sprintf(`DELETE FROM group_members WHERE group_id IN (%s)`, placeholders), args...); err != nil {
			return &cerrors.DatabaseError{Err: err}
		}
		if _, err := tx.Exec(fmt.Sprintf(`DELETE FROM duplicate_groups WHERE id IN (%s)`, placeholders), args...); err != nil {
			return &cerrors.DatabaseError{Err: err}
		}
	}
	return nil
}

// ListSources returns every registered source.
func (c *Catalog) ListSources() ([]model.Source, error) {
	rows, err := c.db.Query(`SELECT id, path, last_scanned FROM sources ORDER BY id`)
	if err != nil {
		return nil, &cerrors.DatabaseError{Err: err}
	}
	defer rows.Close()

	var out []model.Source
	for rows.Next() {
		var s model.Source
		var lastScanned sql.NullInt64
		if err := rows.Scan(&s.ID, &s.Path, &lastScanned); err != nil {
			return nil, &cerrors.DatabaseError{Err: err}
		}
		if lastScanned.Valid {
			v := lastScanned.Int64
			s.LastScanned = &v
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SetLastScanned updates a source's last_scanned timestamp.
func (c *Catalog) SetLastScanned(sourceID int64, epochSeconds int64) error {
	_, err := c.db.Exec(`UPDATE sources SET last_scanned = ? WHERE id = ?`, epochSeconds, sourceID)
	if err != nil {
		return &cerrors.DatabaseError{Err: err}
	}
	return nil
}

func isUniqueConstraint(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}
