package catalog

import (
	"database/sql"
	"fmt"

	"github.com/jterrazz/photopack/internal/cerrors"
	"github.com/jterrazz/photopack/internal/model"
)

// UpsertPhoto inserts or updates a single photo by path.
func (c *Catalog) UpsertPhoto(p model.Photo) (int64, error) {
	tx, err := c.db.Begin()
	if err != nil {
		return 0, &cerrors.DatabaseError{Err: err}
	}
	defer tx.Rollback()

	id, err := upsertPhotoTx(tx, p)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, &cerrors.DatabaseError{Err: err}
	}
	return id, nil
}

// UpsertPhotosBatch inserts or updates many photos in one transaction.
func (c *Catalog) UpsertPhotosBatch(ps []model.Photo) error {
	if len(ps) == 0 {
		return nil
	}
	tx, err := c.db.Begin()
	if err != nil {
		return &cerrors.DatabaseError{Err: err}
	}
	defer tx.Rollback()

	for _, p := range ps {
		if _, err := upsertPhotoTx(tx, p); err != nil {
			return err
		}
	}
	return wrapCommit(tx)
}

func upsertPhotoTx(tx *sql.Tx, p model.Photo) (int64, error) {
	var phash, dhash sql.NullInt64
	if p.PHash != nil {
		phash = sql.NullInt64{Int64: int64(*p.PHash), Valid: true}
	}
	if p.DHash != nil {
		dhash = sql.NullInt64{Int64: int64(*p.DHash), Valid: true}
	}

	var exifDate, cameraMake, cameraModel sql.NullString
	var gpsLat, gpsLon sql.NullFloat64
	var width, height sql.NullInt64
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
		if p.Exif.GPSLat != nil {
			gpsLat = sql.NullFloat64{Float64: *p.Exif.GPSLat, Valid: true}
		}
		if p.Exif.GPSLon != nil {
			gpsLon = sql.NullFloat64{Float64: *p.Exif.GPSLon, Valid: true}
		}
		if p.Exif.Width != nil {
			width = sql.NullInt64{Int64: int64(*p.Exif.Width), Valid: true}
		}
		if p.Exif.Height != nil {
			height = sql.NullInt64{Int64: int64(*p.Exif.Height), Valid: true}
		}
	}

	res, err := tx.Exec(`
		INSERT INTO photos (
			source_id, path, size, format, sha256, phash, dhash, mtime,
			exif_date, exif_camera_make, exif_camera_model, exif_gps_lat, exif_gps_lon, exif_width, exif_height
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			source_id = excluded.source_id,
			size = excluded.size,
			format = excluded.format,
			sha256 = excluded.sha256,
			phash = excluded.phash,
			dhash = excluded.dhash,
			mtime = excluded.mtime,
			exif_date = excluded.exif_date,
			exif_camera_make = excluded.exif_camera_make,
			exif_camera_model = excluded.exif_camera_model,
			exif_gps_lat = excluded.exif_gps_lat,
			exif_gps_lon = excluded.exif_gps_lon,
			exif_width = excluded.exif_width,
			exif_height = excluded.exif_height
	`, p.SourceID, p.Path, p.Size, string(p.Format), p.SHA256, phash, dhash, p.Mtime,
		exifDate, cameraMake, cameraModel, gpsLat, gpsLon, width, height)
	if err != nil {
		return 0, &cerrors.DatabaseError{Err: err}
	}

	id, err := res.LastInsertId()
	if err != nil || id == 0 {
		// Upsert path: LastInsertId may not reflect the updated row on
		// some drivers; look it up explicitly.
		row := tx.QueryRow(`SELECT id FROM photos WHERE path = ?`, p.Path)
		if scanErr := row.Scan(&id); scanErr != nil {
			return 0, &cerrors.DatabaseError{Err: scanErr}
		}
	}
	return id, nil
}

// RemovePhotosByPaths deletes photos (and cascades to their groups) in
// chunks of at most 500 paths per statement.
func (c *Catalog) RemovePhotosByPaths(paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	tx, err := c.db.Begin()
	if err != nil {
		return &cerrors.DatabaseError{Err: err}
	}
	defer tx.Rollback()

	for _, chunk := range chunkStrings(paths, chunkSize) {
		placeholders, args := placeholdersForStrings(chunk)
		rows, err := tx.Query(fmt.Sprintf(`SELECT id FROM photos WHERE path IN (%s)`, placeholders), args...)
		if err != nil {
			return &cerrors.DatabaseError{Err: err}
		}
		var ids []int64
		for rows.Next() {
			var id int64
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return &cerrors.DatabaseError{Err: err}
			}
			ids = append(ids, id)
		}
		rows.Close()

		if err := deleteGroupsReferencingPhotos(tx, ids); err != nil {
			return err
		}
		if _, err := tx.Exec(fmt.Sprintf(`DELETE FROM photos WHERE path IN (%s)`, placeholders), args...); err != nil {
			return &cerrors.DatabaseError{Err: err}
		}
	}
	return wrapCommit(tx)
}

// GetMtimesForSource returns a path -> mtime map for every photo under
// sourceID, in one query.
func (c *Catalog) GetMtimesForSource(sourceID int64) (map[string]int64, error) {
	rows, err := c.db.Query(`SELECT path, mtime FROM photos WHERE source_id = ?`, sourceID)
	if err != nil {
		return nil, &cerrors.DatabaseError{Err: err}
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var path string
		var mtime int64
		if err := rows.Scan(&path, &mtime); err != nil {
			return nil, &cerrors.DatabaseError{Err: err}
		}
		out[path] = mtime
	}
	return out, rows.Err()
}

// PhotosNeedingPhashForSource returns the paths of photos under
// sourceID whose format supports perceptual hashing but whose phash is
// currently NULL (e.g. after a phash_version bump cleared it).
func (c *Catalog) PhotosNeedingPhashForSource(sourceID int64) (map[string]bool, error) {
	rows, err := c.db.Query(`SELECT path, format FROM photos WHERE source_id = ? AND phash IS NULL`, sourceID)
	if err != nil {
		return nil, &cerrors.DatabaseError{Err: err}
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var path, format string
		if err := rows.Scan(&path, &format); err != nil {
			return nil, &cerrors.DatabaseError{Err: err}
		}
		if model.PhotoFormat(format).SupportsPerceptualHash() {
			out[path] = true
		}
	}
	return out, rows.Err()
}

// ClearPerceptualHashes sets phash and dhash to NULL wherever phash is
// currently non-null, returning the number of affected rows.
func (c *Catalog) ClearPerceptualHashes() (int, error) {
	res, err := c.db.Exec(`UPDATE photos SET phash = NULL, dhash = NULL WHERE phash IS NOT NULL`)
	if err != nil {
		return 0, &cerrors.DatabaseError{Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, &cerrors.DatabaseError{Err: err}
	}
	return int(n), nil
}

// ListAllPhotos returns every photo in the catalog.
func (c *Catalog) ListAllPhotos() ([]model.Photo, error) {
	rows, err := c.db.Query(`
		SELECT id, source_id, path, size, format, sha256, phash, dhash, mtime,
			exif_date, exif_camera_make, exif_camera_model, exif_gps_lat, exif_gps_lon, exif_width, exif_height
		FROM photos ORDER BY id`)
	if err != nil {
		return nil, &cerrors.DatabaseError{Err: err}
	}
	defer rows.Close()

	var out []model.Photo
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetPhotosByIDs returns photos for the given ids, in no particular
// order. Used by the ranker when materializing a group's members.
func (c *Catalog) GetPhotosByIDs(ids []int64) ([]model.Photo, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []model.Photo
	for _, chunk := range chunkInt64(ids, chunkSize) {
		placeholders, args := placeholdersFor(chunk)
		rows, err := c.db.Query(fmt.Sprintf(`
			SELECT id, source_id, path, size, format, sha256, phash, dhash, mtime,
				exif_date, exif_camera_make, exif_camera_model, exif_gps_lat, exif_gps_lon, exif_width, exif_height
			FROM photos WHERE id IN (%s)`, placeholders), args...)
		if err != nil {
			return nil, &cerrors.DatabaseError{Err: err}
		}
		for rows.Next() {
			p, err := scanPhoto(rows)
			if err != nil {
				rows.Close()
				return nil, err
			}
			out = append(out, p)
		}
		rows.Close()
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPhoto(rows rowScanner) (model.Photo, error) {
	var p model.Photo
	var format string
	var phash, dhash sql.NullInt64
	var exifDate, cameraMake, cameraModel sql.NullString
	var gpsLat, gpsLon sql.NullFloat64
	var width, height sql.NullInt64

	err := rows.Scan(&p.ID, &p.SourceID, &p.Path, &p.Size, &format, &p.SHA256, &phash, &dhash, &p.Mtime,
		&exifDate, &cameraMake, &cameraModel, &gpsLat, &gpsLon, &width, &height)
	if err != nil {
		return model.Photo{}, &cerrors.DatabaseError{Err: err}
	}
	p.Format = model.PhotoFormat(format)
	if phash.Valid {
		v := uint64(phash.Int64)
		p.PHash = &v
	}
	if dhash.Valid {
		v := uint64(dhash.Int64)
		p.DHash = &v
	}

	exif := &model.ExifData{}
	any := false
	if exifDate.Valid {
		exif.Date = &exifDate.String
		any = true
	}
	if cameraMake.Valid {
		exif.CameraMake = &cameraMake.String
		any = true
	}
	if cameraModel.Valid {
		exif.CameraModel = &cameraModel.String
		any = true
	}
	if gpsLat.Valid {
		exif.GPSLat = &gpsLat.Float64
		any = true
	}
	if gpsLon.Valid {
		exif.GPSLon = &gpsLon.Float64
		any = true
	}
	if width.Valid {
		w := int(width.Int64)
		exif.Width = &w
		any = true
	}
	if height.Valid {
		h := int(height.Int64)
		exif.Height = &h
		any = true
	}
	if any {
		p.Exif = exif
	}
	return p, nil
}

func wrapCommit(tx *sql.Tx) error {
	if err := tx.Commit(); err != nil {
		return &cerrors.DatabaseError{Err: err}
	}
	return nil
}
