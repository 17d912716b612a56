package catalog

import (
	"github.com/jterrazz/photopack/internal/cerrors"
	"github.com/jterrazz/photopack/internal/model"
)

// ClearGroups deletes every duplicate group and its members, leaving
// photos untouched.
func (c *Catalog) ClearGroups() error {
	tx, err := c.db.Begin()
	if err != nil {
		return &cerrors.DatabaseError{Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM group_members`); err != nil {
		return &cerrors.DatabaseError{Err: err}
	}
	if _, err := tx.Exec(`DELETE FROM duplicate_groups`); err != nil {
		return &cerrors.DatabaseError{Err: err}
	}
	return wrapCommit(tx)
}

// ReplaceGroupsBatch atomically replaces the entire duplicate_groups /
// group_members state with groups, in one transaction. Called after
// every full re-match per spec.md §4.8 so readers never observe a
// partially-rebuilt group set.
func (c *Catalog) ReplaceGroupsBatch(groups []model.DuplicateGroup) error {
	tx, err := c.db.Begin()
	if err != nil {
		return &cerrors.DatabaseError{Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM group_members`); err != nil {
		return &cerrors.DatabaseError{Err: err}
	}
	if _, err := tx.Exec(`DELETE FROM duplicate_groups`); err != nil {
		return &cerrors.DatabaseError{Err: err}
	}

	for _, g := range groups {
		res, err := tx.Exec(`INSERT INTO duplicate_groups (source_of_truth_id, confidence) VALUES (?, ?)`,
			g.SourceOfTruthID, int(g.Confidence))
		if err != nil {
			return &cerrors.DatabaseError{Err: err}
		}
		groupID, err := res.LastInsertId()
		if err != nil {
			return &cerrors.DatabaseError{Err: err}
		}
		for _, photoID := range g.MemberPhotoIDs {
			if _, err := tx.Exec(`INSERT INTO group_members (group_id, photo_id) VALUES (?, ?)`,
				groupID, photoID); err != nil {
				return &cerrors.DatabaseError{Err: err}
			}
		}
	}
	return wrapCommit(tx)
}

// ListGroups returns every duplicate group with its members, ordered by
// group id (insertion order from the last ReplaceGroupsBatch).
func (c *Catalog) ListGroups() ([]model.DuplicateGroup, error) {
	rows, err := c.db.Query(`
		SELECT dg.id, dg.source_of_truth_id, dg.confidence, gm.photo_id
		FROM duplicate_groups dg
		JOIN group_members gm ON gm.group_id = dg.id
		ORDER BY dg.id, gm.photo_id`)
	if err != nil {
		return nil, &cerrors.DatabaseError{Err: err}
	}
	defer rows.Close()

	var out []model.DuplicateGroup
	index := make(map[int64]int)
	for rows.Next() {
		var id, sot, photoID int64
		var confidence int
		if err := rows.Scan(&id, &sot, &confidence, &photoID); err != nil {
			return nil, &cerrors.DatabaseError{Err: err}
		}
		i, ok := index[id]
		if !ok {
			out = append(out, model.DuplicateGroup{
				ID:              id,
				SourceOfTruthID: sot,
				Confidence:      model.Confidence(confidence),
			})
			i = len(out) - 1
			index[id] = i
		}
		out[i].MemberPhotoIDs = append(out[i].MemberPhotoIDs, photoID)
	}
	return out, rows.Err()
}

// GetGroup returns a single duplicate group by id.
func (c *Catalog) GetGroup(id int64) (model.DuplicateGroup, error) {
	var g model.DuplicateGroup
	var confidence int
	err := c.db.QueryRow(`SELECT id, source_of_truth_id, confidence FROM duplicate_groups WHERE id = ?`, id).
		Scan(&g.ID, &g.SourceOfTruthID, &confidence)
	if err != nil {
		return model.DuplicateGroup{}, &cerrors.GroupNotFound{ID: id}
	}
	g.Confidence = model.Confidence(confidence)

	rows, err := c.db.Query(`SELECT photo_id FROM group_members WHERE group_id = ? ORDER BY photo_id`, id)
	if err != nil {
		return model.DuplicateGroup{}, &cerrors.DatabaseError{Err: err}
	}
	defer rows.Close()
	for rows.Next() {
		var photoID int64
		if err := rows.Scan(&photoID); err != nil {
			return model.DuplicateGroup{}, &cerrors.DatabaseError{Err: err}
		}
		g.MemberPhotoIDs = append(g.MemberPhotoIDs, photoID)
	}
	return g, rows.Err()
}

// Stats is a summary of catalog contents for the `status` command.
type Stats struct {
	SourceCount      int
	PhotoCount       int
	GroupCount       int
	DuplicatePhotos  int // photos that are members of some group but not its source of truth
}

// StatsSummary computes aggregate counts in a single query, per
// spec.md §4.1.
func (c *Catalog) StatsSummary() (Stats, error) {
	var s Stats
	err := c.db.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM sources),
			(SELECT COUNT(*) FROM photos),
			(SELECT COUNT(*) FROM duplicate_groups),
			(SELECT COUNT(*) FROM group_members gm
				JOIN duplicate_groups dg ON dg.id = gm.group_id
				WHERE gm.photo_id != dg.source_of_truth_id)
	`).Scan(&s.SourceCount, &s.PhotoCount, &s.GroupCount, &s.DuplicatePhotos)
	if err != nil {
		return Stats{}, &cerrors.DatabaseError{Err: err}
	}
	return s, nil
}
