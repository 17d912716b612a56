package catalog

import (
	"database/sql"
	"errors"

	"github.com/jterrazz/photopack/internal/cerrors"
)

// SetConfig upserts a key/value pair in the config table.
func (c *Catalog) SetConfig(key, value string) error {
	_, err := c.db.Exec(`INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return &cerrors.DatabaseError{Err: err}
	}
	return nil
}

// GetConfig looks up a config value. ok is false if the key is absent.
func (c *Catalog) GetConfig(key string) (value string, ok bool, err error) {
	row := c.db.QueryRow(`SELECT value FROM config WHERE key = ?`, key)
	if scanErr := row.Scan(&value); scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, &cerrors.DatabaseError{Err: scanErr}
	}
	return value, true, nil
}
