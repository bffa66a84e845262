package db

import (
	"strings"
	"time"
)

// DefaultUserID scopes scalars when no identity is supplied.
const DefaultUserID = "default"

func normalizeUserID(userID string) string {
	trimmed := strings.TrimSpace(userID)
	if trimmed == "" {
		return DefaultUserID
	}
	return trimmed
}

// Scalars is the string key/value view of one user's persisted settings.
// It satisfies the Store interfaces of the wallet, active-trade tracker
// and market preferences.
type Scalars struct {
	d      *DB
	userID string
}

// Scalars returns the key/value store for userID.
func (d *DB) Scalars(userID string) *Scalars {
	return &Scalars{d: d, userID: normalizeUserID(userID)}
}

// Get returns the stored value and whether it exists. Read errors are
// reported as a missing key so callers fall back to defaults.
func (s *Scalars) Get(key string) (string, bool) {
	var v string
	err := s.d.sql.QueryRow("SELECT value FROM kv WHERE user_id = ? AND key = ?", s.userID, key).Scan(&v)
	if err != nil {
		return "", false
	}
	return v, true
}

// Set upserts key.
func (s *Scalars) Set(key, value string) error {
	_, err := s.d.sql.Exec(`
		INSERT INTO kv (user_id, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, s.userID, key, value, time.Now().UTC().Format(time.RFC3339))
	return err
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Scalars) Delete(key string) error {
	_, err := s.d.sql.Exec("DELETE FROM kv WHERE user_id = ? AND key = ?", s.userID, key)
	return err
}
