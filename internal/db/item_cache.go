package db

import (
	"encoding/json"
	"time"

	"fashion-insider/internal/catalog"
)

// ItemCache persists the last successful hosted items fetch so searches
// keep working when the hosted database is unreachable.
type ItemCache struct {
	d *DB
}

// ItemCache returns the cache view of d. It satisfies catalog.Cache.
func (d *DB) ItemCache() *ItemCache {
	return &ItemCache{d: d}
}

// SaveItems replaces the cached rows, keeping their order.
func (c *ItemCache) SaveItems(rows []catalog.RemoteRecord) error {
	tx, err := c.d.sql.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM item_cache"); err != nil {
		return err
	}
	stmt, err := tx.Prepare("INSERT INTO item_cache (position, item_id, row_json, updated_at) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for i, r := range rows {
		b, err := json.Marshal(r)
		if err != nil {
			return err
		}
		if _, err := stmt.Exec(i, r.ID.String(), string(b), now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// CachedItems returns the cached rows in their original order.
func (c *ItemCache) CachedItems() ([]catalog.RemoteRecord, error) {
	rows, err := c.d.sql.Query("SELECT row_json FROM item_cache ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.RemoteRecord
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var r catalog.RemoteRecord
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			continue
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CacheAge reports how long ago the cache was written, and false when empty.
func (c *ItemCache) CacheAge() (time.Duration, bool) {
	var ts string
	if err := c.d.sql.QueryRow("SELECT MAX(updated_at) FROM item_cache").Scan(&ts); err != nil || ts == "" {
		return 0, false
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return 0, false
	}
	return time.Since(t), true
}
