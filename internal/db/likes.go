package db

import "time"

// clock stamps new likes.
var clock = time.Now

// Like is a saved item.
type Like struct {
	ItemID  string `json:"item_id"`
	AddedAt string `json:"added_at"`
}

// GetLikes returns the user's liked items, newest first.
func (d *DB) GetLikes(userID string) ([]Like, error) {
	userID = normalizeUserID(userID)

	rows, err := d.sql.Query(`
		SELECT item_id, added_at
		  FROM likes
		 WHERE user_id = ?
		 ORDER BY added_ns DESC, rowid DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Like{}
	for rows.Next() {
		var l Like
		if err := rows.Scan(&l.ItemID, &l.AddedAt); err != nil {
			return nil, err
		}
		items = append(items, l)
	}
	return items, rows.Err()
}

// HasLike checks if an item is liked.
func (d *DB) HasLike(userID, itemID string) bool {
	var count int
	d.sql.QueryRow("SELECT COUNT(*) FROM likes WHERE user_id = ? AND item_id = ?", normalizeUserID(userID), itemID).Scan(&count)
	return count > 0
}

// AddLike inserts a like. Returns true if inserted, false if duplicate.
func (d *DB) AddLike(userID, itemID string) (bool, error) {
	at := clock().UTC()
	res, err := d.sql.Exec(
		"INSERT OR IGNORE INTO likes (user_id, item_id, added_at, added_ns) VALUES (?, ?, ?, ?)",
		normalizeUserID(userID), itemID, at.Format(time.RFC3339Nano), at.UnixNano(),
	)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// DeleteLike removes a like.
func (d *DB) DeleteLike(userID, itemID string) error {
	_, err := d.sql.Exec("DELETE FROM likes WHERE user_id = ? AND item_id = ?", normalizeUserID(userID), itemID)
	return err
}

// ToggleLike flips the like state of an item and reports the new state.
func (d *DB) ToggleLike(userID, itemID string) (bool, error) {
	if d.HasLike(userID, itemID) {
		return false, d.DeleteLike(userID, itemID)
	}
	if _, err := d.AddLike(userID, itemID); err != nil {
		return false, err
	}
	return true, nil
}

// LikedItems returns just the liked item IDs, newest first.
func (d *DB) LikedItems(userID string) ([]string, error) {
	likes, err := d.GetLikes(userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(likes))
	for i, l := range likes {
		ids[i] = l.ItemID
	}
	return ids, nil
}
