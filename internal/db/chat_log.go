package db

import (
	"time"

	"fashion-insider/internal/chat"
)

// AppendMessage stores a chat message. Re-appending an existing ID is a
// no-op so remote echoes of local sends are not duplicated; the return
// value reports whether a row was written.
func (d *DB) AppendMessage(m chat.Message) (bool, error) {
	res, err := d.sql.Exec(`
		INSERT OR IGNORE INTO chat_messages (id, channel_id, sender_id, sender_name, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, m.ID, m.ChannelID, m.SenderID, m.SenderName, m.Content, m.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ListMessages returns the last limit messages of a channel, oldest first.
func (d *DB) ListMessages(channelID string, limit int) ([]chat.Message, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := d.sql.Query(`
		SELECT id, channel_id, sender_id, sender_name, content, created_at FROM (
			SELECT seq, id, channel_id, sender_id, sender_name, content, created_at
			  FROM chat_messages
			 WHERE channel_id = ?
			 ORDER BY seq DESC
			 LIMIT ?
		) ORDER BY seq ASC
	`, channelID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []chat.Message{}
	for rows.Next() {
		var m chat.Message
		var created string
		if err := rows.Scan(&m.ID, &m.ChannelID, &m.SenderID, &m.SenderName, &m.Content, &created); err != nil {
			return nil, err
		}
		m.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, m)
	}
	return out, rows.Err()
}
