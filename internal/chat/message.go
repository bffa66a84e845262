// Package chat is the chat send path: every outbound message passes the
// contact-details filter, is appended to the local channel log and, when a
// hosted database is configured, inserted remotely. New messages from either
// side fan out to channel subscribers.
package chat

import "time"

// Message is one chat line. Messages are append-only within a channel.
type Message struct {
	ID         string    `json:"id"`
	ChannelID  string    `json:"channel_id"`
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}
