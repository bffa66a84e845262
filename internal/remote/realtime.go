package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"fashion-insider/internal/chat"
	"fashion-insider/internal/logger"
)

// Phoenix channel frame.
type frame struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Ref     string          `json:"ref,omitempty"`
}

// Realtime streams INSERTs on the messages table of one chat channel.
type Realtime struct {
	URL       string
	Heartbeat time.Duration
	Retry     time.Duration
	Dialer    *websocket.Dialer
}

// Realtime returns a feed bound to the client's project, or nil when the
// client is disabled.
func (c *Client) Realtime() *Realtime {
	if !c.Enabled() {
		return nil
	}
	u := c.baseURL
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	q := url.Values{"apikey": {c.key}, "vsn": {"1.0.0"}}
	return &Realtime{URL: u + "/realtime/v1/websocket?" + q.Encode()}
}

func (r *Realtime) heartbeat() time.Duration {
	if r.Heartbeat <= 0 {
		return 30 * time.Second
	}
	return r.Heartbeat
}

func (r *Realtime) retry() time.Duration {
	if r.Retry <= 0 {
		return 5 * time.Second
	}
	return r.Retry
}

// Listen delivers every new message of channelID to onInsert until ctx is
// done, reconnecting after failures.
func (r *Realtime) Listen(ctx context.Context, channelID string, onInsert func(chat.Message)) error {
	for {
		err := r.session(ctx, channelID, onInsert)
		if ctx.Err() != nil {
			return nil
		}
		logger.Warn("Realtime", fmt.Sprintf("%s: %v, reconnecting", channelID, err))
		select {
		case <-time.After(r.retry()):
		case <-ctx.Done():
			return nil
		}
	}
}

func joinFrame(topic, channelID string) (frame, error) {
	payload := map[string]any{
		"config": map[string]any{
			"postgres_changes": []map[string]string{{
				"event":  "INSERT",
				"schema": "public",
				"table":  "messages",
				"filter": "channel_id=eq." + channelID,
			}},
		},
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return frame{}, err
	}
	return frame{Topic: topic, Event: "phx_join", Payload: b, Ref: uuid.NewString()}, nil
}

// session runs one connection until it fails or ctx is done.
func (r *Realtime) session(ctx context.Context, channelID string, onInsert func(chat.Message)) error {
	dialer := r.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	conn, _, err := dialer.DialContext(ctx, r.URL, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	topic := "realtime:messages-" + channelID
	join, err := joinFrame(topic, channelID)
	if err != nil {
		return err
	}
	if err := conn.WriteJSON(join); err != nil {
		return fmt.Errorf("join: %w", err)
	}
	logger.Info("Realtime", "subscribed to "+channelID)

	// The heartbeat goroutine is the only writer from here on.
	var wg sync.WaitGroup
	done := make(chan struct{})
	defer func() {
		close(done)
		wg.Wait()
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		t := time.NewTicker(r.heartbeat())
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				conn.Close()
				return
			case <-t.C:
				hb := frame{Topic: "phoenix", Event: "heartbeat", Payload: json.RawMessage(`{}`), Ref: uuid.NewString()}
				if err := conn.WriteJSON(hb); err != nil {
					conn.Close()
					return
				}
			}
		}
	}()

	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			return fmt.Errorf("read: %w", err)
		}
		switch f.Event {
		case "postgres_changes":
			if m, ok := decodeInsert(f.Payload); ok {
				onInsert(m)
			}
		case "phx_error", "phx_close":
			return fmt.Errorf("channel %s: %s", f.Event, string(f.Payload))
		}
	}
}

func decodeInsert(payload json.RawMessage) (chat.Message, bool) {
	var p struct {
		Data struct {
			Type   string     `json:"type"`
			Record messageRow `json:"record"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &p); err != nil {
		logger.Debug("Realtime", "undecodable change: "+err.Error())
		return chat.Message{}, false
	}
	if p.Data.Type != "INSERT" || p.Data.Record.Content == "" {
		return chat.Message{}, false
	}
	return p.Data.Record.message(), true
}
