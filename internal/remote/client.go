// Package remote talks to the hosted database: the items table behind the
// price list, the chat messages table and the profiles table holding the
// mirrored wallet balance. All tables are reached through the PostgREST
// endpoint; new chat rows also stream over the realtime websocket.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"fashion-insider/internal/catalog"
	"fashion-insider/internal/chat"
)

// ErrDisabled is returned by every call on a client without URL or key.
var ErrDisabled = errors.New("remote database not configured")

// StatusError is a non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.Code, e.Body)
}

// Client is a rate-limited PostgREST client.
type Client struct {
	baseURL string
	key     string
	http    *http.Client
	sem     chan struct{}
	limiter *rate.Limiter
	items   singleflight.Group
}

// NewClient returns a client for the project at baseURL. An empty baseURL
// or key yields a disabled client. ratePerSec <= 0 disables throttling.
func NewClient(baseURL, key string, timeout time.Duration, ratePerSec float64) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	lim := rate.NewLimiter(rate.Inf, 0)
	if ratePerSec > 0 {
		lim = rate.NewLimiter(rate.Limit(ratePerSec), max(1, int(ratePerSec)))
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		key:     strings.TrimSpace(key),
		http:    &http.Client{Timeout: timeout},
		sem:     make(chan struct{}, 8),
		limiter: lim,
	}
}

// Enabled reports whether the client has somewhere to talk to.
func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != "" && c.key != ""
}

// do sends one request. body, when non-nil, is sent as JSON; dst, when
// non-nil, receives the decoded response.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, prefer string, dst any) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	select {
	case c.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-c.sem }()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", path, err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "fashion-insider/1.0")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	if dst == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// HealthCheck pings the REST root.
func (c *Client) HealthCheck(ctx context.Context) bool {
	return c.do(ctx, http.MethodGet, "/rest/v1/", nil, nil, "", nil) == nil
}

// FetchItems loads the items table, newest first. Concurrent calls share
// one request. The shared request runs detached from any single caller, so
// a caller giving up does not fail the others; each caller still returns as
// soon as its own ctx is done.
func (c *Client) FetchItems(ctx context.Context) ([]catalog.RemoteRecord, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}
	ch := c.items.DoChan("items", func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.http.Timeout)
		defer cancel()
		var rows []catalog.RemoteRecord
		q := url.Values{"select": {"*"}, "order": {"id.desc"}}
		if err := c.do(fetchCtx, http.MethodGet, "/rest/v1/items", q, nil, "", &rows); err != nil {
			return nil, fmt.Errorf("fetch items: %w", err)
		}
		return rows, nil
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]catalog.RemoteRecord), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// NewItem is a row to insert into the items table.
type NewItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
	Owner string  `json:"owner"`
}

// ItemUpdate lists the columns to change; nil fields are left alone.
type ItemUpdate struct {
	Name  *string  `json:"name,omitempty"`
	Price *float64 `json:"price,omitempty"`
	Image *string  `json:"image,omitempty"`
	Owner *string  `json:"owner,omitempty"`
}

// AddItem inserts an item.
func (c *Client) AddItem(ctx context.Context, it NewItem) error {
	if strings.TrimSpace(it.Name) == "" {
		return errors.New("add item: name is required")
	}
	if err := c.do(ctx, http.MethodPost, "/rest/v1/items", nil, []NewItem{it}, "return=minimal", nil); err != nil {
		return fmt.Errorf("add item: %w", err)
	}
	return nil
}

// UpdateItem changes the given columns of item id.
func (c *Client) UpdateItem(ctx context.Context, id string, up ItemUpdate) error {
	q := url.Values{"id": {"eq." + id}}
	if err := c.do(ctx, http.MethodPatch, "/rest/v1/items", q, up, "return=minimal", nil); err != nil {
		return fmt.Errorf("update item %s: %w", id, err)
	}
	return nil
}

// DeleteItem removes item id.
func (c *Client) DeleteItem(ctx context.Context, id string) error {
	q := url.Values{"id": {"eq." + id}}
	if err := c.do(ctx, http.MethodDelete, "/rest/v1/items", q, nil, "", nil); err != nil {
		return fmt.Errorf("delete item %s: %w", id, err)
	}
	return nil
}

// messageRow is the messages table shape. The hosted id may be numeric.
type messageRow struct {
	ID         catalog.FlexID `json:"id,omitempty"`
	ChannelID  string         `json:"channel_id"`
	SenderID   string         `json:"sender_id"`
	SenderName string         `json:"sender_name"`
	Content    string         `json:"content"`
	CreatedAt  string         `json:"created_at"`
}

func (r messageRow) message() chat.Message {
	return chat.Message{
		ID:         r.ID.String(),
		ChannelID:  r.ChannelID,
		SenderID:   r.SenderID,
		SenderName: r.SenderName,
		Content:    r.Content,
		CreatedAt:  parseTime(r.CreatedAt),
	}
}

// parseTime accepts timestamps with or without a zone; the hosted table
// stores UTC.
func parseTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05.999999999-07"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Now().UTC()
}

// InsertMessage stores m in the messages table and returns the stored row,
// whose ID is assigned by the database.
func (c *Client) InsertMessage(ctx context.Context, m chat.Message) (chat.Message, error) {
	name := m.SenderName
	if name == "" {
		name = "User"
	}
	row := messageRow{
		ChannelID:  m.ChannelID,
		SenderID:   m.SenderID,
		SenderName: name,
		Content:    m.Content,
		CreatedAt:  m.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	var out []messageRow
	if err := c.do(ctx, http.MethodPost, "/rest/v1/messages", nil, row, "return=representation", &out); err != nil {
		return chat.Message{}, fmt.Errorf("insert message: %w", err)
	}
	if len(out) == 0 {
		return chat.Message{}, errors.New("insert message: empty response")
	}
	return out[0].message(), nil
}

// FetchWalletBalance reads the mirrored balance of userID. ok is false when
// the profile has no balance.
func (c *Client) FetchWalletBalance(ctx context.Context, userID string) (balance int64, ok bool, err error) {
	var rows []struct {
		WalletBalance *catalog.Number `json:"wallet_balance"`
	}
	q := url.Values{"select": {"wallet_balance"}, "id": {"eq." + userID}}
	if err := c.do(ctx, http.MethodGet, "/rest/v1/profiles", q, nil, "", &rows); err != nil {
		return 0, false, fmt.Errorf("fetch wallet: %w", err)
	}
	if len(rows) == 0 || rows[0].WalletBalance == nil {
		return 0, false, nil
	}
	return int64(*rows[0].WalletBalance), true, nil
}

// UpdateWalletBalance writes the balance of userID.
func (c *Client) UpdateWalletBalance(ctx context.Context, userID string, balance int64) error {
	q := url.Values{"id": {"eq." + userID}}
	body := map[string]int64{"wallet_balance": balance}
	if err := c.do(ctx, http.MethodPatch, "/rest/v1/profiles", q, body, "return=minimal", nil); err != nil {
		return fmt.Errorf("update wallet: %w", err)
	}
	return nil
}
