package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fashion-insider/internal/activetrade"
	"fashion-insider/internal/catalog"
	"fashion-insider/internal/chat"
	"fashion-insider/internal/config"
	"fashion-insider/internal/events"
	"fashion-insider/internal/market"
	"fashion-insider/internal/remote"
)

type idleTimer struct{}

func (idleTimer) Stop() bool { return true }

// idleClock never fires, so trades stay on their first step.
type idleClock struct{}

func (idleClock) Now() time.Time                                    { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }
func (idleClock) AfterFunc(time.Duration, func()) activetrade.Timer { return idleTimer{} }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	m := market.New(nil, nil, nil, market.Options{Clock: idleClock{}})
	srv := NewServer(cfg, m, catalog.NewSearcher(nil, catalog.Normalizer{}), chat.NewService(nil, nil), remote.NewClient("", "", 0, 0))
	t.Cleanup(func() {
		srv.Close()
		m.Close()
	})
	return srv
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dst); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestHandleGetConfig_ReturnsConfig(t *testing.T) {
	srv := newTestServer(t)
	srv.cfg.ChatChannel = "drops"

	rec := do(t, srv, http.MethodGet, "/api/config", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/config status = %d, want 200", rec.Code)
	}
	var out config.Config
	decode(t, rec, &out)
	if out.ChatChannel != "drops" || out.Port != srv.cfg.Port {
		t.Errorf("config = %+v", out)
	}
	if strings.Contains(rec.Body.String(), "remote_key") {
		t.Error("remote key leaked into config response")
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)
	rec := do(t, srv, http.MethodOptions, "/api/products", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "PATCH") {
		t.Errorf("allow methods = %q", got)
	}
}

func TestHandleProducts(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/products", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var list []productView
	decode(t, rec, &list)
	if len(list) != len(catalog.Products()) {
		t.Fatalf("got %d products, want %d", len(list), len(catalog.Products()))
	}
	if list[0].ID != "p1" || list[0].PriceLabel != "950 CR" {
		t.Errorf("first product = %s %q", list[0].ID, list[0].PriceLabel)
	}

	if rec := do(t, srv, http.MethodGet, "/api/products/nope", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown product status = %d, want 404", rec.Code)
	}
}

func TestHandleProductChart_Windows(t *testing.T) {
	srv := newTestServer(t)

	if rec := do(t, srv, http.MethodGet, "/api/products/p1/chart?days=7", ""); rec.Code != http.StatusOK {
		t.Errorf("days=7 status = %d", rec.Code)
	}
	if rec := do(t, srv, http.MethodGet, "/api/products/p1/chart", ""); rec.Code != http.StatusOK {
		t.Errorf("default window status = %d", rec.Code)
	}
	if rec := do(t, srv, http.MethodGet, "/api/products/p1/chart?days=9", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("days=9 status = %d, want 400", rec.Code)
	}
}

func TestWalletTopUpAndPro(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/wallet/topup", `{"amount":50}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("topup status = %d: %s", rec.Code, rec.Body.String())
	}
	var w struct {
		Balance int64  `json:"balance"`
		Label   string `json:"label"`
		Plan    string `json:"plan"`
	}
	decode(t, rec, &w)
	if w.Balance != 5500 || w.Label != "5,500 CR" {
		t.Errorf("wallet = %+v", w)
	}

	if rec := do(t, srv, http.MethodPost, "/api/wallet/topup", `{"amount":0}`); rec.Code != http.StatusBadRequest {
		t.Errorf("zero topup status = %d, want 400", rec.Code)
	}

	rec = do(t, srv, http.MethodPost, "/api/pro", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("pro status = %d", rec.Code)
	}
	decode(t, rec, &w)
	if w.Balance != 6000 || w.Plan != "PRO" {
		t.Errorf("after pro = %+v", w)
	}
	if rec := do(t, srv, http.MethodPost, "/api/pro", ""); rec.Code != http.StatusConflict {
		t.Errorf("second pro status = %d, want 409", rec.Code)
	}
}

func TestTradeFlowAndEventFeed(t *testing.T) {
	srv := newTestServer(t)

	if rec := do(t, srv, http.MethodPost, "/api/trade/send", ""); rec.Code != http.StatusConflict {
		t.Errorf("send without session status = %d, want 409", rec.Code)
	}
	if rec := do(t, srv, http.MethodPost, "/api/trade/open", `{"target_id":"p2"}`); rec.Code != http.StatusOK {
		t.Fatalf("open status = %d: %s", rec.Code, rec.Body.String())
	}
	rec := do(t, srv, http.MethodPost, "/api/trade/items", `{"product_id":"p1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("add item status = %d: %s", rec.Code, rec.Body.String())
	}
	var view market.TradeView
	decode(t, rec, &view)
	if view.Value != 950 || view.Fee != 50 {
		t.Errorf("view = %+v", view)
	}

	rec = do(t, srv, http.MethodPost, "/api/trade/send", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("send status = %d: %s", rec.Code, rec.Body.String())
	}
	var res market.SendResult
	decode(t, rec, &res)
	if res.Fee != 50 || res.Balance != 5400 {
		t.Errorf("send result = %+v", res)
	}

	rec = do(t, srv, http.MethodGet, "/api/events?since=0", "")
	var feed []events.Record
	decode(t, rec, &feed)
	want := []string{"balance-deduct", "balance-changed", "trade-step"}
	if len(feed) != len(want) {
		t.Fatalf("feed = %+v", feed)
	}
	for i, r := range feed {
		if r.Name != want[i] || r.Seq != uint64(i+1) {
			t.Errorf("feed[%d] = %s #%d, want %s #%d", i, r.Name, r.Seq, want[i], i+1)
		}
	}

	rec = do(t, srv, http.MethodGet, "/api/events?since=2", "")
	feed = nil
	decode(t, rec, &feed)
	if len(feed) != 1 || feed[0].Name != "trade-step" {
		t.Errorf("since=2 feed = %+v", feed)
	}

	rec = do(t, srv, http.MethodGet, "/api/active-trade", "")
	var active struct {
		Active bool              `json:"active"`
		Trade  activetrade.Trade `json:"trade"`
	}
	decode(t, rec, &active)
	if !active.Active || active.Trade.ProductID != "p1" {
		t.Errorf("active trade = %+v", active)
	}
	if rec := do(t, srv, http.MethodDelete, "/api/active-trade", ""); rec.Code != http.StatusOK {
		t.Errorf("dismiss status = %d", rec.Code)
	}
}

func TestRemoveOfferItem_BadIndex(t *testing.T) {
	srv := newTestServer(t)
	do(t, srv, http.MethodPost, "/api/trade/open", `{}`)

	if rec := do(t, srv, http.MethodDelete, "/api/trade/items/x", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("non-numeric index status = %d, want 400", rec.Code)
	}
	if rec := do(t, srv, http.MethodDelete, "/api/trade/items/3", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("out of range status = %d, want 400", rec.Code)
	}
}

func TestBuyQuote_ShortBalance(t *testing.T) {
	srv := newTestServer(t)

	// p4 quotes 2850 + 143; two purchases of it cannot both fit in 5450.
	if rec := do(t, srv, http.MethodPost, "/api/buy/quote", `{"product_id":"p4"}`); rec.Code != http.StatusOK {
		t.Fatalf("quote status = %d: %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, srv, http.MethodPost, "/api/buy/confirm", ""); rec.Code != http.StatusOK {
		t.Fatalf("confirm status = %d: %s", rec.Code, rec.Body.String())
	}
	rec := do(t, srv, http.MethodPost, "/api/buy/quote", `{"product_id":"p4"}`)
	if rec.Code != http.StatusPaymentRequired {
		t.Fatalf("second quote status = %d, want 402", rec.Code)
	}
	var e map[string]string
	decode(t, rec, &e)
	if !strings.Contains(e["error"], "Not enough balance") {
		t.Errorf("error = %q", e["error"])
	}

	if rec := do(t, srv, http.MethodPost, "/api/buy/confirm", ""); rec.Code != http.StatusConflict {
		t.Errorf("confirm without quote status = %d, want 409", rec.Code)
	}
	if rec := do(t, srv, http.MethodPost, "/api/buy/quote", `{}`); rec.Code != http.StatusBadRequest {
		t.Errorf("missing product status = %d, want 400", rec.Code)
	}
	if rec := do(t, srv, http.MethodPost, "/api/buy/quote", `{"product_id":"nope"}`); rec.Code != http.StatusNotFound {
		t.Errorf("unknown product status = %d, want 404", rec.Code)
	}
}

func TestChat_SendAndBlock(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/chat/general/messages", `{"content":"call me 050-1234567"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("blocked message status = %d, want 400", rec.Code)
	}

	rec = do(t, srv, http.MethodPost, "/api/chat/general/messages", `{"content":"  still available?  "}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("send status = %d: %s", rec.Code, rec.Body.String())
	}
	var sent chat.Message
	decode(t, rec, &sent)
	if sent.Content != "still available?" || sent.SenderID != "default" || sent.ID == "" {
		t.Errorf("sent = %+v", sent)
	}

	rec = do(t, srv, http.MethodGet, "/api/chat/general/messages", "")
	var history []chat.Message
	decode(t, rec, &history)
	if len(history) != 1 || history[0].ID != sent.ID {
		t.Errorf("history = %+v", history)
	}
}

func TestLikesAndPrefs(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/likes/p3", "")
	var like struct {
		ID    string `json:"id"`
		Liked bool   `json:"liked"`
	}
	decode(t, rec, &like)
	if !like.Liked || like.ID != "p3" {
		t.Errorf("like = %+v", like)
	}
	rec = do(t, srv, http.MethodGet, "/api/products/p3", "")
	var pv productView
	decode(t, rec, &pv)
	if !pv.Liked {
		t.Error("product view not marked liked")
	}

	rec = do(t, srv, http.MethodPost, "/api/prefs/currency", `{"currency":"ils","rate":3.5}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("currency status = %d: %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, srv, http.MethodPost, "/api/prefs/currency", `{"currency":"EUR"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid currency status = %d, want 400", rec.Code)
	}
	if rec := do(t, srv, http.MethodPost, "/api/prefs/location", `{"lat":200}`); rec.Code != http.StatusBadRequest {
		t.Errorf("bad location status = %d, want 400", rec.Code)
	}

	rec = do(t, srv, http.MethodGet, "/api/prefs", "")
	var prefs struct {
		Currency string  `json:"currency"`
		Rate     float64 `json:"rate"`
		Plan     string  `json:"plan"`
	}
	decode(t, rec, &prefs)
	if prefs.Currency != "ILS" || prefs.Rate != 3.5 || prefs.Plan != "FREE" {
		t.Errorf("prefs = %+v", prefs)
	}
}

func TestPriceList_OfflineInventory(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/pricelist", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var rows []priceRow
	decode(t, rec, &rows)
	if len(rows) != len(catalog.Inventory()) {
		t.Errorf("got %d rows, want %d", len(rows), len(catalog.Inventory()))
	}

	rec = do(t, srv, http.MethodGet, "/api/pricelist?q=zzzz-no-match", "")
	rows = nil
	decode(t, rec, &rows)
	if len(rows) != 0 {
		t.Errorf("no-match query returned %d rows", len(rows))
	}
}

func TestItemWrites_RemoteDisabled(t *testing.T) {
	srv := newTestServer(t)

	cases := []struct{ method, path, body string }{
		{http.MethodPost, "/api/items", `{"name":"x","price":1}`},
		{http.MethodPatch, "/api/items/1", `{"price":2}`},
		{http.MethodDelete, "/api/items/1", ""},
	}
	for _, c := range cases {
		if rec := do(t, srv, c.method, c.path, c.body); rec.Code != http.StatusServiceUnavailable {
			t.Errorf("%s %s status = %d, want 503", c.method, c.path, rec.Code)
		}
	}
}

func TestHandleStatus_Offline(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/status", "")
	var out map[string]interface{}
	decode(t, rec, &out)
	if out["remote_enabled"] != false || out["plan"] != "FREE" {
		t.Errorf("status = %+v", out)
	}
	if _, ok := out["remote_ok"]; ok {
		t.Error("remote_ok reported without a remote")
	}
}
