package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"fashion-insider/internal/catalog"
	"fashion-insider/internal/chat"
	"fashion-insider/internal/config"
	"fashion-insider/internal/events"
	"fashion-insider/internal/logger"
	"fashion-insider/internal/market"
	"fashion-insider/internal/offer"
	"fashion-insider/internal/remote"
)

// Server is the HTTP API over the market state, price list search, chat
// and the hosted database.
type Server struct {
	cfg      *config.Config
	market   *market.Market
	searcher *catalog.Searcher
	chat     *chat.Service
	remote   *remote.Client
	events   *events.Recorder
	started  time.Time
}

// NewServer wires the API. rc may be nil or disabled.
func NewServer(cfg *config.Config, m *market.Market, searcher *catalog.Searcher, chatSvc *chat.Service, rc *remote.Client) *Server {
	return &Server{
		cfg:      cfg,
		market:   m,
		searcher: searcher,
		chat:     chatSvc,
		remote:   rc,
		events:   events.NewRecorder(m.Bus(), 512),
		started:  time.Now(),
	}
}

// Close detaches the event feed from the bus.
func (s *Server) Close() {
	s.events.Close()
}

// Handler returns the HTTP handler with all API routes and CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/config", s.handleGetConfig)
	// Catalog
	mux.HandleFunc("GET /api/products", s.handleProducts)
	mux.HandleFunc("GET /api/products/{id}", s.handleProduct)
	mux.HandleFunc("GET /api/products/{id}/chart", s.handleProductChart)
	mux.HandleFunc("GET /api/pricelist", s.handlePriceList)
	mux.HandleFunc("POST /api/items", s.handleAddItem)
	mux.HandleFunc("PATCH /api/items/{id}", s.handleUpdateItem)
	mux.HandleFunc("DELETE /api/items/{id}", s.handleDeleteItem)
	// Wallet and plan
	mux.HandleFunc("GET /api/wallet", s.handleWallet)
	mux.HandleFunc("POST /api/wallet/topup", s.handleTopUp)
	mux.HandleFunc("POST /api/pro", s.handleSubscribePro)
	// Trade session
	mux.HandleFunc("GET /api/trade", s.handleGetTrade)
	mux.HandleFunc("POST /api/trade/open", s.handleOpenTrade)
	mux.HandleFunc("POST /api/trade/items", s.handleAddOfferItem)
	mux.HandleFunc("DELETE /api/trade/items/{index}", s.handleRemoveOfferItem)
	mux.HandleFunc("POST /api/trade/credits", s.handleAddOfferCredits)
	mux.HandleFunc("DELETE /api/trade/credits", s.handleRemoveOfferCredits)
	mux.HandleFunc("POST /api/trade/send", s.handleSendOffer)
	mux.HandleFunc("POST /api/trade/cancel", s.handleCancelTrade)
	mux.HandleFunc("POST /api/trades/accept", s.handleAcceptOffer)
	// Buy
	mux.HandleFunc("POST /api/buy/quote", s.handleQuoteBuy)
	mux.HandleFunc("POST /api/buy/confirm", s.handleConfirmBuy)
	mux.HandleFunc("POST /api/buy/cancel", s.handleCancelBuy)
	// Active trade
	mux.HandleFunc("GET /api/active-trade", s.handleActiveTrade)
	mux.HandleFunc("DELETE /api/active-trade", s.handleDismissActiveTrade)
	// Chat, likes, preferences
	mux.HandleFunc("GET /api/chat/{channel}/messages", s.handleChatHistory)
	mux.HandleFunc("POST /api/chat/{channel}/messages", s.handleChatSend)
	mux.HandleFunc("GET /api/likes", s.handleLikes)
	mux.HandleFunc("POST /api/likes/{id}", s.handleToggleLike)
	mux.HandleFunc("GET /api/prefs", s.handlePrefs)
	mux.HandleFunc("POST /api/prefs/currency", s.handleSetCurrency)
	mux.HandleFunc("POST /api/prefs/location", s.handleSetLocation)
	mux.HandleFunc("GET /api/events", s.handleEvents)
	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(204)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// writeDomainError maps command errors to status codes. Balance shortfalls
// are 402 so clients can offer a top-up.
func writeDomainError(w http.ResponseWriter, err error) {
	var short *market.InsufficientBalanceError
	var need *offer.NeedsMoreCreditsError
	switch {
	case errors.As(err, &short), errors.As(err, &need):
		writeError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, market.ErrUnknownProduct):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, market.ErrNoTradeSession),
		errors.Is(err, market.ErrNoPendingBuy),
		errors.Is(err, market.ErrAlreadyPro):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, market.ErrInvalidAmount),
		errors.Is(err, market.ErrInvalidCurrency),
		errors.Is(err, market.ErrInvalidItemID),
		errors.Is(err, offer.ErrEmptyOffer),
		errors.Is(err, offer.ErrIndexOutOfRange),
		errors.Is(err, chat.ErrEmpty),
		errors.Is(err, chat.ErrBlocked):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("API", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeBody reads a JSON body into dst. An empty body leaves dst as is.
func decodeBody(r *http.Request, dst interface{}) error {
	err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(dst)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// --- Handlers ---

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	result := map[string]interface{}{
		"version":        s.cfg.Version,
		"uptime_sec":     int64(time.Since(s.started).Seconds()),
		"balance":        s.market.Balance(),
		"plan":           s.market.Plan(),
		"remote_enabled": s.remote.Enabled(),
	}
	if s.remote.Enabled() {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		result["remote_ok"] = s.remote.HealthCheck(ctx)
		cancel()
	}
	if tr, ok := s.market.Tracker().Current(); ok {
		result["active_trade"] = tr
	}
	writeJSON(w, result)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.cfg)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	since, err := strconv.ParseUint(r.URL.Query().Get("since"), 10, 64)
	if err != nil {
		since = 0
	}
	writeJSON(w, s.events.Since(since))
}

func (s *Server) requireRemote(w http.ResponseWriter) bool {
	if s.remote.Enabled() {
		return true
	}
	writeError(w, http.StatusServiceUnavailable, remote.ErrDisabled.Error())
	return false
}
