// Package market is the application-state object behind every surface of
// the marketplace. It owns the wallet, the active-trade tracker, the trade
// session and user preferences, and exposes each user action as a named
// command. Commands are serialized; events they publish are delivered
// synchronously before the command returns, so subscribers must not call
// back into Market commands.
package market

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"fashion-insider/internal/activetrade"
	"fashion-insider/internal/catalog"
	"fashion-insider/internal/currency"
	"fashion-insider/internal/events"
	"fashion-insider/internal/offer"
	"fashion-insider/internal/wallet"
)

// Persisted scalar keys.
const (
	KeyFirstBuyDone = "buy.first_done"
	KeyCurrency     = "prefs.currency"
	KeyUSDILSRate   = "prefs.usd_ils_rate"
	KeyPlan         = "prefs.plan"
	KeyCity         = "prefs.city"
	KeyLat          = "prefs.lat"
	KeyLon          = "prefs.lon"
)

// Plan is the user's subscription tier.
type Plan string

const (
	PlanFree Plan = "FREE"
	PlanPro  Plan = "PRO"
)

var (
	ErrNoTradeSession  = errors.New("no trade in progress; open a trade first")
	ErrUnknownProduct  = errors.New("unknown product")
	ErrNoPendingBuy    = errors.New("no purchase awaiting confirmation")
	ErrAlreadyPro      = errors.New("already subscribed to PRO")
	ErrInvalidAmount   = errors.New("amount must be a positive number of CR")
	ErrInvalidCurrency = errors.New("unsupported currency")
	ErrInvalidItemID   = errors.New("item id is required")
)

// InsufficientBalanceError rejects an action the balance cannot cover.
type InsufficientBalanceError struct {
	Required int64
	Balance  int64
	Detail   string
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("Not enough balance. You need %s (%s). You have %s.",
		currency.CR(e.Required), e.Detail, currency.CR(e.Balance))
}

// Store persists string scalars.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// LikeStore persists the liked-items set.
type LikeStore interface {
	ToggleLike(userID, itemID string) (bool, error)
	LikedItems(userID string) ([]string, error)
}

// Options configures fees and defaults. Zero values select the defaults
// listed on each field.
type Options struct {
	UserID          string
	DefaultBalance  int64         // 5450
	TradeFeePct     float64       // 0.05
	TradeFeeMinCR   int64         // 50
	AcceptFeeCR     int64         // 25
	BuyFeePct       float64       // 5 (percent)
	BuyFeePctPro    float64       // 2 (percent)
	ProBonusCR      int64         // 500
	DefaultCurrency string        // USD
	StepInterval    time.Duration // 5s
	Clock           activetrade.Clock
	Normalizer      catalog.Normalizer
}

func (o *Options) fill() {
	if o.DefaultBalance <= 0 {
		o.DefaultBalance = wallet.DefaultBalance
	}
	if o.TradeFeePct <= 0 {
		o.TradeFeePct = offer.DefaultFeePct
	}
	if o.TradeFeeMinCR <= 0 {
		o.TradeFeeMinCR = offer.DefaultMinFee
	}
	if o.AcceptFeeCR <= 0 {
		o.AcceptFeeCR = 25
	}
	if o.BuyFeePct <= 0 {
		o.BuyFeePct = 5
	}
	if o.BuyFeePctPro <= 0 {
		o.BuyFeePctPro = 2
	}
	if o.ProBonusCR <= 0 {
		o.ProBonusCR = 500
	}
	if !currency.Valid(o.DefaultCurrency) {
		o.DefaultCurrency = currency.USD
	}
}

// Market is the single source of truth for one user.
type Market struct {
	opts    Options
	bus     *events.Bus
	store   Store
	likes   LikeStore
	ledger  *wallet.Ledger
	tracker *activetrade.Tracker

	mu       sync.Mutex
	products []catalog.CanonicalItem
	session  *session
	pending  *pendingBuy
	memLikes map[string]bool
	mem      map[string]string
}

// New builds a Market over store. A nil store keeps everything in memory;
// a nil likes store keeps likes in memory.
func New(store Store, likes LikeStore, bus *events.Bus, opts Options) *Market {
	opts.fill()
	if bus == nil {
		bus = events.NewBus()
	}
	var ws wallet.Store
	var ts activetrade.Store
	if store != nil {
		ws, ts = store, store
	}
	m := &Market{
		opts:     opts,
		bus:      bus,
		store:    store,
		likes:    likes,
		ledger:   wallet.Open(ws, opts.DefaultBalance, bus.BalanceChanged),
		tracker:  activetrade.New(ts, opts.Clock, opts.StepInterval, bus),
		memLikes: map[string]bool{},
		mem:      map[string]string{},
	}
	for _, p := range catalog.Products() {
		m.products = append(m.products, opts.Normalizer.NormalizeLocal(p))
	}
	return m
}

// Bus exposes the event topics.
func (m *Market) Bus() *events.Bus { return m.bus }

// Ledger exposes the wallet for read access and subscriptions.
func (m *Market) Ledger() *wallet.Ledger { return m.ledger }

// Tracker exposes the active-trade tracker.
func (m *Market) Tracker() *activetrade.Tracker { return m.tracker }

// Balance is the current CR balance.
func (m *Market) Balance() int64 { return m.ledger.Balance() }

// Products returns the dashboard catalog.
func (m *Market) Products() []catalog.CanonicalItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]catalog.CanonicalItem(nil), m.products...)
}

// Product looks up a dashboard product or variation.
func (m *Market) Product(id string) (catalog.CanonicalItem, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return catalog.FindByID(m.products, id)
}

// Resume rehydrates the active trade at process start.
func (m *Market) Resume() (activetrade.Trade, bool) {
	return m.tracker.Resume()
}

// Close stops background timers.
func (m *Market) Close() {
	m.tracker.Stop()
}

// get and set must be called with mu held.
func (m *Market) get(key string) (string, bool) {
	if m.store == nil {
		v, ok := m.mem[key]
		return v, ok
	}
	return m.store.Get(key)
}

func (m *Market) set(key, value string) error {
	if m.store == nil {
		m.mem[key] = value
		return nil
	}
	if err := m.store.Set(key, value); err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}

// debit announces and applies a deduction. Every CR leaving the wallet
// goes through here.
func (m *Market) debit(amount int64) int64 {
	m.bus.BalanceDeduct.Publish(events.BalanceDeduct{Amount: amount})
	return m.ledger.Debit(amount)
}
