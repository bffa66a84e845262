// Package activetrade tracks the single in-progress trade through its four
// steps. A timer advances one step per interval; the record is persisted
// so a restart resumes where the trade should be by the wall clock.
package activetrade

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"fashion-insider/internal/events"
	"fashion-insider/internal/logger"
)

// StorageKey is the persisted scalar holding the active trade.
const StorageKey = "trade.active"

const (
	FirstStep = 1
	LastStep  = 4
)

// DefaultInterval is the time between steps.
const DefaultInterval = 5 * time.Second

// Trade is the persisted record. StartedAt is unix milliseconds.
type Trade struct {
	Step        int    `json:"step"`
	ProductName string `json:"productName"`
	ProductID   string `json:"productId"`
	StartedAt   int64  `json:"startedAt"`
}

// Completed reports whether the trade reached the last step.
func (t Trade) Completed() bool { return t.Step >= LastStep }

// Store persists string scalars.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// Tracker owns the active trade. Start replaces any running trade;
// Dismiss is the only other way to stop one before it completes.
type Tracker struct {
	clock    Clock
	store    Store
	interval time.Duration
	steps    *events.Topic[events.TradeStep]
	done     *events.Topic[events.TradeCompleted]

	mu    sync.Mutex
	cur   *Trade
	timer Timer
	gen   uint64
}

// New returns an idle tracker. Nil clock, bus or a non-positive interval
// select defaults; a nil store keeps the trade in memory only.
func New(store Store, clock Clock, interval time.Duration, bus *events.Bus) *Tracker {
	if clock == nil {
		clock = SystemClock
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	if bus == nil {
		bus = events.NewBus()
	}
	return &Tracker{
		clock:    clock,
		store:    store,
		interval: interval,
		steps:    bus.TradeStep,
		done:     bus.TradeCompleted,
	}
}

// OnComplete registers fn to run once per trade when it reaches the last step.
func (t *Tracker) OnComplete(fn func(events.TradeCompleted)) func() {
	return t.done.Subscribe(fn)
}

// OnStep registers fn for every step change, including the first.
func (t *Tracker) OnStep(fn func(events.TradeStep)) func() {
	return t.steps.Subscribe(fn)
}

// Current returns a copy of the active trade.
func (t *Tracker) Current() (Trade, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cur == nil {
		return Trade{}, false
	}
	return *t.cur, true
}

// Start begins a new trade at step 1 and arms the step timer.
func (t *Tracker) Start(productName, productID string) Trade {
	t.mu.Lock()
	t.stopLocked()
	tr := Trade{
		Step:        FirstStep,
		ProductName: productName,
		ProductID:   productID,
		StartedAt:   t.clock.Now().UnixMilli(),
	}
	t.cur = &tr
	t.persistLocked()
	t.armLocked(t.interval)
	t.mu.Unlock()

	logger.Info("Trade", fmt.Sprintf("started %q", productName))
	t.steps.Publish(stepEvent(tr))
	return tr
}

// Resume loads a persisted trade and fast-forwards it to the step implied
// by the time elapsed since it started. An unfinished trade keeps ticking;
// one that finished while the process was down completes immediately.
func (t *Tracker) Resume() (Trade, bool) {
	if t.store == nil {
		return Trade{}, false
	}
	raw, ok := t.store.Get(StorageKey)
	if !ok || raw == "" {
		return Trade{}, false
	}
	var tr Trade
	if err := json.Unmarshal([]byte(raw), &tr); err != nil || tr.Step < FirstStep {
		logger.Warn("Trade", "discarding unreadable active trade")
		if err := t.store.Delete(StorageKey); err != nil {
			logger.Warn("Trade", "clear unreadable active trade: "+err.Error())
		}
		return Trade{}, false
	}
	tr.Step = min(tr.Step, LastStep)

	t.mu.Lock()
	t.stopLocked()
	prev := tr.Step
	elapsed := t.clock.Now().Sub(time.UnixMilli(tr.StartedAt))
	if elapsed < 0 {
		elapsed = 0
	}
	expected := FirstStep + int(elapsed/t.interval)
	tr.Step = min(max(tr.Step, expected), LastStep)
	t.cur = &tr
	if tr.Step != prev {
		t.persistLocked()
	}
	if !tr.Completed() {
		next := time.UnixMilli(tr.StartedAt).Add(time.Duration(tr.Step) * t.interval)
		t.armLocked(max(next.Sub(t.clock.Now()), 0))
	}
	t.mu.Unlock()

	logger.Info("Trade", fmt.Sprintf("resumed %q at step %d", tr.ProductName, tr.Step))
	if tr.Step != prev {
		t.steps.Publish(stepEvent(tr))
		if tr.Completed() {
			t.done.Publish(events.TradeCompleted{ProductName: tr.ProductName, ProductID: tr.ProductID})
		}
	}
	return tr, true
}

// Dismiss clears the trade and cancels its timer.
func (t *Tracker) Dismiss() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	t.cur = nil
	if t.store == nil {
		return nil
	}
	if err := t.store.Delete(StorageKey); err != nil {
		return fmt.Errorf("clear active trade: %w", err)
	}
	return nil
}

// Stop cancels the timer without clearing the trade, for shutdown.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *Tracker) tick(gen uint64) {
	t.mu.Lock()
	if gen != t.gen || t.cur == nil || t.cur.Completed() {
		t.mu.Unlock()
		return
	}
	t.timer = nil
	t.cur.Step++
	tr := *t.cur
	t.persistLocked()
	if !tr.Completed() {
		t.armLocked(t.interval)
	}
	t.mu.Unlock()

	t.steps.Publish(stepEvent(tr))
	if tr.Completed() {
		logger.Success("Trade", fmt.Sprintf("completed %q", tr.ProductName))
		t.done.Publish(events.TradeCompleted{ProductName: tr.ProductName, ProductID: tr.ProductID})
	}
}

func (t *Tracker) armLocked(d time.Duration) {
	gen := t.gen
	t.timer = t.clock.AfterFunc(d, func() { t.tick(gen) })
}

func (t *Tracker) stopLocked() {
	t.gen++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *Tracker) persistLocked() {
	if t.store == nil || t.cur == nil {
		return
	}
	b, err := json.Marshal(t.cur)
	if err != nil {
		return
	}
	if err := t.store.Set(StorageKey, string(b)); err != nil {
		logger.Warn("Trade", "persist active trade: "+err.Error())
	}
}

func stepEvent(tr Trade) events.TradeStep {
	return events.TradeStep{Step: tr.Step, ProductName: tr.ProductName, ProductID: tr.ProductID}
}
