// Package events is a typed, synchronous publish/subscribe bus. Every
// subscriber of a topic runs inside Publish, in subscription order.
package events

import "sync"

// Topic fans a payload type out to its subscribers.
type Topic[T any] struct {
	name string

	mu   sync.RWMutex
	next int
	subs []subscriber[T]
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

// NewTopic returns an empty topic. The name is used by Recorder.
func NewTopic[T any](name string) *Topic[T] {
	return &Topic[T]{name: name}
}

// Name is the wire name of the topic.
func (t *Topic[T]) Name() string { return t.name }

// Subscribe registers fn and returns a function that removes it.
func (t *Topic[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	t.mu.Lock()
	t.next++
	id := t.next
	t.subs = append(t.subs, subscriber[T]{id: id, fn: fn})
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			for i, s := range t.subs {
				if s.id == id {
					t.subs = append(t.subs[:i:i], t.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Publish delivers v to every subscriber before returning. Subscribers may
// subscribe or unsubscribe during delivery; changes apply to the next
// Publish.
func (t *Topic[T]) Publish(v T) {
	t.mu.RLock()
	subs := make([]subscriber[T], len(t.subs))
	copy(subs, t.subs)
	t.mu.RUnlock()

	for _, s := range subs {
		s.fn(v)
	}
}

// Payloads.

type BalanceDeduct struct {
	Amount int64 `json:"amount"`
}

type BalanceAdded struct {
	Amount int64 `json:"amount"`
}

// BalanceChanged follows every ledger mutation; Delta is negative for debits.
type BalanceChanged struct {
	Balance int64 `json:"balance"`
	Delta   int64 `json:"delta"`
}

type ProSubscribed struct{}

type ConfirmBuy struct {
	Total     int64 `json:"total"`
	FeeAmount int64 `json:"feeAmount"`
}

type CurrencyChanged struct {
	Currency string  `json:"currency"`
	Rate     float64 `json:"rate"`
}

type ShowBuyModal struct {
	ProductName string  `json:"productName"`
	ItemPrice   int64   `json:"itemPrice"`
	FeePct      float64 `json:"feePct"`
	FeeAmount   int64   `json:"feeAmount"`
	Total       int64   `json:"total"`
}

type LuckyWheelCredits struct {
	Amount int64 `json:"amount"`
}

type TradeStep struct {
	Step        int    `json:"step"`
	ProductName string `json:"productName"`
	ProductID   string `json:"productId"`
}

type TradeCompleted struct {
	ProductName string `json:"productName"`
	ProductID   string `json:"productId"`
}

// Bus groups one topic per event kind.
type Bus struct {
	BalanceDeduct     *Topic[BalanceDeduct]
	BalanceAdded      *Topic[BalanceAdded]
	BalanceChanged    *Topic[BalanceChanged]
	ProSubscribed     *Topic[ProSubscribed]
	ConfirmBuy        *Topic[ConfirmBuy]
	CurrencyChanged   *Topic[CurrencyChanged]
	ShowBuyModal      *Topic[ShowBuyModal]
	LuckyWheelCredits *Topic[LuckyWheelCredits]
	TradeStep         *Topic[TradeStep]
	TradeCompleted    *Topic[TradeCompleted]
}

// NewBus creates every topic with its wire name.
func NewBus() *Bus {
	return &Bus{
		BalanceDeduct:     NewTopic[BalanceDeduct]("balance-deduct"),
		BalanceAdded:      NewTopic[BalanceAdded]("balance-added"),
		BalanceChanged:    NewTopic[BalanceChanged]("balance-changed"),
		ProSubscribed:     NewTopic[ProSubscribed]("pro-subscribed"),
		ConfirmBuy:        NewTopic[ConfirmBuy]("confirm-buy"),
		CurrencyChanged:   NewTopic[CurrencyChanged]("currency-changed"),
		ShowBuyModal:      NewTopic[ShowBuyModal]("show-buy-modal"),
		LuckyWheelCredits: NewTopic[LuckyWheelCredits]("lucky-wheel-credits"),
		TradeStep:         NewTopic[TradeStep]("trade-step"),
		TradeCompleted:    NewTopic[TradeCompleted]("trade-completed"),
	}
}
