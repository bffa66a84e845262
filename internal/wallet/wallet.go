// Package wallet holds the single CR balance. Debit and Credit are the only
// ways to change it; both persist the new value and notify every
// subscriber before returning.
package wallet

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"fashion-insider/internal/events"
	"fashion-insider/internal/logger"
)

// BalanceKey is the persisted scalar holding the balance.
const BalanceKey = "wallet.balance"

// DefaultBalance applies when nothing usable is persisted.
const DefaultBalance int64 = 5450

// Store persists string scalars.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Ledger is the process-wide balance. It performs no bounds check: callers
// confirm affordability with CanAfford before debiting.
type Ledger struct {
	mu      sync.RWMutex
	balance int64
	store   Store
	changed *events.Topic[events.BalanceChanged]
}

// Open loads the persisted balance, falling back to def (or DefaultBalance
// when def is not positive) if the scalar is missing or unparsable. A nil
// store keeps the balance in memory only.
func Open(store Store, def int64, changed *events.Topic[events.BalanceChanged]) *Ledger {
	if def <= 0 {
		def = DefaultBalance
	}
	if changed == nil {
		changed = events.NewTopic[events.BalanceChanged]("balance-changed")
	}
	l := &Ledger{balance: def, store: store, changed: changed}
	if store == nil {
		return l
	}
	if v, ok := store.Get(BalanceKey); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err == nil {
			l.balance = n
		} else if f, ferr := strconv.ParseFloat(strings.TrimSpace(v), 64); ferr == nil && f == f {
			l.balance = int64(f)
		} else {
			logger.Warn("Wallet", fmt.Sprintf("unparsable balance %q, using %d", v, def))
		}
	}
	return l
}

// Balance returns the current balance.
func (l *Ledger) Balance() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balance
}

// CanAfford reports whether amount can be debited without going negative.
func (l *Ledger) CanAfford(amount int64) bool {
	return l.Balance() >= amount
}

// Debit subtracts amount. Non-positive amounts are ignored.
func (l *Ledger) Debit(amount int64) int64 {
	if amount <= 0 {
		return l.Balance()
	}
	return l.apply(-amount)
}

// Credit adds amount. Non-positive amounts are ignored.
func (l *Ledger) Credit(amount int64) int64 {
	if amount <= 0 {
		return l.Balance()
	}
	return l.apply(amount)
}

// Subscribe registers fn for every balance change.
func (l *Ledger) Subscribe(fn func(events.BalanceChanged)) func() {
	return l.changed.Subscribe(fn)
}

func (l *Ledger) apply(delta int64) int64 {
	l.mu.Lock()
	l.balance += delta
	bal := l.balance
	l.mu.Unlock()

	if l.store != nil {
		if err := l.store.Set(BalanceKey, strconv.FormatInt(bal, 10)); err != nil {
			logger.Warn("Wallet", "persist balance: "+err.Error())
		}
	}
	l.changed.Publish(events.BalanceChanged{Balance: bal, Delta: delta})
	return bal
}
