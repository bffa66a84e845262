package market

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fashion-insider/internal/events"
	"fashion-insider/internal/logger"
)

// WalletSync writes the balance to the hosted profiles table.
type WalletSync interface {
	UpdateWalletBalance(ctx context.Context, userID string, balance int64) error
}

// MirrorWallet copies every balance change to ws in the background until
// ctx is done. A burst of changes results in one write of the latest
// balance. Failures are logged; the next change retries.
func (m *Market) MirrorWallet(ctx context.Context, ws WalletSync, userID string) {
	var (
		mu     sync.Mutex
		latest int64
	)
	wake := make(chan struct{}, 1)
	unsub := m.ledger.Subscribe(func(e events.BalanceChanged) {
		mu.Lock()
		latest = e.Balance
		mu.Unlock()
		select {
		case wake <- struct{}{}:
		default:
		}
	})

	go func() {
		defer unsub()
		for {
			select {
			case <-ctx.Done():
				return
			case <-wake:
			}
			mu.Lock()
			bal := latest
			mu.Unlock()

			wctx, cancel := context.WithTimeout(ctx, 10*time.Second)
			err := ws.UpdateWalletBalance(wctx, userID, bal)
			cancel()
			if err != nil {
				logger.Warn("Wallet", fmt.Sprintf("remote balance sync: %v", err))
			}
		}
	}()
}
