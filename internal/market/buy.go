package market

import (
	"fmt"

	"github.com/shopspring/decimal"

	"fashion-insider/internal/activetrade"
	"fashion-insider/internal/catalog"
	"fashion-insider/internal/events"
	"fashion-insider/internal/logger"
)

// BuyQuote is the buyer-protection breakdown shown before a purchase.
type BuyQuote struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	ItemPrice   int64   `json:"itemPrice"`
	FeePct      float64 `json:"feePct"`
	FeeAmount   int64   `json:"feeAmount"`
	Total       int64   `json:"total"`
}

// BuyResult describes a confirmed purchase.
type BuyResult struct {
	Quote    BuyQuote          `json:"quote"`
	Cashback int64             `json:"cashback"`
	Balance  int64             `json:"balance"`
	Trade    activetrade.Trade `json:"trade"`
}

type pendingBuy struct {
	quote BuyQuote
}

// BuyFee is round(price × pct / 100), halves rounding up.
func BuyFee(price int64, pct float64) int64 {
	return decimal.NewFromInt(price).
		Mul(decimal.NewFromFloat(pct)).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}

func (m *Market) buyFeePctLocked() float64 {
	if m.planLocked() == PlanPro {
		return m.opts.BuyFeePctPro
	}
	return m.opts.BuyFeePct
}

// QuoteBuy prices a purchase of productID and holds it for ConfirmBuy.
// A balance below the total is rejected before anything is shown.
func (m *Market) QuoteBuy(productID string) (BuyQuote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := catalog.FindByID(m.products, productID)
	if !ok {
		return BuyQuote{}, fmt.Errorf("%w: %s", ErrUnknownProduct, productID)
	}
	price := decimal.NewFromFloat(p.CurrentPrice).Round(0).IntPart()
	pct := m.buyFeePctLocked()
	fee := BuyFee(price, pct)
	q := BuyQuote{
		ProductID:   p.ID,
		ProductName: p.Name,
		ItemPrice:   price,
		FeePct:      pct,
		FeeAmount:   fee,
		Total:       price + fee,
	}
	if bal := m.ledger.Balance(); bal < q.Total {
		m.pending = nil
		return BuyQuote{}, &InsufficientBalanceError{
			Required: q.Total,
			Balance:  bal,
			Detail:   fmt.Sprintf("item + %s%% buyer protection", decimal.NewFromFloat(pct).String()),
		}
	}
	m.pending = &pendingBuy{quote: q}
	m.bus.ShowBuyModal.Publish(events.ShowBuyModal{
		ProductName: q.ProductName,
		ItemPrice:   q.ItemPrice,
		FeePct:      q.FeePct,
		FeeAmount:   q.FeeAmount,
		Total:       q.Total,
	})
	return q, nil
}

// CancelBuy drops the held quote.
func (m *Market) CancelBuy() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = nil
}

// ConfirmBuy completes the held quote: the total is debited, the very first
// purchase gets its fee back as cashback, and the item enters the active
// trade tracker. The balance is checked again since it may have changed
// after the quote.
func (m *Market) ConfirmBuy() (BuyResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pending == nil {
		return BuyResult{}, ErrNoPendingBuy
	}
	q := m.pending.quote
	if bal := m.ledger.Balance(); bal < q.Total {
		return BuyResult{}, &InsufficientBalanceError{
			Required: q.Total,
			Balance:  bal,
			Detail:   fmt.Sprintf("item + %s%% buyer protection", decimal.NewFromFloat(q.FeePct).String()),
		}
	}
	m.pending = nil

	m.bus.ConfirmBuy.Publish(events.ConfirmBuy{Total: q.Total, FeeAmount: q.FeeAmount})
	res := BuyResult{Quote: q, Balance: m.debit(q.Total)}

	if done, _ := m.get(KeyFirstBuyDone); done != "1" && q.FeeAmount > 0 {
		if err := m.set(KeyFirstBuyDone, "1"); err != nil {
			logger.Warn("Buy", err.Error())
		}
		m.bus.LuckyWheelCredits.Publish(events.LuckyWheelCredits{Amount: q.FeeAmount})
		res.Balance = m.ledger.Credit(q.FeeAmount)
		res.Cashback = q.FeeAmount
		logger.Success("Buy", fmt.Sprintf("first purchase cashback %d CR", q.FeeAmount))
	}

	res.Trade = m.tracker.Start(q.ProductName, q.ProductID)
	return res, nil
}
