package market

import (
	"errors"
	"fmt"

	"fashion-insider/internal/activetrade"
	"fashion-insider/internal/catalog"
	"fashion-insider/internal/logger"
	"fashion-insider/internal/offer"
)

type session struct {
	target *catalog.CanonicalItem
	draft  *offer.Draft
}

// TradeView is the trade modal's state.
type TradeView struct {
	Target   *catalog.CanonicalItem  `json:"target,omitempty"`
	Items    []catalog.CanonicalItem `json:"items"`
	Credits  int64                   `json:"credits"`
	Value    float64                 `json:"value"`
	Fee      int64                   `json:"fee"`
	Required int64                   `json:"required"`
	Balance  int64                   `json:"balance"`
}

// SendResult describes a sent offer.
type SendResult struct {
	Fee     int64             `json:"fee"`
	Balance int64             `json:"balance"`
	Trade   activetrade.Trade `json:"trade"`
}

func (m *Market) viewLocked() TradeView {
	s := m.session
	v := TradeView{
		Target:   s.target,
		Items:    append([]catalog.CanonicalItem{}, s.draft.Items...),
		Credits:  s.draft.Credits,
		Value:    s.draft.Value(),
		Fee:      s.draft.ComputeFee(),
		Required: s.draft.Required(),
		Balance:  m.ledger.Balance(),
	}
	return v
}

// OpenTrade starts a trade session with an empty offer, discarding any
// previous one. targetID names the product being traded for; empty opens a
// generic trade.
func (m *Market) OpenTrade(targetID string) (TradeView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := &session{draft: offer.NewDraft(m.opts.TradeFeePct, m.opts.TradeFeeMinCR)}
	if targetID != "" {
		it, ok := catalog.FindByID(m.products, targetID)
		if !ok {
			return TradeView{}, fmt.Errorf("%w: %s", ErrUnknownProduct, targetID)
		}
		s.target = &it
	}
	m.session = s
	return m.viewLocked(), nil
}

// Trade returns the open session.
func (m *Market) Trade() (TradeView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return TradeView{}, ErrNoTradeSession
	}
	return m.viewLocked(), nil
}

// AddOfferItem adds a dashboard product to the offer.
func (m *Market) AddOfferItem(productID string) (TradeView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return TradeView{}, ErrNoTradeSession
	}
	it, ok := catalog.FindByID(m.products, productID)
	if !ok {
		return TradeView{}, fmt.Errorf("%w: %s", ErrUnknownProduct, productID)
	}
	m.session.draft.AddItem(it)
	return m.viewLocked(), nil
}

// RemoveOfferItem drops the offered item at index.
func (m *Market) RemoveOfferItem(index int) (TradeView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return TradeView{}, ErrNoTradeSession
	}
	if err := m.session.draft.RemoveItem(index); err != nil {
		return TradeView{}, err
	}
	return m.viewLocked(), nil
}

// AddOfferCredits offers credits, clamped to the current balance.
func (m *Market) AddOfferCredits(amount int64) (TradeView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return TradeView{}, ErrNoTradeSession
	}
	if amount <= 0 {
		return TradeView{}, ErrInvalidAmount
	}
	m.session.draft.AddCredits(amount, m.ledger.Balance())
	return m.viewLocked(), nil
}

// RemoveOfferCredits clears the offered credits.
func (m *Market) RemoveOfferCredits() (TradeView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return TradeView{}, ErrNoTradeSession
	}
	m.session.draft.RemoveCredits()
	return m.viewLocked(), nil
}

// CancelTrade discards the session.
func (m *Market) CancelTrade() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
}

// SendOffer validates the offer, debits the fee and starts tracking the
// trade, in that order. Offered credits are counted toward the required
// balance but are not debited. The session closes on success and stays
// open on validation failure.
func (m *Market) SendOffer() (SendResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return SendResult{}, ErrNoTradeSession
	}
	d := m.session.draft
	if err := d.Validate(m.ledger.Balance()); err != nil {
		var need *offer.NeedsMoreCreditsError
		if errors.As(err, &need) {
			logger.Warn("Trade", need.Error())
		}
		return SendResult{}, err
	}

	fee := d.ComputeFee()
	bal := m.debit(fee)
	name, id := d.Lead()
	tr := m.tracker.Start(name, id)
	m.session = nil

	logger.Info("Trade", fmt.Sprintf("offer sent, %d CR fee", fee))
	return SendResult{Fee: fee, Balance: bal, Trade: tr}, nil
}

// AcceptOffer confirms an incoming offer for the flat service fee.
func (m *Market) AcceptOffer() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fee := m.opts.AcceptFeeCR
	if !m.ledger.CanAfford(fee) {
		return 0, &InsufficientBalanceError{Required: fee, Balance: m.ledger.Balance(), Detail: "service fee"}
	}
	return m.debit(fee), nil
}
