// Package offer composes the "your offer" side of a trade: items plus
// credits, the fee it costs to send, and the balance check before sending.
package offer

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"fashion-insider/internal/catalog"
	"fashion-insider/internal/currency"
)

// Defaults for the trade fee.
const (
	DefaultFeePct       = 0.05
	DefaultMinFee int64 = 50
	GenericLabel        = "Trade offer"
)

var (
	// ErrEmptyOffer rejects a send with no items and no credits.
	ErrEmptyOffer = errors.New("add at least one item or credits to your offer before sending")
	// ErrIndexOutOfRange is returned by RemoveItem for an invalid index.
	ErrIndexOutOfRange = errors.New("offer item index out of range")
)

// NeedsMoreCreditsError is returned when the balance cannot cover the fee
// plus the offered credits.
type NeedsMoreCreditsError struct {
	Required int64
	Fee      int64
	Credits  int64
	Balance  int64
}

func (e *NeedsMoreCreditsError) Error() string {
	offered := ""
	if e.Credits > 0 {
		offered = " + " + currency.CR(e.Credits) + " offered"
	}
	return fmt.Sprintf("Insufficient balance. You need %s (fee %s%s). You have %s.",
		currency.CR(e.Required), currency.CR(e.Fee), offered, currency.CR(e.Balance))
}

// Draft is one trade session's offer. The zero value is an empty draft
// with the default fee rule.
type Draft struct {
	Items   []catalog.CanonicalItem `json:"items"`
	Credits int64                   `json:"credits"`

	FeePct float64 `json:"-"`
	MinFee int64   `json:"-"`
}

// NewDraft returns an empty draft with the given fee rule. Non-positive
// values select the defaults.
func NewDraft(feePct float64, minFee int64) *Draft {
	return &Draft{FeePct: feePct, MinFee: minFee}
}

// AddItem appends an item. Duplicates are allowed.
func (d *Draft) AddItem(it catalog.CanonicalItem) {
	d.Items = append(d.Items, it)
}

// RemoveItem drops the item at index.
func (d *Draft) RemoveItem(index int) error {
	if index < 0 || index >= len(d.Items) {
		return ErrIndexOutOfRange
	}
	d.Items = append(d.Items[:index:index], d.Items[index+1:]...)
	return nil
}

// AddCredits adds amount to the offered credits, clamping the total to
// balance. Non-positive amounts are ignored.
func (d *Draft) AddCredits(amount, balance int64) int64 {
	if amount <= 0 {
		return d.Credits
	}
	d.Credits += amount
	if d.Credits > balance {
		d.Credits = max(balance, 0)
	}
	return d.Credits
}

// RemoveCredits clears the offered credits.
func (d *Draft) RemoveCredits() {
	d.Credits = 0
}

// Reset empties the draft, keeping the fee rule.
func (d *Draft) Reset() {
	d.Items = nil
	d.Credits = 0
}

// Empty reports whether nothing is offered.
func (d *Draft) Empty() bool {
	return len(d.Items) == 0 && d.Credits <= 0
}

// Value is the sum of item prices plus offered credits.
func (d *Draft) Value() float64 {
	v := float64(d.Credits)
	for _, it := range d.Items {
		v += it.CurrentPrice
	}
	return v
}

func (d *Draft) feePct() float64 {
	if d.FeePct <= 0 {
		return DefaultFeePct
	}
	return d.FeePct
}

func (d *Draft) minFee() int64 {
	if d.MinFee <= 0 {
		return DefaultMinFee
	}
	return d.MinFee
}

// ComputeFee is max(minimum fee, ceil(value * fee pct)).
func (d *Draft) ComputeFee() int64 {
	pct := decimal.NewFromFloat(d.Value()).Mul(decimal.NewFromFloat(d.feePct())).Ceil().IntPart()
	return max(d.minFee(), pct)
}

// Required is the fee plus the offered credits.
func (d *Draft) Required() int64 {
	return d.ComputeFee() + d.Credits
}

// Validate checks the draft against balance. It returns ErrEmptyOffer or a
// *NeedsMoreCreditsError, or nil when the offer can be sent.
func (d *Draft) Validate(balance int64) error {
	if d.Empty() {
		return ErrEmptyOffer
	}
	fee := d.ComputeFee()
	required := fee + d.Credits
	if balance < required {
		return &NeedsMoreCreditsError{Required: required, Fee: fee, Credits: d.Credits, Balance: balance}
	}
	return nil
}

// Lead names the trade for tracking: the first offered item, or a generic
// label for a credits-only offer.
func (d *Draft) Lead() (name, id string) {
	if len(d.Items) == 0 {
		return GenericLabel, ""
	}
	return d.Items[0].Name, d.Items[0].ID
}
