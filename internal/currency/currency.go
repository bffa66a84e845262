// Package currency renders USD-denominated prices in the user's display
// currency and in CR.
package currency

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	USD = "USD"
	ILS = "ILS"
)

// USDToCR is the fixed credit conversion used for CR ranges.
const USDToCR = 100

var printer = message.NewPrinter(language.English)

// Formatter renders amounts stored in USD. Rate converts USD to Code and is
// ignored for USD. A non-positive ILS rate is treated as 1.
type Formatter struct {
	Code string
	Rate float64
}

// New normalizes code and rate into a Formatter.
func New(code string, rate float64) Formatter {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code != ILS {
		return Formatter{Code: USD, Rate: 1}
	}
	if rate <= 0 {
		rate = 1
	}
	return Formatter{Code: ILS, Rate: rate}
}

// Valid reports whether code names a supported display currency.
func Valid(code string) bool {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case USD, ILS:
		return true
	}
	return false
}

func (f Formatter) rate() decimal.Decimal {
	if f.Code != ILS || f.Rate <= 0 {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromFloat(f.Rate)
}

// Symbol is "₪" for ILS and "$" otherwise.
func (f Formatter) Symbol() string {
	if f.Code == ILS {
		return "₪"
	}
	return "$"
}

func (f Formatter) convert(usd float64) decimal.Decimal {
	return decimal.NewFromFloat(usd).Mul(f.rate())
}

// Price renders a single amount: whole grouped shekels for ILS, two
// decimals for USD.
func (f Formatter) Price(usd float64) string {
	v := f.convert(usd)
	if f.Code == ILS {
		return f.Symbol() + group(v.Round(0).IntPart())
	}
	return f.Symbol() + v.StringFixed(2)
}

// Range renders "sym low – sym high" with both ends rounded.
func (f Formatter) Range(low, high float64) string {
	sym := f.Symbol()
	return fmt.Sprintf("%s%d – %s%d", sym, f.convert(low).Round(0).IntPart(), sym, f.convert(high).Round(0).IntPart())
}

// Change renders a day-over-day delta with an arrow. Zero renders as up.
func (f Formatter) Change(delta float64) string {
	v := decimal.NewFromFloat(delta).Abs().Mul(f.rate()).Round(0).IntPart()
	if delta >= 0 {
		return fmt.Sprintf("↑ +%s%d", f.Symbol(), v)
	}
	return fmt.Sprintf("↓ -%s%d", f.Symbol(), v)
}

// RangeCR renders a USD range in credits.
func RangeCR(low, high float64) string {
	return group(ToCR(low)) + " – " + group(ToCR(high)) + " CR"
}

// ToCR converts USD to whole credits.
func ToCR(usd float64) int64 {
	return decimal.NewFromFloat(usd).Mul(decimal.NewFromInt(USDToCR)).Round(0).IntPart()
}

// CR renders a credit amount with digit grouping, e.g. "5,450 CR".
func CR(n int64) string {
	return group(n) + " CR"
}

// ChangeCR renders a USD delta in credits with an arrow.
func ChangeCR(delta float64) string {
	cr := ToCR(delta)
	if delta >= 0 {
		return "↑ +" + CR(cr)
	}
	return "↓ -" + CR(-cr)
}

func group(n int64) string {
	return printer.Sprintf("%d", n)
}
