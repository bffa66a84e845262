// Package catalog turns raw product records from the local mock catalog,
// the offline inventory and the hosted database into one canonical item
// shape, and searches over the result.
package catalog

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"fashion-insider/internal/pricehistory"
)

// PlaceholderImage substitutes for a missing image URL.
const PlaceholderImage = "https://placehold.co/400x300/1a1a1a/666?text=No+Image"

// Source tells which adapter produced an item.
type Source string

const (
	SourceLocal     Source = "local"
	SourceRemote    Source = "remote"
	SourceInventory Source = "inventory"
)

// CanonicalItem is the normalized listing used by every surface.
// Items are immutable once built; a new fetch produces new items.
type CanonicalItem struct {
	ID             string               `json:"id"`
	Name           string               `json:"name"`
	Brand          string               `json:"brand"`
	ImageURL       string               `json:"image_url"`
	Owner          string               `json:"owner,omitempty"`
	Source         Source               `json:"source"`
	RetailPrice    float64              `json:"retail_price"`
	ResellPrice    float64              `json:"resell_price"`
	PriceRangeLow  float64              `json:"price_range_low"`
	PriceRangeHigh float64              `json:"price_range_high"`
	CurrentPrice   float64              `json:"current_price"`
	PriceHistory   []pricehistory.Point `json:"price_history"`
	Variations     []CanonicalItem      `json:"variations,omitempty"`
}

// HasCondition reports whether the new/used selector applies to the item.
func (it CanonicalItem) HasCondition() bool {
	return it.Source != SourceLocal
}

// Number is a price that decodes from a JSON number or a numeric string.
// Anything else decodes to 0.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*n = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*n = 0
			return nil
		}
		*n = Number(parseMoney(s))
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		f = 0
	}
	*n = Number(f)
	return nil
}

func parseMoney(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f != f {
		return 0
	}
	return f
}

// FlexID is an identifier that may arrive as a JSON number or string.
type FlexID string

func (id *FlexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = FlexID(s)
		return nil
	}
	if string(b) == "null" {
		*id = ""
		return nil
	}
	*id = FlexID(b)
	return nil
}

func (id FlexID) String() string { return string(id) }
