package catalog

import (
	"math"
	"strconv"

	"fashion-insider/internal/pricehistory"
)

// LocalRecord is a dashboard product from the static catalog. Price is in
// CR; PriceLow/PriceHigh are the market range in USD.
type LocalRecord struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Brand        string               `json:"brand"`
	Price        Number               `json:"price"`
	PriceLow     Number               `json:"priceLow"`
	PriceHigh    Number               `json:"priceHigh"`
	ImageURL     string               `json:"imageURL"`
	PriceHistory []pricehistory.Point `json:"priceHistory,omitempty"`
	Variations   []LocalRecord        `json:"variations,omitempty"`
}

// RemoteRecord is a row of the hosted items table.
type RemoteRecord struct {
	ID          FlexID  `json:"id"`
	Name        string  `json:"name"`
	Price       Number  `json:"price"`
	Image       string  `json:"image"`
	Owner       string  `json:"owner"`
	Brand       string  `json:"brand,omitempty"`
	RetailPrice *Number `json:"retail_price,omitempty"`
	ResellPrice *Number `json:"resell_price,omitempty"`
}

// InventoryRecord is an entry of the offline inventory used when the hosted
// database is absent or unreachable. Prices are in USD.
type InventoryRecord struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Brand       string  `json:"brand"`
	Image       string  `json:"image"`
	RetailPrice float64 `json:"retailPrice"`
	ResellPrice float64 `json:"resellPrice"`
}

// Kind tags which record a Raw carries.
type Kind int

const (
	KindLocal Kind = iota + 1
	KindRemote
	KindInventory
)

// Raw is a tagged union over the supported record shapes.
type Raw struct {
	Kind      Kind
	Local     *LocalRecord
	Remote    *RemoteRecord
	Inventory *InventoryRecord
}

func FromLocal(r LocalRecord) Raw         { return Raw{Kind: KindLocal, Local: &r} }
func FromRemote(r RemoteRecord) Raw       { return Raw{Kind: KindRemote, Remote: &r} }
func FromInventory(r InventoryRecord) Raw { return Raw{Kind: KindInventory, Inventory: &r} }

const (
	retailFromPrice    = 0.85
	remoteHistoryNoise = 0.08
)

// Normalizer converts raw records to canonical items. The zero value uses
// 14 days of history and the shared random source.
type Normalizer struct {
	HistoryDays int
	Source      pricehistory.Source
}

func (n Normalizer) days() int {
	if n.HistoryDays <= 0 {
		return 14
	}
	return n.HistoryDays
}

// Normalize dispatches on the record kind. An empty Raw yields a zero item.
func (n Normalizer) Normalize(r Raw) CanonicalItem {
	switch {
	case r.Kind == KindLocal && r.Local != nil:
		return n.NormalizeLocal(*r.Local)
	case r.Kind == KindRemote && r.Remote != nil:
		return n.NormalizeRemote(*r.Remote)
	case r.Kind == KindInventory && r.Inventory != nil:
		return n.NormalizeInventory(*r.Inventory)
	}
	return CanonicalItem{}
}

// NormalizeAll normalizes a batch, preserving order.
func (n Normalizer) NormalizeAll(rs []Raw) []CanonicalItem {
	out := make([]CanonicalItem, 0, len(rs))
	for _, r := range rs {
		out = append(out, n.Normalize(r))
	}
	return out
}

// NormalizeLocal keeps the product's CR price and USD range. Supplied history
// is copied; otherwise it is synthesized inside the range.
func (n Normalizer) NormalizeLocal(r LocalRecord) CanonicalItem {
	it := n.normalizeLocal(r)
	if len(r.Variations) > 0 {
		it.Variations = make([]CanonicalItem, 0, len(r.Variations))
		for _, v := range r.Variations {
			it.Variations = append(it.Variations, n.normalizeLocal(v))
		}
	}
	return it
}

func (n Normalizer) normalizeLocal(r LocalRecord) CanonicalItem {
	low, high := ordered(clean(float64(r.PriceLow)), clean(float64(r.PriceHigh)))
	it := CanonicalItem{
		ID:             r.ID,
		Name:           r.Name,
		Brand:          orDefault(r.Brand, "User"),
		ImageURL:       orDefault(r.ImageURL, PlaceholderImage),
		Source:         SourceLocal,
		RetailPrice:    low,
		ResellPrice:    high,
		PriceRangeLow:  low,
		PriceRangeHigh: high,
		CurrentPrice:   clean(float64(r.Price)),
	}
	if len(r.PriceHistory) > 0 {
		it.PriceHistory = append([]pricehistory.Point(nil), r.PriceHistory...)
	} else {
		it.PriceHistory = pricehistory.Synthesize(n.days(), low, high, n.Source)
	}
	return it
}

// NormalizeRemote applies the hosted-row rules: a missing retail price is
// 85% of price, a missing resell price is price, brand falls back to owner
// and then "User".
func (n Normalizer) NormalizeRemote(r RemoteRecord) CanonicalItem {
	price := clean(float64(r.Price))
	retail := price * retailFromPrice
	if r.RetailPrice != nil {
		retail = clean(float64(*r.RetailPrice))
	}
	resell := price
	if r.ResellPrice != nil {
		resell = clean(float64(*r.ResellPrice))
	}
	low, high := ordered(retail, resell)

	brand := r.Brand
	if brand == "" {
		brand = orDefault(r.Owner, "User")
	}

	return CanonicalItem{
		ID:             r.ID.String(),
		Name:           r.Name,
		Brand:          brand,
		ImageURL:       orDefault(r.Image, PlaceholderImage),
		Owner:          r.Owner,
		Source:         SourceRemote,
		RetailPrice:    retail,
		ResellPrice:    resell,
		PriceRangeLow:  low,
		PriceRangeHigh: high,
		CurrentPrice:   resell,
		PriceHistory:   pricehistory.SynthesizeAround(n.days(), resell, remoteHistoryNoise, n.Source),
	}
}

// NormalizeInventory treats an offline inventory entry like a hosted row
// whose retail and resell prices are both present.
func (n Normalizer) NormalizeInventory(r InventoryRecord) CanonicalItem {
	retail := Number(r.RetailPrice)
	resell := Number(r.ResellPrice)
	it := n.NormalizeRemote(RemoteRecord{
		ID:          FlexID(strconv.Itoa(r.ID)),
		Name:        r.Name,
		Price:       resell,
		Image:       r.Image,
		Brand:       r.Brand,
		RetailPrice: &retail,
		ResellPrice: &resell,
	})
	it.Source = SourceInventory
	return it
}

var defaultNormalizer Normalizer

// Normalize converts one record with the default normalizer.
func Normalize(r Raw) CanonicalItem {
	return defaultNormalizer.Normalize(r)
}

func clean(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func ordered(a, b float64) (float64, float64) {
	if a > b {
		return b, a
	}
	return a, b
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
