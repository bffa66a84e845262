package catalog

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Pricing constants for the condition selector and shekel conversion.
const (
	USDToILS     = 3.8
	TaxRate      = 1.2
	UsedDiscount = 0.6
)

// ConditionPrice is the resell price, discounted for used condition.
// Local products have no condition and always return their resell price.
func ConditionPrice(it CanonicalItem, used bool) float64 {
	if used && it.HasCondition() {
		return it.ResellPrice * UsedDiscount
	}
	return it.ResellPrice
}

// PriceToILS converts a USD price to rounded shekels including tax, with the
// used-condition discount applied when requested.
func PriceToILS(usd float64, used bool) int64 {
	if usd != usd {
		return 0
	}
	ils := decimal.NewFromFloat(usd).
		Mul(decimal.NewFromFloat(USDToILS)).
		Mul(decimal.NewFromFloat(TaxRate))
	if used {
		ils = ils.Mul(decimal.NewFromFloat(UsedDiscount))
	}
	return ils.Round(0).IntPart()
}

// Filter keeps items whose name or brand contains query, case-insensitively.
// Brand falls back to owner. An empty query keeps everything.
func Filter(items []CanonicalItem, query string) []CanonicalItem {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]CanonicalItem, 0, len(items))
	for _, it := range items {
		if q == "" || matches(it, q) {
			out = append(out, it)
		}
	}
	return out
}

func matches(it CanonicalItem, q string) bool {
	brand := it.Brand
	if brand == "" {
		brand = it.Owner
	}
	return strings.Contains(strings.ToLower(it.Name), q) ||
		strings.Contains(strings.ToLower(brand), q)
}

// Category groups brands for the price list tabs.
type Category string

const (
	CategoryAll      Category = "all"
	CategoryShoes    Category = "shoes"
	CategoryClothing Category = "clothing"
)

var categoryBrands = map[Category]map[string]bool{
	CategoryShoes: set("Nike", "Adidas", "New Balance", "Salomon", "Asics",
		"Converse", "Balenciaga", "Bape"),
	CategoryClothing: set("Zara", "H&M", "Fear of God", "Stussy", "Supreme",
		"Carhartt WIP", "Palace", "Kith", "Off-White", "The North Face", "Uniqlo",
		"Levi's", "Comme des Garçons"),
}

func set(vals ...string) map[string]bool {
	m := make(map[string]bool, len(vals))
	for _, v := range vals {
		m[v] = true
	}
	return m
}

// ParseCategory maps a filter name to a Category; unknown names are "all".
func ParseCategory(s string) Category {
	switch Category(strings.ToLower(s)) {
	case CategoryShoes:
		return CategoryShoes
	case CategoryClothing:
		return CategoryClothing
	}
	return CategoryAll
}

// FilterCategory keeps items whose brand belongs to the category.
func FilterCategory(items []CanonicalItem, c Category) []CanonicalItem {
	brands, ok := categoryBrands[c]
	if !ok {
		return append([]CanonicalItem(nil), items...)
	}
	out := make([]CanonicalItem, 0, len(items))
	for _, it := range items {
		if brands[it.Brand] {
			out = append(out, it)
		}
	}
	return out
}

// SortKey selects the price list ordering.
type SortKey string

const (
	SortByName  SortKey = "name"
	SortByPrice SortKey = "price"
)

// Sort returns a sorted copy. Names compare with English collation so
// accented brands order naturally; prices ascend by current price.
func Sort(items []CanonicalItem, key SortKey) []CanonicalItem {
	out := append([]CanonicalItem(nil), items...)
	switch key {
	case SortByPrice:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CurrentPrice < out[j].CurrentPrice
		})
	default:
		col := collate.New(language.English, collate.IgnoreCase)
		sort.SliceStable(out, func(i, j int) bool {
			return col.CompareString(out[i].Name, out[j].Name) < 0
		})
	}
	return out
}

// FindByID looks an item up by id, including variations.
func FindByID(items []CanonicalItem, id string) (CanonicalItem, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
		for _, v := range it.Variations {
			if v.ID == id {
				return v, true
			}
		}
	}
	return CanonicalItem{}, false
}
