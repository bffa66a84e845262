// Package pricehistory synthesizes bounded daily price series and derives
// chart bounds, range bands and day-over-day change from them.
package pricehistory

import (
	"math"
	"math/rand"
	"time"
)

// DateLayout is the day granularity used for every point.
const DateLayout = "2006-01-02"

// Point is one day of price history.
type Point struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Source supplies randomness. *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// DefaultSource draws from the shared math/rand generator.
var DefaultSource Source = globalSource{}

// Now is the reference clock for "today". Tests may replace it.
var Now = time.Now

func dates(days int) []string {
	today := Now()
	out := make([]string, days)
	for i := 0; i < days; i++ {
		out[i] = today.AddDate(0, 0, i-(days-1)).Format(DateLayout)
	}
	return out
}

// Synthesize returns exactly days points ending today, one per day, each
// value clamped to [low, high] and centered on the midpoint with variance
// range*0.25 scaled by a [0.9, 1.1] jitter factor. Values are whole numbers.
func Synthesize(days int, low, high float64, src Source) []Point {
	if days <= 0 {
		return []Point{}
	}
	if src == nil {
		src = DefaultSource
	}
	if high < low {
		low, high = high, low
	}
	span := math.Max(high-low, 1)
	mid := (low + high) / 2
	variance := span * 0.25

	ds := dates(days)
	out := make([]Point, days)
	for i, d := range ds {
		jitter := 0.9 + src.Float64()*0.2
		v := mid + (src.Float64()-0.5)*variance*jitter
		v = math.Round(v)
		v = math.Max(low, math.Min(high, v))
		out[i] = Point{Date: d, Value: v}
	}
	return out
}

// SynthesizeAround returns days points of base ± (pct/2) noise, rounded to
// cents. A non-positive base falls back to 100. Values are not clamped.
func SynthesizeAround(days int, base, pct float64, src Source) []Point {
	if days <= 0 {
		return []Point{}
	}
	if src == nil {
		src = DefaultSource
	}
	if base <= 0 {
		base = 100
	}
	variance := base * pct

	ds := dates(days)
	out := make([]Point, days)
	for i, d := range ds {
		v := base + (src.Float64()-0.5)*variance
		out[i] = Point{Date: d, Value: math.Round(v*100) / 100}
	}
	return out
}

// Window returns the trailing days points. A window at least as long as the
// history, or a non-positive one, returns the whole history.
func Window(history []Point, days int) []Point {
	if days <= 0 || days >= len(history) {
		return history
	}
	return history[len(history)-days:]
}

// Bounds are the vertical limits of a chart.
type Bounds struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Band bool    `json:"band"` // true when Min/Max come from the item's range
}

// RangeFor returns chart bounds for the trailing windowDays of history.
// A supplied range with high > low is preferred and produces a range band;
// otherwise the data extremes are padded by 5% of their span.
func RangeFor(history []Point, windowDays int, low, high float64) Bounds {
	if high > low {
		return Bounds{Min: low, Max: high, Band: true}
	}
	data := Window(history, windowDays)
	if len(data) == 0 {
		return Bounds{}
	}
	dmin, dmax := data[0].Value, data[0].Value
	for _, p := range data[1:] {
		dmin = math.Min(dmin, p.Value)
		dmax = math.Max(dmax, p.Value)
	}
	span := dmax - dmin
	if span == 0 {
		span = 1
	}
	pad := span * 0.05
	return Bounds{Min: dmin - pad, Max: dmax + pad}
}

// Change is the last value minus the one before it, or 0 with fewer than
// two points.
func Change(history []Point) float64 {
	n := len(history)
	if n < 2 {
		return 0
	}
	return history[n-1].Value - history[n-2].Value
}

// Up reports whether a change renders as an increase. Zero counts as up.
func Up(delta float64) bool {
	return delta >= 0
}

// MiniBars scales the trailing n values to 0..100 for a sparkline.
func MiniBars(history []Point, n int) []float64 {
	data := Window(history, n)
	if len(data) == 0 {
		return []float64{}
	}
	lo, hi := data[0].Value, data[0].Value
	for _, p := range data {
		lo = math.Min(lo, p.Value)
		hi = math.Max(hi, p.Value)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	out := make([]float64, len(data))
	for i, p := range data {
		out[i] = (p.Value - lo) / span * 100
	}
	return out
}

// Chart is everything a UI needs to draw a price chart.
type Chart struct {
	Points []Point `json:"points"`
	Bounds Bounds  `json:"bounds"`
	Change float64 `json:"change"`
	Up     bool    `json:"up"`
	First  string  `json:"first"`
	Last   string  `json:"last"`
}

// BuildChart windows the history and derives bounds and change.
func BuildChart(history []Point, windowDays int, low, high float64) Chart {
	data := Window(history, windowDays)
	c := Chart{
		Points: data,
		Bounds: RangeFor(history, windowDays, low, high),
		Change: Change(history),
	}
	c.Up = Up(c.Change)
	if len(data) > 0 {
		c.First = data[0].Date
		c.Last = data[len(data)-1].Date
	}
	return c
}
