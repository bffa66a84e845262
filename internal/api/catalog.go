package api

import (
	"errors"
	"net/http"
	"strings"

	"fashion-insider/internal/catalog"
	"fashion-insider/internal/currency"
	"fashion-insider/internal/logger"
	"fashion-insider/internal/pricehistory"
	"fashion-insider/internal/remote"
)

// chartWindows are the selectable chart ranges in days.
var chartWindows = map[int]bool{7: true, 14: true, 30: true}

const defaultChartWindow = 14

// productView is a dashboard card. Prices are in CR.
type productView struct {
	catalog.CanonicalItem
	PriceLabel  string `json:"price_label"`
	RangeLabel  string `json:"range_label"`
	ChangeLabel string `json:"change_label"`
	Up          bool   `json:"up"`
	Liked       bool   `json:"liked"`
}

func newProductView(it catalog.CanonicalItem, liked map[string]bool) productView {
	change := pricehistory.Change(it.PriceHistory)
	v := productView{
		CanonicalItem: it,
		PriceLabel:    currency.CR(int64(it.CurrentPrice)),
		RangeLabel:    currency.RangeCR(it.PriceRangeLow, it.PriceRangeHigh),
		ChangeLabel:   currency.ChangeCR(change),
		Up:            pricehistory.Up(change),
		Liked:         liked[it.ID],
	}
	return v
}

func (s *Server) likedSet() map[string]bool {
	ids, err := s.market.Liked()
	if err != nil {
		logger.Warn("API", err.Error())
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	liked := s.likedSet()
	items := s.market.Products()
	out := make([]productView, 0, len(items))
	for _, it := range items {
		out = append(out, newProductView(it, liked))
	}
	writeJSON(w, out)
}

func (s *Server) handleProduct(w http.ResponseWriter, r *http.Request) {
	it, ok := s.market.Product(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown product")
		return
	}
	writeJSON(w, newProductView(it, s.likedSet()))
}

func (s *Server) handleProductChart(w http.ResponseWriter, r *http.Request) {
	it, ok := s.market.Product(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown product")
		return
	}
	days := queryInt(r, "days", defaultChartWindow)
	if !chartWindows[days] {
		writeError(w, http.StatusBadRequest, "days must be 7, 14 or 30")
		return
	}
	writeJSON(w, pricehistory.BuildChart(it.PriceHistory, days, it.PriceRangeLow, it.PriceRangeHigh))
}

// priceRow is one price list entry, priced in the display currency.
type priceRow struct {
	catalog.CanonicalItem
	Price      string    `json:"price"`
	PriceRange string    `json:"price_range"`
	PriceILS   int64     `json:"price_ils"`
	Change     string    `json:"change"`
	Up         bool      `json:"up"`
	Bars       []float64 `json:"bars"`
}

func (s *Server) handlePriceList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := s.searcher.Search(r.Context(), strings.TrimSpace(q.Get("q")))
	if errors.Is(err, catalog.ErrSuperseded) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		// Client went away.
		return
	}
	items = catalog.FilterCategory(items, catalog.ParseCategory(q.Get("filter")))
	items = catalog.Sort(items, catalog.SortKey(q.Get("sort")))
	used := q.Get("condition") == "used"

	f := s.market.Currency()
	rows := make([]priceRow, 0, len(items))
	for _, it := range items {
		price := catalog.ConditionPrice(it, used)
		change := pricehistory.Change(it.PriceHistory)
		rows = append(rows, priceRow{
			CanonicalItem: it,
			Price:         f.Price(price),
			PriceRange:    f.Range(it.PriceRangeLow, it.PriceRangeHigh),
			PriceILS:      catalog.PriceToILS(it.ResellPrice, used && it.HasCondition()),
			Change:        f.Change(change),
			Up:            pricehistory.Up(change),
			Bars:          pricehistory.MiniBars(it.PriceHistory, 10),
		})
	}
	writeJSON(w, rows)
}

func writeRemoteError(w http.ResponseWriter, err error) {
	var se *remote.StatusError
	if errors.As(err, &se) && se.Code >= 400 && se.Code < 500 {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	logger.Warn("API", err.Error())
	writeError(w, http.StatusBadGateway, err.Error())
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	if !s.requireRemote(w) {
		return
	}
	var req remote.NewItem
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.Name) == "" || req.Price < 0 {
		writeError(w, http.StatusBadRequest, "name is required and price must not be negative")
		return
	}
	if err := s.remote.AddItem(r.Context(), req); err != nil {
		writeRemoteError(w, err)
		return
	}
	writeJSON(w, map[string]bool{"ok": true})
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	if !s.requireRemote(w) {
		return
	}
	var req remote.ItemUpdate
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req == (remote.ItemUpdate{}) {
		writeError(w, http.StatusBadRequest, "nothing to update")
		return
	}
	if err := s.remote.UpdateItem(r.Context(), r.PathValue("id"), req); err != nil {
		writeRemoteError(w, err)
		return
	}
	writeJSON(w, map[string]bool{"ok": true})
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	if !s.requireRemote(w) {
		return
	}
	if err := s.remote.DeleteItem(r.Context(), r.PathValue("id")); err != nil {
		writeRemoteError(w, err)
		return
	}
	writeJSON(w, map[string]bool{"ok": true})
}
