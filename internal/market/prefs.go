package market

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"fashion-insider/internal/currency"
	"fashion-insider/internal/events"
	"fashion-insider/internal/logger"
)

// Location is the user's saved city and coordinates.
type Location struct {
	City string  `json:"city"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

func (m *Market) planLocked() Plan {
	if v, _ := m.get(KeyPlan); Plan(v) == PlanPro {
		return PlanPro
	}
	return PlanFree
}

// Plan returns the subscription tier.
func (m *Market) Plan() Plan {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.planLocked()
}

// SubscribePro upgrades the plan and grants the PRO bonus.
func (m *Market) SubscribePro() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.planLocked() == PlanPro {
		return m.ledger.Balance(), ErrAlreadyPro
	}
	if err := m.set(KeyPlan, string(PlanPro)); err != nil {
		return 0, err
	}
	bal := m.ledger.Credit(m.opts.ProBonusCR)
	m.bus.ProSubscribed.Publish(events.ProSubscribed{})
	logger.Success("Plan", fmt.Sprintf("PRO active, +%s", currency.CR(m.opts.ProBonusCR)))
	return bal, nil
}

// TopUp credits amount CR.
func (m *Market) TopUp(amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	bal := m.ledger.Credit(amount)
	m.bus.BalanceAdded.Publish(events.BalanceAdded{Amount: amount})
	return bal, nil
}

// Currency returns the display formatter for the saved currency.
func (m *Market) Currency() currency.Formatter {
	m.mu.Lock()
	defer m.mu.Unlock()
	code, ok := m.get(KeyCurrency)
	if !ok {
		code = m.opts.DefaultCurrency
	}
	rate := 0.0
	if v, ok := m.get(KeyUSDILSRate); ok {
		rate, _ = strconv.ParseFloat(v, 64)
	}
	return currency.New(code, rate)
}

// SetCurrency saves the display currency. rate is the USD→ILS rate and is
// ignored for USD; a non-positive rate keeps the saved one.
func (m *Market) SetCurrency(code string, rate float64) (currency.Formatter, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !currency.Valid(code) {
		return currency.Formatter{}, fmt.Errorf("%w: %q", ErrInvalidCurrency, code)
	}
	m.mu.Lock()
	if err := m.set(KeyCurrency, code); err != nil {
		m.mu.Unlock()
		return currency.Formatter{}, err
	}
	if rate > 0 {
		if err := m.set(KeyUSDILSRate, strconv.FormatFloat(rate, 'f', -1, 64)); err != nil {
			m.mu.Unlock()
			return currency.Formatter{}, err
		}
	}
	m.mu.Unlock()

	f := m.Currency()
	m.bus.CurrencyChanged.Publish(events.CurrencyChanged{Currency: f.Code, Rate: f.Rate})
	return f, nil
}

// ToggleLike flips the liked state of itemID and returns the new state.
func (m *Market) ToggleLike(itemID string) (bool, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return false, ErrInvalidItemID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.likes == nil {
		m.memLikes[itemID] = !m.memLikes[itemID]
		if !m.memLikes[itemID] {
			delete(m.memLikes, itemID)
			return false, nil
		}
		return true, nil
	}
	liked, err := m.likes.ToggleLike(m.opts.UserID, itemID)
	if err != nil {
		return false, fmt.Errorf("toggle like: %w", err)
	}
	return liked, nil
}

// Liked lists liked item IDs.
func (m *Market) Liked() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.likes == nil {
		ids := make([]string, 0, len(m.memLikes))
		for id := range m.memLikes {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		return ids, nil
	}
	ids, err := m.likes.LikedItems(m.opts.UserID)
	if err != nil {
		return nil, fmt.Errorf("list likes: %w", err)
	}
	return ids, nil
}

// SetLocation saves the user's city and coordinates.
func (m *Market) SetLocation(loc Location) error {
	loc.City = strings.TrimSpace(loc.City)
	if loc.Lat < -90 || loc.Lat > 90 || loc.Lon < -180 || loc.Lon > 180 {
		return fmt.Errorf("coordinates out of range: %v,%v", loc.Lat, loc.Lon)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range map[string]string{
		KeyCity: loc.City,
		KeyLat:  strconv.FormatFloat(loc.Lat, 'f', -1, 64),
		KeyLon:  strconv.FormatFloat(loc.Lon, 'f', -1, 64),
	} {
		if err := m.set(k, v); err != nil {
			return err
		}
	}
	return nil
}

// Location returns the saved location; ok is false when none was saved.
func (m *Market) Location() (Location, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	city, ok := m.get(KeyCity)
	if !ok {
		return Location{}, false
	}
	loc := Location{City: city}
	if v, ok := m.get(KeyLat); ok {
		loc.Lat, _ = strconv.ParseFloat(v, 64)
	}
	if v, ok := m.get(KeyLon); ok {
		loc.Lon, _ = strconv.ParseFloat(v, 64)
	}
	return loc, true
}
