package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"fashion-insider/internal/logger"
)

// ErrSuperseded is returned by a search that a newer search replaced.
var ErrSuperseded = errors.New("search superseded by a newer query")

// Fetcher loads rows from the hosted items table.
type Fetcher interface {
	FetchItems(ctx context.Context) ([]RemoteRecord, error)
}

// Cache keeps the last good remote rows for use when the remote is down.
type Cache interface {
	SaveItems(rows []RemoteRecord) error
	CachedItems() ([]RemoteRecord, error)
}

// Searcher runs price list searches. Only the newest search returns
// results: starting a search cancels the one in flight, and a search that
// finishes after being replaced reports ErrSuperseded.
type Searcher struct {
	Fetcher    Fetcher // nil when no hosted database is configured
	Cache      Cache   // optional
	Inventory  []InventoryRecord
	Normalizer Normalizer
	Latency    time.Duration

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// NewSearcher returns a Searcher over the offline inventory, with f as the
// primary source when non-nil.
func NewSearcher(f Fetcher, n Normalizer) *Searcher {
	return &Searcher{Fetcher: f, Inventory: Inventory(), Normalizer: n}
}

func (s *Searcher) begin(ctx context.Context) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	ctx, s.cancel = context.WithCancel(ctx)
	return ctx, s.gen
}

func (s *Searcher) current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen == s.gen
}

// Search fetches, filters by query and normalizes. Remote failures and
// empty results fall back to the cache, then to the offline inventory.
func (s *Searcher) Search(ctx context.Context, query string) ([]CanonicalItem, error) {
	ctx, gen := s.begin(ctx)

	raws := s.load(ctx)
	items := Filter(s.Normalizer.NormalizeAll(raws), query)

	if s.Latency > 0 {
		t := time.NewTimer(s.Latency)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
		}
	}
	if !s.current(gen) {
		return nil, ErrSuperseded
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Searcher) load(ctx context.Context) []Raw {
	if s.Fetcher != nil {
		rows, err := s.Fetcher.FetchItems(ctx)
		switch {
		case err != nil:
			if ctx.Err() == nil {
				logger.Warn("Catalog", "remote fetch failed: "+err.Error())
			}
		case len(rows) > 0:
			if s.Cache != nil {
				if err := s.Cache.SaveItems(rows); err != nil {
					logger.Warn("Catalog", "item cache write failed: "+err.Error())
				}
			}
			return remoteRaws(rows)
		}
		if s.Cache != nil {
			if rows, err := s.Cache.CachedItems(); err == nil && len(rows) > 0 {
				return remoteRaws(rows)
			}
		}
	}
	out := make([]Raw, 0, len(s.Inventory))
	for _, r := range s.Inventory {
		out = append(out, FromInventory(r))
	}
	return out
}

func remoteRaws(rows []RemoteRecord) []Raw {
	out := make([]Raw, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromRemote(r))
	}
	return out
}
