package activetrade

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"fashion-insider/internal/events"
	"fashion-insider/internal/logger"
)

type fakeTimer struct {
	c       *fakeClock
	at      time.Time
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()
	was := !t.stopped
	t.stopped = true
	return was
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{c: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// Advance moves time forward, firing due timers in order.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	end := c.now.Add(d)
	c.mu.Unlock()
	for {
		c.mu.Lock()
		sort.SliceStable(c.timers, func(i, j int) bool { return c.timers[i].at.Before(c.timers[j].at) })
		var due *fakeTimer
		for _, t := range c.timers {
			if !t.stopped && !t.at.After(end) {
				due = t
				break
			}
		}
		if due == nil {
			c.now = end
			c.mu.Unlock()
			return
		}
		due.stopped = true
		c.now = due.at
		c.mu.Unlock()
		due.f()
	}
}

type memStore struct {
	mu sync.Mutex
	m  map[string]string
}

func newMemStore() *memStore { return &memStore{m: map[string]string{}} }

func (s *memStore) Get(k string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[k]
	return v, ok
}

func (s *memStore) Set(k, v string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[k] = v
	return nil
}

func (s *memStore) Delete(k string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, k)
	return nil
}

func persisted(t *testing.T, s *memStore) Trade {
	t.Helper()
	raw, ok := s.Get(StorageKey)
	if !ok {
		t.Fatal("no persisted trade")
	}
	var tr Trade
	if err := json.Unmarshal([]byte(raw), &tr); err != nil {
		t.Fatalf("decode persisted trade: %v", err)
	}
	return tr
}

func TestTracker_ThreeTicksReachStepFour(t *testing.T) {
	clock := newFakeClock()
	store := newMemStore()
	tr := New(store, clock, 5*time.Second, nil)

	completions := 0
	tr.OnComplete(func(events.TradeCompleted) { completions++ })
	var steps []int
	tr.OnStep(func(e events.TradeStep) { steps = append(steps, e.Step) })

	started := tr.Start("Nike Dunk Low Panda", "p5")
	if started.Step != 1 || persisted(t, store).Step != 1 {
		t.Fatalf("start step = %d", started.Step)
	}
	if started.StartedAt != clock.Now().UnixMilli() {
		t.Errorf("startedAt = %d", started.StartedAt)
	}

	clock.Advance(4 * time.Second)
	if cur, _ := tr.Current(); cur.Step != 1 {
		t.Fatalf("advanced early to %d", cur.Step)
	}
	clock.Advance(1 * time.Second)
	clock.Advance(5 * time.Second)
	clock.Advance(5 * time.Second)

	cur, ok := tr.Current()
	if !ok || cur.Step != 4 || !cur.Completed() {
		t.Fatalf("after 3 ticks = %+v", cur)
	}
	if persisted(t, store).Step != 4 {
		t.Error("step 4 not persisted")
	}
	if completions != 1 {
		t.Errorf("completions = %d, want 1", completions)
	}
	if clock.pending() != 0 {
		t.Error("timer still armed at step 4")
	}

	clock.Advance(time.Minute)
	if cur, _ := tr.Current(); cur.Step != 4 || completions != 1 {
		t.Errorf("further ticks changed state: step %d, completions %d", cur.Step, completions)
	}
	want := []int{1, 2, 3, 4}
	if len(steps) != len(want) {
		t.Fatalf("steps = %v", steps)
	}
	for i := range want {
		if steps[i] != want[i] {
			t.Errorf("steps = %v, want %v", steps, want)
			break
		}
	}
}

func TestTracker_DismissHaltsTicking(t *testing.T) {
	clock := newFakeClock()
	store := newMemStore()
	tr := New(store, clock, 5*time.Second, nil)
	tr.Start("Samba", "p9")
	clock.Advance(5 * time.Second)

	if err := tr.Dismiss(); err != nil {
		t.Fatal(err)
	}
	if _, ok := store.Get(StorageKey); ok {
		t.Error("persisted state survived dismiss")
	}
	if clock.pending() != 0 {
		t.Error("timer still pending after dismiss")
	}
	clock.Advance(time.Minute)
	if _, ok := tr.Current(); ok {
		t.Error("trade reappeared after dismiss")
	}
}

func TestTracker_StartReplacesRunningTrade(t *testing.T) {
	clock := newFakeClock()
	tr := New(newMemStore(), clock, 5*time.Second, nil)
	tr.Start("first", "a")
	clock.Advance(5 * time.Second)
	tr.Start("second", "b")
	clock.Advance(5 * time.Second)

	cur, _ := tr.Current()
	if cur.ProductID != "b" || cur.Step != 2 {
		t.Errorf("current = %+v", cur)
	}
	if clock.pending() != 1 {
		t.Errorf("pending timers = %d, want 1", clock.pending())
	}
}

func seed(t *testing.T, s *memStore, tr Trade) {
	t.Helper()
	b, _ := json.Marshal(tr)
	s.Set(StorageKey, string(b))
}

func TestTracker_ResumeFastForwards(t *testing.T) {
	clock := newFakeClock()
	store := newMemStore()
	seed(t, store, Trade{Step: 1, ProductName: "AF1", ProductID: "p1", StartedAt: clock.Now().Add(-12 * time.Second).UnixMilli()})

	tr := New(store, clock, 5*time.Second, nil)
	got, ok := tr.Resume()
	if !ok || got.Step != 3 {
		t.Fatalf("resumed = %+v, %v; want step 3 after 12s", got, ok)
	}
	if persisted(t, store).Step != 3 {
		t.Error("fast-forwarded step not persisted")
	}

	// Next boundary is 15s after start, 3s from now.
	clock.Advance(2 * time.Second)
	if cur, _ := tr.Current(); cur.Step != 3 {
		t.Fatalf("advanced early to %d", cur.Step)
	}
	clock.Advance(1 * time.Second)
	if cur, _ := tr.Current(); cur.Step != 4 {
		t.Errorf("step = %d, want 4", cur.Step)
	}
}

func TestTracker_ResumeCompletedWhileDown(t *testing.T) {
	clock := newFakeClock()
	store := newMemStore()
	seed(t, store, Trade{Step: 2, ProductName: "Zebra", StartedAt: clock.Now().Add(-time.Hour).UnixMilli()})

	tr := New(store, clock, 5*time.Second, nil)
	completions := 0
	tr.OnComplete(func(events.TradeCompleted) { completions++ })
	got, _ := tr.Resume()
	if got.Step != 4 || completions != 1 {
		t.Errorf("step %d completions %d", got.Step, completions)
	}
	if clock.pending() != 0 {
		t.Error("completed trade armed a timer")
	}

	// A trade already at step 4 does not complete again on the next start.
	tr2 := New(store, clock, 5*time.Second, nil)
	tr2.OnComplete(func(events.TradeCompleted) { completions++ })
	tr2.Resume()
	if completions != 1 {
		t.Errorf("completions = %d after resuming a finished trade", completions)
	}
}

func TestTracker_ResumeCorruptOrMissing(t *testing.T) {
	store := newMemStore()
	tr := New(store, newFakeClock(), 0, nil)
	if _, ok := tr.Resume(); ok {
		t.Error("resumed with nothing stored")
	}
	store.Set(StorageKey, "{not json")
	if _, ok := tr.Resume(); ok {
		t.Error("resumed corrupt record")
	}
	if _, ok := store.Get(StorageKey); ok {
		t.Error("corrupt record not cleared")
	}
}

type failingDeleteStore struct{ *memStore }

func (failingDeleteStore) Delete(string) error { return errors.New("disk full") }

func TestTracker_ResumeCorruptLogsClearFailure(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(os.Stdout)

	store := failingDeleteStore{newMemStore()}
	store.Set(StorageKey, "{not json")
	tr := New(store, newFakeClock(), 0, nil)
	if _, ok := tr.Resume(); ok {
		t.Error("resumed corrupt record")
	}
	if !strings.Contains(buf.String(), "disk full") {
		t.Errorf("delete failure not logged:\n%s", buf.String())
	}
}
