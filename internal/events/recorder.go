package events

import (
	"sync"
	"time"
)

// Record is one observed event.
type Record struct {
	Seq    uint64    `json:"seq"`
	Name   string    `json:"name"`
	Detail any       `json:"detail"`
	At     time.Time `json:"at"`
}

// Recorder keeps the most recent events from a Bus in publication order.
type Recorder struct {
	mu    sync.Mutex
	limit int
	seq   uint64
	log   []Record
	unsub []func()
}

// NewRecorder subscribes to every topic of bus and keeps at most limit
// records (0 means 256).
func NewRecorder(bus *Bus, limit int) *Recorder {
	if limit <= 0 {
		limit = 256
	}
	r := &Recorder{limit: limit}
	r.unsub = []func(){
		record(r, bus.BalanceDeduct),
		record(r, bus.BalanceAdded),
		record(r, bus.BalanceChanged),
		record(r, bus.ProSubscribed),
		record(r, bus.ConfirmBuy),
		record(r, bus.CurrencyChanged),
		record(r, bus.ShowBuyModal),
		record(r, bus.LuckyWheelCredits),
		record(r, bus.TradeStep),
		record(r, bus.TradeCompleted),
	}
	return r
}

func record[T any](r *Recorder, t *Topic[T]) func() {
	name := t.Name()
	return t.Subscribe(func(v T) { r.add(name, v) })
}

func (r *Recorder) add(name string, detail any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.log = append(r.log, Record{Seq: r.seq, Name: name, Detail: detail, At: time.Now()})
	if over := len(r.log) - r.limit; over > 0 {
		r.log = append([]Record(nil), r.log[over:]...)
	}
}

// Since returns records with Seq greater than seq.
func (r *Recorder) Since(seq uint64) []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, 0)
	for _, rec := range r.log {
		if rec.Seq > seq {
			out = append(out, rec)
		}
	}
	return out
}

// Names returns the names of every kept record, oldest first.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.log))
	for i, rec := range r.log {
		out[i] = rec.Name
	}
	return out
}

// Close detaches the recorder from the bus.
func (r *Recorder) Close() {
	for _, u := range r.unsub {
		u()
	}
}
