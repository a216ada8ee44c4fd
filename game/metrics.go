package game

import "sync/atomic"

// Metrics counts what happens inside a match. The loop writes, HTTP handlers
// read, so every field is accessed atomically.
type Metrics struct {
	TickCount      int64 // ticks simulated
	TotalTickNs    int64 // time spent simulating, excluding the sleep
	InputsAccepted int64 // keys that matched a live fighter
	InputsUnknown  int64 // keys that matched nobody
	InputsDropped  int64 // inputs consumed by a state that ignores them
	Jumps          int64
	Kicks          int64
	WallHits       int64
	Eliminations   int64
	LiveFighters   int64 // gauge
}

func (m *Metrics) IncAccepted() { atomic.AddInt64(&m.InputsAccepted, 1) }
func (m *Metrics) IncUnknown() { atomic.AddInt64(&m.InputsUnknown, 1) }
func (m *Metrics) IncDropped() { atomic.AddInt64(&m.InputsDropped, 1) }
func (m *Metrics) IncJumps() { atomic.AddInt64(&m.Jumps, 1) }
func (m *Metrics) IncKicks() { atomic.AddInt64(&m.Kicks, 1) }
func (m *Metrics) IncWallHits() { atomic.AddInt64(&m.WallHits, 1) }
func (m *Metrics) AddEliminated(n int) { atomic.AddInt64(&m.Eliminations, int64(n)) }
func (m *Metrics) SetLive(n int) { atomic.StoreInt64(&m.LiveFighters, int64(n)) }
func (m *Metrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

// Snapshot returns a read-only copy for HTTP output.
func (m *Metrics) Snapshot() map[string]any {
	tick := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if tick > 0 {
		avgMs = float64(total) / float64(tick) / 1e6
	}
	return map[string]any{
		"tick_count":      tick,
		"inputs_accepted": atomic.LoadInt64(&m.InputsAccepted),
		"inputs_unknown":  atomic.LoadInt64(&m.InputsUnknown),
		"inputs_dropped":  atomic.LoadInt64(&m.InputsDropped),
		"jumps":           atomic.LoadInt64(&m.Jumps),
		"kicks":           atomic.LoadInt64(&m.Kicks),
		"wall_hits":       atomic.LoadInt64(&m.WallHits),
		"eliminations":    atomic.LoadInt64(&m.Eliminations),
		"live_fighters":   atomic.LoadInt64(&m.LiveFighters),
		"avg_tick_ms":     avgMs,
	}
}
