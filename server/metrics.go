package server

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"onefight/game"
)

// RegisterMetrics exposes the match counters to prometheus. The collectors read
// the atomics on scrape, so the loop never touches prometheus itself.
func RegisterMetrics(reg prometheus.Registerer, m *game.Metrics) error {
	counter := func(name, help string, field *int64) prometheus.Collector {
		return prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "onefight",
			Name:      name,
			Help:      help,
		}, func() float64 { return float64(atomic.LoadInt64(field)) })
	}
	collectors := []prometheus.Collector{
		counter("ticks_total", "Ticks simulated", &m.TickCount),
		counter("inputs_accepted_total", "Key presses that matched a live fighter", &m.InputsAccepted),
		counter("inputs_unknown_total", "Key presses that matched no fighter", &m.InputsUnknown),
		counter("inputs_dropped_total", "Inputs consumed by a state that ignores them", &m.InputsDropped),
		counter("jumps_total", "Jumps started", &m.Jumps),
		counter("kicks_total", "Kicks started", &m.Kicks),
		counter("wall_hits_total", "Fighters pushed back from a wall", &m.WallHits),
		counter("eliminations_total", "Fighters removed after a collision", &m.Eliminations),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "onefight",
			Name:      "live_fighters",
			Help:      "Fighters still in the match",
		}, func() float64 { return float64(atomic.LoadInt64(&m.LiveFighters)) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "onefight",
			Name:      "tick_seconds_avg",
			Help:      "Average time spent simulating a tick",
		}, func() float64 {
			n := atomic.LoadInt64(&m.TickCount)
			if n == 0 {
				return 0
			}
			return float64(atomic.LoadInt64(&m.TotalTickNs)) / float64(n) / 1e9
		}),
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
