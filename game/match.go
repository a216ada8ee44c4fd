package game

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// DefaultTickInterval paces the simulation independently of render cost.
const DefaultTickInterval = 30 * time.Millisecond

// Surface is the drawing side of the terminal. Coordinates are board cells.
type Surface interface {
	DrawGlyph(x, y int, glyph rune, color int)
	ClearGlyph(x, y int)
	Status(line string)
	Show()
}

// Spectator receives a frame after every tick. Publish must not block.
type Spectator interface {
	Publish(Frame)
}

// Frame is the public state of a match after one tick.
type Frame struct {
	Tick       uint64         `json:"tick"`
	Mode       Mode           `json:"mode"`
	Bounds     Bounds         `json:"bounds"`
	Fighters   []FighterState `json:"fighters"`
	Eliminated []int          `json:"eliminated,omitempty"`
	Winner     int            `json:"winner,omitempty"`
}

// Options configures a match. Zero values fall back to defaults.
type Options struct {
	Mode         Mode
	Bounds       Bounds
	TickInterval time.Duration
	Logger       *zap.SugaredLogger
	Metrics      *Metrics
	Spectator    Spectator

	// Sleep replaces time.Sleep between ticks; tests use it to run unpaced.
	Sleep func(time.Duration)
}

// Match runs one game on a single goroutine. Only Control, TickInterval and
// SetTickInterval may be called from other goroutines.
type Match struct {
	mode      Mode
	bounds    Bounds
	walls     WallPolicy
	log       *zap.SugaredLogger
	metrics   *Metrics
	spectator Spectator
	sleep     func(time.Duration)

	roster   *Roster
	tick     uint64
	kicks    uint64
	interval atomic.Int64
	controls chan Control
}

// NewMatch prepares a match over an already populated roster.
func NewMatch(r *Roster, opts Options) *Match {
	if opts.Mode == "" {
		opts.Mode = ModeDuel
	}
	if opts.Bounds == (Bounds{}) {
		opts.Bounds = NewBounds(40, 12)
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	if opts.Metrics == nil {
		opts.Metrics = &Metrics{}
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}
	m := &Match{
		mode:      opts.Mode,
		bounds:    opts.Bounds,
		walls:     opts.Mode.Walls(),
		log:       opts.Logger,
		metrics:   opts.Metrics,
		spectator: opts.Spectator,
		sleep:     opts.Sleep,
		roster:    r,
		controls:  make(chan Control, 16),
	}
	m.interval.Store(int64(opts.TickInterval))
	m.metrics.SetLive(r.Len())
	return m
}

func (m *Match) Roster() *Roster { return m.roster }
func (m *Match) Mode() Mode { return m.mode }
func (m *Match) Bounds() Bounds { return m.bounds }
func (m *Match) Metrics() *Metrics { return m.metrics }
func (m *Match) Ticks() uint64 { return m.tick }

// TickInterval is the pause between two ticks.
func (m *Match) TickInterval() time.Duration { return time.Duration(m.interval.Load()) }

// SetTickInterval asks the loop to change its pace before the next tick. It
// reports false when the request was rejected or the control queue is full.
func (m *Match) SetTickInterval(d time.Duration) bool {
	if d <= 0 {
		return false
	}
	return m.Control(Control{TickInterval: d})
}

// Control queues an operator request without blocking.
func (m *Match) Control(c Control) bool {
	select {
	case m.controls <- c:
		return true
	default:
		return false
	}
}

// Run plays until one fighter is left, the players quit or ctx is done.
// A match that starts without fighters never produces a winner. The roster is
// cleared once the match ends; the returned winner keeps its number and
// avatar.
func (m *Match) Run(ctx context.Context, s Surface, k Keyboard) (*Fighter, error) {
	if m.roster.Len() == 0 {
		return nil, ErrEmptyRoster
	}
	defer m.roster.Clear()
	m.log.Infof("match started: mode=%s fighters=%d board=%dx%d tick=%s",
		m.mode, m.roster.Len(), m.bounds.Width(), m.bounds.Height(), m.TickInterval())
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if winner := m.Tick(s); winner != nil {
			return winner, nil
		}
		m.sleep(m.TickInterval())
		if err := m.PollInput(k); err != nil {
			m.log.Infof("match abandoned at tick %d", m.tick)
			return nil, err
		}
	}
}

// Tick simulates one step of the match and returns the winner once a single
// fighter is left.
func (m *Match) Tick(s Surface) *Fighter {
	start := time.Now()
	m.tick++
	live := m.roster.Live()

	s.Status(m.overlay(live))
	for _, f := range live {
		s.DrawGlyph(f.X, f.Y, f.Avatar, f.Color)
	}
	// nothing moved since the last tick drew, so these are the old glyphs
	for _, f := range live {
		s.ClearGlyph(f.X, f.Y)
	}

	// every fighter decides against the same pre-tick snapshot
	ctx := NewTickContext(m.tick, m.bounds, live, &m.kicks)
	for _, f := range live {
		switch Advance(f, ctx) {
		case Jumped:
			m.metrics.IncJumps()
		case Kicked:
			m.metrics.IncKicks()
			m.log.Debugf("tick %d: p%d kicks %s with priority %d", m.tick, f.Number, f.Action, f.Priority)
		case InputDropped:
			m.metrics.IncDropped()
			m.log.Debugf("tick %d: p%d input %s while %s", m.tick, f.Number, InputDropped, f.Action)
		}
		if Clamp(f, m.bounds, m.walls) {
			m.metrics.IncWallHits()
		}
	}

	Resolve(live)
	removed := m.roster.Prune()
	eliminated := make([]int, 0, len(removed))
	for _, f := range removed {
		eliminated = append(eliminated, f.Number)
		m.log.Infof("tick %d: p%d (%c) eliminated at %d,%d", m.tick, f.Number, f.Avatar, f.X, f.Y)
	}
	m.metrics.AddEliminated(len(removed))
	m.metrics.SetLive(m.roster.Len())

	for i := 0; i < m.roster.Len(); i++ {
		f := m.roster.At(i)
		s.DrawGlyph(f.X, f.Y, f.Avatar, f.Color)
	}

	winner := m.roster.Winner()
	if winner != nil {
		s.Status(fmt.Sprintf("winner is player %d (%c)", winner.Number, winner.Avatar))
		m.log.Infof("match over after %d ticks: winner p%d (%c)", m.tick, winner.Number, winner.Avatar)
	}
	s.Show()

	m.publish(eliminated, winner)
	m.metrics.AddTick(time.Since(start).Nanoseconds())
	return winner
}

// PollInput drains every buffered key and pending control without blocking.
func (m *Match) PollInput(k Keyboard) error {
	for {
		select {
		case c := <-m.controls:
			m.apply(c)
			continue
		default:
		}
		key, ok := k.PollKey()
		if !ok {
			return nil
		}
		switch key.Code {
		case KeyQuit:
			return ErrQuit
		case KeyRune:
			if f := m.roster.ByAvatar(key.Rune); f != nil {
				f.Pending = true
				m.metrics.IncAccepted()
			} else {
				m.metrics.IncUnknown()
			}
		}
	}
}

func (m *Match) apply(c Control) {
	if c.TickInterval > 0 {
		m.interval.Store(int64(c.TickInterval))
		m.log.Infof("tick interval set to %s", c.TickInterval)
	}
}

func (m *Match) overlay(live []*Fighter) string {
	var b strings.Builder
	fmt.Fprintf(&b, "tick %d", m.tick)
	for _, f := range live {
		fmt.Fprintf(&b, " | %c:%d,%d %s", f.Avatar, f.X, f.Y, f.Action)
	}
	return b.String()
}

// Frame returns the current public state of the match.
func (m *Match) Frame() Frame {
	fr := Frame{
		Tick:     m.tick,
		Mode:     m.mode,
		Bounds:   m.bounds,
		Fighters: make([]FighterState, 0, m.roster.Len()),
	}
	for i := 0; i < m.roster.Len(); i++ {
		fr.Fighters = append(fr.Fighters, m.roster.At(i).State())
	}
	return fr
}

func (m *Match) publish(eliminated []int, winner *Fighter) {
	if m.spectator == nil {
		return
	}
	fr := m.Frame()
	if len(eliminated) > 0 {
		fr.Eliminated = eliminated
	}
	if winner != nil {
		fr.Winner = winner.Number
	}
	m.spectator.Publish(fr)
}
