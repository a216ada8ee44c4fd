package game

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDuelMatch(t *testing.T, b Bounds, opts Options) (*Match, *Fighter, *Fighter) {
	t.Helper()
	r, err := NewDuelRoster(b)
	require.NoError(t, err)
	opts.Bounds = b
	if opts.Sleep == nil {
		opts.Sleep = noSleep
	}
	m := NewMatch(r, opts)
	return m, r.ByAvatar('q'), r.ByAvatar('p')
}

// Player 1 jumps, kicks right at the top of the jump and lands on player 2.
func TestDuelKickFromApexEliminatesOpponent(t *testing.T) {
	b := NewBounds(20, 11)
	m, p1, p2 := newDuelMatch(t, b, Options{Mode: ModeDuel})
	require.Equal(t, [2]int{0, 10}, [2]int{p1.X, p1.Y})
	require.Equal(t, [2]int{10, 10}, [2]int{p2.X, p2.Y})

	s := newRecordingSurface()
	kb := &queueKeyboard{}
	kb.press(runeKey('q'))
	require.NoError(t, m.PollInput(kb))

	var winner *Fighter
	kicked := false
	for i := 0; i < 100 && winner == nil; i++ {
		winner = m.Tick(s)
		if !kicked && p1.Action == Jumping && p1.Y == b.YMin {
			kb.press(runeKey('q'))
			kicked = true
		}
		require.NoError(t, m.PollInput(kb))
	}

	require.NotNil(t, winner)
	assert.Same(t, p1, winner)
	assert.Equal(t, uint64(1), p1.Priority)
	assert.Equal(t, Disabled, p2.Action)
	assert.Equal(t, 1, ModeDuel.ExitCode(winner))
	assert.Equal(t, uint64(20), m.Ticks())
	assert.Equal(t, []glyph{{10, 10, 'q'}}, s.glyphs())
	assert.Contains(t, s.status, "winner is player 1")
	assert.Equal(t, int64(1), m.Metrics().Eliminations)
	assert.Equal(t, int64(1), m.Metrics().Kicks)
}

// When both kick, the one whose kick started first has the lower priority
// and loses.
func TestLaterKickerWinsMidAirCollision(t *testing.T) {
	b := NewBounds(20, 11)
	m, p1, p2 := newDuelMatch(t, b, Options{Mode: ModeArena})
	p1.X, p2.X = 4, 6
	s := newRecordingSurface()
	kb := &queueKeyboard{}

	// both jump together
	kb.press(runeKey('q'), runeKey('p'))
	require.NoError(t, m.PollInput(kb))
	m.Tick(s)
	m.Tick(s)
	// both kick in the same tick and meet at x=5; p1 steps first and so
	// draws the lower priority
	kb.press(runeKey('q'), runeKey('p'))
	require.NoError(t, m.PollInput(kb))
	winner := m.Tick(s)

	require.Equal(t, KickingLeft, p2.Action)
	assert.Equal(t, [2]int{5, 9}, [2]int{p2.X, p2.Y})
	assert.True(t, p1.Hit)
	assert.Equal(t, Disabled, p1.Action)
	assert.Less(t, p1.Priority, p2.Priority)
	require.NotNil(t, winner)
	assert.Same(t, p2, winner)
	assert.Equal(t, 2, ModeArena.ExitCode(winner))
}

func TestRunWithoutFightersDeclaresNoWinner(t *testing.T) {
	m := NewMatch(NewRoster(0), Options{Sleep: noSleep})
	winner, err := m.Run(context.Background(), newRecordingSurface(), &queueKeyboard{})
	assert.Nil(t, winner)
	assert.ErrorIs(t, err, ErrEmptyRoster)
	assert.Zero(t, m.Ticks())
}

func TestRunEndsWhenOneFighterIsLeft(t *testing.T) {
	r := NewRoster(0)
	solo, _ := r.Add('z', 3, 11)
	m := NewMatch(r, Options{Bounds: NewBounds(20, 12), Sleep: noSleep})
	winner, err := m.Run(context.Background(), newRecordingSurface(), &queueKeyboard{})
	require.NoError(t, err)
	assert.Same(t, solo, winner)
	assert.Equal(t, uint64(1), m.Ticks())
	assert.Equal(t, 0, ModeLobby.ExitCode(winner))
	assert.Equal(t, 1, ModeRoster.ExitCode(winner))

	// the finished match leaves an empty roster behind
	assert.Zero(t, r.Len())
	assert.Nil(t, r.Winner())
	assert.Equal(t, Disabled, solo.Action)
}

func TestRunQuitAndCancel(t *testing.T) {
	b := NewBounds(20, 11)
	m, _, _ := newDuelMatch(t, b, Options{})
	kb := &queueKeyboard{}
	kb.press(runeKey('x'), Key{Code: KeyQuit})
	winner, err := m.Run(context.Background(), newRecordingSurface(), kb)
	assert.Nil(t, winner)
	assert.ErrorIs(t, err, ErrQuit)
	assert.Equal(t, int64(1), m.Metrics().InputsUnknown)
	assert.Zero(t, m.Roster().Len(), "an abandoned match is cleared too")

	ctx, cancel := context.WithCancel(context.Background())
	m2, _, _ := newDuelMatch(t, b, Options{Sleep: func(time.Duration) { cancel() }})
	winner, err = m2.Run(ctx, newRecordingSurface(), &queueKeyboard{})
	assert.Nil(t, winner)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, uint64(1), m2.Ticks())
}

func TestPollInputMarksPendingOnce(t *testing.T) {
	b := NewBounds(20, 11)
	m, p1, p2 := newDuelMatch(t, b, Options{})
	kb := &queueKeyboard{}
	kb.press(runeKey('q'), runeKey('q'), runeKey('?'), Key{Code: KeyEnter})
	require.NoError(t, m.PollInput(kb))
	assert.True(t, p1.Pending)
	assert.False(t, p2.Pending)
	assert.Empty(t, kb.keys, "every buffered key is drained")
	assert.Equal(t, int64(2), m.Metrics().InputsAccepted)
	assert.Equal(t, int64(1), m.Metrics().InputsUnknown)

	m.Tick(newRecordingSurface())
	assert.False(t, p1.Pending)
	assert.Equal(t, Jumping, p1.Action)
}

func TestTickIntervalControlIsAppliedByTheLoop(t *testing.T) {
	b := NewBounds(20, 11)
	var slept []time.Duration
	m, _, _ := newDuelMatch(t, b, Options{TickInterval: 30 * time.Millisecond})
	assert.False(t, m.SetTickInterval(0))
	require.True(t, m.SetTickInterval(50*time.Millisecond))
	assert.Equal(t, 30*time.Millisecond, m.TickInterval(), "not applied before the loop drains it")

	kb := &queueKeyboard{}
	m.sleep = func(d time.Duration) { slept = append(slept, d) }
	m.Tick(newRecordingSurface())
	m.sleep(m.TickInterval())
	require.NoError(t, m.PollInput(kb))
	m.sleep(m.TickInterval())
	assert.Equal(t, []time.Duration{30 * time.Millisecond, 50 * time.Millisecond}, slept)
}

func TestSpectatorGetsFrames(t *testing.T) {
	b := NewBounds(20, 11)
	rec := &frameRecorder{}
	m, p1, _ := newDuelMatch(t, b, Options{Mode: ModeDuel, Spectator: rec})
	p1.Pending = true
	m.Tick(newRecordingSurface())
	require.Len(t, rec.frames, 1)
	fr := rec.frames[0]
	assert.Equal(t, uint64(1), fr.Tick)
	assert.Equal(t, ModeDuel, fr.Mode)
	require.Len(t, fr.Fighters, 2)
	assert.Equal(t, "jumping", fr.Fighters[0].Action)
	assert.Zero(t, fr.Winner)
}

// Random button mashing never moves anybody off the board, and every
// elimination takes exactly one fighter per colliding pair.
func TestBoundsHoldUnderRandomInput(t *testing.T) {
	for _, mode := range []Mode{ModeRoster, ModeLobby} {
		t.Run(string(mode), func(t *testing.T) {
			b := NewBounds(12, 6)
			rng := rand.New(rand.NewSource(7))
			r, err := NewFixedRoster([]string{"a", "b", "c", "d", "e", "f"}, b, rng)
			require.NoError(t, err)
			m := NewMatch(r, Options{Mode: mode, Bounds: b, Sleep: noSleep})
			s := newRecordingSurface()
			kb := &queueKeyboard{}
			for i := 0; i < 2000 && r.Len() > 1; i++ {
				for _, f := range r.Live() {
					if rng.Intn(4) == 0 {
						kb.press(runeKey(f.Avatar))
					}
				}
				require.NoError(t, m.PollInput(kb))
				before := r.Len()
				m.Tick(s)
				require.GreaterOrEqual(t, r.Len(), 1)
				require.LessOrEqual(t, r.Len(), before)
				for _, f := range r.Live() {
					require.True(t, b.Contains(f.X, f.Y), "tick %d: %s", m.Ticks(), f)
				}
				require.Len(t, s.glyphs(), distinctCells(r.Live()))
			}
		})
	}
}

func distinctCells(fs []*Fighter) int {
	seen := map[[2]int]bool{}
	for _, f := range fs {
		seen[[2]int{f.X, f.Y}] = true
	}
	return len(seen)
}
