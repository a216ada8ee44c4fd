package game

import (
	"errors"
	"fmt"
	"math/rand"
	"unicode/utf8"
)

// DuelSpacing is the distance between the two duel fighters at the start.
const DuelSpacing = 10

// MaxFixedRoster bounds a command-line roster; the winner's number becomes the
// process exit status, which only carries 8 bits.
const MaxFixedRoster = 255

var ErrBoardTooNarrow = errors.New("board is too narrow for the roster")

// NewDuelRoster places the two fixed players on the ground, player 1 on the
// left wall and player 2 DuelSpacing cells to its right.
func NewDuelRoster(b Bounds) (*Roster, error) {
	if b.Width() < 2 {
		return nil, ErrBoardTooNarrow
	}
	r := NewRoster(len(DuelKeys))
	x2 := b.XMin + DuelSpacing
	if x2 > b.XMax {
		x2 = b.XMax
	}
	for i, x := range []int{b.XMin, x2} {
		if _, err := r.Add(DuelKeys[i], x, b.YMax); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// NewFixedRoster creates one fighter per argument, using the first character
// of each as its avatar. Fighters start on distinct random ground cells.
func NewFixedRoster(args []string, b Bounds, rng *rand.Rand) (*Roster, error) {
	if len(args) > MaxFixedRoster {
		return nil, fmt.Errorf("%d fighters, at most %d: %w", len(args), MaxFixedRoster, ErrRosterFull)
	}
	if len(args) > b.Width() {
		return nil, fmt.Errorf("%d fighters on %d columns: %w", len(args), b.Width(), ErrBoardTooNarrow)
	}
	r := NewRoster(len(args))
	sp := NewSpawner(b, rng)
	for _, arg := range args {
		avatar, _ := utf8.DecodeRuneInString(arg)
		if avatar == utf8.RuneError {
			return nil, fmt.Errorf("argument %q: %w", arg, ErrInvalidAvatar)
		}
		x, ok := sp.Next()
		if !ok {
			return nil, ErrBoardTooNarrow
		}
		if _, err := r.Add(avatar, x, b.YMax); err != nil {
			return nil, fmt.Errorf("argument %q: %w", arg, err)
		}
	}
	return r, nil
}

// Spawner hands out distinct random ground columns.
type Spawner struct {
	free []int
	rng  *rand.Rand
}

func NewSpawner(b Bounds, rng *rand.Rand) *Spawner {
	free := make([]int, 0, b.Width())
	for x := b.XMin; x <= b.XMax; x++ {
		free = append(free, x)
	}
	return &Spawner{free: free, rng: rng}
}

// Next returns an unused column, or false when every column is taken.
func (s *Spawner) Next() (int, bool) {
	if len(s.free) == 0 {
		return 0, false
	}
	i := s.rng.Intn(len(s.free))
	x := s.free[i]
	last := len(s.free) - 1
	s.free[i] = s.free[last]
	s.free = s.free[:last]
	return x, true
}
