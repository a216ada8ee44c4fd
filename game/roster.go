package game

import (
	"errors"
	"fmt"
	"unicode"
)

// DefaultCapacity bounds the number of fighters a roster admits when no
// explicit capacity is given.
const DefaultCapacity = 64

var (
	ErrRosterFull      = errors.New("roster is full")
	ErrDuplicateAvatar = errors.New("avatar already taken")
	ErrInvalidAvatar   = errors.New("avatar must be a printable, non-blank character")
	ErrEmptyRoster     = errors.New("roster has no fighters")
)

// Roster owns every fighter of a match. Fighters live in an append-only arena
// indexed by Number-1; the live ones are tracked in a dense active set so
// removal is a constant-time swap with the last entry.
type Roster struct {
	fighters []*Fighter
	active   []int // arena indices of live fighters
	slot     []int // slot[i] is the position of fighter i in active, or -1
	avatars  map[rune]int
	capacity int
}

// NewRoster creates an empty roster that admits up to capacity fighters.
func NewRoster(capacity int) *Roster {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Roster{
		fighters: make([]*Fighter, 0, capacity),
		active:   make([]int, 0, capacity),
		slot:     make([]int, 0, capacity),
		avatars:  make(map[rune]int, capacity),
		capacity: capacity,
	}
}

// ValidAvatar reports whether r can identify a fighter.
func ValidAvatar(r rune) bool {
	return r != ' ' && r != '\t' && unicode.IsPrint(r)
}

// Add admits a new standing fighter at (x, y).
func (r *Roster) Add(avatar rune, x, y int) (*Fighter, error) {
	if !ValidAvatar(avatar) {
		return nil, fmt.Errorf("add %q: %w", avatar, ErrInvalidAvatar)
	}
	if _, ok := r.avatars[avatar]; ok {
		return nil, fmt.Errorf("add %q: %w", avatar, ErrDuplicateAvatar)
	}
	if len(r.fighters) >= r.capacity {
		return nil, fmt.Errorf("add %q: %w (capacity %d)", avatar, ErrRosterFull, r.capacity)
	}
	idx := len(r.fighters)
	f := &Fighter{
		Number: idx + 1,
		Avatar: avatar,
		Color:  idx,
		X:      x,
		Y:      y,
		Action: Standing,
	}
	r.fighters = append(r.fighters, f)
	r.slot = append(r.slot, len(r.active))
	r.active = append(r.active, idx)
	r.avatars[avatar] = idx
	return f, nil
}

// Len is the number of live fighters.
func (r *Roster) Len() int { return len(r.active) }

// Cap is the maximum number of fighters the roster admits.
func (r *Roster) Cap() int { return r.capacity }

// At returns the i-th live fighter in iteration order.
func (r *Roster) At(i int) *Fighter { return r.fighters[r.active[i]] }

// Live returns the live fighters in iteration order. The slice is a copy and
// stays valid after removals.
func (r *Roster) Live() []*Fighter {
	out := make([]*Fighter, len(r.active))
	for i, idx := range r.active {
		out[i] = r.fighters[idx]
	}
	return out
}

// Get returns the fighter with the given number.
func (r *Roster) Get(number int) *Fighter {
	if number < 1 || number > len(r.fighters) {
		return nil
	}
	return r.fighters[number-1]
}

// ByAvatar returns the live fighter driven by key, or nil.
func (r *Roster) ByAvatar(key rune) *Fighter {
	idx, ok := r.avatars[key]
	if !ok || r.slot[idx] < 0 {
		return nil
	}
	return r.fighters[idx]
}

// Remove takes f out of the match and disables it. It reports whether f was
// live.
func (r *Roster) Remove(f *Fighter) bool {
	if f == nil || f.Number < 1 || f.Number > len(r.fighters) || r.fighters[f.Number-1] != f {
		return false
	}
	idx := f.Number - 1
	pos := r.slot[idx]
	if pos < 0 {
		return false
	}
	last := len(r.active) - 1
	moved := r.active[last]
	r.active[pos] = moved
	r.slot[moved] = pos
	r.active = r.active[:last]
	r.slot[idx] = -1
	f.Action = Disabled
	f.Pending = false
	return true
}

// Prune removes every live fighter marked hit and returns them in the order
// they were removed.
func (r *Roster) Prune() []*Fighter {
	var removed []*Fighter
	for i := 0; i < len(r.active); {
		f := r.fighters[r.active[i]]
		if !f.Hit {
			i++
			continue
		}
		// the last entry is swapped into position i, so i is checked again
		r.Remove(f)
		removed = append(removed, f)
	}
	return removed
}

// Winner returns the sole survivor, or nil while more or fewer than one
// fighter is live.
func (r *Roster) Winner() *Fighter {
	if len(r.active) != 1 {
		return nil
	}
	return r.At(0)
}

// Clear disables every live fighter. A finished match leaves no one live.
func (r *Roster) Clear() {
	for len(r.active) > 0 {
		r.Remove(r.At(0))
	}
}
