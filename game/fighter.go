package game

import "fmt"

// Action is the fighter's current action state. It alone decides how the
// fighter moves on the next tick.
type Action int

const (
	Standing Action = iota
	Jumping
	KickingLeft
	KickingRight
	Falling
	Stuck
	Disabled // terminal: removed from the match
)

var actionNames = [...]string{
	Standing:     "standing",
	Jumping:      "jumping",
	KickingLeft:  "kicking-left",
	KickingRight: "kicking-right",
	Falling:      "falling",
	Stuck:        "stuck",
	Disabled:     "disabled",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return fmt.Sprintf("action(%d)", int(a))
	}
	return actionNames[a]
}

// Kicking reports whether a is one of the two kick states.
func (a Action) Kicking() bool { return a == KickingLeft || a == KickingRight }

// Airborne reports whether a fighter in state a accepts a kick input.
func (a Action) Airborne() bool { return a == Jumping || a == Falling }

// Fighter is a single player-controlled combatant. The roster owns it; other
// components only hold it for the duration of a tick.
type Fighter struct {
	Number int  // 1-based identity, also the process exit code of a winner
	Avatar rune // glyph drawn on the board and the key that drives the fighter
	Color  int  // palette index

	X, Y   int
	Action Action

	// Pending is set by the input poll and cleared once Advance consumes it.
	Pending bool
	// Priority is the kick counter value taken when the fighter last started a
	// kick; zero means it never kicked. The lower value loses a collision.
	Priority uint64
	// Hit marks the fighter for removal at the end of the current tick.
	Hit bool
}

// Live reports whether the fighter still takes part in the match.
func (f *Fighter) Live() bool { return f.Action != Disabled }

func (f *Fighter) String() string {
	return fmt.Sprintf("p%d(%c)@%d,%d %s", f.Number, f.Avatar, f.X, f.Y, f.Action)
}

// FighterState is the read-only view of a fighter published to spectators.
type FighterState struct {
	Number   int    `json:"number"`
	Avatar   string `json:"avatar"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Action   string `json:"action"`
	Priority uint64 `json:"priority"`
}

func (f *Fighter) State() FighterState {
	return FighterState{
		Number:   f.Number,
		Avatar:   string(f.Avatar),
		X:        f.X,
		Y:        f.Y,
		Action:   f.Action.String(),
		Priority: f.Priority,
	}
}
