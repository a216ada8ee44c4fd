package game

import (
	"fmt"
	"strings"
)

// Bounds is the playable rectangle in screen coordinates: y grows downward,
// YMin is the jump apex row and YMax the ground row.
type Bounds struct {
	XMin int `json:"xMin"`
	XMax int `json:"xMax"`
	YMin int `json:"yMin"`
	YMax int `json:"yMax"`
}

// NewBounds returns bounds for a board of the given size with the origin in
// the top-left corner.
func NewBounds(width, height int) Bounds {
	return Bounds{XMin: 0, XMax: width - 1, YMin: 0, YMax: height - 1}
}

func (b Bounds) Width() int  { return b.XMax - b.XMin + 1 }
func (b Bounds) Height() int { return b.YMax - b.YMin + 1 }

// Contains reports whether (x, y) is a legal cell.
func (b Bounds) Contains(x, y int) bool {
	return x >= b.XMin && x <= b.XMax && y >= b.YMin && y <= b.YMax
}

// WallPolicy decides what happens to a fighter that crosses a side wall.
type WallPolicy int

const (
	// WallStand pushes the fighter back and puts it on the ground, standing.
	WallStand WallPolicy = iota
	// WallStuck pushes the fighter back and leaves it stuck for one tick
	// before it falls.
	WallStuck
)

// Mode selects one of the supported match setups.
type Mode string

const (
	ModeDuel   Mode = "duel"
	ModeArena  Mode = "arena"
	ModeRoster Mode = "roster"
	ModeLobby  Mode = "lobby"
)

// ParseMode validates a mode name given on the command line.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeDuel, ModeArena, ModeRoster, ModeLobby:
		return m, nil
	}
	return "", fmt.Errorf("unknown mode %q (want duel, arena, roster or lobby)", s)
}

// Walls returns the wall policy used by the mode.
func (m Mode) Walls() WallPolicy {
	switch m {
	case ModeArena, ModeLobby:
		return WallStuck
	}
	return WallStand
}

// ExitCode maps a winner to the process exit status for the mode. Lobby
// matches always exit 0.
func (m Mode) ExitCode(winner *Fighter) int {
	if winner == nil || m == ModeLobby {
		return 0
	}
	return winner.Number
}

// DuelKeys are the avatars of the two fixed players in duel and arena mode.
var DuelKeys = [2]rune{'q', 'p'}
