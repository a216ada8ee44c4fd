package game

import (
	"errors"
	"time"
)

// ErrQuit is returned when a player asks to leave before a winner is known.
var ErrQuit = errors.New("match abandoned")

// KeyCode classifies a key press.
type KeyCode int

const (
	KeyRune  KeyCode = iota // printable character in Key.Rune
	KeyEnter                // ends avatar selection
	KeyQuit                 // Esc or Ctrl-C
)

// Key is one decoded key press.
type Key struct {
	Code KeyCode
	Rune rune
}

// Keyboard reports buffered key presses. PollKey never blocks: it returns
// false once the buffer is empty.
type Keyboard interface {
	PollKey() (Key, bool)
}

// Control is an operator request applied by the loop between ticks.
type Control struct {
	TickInterval time.Duration
}
