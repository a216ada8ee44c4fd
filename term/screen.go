// Package term draws the board on a terminal and reads key presses through
// tcell.
package term

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"onefight/game"
)

// Palette maps fighter color indexes to terminal colors.
var Palette = []tcell.Color{
	tcell.ColorYellow,
	tcell.ColorFuchsia,
	tcell.ColorAqua,
	tcell.ColorGreen,
	tcell.ColorRed,
	tcell.ColorBlue,
	tcell.ColorOrange,
	tcell.ColorWhite,
}

const (
	statusRow = 0
	boardTop  = 2 // row of the first board cell, below status and frame
	boardLeft = 1
)

// Screen is a game.Surface and game.Keyboard backed by a tcell screen. The
// board is drawn inside a box under a one-line status bar.
type Screen struct {
	screen tcell.Screen
	bounds game.Bounds
	events chan tcell.Event
	frame  tcell.Style
}

// Open initializes the controlling terminal.
func Open(b game.Bounds) (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("open terminal: %w", err)
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("init terminal: %w", err)
	}
	return New(s, b), nil
}

// New wraps an initialized tcell screen and starts forwarding its events.
func New(s tcell.Screen, b game.Bounds) *Screen {
	sc := &Screen{
		screen: s,
		bounds: b,
		events: make(chan tcell.Event, 64),
		frame:  tcell.StyleDefault.Foreground(tcell.ColorGray),
	}
	s.SetStyle(tcell.StyleDefault.Background(tcell.ColorDefault).Foreground(tcell.ColorWhite))
	s.HideCursor()
	s.Clear()
	sc.drawFrame()
	s.Show()
	go sc.pollEvents()
	return sc
}

// Close releases the terminal. The event goroutine ends with it.
func (s *Screen) Close() error {
	s.screen.Fini()
	return nil
}

func (s *Screen) pollEvents() {
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case s.events <- ev:
		default:
			// full: drop rather than stall the tick
		}
	}
}

// PollKey returns the next buffered key press without waiting.
func (s *Screen) PollKey() (game.Key, bool) {
	for {
		var ev tcell.Event
		select {
		case ev = <-s.events:
		default:
			return game.Key{}, false
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			s.screen.Sync()
			s.drawFrame()
		case *tcell.EventKey:
			if k, ok := decodeKey(ev); ok {
				return k, true
			}
		}
	}
}

func decodeKey(ev *tcell.EventKey) (game.Key, bool) {
	switch ev.Key() {
	case tcell.KeyEnter, tcell.KeyLF:
		return game.Key{Code: game.KeyEnter}, true
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return game.Key{Code: game.KeyQuit}, true
	case tcell.KeyRune:
		return game.Key{Code: game.KeyRune, Rune: ev.Rune()}, true
	}
	return game.Key{}, false
}

func (s *Screen) cell(x, y int) (int, int) {
	return boardLeft + x - s.bounds.XMin, boardTop + y - s.bounds.YMin
}

// DrawGlyph puts a fighter glyph on the board.
func (s *Screen) DrawGlyph(x, y int, glyph rune, color int) {
	if !s.bounds.Contains(x, y) {
		return
	}
	cx, cy := s.cell(x, y)
	s.screen.SetContent(cx, cy, glyph, nil, Style(color))
}

// ClearGlyph blanks a board cell.
func (s *Screen) ClearGlyph(x, y int) {
	if !s.bounds.Contains(x, y) {
		return
	}
	cx, cy := s.cell(x, y)
	s.screen.SetContent(cx, cy, ' ', nil, tcell.StyleDefault)
}

// Status replaces the status bar.
func (s *Screen) Status(line string) {
	w, _ := s.screen.Size()
	col := 0
	for _, r := range line {
		if col >= w {
			break
		}
		s.screen.SetContent(col, statusRow, r, nil, tcell.StyleDefault)
		col++
	}
	for ; col < w; col++ {
		s.screen.SetContent(col, statusRow, ' ', nil, tcell.StyleDefault)
	}
}

func (s *Screen) Show() { s.screen.Show() }

// Style returns the glyph style for a fighter color index.
func Style(color int) tcell.Style {
	if color < 0 {
		color = -color
	}
	return tcell.StyleDefault.Foreground(Palette[color%len(Palette)]).Bold(true)
}

func (s *Screen) drawFrame() {
	left, top := boardLeft-1, boardTop-1
	right := boardLeft + s.bounds.Width()
	bottom := boardTop + s.bounds.Height()
	for x := left + 1; x < right; x++ {
		s.screen.SetContent(x, top, tcell.RuneHLine, nil, s.frame)
		s.screen.SetContent(x, bottom, tcell.RuneHLine, nil, s.frame)
	}
	for y := top + 1; y < bottom; y++ {
		s.screen.SetContent(left, y, tcell.RuneVLine, nil, s.frame)
		s.screen.SetContent(right, y, tcell.RuneVLine, nil, s.frame)
	}
	s.screen.SetContent(left, top, tcell.RuneULCorner, nil, s.frame)
	s.screen.SetContent(right, top, tcell.RuneURCorner, nil, s.frame)
	s.screen.SetContent(left, bottom, tcell.RuneLLCorner, nil, s.frame)
	s.screen.SetContent(right, bottom, tcell.RuneLRCorner, nil, s.frame)
}
