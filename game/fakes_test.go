package game

import "time"

type glyph struct {
	x, y int
	r    rune
}

// recordingSurface keeps the board as a map so tests can look at it.
type recordingSurface struct {
	board  map[[2]int]rune
	status string
	shows  int
}

func newRecordingSurface() *recordingSurface {
	return &recordingSurface{board: make(map[[2]int]rune)}
}

func (s *recordingSurface) DrawGlyph(x, y int, r rune, color int) { s.board[[2]int{x, y}] = r }
func (s *recordingSurface) ClearGlyph(x, y int)                   { delete(s.board, [2]int{x, y}) }
func (s *recordingSurface) Status(line string)                    { s.status = line }
func (s *recordingSurface) Show()                                 { s.shows++ }

func (s *recordingSurface) glyphs() []glyph {
	out := make([]glyph, 0, len(s.board))
	for c, r := range s.board {
		out = append(out, glyph{c[0], c[1], r})
	}
	return out
}

type queueKeyboard struct {
	keys []Key
}

func (k *queueKeyboard) press(keys ...Key) { k.keys = append(k.keys, keys...) }

func (k *queueKeyboard) PollKey() (Key, bool) {
	if len(k.keys) == 0 {
		return Key{}, false
	}
	key := k.keys[0]
	k.keys = k.keys[1:]
	return key, true
}

func runeKey(r rune) Key { return Key{Code: KeyRune, Rune: r} }

type frameRecorder struct {
	frames []Frame
}

func (f *frameRecorder) Publish(fr Frame) { f.frames = append(f.frames, fr) }

func noSleep(time.Duration) {}
