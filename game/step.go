package game

// TickContext carries what a fighter may look at while it steps: the
// positions every live fighter had before the tick started and the match's
// kick counter. All fighters of a tick share one context, so the order in
// which they step never changes a decision.
type TickContext struct {
	Tick   uint64
	Bounds Bounds

	size  int
	xs    []int
	kicks *uint64
}

// NewTickContext snapshots live and binds the kick counter for one tick.
func NewTickContext(tick uint64, b Bounds, live []*Fighter, kicks *uint64) *TickContext {
	xs := make([]int, len(live))
	for i, f := range live {
		xs[i] = f.X
	}
	return &TickContext{Tick: tick, Bounds: b, size: len(live), xs: xs, kicks: kicks}
}

// Size is the number of live fighters when the tick started.
func (c *TickContext) Size() int { return c.size }

// RightOf counts the fighters that stood strictly to the right of x.
func (c *TickContext) RightOf(x int) int {
	n := 0
	for _, ox := range c.xs {
		if ox > x {
			n++
		}
	}
	return n
}

// KickDirection picks the side with at least half of the roster on it.
func (c *TickContext) KickDirection(x int) Action {
	if 2*c.RightOf(x) >= c.size {
		return KickingRight
	}
	return KickingLeft
}

func (c *TickContext) nextKick() uint64 {
	*c.kicks++
	return *c.kicks
}

// Transition tells the caller what a step did with the fighter's input.
type Transition int

const (
	NoInput      Transition = iota
	Jumped                  // standing fighter took off
	Kicked                  // airborne fighter started a kick
	InputDropped            // input arrived in a state that ignores it
)

func (t Transition) String() string {
	switch t {
	case Jumped:
		return "jumped"
	case Kicked:
		return "kicked"
	case InputDropped:
		return "dropped"
	}
	return "none"
}

// Advance moves f forward by one tick. Pending input is always consumed; in
// states that ignore input it is lost rather than queued.
func Advance(f *Fighter, ctx *TickContext) Transition {
	if !f.Live() {
		return NoInput
	}
	t := NoInput
	if f.Pending {
		f.Pending = false
		switch {
		case f.Action == Standing:
			f.Action = Jumping
			t = Jumped
		case f.Action.Airborne():
			f.Action = ctx.KickDirection(f.X)
			f.Priority = ctx.nextKick()
			t = Kicked
		default:
			t = InputDropped
		}
	}

	b := ctx.Bounds
	switch f.Action {
	case Jumping:
		f.Y--
		if f.Y < b.YMin {
			f.Action = Falling
			f.Y = b.YMin
		}
	case Falling:
		f.Y++
	case KickingLeft:
		f.Y++
		f.X--
	case KickingRight:
		f.Y++
		f.X++
	case Stuck:
		f.Action = Falling
		switch {
		case f.X >= b.XMax:
			f.X = b.XMax - 1
		case f.X <= b.XMin:
			f.X = b.XMin + 1
		}
	}

	if f.Y >= b.YMax {
		f.Y = b.YMax
		f.Action = Standing
	}
	return t
}
