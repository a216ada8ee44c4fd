package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLowerPriorityLoses(t *testing.T) {
	tests := []struct {
		name       string
		pa, pb     uint64
		wantLoserA bool
	}{
		{"first kicked earlier", 1, 2, true},
		{"second kicked earlier", 5, 3, false},
		{"never kicked loses to kicker", 0, 4, true},
		{"tie marks the later one", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Fighter{Number: 1, X: 3, Y: 3, Action: KickingRight, Priority: tt.pa}
			b := &Fighter{Number: 2, X: 3, Y: 3, Action: KickingLeft, Priority: tt.pb}
			hit := Resolve([]*Fighter{a, b})
			require.Len(t, hit, 1, "exactly one of a pair is removed")
			assert.Equal(t, tt.wantLoserA, a.Hit)
			assert.Equal(t, !tt.wantLoserA, b.Hit)
		})
	}
}

func TestResolveIgnoresSeparateCellsAndDisabled(t *testing.T) {
	a := &Fighter{Number: 1, X: 3, Y: 3, Priority: 1}
	b := &Fighter{Number: 2, X: 4, Y: 3, Priority: 2}
	c := &Fighter{Number: 3, X: 3, Y: 4, Priority: 3}
	gone := &Fighter{Number: 4, X: 3, Y: 3, Priority: 9, Action: Disabled}
	assert.Empty(t, Resolve([]*Fighter{a, b, c, gone}))
	assert.False(t, a.Hit)
}

func TestResolveThreeWayIsPairwiseInRosterOrder(t *testing.T) {
	a := &Fighter{Number: 1, X: 2, Y: 2, Priority: 3}
	b := &Fighter{Number: 2, X: 2, Y: 2, Priority: 1}
	c := &Fighter{Number: 3, X: 2, Y: 2, Priority: 2}
	hit := Resolve([]*Fighter{a, b, c})
	assert.Equal(t, []*Fighter{b, c}, hit)
	assert.False(t, a.Hit)
}

func TestResolveSeveralCellsAtOnce(t *testing.T) {
	a := &Fighter{Number: 1, X: 1, Y: 1, Priority: 2}
	b := &Fighter{Number: 2, X: 1, Y: 1, Priority: 1}
	c := &Fighter{Number: 3, X: 7, Y: 5, Priority: 3}
	d := &Fighter{Number: 4, X: 7, Y: 5, Priority: 4}
	hit := Resolve([]*Fighter{a, c, b, d})
	assert.ElementsMatch(t, []*Fighter{b, c}, hit)
}

func TestClampWallStuck(t *testing.T) {
	b := NewBounds(10, 8)
	f := &Fighter{X: b.XMax + 1, Y: 4, Action: KickingRight}
	require.True(t, Clamp(f, b, WallStuck))
	assert.Equal(t, b.XMax, f.X)
	assert.Equal(t, 4, f.Y)
	assert.Equal(t, Stuck, f.Action)

	g := &Fighter{X: b.XMin - 1, Y: 4, Action: KickingLeft}
	require.True(t, Clamp(g, b, WallStuck))
	assert.Equal(t, b.XMin, g.X)
	assert.Equal(t, Stuck, g.Action)
}

func TestClampWallStandLands(t *testing.T) {
	b := NewBounds(10, 8)
	f := &Fighter{X: b.XMax + 1, Y: 4, Action: KickingRight}
	require.True(t, Clamp(f, b, WallStand))
	assert.Equal(t, b.XMax, f.X)
	assert.Equal(t, b.YMax, f.Y)
	assert.Equal(t, Standing, f.Action)
}

func TestClampInsideBoardIsNoop(t *testing.T) {
	b := NewBounds(10, 8)
	f := &Fighter{X: 4, Y: 4, Action: KickingRight}
	assert.False(t, Clamp(f, b, WallStuck))
	assert.Equal(t, KickingRight, f.Action)
	assert.Equal(t, [2]int{4, 4}, [2]int{f.X, f.Y})
}

// A fighter kicked past the right wall sticks, falls one column inside and
// never leaves the board again without new input.
func TestWallStuckRecovery(t *testing.T) {
	b := NewBounds(10, 8)
	f := &Fighter{Number: 1, X: b.XMax, Y: 3, Action: KickingRight, Priority: 1}
	var kicks uint64 = 1
	var states []Action
	for i := 0; i < 20; i++ {
		Advance(f, NewTickContext(uint64(i), b, []*Fighter{f}, &kicks))
		Clamp(f, b, WallStuck)
		require.True(t, b.Contains(f.X, f.Y), "tick %d: %s", i, f)
		states = append(states, f.Action)
	}
	assert.Equal(t, Stuck, states[0])
	assert.Equal(t, Falling, states[1])
	assert.Equal(t, b.XMax-1, f.X)
	assert.Equal(t, Standing, f.Action)
	assert.Equal(t, b.YMax, f.Y)
}
