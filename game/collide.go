package game

// Clamp pulls a fighter that left the board back onto it. Kicks move one
// cell per tick, so a fighter is never more than one cell outside a wall.
// It reports whether the fighter hit a wall.
func Clamp(f *Fighter, b Bounds, walls WallPolicy) bool {
	if f.Y < b.YMin {
		f.Y = b.YMin
	}
	if f.Y > b.YMax {
		f.Y = b.YMax
		f.Action = Standing
	}

	switch {
	case f.X < b.XMin:
		f.X = b.XMin
	case f.X > b.XMax:
		f.X = b.XMax
	default:
		return false
	}
	switch walls {
	case WallStuck:
		f.Action = Stuck
	default:
		f.Action = Standing
		f.Y = b.YMax
	}
	return true
}

type cell struct{ x, y int }

// Resolve marks the losers of every same-cell encounter among live fighters
// and returns them in the order they were marked. Within a pair the lower
// kick priority loses; on a tie the fighter later in roster order loses, so a
// pair never ends with both or neither marked. Three or more fighters on one
// cell are settled pair by pair in roster order.
func Resolve(live []*Fighter) []*Fighter {
	cells := make(map[cell][]*Fighter, len(live))
	var order []cell
	for _, f := range live {
		if !f.Live() {
			continue
		}
		c := cell{f.X, f.Y}
		if _, ok := cells[c]; !ok {
			order = append(order, c)
		}
		cells[c] = append(cells[c], f)
	}

	var hit []*Fighter
	for _, c := range order {
		group := cells[c]
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				loser := group[j]
				if group[i].Priority < group[j].Priority {
					loser = group[i]
				}
				if !loser.Hit {
					loser.Hit = true
					hit = append(hit, loser)
				}
			}
		}
	}
	return hit
}
