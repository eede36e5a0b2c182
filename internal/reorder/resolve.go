package reorder

import "math"

// ResolveTargetIndex maps the center of the dragged card to the slot it would
// occupy if released now.
//
// Inside the horizontal gap between two cells the nearer cell center wins; on
// an exact tie the left (lower) column is kept so the result cannot flicker.
// Rows use plain floor division. The column is clamped to the grid and the
// final index to [0, itemCount-1].
func ResolveTargetIndex(center Point, g GridConfig, itemCount int) int {
	if itemCount <= 0 {
		return 0
	}

	size := g.CellSize()
	pitch := size + g.GapPx

	col := int(math.Floor(center.X / pitch))
	if col >= 0 && col+1 < g.Columns {
		here := float64(col)*pitch + size/2
		if center.X > here {
			next := float64(col+1)*pitch + size/2
			if next-center.X < center.X-here {
				col++
			}
		}
	}
	col = clamp(col, 0, g.Columns-1)

	row := int(math.Floor(center.Y / pitch))
	if row < 0 {
		row = 0
	}

	return clamp(row*g.Columns+col, 0, itemCount-1)
}

// CardCenter returns the center of a card of the given size whose top-left
// corner sits at pointer - grab.
func CardCenter(pointer Point, grab Offset, size float64) Point {
	return Point{
		X: pointer.X - grab.DX + size/2,
		Y: pointer.Y - grab.DY + size/2,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
