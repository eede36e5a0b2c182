package reorder

// EffectiveIndex returns the slot item i appears in while the item at source
// hovers over target. Items between the two slide one slot toward source.
func EffectiveIndex(i, source, target int) int {
	switch {
	case source < target && i > source && i <= target:
		return i - 1
	case source > target && i >= target && i < source:
		return i + 1
	default:
		return i
	}
}

// VisualOffset returns how far item i must be displaced from its own cell to
// make room for the dragged item. The dragged item itself always gets a zero
// offset; it is drawn at DraggedRect instead.
func VisualOffset(i, source, target int, g GridConfig) Offset {
	if i == source {
		return Offset{}
	}
	eff := EffectiveIndex(i, source, target)
	if eff == i {
		return Offset{}
	}
	return g.CellRect(eff).Origin().Sub(g.CellRect(i).Origin())
}

// DraggedRect returns where the dragged card is drawn: its top-left corner
// follows the pointer, keeping the grab point under it.
func DraggedRect(pointer Point, grab Offset, g GridConfig) Rect {
	size := g.CellSize()
	return Rect{
		X: pointer.X - grab.DX,
		Y: pointer.Y - grab.DY,
		W: size,
		H: size,
	}
}
