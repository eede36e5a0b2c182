package reorder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveIndex_Forward(t *testing.T) {
	// Item 1 hovering over slot 4: items 2..4 slide back one slot.
	want := []int{0, 1, 1, 2, 3, 5, 6}
	for i, w := range want {
		assert.Equal(t, w, EffectiveIndex(i, 1, 4), "index %d", i)
	}
}

func TestEffectiveIndex_Backward(t *testing.T) {
	// Item 5 hovering over slot 2: items 2..4 slide forward one slot.
	want := []int{0, 1, 3, 4, 5, 5, 6}
	for i, w := range want {
		assert.Equal(t, w, EffectiveIndex(i, 5, 2), "index %d", i)
	}
}

func TestVisualOffset(t *testing.T) {
	g := testGrid()

	// Dragged item never reflows.
	assert.Equal(t, Offset{}, VisualOffset(0, 0, 5, g))

	// Forward: item 4 (row 1 col 0) moves into slot 3 (row 0 col 3).
	assert.Equal(t, Offset{DX: 324, DY: -108}, VisualOffset(4, 0, 5, g))
	// Item 2 moves one column left.
	assert.Equal(t, Offset{DX: -108, DY: 0}, VisualOffset(2, 0, 5, g))
	// Past the target nothing moves.
	assert.Equal(t, Offset{}, VisualOffset(6, 0, 5, g))

	// Backward: item 3 (row 0 col 3) moves into slot 4 (row 1 col 0).
	assert.Equal(t, Offset{DX: -324, DY: 108}, VisualOffset(3, 8, 0, g))

	// Same slot: nothing moves.
	for i := 0; i < 9; i++ {
		assert.Equal(t, Offset{}, VisualOffset(i, 4, 4, g))
	}
}

func TestDraggedRect(t *testing.T) {
	g := testGrid()
	r := DraggedRect(Point{X: 300, Y: 250}, Offset{DX: 40, DY: 60}, g)
	assert.Equal(t, Rect{X: 260, Y: 190, W: 100, H: 100}, r)
}
