package reorder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveTargetIndex(t *testing.T) {
	g := testGrid()

	tests := []struct {
		name   string
		center Point
		count  int
		want   int
	}{
		{"inside first cell", Point{X: 50, Y: 50}, 9, 0},
		{"center of slot 5", Point{X: 158, Y: 158}, 9, 5},
		{"left half of gap stays", Point{X: 103.9, Y: 50}, 9, 0},
		{"right half of gap advances", Point{X: 104.5, Y: 50}, 9, 1},
		{"right part of cell stays", Point{X: 90, Y: 50}, 9, 0},
		{"left of grid clamps to column 0", Point{X: -80, Y: 130}, 9, 4},
		{"right of grid clamps to last column", Point{X: 900, Y: 20}, 9, 3},
		{"above grid clamps to row 0", Point{X: 250, Y: -300}, 9, 2},
		{"below last item clamps to last index", Point{X: 400, Y: 900}, 9, 8},
		{"empty grid", Point{X: 50, Y: 50}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveTargetIndex(tt.center, g, tt.count))
		})
	}
}

func TestResolveTargetIndex_TieKeepsLowerColumn(t *testing.T) {
	g := testGrid()
	// Centers of columns 0 and 1 are 50 and 158; 104 is equidistant.
	tie := Point{X: 104, Y: 10}
	assert.Equal(t, 0, ResolveTargetIndex(tie, g, 9))

	// Same between the last two columns: centers 266 and 374.
	assert.Equal(t, 2, ResolveTargetIndex(Point{X: 320, Y: 10}, g, 9))
}

func TestResolveTargetIndex_Stable(t *testing.T) {
	g := testGrid()
	boundaries := []Point{
		{X: 104, Y: 0},
		{X: 108, Y: 108},
		{X: 212, Y: 216},
		{X: 0, Y: 108},
	}
	for _, p := range boundaries {
		first := ResolveTargetIndex(p, g, 9)
		for i := 0; i < 50; i++ {
			assert.Equal(t, first, ResolveTargetIndex(p, g, 9), "point %+v", p)
		}
	}
}

func TestResolveTargetIndex_NoGap(t *testing.T) {
	g := GridConfig{Columns: 3, GapPx: 0, ContainerWidthPx: 300}
	assert.Equal(t, 0, ResolveTargetIndex(Point{X: 99.9, Y: 0}, g, 6))
	assert.Equal(t, 1, ResolveTargetIndex(Point{X: 100, Y: 0}, g, 6))
	assert.Equal(t, 5, ResolveTargetIndex(Point{X: 299, Y: 150}, g, 6))
}

func TestCardCenter(t *testing.T) {
	center := CardCenter(Point{X: 200, Y: 120}, Offset{DX: 30, DY: 10}, 100)
	assert.Equal(t, Point{X: 220, Y: 160}, center)
}
