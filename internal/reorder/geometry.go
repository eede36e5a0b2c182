// Package reorder implements drag-to-reorder for a fixed-column grid of square
// cells. It is framework free: the host feeds it normalized pointer events and
// the current item sequence, and reads back per-item visual offsets every frame.
// The underlying sequence is only replaced when a drag is released.
package reorder

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidGrid is returned by GridConfig.Validate.
var ErrInvalidGrid = errors.New("invalid grid config")

// Point is a position in container pixels, origin at the container's top-left.
type Point struct {
	X, Y float64
}

// Sub returns p - q.
func (p Point) Sub(q Point) Offset {
	return Offset{DX: p.X - q.X, DY: p.Y - q.Y}
}

// Add returns p translated by o.
func (p Point) Add(o Offset) Point {
	return Point{X: p.X + o.DX, Y: p.Y + o.DY}
}

// Offset is a displacement in pixels.
type Offset struct {
	DX, DY float64
}

// Len returns the euclidean length of the offset.
func (o Offset) Len() float64 {
	return math.Hypot(o.DX, o.DY)
}

// Rect is an axis aligned rectangle in container pixels.
type Rect struct {
	X, Y, W, H float64
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// Center returns the geometric center.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains reports whether p lies inside r. The right and bottom edges are exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// GridConfig describes the layout of the grid. Cells are square and laid out
// row-major, Columns per row, separated horizontally and vertically by GapPx.
type GridConfig struct {
	Columns          int
	GapPx            float64
	ContainerWidthPx float64
}

// Validate checks that the config describes a drawable grid.
func (g GridConfig) Validate() error {
	if g.Columns < 1 {
		return fmt.Errorf("%w: columns must be at least 1, got %d", ErrInvalidGrid, g.Columns)
	}
	if g.GapPx < 0 {
		return fmt.Errorf("%w: gap must not be negative, got %g", ErrInvalidGrid, g.GapPx)
	}
	if g.CellSize() <= 0 {
		return fmt.Errorf("%w: width %g leaves no room for %d columns with gap %g",
			ErrInvalidGrid, g.ContainerWidthPx, g.Columns, g.GapPx)
	}
	return nil
}

// CellSize returns the side length of a cell.
func (g GridConfig) CellSize() float64 {
	return (g.ContainerWidthPx - float64(g.Columns-1)*g.GapPx) / float64(g.Columns)
}

// Pitch is the distance between the origins of two neighbouring cells.
func (g GridConfig) Pitch() float64 {
	return g.CellSize() + g.GapPx
}

// RowCol returns the row and column of index.
func (g GridConfig) RowCol(index int) (row, col int) {
	return index / g.Columns, index % g.Columns
}

// CellRect returns the rectangle of the cell at index.
func (g GridConfig) CellRect(index int) Rect {
	row, col := g.RowCol(index)
	size := g.CellSize()
	pitch := size + g.GapPx
	return Rect{
		X: float64(col) * pitch,
		Y: float64(row) * pitch,
		W: size,
		H: size,
	}
}

// Rows returns how many rows n items occupy.
func (g GridConfig) Rows(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + g.Columns - 1) / g.Columns
}

// ContentHeight returns the pixel height needed to show n items.
func (g GridConfig) ContentHeight(n int) float64 {
	rows := g.Rows(n)
	if rows == 0 {
		return 0
	}
	return float64(rows)*g.CellSize() + float64(rows-1)*g.GapPx
}

// HitTest returns the index of the item whose cell contains p. Points that
// fall in a gap, outside the grid or past the last item miss.
func (g GridConfig) HitTest(p Point, n int) (int, bool) {
	if p.X < 0 || p.Y < 0 || n <= 0 {
		return 0, false
	}
	pitch := g.Pitch()
	col := int(math.Floor(p.X / pitch))
	row := int(math.Floor(p.Y / pitch))
	if col >= g.Columns {
		return 0, false
	}
	index := row*g.Columns + col
	if index >= n {
		return 0, false
	}
	if !g.CellRect(index).Contains(p) {
		return 0, false
	}
	return index, true
}
