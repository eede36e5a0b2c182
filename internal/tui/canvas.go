package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// canvas is a fixed-size cell buffer for drawing overlapping tiles. Every
// cell holds a rune and a palette slot; String joins runs of one slot into a
// single styled segment per line.
type canvas struct {
	w, h    int
	runes   [][]rune
	paint   [][]int
	palette []lipgloss.Style
}

// wideTail marks the cell covered by the right half of a wide rune.
const wideTail = rune(-1)

func newCanvas(w, h int, palette []lipgloss.Style) *canvas {
	w, h = max(w, 0), max(h, 0)
	c := &canvas{w: w, h: h, palette: palette}
	c.runes = make([][]rune, h)
	c.paint = make([][]int, h)
	for y := range c.runes {
		c.runes[y] = []rune(strings.Repeat(" ", w))
		c.paint[y] = make([]int, w)
	}
	return c
}

func (c *canvas) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.w && y < c.h
}

// set writes one rune; out-of-bounds writes are clipped.
func (c *canvas) set(x, y int, r rune, slot int) {
	if !c.inside(x, y) {
		return
	}
	// Overwriting half of a wide rune blanks the other half.
	if c.runes[y][x] == wideTail && x > 0 {
		c.runes[y][x-1] = ' '
	}
	if x+1 < c.w && c.runes[y][x+1] == wideTail {
		c.runes[y][x+1] = ' '
	}
	c.runes[y][x] = r
	c.paint[y][x] = slot
}

// text writes s starting at x, stopping before x+maxW. It returns the number
// of cells written.
func (c *canvas) text(x, y int, s string, maxW, slot int) int {
	col := 0
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if col+rw > maxW {
			break
		}
		c.set(x+col, y, r, slot)
		if rw == 2 {
			if c.inside(x+col+1, y) {
				c.runes[y][x+col+1] = wideTail
				c.paint[y][x+col+1] = slot
			} else {
				c.runes[y][x+col] = ' '
			}
		}
		col += rw
	}
	return col
}

// fill paints a rectangle with r.
func (c *canvas) fill(x, y, w, h int, r rune, slot int) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			c.set(x+dx, y+dy, r, slot)
		}
	}
}

// box draws a border and clears its interior. Boxes smaller than 2x2 are
// drawn as a filled block.
func (c *canvas) box(x, y, w, h int, b lipgloss.Border, slot int) {
	if w < 2 || h < 2 {
		c.fill(x, y, w, h, '█', slot)
		return
	}
	c.fill(x+1, y+1, w-2, h-2, ' ', paintPlain)
	for dx := 1; dx < w-1; dx++ {
		c.set(x+dx, y, firstRune(b.Top), slot)
		c.set(x+dx, y+h-1, firstRune(b.Bottom), slot)
	}
	for dy := 1; dy < h-1; dy++ {
		c.set(x, y+dy, firstRune(b.Left), slot)
		c.set(x+w-1, y+dy, firstRune(b.Right), slot)
	}
	c.set(x, y, firstRune(b.TopLeft), slot)
	c.set(x+w-1, y, firstRune(b.TopRight), slot)
	c.set(x, y+h-1, firstRune(b.BottomLeft), slot)
	c.set(x+w-1, y+h-1, firstRune(b.BottomRight), slot)
}

// String renders the canvas, one line per row.
func (c *canvas) String() string {
	var b strings.Builder
	var run strings.Builder
	for y := 0; y < c.h; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		current := paintPlain
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if current == paintPlain || current >= len(c.palette) {
				b.WriteString(run.String())
			} else {
				b.WriteString(c.palette[current].Render(run.String()))
			}
			run.Reset()
		}
		for x := 0; x < c.w; x++ {
			r := c.runes[y][x]
			if r == wideTail {
				continue
			}
			if p := c.paint[y][x]; p != current {
				flush()
				current = p
			}
			run.WriteRune(r)
		}
		flush()
	}
	return b.String()
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return ' '
}
