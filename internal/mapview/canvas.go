package mapview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Canvas is a braille micro pixel buffer, 2x4 dots per terminal cell, with
// one foreground color per cell. Higher priority draws own the cell color.
type Canvas struct {
	w, h  int       // in cells
	m     [][]uint8 // per-cell 8-bit dot mask
	color [][]string
	prio  [][]int
	glyph [][]rune // overrides the braille pattern when set
}

// NewCanvas allocates a canvas of w by h cells
func NewCanvas(w, h int) *Canvas {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	c := &Canvas{
		w:     w,
		h:     h,
		m:     make([][]uint8, h),
		color: make([][]string, h),
		prio:  make([][]int, h),
		glyph: make([][]rune, h),
	}
	for i := 0; i < h; i++ {
		c.m[i] = make([]uint8, w)
		c.color[i] = make([]string, w)
		c.prio[i] = make([]int, w)
		c.glyph[i] = make([]rune, w)
	}
	return c
}

// dotBits maps the (x, y) position inside a cell to its braille bit
var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// Set turns on the micro pixel (mx, my). Out of range pixels are ignored.
func (c *Canvas) Set(mx, my int, color string, prio int) {
	if mx < 0 || my < 0 {
		return
	}
	cx, cy := mx/2, my/4
	if cx >= c.w || cy >= c.h {
		return
	}
	c.m[cy][cx] |= dotBits[mx%2][my%4]
	if prio >= c.prio[cy][cx] {
		c.prio[cy][cx] = prio
		c.color[cy][cx] = color
	}
}

// SetGlyph places a whole character in a cell, replacing its dots
func (c *Canvas) SetGlyph(cx, cy int, r rune, color string, prio int) {
	if cx < 0 || cy < 0 || cx >= c.w || cy >= c.h {
		return
	}
	if prio < c.prio[cy][cx] {
		return
	}
	c.glyph[cy][cx] = r
	c.prio[cy][cx] = prio
	c.color[cy][cx] = color
}

// Cell returns the character and color of a cell
func (c *Canvas) Cell(cx, cy int) (rune, string) {
	if cx < 0 || cy < 0 || cx >= c.w || cy >= c.h {
		return ' ', ""
	}
	if g := c.glyph[cy][cx]; g != 0 {
		return g, c.color[cy][cx]
	}
	if mask := c.m[cy][cx]; mask != 0 {
		return rune(0x2800 + int(mask)), c.color[cy][cx]
	}
	return ' ', ""
}

// Line draws a line between two micro pixels using Bresenham. When dashes
// is non-empty it is an on/off run list and *pos carries the pattern
// offset from one segment to the next.
func (c *Canvas) Line(x0, y0, x1, y1 int, color string, prio int, dashes []int, pos *int) {
	if pos == nil {
		pos = new(int)
	}
	period := 0
	for _, d := range dashes {
		period += d
	}

	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		if period == 0 || dashOn(dashes, period, *pos) {
			c.Set(x0, y0, color, prio)
		}
		*pos++
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func dashOn(dashes []int, period, pos int) bool {
	p := pos % period
	for i, d := range dashes {
		if p < d {
			return i%2 == 0
		}
		p -= d
	}
	return true
}

// Lines renders the canvas, one string per row, coloring runs of cells
// that share a color
func (c *Canvas) Lines() []string {
	out := make([]string, c.h)
	for y := 0; y < c.h; y++ {
		var b strings.Builder
		var run []rune
		runColor := ""
		flush := func() {
			if len(run) == 0 {
				return
			}
			if runColor == "" {
				b.WriteString(string(run))
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(runColor)).Render(string(run)))
			}
			run = run[:0]
		}
		for x := 0; x < c.w; x++ {
			r, color := c.Cell(x, y)
			if color != runColor {
				flush()
				runColor = color
			}
			run = append(run, r)
		}
		flush()
		out[y] = b.String()
	}
	return out
}

// String joins Lines with newlines
func (c *Canvas) String() string {
	return strings.Join(c.Lines(), "\n")
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
