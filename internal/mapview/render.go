package mapview

import (
	"fmt"
	"math"
	"sort"

	"github.com/paulmach/orb"

	"github.com/ngmaloney/la-districts/internal/style"
)

// MarkerColor is the color of the search marker
const MarkerColor = "#ffa500"

// markerGlyph fills the cell under the searched point
const markerGlyph = '●'

// Draw priorities; a cell takes the color of its highest priority dot
const (
	prioFill = iota + 1
	prioStroke
	prioFrontFill
	prioFrontStroke
	prioMarker
)

// Shape is one feature to draw
type Shape struct {
	Geometry orb.Geometry // orb.Polygon or orb.MultiPolygon
	Style    style.Style
}

// bayer is a 4x4 ordered dither matrix used to thin out fills
var bayer = [4][4]int{
	{0, 8, 2, 10},
	{12, 4, 14, 6},
	{3, 11, 1, 9},
	{15, 7, 13, 5},
}

// Render draws shapes in order, BringToFront shapes last, then the search
// marker if one is set
func Render(v Viewport, shapes []Shape, marker *orb.Point) *Canvas {
	c := NewCanvas(v.Width, v.Height)
	view := v.Bound()

	ordered := make([]Shape, len(shapes))
	copy(ordered, shapes)
	sort.SliceStable(ordered, func(i, j int) bool {
		return !ordered[i].Style.BringToFront && ordered[j].Style.BringToFront
	})

	for _, s := range ordered {
		if s.Geometry == nil || !s.Geometry.Bound().Intersects(view) {
			continue
		}
		var polys []orb.Polygon
		switch g := s.Geometry.(type) {
		case orb.Polygon:
			polys = []orb.Polygon{g}
		case orb.MultiPolygon:
			polys = g
		default:
			continue
		}

		fillPrio, strokePrio := prioFill, prioStroke
		if s.Style.BringToFront {
			fillPrio, strokePrio = prioFrontFill, prioFrontStroke
		}
		fill := blend(s.Style.FillColor, s.Style.FillOpacity)
		stroke := blend(s.Style.StrokeColor, s.Style.StrokeOpacity)
		dashes := style.Dashes(s.Style.DashArray)

		for _, p := range polys {
			rings := project(v, p)
			fillPolygon(c, rings, fill, fillPrio, s.Style.FillOpacity)
			for _, r := range rings {
				strokeRing(c, r, stroke, strokePrio, dashes, s.Style.StrokeWeight)
			}
		}
	}

	if marker != nil {
		drawMarker(c, v, *marker)
	}
	return c
}

type microPoint struct{ x, y float64 }

func project(v Viewport, p orb.Polygon) [][]microPoint {
	rings := make([][]microPoint, 0, len(p))
	for _, ring := range p {
		if len(ring) < 3 {
			continue
		}
		mr := make([]microPoint, len(ring))
		for i, pt := range ring {
			x, y := v.PointToMicro(pt)
			mr[i] = microPoint{x, y}
		}
		rings = append(rings, mr)
	}
	return rings
}

// fillPolygon fills with the even-odd rule over every ring, so holes stay
// empty. Only dither cells under the opacity threshold are set.
func fillPolygon(c *Canvas, rings [][]microPoint, color string, prio int, opacity float64) {
	if len(rings) == 0 || opacity <= 0 {
		return
	}
	threshold := int(math.Round(opacity * 8))

	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, r := range rings {
		for _, p := range r {
			minY = math.Min(minY, p.y)
			maxY = math.Max(maxY, p.y)
		}
	}
	hMic, wMic := c.h*4, c.w*2
	y0 := int(math.Max(0, math.Floor(minY)))
	y1 := int(math.Min(float64(hMic-1), math.Ceil(maxY)))

	var xs []float64
	for y := y0; y <= y1; y++ {
		scan := float64(y) + 0.5
		xs = xs[:0]
		for _, r := range rings {
			for i := range r {
				a, b := r[i], r[(i+1)%len(r)]
				if a.y == b.y {
					continue
				}
				if (scan >= a.y && scan < b.y) || (scan >= b.y && scan < a.y) {
					t := (scan - a.y) / (b.y - a.y)
					xs = append(xs, a.x+t*(b.x-a.x))
				}
			}
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			xa := int(math.Max(0, math.Ceil(xs[i]-0.5)))
			xb := int(math.Min(float64(wMic-1), math.Floor(xs[i+1]-0.5)))
			for x := xa; x <= xb; x++ {
				if bayer[y%4][x%4] < threshold {
					c.Set(x, y, color, prio)
				}
			}
		}
	}
}

func strokeRing(c *Canvas, ring []microPoint, color string, prio int, dashes []int, weight int) {
	pos := 0
	wMic, hMic := float64(c.w*2), float64(c.h*4)
	for i := 0; i+1 < len(ring); i++ {
		a, b := ring[i], ring[i+1]
		ax, ay, bx, by, ok := clipSegment(a.x, a.y, b.x, b.y, -1, -1, wMic, hMic)
		if !ok {
			continue
		}
		x0, y0 := int(math.Floor(ax)), int(math.Floor(ay))
		x1, y1 := int(math.Floor(bx)), int(math.Floor(by))
		c.Line(x0, y0, x1, y1, color, prio, dashes, &pos)
		if weight >= 3 {
			p := pos
			c.Line(x0+1, y0, x1+1, y1, color, prio, dashes, &p)
			p = pos
			c.Line(x0, y0+1, x1, y1+1, color, prio, dashes, &p)
		}
	}
}

// clipSegment clips a segment to the rectangle [minX, maxX] x [minY, maxY]
// using Liang-Barsky
func clipSegment(x0, y0, x1, y1, minX, minY, maxX, maxY float64) (float64, float64, float64, float64, bool) {
	dx, dy := x1-x0, y1-y0
	t0, t1 := 0.0, 1.0
	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{x0 - minX, maxX - x0, y0 - minY, maxY - y0}
	for i := 0; i < 4; i++ {
		if p[i] == 0 {
			if q[i] < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q[i] / p[i]
		if p[i] < 0 {
			if t > t1 {
				return 0, 0, 0, 0, false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return 0, 0, 0, 0, false
			}
			if t < t1 {
				t1 = t
			}
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

func drawMarker(c *Canvas, v Viewport, pt orb.Point) {
	mx, my := v.PointToMicro(pt)
	const radius = 3.0
	for i := 0; i < 24; i++ {
		a := float64(i) * 2 * math.Pi / 24
		c.Set(int(math.Floor(mx+radius*math.Cos(a))), int(math.Floor(my+radius*math.Sin(a))), MarkerColor, prioMarker)
	}
	c.SetGlyph(int(math.Floor(mx/2)), int(math.Floor(my/4)), markerGlyph, MarkerColor, prioMarker)
}

// blend darkens a color toward black by opacity
func blend(color string, opacity float64) string {
	r, g, b, ok := style.RGB(color)
	if !ok {
		return color
	}
	if opacity >= 1 {
		return style.Hex(color)
	}
	if opacity < 0 {
		opacity = 0
	}
	scale := func(v uint8) uint8 { return uint8(math.Round(float64(v) * opacity)) }
	return fmt.Sprintf("#%02x%02x%02x", scale(r), scale(g), scale(b))
}
