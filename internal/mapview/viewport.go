// Package mapview projects geographic coordinates onto the terminal and
// draws district layers with braille characters.
package mapview

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

const (
	MinZoom     = 3.0
	MaxZoom     = 18.0
	DefaultZoom = 10.0
	SearchZoom  = 14.0

	// microPerTile is the width of the world in micro pixels at zoom 0
	microPerTile = 64.0
)

// DefaultCenter is the initial map center, south of downtown Los Angeles
var DefaultCenter = orb.Point{-118.255603, 33.988744}

// Viewport is the visible map window. Width and Height are in terminal
// cells; each cell holds 2x4 micro pixels. Micro pixels are treated as
// square, so latitude is scaled by cos(lat) around the center.
type Viewport struct {
	Center orb.Point
	Zoom   float64
	Width  int
	Height int
}

// NewViewport returns the initial view for a map of w by h cells
func NewViewport(w, h int) Viewport {
	return Viewport{Center: DefaultCenter, Zoom: DefaultZoom, Width: w, Height: h}
}

func clampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return DefaultZoom
	}
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}

// scale returns degrees of longitude and latitude per micro pixel
func (v Viewport) scale() (float64, float64) {
	dx := 360 / (math.Pow(2, clampZoom(v.Zoom)) * microPerTile)
	cos := math.Cos(v.Center.Lat() * math.Pi / 180)
	if cos < 0.01 {
		cos = 0.01
	}
	return dx, dx * cos
}

// MicroSize returns the canvas size in micro pixels
func (v Viewport) MicroSize() (int, int) {
	return v.Width * 2, v.Height * 4
}

// PointToMicro projects a lon/lat onto fractional micro pixel coordinates.
// Points outside the view map outside [0, MicroSize).
func (v Viewport) PointToMicro(pt orb.Point) (float64, float64) {
	dx, dy := v.scale()
	w, h := v.MicroSize()
	mx := (pt.Lon()-v.Center.Lon())/dx + float64(w)/2
	my := (v.Center.Lat()-pt.Lat())/dy + float64(h)/2
	return mx, my
}

// MicroToPoint is the inverse of PointToMicro
func (v Viewport) MicroToPoint(mx, my float64) orb.Point {
	dx, dy := v.scale()
	w, h := v.MicroSize()
	return orb.Point{
		v.Center.Lon() + (mx-float64(w)/2)*dx,
		v.Center.Lat() - (my-float64(h)/2)*dy,
	}
}

// CellToPoint returns the lon/lat at the middle of a terminal cell
func (v Viewport) CellToPoint(col, row int) orb.Point {
	return v.MicroToPoint(float64(col*2)+1, float64(row*4)+2)
}

// PointToCell returns the cell containing pt and whether it is visible
func (v Viewport) PointToCell(pt orb.Point) (int, int, bool) {
	mx, my := v.PointToMicro(pt)
	col, row := int(math.Floor(mx/2)), int(math.Floor(my/4))
	return col, row, col >= 0 && col < v.Width && row >= 0 && row < v.Height
}

// Bound returns the geographic extent of the view
func (v Viewport) Bound() orb.Bound {
	w, h := v.MicroSize()
	return orb.MultiPoint{
		v.MicroToPoint(0, 0),
		v.MicroToPoint(float64(w), float64(h)),
	}.Bound()
}

// Pan moves the view by whole cells; positive cols move east, positive rows
// move south
func (v Viewport) Pan(cols, rows int) Viewport {
	dx, dy := v.scale()
	v.Center = orb.Point{
		v.Center.Lon() + float64(cols*2)*dx,
		v.Center.Lat() - float64(rows*4)*dy,
	}
	return v
}

// ZoomBy changes the zoom level by delta, clamped to [MinZoom, MaxZoom]
func (v Viewport) ZoomBy(delta float64) Viewport {
	v.Zoom = clampZoom(v.Zoom + delta)
	return v
}

// ZoomAt zooms by delta keeping the point under cell (col, row) fixed
func (v Viewport) ZoomAt(col, row int, delta float64) Viewport {
	anchor := v.CellToPoint(col, row)
	z := v.ZoomBy(delta)
	// Latitude scale depends on the center, so converge in a few steps
	for i := 0; i < 3; i++ {
		moved := z.CellToPoint(col, row)
		z.Center = orb.Point{
			z.Center.Lon() + anchor.Lon() - moved.Lon(),
			z.Center.Lat() + anchor.Lat() - moved.Lat(),
		}
	}
	return z
}

// SetView recenters the map at zoom
func (v Viewport) SetView(center orb.Point, zoom float64) Viewport {
	v.Center = center
	v.Zoom = clampZoom(zoom)
	return v
}

// Resize changes the view size in cells, keeping the center
func (v Viewport) Resize(w, h int) Viewport {
	v.Width, v.Height = w, h
	return v
}

// FitBound centers on b and picks the largest whole zoom level at which b
// fits inside the view, leaving padding micro pixels on each side
func (v Viewport) FitBound(b orb.Bound, padding int) Viewport {
	v.Center = b.Center()
	w, h := v.MicroSize()
	availW := float64(w - 2*padding)
	availH := float64(h - 2*padding)
	if availW < 1 || availH < 1 || b.IsEmpty() {
		v.Zoom = clampZoom(v.Zoom)
		return v
	}

	for z := MaxZoom; z >= MinZoom; z-- {
		v.Zoom = z
		dx, dy := v.scale()
		if b.Max.Lon()-b.Min.Lon() <= availW*dx && b.Max.Lat()-b.Min.Lat() <= availH*dy {
			return v
		}
	}
	v.Zoom = MinZoom
	return v
}

var scaleSteps = []float64{
	10, 20, 50, 100, 200, 500,
	1000, 2000, 5000, 10000, 20000, 50000,
	100000, 200000, 500000, 1000000,
}

// ScaleBar picks a round distance no wider than maxCells at the view
// center. It returns the bar width in cells and its label.
func (v Viewport) ScaleBar(maxCells int) (int, string) {
	if maxCells < 1 {
		return 0, ""
	}
	a := v.CellToPoint(0, v.Height/2)
	b := v.CellToPoint(1, v.Height/2)
	perCell := geo.DistanceHaversine(a, b)
	if perCell <= 0 {
		return 0, ""
	}

	meters := scaleSteps[0]
	for _, s := range scaleSteps {
		if s/perCell > float64(maxCells) {
			break
		}
		meters = s
	}
	cells := int(math.Round(meters / perCell))
	if cells < 1 {
		cells = 1
	}

	if meters >= 1000 {
		return cells, fmt.Sprintf("%g km", meters/1000)
	}
	return cells, fmt.Sprintf("%g m", meters)
}
