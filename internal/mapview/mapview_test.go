package mapview

import (
	"math"
	"strings"
	"testing"

	"github.com/paulmach/orb"

	"github.com/ngmaloney/la-districts/internal/style"
)

func TestViewportRoundTrip(t *testing.T) {
	v := NewViewport(100, 30)
	pts := []orb.Point{
		DefaultCenter,
		{-118.2427, 34.0537},
		{-118.5, 33.7},
	}
	for _, pt := range pts {
		mx, my := v.PointToMicro(pt)
		back := v.MicroToPoint(mx, my)
		if math.Abs(back.Lon()-pt.Lon()) > 1e-9 || math.Abs(back.Lat()-pt.Lat()) > 1e-9 {
			t.Errorf("round trip %v -> %v", pt, back)
		}
	}

	col, row, ok := v.PointToCell(DefaultCenter)
	if !ok || col != 50 || row != 15 {
		t.Errorf("PointToCell(center) = %d,%d,%v, want 50,15,true", col, row, ok)
	}
	if _, _, ok := v.PointToCell(orb.Point{-40, 30}); ok {
		t.Error("mid-Atlantic reported visible")
	}
	if !v.Bound().Contains(v.CellToPoint(0, 0)) || !v.Bound().Contains(v.CellToPoint(99, 29)) {
		t.Error("corner cells outside view bound")
	}
}

func TestViewportZoomClamp(t *testing.T) {
	v := NewViewport(80, 24)
	tests := []struct {
		name  string
		delta float64
		want  float64
	}{
		{"in", 1, 11},
		{"far in", 40, MaxZoom},
		{"far out", -40, MinZoom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.ZoomBy(tt.delta).Zoom; got != tt.want {
				t.Errorf("ZoomBy(%v).Zoom = %v, want %v", tt.delta, got, tt.want)
			}
		})
	}
	if got := v.SetView(DefaultCenter, 99).Zoom; got != MaxZoom {
		t.Errorf("SetView(zoom 99).Zoom = %v", got)
	}
}

func TestViewportZoomAtKeepsAnchor(t *testing.T) {
	v := NewViewport(80, 24)
	before := v.CellToPoint(10, 5)
	after := v.ZoomAt(10, 5, 2).CellToPoint(10, 5)
	if math.Abs(before.Lon()-after.Lon()) > 1e-7 || math.Abs(before.Lat()-after.Lat()) > 1e-7 {
		t.Errorf("anchor moved from %v to %v", before, after)
	}
}

func TestViewportPan(t *testing.T) {
	v := NewViewport(80, 24)
	east := v.Pan(10, 0)
	if east.Center.Lon() <= v.Center.Lon() || east.Center.Lat() != v.Center.Lat() {
		t.Errorf("Pan(10, 0) center = %v", east.Center)
	}
	south := v.Pan(0, 5)
	if south.Center.Lat() >= v.Center.Lat() {
		t.Errorf("Pan(0, 5) center = %v", south.Center)
	}
}

func TestFitBound(t *testing.T) {
	v := NewViewport(80, 24)
	b := orb.Bound{Min: orb.Point{-118.30, 34.00}, Max: orb.Point{-118.20, 34.10}}

	fit := v.FitBound(b, 2)
	if fit.Center != b.Center() {
		t.Errorf("FitBound center = %v, want %v", fit.Center, b.Center())
	}
	view := fit.Bound()
	if !view.Contains(b.Min) || !view.Contains(b.Max) {
		t.Errorf("fitted view %v does not contain %v", view, b)
	}
	tighter := fit.ZoomBy(1).Bound()
	if tighter.Contains(b.Min) && tighter.Contains(b.Max) {
		t.Errorf("zoom %v is not the closest fit", fit.Zoom)
	}
}

func TestScaleBar(t *testing.T) {
	v := NewViewport(80, 24)
	cells, label := v.ScaleBar(20)
	if cells < 1 || cells > 20 {
		t.Errorf("ScaleBar cells = %d", cells)
	}
	if !strings.HasSuffix(label, " km") {
		t.Errorf("ScaleBar label at zoom 10 = %q, want km", label)
	}

	_, label = v.SetView(DefaultCenter, MaxZoom).ScaleBar(20)
	if !strings.HasSuffix(label, " m") {
		t.Errorf("ScaleBar label at zoom 18 = %q, want m", label)
	}
}

func TestCanvasLine(t *testing.T) {
	c := NewCanvas(4, 1)
	c.Line(0, 0, 7, 0, "#ffffff", 1, nil, nil)
	for x := 0; x < 4; x++ {
		r, _ := c.Cell(x, 0)
		if r != rune(0x2800+0x01+0x08) {
			t.Errorf("cell %d = %U, want top dots", x, r)
		}
	}

	dashed := NewCanvas(4, 1)
	dashed.Line(0, 0, 7, 0, "#ffffff", 1, []int{2, 2}, nil)
	r0, _ := dashed.Cell(0, 0)
	r1, _ := dashed.Cell(1, 0)
	if r0 == ' ' || r1 != ' ' {
		t.Errorf("dash pattern cells = %q %q, want on then off", r0, r1)
	}
}

func TestCanvasPriority(t *testing.T) {
	c := NewCanvas(1, 1)
	c.Set(0, 0, "#111111", 2)
	c.Set(1, 1, "#222222", 1)
	if _, color := c.Cell(0, 0); color != "#111111" {
		t.Errorf("cell color = %s, want higher priority color", color)
	}
	c.SetGlyph(0, 0, '+', "#333333", 3)
	if r, color := c.Cell(0, 0); r != '+' || color != "#333333" {
		t.Errorf("glyph cell = %q %s", r, color)
	}
	c.Set(5, 5, "#444444", 9)
}

func TestRenderHoleStaysEmpty(t *testing.T) {
	v := NewViewport(60, 20).SetView(orb.Point{0, 0}, 8)
	b := v.Bound()
	w, h := b.Max.Lon()-b.Min.Lon(), b.Max.Lat()-b.Min.Lat()

	outer := orb.Ring{
		{b.Min.Lon() + w*0.1, b.Min.Lat() + h*0.1},
		{b.Max.Lon() - w*0.1, b.Min.Lat() + h*0.1},
		{b.Max.Lon() - w*0.1, b.Max.Lat() - h*0.1},
		{b.Min.Lon() + w*0.1, b.Max.Lat() - h*0.1},
		{b.Min.Lon() + w*0.1, b.Min.Lat() + h*0.1},
	}
	hole := orb.Ring{
		{-w * 0.15, -h * 0.15},
		{w * 0.15, -h * 0.15},
		{w * 0.15, h * 0.15},
		{-w * 0.15, h * 0.15},
		{-w * 0.15, -h * 0.15},
	}
	s := style.Style{StrokeColor: "#0000ff", StrokeWeight: 1, StrokeOpacity: 1, FillColor: "#ff0000", FillOpacity: 0.7}

	c := Render(v, []Shape{{Geometry: orb.Polygon{outer, hole}, Style: s}}, nil)

	if r, _ := c.Cell(30, 10); r != ' ' {
		t.Errorf("center of hole = %q, want blank", r)
	}
	if r, _ := c.Cell(15, 10); r == ' ' {
		t.Error("polygon body left blank")
	}
	if r, _ := c.Cell(1, 1); r != ' ' {
		t.Errorf("outside polygon = %q, want blank", r)
	}
}

func TestRenderMarkerAndFront(t *testing.T) {
	v := NewViewport(40, 12)
	square := orb.Polygon{orb.Ring{
		{-118.4, 33.8}, {-118.1, 33.8}, {-118.1, 34.2}, {-118.4, 34.2}, {-118.4, 33.8},
	}}
	base := style.Style{StrokeColor: "#808080", StrokeWeight: 1, StrokeOpacity: 1, DashArray: "3", FillColor: "#00ff00", FillOpacity: 0.7}

	marker := DefaultCenter
	c := Render(v, []Shape{
		{Geometry: square, Style: style.Highlight(base)},
		{Geometry: square, Style: base},
	}, &marker)

	col, row, ok := v.PointToCell(marker)
	if !ok {
		t.Fatal("marker not visible")
	}
	if r, color := c.Cell(col, row); r != markerGlyph || color != MarkerColor {
		t.Errorf("marker cell = %q %s, want %q %s", r, color, markerGlyph, MarkerColor)
	}

	// The highlighted copy is drawn last, so its stroke owns the edge cells
	ecol, erow, ok := v.PointToCell(orb.Point{-118.4, 34.0})
	if !ok {
		t.Fatal("edge not visible")
	}
	found := false
	for dx := -1; dx <= 1; dx++ {
		if _, color := c.Cell(ecol+dx, erow); color == "#666666" {
			found = true
		}
	}
	if !found {
		t.Error("highlight stroke not on top")
	}
}

func TestClipSegment(t *testing.T) {
	if _, _, _, _, ok := clipSegment(-10, -10, -5, -5, 0, 0, 10, 10); ok {
		t.Error("segment outside rect not rejected")
	}
	x0, y0, x1, y1, ok := clipSegment(-10, 5, 20, 5, 0, 0, 10, 10)
	near := func(a, b float64) bool { return math.Abs(a-b) < 1e-9 }
	if !ok || !near(x0, 0) || !near(x1, 10) || !near(y0, 5) || !near(y1, 5) {
		t.Errorf("clipSegment = %v,%v %v,%v %v", x0, y0, x1, y1, ok)
	}
}

func TestBlend(t *testing.T) {
	if got := blend("#ff8000", 0.5); got != "#804000" {
		t.Errorf("blend = %s, want #804000", got)
	}
	if got := blend("blue", 1); got != "#0000ff" {
		t.Errorf("blend(blue, 1) = %s", got)
	}
}
