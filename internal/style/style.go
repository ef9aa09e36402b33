// Package style decides how each district layer is drawn
package style

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"

	"github.com/ngmaloney/la-districts/internal/districts"
)

// Style is the path style of one feature
type Style struct {
	StrokeColor   string
	StrokeWeight  int
	StrokeOpacity float64
	DashArray     string // Comma or space separated on/off run lengths, empty for solid
	FillColor     string // #rrggbb
	FillOpacity   float64
	BringToFront  bool
}

const (
	HighlightColor  = "#666"
	HighlightWeight = 5

	strokeWeight  = 1
	strokeOpacity = 1.0
	fillOpacity   = 0.7
)

type stroke struct {
	color string
	dash  string
}

var strokes = map[districts.Kind]stroke{
	districts.NeighborhoodCouncil: {color: "grey", dash: "3"},
	districts.CityCouncil:         {color: "blue", dash: "3"},
	districts.CountySupervisor:    {color: "green", dash: "1"},
	districts.Assembly:            {color: "darkorange", dash: "4 2"},
	districts.Senate:              {color: "crimson", dash: "6 2"},
}

// Resolver hands out layer styles. Fill colors are drawn from its random
// source, so two calls for the same kind differ only in FillColor.
type Resolver struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewResolver creates a resolver. A nil rng uses a randomly seeded source.
func NewResolver(rng *rand.Rand) *Resolver {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Resolver{rng: rng}
}

// For returns the base style of a feature on kind's layer
func (r *Resolver) For(kind districts.Kind) Style {
	s := strokes[kind]
	return Style{
		StrokeColor:   Hex(s.color),
		StrokeWeight:  strokeWeight,
		StrokeOpacity: strokeOpacity,
		DashArray:     s.dash,
		FillColor:     r.RandomColor(),
		FillOpacity:   fillOpacity,
	}
}

// StrokeColor returns the fixed stroke color of a layer, for legends
func StrokeColor(kind districts.Kind) string {
	return Hex(strokes[kind].color)
}

// RandomColor returns a color uniform over 24-bit RGB
func (r *Resolver) RandomColor() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fmt.Sprintf("#%06x", r.rng.IntN(0x1000000))
}

// Highlight returns the hover style derived from base. base is not modified,
// so restoring it undoes the highlight exactly.
func Highlight(base Style) Style {
	h := base
	h.StrokeColor = Hex(HighlightColor)
	h.StrokeWeight = HighlightWeight
	h.DashArray = ""
	h.FillOpacity = fillOpacity
	h.BringToFront = true
	return h
}

// Dashes parses a dash array into alternating on/off run lengths. A single
// value n means n on, n off. Empty or invalid patterns are solid (nil).
func Dashes(dash string) []int {
	fields := strings.FieldsFunc(dash, func(r rune) bool {
		return r == ',' || r == ' '
	})
	if len(fields) == 0 {
		return nil
	}

	runs := make([]int, 0, len(fields)*2)
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return nil
		}
		runs = append(runs, n)
	}
	if len(runs)%2 == 1 {
		runs = append(runs, runs...)
	}
	total := 0
	for _, n := range runs {
		total += n
	}
	if total == 0 {
		return nil
	}
	return runs
}

var named = map[string]string{
	"grey":       "#808080",
	"gray":       "#808080",
	"blue":       "#0000ff",
	"green":      "#008000",
	"darkorange": "#ff8c00",
	"crimson":    "#dc143c",
	"white":      "#ffffff",
	"black":      "#000000",
}

// Hex normalizes a CSS color name or short hex color to #rrggbb. Unknown
// values are returned unchanged.
func Hex(color string) string {
	c := strings.ToLower(strings.TrimSpace(color))
	if h, ok := named[c]; ok {
		return h
	}
	if len(c) == 4 && c[0] == '#' {
		return "#" + strings.Repeat(c[1:2], 2) + strings.Repeat(c[2:3], 2) + strings.Repeat(c[3:4], 2)
	}
	return c
}

// RGB splits a #rrggbb color into its components
func RGB(color string) (r, g, b uint8, ok bool) {
	c := Hex(color)
	if len(c) != 7 || c[0] != '#' {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(c[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}
