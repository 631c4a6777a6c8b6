package chart

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Stop is one point of a colour scale. Position is in 0..1.
type Stop struct {
	Position float64
	Color    string
}

// ColorScale maps a value in Min..Max onto interpolated stops.
type ColorScale struct {
	Stops []Stop
	Min   float64
	Max   float64
}

// EffortScale is low effort green, half gold, full red over 0..100.
func EffortScale() ColorScale {
	return ColorScale{
		Stops: []Stop{{0.0, "green"}, {0.5, "gold"}, {1.0, "red"}},
		Min:   0,
		Max:   100,
	}
}

// Hex returns the interpolated colour for v as #rrggbb. Values outside
// Min..Max are clamped.
func (s ColorScale) Hex(v float64) (string, error) {
	if len(s.Stops) == 0 {
		return "", fmt.Errorf("colour scale has no stops")
	}
	pos := 0.0
	if s.Max > s.Min {
		pos = (v - s.Min) / (s.Max - s.Min)
	}
	pos = math.Max(0, math.Min(1, pos))

	lo, hi := s.Stops[0], s.Stops[len(s.Stops)-1]
	for i := 1; i < len(s.Stops); i++ {
		if pos <= s.Stops[i].Position {
			lo, hi = s.Stops[i-1], s.Stops[i]
			break
		}
	}
	c1, err := ParseColor(lo.Color)
	if err != nil {
		return "", err
	}
	c2, err := ParseColor(hi.Color)
	if err != nil {
		return "", err
	}
	t := 0.0
	if hi.Position > lo.Position {
		t = (pos - lo.Position) / (hi.Position - lo.Position)
	}
	return c1.BlendRgb(c2, t).Clamped().Hex(), nil
}

// ParseColor accepts #rrggbb / #rgb hex or one of the CSS colour names
// used by schedules.
func ParseColor(s string) (colorful.Color, error) {
	if hex, ok := cssColors[s]; ok {
		s = hex
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("unknown colour %q: %w", s, err)
	}
	return c, nil
}

var cssColors = map[string]string{
	"black":     "#000000",
	"white":     "#ffffff",
	"gray":      "#808080",
	"grey":      "#808080",
	"red":       "#ff0000",
	"crimson":   "#dc143c",
	"tomato":    "#ff6347",
	"orange":    "#ffa500",
	"gold":      "#ffd700",
	"yellow":    "#ffff00",
	"green":     "#008000",
	"lime":      "#00ff00",
	"teal":      "#008080",
	"cyan":      "#00ffff",
	"blue":      "#0000ff",
	"royalblue": "#4169e1",
	"navy":      "#000080",
	"purple":    "#800080",
	"magenta":   "#ff00ff",
	"pink":      "#ffc0cb",
	"brown":     "#a52a2a",
}
