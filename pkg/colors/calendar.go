package colors

import (
	"strconv"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/harrisonrobin/gantta/pkg/chart"
)

// DefaultColorID is Graphite, used when a colour cannot be parsed.
const DefaultColorID = "8"

// eventColors are the Google Calendar event colours, indexed by colour ID.
var eventColors = []string{
	1:  "#7986cb", // Lavender
	2:  "#33b679", // Sage
	3:  "#8e24aa", // Grape
	4:  "#e67c73", // Flamingo
	5:  "#f6bf26", // Banana
	6:  "#f4511e", // Tangerine
	7:  "#039be5", // Peacock
	8:  "#616161", // Graphite
	9:  "#3f51b5", // Blueberry
	10: "#0b8043", // Basil
	11: "#d50000", // Tomato
}

var palette = func() []colorful.Color {
	out := make([]colorful.Color, len(eventColors))
	for i, hex := range eventColors {
		if hex == "" {
			continue
		}
		c, err := colorful.Hex(hex)
		if err != nil {
			panic(err)
		}
		out[i] = c
	}
	return out
}()

// CalendarColorID returns the ID of the Google Calendar event colour
// closest to a milestone colour (CSS name or hex), by CIE Lab distance.
func CalendarColorID(color string) string {
	c, err := chart.ParseColor(color)
	if err != nil {
		return DefaultColorID
	}
	best, bestDist := 0, 0.0
	for i := 1; i < len(palette); i++ {
		d := c.DistanceLab(palette[i])
		if best == 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return strconv.Itoa(best)
}
