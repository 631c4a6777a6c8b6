package render

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/harrisonrobin/gantta/pkg/chart"
	"github.com/harrisonrobin/gantta/pkg/model"
	"github.com/harrisonrobin/gantta/pkg/overlay"
)

// SVG draws a static image of the chart.
type SVG struct {
	Width      int
	RowHeight  int
	FontFamily string
	MaxTicks   int
}

func NewSVG() *SVG {
	return &SVG{Width: 1200, RowHeight: 36, FontFamily: "Arial, sans-serif", MaxTicks: 10}
}

// plot geometry for one render
type frame struct {
	left, top, width, height int
	lower, upper             model.Date
	rows                     map[string]int
	rowHeight                int
}

func (f frame) x(d model.Date) float64 {
	span := f.lower.DaysUntil(f.upper)
	return float64(f.left) + float64(f.lower.DaysUntil(d))/float64(span)*float64(f.width)
}

func (f frame) y(name string) float64 {
	return float64(f.top) + (float64(f.rows[name])+0.5)*float64(f.rowHeight)
}

func (s *SVG) Render(w io.Writer, c *chart.Chart) error {
	rows := c.Rows()
	lower, upper := axisBounds(c.Range)
	f := frame{
		left:      c.Margins.Left + 100,
		top:       c.Margins.Top + 30,
		width:     s.Width - c.Margins.Left - 100 - c.Margins.Right - 60,
		rowHeight: s.RowHeight,
		lower:     lower,
		upper:     upper,
		rows:      make(map[string]int, len(rows)),
	}
	for i, name := range rows {
		f.rows[name] = i
	}
	f.height = max(len(rows), 1) * s.RowHeight
	height := f.top + f.height + c.Margins.Bottom + 30

	var svg strings.Builder
	svg.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg" font-family="%s">
`, s.Width, height, s.FontFamily))
	svg.WriteString(`<rect width="100%" height="100%" fill="#ffffff"/>` + "\n")
	if err := s.drawColorBar(&svg, c, f); err != nil {
		return err
	}
	svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" text-anchor="middle" font-size="17">%s</text>`+"\n",
		s.Width/2, c.Margins.Top/2, escapeXML(c.Title)))

	s.drawAxis(&svg, f, rows)

	for _, t := range c.Ranged {
		color, err := c.Scale.Hex(t.Effort)
		if err != nil {
			return err
		}
		x0, x1 := f.x(t.Start), f.x(t.End)
		svg.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%d" fill="%s"><title>%s</title></rect>`+"\n",
			x0, f.y(t.Name)-float64(s.RowHeight)*0.35, x1-x0, s.RowHeight*7/10, color, escapeXML(taskTooltip(t))))
	}
	for _, t := range c.Instantaneous {
		color, err := c.Scale.Hex(t.Effort)
		if err != nil {
			return err
		}
		x, y := f.x(t.Start), f.y(t.Name)
		svg.WriteString(fmt.Sprintf(`<polygon points="%.1f,%.1f %.1f,%.1f %.1f,%.1f %.1f,%.1f" fill="%s"><title>%s</title></polygon>`+"\n",
			x, y-7, x+7, y, x, y+7, x-7, y, color, escapeXML(taskTooltip(t))))
	}

	for _, m := range c.Markers {
		s.drawMarker(&svg, f, m)
	}

	svg.WriteString("</svg>\n")
	_, err := io.WriteString(w, svg.String())
	return err
}

func (s *SVG) drawAxis(svg *strings.Builder, f frame, rows []string) {
	bottom := f.top + f.height
	svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#444444" stroke-width="1"/>`+"\n",
		f.left, bottom, f.left+f.width, bottom))

	for _, name := range rows {
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%.1f" text-anchor="end" dominant-baseline="middle" font-size="12">%s</text>`+"\n",
			f.left-8, f.y(name), escapeXML(name)))
	}

	days := f.lower.DaysUntil(f.upper)
	step := 1
	if s.MaxTicks > 0 && days > s.MaxTicks {
		step = (days + s.MaxTicks - 1) / s.MaxTicks
	}
	for d := 0; d <= days; d += step {
		date := f.lower.AddDays(d)
		x := f.x(date)
		svg.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%d" x2="%.1f" y2="%d" stroke="#ebf0f8" stroke-width="1"/>`+"\n",
			x, f.top, x, bottom))
		svg.WriteString(fmt.Sprintf(`<text x="%.1f" y="%d" text-anchor="middle" font-size="11" fill="#444444">%s</text>`+"\n",
			x, bottom+16, date.Format("Jan 02 2006")))
	}
}

func (s *SVG) drawMarker(svg *strings.Builder, f frame, m overlay.Marker) {
	x := f.x(m.Date)
	lineColor, labelColor, border := svgColor(m.Line.Color), svgColor(m.Annotation.Color), svgColor(m.Annotation.Border)
	dash := "6,4"
	if m.Line.Dash == overlay.DashDotted {
		dash = "2,3"
	}
	svg.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%d" x2="%.1f" y2="%d" stroke="%s" stroke-width="%d" stroke-dasharray="%s" stroke-opacity="%.2f"/>`+"\n",
		x, f.top, x, f.top+f.height, lineColor, m.Line.Width, dash, m.Line.Opacity))

	// labels sit above the plot at the annotation's fixed offset
	a := m.Annotation
	labelY := float64(f.top) + float64(a.OffsetY)
	svg.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%d" stroke="%s" stroke-width="1"/>`+"\n",
		x, labelY+4, x, f.top, labelColor))
	width := len(a.Text)*a.FontSize*6/10 + 8
	svg.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%d" height="%d" fill="#ffffff" fill-opacity="0.75" stroke="%s"/>`+"\n",
		x-float64(width)/2, labelY-float64(a.FontSize)-2, width, a.FontSize+6, border))
	svg.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" text-anchor="middle" font-size="%d" fill="%s">%s</text>`+"\n",
		x, labelY, a.FontSize, labelColor, escapeXML(a.Text)))
}

func (s *SVG) drawColorBar(svg *strings.Builder, c *chart.Chart, f frame) error {
	svg.WriteString(`<defs><linearGradient id="effort" x1="0" y1="1" x2="0" y2="0">`)
	for _, stop := range c.Scale.Stops {
		col, err := chart.ParseColor(stop.Color)
		if err != nil {
			return err
		}
		svg.WriteString(fmt.Sprintf(`<stop offset="%.2f" stop-color="%s"/>`, stop.Position, col.Hex()))
	}
	svg.WriteString("</linearGradient></defs>\n")

	x := f.left + f.width + 30
	svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="16" height="%d" fill="url(#effort)"/>`+"\n", x, f.top, f.height))
	span := c.Scale.Max - c.Scale.Min
	if span <= 0 {
		span = 1
	}
	for _, tick := range c.ColorBarTicks {
		y := float64(f.top+f.height) - (tick-c.Scale.Min)/span*float64(f.height)
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%.1f" font-size="10" dominant-baseline="middle">%.0f</text>`+"\n", x+20, y, tick))
	}
	svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="11">Effort %%</text>`+"\n", x-4, f.top-8))
	return nil
}

func taskTooltip(t model.Task) string {
	if t.Instantaneous() {
		return fmt.Sprintf("%s\nDate: %s\nEffort: %.0f%%", t.Name, t.Start, t.Effort)
	}
	return fmt.Sprintf("%s\nStart: %s\nFinish: %s\nEffort: %.0f%%", t.Name, t.Start, t.End, t.Effort)
}

// svgColor writes known colours as hex and escapes anything else, which
// the viewer may still understand as a CSS colour.
func svgColor(s string) string {
	if c, err := chart.ParseColor(strings.ToLower(strings.TrimSpace(s))); err == nil {
		return c.Hex()
	}
	return escapeXML(s)
}

func escapeXML(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
