package render

import (
	"html/template"
	"io"

	"github.com/harrisonrobin/gantta/pkg/chart"
	"github.com/harrisonrobin/gantta/pkg/model"
)

const DefaultPlotlyCDN = "https://cdn.plot.ly/plotly-2.35.2.min.js"

// HTML writes a standalone interactive page that loads Plotly from a CDN.
type HTML struct {
	CDN string
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<script src="{{.CDN}}" charset="utf-8"></script>
<style>html, body, #gantt { width: 100%; height: 100%; margin: 0; }</style>
</head>
<body>
<div id="gantt"></div>
<script>
Plotly.newPlot("gantt", {{.Figure.Data}}, {{.Figure.Layout}}, {{.Figure.Config}});
</script>
</body>
</html>
`))

type figure struct {
	Data   []map[string]any `json:"data"`
	Layout map[string]any   `json:"layout"`
	Config map[string]any   `json:"config"`
}

func (h *HTML) Render(w io.Writer, c *chart.Chart) error {
	cdn := h.CDN
	if cdn == "" {
		cdn = DefaultPlotlyCDN
	}
	return pageTemplate.Execute(w, struct {
		Title  string
		CDN    string
		Figure figure
	}{
		Title:  c.Title,
		CDN:    cdn,
		Figure: buildFigure(c),
	})
}

func buildFigure(c *chart.Chart) figure {
	data := []map[string]any{}

	if len(c.Ranged) > 0 {
		var base, names []string
		var widths, efforts []float64
		for _, t := range c.Ranged {
			base = append(base, t.Start.String())
			names = append(names, t.Name)
			// bar length in milliseconds on a date axis
			widths = append(widths, float64(t.End.Sub(t.Start.Time).Milliseconds()))
			efforts = append(efforts, t.Effort)
		}
		data = append(data, map[string]any{
			"type":        "bar",
			"orientation": "h",
			"base":        base,
			"x":           widths,
			"y":           names,
			"customdata":  endDates(c.Ranged),
			"marker":      map[string]any{"color": efforts, "coloraxis": "coloraxis"},
			"name":        "Task",
			"showlegend":  false,
			"hovertemplate": "<b>%{y}</b><br>Start: %{base|%Y-%m-%d}<br>Finish: %{customdata}" +
				"<br>Effort: %{marker.color:.0f}%<extra></extra>",
		})
	}

	if len(c.Instantaneous) > 0 {
		var xs, names []string
		var efforts []float64
		for _, t := range c.Instantaneous {
			xs = append(xs, t.Start.String())
			names = append(names, t.Name)
			efforts = append(efforts, t.Effort)
		}
		data = append(data, map[string]any{
			"type":          "scatter",
			"mode":          "markers",
			"x":             xs,
			"y":             names,
			"marker":        map[string]any{"symbol": "diamond", "size": 14, "color": efforts, "coloraxis": "coloraxis"},
			"name":          "Single-day milestone",
			"hovertemplate": "<b>%{y}</b><br>Date: %{x|%Y-%m-%d}<br>Effort: %{marker.color:.0f}%<extra></extra>",
		})
	}

	shapes := []map[string]any{}
	annotations := []map[string]any{}
	for _, m := range c.Markers {
		x := m.Date.String()
		shapes = append(shapes, map[string]any{
			"type": "line", "xref": "x", "yref": "paper",
			"x0": x, "x1": x, "y0": 0, "y1": 1,
			"line":    map[string]any{"color": m.Line.Color, "width": m.Line.Width, "dash": m.Line.Dash},
			"opacity": m.Line.Opacity,
		})
		a := m.Annotation
		annotations = append(annotations, map[string]any{
			"x": x, "y": a.Y, "xref": "x", "yref": "paper",
			"text":      a.Text,
			"showarrow": true, "arrowhead": 2, "ax": 0, "ay": a.OffsetY,
			"font":        map[string]any{"size": a.FontSize, "color": a.Color},
			"bgcolor":     a.Background,
			"bordercolor": a.Border,
		})
	}

	var scale [][]any
	for _, s := range c.Scale.Stops {
		scale = append(scale, []any{s.Position, s.Color})
	}

	lower, upper := axisBounds(c.Range)
	layout := map[string]any{
		"title":         map[string]any{"text": c.Title, "x": 0.5},
		"hovermode":     "closest",
		"plot_bgcolor":  "white",
		"paper_bgcolor": "white",
		"margin":        map[string]any{"l": c.Margins.Left, "r": c.Margins.Right, "t": c.Margins.Top, "b": c.Margins.Bottom},
		"xaxis": map[string]any{
			"type":      "date",
			"range":     []string{lower.String(), upper.String()},
			"gridcolor": "#ebf0f8",
		},
		"yaxis": map[string]any{
			"autorange":     "reversed",
			"categoryorder": "array",
			"categoryarray": c.Rows(),
			"gridcolor":     "#ebf0f8",
		},
		"coloraxis": map[string]any{
			"cmin":       c.Scale.Min,
			"cmax":       c.Scale.Max,
			"colorscale": scale,
			"colorbar": map[string]any{
				"title":     map[string]any{"text": "Effort %"},
				"tickvals":  c.ColorBarTicks,
				"thickness": 16,
				"len":       0.9,
			},
		},
		"shapes":      shapes,
		"annotations": annotations,
	}

	return figure{
		Data:   data,
		Layout: layout,
		Config: map[string]any{"responsive": true},
	}
}

func endDates(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.End.String())
	}
	return out
}
