package overlay

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harrisonrobin/gantta/pkg/model"
	"github.com/harrisonrobin/gantta/pkg/schedule"
)

// ErrNoData is returned when there are no tasks, no milestones and today
// was not requested, so no visible range exists.
var ErrNoData = errors.New("no tasks or milestones to place on the timeline")

const (
	KindMilestone = "milestone"
	KindToday     = "today"

	TodayLabel = "Today"
	TodayColor = "royalblue"

	DashDashed = "dash"
	DashDotted = "dot"
)

// markerNamespace seeds the name-based marker IDs.
var markerNamespace = uuid.MustParse("6f1c2a52-8a54-4d0e-9b1f-3c1b5d0e7a21")

// Line styles the vertical rule of a marker.
type Line struct {
	Width   int     `json:"width"`
	Dash    string  `json:"dash"`
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
}

// Annotation is the label drawn above the plot area. Y is in paper
// coordinates; OffsetY is the arrow length in pixels.
type Annotation struct {
	Text       string  `json:"text"`
	Y          float64 `json:"y"`
	OffsetY    int     `json:"offset_y"`
	FontSize   int     `json:"font_size"`
	Color      string  `json:"color"`
	Background string  `json:"background"`
	Border     string  `json:"border"`
}

// Marker is one vertical line plus its label.
type Marker struct {
	ID         string     `json:"id"`
	Kind       string     `json:"kind"`
	Date       model.Date `json:"date"`
	Line       Line       `json:"line"`
	Annotation Annotation `json:"annotation"`
}

// VisibleRange is the date interval the chart should display.
type VisibleRange struct {
	Lower model.Date `json:"lower"`
	Upper model.Date `json:"upper"`
}

// Overlay is the result of Compute.
type Overlay struct {
	Range   VisibleRange `json:"range"`
	Markers []Marker     `json:"markers"`
}

// Options controls Compute.
type Options struct {
	IncludeToday bool
	// Now defaults to time.Now. Only its calendar date is used.
	Now func() time.Time
}

func (o Options) today() model.Date {
	now := time.Now
	if o.Now != nil {
		now = o.Now
	}
	return model.DateOf(now())
}

// Compute derives the visible range from the task spans, the milestones
// and optionally today, and builds one marker per milestone in input order,
// followed by a "Today" marker when requested.
func Compute(tasks []model.Task, milestones []model.Milestone, opts Options) (Overlay, error) {
	lower, upper, ok := schedule.Span(tasks)

	if len(milestones) > 0 {
		minMs, maxMs := milestones[0].Date, milestones[0].Date
		for _, m := range milestones[1:] {
			minMs = model.MinDate(minMs, m.Date)
			maxMs = model.MaxDate(maxMs, m.Date)
		}
		if ok {
			lower = model.MinDate(lower, minMs)
			upper = model.MaxDate(upper, maxMs)
		} else {
			lower, upper, ok = minMs, maxMs, true
		}
	}

	var today model.Date
	if opts.IncludeToday {
		today = opts.today()
		if ok {
			lower = model.MinDate(lower, today)
			upper = model.MaxDate(upper, today)
		} else {
			lower, upper, ok = today, today, true
		}
	}

	if !ok {
		return Overlay{}, ErrNoData
	}

	out := Overlay{
		Range:   VisibleRange{Lower: lower, Upper: upper},
		Markers: make([]Marker, 0, len(milestones)+1),
	}
	seen := make(map[string]int)
	for _, m := range milestones {
		key := m.Date.String() + "|" + m.LabelOrDefault()
		out.Markers = append(out.Markers, milestoneMarker(seen[key], m))
		seen[key]++
	}
	if opts.IncludeToday {
		out.Markers = append(out.Markers, todayMarker(today))
	}
	return out, nil
}

func milestoneMarker(occurrence int, m model.Milestone) Marker {
	color := m.ColorOrDefault()
	label := m.LabelOrDefault()
	return Marker{
		ID:         MarkerID(m.Date, label, occurrence),
		Kind:       KindMilestone,
		Date:       m.Date,
		Line:       Line{Width: 2, Dash: DashDashed, Color: color, Opacity: 0.7},
		Annotation: annotation(label, color),
	}
}

func todayMarker(today model.Date) Marker {
	return Marker{
		ID:         MarkerID(today, TodayLabel, 0),
		Kind:       KindToday,
		Date:       today,
		Line:       Line{Width: 2, Dash: DashDotted, Color: TodayColor, Opacity: 0.9},
		Annotation: annotation(TodayLabel, TodayColor),
	}
}

// every label sits at the same offset above the plot body
func annotation(text, color string) Annotation {
	return Annotation{
		Text:       text,
		Y:          1.02,
		OffsetY:    -22,
		FontSize:   12,
		Color:      color,
		Background: "rgba(255,255,255,0.75)",
		Border:     color,
	}
}

// MarkerID returns a stable identifier for a marker. occurrence tells apart
// milestones sharing both date and label.
func MarkerID(date model.Date, label string, occurrence int) string {
	name := fmt.Sprintf("%s|%s|%d", date, label, occurrence)
	return uuid.NewSHA1(markerNamespace, []byte(name)).String()
}

// Milestones returns only the milestone markers, excluding Today.
func (o Overlay) Milestones() []Marker {
	var out []Marker
	for _, m := range o.Markers {
		if m.Kind == KindMilestone {
			out = append(out, m)
		}
	}
	return out
}
