package chart

import (
	"io"

	"github.com/harrisonrobin/gantta/pkg/model"
	"github.com/harrisonrobin/gantta/pkg/overlay"
	"github.com/harrisonrobin/gantta/pkg/schedule"
)

const DefaultTitle = "Project Timeline (Color = Effort %)"

// Margins around the plot area, in pixels.
type Margins struct {
	Left, Right, Top, Bottom int
}

// Chart is an immutable description of one Gantt chart. Renderers turn it
// into an HTML document or an image.
type Chart struct {
	Title         string
	Ranged        []model.Task
	Instantaneous []model.Task
	Range         overlay.VisibleRange
	Markers       []overlay.Marker
	Scale         ColorScale
	Margins       Margins
	ColorBarTicks []float64
}

// Options configures Build.
type Options struct {
	Title string
	overlay.Options
}

// Renderer draws a chart. Implementations live in pkg/render.
type Renderer interface {
	Render(w io.Writer, c *Chart) error
}

// Build validates tasks and milestones, partitions the tasks and computes the milestone overlay.
func Build(tasks []model.Task, milestones []model.Milestone, opts Options) (*Chart, error) {
	table, err := schedule.New(tasks)
	if err != nil {
		return nil, err
	}
	if err := schedule.ValidateMilestones(milestones); err != nil {
		return nil, err
	}
	ov, err := overlay.Compute(table.Tasks(), milestones, opts.Options)
	if err != nil {
		return nil, err
	}
	title := opts.Title
	if title == "" {
		title = DefaultTitle
	}
	return &Chart{
		Title:         title,
		Ranged:        table.Ranged(),
		Instantaneous: table.Instantaneous(),
		Range:         ov.Range,
		Markers:       ov.Markers,
		Scale:         EffortScale(),
		Margins:       Margins{Left: 110, Right: 70, Top: 80, Bottom: 40},
		ColorBarTicks: []float64{0, 25, 50, 75, 100},
	}, nil
}

// Rows returns task names in display order: ranged tasks first, then
// instantaneous ones, without repeats.
func (c *Chart) Rows() []string {
	var rows []string
	seen := make(map[string]bool)
	for _, group := range [][]model.Task{c.Ranged, c.Instantaneous} {
		for _, t := range group {
			if !seen[t.Name] {
				seen[t.Name] = true
				rows = append(rows, t.Name)
			}
		}
	}
	return rows
}
