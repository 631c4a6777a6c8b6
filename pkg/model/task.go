package model

// Task represents a schedule entry from any source.
type Task struct {
	Name   string   `json:"name" yaml:"name"`
	Start  Date     `json:"start" yaml:"start"`
	End    Date     `json:"end" yaml:"end"`
	Effort float64  `json:"effort" yaml:"effort"` // percentage, 0..100
	Tags   []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Source string   `json:"source,omitempty" yaml:"source,omitempty"` // "file", "orgmode" or "taskwarrior"
}

// Instantaneous reports whether the task starts and ends on the same day.
func (t Task) Instantaneous() bool {
	return t.Start.Equal(t.End)
}

// Duration returns the number of whole days between start and end.
func (t Task) Duration() int {
	return t.Start.DaysUntil(t.End)
}

const (
	DefaultMilestoneLabel = "Milestone"
	DefaultMilestoneColor = "black"
)

// Milestone is a labeled point-in-time marker overlaid on the timeline.
// Label and Color are optional.
type Milestone struct {
	Date  Date   `json:"date" yaml:"date"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
}

// LabelOrDefault returns the label, or "Milestone" when unset.
func (m Milestone) LabelOrDefault() string {
	if m.Label == "" {
		return DefaultMilestoneLabel
	}
	return m.Label
}

// ColorOrDefault returns the color, or "black" when unset.
func (m Milestone) ColorOrDefault() string {
	if m.Color == "" {
		return DefaultMilestoneColor
	}
	return m.Color
}

// HasTag reports whether the task carries tag.
func (t Task) HasTag(tag string) bool {
	for _, tg := range t.Tags {
		if tg == tag {
			return true
		}
	}
	return false
}
