package schedule

import (
	"errors"
	"fmt"

	"github.com/harrisonrobin/gantta/pkg/model"
)

// ErrInvalidTask is returned by New when a task violates the schedule invariants.
var ErrInvalidTask = errors.New("invalid task")

// ErrInvalidMilestone is returned when a milestone has no date.
var ErrInvalidMilestone = errors.New("invalid milestone")

// Table is an ordered, validated list of tasks. It is never mutated after New.
type Table struct {
	tasks         []model.Task
	ranged        []model.Task
	instantaneous []model.Task
}

// New validates tasks and splits them into ranged (start != end) and
// instantaneous (start == end) subsets, preserving input order.
func New(tasks []model.Task) (*Table, error) {
	t := &Table{tasks: make([]model.Task, 0, len(tasks))}
	for i, task := range tasks {
		if err := Validate(task); err != nil {
			return nil, fmt.Errorf("task %d (%q): %w", i, task.Name, err)
		}
		t.tasks = append(t.tasks, task)
		if task.Instantaneous() {
			t.instantaneous = append(t.instantaneous, task)
		} else {
			t.ranged = append(t.ranged, task)
		}
	}
	return t, nil
}

// Validate checks a single task.
func Validate(task model.Task) error {
	if task.Start.IsZero() || task.End.IsZero() {
		return fmt.Errorf("%w: missing start or end date", ErrInvalidTask)
	}
	if task.End.Before(task.Start) {
		return fmt.Errorf("%w: end %s is before start %s", ErrInvalidTask, task.End, task.Start)
	}
	if task.Effort < 0 || task.Effort > 100 {
		return fmt.Errorf("%w: effort %.0f is outside 0..100", ErrInvalidTask, task.Effort)
	}
	return nil
}

// ValidateMilestone checks a single milestone. Label and color may be
// empty; the overlay fills in defaults.
func ValidateMilestone(m model.Milestone) error {
	if m.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidMilestone)
	}
	return nil
}

// ValidateMilestones checks every milestone and reports the first failure
// with its position.
func ValidateMilestones(milestones []model.Milestone) error {
	for i, m := range milestones {
		if err := ValidateMilestone(m); err != nil {
			return fmt.Errorf("milestone %d (%q): %w", i, m.Label, err)
		}
	}
	return nil
}

func (t *Table) Tasks() []model.Task         { return clone(t.tasks) }
func (t *Table) Ranged() []model.Task        { return clone(t.ranged) }
func (t *Table) Instantaneous() []model.Task { return clone(t.instantaneous) }
func (t *Table) Len() int                    { return len(t.tasks) }

// Span returns the earliest start and latest end. ok is false for an empty table.
func (t *Table) Span() (start, end model.Date, ok bool) {
	return Span(t.tasks)
}

// Span returns the earliest start and latest end over tasks.
func Span(tasks []model.Task) (start, end model.Date, ok bool) {
	if len(tasks) == 0 {
		return model.Date{}, model.Date{}, false
	}
	start, end = tasks[0].Start, tasks[0].End
	for _, task := range tasks[1:] {
		start = model.MinDate(start, task.Start)
		end = model.MaxDate(end, task.End)
	}
	return start, end, true
}

func clone(tasks []model.Task) []model.Task {
	if tasks == nil {
		return nil
	}
	return append([]model.Task(nil), tasks...)
}
