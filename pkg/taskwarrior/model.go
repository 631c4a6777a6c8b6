package taskwarrior

import (
	"fmt"
	"strings"
	"time"

	"github.com/harrisonrobin/gantta/pkg/model"
)

const (
	PENDING   = "pending"
	COMPLETED = "completed"
	WAITING   = "waiting"
	DELETED   = "deleted"
)

type CustomTime struct {
	time.Time
}

const taskwarriorTimeLayout = "20060102T150405Z" // YYYYMMDDTHHMMSSZ, 'Z' indicates UTC

// UnmarshalJSON implements the json.Unmarshaler interface for CustomTime.
func (ct *CustomTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "0" {
		ct.Time = time.Time{}
		return nil
	}

	t, err := time.Parse(taskwarriorTimeLayout, s)
	if err != nil {
		return fmt.Errorf("failed to parse Taskwarrior time string '%s': %w", s, err)
	}
	ct.Time = t
	return nil
}

// MarshalJSON implements the json.Marshaler interface for CustomTime.
func (ct CustomTime) MarshalJSON() ([]byte, error) {
	if ct.Time.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + ct.Time.Format(taskwarriorTimeLayout) + `"`), nil
}

func (ct *CustomTime) set() bool {
	return ct != nil && !ct.IsZero()
}

// Task is one record of `task export`. Effort is read from a numeric
// `effort` UDA (uda.effort.type=numeric).
type Task struct {
	UUID        string      `json:"uuid"`
	Description string      `json:"description"`
	Status      string      `json:"status"`
	Project     string      `json:"project,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
	Entry       *CustomTime `json:"entry,omitempty"`
	Scheduled   *CustomTime `json:"scheduled,omitempty"`
	Start       *CustomTime `json:"start,omitempty"`
	Due         *CustomTime `json:"due,omitempty"`
	End         *CustomTime `json:"end,omitempty"`
	Effort      *float64    `json:"effort,omitempty"`
}

// ToScheduleTask maps the Taskwarrior dates onto a schedule task: start is
// scheduled, then start; end is due, then end. A task with a single date is
// a single-day task. ok is false when the task carries no usable date.
// Dates are taken in loc.
func (t *Task) ToScheduleTask(loc *time.Location) (model.Task, bool) {
	var start, end *CustomTime
	switch {
	case t.Scheduled.set():
		start = t.Scheduled
	case t.Start.set():
		start = t.Start
	}
	switch {
	case t.Due.set():
		end = t.Due
	case t.End.set():
		end = t.End
	}
	if start == nil && end == nil {
		return model.Task{}, false
	}
	if start == nil {
		start = end
	}
	if end == nil {
		end = start
	}

	task := model.Task{
		Name:   t.Description,
		Start:  model.DateOf(start.In(loc)),
		End:    model.DateOf(end.In(loc)),
		Tags:   t.Tags,
		Source: "taskwarrior",
	}
	// a due date before the scheduled date collapses to one day
	if task.End.Before(task.Start) {
		task.End = task.Start
	}
	if t.Effort != nil {
		task.Effort = *t.Effort
	}
	if t.Project != "" {
		task.Tags = append([]string{"project:" + t.Project}, task.Tags...)
	}
	return task, true
}
