package chart

import (
	"errors"
	"testing"
	"time"

	"github.com/harrisonrobin/gantta/pkg/model"
	"github.com/harrisonrobin/gantta/pkg/overlay"
	"github.com/harrisonrobin/gantta/pkg/schedule"
)

func sample() ([]model.Task, []model.Milestone) {
	tasks := []model.Task{
		{Name: "Initial Supervisor Meeting", Start: model.MustParseDate("2025-10-02"), End: model.MustParseDate("2025-10-02"), Effort: 40},
		{Name: "Research: Reading Vicky Notes", Start: model.MustParseDate("2025-09-23"), End: model.MustParseDate("2025-10-24"), Effort: 80},
		{Name: "Planning Lecture", Start: model.MustParseDate("2025-10-17"), End: model.MustParseDate("2025-10-17"), Effort: 20},
	}
	milestones := []model.Milestone{
		{Date: model.MustParseDate("2025-10-05"), Label: "Kickoff", Color: "black"},
		{Date: model.MustParseDate("2025-10-15"), Label: "Midpoint", Color: "purple"},
		{Date: model.MustParseDate("2025-10-24"), Label: "Deadline", Color: "crimson"},
	}
	return tasks, milestones
}

func TestBuild(t *testing.T) {
	tasks, milestones := sample()
	now := func() time.Time { return time.Date(2025, time.November, 2, 9, 0, 0, 0, time.Local) }

	c, err := Build(tasks, milestones, Options{Options: overlay.Options{IncludeToday: true, Now: now}})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if c.Title != DefaultTitle {
		t.Errorf("Expected default title, got %q", c.Title)
	}
	if len(c.Ranged) != 1 || len(c.Instantaneous) != 2 {
		t.Errorf("Expected 1 ranged and 2 instantaneous tasks, got %d and %d", len(c.Ranged), len(c.Instantaneous))
	}
	if len(c.Markers) != 4 {
		t.Errorf("Expected 3 milestones plus today, got %d markers", len(c.Markers))
	}
	if c.Range.Lower.String() != "2025-09-23" || c.Range.Upper.String() != "2025-11-02" {
		t.Errorf("Unexpected range %s..%s", c.Range.Lower, c.Range.Upper)
	}
	rows := c.Rows()
	if len(rows) != 3 || rows[0] != "Research: Reading Vicky Notes" {
		t.Errorf("Unexpected rows %v", rows)
	}
}

func TestBuildPropagatesErrors(t *testing.T) {
	bad := []model.Task{{Name: "x", Start: model.MustParseDate("2025-10-05"), End: model.MustParseDate("2025-10-01")}}
	if _, err := Build(bad, nil, Options{}); !errors.Is(err, schedule.ErrInvalidTask) {
		t.Errorf("Expected ErrInvalidTask, got %v", err)
	}
	if _, err := Build(nil, nil, Options{}); !errors.Is(err, overlay.ErrNoData) {
		t.Errorf("Expected ErrNoData, got %v", err)
	}
}

func TestBuildRejectsUndatedMilestone(t *testing.T) {
	tasks, milestones := sample()
	milestones = append(milestones, model.Milestone{Label: "Kickoff"})

	c, err := Build(tasks, milestones, Options{})
	if !errors.Is(err, schedule.ErrInvalidMilestone) {
		t.Fatalf("Expected ErrInvalidMilestone, got %v", err)
	}
	if c != nil {
		t.Errorf("Expected no chart, got range %s..%s", c.Range.Lower, c.Range.Upper)
	}
}

func TestEffortScale(t *testing.T) {
	s := EffortScale()
	cases := map[float64]string{
		0:   "#008000",
		100: "#ff0000",
		50:  "#ffd700",
		150: "#ff0000",
		-5:  "#008000",
	}
	for v, want := range cases {
		got, err := s.Hex(v)
		if err != nil {
			t.Fatalf("Hex(%v) failed: %v", v, err)
		}
		if got != want {
			t.Errorf("Hex(%v) = %s, want %s", v, got, want)
		}
	}
}

func TestParseColor(t *testing.T) {
	if _, err := ParseColor("royalblue"); err != nil {
		t.Errorf("Expected named colour to parse: %v", err)
	}
	if _, err := ParseColor("#336699"); err != nil {
		t.Errorf("Expected hex colour to parse: %v", err)
	}
	if _, err := ParseColor("not-a-colour"); err == nil {
		t.Error("Expected error for unknown colour")
	}
}
