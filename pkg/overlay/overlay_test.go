package overlay

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/harrisonrobin/gantta/pkg/model"
)

func fixedNow(s string) func() time.Time {
	d := model.MustParseDate(s)
	return func() time.Time { return d.Add(15*time.Hour + 42*time.Minute) }
}

func task(name, start, end string) model.Task {
	return model.Task{Name: name, Start: model.MustParseDate(start), End: model.MustParseDate(end), Effort: 50}
}

func ms(date, label, color string) model.Milestone {
	return model.Milestone{Date: model.MustParseDate(date), Label: label, Color: color}
}

func TestComputeMilestonesInsideTaskSpan(t *testing.T) {
	tasks := []model.Task{
		task("Research", "2025-09-23", "2025-10-24"),
		task("Writing", "2025-10-20", "2026-04-27"),
	}
	milestones := []model.Milestone{
		ms("2025-09-23", "Kickoff", ""),
		ms("2026-04-27", "Final Submission", "crimson"),
	}

	got, err := Compute(tasks, milestones, Options{})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if got.Range.Lower.String() != "2025-09-23" || got.Range.Upper.String() != "2026-04-27" {
		t.Errorf("Expected range 2025-09-23..2026-04-27, got %s..%s", got.Range.Lower, got.Range.Upper)
	}
	if len(got.Markers) != 2 {
		t.Fatalf("Expected 2 markers, got %d", len(got.Markers))
	}
	if got.Markers[0].Annotation.Text != "Kickoff" || got.Markers[1].Annotation.Text != "Final Submission" {
		t.Errorf("Markers out of input order: %+v", got.Markers)
	}
	if got.Markers[0].Line.Color != "black" {
		t.Errorf("Expected default color black, got %s", got.Markers[0].Line.Color)
	}
	if got.Markers[1].Line.Color != "crimson" || got.Markers[1].Annotation.Border != "crimson" {
		t.Errorf("Expected crimson marker, got %+v", got.Markers[1])
	}
	for _, m := range got.Markers {
		if m.Line.Dash != DashDashed || m.Line.Width != 2 {
			t.Errorf("Expected dashed width-2 line, got %+v", m.Line)
		}
		if m.Annotation.Y != 1.02 || m.Annotation.OffsetY != -22 {
			t.Errorf("Expected label above plot area, got %+v", m.Annotation)
		}
	}
}

func TestComputeMilestoneWidensRange(t *testing.T) {
	tasks := []model.Task{task("Meeting", "2025-10-02", "2025-10-02")}
	got, err := Compute(tasks, []model.Milestone{ms("2025-10-05", "Kickoff", "black")}, Options{})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if got.Range.Lower.String() != "2025-10-02" || got.Range.Upper.String() != "2025-10-05" {
		t.Errorf("Expected range 2025-10-02..2025-10-05, got %s..%s", got.Range.Lower, got.Range.Upper)
	}
}

func TestComputeSingleMilestonePullsBothBounds(t *testing.T) {
	tasks := []model.Task{task("Meeting", "2025-10-02", "2025-10-02")}
	got, err := Compute(tasks, []model.Milestone{ms("2025-09-01", "", "")}, Options{})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if got.Range.Lower.String() != "2025-09-01" || got.Range.Upper.String() != "2025-10-02" {
		t.Errorf("Unexpected range %s..%s", got.Range.Lower, got.Range.Upper)
	}
	if got.Markers[0].Annotation.Text != "Milestone" {
		t.Errorf("Expected default label, got %q", got.Markers[0].Annotation.Text)
	}
}

func TestComputeWithoutMilestonesEqualsTaskSpan(t *testing.T) {
	tasks := []model.Task{
		task("A", "2025-10-10", "2025-10-20"),
		task("B", "2025-09-23", "2025-10-01"),
	}
	got, err := Compute(tasks, nil, Options{})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if got.Range.Lower.String() != "2025-09-23" || got.Range.Upper.String() != "2025-10-20" {
		t.Errorf("Expected exact task span, got %s..%s", got.Range.Lower, got.Range.Upper)
	}
	if len(got.Markers) != 0 {
		t.Errorf("Expected no markers, got %d", len(got.Markers))
	}
}

func TestComputeIncludeToday(t *testing.T) {
	tasks := []model.Task{task("A", "2025-10-10", "2025-10-20")}
	got, err := Compute(tasks, []model.Milestone{ms("2025-10-15", "Midpoint", "purple")}, Options{
		IncludeToday: true,
		Now:          fixedNow("2025-11-03"),
	})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if got.Range.Upper.String() != "2025-11-03" || got.Range.Lower.String() != "2025-10-10" {
		t.Errorf("Expected range widened to today, got %s..%s", got.Range.Lower, got.Range.Upper)
	}
	if len(got.Markers) != 2 {
		t.Fatalf("Expected milestone plus today marker, got %d", len(got.Markers))
	}
	today := got.Markers[1]
	if today.Kind != KindToday || today.Annotation.Text != "Today" {
		t.Errorf("Expected trailing Today marker, got %+v", today)
	}
	if today.Line.Dash != DashDotted || today.Line.Color != TodayColor {
		t.Errorf("Expected dotted royalblue line, got %+v", today.Line)
	}
	if !today.Date.Equal(model.MustParseDate("2025-11-03")) {
		t.Errorf("Expected today at midnight, got %v", today.Date.Time)
	}
	if len(got.Milestones()) != 1 {
		t.Errorf("Expected Milestones() to exclude Today, got %d", len(got.Milestones()))
	}
}

func TestComputeEmptyInputWithToday(t *testing.T) {
	got, err := Compute(nil, nil, Options{IncludeToday: true, Now: fixedNow("2026-10-19")})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	want := model.MustParseDate("2026-10-19")
	if !got.Range.Lower.Equal(want) || !got.Range.Upper.Equal(want) {
		t.Errorf("Expected (today, today), got %s..%s", got.Range.Lower, got.Range.Upper)
	}
	if len(got.Milestones()) != 0 || len(got.Markers) != 1 {
		t.Errorf("Expected only the Today marker, got %+v", got.Markers)
	}
}

func TestComputeNoData(t *testing.T) {
	if _, err := Compute(nil, nil, Options{}); !errors.Is(err, ErrNoData) {
		t.Errorf("Expected ErrNoData, got %v", err)
	}
}

func TestComputeMilestonesOnly(t *testing.T) {
	got, err := Compute(nil, []model.Milestone{ms("2025-10-24", "Deadline", ""), ms("2025-10-05", "Kickoff", "")}, Options{})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if got.Range.Lower.String() != "2025-10-05" || got.Range.Upper.String() != "2025-10-24" {
		t.Errorf("Unexpected range %s..%s", got.Range.Lower, got.Range.Upper)
	}
}

func TestComputeKeepsDuplicateDates(t *testing.T) {
	tasks := []model.Task{task("A", "2025-10-01", "2025-10-31")}
	milestones := []model.Milestone{
		ms("2025-10-15", "Review", "purple"),
		ms("2025-10-15", "Review", "purple"),
		ms("2025-10-15", "Demo", "green"),
	}
	got, err := Compute(tasks, milestones, Options{})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if len(got.Markers) != 3 {
		t.Fatalf("Expected 3 markers, got %d", len(got.Markers))
	}
	ids := map[string]bool{}
	for _, m := range got.Markers {
		ids[m.ID] = true
	}
	if len(ids) != 3 {
		t.Errorf("Expected distinct marker IDs, got %v", ids)
	}
}

func TestComputeIsIdempotent(t *testing.T) {
	tasks := []model.Task{task("A", "2025-10-01", "2025-10-31"), task("B", "2025-10-03", "2025-10-03")}
	milestones := []model.Milestone{ms("2025-11-15", "Launch", "red"), ms("2025-09-15", "Plan", "")}
	opts := Options{IncludeToday: true, Now: fixedNow("2025-10-10")}

	first, err := Compute(tasks, milestones, opts)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	second, err := Compute(tasks, milestones, opts)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical results, got %+v and %+v", first, second)
	}
	if first.Range.Upper.Before(first.Range.Lower) {
		t.Errorf("Lower bound after upper bound: %+v", first.Range)
	}
	for _, m := range first.Markers {
		if m.Date.Before(first.Range.Lower) || m.Date.After(first.Range.Upper) {
			t.Errorf("Marker %s at %s outside visible range", m.Annotation.Text, m.Date)
		}
	}
}

func TestMarkerIDIsStable(t *testing.T) {
	d := model.MustParseDate("2025-10-05")
	if MarkerID(d, "Kickoff", 0) != MarkerID(d, "Kickoff", 0) {
		t.Error("Expected stable marker ID")
	}
	if MarkerID(d, "Kickoff", 0) == MarkerID(d, "Kickoff", 1) {
		t.Error("Expected occurrence to change the ID")
	}
}
