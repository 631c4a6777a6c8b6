package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/harrisonrobin/gantta/pkg/model"
	"github.com/harrisonrobin/gantta/pkg/overlay"
	"github.com/harrisonrobin/gantta/pkg/schedule"
)

func TestWriteTasks(t *testing.T) {
	table, err := schedule.New([]model.Task{
		{Name: "Supervisor Meeting", Start: model.MustParseDate("2025-10-02"), End: model.MustParseDate("2025-10-02"), Effort: 40},
		{Name: "Research: Reading Vicky notes", Start: model.MustParseDate("2025-09-23"), End: model.MustParseDate("2025-10-24"), Effort: 80},
	})
	if err != nil {
		t.Fatalf("schedule.New failed: %v", err)
	}

	var buf bytes.Buffer
	WriteTasks(&buf, table)
	out := buf.String()
	for _, want := range []string{"Supervisor Meeting", "2025-09-23", "31 days", "0 days", "80%", "single-day"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected table to contain %q, got:\n%s", want, out)
		}
	}
}

func TestWriteMarkers(t *testing.T) {
	ov, err := overlay.Compute(nil, []model.Milestone{{Date: model.MustParseDate("2025-10-05"), Label: "Kickoff"}}, overlay.Options{})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	var buf bytes.Buffer
	WriteMarkers(&buf, ov)
	out := buf.String()
	if !strings.Contains(out, "Kickoff") || !strings.Contains(out, "black") {
		t.Errorf("Unexpected marker table:\n%s", out)
	}
}
