package util

import (
	"strings"
	"testing"

	"google.golang.org/api/calendar/v3"

	"github.com/harrisonrobin/gantta/pkg/model"
	"github.com/harrisonrobin/gantta/pkg/overlay"
)

func kickoff(t *testing.T) overlay.Marker {
	t.Helper()
	ov, err := overlay.Compute(nil, []model.Milestone{{Date: model.MustParseDate("2025-10-05"), Label: "Kickoff", Color: "crimson"}}, overlay.Options{})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	return ov.Markers[0]
}

func TestConvertMarkerToEvent(t *testing.T) {
	m := kickoff(t)
	event, err := ConvertMarkerToEvent(&m, "Thesis", model.MustParseDate("2025-10-01"))
	if err != nil {
		t.Fatalf("ConvertMarkerToEvent failed: %v", err)
	}

	if event.ExtendedProperties == nil || event.ExtendedProperties.Private == nil {
		t.Fatal("ExtendedProperties or Private map is nil")
	}
	if val, ok := event.ExtendedProperties.Private[MarkerIDProperty]; !ok || val != m.ID {
		t.Errorf("Expected %s %s, got %v", MarkerIDProperty, m.ID, val)
	}
	if event.Summary != "Kickoff" {
		t.Errorf("Expected summary Kickoff, got %q", event.Summary)
	}
	if event.Start.Date != "2025-10-05" || event.End.Date != "2025-10-06" {
		t.Errorf("Expected all-day event on 2025-10-05, got %s..%s", event.Start.Date, event.End.Date)
	}
	if event.ColorId != "11" {
		t.Errorf("Expected Tomato for crimson, got %s", event.ColorId)
	}
	if !strings.Contains(event.Description, "Schedule: Thesis") {
		t.Errorf("Expected description to name the schedule, got: %s", event.Description)
	}
	id, ok := GetMarkerIDFromEventDescription(event.Description)
	if !ok || id != m.ID {
		t.Errorf("Expected marker ID %s in description, got %q", m.ID, id)
	}
}

func TestConvertPassedMarker(t *testing.T) {
	m := kickoff(t)
	event, err := ConvertMarkerToEvent(&m, "", model.MustParseDate("2025-10-06"))
	if err != nil {
		t.Fatalf("ConvertMarkerToEvent failed: %v", err)
	}
	if event.Summary != "✓ Kickoff" {
		t.Errorf("Expected passed prefix, got %q", event.Summary)
	}
}

func TestConvertRejectsTodayMarker(t *testing.T) {
	ov, err := overlay.Compute(nil, nil, overlay.Options{IncludeToday: true})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if _, err := ConvertMarkerToEvent(&ov.Markers[0], "", model.MustParseDate("2025-10-06")); err == nil {
		t.Error("Expected error for the Today marker")
	}
}

func TestEventNeedsUpdate(t *testing.T) {
	m := kickoff(t)
	today := model.MustParseDate("2025-10-01")
	target, err := ConvertMarkerToEvent(&m, "", today)
	if err != nil {
		t.Fatal(err)
	}
	same := *target
	if patch := EventNeedsUpdate(&same, target); patch != nil {
		t.Errorf("Expected no patch for identical events, got %+v", patch)
	}

	moved := *target
	moved.Start = &calendar.EventDateTime{Date: "2025-10-04"}
	moved.Summary = "Old name"
	patch := EventNeedsUpdate(&moved, target)
	if patch == nil {
		t.Fatal("Expected a patch")
	}
	if patch.Summary != "Kickoff" || patch.Start.Date != "2025-10-05" {
		t.Errorf("Unexpected patch %+v", patch)
	}
	if patch.ColorId != "" {
		t.Errorf("Expected unchanged colour to stay out of the patch, got %q", patch.ColorId)
	}
}

func TestMarkerIDOf(t *testing.T) {
	m := kickoff(t)
	event, err := ConvertMarkerToEvent(&m, "Thesis", model.MustParseDate("2025-10-01"))
	if err != nil {
		t.Fatalf("ConvertMarkerToEvent failed: %v", err)
	}

	cases := []struct {
		name  string
		event *calendar.Event
		want  string
		ok    bool
	}{
		{"extended property", event, m.ID, true},
		{"description only", &calendar.Event{Description: event.Description}, m.ID, true},
		{"property wins", &calendar.Event{
			Description:        "ID: 00000000-0000-0000-0000-000000000000",
			ExtendedProperties: event.ExtendedProperties,
		}, m.ID, true},
		{"foreign event", &calendar.Event{Summary: "Dentist"}, "", false},
		{"nil event", nil, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := MarkerIDOf(tc.event)
			if got != tc.want || ok != tc.ok {
				t.Errorf("Expected (%q, %v), got (%q, %v)", tc.want, tc.ok, got, ok)
			}
		})
	}
}
