package util

import (
	"fmt"
	"regexp"
	"strings"

	"google.golang.org/api/calendar/v3"

	"github.com/harrisonrobin/gantta/pkg/colors"
	"github.com/harrisonrobin/gantta/pkg/model"
	"github.com/harrisonrobin/gantta/pkg/overlay"
)

// MarkerIDProperty is the private extended property that links a calendar
// event to its milestone marker.
const MarkerIDProperty = "gantta_marker_id"

// PassedPrefix marks milestones whose date is before today.
const PassedPrefix = "✓"

// Summary returns the event title for a marker as seen on the given day.
func Summary(m overlay.Marker, today model.Date) string {
	if m.Date.Before(today) {
		return fmt.Sprintf("%s %s", PassedPrefix, m.Annotation.Text)
	}
	return m.Annotation.Text
}

// ConvertMarkerToEvent builds an all-day calendar event for a milestone marker.
func ConvertMarkerToEvent(m *overlay.Marker, scheduleTitle string, today model.Date) (*calendar.Event, error) {
	if m == nil {
		return nil, fmt.Errorf("could not convert nil Marker")
	}
	if m.Kind != overlay.KindMilestone {
		return nil, fmt.Errorf("marker %s is not a milestone", m.ID)
	}

	var descBuilder strings.Builder
	if scheduleTitle != "" {
		descBuilder.WriteString(fmt.Sprintf("Schedule: %s\n", scheduleTitle))
	}
	descBuilder.WriteString(fmt.Sprintf("Milestone: %s\n", m.Annotation.Text))
	descBuilder.WriteString(fmt.Sprintf("Color: %s\n", m.Line.Color))
	descBuilder.WriteString(fmt.Sprintf("ID: %s\n", m.ID))

	event := &calendar.Event{
		Summary:     Summary(*m, today),
		ColorId:     colors.CalendarColorID(m.Line.Color),
		Description: descBuilder.String(),
		Start:       &calendar.EventDateTime{Date: m.Date.String()},
		// all-day end dates are exclusive
		End:          &calendar.EventDateTime{Date: m.Date.AddDays(1).String()},
		Transparency: "transparent",
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{
				MarkerIDProperty: m.ID,
			},
		},
	}
	return event, nil
}

// EventNeedsUpdate returns a patch event if the fields shared between the
// existing calendar event and the target event differ, or nil when they match.
func EventNeedsUpdate(existingEvent *calendar.Event, targetEvent *calendar.Event) *calendar.Event {
	patch := &calendar.Event{}
	needsUpdate := false

	if existingEvent.Summary != targetEvent.Summary {
		patch.Summary = targetEvent.Summary
		needsUpdate = true
	}
	if existingEvent.Description != targetEvent.Description {
		patch.Description = targetEvent.Description
		needsUpdate = true
	}
	if existingEvent.ColorId != targetEvent.ColorId {
		patch.ColorId = targetEvent.ColorId
		needsUpdate = true
	}
	if eventDate(existingEvent.Start) != eventDate(targetEvent.Start) || eventDate(existingEvent.End) != eventDate(targetEvent.End) {
		patch.Start = targetEvent.Start
		patch.End = targetEvent.End
		needsUpdate = true
	}

	if needsUpdate {
		return patch
	}
	return nil
}

func eventDate(dt *calendar.EventDateTime) string {
	if dt == nil {
		return ""
	}
	if dt.Date != "" {
		return dt.Date
	}
	// timed events compare by their calendar day
	if len(dt.DateTime) >= len(model.DateLayout) {
		return dt.DateTime[:len(model.DateLayout)]
	}
	return dt.DateTime
}

var markerIDPattern = regexp.MustCompile(`ID: ([a-f0-9\-]+)`)

// MarkerIDOf returns the marker an event belongs to. The private extended
// property wins; events whose properties were stripped (copied or
// imported by another client) still carry the ID in their description.
func MarkerIDOf(event *calendar.Event) (string, bool) {
	if event == nil {
		return "", false
	}
	if event.ExtendedProperties != nil {
		if id := event.ExtendedProperties.Private[MarkerIDProperty]; id != "" {
			return id, true
		}
	}
	return GetMarkerIDFromEventDescription(event.Description)
}

// GetMarkerIDFromEventDescription parses the marker ID from an event description.
func GetMarkerIDFromEventDescription(description string) (string, bool) {
	matches := markerIDPattern.FindStringSubmatch(description)
	if len(matches) > 1 {
		return matches[1], true
	}
	return "", false
}
