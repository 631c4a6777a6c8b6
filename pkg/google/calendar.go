package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"

	"github.com/harrisonrobin/gantta/pkg/index"
	"github.com/harrisonrobin/gantta/pkg/model"
	"github.com/harrisonrobin/gantta/pkg/overlay"
	"github.com/harrisonrobin/gantta/pkg/util"
)

// CalendarClient is a Google Calendar API client scoped to one calendar.
type CalendarClient struct {
	srv        *calendar.Service
	calendarID string
	index      *index.EventIndex
}

// NewCalendarClient creates a new Google Calendar client.
func NewCalendarClient(srv *calendar.Service, calendarID string, idx *index.EventIndex) *CalendarClient {
	return &CalendarClient{srv: srv, calendarID: calendarID, index: idx}
}

func (c *CalendarClient) CalendarID() string { return c.calendarID }

// SyncMarker creates the event for a milestone marker or patches the
// existing one when its summary, description, colour or date changed.
func (c *CalendarClient) SyncMarker(ctx context.Context, m overlay.Marker, scheduleTitle string, today model.Date) (*calendar.Event, error) {
	event, err := util.ConvertMarkerToEvent(&m, scheduleTitle, today)
	if err != nil {
		return nil, err
	}

	var existingEvent *calendar.Event
	if c.index != nil {
		if eventID := c.index.Get(c.calendarID, m.ID); eventID != "" {
			existingEvent, err = c.srv.Events.Get(c.calendarID, eventID).Context(ctx).Do()
			if err != nil || existingEvent.Status == "cancelled" {
				existingEvent = nil
			} else if id, ok := util.MarkerIDOf(existingEvent); !ok || id != m.ID {
				log.Debug().Str("marker", m.ID).Str("event", eventID).Msg("index entry points at another event")
				c.index.Remove(c.calendarID, m.ID)
				existingEvent = nil
			}
		}
	}
	if existingEvent == nil {
		existingEvent, err = c.GetEventByMarkerID(ctx, m.ID)
		if err != nil {
			return nil, fmt.Errorf("error searching for event: %w", err)
		}
	}

	if existingEvent != nil {
		patch := util.EventNeedsUpdate(existingEvent, event)
		if patch == nil {
			c.remember(m.ID, existingEvent.Id)
			return existingEvent, nil
		}
		updatedEvent, err := c.PatchEvent(ctx, existingEvent.Id, patch)
		if err != nil {
			return nil, err
		}
		c.remember(m.ID, updatedEvent.Id)
		return updatedEvent, nil
	}

	createdEvent, err := c.srv.Events.Insert(c.calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	log.Debug().Str("marker", m.ID).Str("event", createdEvent.Id).Msg("created milestone event")
	c.remember(m.ID, createdEvent.Id)
	return createdEvent, nil
}

func (c *CalendarClient) remember(markerID, eventID string) {
	if c.index != nil {
		c.index.Set(c.calendarID, markerID, eventID)
	}
}

// PatchEvent performs a partial update on an event.
func (c *CalendarClient) PatchEvent(ctx context.Context, eventID string, patch *calendar.Event) (*calendar.Event, error) {
	return c.srv.Events.Patch(c.calendarID, eventID, patch).Context(ctx).Do()
}

// DeleteEvent deletes an event from the calendar.
func (c *CalendarClient) DeleteEvent(ctx context.Context, eventID string) error {
	return c.srv.Events.Delete(c.calendarID, eventID).Context(ctx).Do()
}

// PruneMarkers deletes indexed events whose marker is not in keep.
// It returns the number of events deleted.
func (c *CalendarClient) PruneMarkers(ctx context.Context, keep map[string]bool) (int, error) {
	if c.index == nil {
		return 0, nil
	}
	deleted := 0
	for markerID, eventID := range c.index.Markers(c.calendarID) {
		if keep[markerID] {
			continue
		}
		if err := c.DeleteEvent(ctx, eventID); err != nil && !isGone(err) {
			return deleted, fmt.Errorf("could not delete event %s: %w", eventID, err)
		}
		c.index.Remove(c.calendarID, markerID)
		deleted++
	}
	return deleted, nil
}

// isGone reports whether the API says the event no longer exists.
func isGone(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone
	}
	return false
}

// GetEventByMarkerID searches for the event carrying the marker ID.
func (c *CalendarClient) GetEventByMarkerID(ctx context.Context, markerID string) (*calendar.Event, error) {
	events, err := c.srv.Events.List(c.calendarID).
		PrivateExtendedProperty(fmt.Sprintf("%s=%s", util.MarkerIDProperty, markerID)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	if len(events.Items) > 0 {
		return events.Items[0], nil
	}
	return nil, nil
}
