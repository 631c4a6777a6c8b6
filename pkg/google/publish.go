package google

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/calendar/v3"

	"github.com/harrisonrobin/gantta/pkg/model"
	"github.com/harrisonrobin/gantta/pkg/overdue"
	"github.com/harrisonrobin/gantta/pkg/overlay"
	"github.com/harrisonrobin/gantta/pkg/util"
)

// PublishOptions configures Publish.
type PublishOptions struct {
	Title string
	Today model.Date
	// Prune deletes previously published events whose milestone is gone.
	Prune bool
}

// PublishResult counts what Publish did.
type PublishResult struct {
	Synced int
	Swept  int
	Pruned int
	Failed int
}

// Publish marks milestones that passed since the last run, then syncs
// every milestone marker as an all-day event. The Today marker is never
// published. Per-marker failures are collected and returned together.
func Publish(ctx context.Context, c *CalendarClient, markers []overlay.Marker, table *overdue.Table, opts PublishOptions) (PublishResult, error) {
	var res PublishResult
	var errs []error

	if table != nil {
		for _, e := range table.Sweep(c.CalendarID(), opts.Today) {
			patch := &calendar.Event{Summary: fmt.Sprintf("%s %s", util.PassedPrefix, e.Summary)}
			if _, err := c.PatchEvent(ctx, e.GCalID, patch); err != nil && !isGone(err) {
				log.Warn().Err(err).Str("event", e.GCalID).Msg("sweep: could not mark milestone as passed")
				continue
			}
			res.Swept++
		}
	}

	keep := make(map[string]bool)
	for _, m := range markers {
		if m.Kind != overlay.KindMilestone {
			continue
		}
		keep[m.ID] = true
		event, err := c.SyncMarker(ctx, m, opts.Title, opts.Today)
		if err != nil {
			res.Failed++
			errs = append(errs, fmt.Errorf("milestone %q on %s: %w", m.Annotation.Text, m.Date, err))
			continue
		}
		res.Synced++
		if table != nil {
			table.Update(m.ID, overdue.Entry{
				CalendarID: c.CalendarID(),
				GCalID:     event.Id,
				Summary:    m.Annotation.Text,
				Date:       m.Date,
			}, opts.Today)
		}
	}

	if opts.Prune {
		n, err := c.PruneMarkers(ctx, keep)
		res.Pruned = n
		if err != nil {
			errs = append(errs, err)
		}
		if table != nil {
			for id, e := range table.Entries {
				if e.CalendarID == c.CalendarID() && !keep[id] {
					table.Remove(id)
				}
			}
		}
	}

	return res, errors.Join(errs...)
}
