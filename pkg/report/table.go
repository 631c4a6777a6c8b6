package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/harrisonrobin/gantta/pkg/overlay"
	"github.com/harrisonrobin/gantta/pkg/schedule"
)

// WriteTasks prints the schedule, one row per task in input order.
func WriteTasks(w io.Writer, t *schedule.Table) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"#", "Task", "Start", "End", "Duration", "Effort", "Kind"})
	for i, task := range t.Tasks() {
		kind := "ranged"
		if task.Instantaneous() {
			kind = "single-day"
		}
		tw.AppendRow(table.Row{i, task.Name, task.Start, task.End, days(task.Duration()), fmt.Sprintf("%.0f%%", task.Effort), kind})
	}
	if start, end, ok := t.Span(); ok {
		tw.AppendFooter(table.Row{"", "Span", start, end, days(start.DaysUntil(end)), "", ""})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	tw.Render()
}

// WriteMarkers prints the visible range and the overlay markers.
func WriteMarkers(w io.Writer, ov overlay.Overlay) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.SetTitle(fmt.Sprintf("Visible range %s .. %s", ov.Range.Lower, ov.Range.Upper))
	tw.AppendHeader(table.Row{"Date", "Label", "Color", "Line"})
	for _, m := range ov.Markers {
		tw.AppendRow(table.Row{m.Date, m.Annotation.Text, m.Line.Color, m.Line.Dash})
	}
	tw.Render()
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

