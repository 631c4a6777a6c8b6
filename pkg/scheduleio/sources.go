package scheduleio

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/harrisonrobin/gantta/pkg/model"
	"github.com/harrisonrobin/gantta/pkg/orgmode"
	"github.com/harrisonrobin/gantta/pkg/taskwarrior"
)

// TaskSource yields tasks from an external tool.
type TaskSource interface {
	ScheduleTasks(ctx context.Context, filter []string) ([]model.Task, error)
}

// Sources names where a schedule is assembled from.
type Sources struct {
	// Files are schedule files (.yaml, .yml, .json) or Org files (.org).
	Files []string
	// TaskwarriorFilter, when non-empty, adds tasks from `task export`.
	TaskwarriorFilter []string
	Taskwarrior       TaskSource
	// Tag keeps only tasks carrying this tag.
	Tag string
}

// Gather merges every source in order: files as given, then Taskwarrior.
// The title is taken from the first schedule file that sets one.
func Gather(ctx context.Context, src Sources) (*File, error) {
	out := &File{}
	for _, path := range src.Files {
		if strings.EqualFold(filepath.Ext(path), ".org") {
			tasks, err := orgmode.ParseFiles([]string{path})
			if err != nil {
				return nil, fmt.Errorf("failed to read org file %s: %w", path, err)
			}
			out.Tasks = append(out.Tasks, tasks...)
			continue
		}
		sf, err := Load(path)
		if err != nil {
			return nil, err
		}
		if out.Title == "" {
			out.Title = sf.Title
		}
		out.Tasks = append(out.Tasks, sf.Tasks...)
		out.Milestones = append(out.Milestones, sf.Milestones...)
	}

	if len(src.TaskwarriorFilter) > 0 {
		tw := src.Taskwarrior
		if tw == nil {
			tw = taskwarrior.NewClient()
		}
		tasks, err := tw.ScheduleTasks(ctx, src.TaskwarriorFilter)
		if err != nil {
			return nil, err
		}
		out.Tasks = append(out.Tasks, tasks...)
	}

	if src.Tag != "" {
		out.Tasks = orgmode.FilterTasks(out.Tasks, src.Tag)
	}
	return out, nil
}
