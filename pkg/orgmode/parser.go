package orgmode

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/harrisonrobin/gantta/pkg/model"
)

var (
	headingRegex   = regexp.MustCompile(`^\*+\s+(TODO|DONE)\s*(?:\[#([A-Z])\])?\s*(.*?)(?:\s+(:(\w+(:\w+)*):))?\s*$`)
	scheduledRegex = regexp.MustCompile(`SCHEDULED:\s+<(\d{4}-\d{2}-\d{2})[^>]*>`)
	deadlineRegex  = regexp.MustCompile(`DEADLINE:\s+<(\d{4}-\d{2}-\d{2})[^>]*>`)
	effortRegex    = regexp.MustCompile(`^:EFFORT:\s+(\d+(?:\.\d+)?)%?\s*$`)
)

// entry accumulates one heading until the next heading or end of input.
type entry struct {
	task      model.Task
	scheduled model.Date
	deadline  model.Date
}

// finish resolves the task dates: a heading with only one timestamp
// becomes a single-day task. ok is false when there is no date at all.
func (e *entry) finish() (model.Task, bool) {
	switch {
	case !e.scheduled.IsZero() && !e.deadline.IsZero():
		e.task.Start, e.task.End = e.scheduled, e.deadline
	case !e.scheduled.IsZero():
		e.task.Start, e.task.End = e.scheduled, e.scheduled
	case !e.deadline.IsZero():
		e.task.Start, e.task.End = e.deadline, e.deadline
	default:
		return model.Task{}, false
	}
	return e.task, e.task.Name != ""
}

func parseFile(filePath string) ([]model.Task, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Parse(file, filePath)
}

// ParseFiles parses multiple Org-mode files and returns their tasks in file order.
func ParseFiles(filePaths []string) ([]model.Task, error) {
	var allTasks []model.Task
	for _, filePath := range filePaths {
		tasks, err := parseFile(filePath)
		if err != nil {
			return nil, err
		}
		allTasks = append(allTasks, tasks...)
	}
	return allTasks, nil
}

// Parse reads TODO/DONE headings with SCHEDULED and DEADLINE timestamps
// and an optional :EFFORT: property.
func Parse(r io.Reader, source string) ([]model.Task, error) {
	log.Debug().Str("source", source).Msg("parsing org file")
	scanner := bufio.NewScanner(r)
	var tasks []model.Task
	var current *entry

	flush := func() {
		if current == nil {
			return
		}
		if task, ok := current.finish(); ok {
			tasks = append(tasks, task)
		} else {
			log.Debug().Str("heading", current.task.Name).Msg("skipping org heading without dates")
		}
		current = nil
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "*") {
			flush()
			if matches := headingRegex.FindStringSubmatch(line); len(matches) > 0 {
				current = &entry{task: model.Task{Source: "orgmode", Name: strings.TrimSpace(matches[3])}}
				if matches[4] != "" {
					current.task.Tags = strings.Split(strings.Trim(matches[4], ":"), ":")
				}
			}
			continue
		}
		if current == nil {
			continue
		}

		if m := scheduledRegex.FindStringSubmatch(line); len(m) > 0 {
			if d, err := model.ParseDate(m[1]); err == nil {
				current.scheduled = d
			}
		}
		if m := deadlineRegex.FindStringSubmatch(line); len(m) > 0 {
			if d, err := model.ParseDate(m[1]); err == nil {
				current.deadline = d
			}
		}
		if m := effortRegex.FindStringSubmatch(line); len(m) > 0 {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				current.task.Effort = v
			}
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

// FilterTasks keeps the tasks carrying the given tag.
func FilterTasks(tasks []model.Task, tag string) []model.Task {
	var filteredTasks []model.Task
	for _, task := range tasks {
		if task.HasTag(tag) {
			filteredTasks = append(filteredTasks, task)
		}
	}
	return filteredTasks
}
