package taskwarrior

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/harrisonrobin/gantta/pkg/model"
)

type Client struct {
	// Binary defaults to "task".
	Binary string
}

func NewClient() *Client {
	return &Client{Binary: "task"}
}

// GetTasks runs `task <filter> export` and parses its output.
func (c *Client) GetTasks(ctx context.Context, filter []string) ([]Task, error) {
	args := append(append([]string{}, filter...), "export", "rc.hooks=0")
	cmd := exec.CommandContext(ctx, c.Binary, args...)

	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("taskwarrior command failed: exit code %d, %s, stderr: %s",
				exitErr.ExitCode(), err, exitErr.Stderr)
		}
		return nil, fmt.Errorf("taskwarrior command failed: %w", err)
	}
	return c.ParseTasks(bytes.NewReader(output))
}

// ParseTasks accepts either a JSON array (task export) or a stream of
// JSON objects, one per line.
func (c *Client) ParseTasks(r io.Reader) ([]Task, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var tasks []Task
		if err := json.Unmarshal(trimmed, &tasks); err != nil {
			return nil, fmt.Errorf("failed to unmarshal taskwarrior output: %w", err)
		}
		return tasks, nil
	}

	var tasks []Task
	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	for {
		var task Task
		if err := decoder.Decode(&task); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to decode task json: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// ScheduleTasks exports tasks matching filter and converts the dated,
// non-deleted ones into schedule tasks.
func (c *Client) ScheduleTasks(ctx context.Context, filter []string) ([]model.Task, error) {
	twTasks, err := c.GetTasks(ctx, filter)
	if err != nil {
		return nil, err
	}
	return Convert(twTasks, time.Local), nil
}

// Convert keeps export order and skips deleted or undated tasks.
func Convert(twTasks []Task, loc *time.Location) []model.Task {
	var out []model.Task
	for i := range twTasks {
		if twTasks[i].Status == DELETED {
			continue
		}
		task, ok := twTasks[i].ToScheduleTask(loc)
		if !ok {
			log.Debug().Str("uuid", twTasks[i].UUID).Msg("skipping taskwarrior task without dates")
			continue
		}
		out = append(out, task)
	}
	return out
}
