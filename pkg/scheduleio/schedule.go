package scheduleio

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/harrisonrobin/gantta/pkg/model"
)

// File is the on-disk schedule: a title, tasks and milestones. JSON files
// are read through the same YAML decoder.
type File struct {
	Title      string            `yaml:"title,omitempty"`
	Tasks      []model.Task      `yaml:"tasks"`
	Milestones []model.Milestone `yaml:"milestones,omitempty"`
}

// Load reads a schedule file from disk.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sf, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schedule %s: %w", path, err)
	}
	for i := range sf.Tasks {
		if sf.Tasks[i].Source == "" {
			sf.Tasks[i].Source = "file"
		}
	}
	return sf, nil
}

// Parse decodes a schedule. Unknown fields are rejected so typos in
// optional keys such as "colour" surface instead of silently defaulting.
func Parse(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var sf File
	if len(bytes.TrimSpace(data)) == 0 {
		return &sf, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sf); err != nil && err != io.EOF {
		return nil, err
	}
	return &sf, nil
}

// Save writes a schedule as YAML.
func Save(path string, sf *File) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open schedule for writing: %w", err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(sf); err != nil {
		return err
	}
	return enc.Close()
}
