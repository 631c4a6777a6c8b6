package overdue

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/harrisonrobin/gantta/pkg/config"
	"github.com/harrisonrobin/gantta/pkg/model"
)

const tableFile = "upcoming_milestones.json"

// Entry is a published milestone that has not yet passed.
type Entry struct {
	CalendarID string     `json:"calendar_id"`
	GCalID     string     `json:"gcal_id"`
	Summary    string     `json:"summary"`
	Date       model.Date `json:"date"`
}

// Table tracks upcoming milestones so a later run can mark them as passed
// on the calendar.
type Table struct {
	Entries map[string]Entry `json:"entries"`
	Path    string           `json:"-"`
	dirty   bool
}

func NewTable() (*Table, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	return Open(filepath.Join(dir, tableFile))
}

// Open loads the table at path; a missing file yields an empty table.
func Open(path string) (*Table, error) {
	t := &Table{
		Path:    path,
		Entries: make(map[string]Entry),
	}
	if _, err := os.Stat(path); err == nil {
		if err := t.Load(); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Table) Load() error {
	f, err := os.Open(t.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(t)
}

func (t *Table) Save() error {
	if !t.dirty {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(t.Path), 0700); err != nil {
		return err
	}

	f, err := os.Create(t.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	err = encoder.Encode(t)
	if err == nil {
		t.dirty = false
	}
	return err
}

// Update records a milestone that is still upcoming (date on or after
// today). A milestone that already passed is removed instead.
func (t *Table) Update(markerID string, e Entry, today model.Date) {
	if e.Date.Before(today) {
		t.Remove(markerID)
		return
	}
	if old, exists := t.Entries[markerID]; !exists || !old.same(e) {
		t.Entries[markerID] = e
		t.dirty = true
	}
}

func (t *Table) Remove(markerID string) {
	if _, exists := t.Entries[markerID]; exists {
		delete(t.Entries, markerID)
		t.dirty = true
	}
}

// Sweep returns the entries of one calendar dated before today and removes them.
func (t *Table) Sweep(calendarID string, today model.Date) []Entry {
	var swept []Entry
	for id, entry := range t.Entries {
		if entry.CalendarID == calendarID && entry.Date.Before(today) {
			swept = append(swept, entry)
			delete(t.Entries, id)
			t.dirty = true
		}
	}
	return swept
}

func (e Entry) same(o Entry) bool {
	return e.CalendarID == o.CalendarID && e.GCalID == o.GCalID && e.Summary == o.Summary && e.Date.Equal(o.Date)
}
