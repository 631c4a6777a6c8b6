package index

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/harrisonrobin/gantta/pkg/config"
)

const indexFile = "events.json"

// EventIndex maps marker IDs to Google Calendar event IDs, per calendar.
type EventIndex struct {
	Mappings map[string]map[string]string `json:"mappings"`
	Path     string                       `json:"-"`
	mu       sync.RWMutex
	dirty    bool
}

// NewEventIndex loads the index from the config directory.
func NewEventIndex() (*EventIndex, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	return Open(filepath.Join(dir, indexFile))
}

// Open loads the index at path; a missing file yields an empty index.
func Open(path string) (*EventIndex, error) {
	idx := &EventIndex{
		Mappings: make(map[string]map[string]string),
		Path:     path,
	}
	if _, err := os.Stat(path); err == nil {
		if err := idx.Load(); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

func (idx *EventIndex) Load() error {
	f, err := os.Open(idx.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return json.NewDecoder(f).Decode(&idx.Mappings)
}

func (idx *EventIndex) Save() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if !idx.dirty {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(idx.Path), 0700); err != nil {
		return err
	}
	f, err := os.Create(idx.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(idx.Mappings); err != nil {
		return err
	}
	idx.dirty = false
	return nil
}

func (idx *EventIndex) Get(calendarID, markerID string) string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.Mappings[calendarID][markerID]
}

func (idx *EventIndex) Set(calendarID, markerID, eventID string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	m, ok := idx.Mappings[calendarID]
	if !ok {
		m = make(map[string]string)
		idx.Mappings[calendarID] = m
	}
	if m[markerID] != eventID {
		m[markerID] = eventID
		idx.dirty = true
	}
}

func (idx *EventIndex) Remove(calendarID, markerID string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if _, exists := idx.Mappings[calendarID][markerID]; exists {
		delete(idx.Mappings[calendarID], markerID)
		idx.dirty = true
	}
}

// Markers returns a copy of the marker to event mappings of one calendar.
func (idx *EventIndex) Markers(calendarID string) map[string]string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make(map[string]string, len(idx.Mappings[calendarID]))
	for k, v := range idx.Mappings[calendarID] {
		out[k] = v
	}
	return out
}
