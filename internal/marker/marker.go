// Package marker persists the last-sync timestamp in its own small file,
// deliberately outside the transactional store: the marker is advisory
// display state and may be lost independently of sale and log data.
package marker

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Marker is the single last-sync timestamp slot.
type Marker struct {
	path string
}

// New returns a marker stored at path. The file is created on first Set.
func New(path string) *Marker {
	return &Marker{path: path}
}

// Set records t as the most recent successful sync time. The write goes
// through a temp file and rename so a crash never leaves a torn value.
func (m *Marker) Set(t time.Time) error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return err
	}

	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(t.Format(time.RFC3339)), 0644); err != nil {
		return err
	}
	return os.Rename(tmp, m.path)
}

// Get returns the recorded time, or ok=false when the marker has never been
// set or does not parse.
func (m *Marker) Get() (time.Time, bool) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(string(data)))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
