// Package syncstate remembers which configuration changes a project has
// already received, so repeated runs do not re-add dependencies or
// re-declare data sources.
//
// State lives in a small JSON file mapping a category ("dependency", "jdbc",
// ...) to the set of values applied under it. The file is not locked:
// concurrent runs against the same project race and the last Save wins.
package syncstate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// DefaultPath is the state file location relative to the project root.
const DefaultPath = ".jakartagen/state.json"

// Well-known categories.
const (
	CategoryDependency = "dependency"
	CategoryJDBC       = "jdbc"
	CategoryFaces      = "faces"
	CategoryEntity     = "entity"
)

// Store is the in-memory view of a state file.
type Store struct {
	path    string
	applied map[string]map[string]bool
	lastRun string
	dirty   bool
}

type fileFormat struct {
	LastRun string              `json:"lastRun,omitempty"`
	Applied map[string][]string `json:"applied"`
}

// Open loads the state at path. A missing or empty file yields an empty
// store.
func Open(path string) (*Store, error) {
	s := &Store{path: path, applied: make(map[string]map[string]bool)}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading state %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return s, nil
	}

	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing state %s: %w", path, err)
	}
	s.lastRun = f.LastRun
	for cat, values := range f.Applied {
		for _, v := range values {
			s.set(cat, v)
		}
	}
	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// WasApplied reports whether value was recorded under category.
func (s *Store) WasApplied(category, value string) bool {
	return s.applied[category][value]
}

// RecordApplied marks value as applied under category.
func (s *Store) RecordApplied(category, value string) {
	if s.WasApplied(category, value) {
		return
	}
	s.set(category, value)
	s.dirty = true
}

// Applied returns the sorted values recorded under category.
func (s *Store) Applied(category string) []string {
	return sortedSet(s.applied[category])
}

// LastRun returns the identifier of the last run that saved this state.
func (s *Store) LastRun() string { return s.lastRun }

// SetLastRun records the identifier of the current run.
func (s *Store) SetLastRun(id string) {
	if s.lastRun != id {
		s.lastRun = id
		s.dirty = true
	}
}

// Dirty reports whether the store changed since it was opened or saved.
func (s *Store) Dirty() bool { return s.dirty }

// Save writes the state when it changed. Values are sorted so the file is
// stable across runs.
func (s *Store) Save() error {
	if !s.dirty {
		return nil
	}
	f := fileFormat{LastRun: s.lastRun, Applied: make(map[string][]string, len(s.applied))}
	for cat, set := range s.applied {
		f.Applied[cat] = sortedSet(set)
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}
	if err := os.WriteFile(s.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing state %s: %w", s.path, err)
	}
	s.dirty = false
	return nil
}

func (s *Store) set(category, value string) {
	set, ok := s.applied[category]
	if !ok {
		set = make(map[string]bool)
		s.applied[category] = set
	}
	set[value] = true
}

func sortedSet(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
