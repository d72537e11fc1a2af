package generate

import (
	"errors"
	"fmt"
)

// State is a pipeline stage.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateDeriving   State = "deriving"
	StateRendering  State = "rendering"
	StateMerging    State = "merging"
	StatePersisting State = "persisting"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

// EntityResult is the outcome for one entity of the schema document.
type EntityResult struct {
	Index     int
	Name      string
	Artifacts []Artifact
	Err       error
}

// OK reports whether every artifact of the entity was handled.
func (r EntityResult) OK() bool { return r.Err == nil }

// MergeResult is the outcome of one descriptor change.
type MergeResult struct {
	Descriptor string // path relative to the project root
	Change     string // e.g. "class com.acme.shop.entity.Product"
	Changed    bool
	Err        error
}

// Report summarizes a pipeline run.
type Report struct {
	RunID    string
	State    State
	Entities []EntityResult
	Shared   []Artifact
	Merges   []MergeResult
}

// Failed reports whether any entity or merge failed, or the run itself did.
func (r *Report) Failed() bool {
	return r.State == StateFailed || r.Err() != nil
}

// Err joins every entity and merge failure.
func (r *Report) Err() error {
	var errs []error
	for _, e := range r.Entities {
		if e.Err != nil {
			errs = append(errs, fmt.Errorf("entity %q: %w", e.Name, e.Err))
		}
	}
	for _, m := range r.Merges {
		if m.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", m.Descriptor, m.Err))
		}
	}
	return errors.Join(errs...)
}

// Artifacts lists every artifact of the run in generation order.
func (r *Report) Artifacts() []Artifact {
	var out []Artifact
	for _, e := range r.Entities {
		out = append(out, e.Artifacts...)
	}
	return append(out, r.Shared...)
}

// Count returns how many artifacts ended in status s.
func (r *Report) Count(s Status) int {
	n := 0
	for _, a := range r.Artifacts() {
		if a.Status == s {
			n++
		}
	}
	return n
}
