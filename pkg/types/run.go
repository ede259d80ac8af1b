package types

import "time"

// Run sources. A run is either a self-test pass or a script execution.
const (
	SourceSelftest = "selftest"
	SourceScript   = "script"
)

// validSources is the set of recognized run sources.
var validSources = map[string]bool{
	SourceSelftest: true,
	SourceScript:   true,
}

// Operation verbs recorded on events. OpCheck is used by self-test runs,
// whose events are checks rather than container calls.
const (
	OpInsert   = "insert"
	OpRemove   = "remove"
	OpGet      = "get"
	OpSize     = "size"
	OpCapacity = "capacity"
	OpEmpty    = "empty"
	OpFull     = "full"
	OpCheck    = "check"
)

// Run is one pass of operations against a single container.
type Run struct {
	RunID           string    `json:"run_id"`
	Source          string    `json:"source"`
	Name            string    `json:"name"`             // Script path, or the self-test name.
	InitialCapacity int       `json:"initial_capacity"` // Capacity the container was created with.
	FinalSize       int       `json:"final_size"`
	FinalCapacity   int       `json:"final_capacity"`
	Contents        []string  `json:"contents,omitempty"` // Live elements at the end of the run.
	CreatedAt       time.Time `json:"created_at"`
	Events          []Event   `json:"events,omitempty"`
}

// Event records one operation and the container state around it.
type Event struct {
	Seq        int    `json:"seq"`
	Op         string `json:"op"`
	Arg        string `json:"arg,omitempty"`
	Result     string `json:"result,omitempty"`
	SizeBefore int    `json:"size_before"`
	CapBefore  int    `json:"cap_before"`
	SizeAfter  int    `json:"size_after"`
	CapAfter   int    `json:"cap_after"`
	ErrorKind  string `json:"error_kind,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Failed reports whether the event ended in an error.
func (e Event) Failed() bool {
	return e.ErrorKind != ""
}

// Resized reports whether the operation grew the store.
func (e Event) Resized() bool {
	return e.CapAfter > e.CapBefore
}

// Failures returns the number of failed events in the run.
func (r *Run) Failures() int {
	n := 0
	for _, e := range r.Events {
		if e.Failed() {
			n++
		}
	}
	return n
}

// Resizes returns the number of events that grew the store.
func (r *Run) Resizes() int {
	n := 0
	for _, e := range r.Events {
		if e.Resized() {
			n++
		}
	}
	return n
}

// Validate checks the fields a journal backend relies on.
func (r *Run) Validate() error {
	if !validSources[r.Source] {
		return ErrInvalidSource
	}
	return nil
}

// RunFilter narrows ListRuns. Zero values mean no restriction.
type RunFilter struct {
	Source string
	Limit  int
}

// Validate checks the filter values.
func (f RunFilter) Validate() error {
	if f.Source != "" && !validSources[f.Source] {
		return ErrInvalidSource
	}
	if f.Limit < 0 {
		return ErrInvalidLimit
	}
	return nil
}
