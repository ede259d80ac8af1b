package types

import "errors"

// Journal records runs against the container and answers queries about them.
// Callers attach to a backend, save and read runs, and detach when done.
type Journal interface {
	// Attach connects the Journal to the backend described by config.
	// Creates the DataDir if it does not exist. Returns ErrAlreadyAttached
	// if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, every other method returns ErrJournalDetached.
	Detach() error

	// SaveRun stores a run and its events. When run.RunID is empty a new
	// UUID v7 is generated. Returns the ID used.
	SaveRun(run *Run) (string, error)

	// GetRun returns the run with the given ID, events ordered by Seq.
	// Returns ErrNotFound if no run exists with that ID.
	GetRun(id string) (*Run, error)

	// ListRuns returns runs matching the filter, newest first.
	ListRuns(filter RunFilter) ([]*Run, error)

	// DeleteRun removes the run and its events.
	// Returns ErrNotFound if no run exists with that ID.
	DeleteRun(id string) error
}

// Journal lifecycle errors.
var (
	ErrJournalDetached = errors.New("journal is detached")
	ErrAlreadyAttached = errors.New("journal is already attached")
)

// Journal operation errors.
var (
	ErrNotFound      = errors.New("run not found")
	ErrInvalidID     = errors.New("invalid run ID")
	ErrInvalidSource = errors.New("invalid run source")
	ErrInvalidLimit  = errors.New("limit must not be negative")
)
