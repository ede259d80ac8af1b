// Package sqlite provides the public API for the SQLite run journal.
// This package exposes the factory function for creating journal backends
// while keeping implementation details internal.
package sqlite

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/slots/internal/sqlite"
	"github.com/mesh-intelligence/slots/pkg/types"
)

// NewJournal creates a new SQLite journal. A nil logger discards logs.
// The journal is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	journal := sqlite.NewJournal(logger)
//	err := journal.Attach(types.Config{
//	    DataDir:         "/var/lib/slots",
//	    InitialCapacity: types.DefaultInitialCapacity,
//	})
//	defer journal.Detach()
func NewJournal(logger *zap.Logger) types.Journal {
	return sqlite.NewBackend(logger)
}
