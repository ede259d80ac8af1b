package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

const (
	insertRunSQL = `INSERT INTO runs (run_id, source, name, initial_capacity, final_size,
    final_capacity, contents, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	insertEventSQL = `INSERT INTO events (run_id, seq, op, arg, result, size_before,
    cap_before, size_after, cap_after, error_kind, error) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
)

// loadAllJSONL reads runs.jsonl and events.jsonl and inserts them into the
// database in one transaction: all succeed or the database stays empty.
// Malformed lines, duplicate keys, and events whose run is missing are
// skipped and counted in the log.
func loadAllJSONL(db *sql.DB, dataDir string, logger *zap.Logger) error {
	runs, badRuns, err := readJSONL[runJSON](filepath.Join(dataDir, runsJSONL))
	if err != nil {
		return err
	}
	events, badEvents, err := readJSONL[eventJSON](filepath.Join(dataDir, eventsJSONL))
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	rejectedRuns, err := insertRuns(tx, runs)
	if err != nil {
		return err
	}
	rejectedEvents, err := insertEvents(tx, events)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}

	logger.Debug("journal loaded",
		zap.Int("runs", len(runs)-rejectedRuns),
		zap.Int("events", len(events)-rejectedEvents),
		zap.Int("skipped_runs", badRuns+rejectedRuns),
		zap.Int("skipped_events", badEvents+rejectedEvents))
	return nil
}

// insertRuns inserts run records, returning how many were rejected by
// constraints or for an unparseable created_at.
func insertRuns(tx *sql.Tx, runs []runJSON) (int, error) {
	stmt, err := tx.Prepare(insertRunSQL)
	if err != nil {
		return 0, fmt.Errorf("preparing run insert: %w", err)
	}
	defer stmt.Close()

	rejected := 0
	for _, r := range runs {
		if r.RunID == "" {
			rejected++
			continue
		}
		created, err := normalizeTime(r.CreatedAt)
		if err != nil {
			rejected++
			continue
		}
		r.CreatedAt = created
		if _, err := stmt.Exec(runArgs(r)...); err != nil {
			rejected++
		}
	}
	return rejected, nil
}

// insertEvents inserts event records, returning how many were rejected by
// constraints.
func insertEvents(tx *sql.Tx, events []eventJSON) (int, error) {
	stmt, err := tx.Prepare(insertEventSQL)
	if err != nil {
		return 0, fmt.Errorf("preparing event insert: %w", err)
	}
	defer stmt.Close()

	rejected := 0
	for _, e := range events {
		if _, err := stmt.Exec(eventArgs(e)...); err != nil {
			rejected++
		}
	}
	return rejected, nil
}

// normalizeTime rewrites any RFC 3339 timestamp in timeLayout so stored
// values sort chronologically.
func normalizeTime(s string) (string, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return "", err
	}
	return t.UTC().Format(timeLayout), nil
}

func runArgs(r runJSON) []any {
	contents := r.Contents
	if contents == nil {
		contents = []string{}
	}
	encoded, _ := json.Marshal(contents)
	return []any{
		r.RunID, r.Source, r.Name, r.InitialCapacity, r.FinalSize,
		r.FinalCapacity, string(encoded), r.CreatedAt,
	}
}

func eventArgs(e eventJSON) []any {
	return []any{
		e.RunID, e.Seq, e.Op, e.Arg, e.Result, e.SizeBefore,
		e.CapBefore, e.SizeAfter, e.CapAfter, e.ErrorKind, e.Error,
	}
}
