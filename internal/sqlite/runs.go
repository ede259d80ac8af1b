package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/slots/pkg/types"
)

// timeLayout has fixed-width fractional seconds so created_at sorts
// chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const (
	selectRunColumns = `run_id, source, name, initial_capacity, final_size,
    final_capacity, contents, created_at`

	selectEventColumns = `run_id, seq, op, arg, result, size_before,
    cap_before, size_after, cap_after, error_kind, error`
)

// SaveRun stores run and its events, replacing any run with the same ID,
// then rewrites the JSONL files. An empty RunID is filled with a new UUID v7
// and a zero CreatedAt with the current time; run is updated only once the
// transaction commits.
func (b *Backend) SaveRun(run *types.Run) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return "", types.ErrJournalDetached
	}
	if run == nil {
		return "", types.ErrInvalidID
	}
	if err := run.Validate(); err != nil {
		return "", err
	}

	saved := *run
	if saved.RunID == "" {
		saved.RunID = generateUUID()
	}
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = b.now().UTC()
	}

	tx, err := b.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := deleteRun(tx, saved.RunID); err != nil {
		return "", fmt.Errorf("replace run: %w", err)
	}
	if _, err := tx.Exec(insertRunSQL, runArgs(toRunJSON(&saved))...); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	for _, ev := range saved.Events {
		if _, err := tx.Exec(insertEventSQL, eventArgs(toEventJSON(saved.RunID, ev))...); err != nil {
			return "", fmt.Errorf("insert event %d: %w", ev.Seq, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit save: %w", err)
	}

	run.RunID = saved.RunID
	run.CreatedAt = saved.CreatedAt

	if err := b.persistLocked(); err != nil {
		return "", err
	}

	b.logger.Debug("run saved",
		zap.String("run_id", run.RunID),
		zap.String("source", run.Source),
		zap.Int("events", len(run.Events)))
	return run.RunID, nil
}

// GetRun returns the run with the given ID, its events ordered by seq.
// Returns ErrNotFound if no run exists with that ID.
func (b *Backend) GetRun(id string) (*types.Run, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrJournalDetached
	}
	if id == "" {
		return nil, types.ErrInvalidID
	}

	row := b.db.QueryRow("SELECT "+selectRunColumns+" FROM runs WHERE run_id = ?", id)
	rj, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	events, err := b.queryEvents("WHERE run_id = ?", id)
	if err != nil {
		return nil, err
	}
	return fromRunJSON(rj, events[id])
}

// ListRuns returns runs matching filter, newest first, with their events.
func (b *Backend) ListRuns(filter types.RunFilter) ([]*types.Run, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrJournalDetached
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	match := " FROM runs"
	var args []any
	if filter.Source != "" {
		match += " WHERE source = ?"
		args = append(args, filter.Source)
	}
	match += " ORDER BY created_at DESC, run_id DESC"
	if filter.Limit > 0 {
		match += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := b.db.Query("SELECT "+selectRunColumns+match, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	var records []runJSON
	for rows.Next() {
		rj, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		records = append(records, rj)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if len(records) == 0 {
		return []*types.Run{}, nil
	}

	events, err := b.queryEvents("WHERE run_id IN (SELECT run_id"+match+")", args...)
	if err != nil {
		return nil, err
	}

	runs := make([]*types.Run, 0, len(records))
	for _, rj := range records {
		run, err := fromRunJSON(rj, events[rj.RunID])
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// DeleteRun removes the run and its events, then rewrites the JSONL files.
// Returns ErrNotFound if no run exists with that ID.
func (b *Backend) DeleteRun(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrJournalDetached
	}
	if id == "" {
		return types.ErrInvalidID
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	n, err := deleteRun(tx, id)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}

	if err := b.persistLocked(); err != nil {
		return err
	}
	b.logger.Debug("run deleted", zap.String("run_id", id))
	return nil
}

// deleteRun removes a run and its events inside tx and reports how many
// runs were removed.
func deleteRun(tx *sql.Tx, id string) (int64, error) {
	if _, err := tx.Exec("DELETE FROM events WHERE run_id = ?", id); err != nil {
		return 0, err
	}
	res, err := tx.Exec("DELETE FROM runs WHERE run_id = ?", id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// queryEvents returns events matching where, grouped by run ID and ordered
// by seq.
func (b *Backend) queryEvents(where string, args ...any) (map[string][]eventJSON, error) {
	rows, err := b.db.Query("SELECT "+selectEventColumns+" FROM events "+where+" ORDER BY run_id, seq", args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]eventJSON)
	for rows.Next() {
		var e eventJSON
		if err := rows.Scan(&e.RunID, &e.Seq, &e.Op, &e.Arg, &e.Result, &e.SizeBefore,
			&e.CapBefore, &e.SizeAfter, &e.CapAfter, &e.ErrorKind, &e.Error); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out[e.RunID] = append(out[e.RunID], e)
	}
	return out, rows.Err()
}

// persistLocked rewrites runs.jsonl and events.jsonl from the database.
// The caller must hold b.mu.
func (b *Backend) persistLocked() error {
	rows, err := b.db.Query("SELECT " + selectRunColumns + " FROM runs ORDER BY created_at, run_id")
	if err != nil {
		return fmt.Errorf("dump runs: %w", err)
	}
	var runs []runJSON
	for rows.Next() {
		rj, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return err
		}
		runs = append(runs, rj)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	grouped, err := b.queryEvents("")
	if err != nil {
		return err
	}
	var events []eventJSON
	for _, rj := range runs {
		events = append(events, grouped[rj.RunID]...)
	}

	dataDir := b.config.DataDir
	if err := writeJSONL(filepath.Join(dataDir, runsJSONL), runs); err != nil {
		return fmt.Errorf("persist %s: %w", runsJSONL, err)
	}
	if err := writeJSONL(filepath.Join(dataDir, eventsJSONL), events); err != nil {
		return fmt.Errorf("persist %s: %w", eventsJSONL, err)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(s rowScanner) (runJSON, error) {
	var rj runJSON
	var contents string
	if err := s.Scan(&rj.RunID, &rj.Source, &rj.Name, &rj.InitialCapacity, &rj.FinalSize,
		&rj.FinalCapacity, &contents, &rj.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rj, err
		}
		return rj, fmt.Errorf("scan run: %w", err)
	}
	if err := json.Unmarshal([]byte(contents), &rj.Contents); err != nil {
		return rj, fmt.Errorf("decode contents of run %s: %w", rj.RunID, err)
	}
	return rj, nil
}

func toRunJSON(run *types.Run) runJSON {
	return runJSON{
		RunID:           run.RunID,
		Source:          run.Source,
		Name:            run.Name,
		InitialCapacity: run.InitialCapacity,
		FinalSize:       run.FinalSize,
		FinalCapacity:   run.FinalCapacity,
		Contents:        run.Contents,
		CreatedAt:       run.CreatedAt.UTC().Format(timeLayout),
	}
}

func toEventJSON(runID string, ev types.Event) eventJSON {
	return eventJSON{
		RunID:      runID,
		Seq:        ev.Seq,
		Op:         ev.Op,
		Arg:        ev.Arg,
		Result:     ev.Result,
		SizeBefore: ev.SizeBefore,
		CapBefore:  ev.CapBefore,
		SizeAfter:  ev.SizeAfter,
		CapAfter:   ev.CapAfter,
		ErrorKind:  ev.ErrorKind,
		Error:      ev.Error,
	}
}

func fromRunJSON(rj runJSON, events []eventJSON) (*types.Run, error) {
	created, err := time.Parse(time.RFC3339Nano, rj.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at of run %s: %w", rj.RunID, err)
	}
	run := &types.Run{
		RunID:           rj.RunID,
		Source:          rj.Source,
		Name:            rj.Name,
		InitialCapacity: rj.InitialCapacity,
		FinalSize:       rj.FinalSize,
		FinalCapacity:   rj.FinalCapacity,
		Contents:        rj.Contents,
		CreatedAt:       created,
	}
	for _, e := range events {
		run.Events = append(run.Events, types.Event{
			Seq:        e.Seq,
			Op:         e.Op,
			Arg:        e.Arg,
			Result:     e.Result,
			SizeBefore: e.SizeBefore,
			CapBefore:  e.CapBefore,
			SizeAfter:  e.SizeAfter,
			CapAfter:   e.CapAfter,
			ErrorKind:  e.ErrorKind,
			Error:      e.Error,
		})
	}
	return run, nil
}
