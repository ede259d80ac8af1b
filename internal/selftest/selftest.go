// Package selftest re-runs the container's reference walkthrough against
// contiguous.List and reports each check. It is a collaborator of the
// container, not part of it: every check goes through the public API.
package selftest

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/slots/pkg/contiguous"
	"github.com/mesh-intelligence/slots/pkg/types"
)

// Name labels self-test runs in the journal.
const Name = "contiguous-list"

// Check is the outcome of one assertion.
type Check struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

// Report collects the checks of one self-test pass.
type Report struct {
	RunID     string    `json:"run_id"`
	StartedAt time.Time `json:"started_at"`
	Checks    []Check   `json:"checks"`
}

// Passed reports whether every check passed.
func (r *Report) Passed() bool {
	for _, c := range r.Checks {
		if !c.Passed {
			return false
		}
	}
	return true
}

// Failed returns the checks that did not pass.
func (r *Report) Failed() []Check {
	var out []Check
	for _, c := range r.Checks {
		if !c.Passed {
			out = append(out, c)
		}
	}
	return out
}

// recorder accumulates checks while a pass runs.
type recorder struct {
	checks []Check
	logger *zap.Logger
}

func (rec *recorder) check(name string, ok bool, format string, args ...any) {
	c := Check{Name: name, Passed: ok}
	if !ok {
		c.Detail = fmt.Sprintf(format, args...)
		rec.logger.Warn("check failed", zap.String("check", name), zap.String("detail", c.Detail))
	} else {
		rec.logger.Debug("check passed", zap.String("check", name))
	}
	rec.checks = append(rec.checks, c)
}

func (rec *recorder) equal(name string, got, want any) {
	rec.check(name, got == want, "got %v, want %v", got, want)
}

func (rec *recorder) get(name string, l *contiguous.List[int], pos, want int) {
	got, err := l.Get(pos)
	if err != nil {
		rec.check(name, false, "Get(%d): %v", pos, err)
		return
	}
	rec.equal(name, got, want)
}

func (rec *recorder) isErr(name string, err, want error) {
	rec.check(name, errors.Is(err, want), "got error %v, want %v", err, want)
}

// Run executes every check and returns the report. It never stops early:
// a failed check is recorded and the walkthrough continues.
func Run(logger *zap.Logger) *Report {
	if logger == nil {
		logger = zap.NewNop()
	}
	report := &Report{
		RunID:     newRunID(),
		StartedAt: time.Now().UTC(),
	}
	rec := &recorder{logger: logger.With(zap.String("run_id", report.RunID))}

	walkthrough(rec)
	hardening(rec)

	report.Checks = rec.checks
	logger.Info("self-test finished",
		zap.String("run_id", report.RunID),
		zap.Int("checks", len(report.Checks)),
		zap.Bool("passed", report.Passed()))
	return report
}

// walkthrough covers initial emptiness, growth on the third insert, reads,
// remove-with-shift, and remove on an empty list.
func walkthrough(rec *recorder) {
	l, err := contiguous.New[int](2)
	if err != nil {
		rec.check("construct with capacity 2", false, "New(2): %v", err)
		return
	}
	rec.equal("new list is empty", l.IsEmpty(), true)
	rec.equal("new list has size 0", l.Size(), 0)

	l.Insert(1)
	l.Insert(2)
	rec.equal("size 2 after two inserts", l.Size(), 2)
	rec.equal("capacity 2 before growth", l.Cap(), 2)

	l.Insert(3)
	rec.equal("size 3 after third insert", l.Size(), 3)
	rec.equal("capacity doubled to 4", l.Cap(), 4)

	rec.get("element 0 is 1", l, 0, 1)
	rec.get("element 1 is 2", l, 1, 2)
	rec.get("element 2 is 3", l, 2, 3)

	if err := l.Remove(1); err != nil {
		rec.check("remove position 1", false, "Remove(1): %v", err)
	}
	rec.equal("size 2 after remove", l.Size(), 2)
	rec.get("element 3 shifted to position 1", l, 1, 3)
	rec.equal("capacity unchanged by remove", l.Cap(), 4)

	rec.equal("list is not full", l.IsFull(), false)
	rec.equal("list is not empty", l.IsEmpty(), false)

	empty, err := contiguous.New[int](1)
	if err != nil {
		rec.check("construct with capacity 1", false, "New(1): %v", err)
		return
	}
	err = empty.Remove(0)
	rec.isErr("remove on empty list fails", err, contiguous.ErrEmptyContainer)
	rec.check("empty error message", err != nil && err.Error() == "container is empty",
		"got message %q", errMessage(err))
}

// hardening covers the guards added beyond the walkthrough: non-positive
// capacity and reads outside [0, size).
func hardening(rec *recorder) {
	_, err := contiguous.New[int](0)
	rec.isErr("zero capacity rejected", err, contiguous.ErrInvalidArgument)

	l, err := contiguous.New[int](1)
	if err != nil {
		rec.check("construct with capacity 1", false, "New(1): %v", err)
		return
	}
	l.Insert(7)

	_, err = l.Get(-1)
	rec.isErr("negative position rejected", err, contiguous.ErrIndexOutOfRange)
	_, err = l.Get(l.Size())
	rec.isErr("position equal to size rejected", err, contiguous.ErrIndexOutOfRange)
	err = l.Remove(1)
	rec.isErr("remove past end rejected", err, contiguous.ErrIndexOutOfRange)
	rec.check("failed calls leave state unchanged", l.Size() == 1 && l.Cap() == 1,
		"size %d capacity %d", l.Size(), l.Cap())
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// newRunID generates a UUID v7, falling back to v4.
func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// ToRun converts the report to a journal record. Each check becomes one
// event with op "check"; failed checks carry error kind "check_failed".
func (r *Report) ToRun() *types.Run {
	run := &types.Run{
		RunID:     r.RunID,
		Source:    types.SourceSelftest,
		Name:      Name,
		CreatedAt: r.StartedAt,
	}
	for i, c := range r.Checks {
		ev := types.Event{
			Seq: i + 1,
			Op:  types.OpCheck,
			Arg: c.Name,
		}
		if c.Passed {
			ev.Result = "pass"
		} else {
			ev.Result = "fail"
			ev.ErrorKind = "check_failed"
			ev.Error = c.Detail
		}
		run.Events = append(run.Events, ev)
	}
	return run
}
