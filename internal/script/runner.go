package script

import (
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/slots/pkg/contiguous"
	"github.com/mesh-intelligence/slots/pkg/types"
)

// Runner executes scripts against a fresh List[string] per run.
type Runner struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewRunner returns a Runner that logs through logger.
func NewRunner(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger, now: time.Now}
}

// Run applies every op in s to a new list and returns the recorded run.
// Container errors are recorded on their event rather than returned; only a
// failure to construct the list is returned. name labels the run.
func (r *Runner) Run(s *Script, name string, defaultCapacity int) (*types.Run, error) {
	capacity := s.Capacity
	if capacity == 0 {
		capacity = defaultCapacity
	}

	list, err := contiguous.New[string](capacity)
	if err != nil {
		return nil, fmt.Errorf("create list: %w", err)
	}

	run := &types.Run{
		Source:          types.SourceScript,
		Name:            name,
		InitialCapacity: capacity,
		CreatedAt:       r.now().UTC(),
	}

	for i, op := range s.Ops {
		ev := apply(list, op)
		ev.Seq = i + 1
		run.Events = append(run.Events, ev)

		if ev.Resized() {
			r.logger.Debug("store grew",
				zap.Int("seq", ev.Seq),
				zap.Int("from", ev.CapBefore),
				zap.Int("to", ev.CapAfter))
		}
		if ev.Failed() {
			r.logger.Debug("operation failed",
				zap.Int("seq", ev.Seq),
				zap.String("op", ev.Op),
				zap.String("kind", ev.ErrorKind))
			if s.StopOnError {
				break
			}
		}
	}

	run.FinalSize = list.Size()
	run.FinalCapacity = list.Cap()
	run.Contents = snapshot(list)

	r.logger.Info("script finished",
		zap.String("name", name),
		zap.Int("ops", len(run.Events)),
		zap.Int("failures", run.Failures()),
		zap.Int("size", run.FinalSize),
		zap.Int("capacity", run.FinalCapacity))

	return run, nil
}

// apply runs one op and records the list state before and after it.
func apply(list *contiguous.List[string], op Op) types.Event {
	ev := types.Event{
		Op:         op.Verb,
		SizeBefore: list.Size(),
		CapBefore:  list.Cap(),
	}

	var err error
	switch op.Verb {
	case types.OpInsert:
		ev.Arg = op.Value
		list.Insert(op.Value)
	case types.OpGet:
		ev.Arg = strconv.Itoa(op.Position)
		ev.Result, err = list.Get(op.Position)
	case types.OpRemove:
		ev.Arg = strconv.Itoa(op.Position)
		removed, getErr := list.Get(op.Position)
		if err = list.Remove(op.Position); err == nil && getErr == nil {
			ev.Result = removed
		}
	case types.OpSize:
		ev.Result = strconv.Itoa(list.Size())
	case types.OpCapacity:
		ev.Result = strconv.Itoa(list.Cap())
	case types.OpEmpty:
		ev.Result = strconv.FormatBool(list.IsEmpty())
	case types.OpFull:
		ev.Result = strconv.FormatBool(list.IsFull())
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownOp, op.Verb)
	}

	if err != nil {
		ev.ErrorKind = contiguous.Kind(err)
		ev.Error = err.Error()
	}
	ev.SizeAfter = list.Size()
	ev.CapAfter = list.Cap()
	return ev
}

// snapshot reads the live elements in order.
func snapshot(list *contiguous.List[string]) []string {
	out := make([]string, 0, list.Size())
	for i := 0; i < list.Size(); i++ {
		v, err := list.Get(i)
		if err != nil {
			break
		}
		out = append(out, v)
	}
	return out
}
