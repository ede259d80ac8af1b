package script

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/slots/pkg/contiguous"
	"github.com/mesh-intelligence/slots/pkg/types"
)

func TestRunScenarios(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "scenarios.yaml"))
	require.NoError(t, err)

	run, err := NewRunner(zap.NewNop()).Run(s, "scenarios.yaml", 8)
	require.NoError(t, err)

	assert.Equal(t, types.SourceScript, run.Source)
	assert.Equal(t, 2, run.InitialCapacity, "script capacity wins over default")
	assert.Equal(t, 2, run.FinalSize)
	assert.Equal(t, 4, run.FinalCapacity)
	assert.Equal(t, 0, run.Failures())
	assert.Equal(t, 1, run.Resizes())
	if diff := cmp.Diff([]string{"1", "3"}, run.Contents); diff != "" {
		t.Fatalf("contents mismatch (-want +got):\n%s", diff)
	}

	results := make([]string, len(run.Events))
	for i, ev := range run.Events {
		assert.Equal(t, i+1, ev.Seq)
		results[i] = ev.Result
	}
	want := []string{
		"true", "0", "", "", "2", "2", "", "4",
		"1", "2", "3", "2", "2", "3", "4", "false", "false",
	}
	if diff := cmp.Diff(want, results); diff != "" {
		t.Fatalf("results mismatch (-want +got):\n%s", diff)
	}

	grow := run.Events[6]
	assert.Equal(t, types.OpInsert, grow.Op)
	assert.Equal(t, 2, grow.CapBefore)
	assert.Equal(t, 4, grow.CapAfter)
}

func TestRunRecordsFailures(t *testing.T) {
	s, err := Parse([]byte(`
capacity: 1
ops:
  - remove: 0
  - insert: x
  - get: 5
  - remove: -1
  - size
`))
	require.NoError(t, err)

	run, err := NewRunner(nil).Run(s, "failures", 4)
	require.NoError(t, err)
	require.Len(t, run.Events, 5)

	assert.Equal(t, contiguous.KindEmptyContainer, run.Events[0].ErrorKind)
	assert.Equal(t, "container is empty", run.Events[0].Error)
	assert.Equal(t, contiguous.KindIndexOutOfRange, run.Events[2].ErrorKind)
	assert.Equal(t, contiguous.KindIndexOutOfRange, run.Events[3].ErrorKind)
	assert.Equal(t, 3, run.Failures())

	for _, i := range []int{2, 3} {
		ev := run.Events[i]
		assert.Equal(t, ev.SizeBefore, ev.SizeAfter, "failed op %d must not change size", ev.Seq)
		assert.Equal(t, ev.CapBefore, ev.CapAfter, "failed op %d must not change capacity", ev.Seq)
	}
	assert.Equal(t, "1", run.Events[4].Result)
}

func TestRunStopOnError(t *testing.T) {
	s, err := Parse([]byte(`
stop_on_error: true
ops:
  - insert: a
  - get: 3
  - insert: b
`))
	require.NoError(t, err)

	run, err := NewRunner(nil).Run(s, "stop", 2)
	require.NoError(t, err)
	assert.Len(t, run.Events, 2)
	assert.Equal(t, []string{"a"}, run.Contents)
	assert.Equal(t, 2, run.InitialCapacity, "default capacity used when script omits it")
}

func TestRunRemoveRecordsRemovedValue(t *testing.T) {
	s, err := Parse([]byte("ops:\n  - insert: a\n  - insert: b\n  - remove: 0\n"))
	require.NoError(t, err)

	run, err := NewRunner(nil).Run(s, "remove", 4)
	require.NoError(t, err)
	assert.Equal(t, "a", run.Events[2].Result)
	assert.Equal(t, []string{"b"}, run.Contents)
}

func TestRunInvalidCapacity(t *testing.T) {
	s, err := Parse([]byte("capacity: -2\nops:\n  - size\n"))
	require.NoError(t, err)

	_, err = NewRunner(nil).Run(s, "bad", 4)
	assert.ErrorIs(t, err, contiguous.ErrInvalidArgument)
}
