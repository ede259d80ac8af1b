package selftest

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mesh-intelligence/slots/pkg/types"
)

func TestRunPasses(t *testing.T) {
	report := Run(zap.NewNop())

	require.NotEmpty(t, report.Checks)
	for _, c := range report.Checks {
		assert.True(t, c.Passed, "check %q failed: %s", c.Name, c.Detail)
	}
	assert.True(t, report.Passed())
	assert.Empty(t, report.Failed())

	id, err := uuid.Parse(report.RunID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
}

func TestRunCoversWalkthrough(t *testing.T) {
	report := Run(nil)

	names := make(map[string]bool, len(report.Checks))
	for _, c := range report.Checks {
		names[c.Name] = true
	}
	for _, want := range []string{
		"new list is empty",
		"capacity doubled to 4",
		"element 3 shifted to position 1",
		"remove on empty list fails",
		"empty error message",
		"zero capacity rejected",
	} {
		assert.True(t, names[want], "missing check %q", want)
	}
}

func TestRunLogsSummary(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	Run(zap.New(core))

	summary := logs.FilterMessage("self-test finished").All()
	require.Len(t, summary, 1)
	assert.Equal(t, true, summary[0].ContextMap()["passed"])
	assert.Zero(t, logs.FilterMessage("check failed").Len())
}

func TestReportFailed(t *testing.T) {
	r := &Report{Checks: []Check{
		{Name: "a", Passed: true},
		{Name: "b", Passed: false, Detail: "got 1, want 2"},
	}}
	assert.False(t, r.Passed())
	require.Len(t, r.Failed(), 1)
	assert.Equal(t, "b", r.Failed()[0].Name)
}

func TestReportToRun(t *testing.T) {
	r := &Report{
		RunID: "0190c0de-0000-7000-8000-000000000000",
		Checks: []Check{
			{Name: "a", Passed: true},
			{Name: "b", Passed: false, Detail: "boom"},
		},
	}
	run := r.ToRun()

	assert.Equal(t, r.RunID, run.RunID)
	assert.Equal(t, types.SourceSelftest, run.Source)
	assert.Equal(t, Name, run.Name)
	require.Len(t, run.Events, 2)
	assert.Equal(t, types.OpCheck, run.Events[0].Op)
	assert.Equal(t, "pass", run.Events[0].Result)
	assert.Equal(t, 2, run.Events[1].Seq)
	assert.Equal(t, "boom", run.Events[1].Error)
	assert.Equal(t, 1, run.Failures())
	assert.NoError(t, run.Validate())
}
