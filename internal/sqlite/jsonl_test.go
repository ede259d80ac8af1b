package sqlite

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/slots/pkg/types"
)

func TestJSONLFilesInitializedEmpty(t *testing.T) {
	_, dir := attached(t)

	for _, name := range []string{runsJSONL, eventsJSONL} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Zero(t, info.Size(), "%s should start empty", name)
	}
}

func TestRunPersistedToJSONL(t *testing.T) {
	b, dir := attached(t)

	id, err := b.SaveRun(scriptRun("grow.yaml", time.Now()))
	require.NoError(t, err)

	runs, skipped, err := readJSONL[runJSON](filepath.Join(dir, runsJSONL))
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].RunID)
	assert.Equal(t, []string{"a", "b"}, runs[0].Contents)

	events, _, err := readJSONL[eventJSON](filepath.Join(dir, eventsJSONL))
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, id, events[2].RunID)
	assert.Equal(t, "index_out_of_range", events[2].ErrorKind)
}

func TestJournalSurvivesReattach(t *testing.T) {
	dir := t.TempDir()

	b := NewBackend(nil)
	require.NoError(t, b.Attach(testConfig(dir)))
	id, err := b.SaveRun(scriptRun("keep", time.Now()))
	require.NoError(t, err)
	require.NoError(t, b.Detach())

	b2 := NewBackend(nil)
	require.NoError(t, b2.Attach(testConfig(dir)))
	defer b2.Detach()

	got, err := b2.GetRun(id)
	require.NoError(t, err)
	assert.Equal(t, "keep", got.Name)
	assert.Len(t, got.Events, 3)
}

func TestDeletePersistedToJSONL(t *testing.T) {
	b, dir := attached(t)

	keep, err := b.SaveRun(scriptRun("keep", time.Now()))
	require.NoError(t, err)
	drop, err := b.SaveRun(scriptRun("drop", time.Now()))
	require.NoError(t, err)
	require.NoError(t, b.DeleteRun(drop))

	data, err := os.ReadFile(filepath.Join(dir, runsJSONL))
	require.NoError(t, err)
	assert.Contains(t, string(data), keep)
	assert.NotContains(t, string(data), drop)

	data, err = os.ReadFile(filepath.Join(dir, eventsJSONL))
	require.NoError(t, err)
	assert.NotContains(t, string(data), drop)
}

func TestLoadSkipsMalformedAndOrphanRecords(t *testing.T) {
	dir := t.TempDir()
	runs := strings.Join([]string{
		`{"run_id":"r1","source":"script","name":"ok","initial_capacity":2,"final_size":1,"final_capacity":2,"contents":["x"],"created_at":"2026-01-01T00:00:00.000000000Z"}`,
		`{not json`,
		``,
		`{"run_id":"r1","source":"script","name":"duplicate","initial_capacity":2,"final_size":1,"final_capacity":2,"contents":[],"created_at":"2026-01-01T00:00:00.000000000Z"}`,
		`{"run_id":"r2","source":"selftest","name":"st","created_at":"2026-01-02T00:00:00.000000000Z","future_field":true}`,
		`{"run_id":"r3","source":"script","name":"plain","created_at":"2026-01-03T01:00:00+01:00"}`,
		`{"run_id":"r4","source":"script","name":"undated","created_at":"yesterday"}`,
	}, "\n") + "\n"
	events := strings.Join([]string{
		`{"run_id":"r1","seq":1,"op":"insert","arg":"x","size_before":0,"cap_before":2,"size_after":1,"cap_after":2}`,
		`{"run_id":"ghost","seq":1,"op":"insert","arg":"y"}`,
		`[1,2,3]`,
	}, "\n") + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, runsJSONL), []byte(runs), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, eventsJSONL), []byte(events), 0o644))

	b := NewBackend(nil)
	require.NoError(t, b.Attach(testConfig(dir)))
	defer b.Detach()

	all, err := b.ListRuns(types.RunFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3, "undated run is skipped")
	assert.Equal(t, "r3", all[0].RunID, "plain RFC 3339 times are normalized and sort by instant")
	assert.True(t, all[0].CreatedAt.Equal(time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "r2", all[1].RunID)
	assert.Empty(t, all[1].Contents, "missing contents load as empty")

	_, err = b.GetRun("r4")
	assert.ErrorIs(t, err, types.ErrNotFound)

	r1, err := b.GetRun("r1")
	require.NoError(t, err)
	assert.Equal(t, "ok", r1.Name, "first record wins on duplicate IDs")
	require.Len(t, r1.Events, 1)
	assert.Equal(t, "x", r1.Events[0].Arg)
}

func TestWriteJSONLAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "records.jsonl")

	require.NoError(t, writeJSONL(path, []eventJSON{{RunID: "a", Seq: 1}, {RunID: "a", Seq: 2}}))
	require.NoError(t, writeJSONL(path, []eventJSON{{RunID: "b", Seq: 1}}))

	got, skipped, err := readJSONL[eventJSON](path)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].RunID)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestReadJSONLMissingFile(t *testing.T) {
	_, _, err := readJSONL[runJSON](filepath.Join(t.TempDir(), "absent.jsonl"))
	assert.Error(t, err)
}
