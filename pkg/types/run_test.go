package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunCounters(t *testing.T) {
	r := &Run{
		Source: SourceScript,
		Events: []Event{
			{Seq: 1, Op: OpInsert, SizeBefore: 0, CapBefore: 1, SizeAfter: 1, CapAfter: 1},
			{Seq: 2, Op: OpInsert, SizeBefore: 1, CapBefore: 1, SizeAfter: 2, CapAfter: 2},
			{Seq: 3, Op: OpGet, Arg: "9", SizeBefore: 2, CapBefore: 2, SizeAfter: 2, CapAfter: 2, ErrorKind: "index_out_of_range"},
			{Seq: 4, Op: OpInsert, SizeBefore: 2, CapBefore: 2, SizeAfter: 3, CapAfter: 4},
		},
	}

	assert.Equal(t, 1, r.Failures())
	assert.Equal(t, 2, r.Resizes())
	assert.True(t, r.Events[2].Failed())
	assert.False(t, r.Events[0].Resized())
}

func TestRunValidate(t *testing.T) {
	assert.NoError(t, (&Run{Source: SourceSelftest}).Validate())
	assert.NoError(t, (&Run{Source: SourceScript}).Validate())
	assert.ErrorIs(t, (&Run{}).Validate(), ErrInvalidSource)
	assert.ErrorIs(t, (&Run{Source: "cron"}).Validate(), ErrInvalidSource)
}

func TestRunFilterValidate(t *testing.T) {
	tests := []struct {
		name    string
		filter  RunFilter
		wantErr error
	}{
		{name: "empty filter", filter: RunFilter{}},
		{name: "source and limit", filter: RunFilter{Source: SourceScript, Limit: 5}},
		{name: "unknown source", filter: RunFilter{Source: "nightly"}, wantErr: ErrInvalidSource},
		{name: "negative limit", filter: RunFilter{Limit: -1}, wantErr: ErrInvalidLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filter.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
