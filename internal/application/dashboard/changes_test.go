package dashboard

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ProjectPulse/internal/domain/board"
	"github.com/turtacn/ProjectPulse/internal/domain/snapshot"
	"github.com/turtacn/ProjectPulse/internal/testutil"
)

// stubService records Invalidate and Snapshot calls.
type stubService struct {
	Service
	invalidated   [][]string
	invalidateErr error
	snapshots     int
	snapshotErr   error
}

func (s *stubService) Invalidate(_ context.Context, ids ...string) error {
	if s.invalidateErr != nil {
		return s.invalidateErr
	}
	s.invalidated = append(s.invalidated, ids)
	return nil
}

func (s *stubService) Snapshot(context.Context) (*snapshot.Ref, error) {
	if s.snapshotErr != nil {
		return nil, s.snapshotErr
	}
	s.snapshots++
	return &snapshot.Ref{ID: fmt.Sprintf("snap-%d", s.snapshots)}, nil
}

func (s *stubService) Summary(context.Context) (*board.Summary, error) {
	return &board.Summary{}, nil
}

func TestRecordChangedEvent_AffectedProject(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		evt  RecordChangedEvent
		want string
	}{
		{"project record", RecordChangedEvent{RecordType: "project", RecordID: "p-1"}, "p-1"},
		{"task with project", RecordChangedEvent{RecordType: "task", RecordID: "t-1", ProjectID: "p-2"}, "p-2"},
		{"orphan task", RecordChangedEvent{RecordType: "task", RecordID: "t-1"}, ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.evt.AffectedProject())
		})
	}
}

func TestChangeProcessor_HandleInvalidates(t *testing.T) {
	t.Parallel()
	svc := &stubService{}
	p := NewChangeProcessor(svc, testutil.NewMockLogger(), false)

	require.NoError(t, p.Handle(context.Background(), RecordChangedEvent{RecordType: "project", RecordID: "p-1"}))
	require.NoError(t, p.Handle(context.Background(), RecordChangedEvent{RecordType: "task", RecordID: "t-9"}))

	assert.Equal(t, [][]string{{"p-1"}, nil}, svc.invalidated)
	assert.Equal(t, 1, p.Pending())

	require.NoError(t, p.Flush(context.Background()))
	assert.Equal(t, 0, svc.snapshots, "snapshots disabled")
	assert.Equal(t, 0, p.Pending())
}

func TestChangeProcessor_HandleError(t *testing.T) {
	t.Parallel()
	svc := &stubService{invalidateErr: fmt.Errorf("cache down")}
	p := NewChangeProcessor(svc, nil, true)

	err := p.Handle(context.Background(), RecordChangedEvent{RecordType: "project", RecordID: "p-1"})
	require.Error(t, err)
	assert.Equal(t, 0, p.Pending())

	require.NoError(t, p.Flush(context.Background()))
	assert.Equal(t, 0, svc.snapshots, "nothing changed")
}

func TestChangeProcessor_FlushSnapshotsOncePerBatch(t *testing.T) {
	t.Parallel()
	svc := &stubService{}
	p := NewChangeProcessor(svc, nil, true)

	for _, id := range []string{"p-1", "p-2", "p-1"} {
		require.NoError(t, p.Handle(context.Background(), RecordChangedEvent{RecordType: "project", RecordID: id}))
	}
	assert.Equal(t, 2, p.Pending())

	require.NoError(t, p.Flush(context.Background()))
	require.NoError(t, p.Flush(context.Background()))
	assert.Equal(t, 1, svc.snapshots)
}

func TestChangeProcessor_FlushRetriesFailedSnapshot(t *testing.T) {
	t.Parallel()
	svc := &stubService{snapshotErr: fmt.Errorf("store down")}
	p := NewChangeProcessor(svc, nil, true)

	require.NoError(t, p.Handle(context.Background(), RecordChangedEvent{RecordType: "project", RecordID: "p-1"}))
	require.Error(t, p.Flush(context.Background()))
	assert.Equal(t, 1, p.Pending())

	svc.snapshotErr = nil
	require.NoError(t, p.Flush(context.Background()))
	assert.Equal(t, 1, svc.snapshots)
	assert.Equal(t, 0, p.Pending())
}

//Personal.AI order the ending
