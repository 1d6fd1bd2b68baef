package moderation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/reviewboard/models"
)

func TestTaskIndexSemantics(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	idx := s.AddTask(ctx, "review the queue")
	require.Equal(t, 0, idx)
	require.Len(t, s.Tasks(), 1)

	assert.True(t, s.ResolveTask(ctx, idx))
	assert.Empty(t, s.Tasks())

	// the index no longer exists
	assert.False(t, s.ResolveTask(ctx, idx))
}

func TestResolveShiftsIndices(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.AddTask(ctx, "one")
	s.AddTask(ctx, "two")
	s.AddTask(ctx, "three")

	require.True(t, s.ResolveTask(ctx, 0))
	assert.Equal(t, []string{"two", "three"}, s.Tasks())

	// index 0 now names what used to be index 1
	require.True(t, s.ResolveTask(ctx, 0))
	assert.Equal(t, []string{"three"}, s.Tasks())
}

func TestResolveOutOfBounds(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	s.AddTask(ctx, "only one")

	assert.False(t, s.ResolveTask(ctx, -1))
	assert.False(t, s.ResolveTask(ctx, 1))
	assert.Len(t, s.Tasks(), 1)
}

func TestAddTaskRejectsBlank(t *testing.T) {
	s := newTestStore(t)
	assert.Equal(t, -1, s.AddTask(context.Background(), "   "))
	assert.Empty(t, s.Tasks())
}

func TestResolveDeletesOldestMatchingRow(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.AddTask(ctx, "dup")
	s.AddTask(ctx, "dup")
	require.True(t, s.ResolveTask(ctx, 0))

	var rows []models.Task
	require.NoError(t, s.db.Order("id ASC").Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "dup", rows[0].Description)
}

func TestObserverFanout(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	var first, second [][]string
	id1 := s.RegisterTaskObserver(func(tasks []string) { first = append(first, tasks) })
	id2 := s.RegisterTaskObserver(func(tasks []string) { second = append(second, tasks) })
	_ = id1

	s.AddTask(ctx, "fan out")
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, []string{"fan out"}, first[0])
	assert.Equal(t, []string{"fan out"}, second[0])

	s.UnregisterTaskObserver(id2)
	s.AddTask(ctx, "after unregister")
	assert.Len(t, first, 2)
	assert.Len(t, second, 1)
}

func TestObserverPanicIsolated(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.RegisterTaskObserver(func([]string) { panic("bad observer") })
	var got []string
	s.RegisterTaskObserver(func(tasks []string) { got = tasks })

	idx := s.AddTask(ctx, "survives panic")
	assert.Equal(t, 0, idx)
	assert.Equal(t, []string{"survives panic"}, got)
	assert.Len(t, s.Tasks(), 1)
}

func TestObserverSnapshotIsCopy(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.RegisterTaskObserver(func(tasks []string) {
		if len(tasks) > 0 {
			tasks[0] = "mutated"
		}
	})
	s.AddTask(ctx, "original")
	assert.Equal(t, []string{"original"}, s.Tasks())
}
