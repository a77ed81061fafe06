// Tests for the event store: idempotent creation, ordering, range
// queries, completion, and deletion.
package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

func TestEventCreateIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.EventCreate("Standup", "2025-01-10", "09:00"))
	require.NoError(t, s.EventCreate("Standup", "2025-01-10", "09:00"))

	events, err := s.EventListDay("2025-01-10")
	require.NoError(t, err)
	assert.Len(t, events, 1, "duplicate create must leave exactly one row")
}

func TestEventCreateValidation(t *testing.T) {
	s := newTestStore(t)

	assert.ErrorIs(t, s.EventCreate("", "2025-01-10", ""), types.ErrInvalidTitle)
	assert.ErrorIs(t, s.EventCreate("No date", "", ""), types.ErrInvalidDate)
}

func TestEventListDayOrdering(t *testing.T) {
	s := newTestStore(t)

	// Same date, mixed times; the no-time event must sort last.
	require.NoError(t, s.EventCreate("Lunch", "2025-01-10", "13:00"))
	require.NoError(t, s.EventCreate("Sometime", "2025-01-10", ""))
	require.NoError(t, s.EventCreate("Standup", "2025-01-10", "09:00"))

	events, err := s.EventListDay("2025-01-10")
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "Standup", events[0].Title)
	assert.Equal(t, "Lunch", events[1].Title)
	assert.Equal(t, "Sometime", events[2].Title)
}

func TestEventListRange(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.EventCreate("Today", "2025-01-10", "09:00"))
	require.NoError(t, s.EventCreate("Soon", "2025-01-12", "09:00"))
	require.NoError(t, s.EventCreate("Later", "2025-01-20", "09:00"))

	events, err := s.EventListRange("2025-01-10", "2025-01-16")
	require.NoError(t, err)
	require.Len(t, events, 2, "week range must exclude the distant event")
	assert.Equal(t, "Today", events[0].Title)
	assert.Equal(t, "Soon", events[1].Title)
}

func TestEventToggleComplete(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.EventCreate("Standup", "2025-01-10", "09:00"))
	require.NoError(t, s.EventToggleComplete("Standup", "2025-01-10", "09:00", true))

	events, err := s.EventListDay("2025-01-10")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].Completed)

	// Toggling a nonexistent event is not a storage error.
	require.NoError(t, s.EventToggleComplete("Ghost", "2025-01-10", "", true))
}

func TestEventDeleteReturnsCount(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.EventCreate("Standup", "2025-01-10", "09:00"))

	n, err := s.EventDelete("Standup", "2025-01-10", "09:00")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = s.EventDelete("Standup", "2025-01-10", "09:00")
	require.NoError(t, err)
	assert.Zero(t, n, "second delete must report zero rows")
}

func TestEventLifecycleScenario(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.EventCreate("Standup", "2025-01-10", "09:00"))
	require.NoError(t, s.EventToggleComplete("Standup", "2025-01-10", "09:00", true))

	events, err := s.EventListDay("2025-01-10")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].Completed)

	n, err := s.EventDelete("Standup", "2025-01-10", "09:00")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	events, err = s.EventListDay("2025-01-10")
	require.NoError(t, err)
	assert.Empty(t, events)
}
