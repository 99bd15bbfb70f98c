package session

import (
	"testing"
	"time"

	"github.com/worklane/worklane/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func event(id, timerID string, action models.ActivityAction, at time.Time, details models.EventDetails) models.ActivityEvent {
	return models.ActivityEvent{
		ID:        id,
		OwnerID:   "u1",
		TimerID:   timerID,
		Action:    action,
		CreatedAt: at,
		Details:   details,
	}
}

func TestReconstructCompletedSession(t *testing.T) {
	entry := models.TimeEntry{ID: "entry-1", OwnerID: "u1", StartTime: base, EndTime: base.Add(time.Hour), DurationSeconds: 3000}

	// Deliberately out of timeline order: the reconstructor must not trust
	// delivery order.
	events := []models.ActivityEvent{
		event("e4", "t1", models.ActionStopped, base.Add(60*time.Minute), models.EventDetails{TimeEntryID: "entry-1"}),
		event("e1", "t1", models.ActionStarted, base, models.EventDetails{TaskID: "task-1"}),
		event("e3", "t1", models.ActionResumed, base.Add(40*time.Minute), models.EventDetails{PausedSeconds: 600}),
		event("e2", "t1", models.ActionPaused, base.Add(30*time.Minute), models.EventDetails{Reason: "lunch"}),
	}

	sessions := Reconstruct(events, []models.TimeEntry{entry})
	require.Len(t, sessions, 1)

	s := sessions[0]
	assert.Equal(t, "t1", s.TimerID)
	assert.Equal(t, "task-1", s.TaskID)
	assert.True(t, s.Completed)
	require.NotNil(t, s.TimeEntry)
	assert.Equal(t, "entry-1", s.TimeEntry.ID)

	// Timeline order restored: exactly one started first, one stopped last,
	// paired paused/resumed in between.
	require.Len(t, s.Activities, 4)
	assert.Equal(t, models.ActionStarted, s.Activities[0].Action)
	assert.Equal(t, models.ActionPaused, s.Activities[1].Action)
	assert.Equal(t, models.ActionResumed, s.Activities[2].Action)
	assert.Equal(t, models.ActionStopped, s.Activities[3].Action)
}

func TestReconstructActiveSessionHasNoEntry(t *testing.T) {
	events := []models.ActivityEvent{
		event("e1", "t1", models.ActionStarted, base, models.EventDetails{}),
		event("e2", "t1", models.ActionPaused, base.Add(time.Minute), models.EventDetails{}),
	}

	sessions := Reconstruct(events, nil)
	require.Len(t, sessions, 1)
	assert.False(t, sessions[0].Completed)
	assert.Nil(t, sessions[0].TimeEntry)
}

func TestReconstructOrdersMostRecentFirst(t *testing.T) {
	events := []models.ActivityEvent{
		event("e1", "old", models.ActionStarted, base, models.EventDetails{}),
		event("e2", "old", models.ActionStopped, base.Add(time.Hour), models.EventDetails{TimeEntryID: "x"}),
		event("e3", "new", models.ActionStarted, base.Add(2*time.Hour), models.EventDetails{}),
	}

	sessions := Reconstruct(events, nil)
	require.Len(t, sessions, 2)
	assert.Equal(t, "new", sessions[0].TimerID)
	assert.Equal(t, "old", sessions[1].TimerID)
}

func TestReconstructMissingStartedFallsBackToEarliestEvent(t *testing.T) {
	// A range query can clip the started event off the front of a lifecycle.
	events := []models.ActivityEvent{
		event("e2", "t1", models.ActionResumed, base.Add(10*time.Minute), models.EventDetails{}),
		event("e1", "t1", models.ActionPaused, base.Add(5*time.Minute), models.EventDetails{}),
	}

	sessions := Reconstruct(events, nil)
	require.Len(t, sessions, 1)
	assert.Equal(t, base.Add(5*time.Minute), sessions[0].StartedAt)
}

func TestReconstructEmpty(t *testing.T) {
	assert.Nil(t, Reconstruct(nil, nil))
}
