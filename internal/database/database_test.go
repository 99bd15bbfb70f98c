package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/worklane/worklane/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Connect(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.Initialize())
	t.Cleanup(func() { db.Close() })
	return db
}

func newEvent(timerID string, action models.ActivityAction, at time.Time) *models.ActivityEvent {
	return &models.ActivityEvent{
		ID:        uuid.NewString(),
		OwnerID:   "u1",
		TimerID:   timerID,
		Action:    action,
		CreatedAt: at,
	}
}

func TestActivityLogAppendAndRangeQuery(t *testing.T) {
	log := NewActivityLog(newTestDB(t))

	// Appended newest first; the query must come back oldest first.
	require.NoError(t, log.Append(newEvent("t1", models.ActionStopped, base.Add(2*time.Hour))))
	require.NoError(t, log.Append(newEvent("t1", models.ActionStarted, base)))
	require.NoError(t, log.Append(newEvent("t1", models.ActionPaused, base.Add(time.Hour))))

	events, err := log.QueryByDateRange("u1", base, base.Add(24*time.Hour), 0)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, models.ActionStarted, events[0].Action)
	assert.Equal(t, models.ActionPaused, events[1].Action)
	assert.Equal(t, models.ActionStopped, events[2].Action)
}

func TestActivityLogRangeBoundsAndLimit(t *testing.T) {
	log := NewActivityLog(newTestDB(t))

	for i := 0; i < 5; i++ {
		require.NoError(t, log.Append(newEvent("t1", models.ActionStarted, base.Add(time.Duration(i)*time.Hour))))
	}

	// End bound is exclusive.
	events, err := log.QueryByDateRange("u1", base, base.Add(2*time.Hour), 0)
	require.NoError(t, err)
	assert.Len(t, events, 2)

	events, err = log.QueryByDateRange("u1", base, base.Add(24*time.Hour), 3)
	require.NoError(t, err)
	assert.Len(t, events, 3)

	events, err = log.QueryByDateRange("someone-else", base, base.Add(24*time.Hour), 0)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestActivityLogRejectsUnknownAction(t *testing.T) {
	log := NewActivityLog(newTestDB(t))
	err := log.Append(newEvent("t1", "rewound", base))
	assert.Error(t, err)
}

func TestTimerStoreEnforcesOneTimerPerOwner(t *testing.T) {
	store := NewTimerStore(newTestDB(t))

	first := &models.ActiveTimer{ID: uuid.NewString(), OwnerID: "u1", StartTime: base}
	require.NoError(t, store.Create(first))

	// The unique index backs up the service-level invariant.
	second := &models.ActiveTimer{ID: uuid.NewString(), OwnerID: "u1", StartTime: base}
	assert.Error(t, store.Create(second))
}

func TestTimerStoreLifecycle(t *testing.T) {
	store := NewTimerStore(newTestDB(t))

	missing, err := store.GetByOwner("u1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	timer := &models.ActiveTimer{ID: uuid.NewString(), OwnerID: "u1", StartTime: base}
	require.NoError(t, store.Create(timer))

	got, err := store.GetByOwner("u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, timer.ID, got.ID)

	pausedAt := base.Add(time.Minute)
	got.IsPaused = true
	got.PausedAt = &pausedAt
	got.PauseReason = "coffee"
	require.NoError(t, store.Save(got))

	got, err = store.GetByOwner("u1")
	require.NoError(t, err)
	assert.True(t, got.IsPaused)
	require.NotNil(t, got.PausedAt)

	require.NoError(t, store.Delete(timer.ID))
	gone, err := store.GetByOwner("u1")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestEntryStoreRangeQuery(t *testing.T) {
	store := NewEntryStore(newTestDB(t))

	for i := 0; i < 3; i++ {
		start := base.AddDate(0, 0, i)
		require.NoError(t, store.Create(&models.TimeEntry{
			ID:              uuid.NewString(),
			OwnerID:         "u1",
			StartTime:       start,
			EndTime:         start.Add(time.Hour),
			DurationSeconds: 3600,
		}))
	}

	entries, err := store.QueryByDateRange("u1", base, base.AddDate(0, 0, 2))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, entries[0].StartTime.Before(entries[1].StartTime))
}

func TestEntryStoreGetByID(t *testing.T) {
	store := NewEntryStore(newTestDB(t))

	missing, err := store.GetByID(uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, missing)

	entry := &models.TimeEntry{ID: uuid.NewString(), OwnerID: "u1", StartTime: base, EndTime: base.Add(time.Hour), DurationSeconds: 3600}
	require.NoError(t, store.Create(entry))

	got, err := store.GetByID(entry.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.EqualValues(t, 3600, got.DurationSeconds)
}
