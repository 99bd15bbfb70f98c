package timer

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/worklane/worklane/internal/database"
	"github.com/worklane/worklane/internal/models"
	"github.com/worklane/worklane/internal/notify"
	"github.com/worklane/worklane/pkg/clock"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *clock.Fake, *database.DB) {
	t.Helper()

	db, err := database.Connect(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.Initialize())
	t.Cleanup(func() { db.Close() })

	clk := clock.NewFake(time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local))
	svc := NewService(db, clk, nil, zerolog.Nop())
	return svc, clk, db
}

func TestStartPauseResumeStop(t *testing.T) {
	svc, clk, _ := newTestService(t)

	started, err := svc.Start("u1", models.StartRequest{TaskID: "task-1", Description: "write report"})
	require.NoError(t, err)
	require.NotEmpty(t, started.ID)
	assert.False(t, started.IsBreak)
	assert.False(t, started.IsPaused)
	assert.EqualValues(t, 0, started.TotalPausedSeconds)

	clk.Advance(300 * time.Second)
	paused, err := svc.Pause("u1", "lunch")
	require.NoError(t, err)
	assert.Equal(t, "lunch", paused.Reason)

	clk.Advance(600 * time.Second)
	resumed, err := svc.Resume("u1")
	require.NoError(t, err)
	assert.EqualValues(t, 600, resumed.PausedSeconds)
	assert.EqualValues(t, 600, resumed.TotalPausedSeconds)

	clk.Advance(300 * time.Second)
	entry, err := svc.Stop("u1")
	require.NoError(t, err)
	assert.EqualValues(t, 600, entry.DurationSeconds)
	assert.Equal(t, "task-1", entry.TaskID)
	assert.EqualValues(t, 1200, entry.EndTime.Sub(entry.StartTime).Seconds())

	status, err := svc.Status("u1")
	require.NoError(t, err)
	assert.False(t, status.HasActiveTimer)
}

func TestStartConflict(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Start("u1", models.StartRequest{})
	require.NoError(t, err)

	_, err = svc.Start("u1", models.StartRequest{})
	require.Error(t, err)
	assert.True(t, IsConflict(err))

	// A different owner is unaffected.
	_, err = svc.Start("u2", models.StartRequest{IsBreak: true})
	require.NoError(t, err)
}

func TestImmediateStop(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Start("u1", models.StartRequest{})
	require.NoError(t, err)

	entry, err := svc.Stop("u1")
	require.NoError(t, err)
	assert.EqualValues(t, 0, entry.DurationSeconds)
}

func TestInvalidTransitions(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Resume("u1")
	assert.True(t, IsNotFound(err), "resume with no timer: %v", err)

	_, err = svc.Pause("u1", "")
	assert.True(t, IsNotFound(err), "pause with no timer: %v", err)

	_, err = svc.Stop("u1")
	assert.True(t, IsNotFound(err), "stop with no timer: %v", err)

	_, err = svc.Start("u1", models.StartRequest{})
	require.NoError(t, err)

	_, err = svc.Resume("u1")
	assert.True(t, IsInvalidState(err), "resume while running: %v", err)

	_, err = svc.Pause("u1", "coffee")
	require.NoError(t, err)

	_, err = svc.Pause("u1", "again")
	assert.True(t, IsInvalidState(err), "pause while paused: %v", err)
}

func TestStopWhilePausedFoldsOpenPause(t *testing.T) {
	svc, clk, _ := newTestService(t)

	_, err := svc.Start("u1", models.StartRequest{})
	require.NoError(t, err)

	clk.Advance(100 * time.Second)
	_, err = svc.Pause("u1", "meeting")
	require.NoError(t, err)

	// The final pause span (50s) must not be lost.
	clk.Advance(50 * time.Second)
	entry, err := svc.Stop("u1")
	require.NoError(t, err)
	assert.EqualValues(t, 100, entry.DurationSeconds)
}

func TestPausedTotalAccumulatesAcrossCycles(t *testing.T) {
	svc, clk, _ := newTestService(t)

	_, err := svc.Start("u1", models.StartRequest{})
	require.NoError(t, err)

	clk.Advance(100 * time.Second)
	_, err = svc.Pause("u1", "standup")
	require.NoError(t, err)
	clk.Advance(30 * time.Second)
	first, err := svc.Resume("u1")
	require.NoError(t, err)
	assert.EqualValues(t, 30, first.PausedSeconds)
	assert.EqualValues(t, 30, first.TotalPausedSeconds)

	clk.Advance(100 * time.Second)
	_, err = svc.Pause("u1", "lunch")
	require.NoError(t, err)
	clk.Advance(70 * time.Second)
	second, err := svc.Resume("u1")
	require.NoError(t, err)
	assert.EqualValues(t, 70, second.PausedSeconds)
	assert.EqualValues(t, 100, second.TotalPausedSeconds)

	// 400s wall, 100s paused over two cycles.
	clk.Advance(100 * time.Second)
	entry, err := svc.Stop("u1")
	require.NoError(t, err)
	assert.EqualValues(t, 300, entry.DurationSeconds)
}

func TestStopRollsBackOnStorageFailure(t *testing.T) {
	svc, clk, db := newTestService(t)

	_, err := svc.Start("u1", models.StartRequest{})
	require.NoError(t, err)
	clk.Advance(60 * time.Second)

	// Break the event log so the commit cannot complete after the entry
	// insert succeeds.
	require.NoError(t, db.Exec("DROP TABLE activity_events").Error)

	_, err = svc.Stop("u1")
	require.Error(t, err)
	assert.True(t, IsStorage(err))

	// Nothing partial survives the rollback: the timer is still active and
	// no entry was written.
	status, err := svc.Status("u1")
	require.NoError(t, err)
	assert.True(t, status.HasActiveTimer)

	entries, err := database.NewEntryStore(db).QueryByDateRange("u1", time.Time{}, clk.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStatusElapsed(t *testing.T) {
	svc, clk, _ := newTestService(t)

	_, err := svc.Start("u1", models.StartRequest{})
	require.NoError(t, err)

	var last int64
	for i := 0; i < 3; i++ {
		status, err := svc.Status("u1")
		require.NoError(t, err)
		require.True(t, status.HasActiveTimer)
		assert.GreaterOrEqual(t, status.ElapsedSeconds, last)
		last = status.ElapsedSeconds
		clk.Advance(7 * time.Second)
	}
	assert.EqualValues(t, 14, last)

	_, err = svc.Pause("u1", "")
	require.NoError(t, err)

	// Frozen while paused, regardless of clock movement.
	frozen, err := svc.Status("u1")
	require.NoError(t, err)
	clk.Advance(time.Minute)
	again, err := svc.Status("u1")
	require.NoError(t, err)
	assert.Equal(t, frozen.ElapsedSeconds, again.ElapsedSeconds)
}

func TestActivityEventsRecorded(t *testing.T) {
	svc, clk, db := newTestService(t)
	log := database.NewActivityLog(db)

	started, err := svc.Start("u1", models.StartRequest{TaskID: "task-9"})
	require.NoError(t, err)
	clk.Advance(10 * time.Second)
	_, err = svc.Pause("u1", "phone call")
	require.NoError(t, err)
	clk.Advance(20 * time.Second)
	_, err = svc.Resume("u1")
	require.NoError(t, err)
	clk.Advance(5 * time.Second)
	entry, err := svc.Stop("u1")
	require.NoError(t, err)

	events, err := log.QueryByTimerID(started.ID)
	require.NoError(t, err)
	require.Len(t, events, 4)

	assert.Equal(t, models.ActionStarted, events[0].Action)
	assert.Equal(t, "task-9", events[0].Details.TaskID)

	assert.Equal(t, models.ActionPaused, events[1].Action)
	assert.Equal(t, "phone call", events[1].Details.Reason)

	assert.Equal(t, models.ActionResumed, events[2].Action)
	assert.EqualValues(t, 20, events[2].Details.PausedSeconds)
	assert.EqualValues(t, 20, events[2].Details.TotalPausedSeconds)

	assert.Equal(t, models.ActionStopped, events[3].Action)
	assert.Equal(t, entry.ID, events[3].Details.TimeEntryID)
}

func TestConcurrentStartSingleWinner(t *testing.T) {
	svc, _, _ := newTestService(t)

	const attempts = 16
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Start("u1", models.StartRequest{})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		if err == nil {
			wins++
		} else if IsConflict(err) {
			conflicts++
		} else {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, attempts-1, conflicts)
}

func TestRefreshNotified(t *testing.T) {
	db, err := database.Connect(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.Initialize())
	t.Cleanup(func() { db.Close() })

	hub := notify.NewHub()
	ch, cancel := hub.Subscribe()
	defer cancel()

	clk := clock.NewFake(time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local))
	svc := NewService(db, clk, hub, zerolog.Nop())

	_, err = svc.Start("u1", models.StartRequest{})
	require.NoError(t, err)

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a refresh signal after start")
	}
}
