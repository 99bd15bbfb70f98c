package timer

import (
	"sync"
	"time"

	"github.com/worklane/worklane/internal/database"
	"github.com/worklane/worklane/internal/models"
	"github.com/worklane/worklane/pkg/clock"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Refresher receives a fire-and-forget signal after every successful
// transition so dependent readers re-pull state.
type Refresher interface {
	Notify()
}

// Service is the timer state machine. It owns the single-active-timer
// invariant per owner: all mutating operations for one owner are serialized
// through a per-owner lock, append an activity event, and on Stop
// materialize a TimeEntry in the same transaction.
//
// Reads (Status) take no lock and may observe at most one in-flight
// transition behind the write path.
type Service struct {
	db      *database.DB
	timers  *database.TimerStore
	log     *database.ActivityLog
	entries *database.EntryStore
	clock   clock.Clock
	refresh Refresher
	logger  zerolog.Logger

	mu     sync.Mutex
	owners map[string]*sync.Mutex
}

// NewService creates the state machine. refresh may be nil.
func NewService(db *database.DB, clk clock.Clock, refresh Refresher, logger zerolog.Logger) *Service {
	return &Service{
		db:      db,
		timers:  database.NewTimerStore(db),
		log:     database.NewActivityLog(db),
		entries: database.NewEntryStore(db),
		clock:   clk,
		refresh: refresh,
		logger:  logger.With().Str("component", "timer").Logger(),
		owners:  make(map[string]*sync.Mutex),
	}
}

// ownerLock returns the mutex serializing mutations for one owner,
// creating it on first use. Entries are never evicted: one mutex lives per
// owner ever seen, a few words each.
func (s *Service) ownerLock(ownerID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.owners[ownerID]
	if !ok {
		lock = &sync.Mutex{}
		s.owners[ownerID] = lock
	}
	return lock
}

func (s *Service) notifyRefresh() {
	if s.refresh != nil {
		s.refresh.Notify()
	}
}

// Start begins a new timer lifecycle for the owner. Fails with a conflict
// error if a timer is already running.
func (s *Service) Start(ownerID string, req models.StartRequest) (*models.ActiveTimer, error) {
	lock := s.ownerLock(ownerID)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.timers.GetByOwner(ownerID)
	if err != nil {
		return nil, newStorage(ownerID, err)
	}
	if existing != nil {
		return nil, newConflict(ownerID)
	}

	now := s.clock.Now()
	timer := &models.ActiveTimer{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		TaskID:      req.TaskID,
		Description: req.Description,
		IsBreak:     req.IsBreak,
		StartTime:   now,
	}
	event := &models.ActivityEvent{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		TimerID:   timer.ID,
		Action:    models.ActionStarted,
		CreatedAt: now,
		Details: models.EventDetails{
			TaskID:      req.TaskID,
			Description: req.Description,
			IsBreak:     req.IsBreak,
		},
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.timers.WithTx(tx).Create(timer); err != nil {
			return err
		}
		return s.log.WithTx(tx).Append(event)
	})
	if err != nil {
		return nil, newStorage(ownerID, err)
	}

	s.logger.Info().
		Str("owner", ownerID).
		Str("timer", timer.ID).
		Bool("break", timer.IsBreak).
		Msg("timer started")
	s.notifyRefresh()
	return timer, nil
}

// Pause suspends the running timer. The open pause interval is accounted
// later, when it ends at resume or stop.
func (s *Service) Pause(ownerID, reason string) (*models.PauseResult, error) {
	lock := s.ownerLock(ownerID)
	lock.Lock()
	defer lock.Unlock()

	timer, err := s.timers.GetByOwner(ownerID)
	if err != nil {
		return nil, newStorage(ownerID, err)
	}
	if timer == nil {
		return nil, newNotFound(ownerID)
	}
	if timer.IsPaused {
		return nil, newInvalidState(ownerID, "timer is already paused")
	}

	now := s.clock.Now()
	timer.IsPaused = true
	timer.PausedAt = &now
	timer.PauseReason = reason

	event := &models.ActivityEvent{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		TimerID:   timer.ID,
		Action:    models.ActionPaused,
		CreatedAt: now,
		Details:   models.EventDetails{Reason: reason},
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.timers.WithTx(tx).Save(timer); err != nil {
			return err
		}
		return s.log.WithTx(tx).Append(event)
	})
	if err != nil {
		return nil, newStorage(ownerID, err)
	}

	s.logger.Info().Str("owner", ownerID).Str("timer", timer.ID).Str("reason", reason).Msg("timer paused")
	s.notifyRefresh()
	return &models.PauseResult{PausedAt: now, Reason: reason}, nil
}

// Resume ends the current pause interval, folding it into the running
// total. The resumed event records both the just-ended pause and the new
// total so sessions can display them without recomputation.
func (s *Service) Resume(ownerID string) (*models.ResumeResult, error) {
	lock := s.ownerLock(ownerID)
	lock.Lock()
	defer lock.Unlock()

	timer, err := s.timers.GetByOwner(ownerID)
	if err != nil {
		return nil, newStorage(ownerID, err)
	}
	if timer == nil {
		return nil, newNotFound(ownerID)
	}
	if !timer.IsPaused || timer.PausedAt == nil {
		return nil, newInvalidState(ownerID, "timer is not paused")
	}

	now := s.clock.Now()
	pausedSeconds := pauseSpan(*timer.PausedAt, now)
	timer.TotalPausedSeconds += pausedSeconds
	timer.IsPaused = false
	timer.PausedAt = nil
	timer.PauseReason = ""

	event := &models.ActivityEvent{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		TimerID:   timer.ID,
		Action:    models.ActionResumed,
		CreatedAt: now,
		Details: models.EventDetails{
			PausedSeconds:      pausedSeconds,
			TotalPausedSeconds: timer.TotalPausedSeconds,
		},
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.timers.WithTx(tx).Save(timer); err != nil {
			return err
		}
		return s.log.WithTx(tx).Append(event)
	})
	if err != nil {
		return nil, newStorage(ownerID, err)
	}

	s.logger.Info().
		Str("owner", ownerID).
		Str("timer", timer.ID).
		Int64("paused_seconds", pausedSeconds).
		Msg("timer resumed")
	s.notifyRefresh()
	return &models.ResumeResult{
		PausedSeconds:      pausedSeconds,
		TotalPausedSeconds: timer.TotalPausedSeconds,
	}, nil
}

// Stop completes the timer lifecycle. A still-open pause interval is folded
// into the total first, so stopping a paused timer never loses the final
// pause span. The TimeEntry, the stopped event, and the timer deletion
// commit in one transaction: either all exist or none do.
func (s *Service) Stop(ownerID string) (*models.TimeEntry, error) {
	lock := s.ownerLock(ownerID)
	lock.Lock()
	defer lock.Unlock()

	timer, err := s.timers.GetByOwner(ownerID)
	if err != nil {
		return nil, newStorage(ownerID, err)
	}
	if timer == nil {
		return nil, newNotFound(ownerID)
	}

	now := s.clock.Now()
	if timer.IsPaused && timer.PausedAt != nil {
		timer.TotalPausedSeconds += pauseSpan(*timer.PausedAt, now)
	}

	duration := int64(now.Sub(timer.StartTime).Seconds()) - timer.TotalPausedSeconds
	if duration < 0 {
		duration = 0
	}

	entry := &models.TimeEntry{
		ID:              uuid.NewString(),
		OwnerID:         ownerID,
		TaskID:          timer.TaskID,
		Description:     timer.Description,
		StartTime:       timer.StartTime,
		EndTime:         now,
		DurationSeconds: duration,
		IsBreak:         timer.IsBreak,
	}
	event := &models.ActivityEvent{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		TimerID:   timer.ID,
		Action:    models.ActionStopped,
		CreatedAt: now,
		Details: models.EventDetails{
			TimeEntryID:        entry.ID,
			TotalPausedSeconds: timer.TotalPausedSeconds,
		},
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.entries.WithTx(tx).Create(entry); err != nil {
			return err
		}
		if err := s.log.WithTx(tx).Append(event); err != nil {
			return err
		}
		return s.timers.WithTx(tx).Delete(timer.ID)
	})
	if err != nil {
		return nil, newStorage(ownerID, err)
	}

	s.logger.Info().
		Str("owner", ownerID).
		Str("timer", timer.ID).
		Str("entry", entry.ID).
		Int64("duration_seconds", duration).
		Msg("timer stopped")
	s.notifyRefresh()
	return entry, nil
}

// Status returns the owner's current snapshot. Pure read; elapsed seconds
// are computed server-side so a paused timer reports a frozen value.
func (s *Service) Status(ownerID string) (*models.TimerStatus, error) {
	timer, err := s.timers.GetByOwner(ownerID)
	if err != nil {
		return nil, newStorage(ownerID, err)
	}

	now := s.clock.Now()
	status := &models.TimerStatus{ServerTime: now}
	if timer != nil {
		status.HasActiveTimer = true
		status.Timer = timer
		status.ElapsedSeconds = timer.ElapsedSecondsAt(now)
	}
	return status, nil
}

// pauseSpan returns the non-negative length of a pause interval in seconds.
func pauseSpan(from, to time.Time) int64 {
	span := int64(to.Sub(from).Seconds())
	if span < 0 {
		span = 0
	}
	return span
}
