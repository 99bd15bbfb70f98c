package database

import (
	"github.com/worklane/worklane/internal/models"

	"github.com/pkg/errors"

	"gorm.io/gorm"
)

// TimerStore holds the per-owner ActiveTimer rows. The unique index on
// owner_id backs the "at most one active timer per owner" invariant at the
// storage layer; the timer service serializes writers above it.
type TimerStore struct {
	db *gorm.DB
}

// NewTimerStore creates a timer store backed by db.
func NewTimerStore(db *DB) *TimerStore {
	return &TimerStore{db: db.DB}
}

// WithTx returns a TimerStore bound to an open transaction.
func (s *TimerStore) WithTx(tx *gorm.DB) *TimerStore {
	return &TimerStore{db: tx}
}

// GetByOwner returns the owner's active timer, or nil if none exists.
func (s *TimerStore) GetByOwner(ownerID string) (*models.ActiveTimer, error) {
	var timer models.ActiveTimer
	result := s.db.Where("owner_id = ?", ownerID).First(&timer)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(result.Error, "failed to get active timer")
	}
	return &timer, nil
}

// Create inserts a new active timer. Fails if the owner already has one.
func (s *TimerStore) Create(timer *models.ActiveTimer) error {
	if result := s.db.Create(timer); result.Error != nil {
		return errors.Wrap(result.Error, "failed to create active timer")
	}
	return nil
}

// Save persists pause/resume mutations of an existing timer.
func (s *TimerStore) Save(timer *models.ActiveTimer) error {
	result := s.db.Save(timer)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update active timer")
	}
	if result.RowsAffected == 0 {
		return errors.New("active timer not found")
	}
	return nil
}

// Delete removes the timer row, returning the owner to idle.
func (s *TimerStore) Delete(timerID string) error {
	result := s.db.Where("id = ?", timerID).Delete(&models.ActiveTimer{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete active timer")
	}
	return nil
}
