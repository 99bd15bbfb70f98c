package database

import (
	"time"

	"github.com/worklane/worklane/internal/models"

	"github.com/pkg/errors"

	"gorm.io/gorm"
)

// EntryStore holds completed TimeEntries. Entries are written once, in the
// same transaction as their stopped event, and read back for stats and
// session display. No mutation path exists here.
type EntryStore struct {
	db *gorm.DB
}

// NewEntryStore creates an entry store backed by db.
func NewEntryStore(db *DB) *EntryStore {
	return &EntryStore{db: db.DB}
}

// WithTx returns an EntryStore bound to an open transaction.
func (s *EntryStore) WithTx(tx *gorm.DB) *EntryStore {
	return &EntryStore{db: tx}
}

// Create inserts a completed entry.
func (s *EntryStore) Create(entry *models.TimeEntry) error {
	if result := s.db.Create(entry); result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert time entry")
	}
	return nil
}

// GetByID returns one entry, or nil if it does not exist.
func (s *EntryStore) GetByID(id string) (*models.TimeEntry, error) {
	var entry models.TimeEntry
	result := s.db.First(&entry, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(result.Error, "failed to get time entry")
	}
	return &entry, nil
}

// QueryByDateRange returns entries for an owner with StartTime in
// [start, end), ordered by StartTime ascending.
func (s *EntryStore) QueryByDateRange(ownerID string, start, end time.Time) ([]models.TimeEntry, error) {
	var entries []models.TimeEntry
	result := s.db.
		Where("owner_id = ? AND start_time >= ? AND start_time < ?", ownerID, start, end).
		Order("start_time ASC").
		Find(&entries)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query time entries")
	}
	return entries, nil
}
