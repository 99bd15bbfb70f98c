package database

import (
	"time"

	"github.com/worklane/worklane/internal/models"

	"github.com/pkg/errors"

	"gorm.io/gorm"
)

// ActivityLog is the append-only store for timer transition events. The
// public contract has no update or delete: corrections are modeled as new
// events, never rewrites.
type ActivityLog struct {
	db *gorm.DB
}

// NewActivityLog creates an activity log backed by db.
func NewActivityLog(db *DB) *ActivityLog {
	return &ActivityLog{db: db.DB}
}

// WithTx returns an ActivityLog bound to an open transaction.
func (l *ActivityLog) WithTx(tx *gorm.DB) *ActivityLog {
	return &ActivityLog{db: tx}
}

// Append writes a single event. A write failure never leaves a partial row.
func (l *ActivityLog) Append(event *models.ActivityEvent) error {
	if !event.Action.Valid() {
		return errors.Errorf("unknown activity action %q", event.Action)
	}
	if result := l.db.Create(event); result.Error != nil {
		return errors.Wrap(result.Error, "failed to append activity event")
	}
	return nil
}

// QueryByDateRange returns events for an owner with CreatedAt in
// [start, end), ordered by CreatedAt ascending. limit <= 0 means no limit.
func (l *ActivityLog) QueryByDateRange(ownerID string, start, end time.Time, limit int) ([]models.ActivityEvent, error) {
	var events []models.ActivityEvent
	q := l.db.
		Where("owner_id = ? AND created_at >= ? AND created_at < ?", ownerID, start, end).
		Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if result := q.Find(&events); result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query activity events")
	}
	return events, nil
}

// QueryByTimerID returns every event of one timer lifecycle, ordered by
// CreatedAt ascending.
func (l *ActivityLog) QueryByTimerID(timerID string) ([]models.ActivityEvent, error) {
	var events []models.ActivityEvent
	result := l.db.Where("timer_id = ?", timerID).Order("created_at ASC").Find(&events)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query timer events")
	}
	return events, nil
}
