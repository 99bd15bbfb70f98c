package models

import (
	"time"
)

// ActiveTimer is the single in-flight timer record for an owner. The ID is
// the timer lifecycle identifier: every activity event emitted between start
// and stop carries it, and it is how sessions are reconstructed later.
//
// At most one row exists per owner (unique index on owner_id). PausedAt is
// set iff IsPaused. TotalPausedSeconds only grows, and only when a pause
// interval ends (resume or stop).
type ActiveTimer struct {
	ID                 string     `gorm:"primaryKey;size:36" json:"id"`
	OwnerID            string     `gorm:"uniqueIndex;not null" json:"owner_id"`
	TaskID             string     `gorm:"index" json:"task_id,omitempty"`
	Description        string     `json:"description,omitempty"`
	IsBreak            bool       `gorm:"not null;default:false" json:"is_break"`
	StartTime          time.Time  `gorm:"not null" json:"start_time"`
	IsPaused           bool       `gorm:"not null;default:false" json:"is_paused"`
	PausedAt           *time.Time `json:"paused_at,omitempty"`
	PauseReason        string     `json:"pause_reason,omitempty"`
	TotalPausedSeconds int64      `gorm:"not null;default:0" json:"total_paused_seconds"`
	CreatedAt          time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime" json:"-"`
}

// ElapsedSecondsAt returns the worked seconds at the given instant: wall time
// since start minus accumulated pauses. While paused the value is frozen at
// the moment the pause began. Never negative.
func (t *ActiveTimer) ElapsedSecondsAt(now time.Time) int64 {
	end := now
	if t.IsPaused && t.PausedAt != nil {
		end = *t.PausedAt
	}
	elapsed := int64(end.Sub(t.StartTime).Seconds()) - t.TotalPausedSeconds
	if elapsed < 0 {
		elapsed = 0
	}
	return elapsed
}

// TimerStatus is the snapshot returned by the status endpoint. ElapsedSeconds
// is server-computed so clients can freeze the display while paused without
// doing their own pause arithmetic.
type TimerStatus struct {
	HasActiveTimer bool         `json:"has_active_timer"`
	Timer          *ActiveTimer `json:"timer,omitempty"`
	ElapsedSeconds int64        `json:"elapsed_seconds"`
	ServerTime     time.Time    `json:"server_time"`
}

// StartRequest carries the options for starting a timer.
type StartRequest struct {
	TaskID      string `json:"task_id,omitempty"`
	Description string `json:"description,omitempty"`
	IsBreak     bool   `json:"is_break,omitempty"`
}

// PauseRequest carries the optional pause reason.
type PauseRequest struct {
	Reason string `json:"reason,omitempty"`
}

// PauseResult reports when the pause took effect.
type PauseResult struct {
	PausedAt time.Time `json:"paused_at"`
	Reason   string    `json:"reason,omitempty"`
}

// ResumeResult reports the just-ended pause interval and the new running total.
type ResumeResult struct {
	PausedSeconds      int64 `json:"paused_seconds"`
	TotalPausedSeconds int64 `json:"total_paused_seconds"`
}
