package models

import (
	"time"
)

// ActivityAction names a timer state transition.
type ActivityAction string

const (
	ActionStarted ActivityAction = "started"
	ActionPaused  ActivityAction = "paused"
	ActionResumed ActivityAction = "resumed"
	ActionStopped ActivityAction = "stopped"
)

// Valid reports whether a is one of the four known transitions.
func (a ActivityAction) Valid() bool {
	switch a {
	case ActionStarted, ActionPaused, ActionResumed, ActionStopped:
		return true
	}
	return false
}

// ActivityEvent is the immutable record of one timer transition. Events are
// append-only: created exactly once per transition, never updated or deleted.
// The ordered events sharing a TimerID fully determine that timer's history.
type ActivityEvent struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	OwnerID   string         `gorm:"not null;index:idx_activity_owner_created" json:"owner_id"`
	TimerID   string         `gorm:"not null;index" json:"timer_id"`
	Action    ActivityAction `gorm:"not null" json:"action"`
	CreatedAt time.Time      `gorm:"not null;index:idx_activity_owner_created" json:"created_at"`
	Details   EventDetails   `gorm:"embedded;embeddedPrefix:detail_" json:"details"`
}

// EventDetails holds per-action context. Which fields are populated depends
// on the action: started carries the task/description/break flag, paused the
// reason, resumed the pause deltas, stopped the TimeEntry reference.
type EventDetails struct {
	TaskID             string `json:"task_id,omitempty"`
	Description        string `json:"description,omitempty"`
	IsBreak            bool   `json:"is_break,omitempty"`
	Reason             string `json:"reason,omitempty"`
	PausedSeconds      int64  `json:"paused_seconds,omitempty"`
	TotalPausedSeconds int64  `json:"total_paused_seconds,omitempty"`
	TimeEntryID        string `json:"time_entry_id,omitempty"`
}
