package models

import (
	"time"
)

// TimerSession is the read-side reconstruction of one timer lifecycle: the
// activity events sharing a TimerID in timeline order, plus the TimeEntry
// produced at stop if the timer completed. Never persisted.
type TimerSession struct {
	TimerID    string          `json:"timer_id"`
	OwnerID    string          `json:"owner_id"`
	TaskID     string          `json:"task_id,omitempty"`
	TaskTitle  string          `json:"task_title,omitempty"`
	IsBreak    bool            `json:"is_break"`
	StartedAt  time.Time       `json:"started_at"`
	Activities []ActivityEvent `json:"activities"`
	TimeEntry  *TimeEntry      `json:"time_entry,omitempty"`
	Completed  bool            `json:"completed"`
}

// ActivityFeed is the response shape for the activities endpoint: the raw
// events in range, the sessions reconstructed from them, and the completed
// entries they produced. Stale marks a cached feed served because a fresh
// read failed.
type ActivityFeed struct {
	Activities  []ActivityEvent `json:"activities"`
	Sessions    []TimerSession  `json:"sessions"`
	TimeEntries []TimeEntry     `json:"time_entries"`
	Stale       bool            `json:"stale,omitempty"`
}
