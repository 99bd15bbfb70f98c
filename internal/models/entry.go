package models

import (
	"time"
)

// TimeEntry is the materialized record of a completed work or break span.
// Created exactly once, in the same transaction as the stopped event, and
// immutable afterwards.
//
// DurationSeconds is wall time between start and end minus the timer's
// accumulated pauses, clamped at zero.
type TimeEntry struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	OwnerID         string    `gorm:"not null;index:idx_entry_owner_start" json:"owner_id"`
	TaskID          string    `gorm:"index" json:"task_id,omitempty"`
	CategoryID      string    `gorm:"index" json:"category_id,omitempty"`
	Description     string    `json:"description,omitempty"`
	StartTime       time.Time `gorm:"not null;index:idx_entry_owner_start" json:"start_time"`
	EndTime         time.Time `gorm:"not null" json:"end_time"`
	DurationSeconds int64     `gorm:"not null;default:0" json:"duration_seconds"`
	IsBreak         bool      `gorm:"not null;default:false" json:"is_break"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Hours returns the entry duration in fractional hours.
func (e *TimeEntry) Hours() float64 {
	return float64(e.DurationSeconds) / 3600.0
}
