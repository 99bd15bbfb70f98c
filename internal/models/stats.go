package models

import (
	"time"
)

// Period is a half-open [Start, End) reporting window.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Type  string    `json:"type,omitempty"` // "day", "week", "month" or "custom"
}

// BreakdownSlice is one row of a task or category breakdown.
type BreakdownSlice struct {
	Key        string  `json:"key"`
	Label      string  `json:"label"`
	Hours      float64 `json:"hours"`
	Percentage float64 `json:"percentage"`
}

// TrendPoint is one calendar day of the trend series.
type TrendPoint struct {
	Date  string  `json:"date"`  // 2006-01-02
	Label string  `json:"label"` // short weekday name, Monday-first weeks
	Hours float64 `json:"hours"`
}

// StatsSnapshot aggregates TimeEntries over a period. Recomputed on demand,
// never the source of truth. Stale marks a cached snapshot served because a
// fresh aggregation failed.
type StatsSnapshot struct {
	Period            Period           `json:"period"`
	TotalHours        float64          `json:"total_hours"`
	ProductiveHours   float64          `json:"productive_hours"`
	BreakHours        float64          `json:"break_hours"`
	Efficiency        int              `json:"efficiency"` // rounded percent, 0 when no time
	TaskBreakdown     []BreakdownSlice `json:"task_breakdown"`
	CategoryBreakdown []BreakdownSlice `json:"category_breakdown"`
	WeeklyTrend       []TrendPoint     `json:"weekly_trend"`
	EntryCount        int              `json:"entry_count"`
	GeneratedAt       time.Time        `json:"generated_at"`
	Stale             bool             `json:"stale,omitempty"`
}
