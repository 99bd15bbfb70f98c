package stats

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/worklane/worklane/internal/database"
	"github.com/worklane/worklane/internal/directory"
	"github.com/worklane/worklane/internal/models"
	"github.com/worklane/worklane/pkg/clock"
	"github.com/worklane/worklane/pkg/timeutil"

	"github.com/rs/zerolog"
)

// Aggregator computes productivity rollups from TimeEntries. Snapshots are
// derived on demand and never persisted as source of truth; the last good
// snapshot per owner and period is kept so a failed read can degrade to a
// stale answer instead of blocking the caller.
type Aggregator struct {
	entries *database.EntryStore
	dir     *directory.Directory
	clock   clock.Clock
	logger  zerolog.Logger

	mu    sync.Mutex
	cache map[string]*models.StatsSnapshot
}

func New(entries *database.EntryStore, dir *directory.Directory, clk clock.Clock, logger zerolog.Logger) *Aggregator {
	return &Aggregator{
		entries: entries,
		dir:     dir,
		clock:   clk,
		logger:  logger.With().Str("component", "stats").Logger(),
		cache:   make(map[string]*models.StatsSnapshot),
	}
}

// Period resolves a named reporting window ("day", "week", "month") to a
// half-open range anchored at the current clock time.
func (a *Aggregator) Period(periodType string) (models.Period, error) {
	now := a.clock.Now()
	var start, end time.Time

	switch periodType {
	case "day", "today":
		start = timeutil.DayStart(now)
		end = start.AddDate(0, 0, 1)
	case "week":
		start = timeutil.WeekStart(now)
		end = start.AddDate(0, 0, 7)
	case "month":
		start = timeutil.MonthStart(now)
		end = start.AddDate(0, 1, 0)
	default:
		return models.Period{}, fmt.Errorf("invalid period type: %s (valid: day, week, month)", periodType)
	}

	return models.Period{Start: start, End: end, Type: periodType}, nil
}

// Snapshot aggregates the owner's entries over the period. On a storage
// failure the previously computed snapshot is returned with Stale set,
// when one exists.
func (a *Aggregator) Snapshot(ownerID string, period models.Period) (*models.StatsSnapshot, error) {
	entries, err := a.entries.QueryByDateRange(ownerID, period.Start, period.End)
	if err != nil {
		a.logger.Warn().Err(err).Str("owner", ownerID).Msg("aggregation query failed")
		if cached := a.cached(ownerID, period); cached != nil {
			stale := *cached
			stale.Stale = true
			return &stale, nil
		}
		return nil, err
	}

	snapshot := Compute(entries, period, a.dir, a.clock.Now())
	a.store(ownerID, period, snapshot)
	return snapshot, nil
}

func cacheKey(ownerID string, period models.Period) string {
	return ownerID + "|" + timeutil.DayKey(period.Start) + "|" + timeutil.DayKey(period.End)
}

func (a *Aggregator) cached(ownerID string, period models.Period) *models.StatsSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cache[cacheKey(ownerID, period)]
}

func (a *Aggregator) store(ownerID string, period models.Period, s *models.StatsSnapshot) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cache[cacheKey(ownerID, period)] = s
}

// Labeler resolves display names for breakdown rows.
type Labeler interface {
	TaskLabel(id string) string
	CategoryLabel(id string) string
}

// Compute is the pure aggregation. With no entries every total, percentage
// and trend bucket is zero; nothing divides by zero.
func Compute(entries []models.TimeEntry, period models.Period, labels Labeler, now time.Time) *models.StatsSnapshot {
	var totalHours, productiveHours, breakHours float64
	for i := range entries {
		h := entries[i].Hours()
		totalHours += h
		if entries[i].IsBreak {
			breakHours += h
		} else {
			productiveHours += h
		}
	}

	efficiency := 0
	if totalHours > 0 {
		efficiency = int(math.Round(productiveHours / totalHours * 100))
	}

	return &models.StatsSnapshot{
		Period:            period,
		TotalHours:        totalHours,
		ProductiveHours:   productiveHours,
		BreakHours:        breakHours,
		Efficiency:        efficiency,
		TaskBreakdown:     taskBreakdown(entries, totalHours, labels),
		CategoryBreakdown: categoryBreakdown(entries, totalHours, labels),
		WeeklyTrend:       dailyTrend(entries, period),
		EntryCount:        len(entries),
		GeneratedAt:       now,
	}
}

func taskBreakdown(entries []models.TimeEntry, totalHours float64, labels Labeler) []models.BreakdownSlice {
	hours := make(map[string]float64)
	for i := range entries {
		hours[entries[i].TaskID] += entries[i].Hours()
	}

	slices := make([]models.BreakdownSlice, 0, len(hours))
	for taskID, h := range hours {
		label := "No task"
		if labels != nil {
			label = labels.TaskLabel(taskID)
		} else if taskID != "" {
			label = taskID
		}
		slices = append(slices, models.BreakdownSlice{
			Key:        taskID,
			Label:      label,
			Hours:      h,
			Percentage: percentage(h, totalHours),
		})
	}
	sortByHours(slices)
	return slices
}

// categoryBreakdown groups by category id, falling back to a Work/Break
// bucket for entries with no category.
func categoryBreakdown(entries []models.TimeEntry, totalHours float64, labels Labeler) []models.BreakdownSlice {
	hours := make(map[string]float64)
	names := make(map[string]string)
	for i := range entries {
		key := entries[i].CategoryID
		if key == "" {
			if entries[i].IsBreak {
				key = "break"
				names[key] = "Break"
			} else {
				key = "work"
				names[key] = "Work"
			}
		} else if labels != nil {
			names[key] = labels.CategoryLabel(key)
		} else {
			names[key] = key
		}
		hours[key] += entries[i].Hours()
	}

	slices := make([]models.BreakdownSlice, 0, len(hours))
	for key, h := range hours {
		slices = append(slices, models.BreakdownSlice{
			Key:        key,
			Label:      names[key],
			Hours:      h,
			Percentage: percentage(h, totalHours),
		})
	}
	sortByHours(slices)
	return slices
}

// dailyTrend emits one bucket per calendar day of the period, zero-filled,
// with Monday-first weekday labels. Entries bucket by their start day.
func dailyTrend(entries []models.TimeEntry, period models.Period) []models.TrendPoint {
	days := timeutil.DaysBetween(period.Start, period.End.Add(-time.Nanosecond))
	if len(days) == 0 {
		return nil
	}

	byDay := make(map[string]float64)
	for i := range entries {
		byDay[timeutil.DayKey(entries[i].StartTime)] += entries[i].Hours()
	}

	trend := make([]models.TrendPoint, 0, len(days))
	for _, day := range days {
		key := timeutil.DayKey(day)
		trend = append(trend, models.TrendPoint{
			Date:  key,
			Label: timeutil.DayLabel(day),
			Hours: byDay[key],
		})
	}
	return trend
}

func percentage(hours, totalHours float64) float64 {
	if totalHours <= 0 {
		return 0
	}
	return hours / totalHours * 100
}

func sortByHours(slices []models.BreakdownSlice) {
	sort.SliceStable(slices, func(i, j int) bool {
		return slices[i].Hours > slices[j].Hours
	})
}
