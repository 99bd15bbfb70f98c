package session

import (
	"sort"
	"time"

	"github.com/worklane/worklane/internal/models"
)

// Reconstruct groups activity events by timer lifecycle and attaches the
// TimeEntry each completed lifecycle produced. Pure function over plain
// data: it holds no storage or rendering context.
//
// Events are re-sorted by CreatedAt inside each group; the store should
// already return them ordered but the reconstructor must not assume it.
// A group with no stopped event is a timer still active or abandoned, and
// yields a session with a nil TimeEntry.
//
// Sessions come back most-recent timer first.
func Reconstruct(events []models.ActivityEvent, entries []models.TimeEntry) []models.TimerSession {
	if len(events) == 0 {
		return nil
	}

	entryByID := make(map[string]*models.TimeEntry, len(entries))
	for i := range entries {
		entryByID[entries[i].ID] = &entries[i]
	}

	groups := make(map[string][]models.ActivityEvent)
	var order []string
	for _, ev := range events {
		if _, seen := groups[ev.TimerID]; !seen {
			order = append(order, ev.TimerID)
		}
		groups[ev.TimerID] = append(groups[ev.TimerID], ev)
	}

	sessions := make([]models.TimerSession, 0, len(order))
	for _, timerID := range order {
		sessions = append(sessions, buildSession(timerID, groups[timerID], entryByID))
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].StartedAt.After(sessions[j].StartedAt)
	})
	return sessions
}

func buildSession(timerID string, events []models.ActivityEvent, entryByID map[string]*models.TimeEntry) models.TimerSession {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})

	s := models.TimerSession{
		TimerID:    timerID,
		OwnerID:    events[0].OwnerID,
		StartedAt:  sessionStart(events),
		Activities: events,
	}

	for _, ev := range events {
		switch ev.Action {
		case models.ActionStarted:
			s.TaskID = ev.Details.TaskID
			s.IsBreak = ev.Details.IsBreak
		case models.ActionStopped:
			s.Completed = true
			if entry, ok := entryByID[ev.Details.TimeEntryID]; ok {
				s.TimeEntry = entry
			}
		}
	}
	return s
}

// sessionStart prefers the started event's timestamp; a group whose started
// event fell outside the queried range falls back to its earliest event.
func sessionStart(events []models.ActivityEvent) time.Time {
	for _, ev := range events {
		if ev.Action == models.ActionStarted {
			return ev.CreatedAt
		}
	}
	return events[0].CreatedAt
}
