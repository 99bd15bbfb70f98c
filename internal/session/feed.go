package session

import (
	"fmt"
	"sync"

	"github.com/worklane/worklane/internal/database"
	"github.com/worklane/worklane/internal/directory"
	"github.com/worklane/worklane/internal/models"
	"github.com/worklane/worklane/pkg/timeutil"

	"github.com/rs/zerolog"
)

// Feed serves the activity history read path: the events in range, the
// sessions reconstructed from them, and the entries they produced. The last
// good feed per owner and range is kept so a storage failure degrades to a
// stale answer instead of failing the read.
type Feed struct {
	log     *database.ActivityLog
	entries *database.EntryStore
	dir     *directory.Directory
	logger  zerolog.Logger

	mu    sync.Mutex
	cache map[string]*models.ActivityFeed
}

func NewFeed(log *database.ActivityLog, entries *database.EntryStore, dir *directory.Directory, logger zerolog.Logger) *Feed {
	return &Feed{
		log:     log,
		entries: entries,
		dir:     dir,
		logger:  logger.With().Str("component", "feed").Logger(),
		cache:   make(map[string]*models.ActivityFeed),
	}
}

// Query builds the feed for an owner over a period. limit <= 0 means no
// limit on the event count. On a storage failure the previously built feed
// for the same owner and range is returned with Stale set, when one exists.
func (f *Feed) Query(ownerID string, period models.Period, limit int) (*models.ActivityFeed, error) {
	key := feedKey(ownerID, period, limit)

	events, err := f.log.QueryByDateRange(ownerID, period.Start, period.End, limit)
	if err != nil {
		return f.fallback(ownerID, key, err)
	}
	entries, err := f.entries.QueryByDateRange(ownerID, period.Start, period.End)
	if err != nil {
		return f.fallback(ownerID, key, err)
	}

	sessions := Reconstruct(events, entries)
	for i := range sessions {
		sessions[i].TaskTitle = f.dir.TaskLabel(sessions[i].TaskID)
	}

	feed := &models.ActivityFeed{
		Activities:  events,
		Sessions:    sessions,
		TimeEntries: entries,
	}

	f.mu.Lock()
	f.cache[key] = feed
	f.mu.Unlock()
	return feed, nil
}

func (f *Feed) fallback(ownerID, key string, err error) (*models.ActivityFeed, error) {
	f.logger.Warn().Err(err).Str("owner", ownerID).Msg("activity query failed")

	f.mu.Lock()
	cached := f.cache[key]
	f.mu.Unlock()

	if cached != nil {
		stale := *cached
		stale.Stale = true
		return &stale, nil
	}
	return nil, err
}

func feedKey(ownerID string, period models.Period, limit int) string {
	return fmt.Sprintf("%s|%s|%s|%d", ownerID, timeutil.DayKey(period.Start), timeutil.DayKey(period.End), limit)
}
