package directory

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Lookup is the external task/category directory. Implementations may hit a
// remote service and are allowed to fail or miss.
type Lookup interface {
	TaskTitle(id string) (string, bool, error)
	CategoryName(id string) (string, bool, error)
}

// Directory resolves display names for the read side. A failed or missing
// lookup falls back to a placeholder label and never fails the read.
type Directory struct {
	lookup Lookup
	logger zerolog.Logger
}

func New(lookup Lookup, logger zerolog.Logger) *Directory {
	return &Directory{
		lookup: lookup,
		logger: logger.With().Str("component", "directory").Logger(),
	}
}

// TaskLabel returns a display title for a task id, or a placeholder.
func (d *Directory) TaskLabel(id string) string {
	if id == "" {
		return "No task"
	}
	if d.lookup != nil {
		title, ok, err := d.lookup.TaskTitle(id)
		if err != nil {
			d.logger.Warn().Err(err).Str("task", id).Msg("task lookup failed, using placeholder")
		} else if ok {
			return title
		}
	}
	return fmt.Sprintf("Task %s", shortID(id))
}

// CategoryLabel returns a display name for a category id, or a placeholder.
func (d *Directory) CategoryLabel(id string) string {
	if id == "" {
		return "Uncategorized"
	}
	if d.lookup != nil {
		name, ok, err := d.lookup.CategoryName(id)
		if err != nil {
			d.logger.Warn().Err(err).Str("category", id).Msg("category lookup failed, using placeholder")
		} else if ok {
			return name
		}
	}
	return fmt.Sprintf("Category %s", shortID(id))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Static is an in-memory Lookup, used by the CLI and by tests.
type Static struct {
	mu         sync.RWMutex
	tasks      map[string]string
	categories map[string]string
}

func NewStatic() *Static {
	return &Static{
		tasks:      make(map[string]string),
		categories: make(map[string]string),
	}
}

func (s *Static) AddTask(id, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[id] = title
}

func (s *Static) AddCategory(id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[id] = name
}

func (s *Static) TaskTitle(id string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	title, ok := s.tasks[id]
	return title, ok, nil
}

func (s *Static) CategoryName(id string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	name, ok := s.categories[id]
	return name, ok, nil
}
