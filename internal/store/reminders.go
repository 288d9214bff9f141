package store

import (
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/afero"

	"asistan/internal/domain"
)

// Reminders is the reminder collection. Reminders are append-and-list only:
// nothing in the current scope fires, expires or removes them.
type Reminders struct {
	mu     sync.Mutex
	fs     afero.Fs
	path   string
	logger *slog.Logger
	items  []domain.Reminder
}

func OpenReminders(fsys afero.Fs, path string, logger *slog.Logger) *Reminders {
	r := &Reminders{fs: fsys, path: path, logger: logger}
	var items []domain.Reminder
	if err := readJSONFile(fsys, path, &items); err != nil {
		logger.Warn("reminders file unavailable, starting empty", "path", path, "error", err)
	} else {
		r.items = items
	}
	return r
}

// Append stores a new reminder due at the given absolute time. Error
// semantics match Notes.Append: the in-memory mutation survives a failed
// persist.
func (r *Reminders) Append(text string, due, now time.Time) (domain.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reminder := domain.Reminder{
		ID:      len(r.items) + 1,
		Text:    text,
		Time:    due.Format(domain.TimeLayout),
		Created: now.Format(domain.TimeLayout),
	}
	r.items = append(r.items, reminder)
	return reminder, writeJSONFile(r.fs, r.path, r.items)
}

// List returns a copy of all reminders in insertion order.
func (r *Reminders) List() []domain.Reminder {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Reminder, len(r.items))
	copy(out, r.items)
	return out
}

func (r *Reminders) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
