package store

import (
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/afero"

	"asistan/internal/domain"
)

// Notes is the note collection. One lock per store, held across the whole
// read-modify-persist sequence, since the host serves concurrent requests.
type Notes struct {
	mu     sync.Mutex
	fs     afero.Fs
	path   string
	logger *slog.Logger
	items  []domain.Note
}

// OpenNotes loads the collection from path. A missing or unreadable file
// starts an empty collection.
func OpenNotes(fsys afero.Fs, path string, logger *slog.Logger) *Notes {
	n := &Notes{fs: fsys, path: path, logger: logger}
	var items []domain.Note
	if err := readJSONFile(fsys, path, &items); err != nil {
		logger.Warn("notes file unavailable, starting empty", "path", path, "error", err)
	} else {
		n.items = items
	}
	return n
}

// Append stores a new note. The returned error is the persistence outcome
// only: on write failure the in-memory collection keeps the note, and callers
// are expected to log and still confirm to the user.
func (n *Notes) Append(text string, now time.Time) (domain.Note, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	note := domain.Note{
		ID:        len(n.items) + 1,
		Text:      text,
		Timestamp: now.Format(domain.TimeLayout),
	}
	n.items = append(n.items, note)
	return note, writeJSONFile(n.fs, n.path, n.items)
}

// List returns a copy of all notes in insertion order.
func (n *Notes) List() []domain.Note {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]domain.Note, len(n.items))
	copy(out, n.items)
	return out
}

func (n *Notes) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.items)
}

// Clear removes every note. There is no partial delete. Returns how many
// notes were removed; persistence failures behave as in Append.
func (n *Notes) Clear() (int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	removed := len(n.items)
	n.items = nil
	return removed, writeJSONFile(n.fs, n.path, []domain.Note{})
}
