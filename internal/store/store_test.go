package store

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asistan/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var testNow = time.Date(2025, 3, 14, 15, 9, 26, 0, time.Local)

func TestNotesAppendAndReload(t *testing.T) {
	fs := afero.NewMemMapFs()
	notes := OpenNotes(fs, "data/notes.json", testLogger())

	first, err := notes.Append("yarın market alışverişi", testNow)
	require.NoError(t, err)
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, "2025-03-14 15:09:26", first.Timestamp)

	second, err := notes.Append("proje teslimi cuma", testNow)
	require.NoError(t, err)
	assert.Equal(t, 2, second.ID)

	// A fresh store over the same file must see both notes.
	reloaded := OpenNotes(fs, "data/notes.json", testLogger())
	require.Equal(t, 2, reloaded.Len())
	assert.Equal(t, "yarın market alışverişi", reloaded.List()[0].Text)

	// No leftover temp file after the atomic rewrite.
	exists, err := afero.Exists(fs, "data/notes.json.tmp")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestNotesClear(t *testing.T) {
	fs := afero.NewMemMapFs()
	notes := OpenNotes(fs, "data/notes.json", testLogger())
	_, err := notes.Append("silinecek not", testNow)
	require.NoError(t, err)

	removed, err := notes.Clear()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Zero(t, notes.Len())

	reloaded := OpenNotes(fs, "data/notes.json", testLogger())
	assert.Zero(t, reloaded.Len())
}

func TestNotesCorruptFileStartsEmpty(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "data/notes.json", []byte("{not json"), 0o644))

	notes := OpenNotes(fs, "data/notes.json", testLogger())
	assert.Zero(t, notes.Len())
}

func TestNotesPersistFailureKeepsMemoryState(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	notes := OpenNotes(fs, "data/notes.json", testLogger())

	note, err := notes.Append("diske yazılamayan not", testNow)
	require.Error(t, err)
	// The known inconsistency window: memory has the note, disk does not.
	assert.Equal(t, 1, note.ID)
	assert.Equal(t, 1, notes.Len())
}

func TestNotesListReturnsCopy(t *testing.T) {
	fs := afero.NewMemMapFs()
	notes := OpenNotes(fs, "data/notes.json", testLogger())
	_, err := notes.Append("orijinal metin", testNow)
	require.NoError(t, err)

	list := notes.List()
	list[0].Text = "değiştirilmiş"
	assert.Equal(t, "orijinal metin", notes.List()[0].Text)
}

func TestRemindersAppendAndReload(t *testing.T) {
	fs := afero.NewMemMapFs()
	reminders := OpenReminders(fs, "data/reminders.json", testLogger())

	due := testNow.Add(30 * time.Minute)
	reminder, err := reminders.Append("çay demle", due, testNow)
	require.NoError(t, err)
	assert.Equal(t, 1, reminder.ID)
	assert.Equal(t, due.Format(domain.TimeLayout), reminder.Time)
	assert.Equal(t, testNow.Format(domain.TimeLayout), reminder.Created)

	reloaded := OpenReminders(fs, "data/reminders.json", testLogger())
	require.Equal(t, 1, reloaded.Len())
	assert.Equal(t, "çay demle", reloaded.List()[0].Text)
}

func TestRemindersIDsFollowCollectionLength(t *testing.T) {
	fs := afero.NewMemMapFs()
	reminders := OpenReminders(fs, "data/reminders.json", testLogger())

	for i := 1; i <= 3; i++ {
		reminder, err := reminders.Append("hatırlatıcı", testNow.Add(time.Hour), testNow)
		require.NoError(t, err)
		assert.Equal(t, i, reminder.ID)
	}
}
