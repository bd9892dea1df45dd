package persist

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatlytics/internal/model"
	"chatlytics/internal/store"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func openStore(t *testing.T, path string) *store.Store {
	t.Helper()
	st, err := store.Open(path, quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func sessionAt(id string, start time.Time) model.Session {
	return model.Session{
		SessionID: id,
		StartTime: start,
		EndTime:   start.Add(5 * time.Minute),
		User:      model.User{IP: "10.0.XXX.XXX", Country: "DE", Language: "de"},
		Sentiment: model.SentimentPositive,
		Category:  "Onboarding",
		Messages: model.Messages{
			SourceURL: "https://chat.example.com/chat/" + id,
		},
		ConversationDurationSeconds: 300,
	}
}

func TestSaveRestoreRoundTripPopulated(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sessions.db")

	st := openStore(t, dbPath)
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	_, err := st.BulkLoad([]model.Session{
		sessionAt("a0000000-0000-4000-8000-000000000001", base),
		sessionAt("a0000000-0000-4000-8000-000000000002", base.AddDate(0, 0, 3)),
	})
	require.NoError(t, err)
	want := st.Stats()

	codec := New(dir, 0, quietLogger())
	require.NoError(t, st.Checkpoint())
	require.NoError(t, codec.Save(dbPath))
	require.NoError(t, st.Close())

	restoredPath := filepath.Join(t.TempDir(), "sessions.db")
	restored, err := codec.Restore(restoredPath)
	require.NoError(t, err)
	require.True(t, restored)

	st2 := openStore(t, restoredPath)
	got := st2.Stats()
	assert.Equal(t, want.TotalSessions, got.TotalSessions)
	assert.True(t, got.OldestSession.Equal(want.OldestSession))
	assert.True(t, got.NewestSession.Equal(want.NewestSession))
}

func TestSaveRestoreRoundTripEmpty(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sessions.db")

	st := openStore(t, dbPath)
	codec := New(dir, 0, quietLogger())
	require.NoError(t, st.Checkpoint())
	require.NoError(t, codec.Save(dbPath))
	require.NoError(t, st.Close())

	restoredPath := filepath.Join(t.TempDir(), "sessions.db")
	restored, err := codec.Restore(restoredPath)
	require.NoError(t, err)
	require.True(t, restored)

	st2 := openStore(t, restoredPath)
	assert.Zero(t, st2.Stats().TotalSessions)
}

func TestSaveTooLargeRemovesStaleSlot(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sessions.db")

	st := openStore(t, dbPath)
	require.NoError(t, st.Checkpoint())

	// First save with a generous bound leaves a slot behind.
	big := New(dir, 0, quietLogger())
	require.NoError(t, big.Save(dbPath))
	require.FileExists(t, big.SlotPath())

	// A tiny bound must refuse to write and clear the stale value rather
	// than leave a truncated snapshot.
	small := New(dir, 16, quietLogger())
	err := small.Save(dbPath)
	require.ErrorIs(t, err, ErrSnapshotTooLarge)
	assert.NoFileExists(t, small.SlotPath())
}

func TestRestoreMissingSlot(t *testing.T) {
	codec := New(t.TempDir(), 0, quietLogger())

	restored, err := codec.Restore(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	assert.False(t, restored)
}

func TestRestoreCorruptSlot(t *testing.T) {
	dir := t.TempDir()
	codec := New(dir, 0, quietLogger())
	require.NoError(t, os.WriteFile(codec.SlotPath(), []byte("%%% not base64 %%%"), 0o600))

	restored, err := codec.Restore(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err, "corrupt slots are treated as no prior data, never fatal")
	assert.False(t, restored)
}

func TestClear(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sessions.db")

	st := openStore(t, dbPath)
	require.NoError(t, st.Checkpoint())

	codec := New(dir, 0, quietLogger())
	require.NoError(t, codec.Save(dbPath))
	require.NoError(t, codec.Clear())
	assert.NoFileExists(t, codec.SlotPath())

	// Clearing an already-empty slot is not an error.
	require.NoError(t, codec.Clear())
}
