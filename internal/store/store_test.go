package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/fast-break/internal/models"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func sampleRecord(teamID string) *models.TeamRecord {
	record := models.NewTeamRecord(teamID)
	p := record.AddPlayer("player-a")
	p.Append(models.GameLogEntry{
		Date:     time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC),
		Opponent: "duke",
		Venue:    models.VenueHome,
		Played:   true,
		Points:   18,
		Minutes:  31,
		Rebounds: 5,
		Assists:  4,
	})
	return record
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	record := sampleRecord("north-carolina")

	require.NoError(t, s.Save(record))

	loaded, err := s.Load("north-carolina")
	require.NoError(t, err)
	assert.Equal(t, "north-carolina", loaded.TeamID)
	require.NotNil(t, loaded.Player("player-a"))
	require.Len(t, loaded.Player("player-a").Games, 1)
	assert.Equal(t, 18, loaded.Player("player-a").Games[0].Points)
	assert.Equal(t, models.VenueHome, loaded.Player("player-a").Games[0].Venue)
}

func TestLoadMissingTeamReturnsNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Load("never-pulled")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestExists(t *testing.T) {
	s := newTestStore(t)
	assert.False(t, s.Exists("north-carolina"))

	require.NoError(t, s.Save(sampleRecord("north-carolina")))
	assert.True(t, s.Exists("north-carolina"))
}

func TestSaveReplacesWholeDocument(t *testing.T) {
	s := newTestStore(t)
	record := sampleRecord("north-carolina")
	require.NoError(t, s.Save(record))

	record.AddPlayer("player-b")
	require.NoError(t, s.Save(record))

	loaded, err := s.Load("north-carolina")
	require.NoError(t, err)
	assert.Len(t, loaded.Players, 2)
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.Save(sampleRecord("north-carolina")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "north-carolina.json", entries[0].Name())
}

func TestInvalidTeamIDRejected(t *testing.T) {
	s := newTestStore(t)

	for _, id := range []string{"", "../escape", "a/b", `a\b`} {
		_, err := s.Load(id)
		assert.Error(t, err, "id %q", id)
		assert.False(t, s.Exists(id))
	}
}

func TestLoadCorruptDocumentFails(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o644))
	_, err = s.Load("bad")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrNotFound)
}
