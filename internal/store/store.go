// Package store persists per-team game logs, one durable JSON document per
// team. A save fully replaces the team's document via an atomic rename, so a
// crash mid-save never leaves a partially written record visible.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yourusername/fast-break/internal/models"
)

// TeamStore is the persistence contract for team game logs. Business logic
// above this interface only ever sees TeamRecord values.
type TeamStore interface {
	Load(teamID string) (*models.TeamRecord, error)
	Save(record *models.TeamRecord) error
	Exists(teamID string) bool
}

// FileStore implements TeamStore on a local directory, one file per team.
type FileStore struct {
	dir string
}

// NewFileStore creates the backing directory if needed and returns a store
// rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Load reads a team's record. Returns models.ErrNotFound when the team has
// never been pulled.
func (s *FileStore) Load(teamID string) (*models.TeamRecord, error) {
	path, err := s.path(teamID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("team %q: %w", teamID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read team %q: %w", teamID, err)
	}

	record := &models.TeamRecord{}
	if err := json.Unmarshal(data, record); err != nil {
		return nil, fmt.Errorf("failed to decode team %q: %w", teamID, err)
	}
	if record.Players == nil {
		record.Players = make(map[string]*models.PlayerRecord)
	}
	return record, nil
}

// Save atomically replaces the persisted record for record.TeamID. The
// document is written to a temporary file in the same directory, synced, and
// renamed over the destination, so a concurrent Load observes either the old
// or the new version in full.
func (s *FileStore) Save(record *models.TeamRecord) error {
	path, err := s.path(record.TeamID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode team %q: %w", record.TeamID, err)
	}

	tmp, err := os.CreateTemp(s.dir, record.TeamID+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for team %q: %w", record.TeamID, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write team %q: %w", record.TeamID, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync team %q: %w", record.TeamID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file for team %q: %w", record.TeamID, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace team %q: %w", record.TeamID, err)
	}
	return nil
}

// Exists reports whether a record has been persisted for the team.
func (s *FileStore) Exists(teamID string) bool {
	path, err := s.path(teamID)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

func (s *FileStore) path(teamID string) (string, error) {
	if teamID == "" || strings.ContainsAny(teamID, `/\`) || teamID != filepath.Base(teamID) {
		return "", fmt.Errorf("invalid team id %q", teamID)
	}
	return filepath.Join(s.dir, teamID+".json"), nil
}
