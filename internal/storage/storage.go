package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pfrederiksen/palmares/internal/participant"
)

// ErrNotFound is returned when no standings are stored for a tournament.
var ErrNotFound = errors.New("tournament not found")

const (
	filePrefix = "standings_"
	fileSuffix = ".json"
)

// Storage handles persistence of tournament standings
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

func (s *Storage) path(id string) string {
	return filepath.Join(s.dataDir, filePrefix+id+fileSuffix)
}

// LoadTournament loads the standings of a tournament from disk
func (s *Storage) LoadTournament(id string) (*participant.Tournament, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("reading standings: %w", err)
	}

	var t participant.Tournament
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing standings: %w", err)
	}

	if t.Participants == nil {
		t.Participants = make([]*participant.Participant, 0)
	}

	return &t, nil
}

// SaveTournament saves the standings of a tournament to disk
func (s *Storage) SaveTournament(t *participant.Tournament) error {
	if t.ID == "" {
		return fmt.Errorf("saving standings: tournament has no ID")
	}

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding standings: %w", err)
	}

	if err := os.WriteFile(s.path(t.ID), data, 0644); err != nil {
		return fmt.Errorf("writing standings: %w", err)
	}

	return nil
}

// ListTournaments loads every stored tournament, oldest fetch first
func (s *Storage) ListTournaments() ([]*participant.Tournament, error) {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		return nil, fmt.Errorf("listing data directory: %w", err)
	}

	tournaments := make([]*participant.Tournament, 0)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		id := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
		t, err := s.LoadTournament(id)
		if err != nil {
			return nil, err
		}
		tournaments = append(tournaments, t)
	}

	sort.SliceStable(tournaments, func(i, j int) bool {
		return tournaments[i].FetchedAt.Before(tournaments[j].FetchedAt)
	})

	return tournaments, nil
}

// IsFresh reports whether stored standings are younger than ttl. A ttl of
// zero or less never expires.
func IsFresh(t *participant.Tournament, ttl time.Duration, now time.Time) bool {
	if t == nil || t.FetchedAt.IsZero() {
		return false
	}
	if ttl <= 0 {
		return true
	}
	return now.Sub(t.FetchedAt) <= ttl
}
