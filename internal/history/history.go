// Package history persists the set of paper ids that have already been
// notified, so repeated runs over the overlapping feed window never re-send
// the same paper.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// ErrCorrupt is returned by Load when the history file exists but cannot be
// parsed. Callers must treat this as fatal: silently starting from an empty
// history would re-notify every matching paper.
var ErrCorrupt = errors.New("corrupt history file")

// Store holds the in-memory set of notified paper ids. It is owned by a
// single run; there is no locking.
type Store struct {
	ids map[string]struct{}
}

type historyFile struct {
	SentPapers  []string `json:"sent_papers"`
	LastUpdated string   `json:"last_updated"`
}

// Load reads the history file at path. A missing or empty file yields an
// empty store; that is the expected state on first run.
func Load(path string) (*Store, error) {
	s := &Store{ids: make(map[string]struct{})}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("history: failed to read %s: %w", path, err)
	}
	if len(data) == 0 {
		return s, nil
	}

	var hf historyFile
	if err := json.Unmarshal(data, &hf); err != nil {
		return nil, fmt.Errorf("history: %w: %s: %v", ErrCorrupt, path, err)
	}

	for _, id := range hf.SentPapers {
		s.ids[id] = struct{}{}
	}
	return s, nil
}

// Contains reports whether id has already been notified.
func (s *Store) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Record adds id to the in-memory set. Nothing is persisted until Save.
func (s *Store) Record(id string) {
	s.ids[id] = struct{}{}
}

// Len returns the number of recorded ids.
func (s *Store) Len() int {
	return len(s.ids)
}

// Save writes the full set back to path, replacing prior content. The write
// goes through a temp file and rename so a crash cannot leave a half-written
// history behind. Ids are sorted for stable files.
func (s *Store) Save(path string) error {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	hf := historyFile{
		SentPapers:  ids,
		LastUpdated: time.Now().Format(time.RFC3339),
	}
	data, err := json.MarshalIndent(hf, "", "  ")
	if err != nil {
		return fmt.Errorf("history: failed to marshal: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("history: failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".history_*")
	if err != nil {
		return fmt.Errorf("history: failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("history: failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("history: failed to close %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("history: failed to replace %s: %w", path, err)
	}
	return nil
}
