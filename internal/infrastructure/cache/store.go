// Package cache implements the version-gated persistent analysis store.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"cliscope/internal/domain"
	"cliscope/internal/pkg/filesystem"
	"cliscope/internal/ports"
)

// Store keeps the analysis records in a single JSON document mapping tool
// name to its most recently stored record. There is no TTL; staleness is
// purely a function of version mismatch at lookup time.
type Store struct {
	path string
	mu   sync.Mutex
	data map[string]domain.AnalysisRecord
}

// NewStore returns a store backed by the given file path, defaulting to
// ~/.cliscope/cache/analysis.json.
func NewStore(path string) *Store {
	if path == "" {
		path = filepath.Join(filesystem.UserHomeDir(), ".cliscope", "cache", "analysis.json")
	}
	return &Store{
		path: path,
		data: map[string]domain.AnalysisRecord{},
	}
}

// Load reads the store from disk. Unreadable or malformed content yields an
// empty store; analysis then proceeds as if every tool were a miss and the
// file is rewritten whole on the next Put.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = map[string]domain.AnalysisRecord{}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var parsed map[string]domain.AnalysisRecord
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil
	}
	if parsed != nil {
		s.data = parsed
	}
	return nil
}

// Get implements ports.CacheStore. A record matches only when both tool and
// version are equal; a version mismatch is a miss, not an error.
func (s *Store) Get(tool, version string) (domain.AnalysisRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.data[tool]
	if !ok || record.Version != version {
		return domain.AnalysisRecord{}, false
	}
	return record, true
}

// Put stores the record for its tool name, superseding any previous version,
// and flushes durably before returning.
func (s *Store) Put(record domain.AnalysisRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[record.Tool] = record
	return s.flushLocked()
}

// Flush persists the current state atomically.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked()
}

// flushLocked writes to a temp file in the same directory and renames it
// over the canonical name, so a crash mid-write never leaves a half-written
// store visible.
func (s *Store) flushLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".analysis-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// Entries lists the stored records sorted by tool name.
func (s *Store) Entries() []domain.AnalysisRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]domain.AnalysisRecord, 0, len(s.data))
	for _, record := range s.data {
		entries = append(entries, record)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Tool < entries[j].Tool })
	return entries
}

// Clear drops every record and removes the backing file.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = map[string]domain.AnalysisRecord{}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Path exposes the store location.
func (s *Store) Path() string {
	return s.path
}

var _ ports.CacheStore = (*Store)(nil)
