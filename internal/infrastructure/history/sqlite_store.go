// Package history logs completed analysis runs to a SQLite database.
package history

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"cliscope/internal/domain"
	"cliscope/internal/pkg/filesystem"
	"cliscope/internal/ports"
)

// SQLiteStore persists analysis events in ~/.cliscope/history/analyses.db.
// When the database cannot be opened the store degrades to a no-op so that
// history logging never blocks an analysis.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// NewSQLiteStore creates (or opens) the analysis history database.
func NewSQLiteStore(path string) *SQLiteStore {
	if path == "" {
		path = filepath.Join(filesystem.UserHomeDir(), ".cliscope", "history", "analyses.db")
	}
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return &SQLiteStore{path: path}
	}
	store := &SQLiteStore{db: db, path: path}
	if err := store.init(); err != nil {
		return &SQLiteStore{path: path}
	}
	return store
}

func (s *SQLiteStore) init() error {
	if s.db == nil {
		return os.ErrInvalid
	}
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS analyses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT,
		trace_id TEXT,
		tool TEXT,
		version TEXT,
		framework TEXT,
		source_method TEXT,
		subcommand_count INTEGER,
		cache_hit INTEGER,
		duration_ms INTEGER
	);`)
	return err
}

// Save implements ports.HistoryRepository.
func (s *SQLiteStore) Save(event domain.AnalysisEvent) error {
	if s.db == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO analyses
		(timestamp, trace_id, tool, version, framework, source_method, subcommand_count, cache_hit, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.Timestamp.Format(time.RFC3339),
		event.TraceID,
		event.Tool,
		event.Version,
		string(event.Framework),
		string(event.SourceMethod),
		event.SubcommandCount,
		boolToInt(event.CacheHit),
		event.DurationMS,
	)
	return err
}

// Records returns analysis events, newest first (limit/search optional).
func (s *SQLiteStore) Records(limit int, search string) ([]domain.AnalysisEvent, error) {
	if s.db == nil {
		return nil, nil
	}
	builder := strings.Builder{}
	builder.WriteString("SELECT timestamp, trace_id, tool, version, framework, source_method, subcommand_count, cache_hit, duration_ms FROM analyses")
	var args []interface{}
	if search != "" {
		builder.WriteString(" WHERE tool LIKE ?")
		args = append(args, "%"+search+"%")
	}
	builder.WriteString(" ORDER BY datetime(timestamp) DESC")
	if limit > 0 {
		builder.WriteString(" LIMIT ?")
		args = append(args, limit)
	}
	rows, err := s.db.Query(builder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var events []domain.AnalysisEvent
	for rows.Next() {
		var event domain.AnalysisEvent
		var ts, framework, sourceMethod string
		var cacheHit int
		if err := rows.Scan(&ts, &event.TraceID, &event.Tool, &event.Version, &framework, &sourceMethod, &event.SubcommandCount, &cacheHit, &event.DurationMS); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			event.Timestamp = t
		}
		event.Framework = domain.Framework(framework)
		event.SourceMethod = domain.SourceMethod(sourceMethod)
		event.CacheHit = cacheHit == 1
		events = append(events, event)
	}
	return events, rows.Err()
}

// Clear deletes all analysis events.
func (s *SQLiteStore) Clear() error {
	if s.db == nil {
		return nil
	}
	_, err := s.db.Exec("DELETE FROM analyses")
	return err
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)
