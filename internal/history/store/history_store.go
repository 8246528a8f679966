package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	mdwerror "github.com/msto63/stormsql/foundation/core/error"
)

// Status is the outcome of a recorded analysis
type Status string

const (
	StatusOK    Status = "OK"
	StatusError Status = "ERROR"
)

// Entry is one analysed source text
type Entry struct {
	ID           string                 `json:"id"`
	Timestamp    time.Time              `json:"timestamp"`
	Origin       string                 `json:"origin"`
	Operation    string                 `json:"operation"`
	Status       Status                 `json:"status"`
	Source       string                 `json:"source"`
	Formatted    string                 `json:"formatted,omitempty"`
	TokenCount   int                    `json:"token_count"`
	Statements   int                    `json:"statements"`
	ErrorCode    string                 `json:"error_code,omitempty"`
	ErrorMessage string                 `json:"error_message,omitempty"`
	DurationMS   float64                `json:"duration_ms"`
	RequestID    string                 `json:"request_id,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// Filter defines criteria for listing entries
type Filter struct {
	Origin    string
	Operation string
	Status    Status
	StartTime time.Time
	EndTime   time.Time
	Contains  string
	RequestID string
	Limit     int
	Offset    int
}

// Stats contains aggregated history statistics
type Stats struct {
	TotalEntries      int64            `json:"total_entries" yaml:"total_entries"`
	EntriesByStatus   map[Status]int64 `json:"entries_by_status" yaml:"entries_by_status"`
	EntriesByOrigin   map[string]int64 `json:"entries_by_origin" yaml:"entries_by_origin"`
	ErrorsByCode      map[string]int64 `json:"errors_by_code" yaml:"errors_by_code"`
	AverageDurationMS float64          `json:"average_duration_ms" yaml:"average_duration_ms"`
	LastEntry         time.Time        `json:"last_entry" yaml:"last_entry"`
}

// Store defines the interface for history persistence
type Store interface {
	Record(ctx context.Context, entry *Entry) error
	Get(ctx context.Context, id string) (*Entry, error)
	Query(ctx context.Context, filter Filter) ([]*Entry, error)
	Stats(ctx context.Context) (*Stats, error)

	// Maintenance
	Vacuum(ctx context.Context) error
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
	Close() error
}

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// SQLiteConfig holds configuration for the SQLite store
type SQLiteConfig struct {
	Path string
}

// DefaultConfig returns default configuration
func DefaultConfig() SQLiteConfig {
	return SQLiteConfig{
		Path: "./data/stormsql/history.db",
	}
}

// NewSQLiteStore creates a new SQLite-based history store. The path
// ":memory:" opens a private in-memory database.
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	dsn := ":memory:"
	if cfg.Path != ":memory:" {
		// Ensure directory exists
		dir := filepath.Dir(cfg.Path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, storageError("failed to create directory", err)
		}
		// Open database with WAL mode
		dsn = cfg.Path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, storageError("failed to open database", err)
	}
	if cfg.Path == ":memory:" {
		// every pooled connection would get its own empty database
		db.SetMaxOpenConns(1)
	}

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, storageError("failed to initialize schema", err)
	}

	return store, nil
}

// initSchema creates the necessary tables
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS history (
		id TEXT PRIMARY KEY,
		timestamp DATETIME NOT NULL,
		origin TEXT NOT NULL,
		operation TEXT NOT NULL,
		status TEXT NOT NULL,
		source TEXT NOT NULL,
		formatted TEXT,
		token_count INTEGER NOT NULL DEFAULT 0,
		statements INTEGER NOT NULL DEFAULT 0,
		error_code TEXT,
		error_message TEXT,
		duration_ms REAL NOT NULL DEFAULT 0,
		request_id TEXT,
		metadata TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_history_timestamp ON history(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_history_status ON history(status);
	CREATE INDEX IF NOT EXISTS idx_history_origin ON history(origin);
	CREATE INDEX IF NOT EXISTS idx_history_request_id ON history(request_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Record stores a new entry. Missing IDs and timestamps are filled in.
func (s *SQLiteStore) Record(ctx context.Context, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if entry.Status == "" {
		entry.Status = StatusOK
	}

	var metadataJSON []byte
	if entry.Metadata != nil {
		metadataJSON, _ = json.Marshal(entry.Metadata)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO history (id, timestamp, origin, operation, status, source, formatted,
			token_count, statements, error_code, error_message, duration_ms, request_id, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.Timestamp, entry.Origin, entry.Operation, string(entry.Status), entry.Source,
		entry.Formatted, entry.TokenCount, entry.Statements, entry.ErrorCode, entry.ErrorMessage,
		entry.DurationMS, entry.RequestID, metadataJSON)

	if err != nil {
		return storageError("failed to insert history entry", err)
	}

	return nil
}

const selectColumns = `SELECT id, timestamp, origin, operation, status, source, formatted,
	token_count, statements, error_code, error_message, duration_ms, request_id, metadata FROM history`

// Get returns a single entry by ID
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, mdwerror.Newf("history entry not found: %s", id).
			WithCode(mdwerror.CodeNotFound).
			WithDetail("id", id)
	}
	if err != nil {
		return nil, storageError("failed to read history entry", err)
	}
	return entry, nil
}

// Query retrieves entries based on filter criteria, newest first
func (s *SQLiteStore) Query(ctx context.Context, filter Filter) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := selectColumns + ` WHERE 1=1`
	var args []interface{}

	if filter.Origin != "" {
		query += ` AND origin = ?`
		args = append(args, filter.Origin)
	}
	if filter.Operation != "" {
		query += ` AND operation = ?`
		args = append(args, filter.Operation)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if !filter.StartTime.IsZero() {
		query += ` AND timestamp >= ?`
		args = append(args, filter.StartTime)
	}
	if !filter.EndTime.IsZero() {
		query += ` AND timestamp <= ?`
		args = append(args, filter.EndTime)
	}
	if filter.Contains != "" {
		query += ` AND source LIKE ?`
		args = append(args, "%"+filter.Contains+"%")
	}
	if filter.RequestID != "" {
		query += ` AND request_id = ?`
		args = append(args, filter.RequestID)
	}

	query += ` ORDER BY timestamp DESC`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += ` OFFSET ?`
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError("failed to query history", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, storageError("failed to scan history entry", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, storageError("failed to iterate history", err)
	}
	return entries, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var (
		entry                                 Entry
		status                                string
		formatted, errorCode, errorMsg, reqID sql.NullString
		metadataJSON                          []byte
	)

	err := row.Scan(&entry.ID, &entry.Timestamp, &entry.Origin, &entry.Operation, &status,
		&entry.Source, &formatted, &entry.TokenCount, &entry.Statements, &errorCode, &errorMsg,
		&entry.DurationMS, &reqID, &metadataJSON)
	if err != nil {
		return nil, err
	}

	entry.Status = Status(status)
	entry.Formatted = formatted.String
	entry.ErrorCode = errorCode.String
	entry.ErrorMessage = errorMsg.String
	entry.RequestID = reqID.String
	if len(metadataJSON) > 0 {
		_ = json.Unmarshal(metadataJSON, &entry.Metadata)
	}
	return &entry, nil
}

// Stats returns aggregated statistics
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &Stats{
		EntriesByStatus: make(map[Status]int64),
		EntriesByOrigin: make(map[string]int64),
		ErrorsByCode:    make(map[string]int64),
	}

	var avg sql.NullFloat64
	var last sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), AVG(duration_ms), MAX(timestamp) FROM history`).Scan(&stats.TotalEntries, &avg, &last)
	if err != nil {
		return nil, storageError("failed to count history", err)
	}
	stats.AverageDurationMS = avg.Float64
	if last.Valid {
		stats.LastEntry = parseTimestamp(last.String)
	}

	groups := []struct {
		query string
		add   func(key string, n int64)
	}{
		{`SELECT status, COUNT(*) FROM history GROUP BY status`,
			func(k string, n int64) { stats.EntriesByStatus[Status(k)] = n }},
		{`SELECT origin, COUNT(*) FROM history GROUP BY origin`,
			func(k string, n int64) { stats.EntriesByOrigin[k] = n }},
		{`SELECT error_code, COUNT(*) FROM history WHERE error_code != '' GROUP BY error_code`,
			func(k string, n int64) { stats.ErrorsByCode[k] = n }},
	}

	for _, g := range groups {
		rows, err := s.db.QueryContext(ctx, g.query)
		if err != nil {
			return nil, storageError("failed to aggregate history", err)
		}
		for rows.Next() {
			var key string
			var count int64
			if err := rows.Scan(&key, &count); err == nil {
				g.add(key, count)
			}
		}
		rows.Close()
	}

	return stats, nil
}

// sqlite returns MAX(timestamp) as text in the driver's storage format
func parseTimestamp(s string) time.Time {
	layouts := []string{
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02T15:04:05.999999999-07:00",
		"2006-01-02 15:04:05.999999999",
		time.RFC3339Nano,
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Vacuum reclaims space after pruning
func (s *SQLiteStore) Vacuum(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `VACUUM`); err != nil {
		return storageError("failed to vacuum", err)
	}
	return nil
}

// Prune deletes entries older than the given duration
func (s *SQLiteStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().UTC().Add(-olderThan)
	result, err := s.db.ExecContext(ctx, `DELETE FROM history WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, storageError("failed to prune history", err)
	}
	return result.RowsAffected()
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func storageError(message string, cause error) error {
	return mdwerror.Wrap(cause, message).WithCode(mdwerror.CodeStorageError)
}

// String renders a one-line summary of the entry
func (e *Entry) String() string {
	id := e.ID
	if len(id) > 8 {
		id = id[:8]
	}
	line := fmt.Sprintf("%s %s %-5s %-6s %s", e.Timestamp.Format(time.RFC3339), id, e.Status, e.Operation, e.Origin)
	if e.ErrorMessage != "" {
		line += ": " + e.ErrorMessage
	}
	return line
}
