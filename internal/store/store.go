// ============================================================================
// deepclock - How far back does the clock go
// ============================================================================
//
// Package:     store
// Description: SQLite persistence of the configured interval
// Author:      msto63
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	dcerr "github.com/msto63/deepclock/foundation/core/error"
	"github.com/msto63/deepclock/internal/clock"
	"github.com/msto63/deepclock/pkg/core/logging"
	"github.com/msto63/deepclock/pkg/core/version"
)

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

// Record is one saved interval
type Record struct {
	ID        string         `json:"id"`
	Interval  clock.Interval `json:"interval"`
	CreatedAt time.Time      `json:"created_at"`
}

// IntervalStore defines the interface for interval persistence
type IntervalStore interface {
	Save(ctx context.Context, iv clock.Interval) (Record, error)
	Load(ctx context.Context) (Record, error)
	History(ctx context.Context, limit int) ([]Record, error)
	Clear(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}

// Config holds configuration for the SQLite store
type Config struct {
	Path        string
	BusyTimeout time.Duration
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Path:        "./data/deepclock.db",
		BusyTimeout: 5 * time.Second,
	}
}

// SQLiteStore implements IntervalStore using SQLite
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	logger *logging.Logger
	now    func() time.Time
}

// Open opens or creates the database at cfg.Path and prepares the schema
func Open(ctx context.Context, cfg Config, logger *logging.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = logging.New("store")
	}
	if cfg.Path == "" {
		cfg.Path = DefaultConfig().Path
	}
	if cfg.BusyTimeout <= 0 {
		cfg.BusyTimeout = DefaultConfig().BusyTimeout
	}

	dsn := cfg.Path
	if cfg.Path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			e := dbError(err, "create data directory", "store.Open").WithDetail("path", cfg.Path)
			logger.LogError(e)
			return nil, e
		}
		dsn += "?_journal_mode=WAL&_synchronous=NORMAL"
		dsn += "&_busy_timeout=" + strconv.FormatInt(cfg.BusyTimeout.Milliseconds(), 10)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		e := dbError(err, "failed to open database", "store.Open")
		logger.LogError(e)
		return nil, e
	}
	// One connection keeps :memory: databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, logger: logger, now: time.Now}

	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, s.fail(err, "failed to initialize schema", "store.Open")
	}

	logger.Debug("store opened", "path", cfg.Path, "schema", version.SchemaVersion)
	return s, nil
}

// initSchema creates the necessary tables
func (s *SQLiteStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS intervals (
		id TEXT PRIMARY KEY,
		start_ms INTEGER NOT NULL,
		end_ms INTEGER NOT NULL,
		created_at_ms INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_intervals_created ON intervals(created_at_ms DESC);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES ('schema_version', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		strconv.Itoa(version.SchemaVersion))
	return err
}

// Save validates and stores iv as the current interval
func (s *SQLiteStore) Save(ctx context.Context, iv clock.Interval) (Record, error) {
	if err := iv.Validate(); err != nil {
		return Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	timer := s.logger.StartTimer("store.save")

	rec := Record{
		ID: uuid.New().String(),
		Interval: clock.Interval{
			Start: time.UnixMilli(iv.Start.UnixMilli()).UTC(),
			End:   time.UnixMilli(iv.End.UnixMilli()).UTC(),
		},
		CreatedAt: time.UnixMilli(s.now().UnixMilli()).UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO intervals (id, start_ms, end_ms, created_at_ms) VALUES (?, ?, ?, ?)`,
		rec.ID, rec.Interval.Start.UnixMilli(), rec.Interval.End.UnixMilli(), rec.CreatedAt.UnixMilli())
	if err != nil {
		timer.StopWithError(err)
		return Record{}, s.fail(err, "failed to save interval", "store.Save")
	}

	timer.WithField("id", rec.ID).Stop()
	return rec, nil
}

// Load returns the most recently saved interval. NOT_FOUND means nothing
// has been saved yet.
func (s *SQLiteStore) Load(ctx context.Context) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, start_ms, end_ms, created_at_ms FROM intervals
		 ORDER BY created_at_ms DESC, rowid DESC LIMIT 1`)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, dcerr.New("no interval saved").
			WithCode(dcerr.CodeNotFound).
			WithOperation("store.Load")
	}
	if err != nil {
		return Record{}, s.fail(err, "failed to load interval", "store.Load")
	}
	return rec, nil
}

// History returns up to limit saved intervals, newest first
func (s *SQLiteStore) History(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 10
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, start_ms, end_ms, created_at_ms FROM intervals
		 ORDER BY created_at_ms DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, s.fail(err, "failed to list intervals", "store.History")
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, s.fail(err, "failed to scan interval", "store.History")
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail(err, "failed to list intervals", "store.History")
	}
	return records, nil
}

// Clear deletes every saved interval and returns how many were removed
func (s *SQLiteStore) Clear(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM intervals`)
	if err != nil {
		return 0, s.fail(err, "failed to clear intervals", "store.Clear")
	}
	n, _ := res.RowsAffected()
	s.logger.Info("intervals cleared", "count", n)
	return n, nil
}

// Ping checks that the database answers
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return s.fail(err, "database unreachable", "store.Ping")
	}
	return nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SchemaVersion returns the schema revision recorded in the database
func (s *SQLiteStore) SchemaVersion(ctx context.Context) (int, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&value)
	if err != nil {
		return 0, s.fail(err, "failed to read schema version", "store.SchemaVersion")
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, dcerr.Wrap(err, fmt.Sprintf("invalid schema version %q", value)).
			WithCode(dcerr.CodeInvalidFormat).
			WithOperation("store.SchemaVersion")
	}
	return v, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row scanner) (Record, error) {
	var (
		rec                     Record
		startMs, endMs, created int64
	)
	if err := row.Scan(&rec.ID, &startMs, &endMs, &created); err != nil {
		return Record{}, err
	}
	rec.Interval = clock.Interval{
		Start: time.UnixMilli(startMs).UTC(),
		End:   time.UnixMilli(endMs).UTC(),
	}
	rec.CreatedAt = time.UnixMilli(created).UTC()
	return rec, nil
}

func dbError(err error, message, operation string) *dcerr.Error {
	return dcerr.Wrap(err, message).
		WithCode(dcerr.CodeDatabaseError).
		WithOperation(operation)
}

// fail logs a database failure with its code and operation and returns it
func (s *SQLiteStore) fail(err error, message, operation string) error {
	e := dbError(err, message, operation)
	s.logger.LogError(e)
	return e
}
