package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

const (
	bucketAthletes  = "athletes"
	bucketDecisions = "decisions"
	bucketClubs     = "clubs"
	bucketMeta      = "meta"
)

var sqliteBuckets = []string{bucketAthletes, bucketDecisions, bucketClubs, bucketMeta}

type snapshotMeta struct {
	SavedAt time.Time `json:"saved_at"`
}

// SQLiteStore keeps one JSON payload per collection in a single SQLite table.
type SQLiteStore struct {
	db    *sql.DB
	mu    sync.Mutex
	path  string
	table string
}

// NewSQLiteStore opens (or creates) the database at path.
func NewSQLiteStore(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	if path == "" {
		path = "vero.db"
	}
	s := &SQLiteStore{path: path, table: "state"}
	for _, opt := range opts {
		opt(s)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("%w: create dirs: %w", ErrOpen, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	// One writer at a time; sqlite serialises anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`, s.table)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: create state table: %w", ErrOpen, err)
	}
	s.db = db
	return s, nil
}

// Load reads every bucket back into a Snapshot.
func (s *SQLiteStore) Load(ctx context.Context) (Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return Snapshot{}, false, ErrClosed
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT bucket, payload FROM %s`, s.table))
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("%w: select state: %w", ErrDecode, err)
	}
	defer func() { _ = rows.Close() }()

	var snap Snapshot
	found := false
	for rows.Next() {
		var (
			bucket  string
			payload []byte
		)
		if err := rows.Scan(&bucket, &payload); err != nil {
			return Snapshot{}, false, fmt.Errorf("%w: scan: %w", ErrDecode, err)
		}
		found = true
		if err := decodeBucket(&snap, bucket, payload); err != nil {
			return Snapshot{}, false, err
		}
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, false, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return snap, found, nil
}

func decodeBucket(snap *Snapshot, bucket string, payload []byte) error {
	var target any
	switch bucket {
	case bucketAthletes:
		target = &snap.Athletes
	case bucketDecisions:
		target = &snap.Decisions
	case bucketClubs:
		target = &snap.Clubs
	case bucketMeta:
		var meta snapshotMeta
		if err := json.Unmarshal(payload, &meta); err != nil {
			return fmt.Errorf("%w: meta: %w", ErrDecode, err)
		}
		snap.SavedAt = meta.SavedAt
		return nil
	default:
		return nil
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDecode, bucket, err)
	}
	return nil
}

// Save upserts every bucket inside one transaction.
func (s *SQLiteStore) Save(ctx context.Context, snap Snapshot) (retErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return ErrClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", ErrPersist, err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	upsert := fmt.Sprintf(`INSERT INTO %s(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`, s.table)
	for _, bucket := range sqliteBuckets {
		var data []byte
		switch bucket {
		case bucketAthletes:
			data, err = json.Marshal(nonNil(snap.Athletes))
		case bucketDecisions:
			data, err = json.Marshal(nonNil(snap.Decisions))
		case bucketClubs:
			data, err = json.Marshal(nonNil(snap.Clubs))
		case bucketMeta:
			data, err = json.Marshal(snapshotMeta{SavedAt: snap.SavedAt})
		}
		if err != nil {
			return fmt.Errorf("%w: encode %s: %w", ErrPersist, bucket, err)
		}
		if _, err = tx.ExecContext(ctx, upsert, bucket, data); err != nil {
			return fmt.Errorf("%w: upsert %s: %w", ErrPersist, bucket, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrPersist, err)
	}
	return nil
}

// Close releases the database handle. Further calls return ErrClosed.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Path returns the configured database path.
func (s *SQLiteStore) Path() string { return s.path }

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
