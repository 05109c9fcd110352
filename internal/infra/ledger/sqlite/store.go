// Package sqlite provides a ledger snapshot adapter persisted to a single
// SQLite table as JSON buckets. Reads are served from the hydrated in-memory
// store; Apply snapshots the full state back after every successful seeding
// pass.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"provencore/internal/infra/ledger/memory"
	"provencore/pkg/domain"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Compile-time contract assertion.
var _ domain.LedgerReader = (*Store)(nil)

// Store persists the in-memory ledger state to SQLite as JSON blobs.
type Store struct {
	*memory.Store
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// NewStore opens (creating when absent) a snapshotting SQLite-backed store and
// hydrates the in-memory ledger from it.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = "provencore.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create state table: %w", err)
	}
	s := &Store{Store: memory.NewStore(), db: db, path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

var sqliteBuckets = []string{"batches", "participants", "transfers", "registration_requests", "status_changes", "administrator"}

func (s *Store) load() error {
	rows, err := s.db.Query(`SELECT bucket, payload FROM state`)
	if err != nil {
		return fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()

	snapshot := memory.Snapshot{}
	loaded := false
	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		loaded = true
		switch bucket {
		case "batches":
			if err := json.Unmarshal(payload, &snapshot.Batches); err != nil {
				return fmt.Errorf("decode batches: %w", err)
			}
		case "participants":
			if err := json.Unmarshal(payload, &snapshot.Participants); err != nil {
				return fmt.Errorf("decode participants: %w", err)
			}
		case "transfers":
			if err := json.Unmarshal(payload, &snapshot.Transfers); err != nil {
				return fmt.Errorf("decode transfers: %w", err)
			}
		case "registration_requests":
			if err := json.Unmarshal(payload, &snapshot.RegistrationRequests); err != nil {
				return fmt.Errorf("decode registration requests: %w", err)
			}
		case "status_changes":
			if err := json.Unmarshal(payload, &snapshot.StatusChanges); err != nil {
				return fmt.Errorf("decode status changes: %w", err)
			}
		case "administrator":
			if err := json.Unmarshal(payload, &snapshot.Administrator); err != nil {
				return fmt.Errorf("decode administrator: %w", err)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate state: %w", err)
	}
	if loaded {
		s.ImportState(snapshot)
	}
	return nil
}

func (s *Store) persist() (retErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.ExportState()
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	for _, bucket := range sqliteBuckets {
		var data []byte
		switch bucket {
		case "batches":
			data, err = json.Marshal(snapshot.Batches)
		case "participants":
			data, err = json.Marshal(snapshot.Participants)
		case "transfers":
			data, err = json.Marshal(snapshot.Transfers)
		case "registration_requests":
			data, err = json.Marshal(snapshot.RegistrationRequests)
		case "status_changes":
			data, err = json.Marshal(snapshot.StatusChanges)
		case "administrator":
			data, err = json.Marshal(snapshot.Administrator)
		}
		if err != nil {
			retErr = err
			return retErr
		}
		if _, err = tx.Exec(`INSERT INTO state(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`, bucket, data); err != nil {
			retErr = fmt.Errorf("upsert %s: %w", bucket, err)
			return retErr
		}
	}
	return tx.Commit()
}

// Apply runs a seeding function against the in-memory state, then snapshots
// the full state to SQLite when the function succeeds.
func (s *Store) Apply(fn func(*memory.Store) error) error {
	if err := fn(s.Store); err != nil {
		return err
	}
	return s.persist()
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }
