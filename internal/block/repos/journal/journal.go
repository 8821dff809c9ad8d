// Package journal keeps an append-only record of block lifecycle
// transitions in a Bolt database under the state directory. It is a
// best-effort audit trail: the controller logs and continues when a
// journal write fails, and status display only reads the latest entry.
package journal

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bbolt "go.etcd.io/bbolt"
)

// FileName is the journal database file under the state directory.
const FileName = "journal.db"

var bucketEvents = []byte("events")

// Event records one lifecycle transition.
type Event struct {
	At       time.Time `json:"at"`
	Action   string    `json:"action"` // "block" or "unblock"
	Domains  []string  `json:"domains,omitempty"`
	UnlockAt time.Time `json:"unlock_at,omitzero"`
}

// Store is a bbolt-backed event journal.
type Store struct {
	db *bbolt.DB
}

// Open opens (or creates) the journal under stateDir and ensures the
// events bucket exists.
func Open(stateDir string) (*Store, error) {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir: %w", err)
	}
	db, err := bbolt.Open(filepath.Join(stateDir, FileName), 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketEvents)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Append records an event keyed by its timestamp.
func (s *Store) Append(ev Event) error {
	val, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding journal event: %w", err)
	}
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(ev.At.UnixNano()))
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketEvents).Put(key, val)
	})
}

// Last returns the most recent event, if any.
func (s *Store) Last() (Event, bool, error) {
	var ev Event
	var present bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketEvents).Cursor()
		k, v := c.Last()
		if k == nil {
			return nil
		}
		present = true
		return json.Unmarshal(v, &ev)
	})
	return ev, present, err
}

// Len returns the number of recorded events.
func (s *Store) Len() (int, error) {
	var n int
	err := s.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketEvents).Stats().KeyN
		return nil
	})
	return n, err
}
