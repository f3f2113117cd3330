// Package history keeps the reports of past runs in a bbolt file.
package history

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/wesleyorama2/hakai/internal/metrics"
)

const bucketRuns = "runs"

// ErrNotFound is returned by Get for an unknown run id.
var ErrNotFound = errors.New("run not found")

// Entry is one saved run.
type Entry struct {
	ID          string          `json:"id"`
	Timestamp   time.Time       `json:"timestamp"`
	Scenario    string          `json:"scenario"`
	Domain      string          `json:"domain"`
	Concurrency int             `json:"concurrency"`
	Loops       int             `json:"loops"`
	Report      *metrics.Report `json:"report"`
}

// Store is a run history file. Entries are keyed by insertion sequence, so
// iteration order is chronological.
type Store struct {
	db   *bbolt.DB
	path string
}

// Open opens or creates the history file at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("cannot create history directory: %w", err)
		}
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("cannot open history %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketRuns))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the history file location.
func (s *Store) Path() string {
	return s.path
}

// Close releases the history file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save appends an entry.
func (s *Store) Save(e Entry) error {
	if e.ID == "" {
		return fmt.Errorf("entry id is required")
	}

	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketRuns))
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(sequenceKey(seq), data)
	})
}

// List returns up to limit entries, newest first. A limit of zero or less
// returns every entry.
func (s *Store) List(limit int) ([]Entry, error) {
	var entries []Entry

	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(bucketRuns)).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(entries) >= limit {
				break
			}
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("corrupt history entry %x: %w", k, err)
			}
			entries = append(entries, e)
		}
		return nil
	})

	return entries, err
}

// Get returns the entry with the given run id.
func (s *Store) Get(id string) (*Entry, error) {
	var found *Entry

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketRuns)).ForEach(func(k, v []byte) error {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("corrupt history entry %x: %w", k, err)
			}
			if e.ID == id {
				found = &e
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return found, nil
}

func sequenceKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}
