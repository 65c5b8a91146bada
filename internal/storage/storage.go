package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// Key layout: perft/<fen>/<depth as two digits>. The fixed-width depth keeps
// a prefix scan over one position in depth order.
const keyPrefix = "perft/"

// Result is one recorded perft count.
type Result struct {
	RunID    string        `json:"run_id"`
	FEN      string        `json:"fen"`
	Depth    int           `json:"depth"`
	Nodes    uint64        `json:"nodes"`
	Elapsed  time.Duration `json:"elapsed"`
	Recorded time.Time     `json:"recorded"`
}

// NewRunID returns an id that groups the results of one tool invocation.
func NewRunID() string {
	return uuid.NewString()
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// Open opens (or creates) the cache in dir.
func Open(dir string) (*Storage, error) {
	return open(badger.DefaultOptions(dir))
}

// OpenInMemory opens a cache that lives only as long as the process.
func OpenInMemory() (*Storage, error) {
	return open(badger.DefaultOptions("").WithInMemory(true))
}

func open(opts badger.Options) (*Storage, error) {
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open perft cache: %w", err)
	}
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func resultKey(fen string, depth int) []byte {
	return []byte(fmt.Sprintf("%s%s/%02d", keyPrefix, fen, depth))
}

// Put records a result, replacing any earlier count for the same position
// and depth. A zero Recorded time is set to now.
func (s *Storage) Put(r *Result) error {
	if r.FEN == "" || r.Depth < 1 {
		return fmt.Errorf("perft cache: invalid result for %q at depth %d", r.FEN, r.Depth)
	}
	if r.Recorded.IsZero() {
		r.Recorded = time.Now()
	}

	data, err := json.Marshal(r)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(resultKey(r.FEN, r.Depth), data)
	})
}

// Get returns the recorded result for fen at depth. The boolean is false when
// nothing is cached.
func (s *Storage) Get(fen string, depth int) (*Result, bool, error) {
	var r Result
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(resultKey(fen, depth))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &r)
		})
	})
	if err != nil || !found {
		return nil, false, err
	}
	return &r, true, nil
}

// Results returns every cached result for fen in increasing depth.
func (s *Storage) Results(fen string) ([]Result, error) {
	return s.scan([]byte(keyPrefix + fen + "/"))
}

// All returns every cached result ordered by position then depth.
func (s *Storage) All() ([]Result, error) {
	return s.scan([]byte(keyPrefix))
}

func (s *Storage) scan(prefix []byte) ([]Result, error) {
	var results []Result

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var r Result
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &r)
			}); err != nil {
				return err
			}
			results = append(results, r)
		}
		return nil
	})
	return results, err
}

// DeleteRun removes every result recorded under runID and returns how many
// were removed.
func (s *Storage) DeleteRun(runID string) (int, error) {
	all, err := s.All()
	if err != nil {
		return 0, err
	}

	removed := 0
	err = s.db.Update(func(txn *badger.Txn) error {
		for _, r := range all {
			if !strings.EqualFold(r.RunID, runID) {
				continue
			}
			if err := txn.Delete(resultKey(r.FEN, r.Depth)); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	return removed, err
}
