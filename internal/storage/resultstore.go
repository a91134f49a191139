package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.etcd.io/bbolt"
)

const (
	// ResultBucket for storing finished computations
	ResultBucket = "results"

	// MetaBucket for storing metadata
	MetaBucket = "meta"
)

// Result records one finished nimber computation. The store is a ledger of
// outputs for later inspection and export; the evaluator never reads it.
type Result struct {
	Game       string  `json:"game"`        // Human-readable position, e.g. "kayles/200"
	Nimber     int     `json:"nimber"`      // Final nimber value
	CacheSize  int     `json:"cache_size"`  // Positions cached when it finished
	ElapsedMs  float64 `json:"elapsed_ms"`  // Wall time of the computation
	ComputedAt int64   `json:"computed_at"` // Unix timestamp
}

// ResultStore manages the ledger of computed nimbers with a BoltDB backend
type ResultStore struct {
	db       *bbolt.DB
	dbPath   string
	isClosed bool
}

// NewResultStore opens (or creates) the ledger at dbPath
func NewResultStore(dbPath string) (*ResultStore, error) {
	// Open database with timeout
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{
		Timeout: 5 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Initialize buckets
	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(ResultBucket)); err != nil {
			return fmt.Errorf("create result bucket: %w", err)
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(MetaBucket)); err != nil {
			return fmt.Errorf("create meta bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &ResultStore{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Put stores (or overwrites) the result for a game, keyed by its label
func (s *ResultStore) Put(result Result) error {
	if s.isClosed {
		return fmt.Errorf("store is closed")
	}
	if result.Game == "" {
		return fmt.Errorf("result has no game label")
	}
	if result.Nimber < 0 {
		return fmt.Errorf("invalid nimber: %d", result.Nimber)
	}

	if result.ComputedAt == 0 {
		result.ComputedAt = time.Now().Unix()
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(ResultBucket))
		if b == nil {
			return fmt.Errorf("bucket not found")
		}
		return b.Put([]byte(result.Game), data)
	})
}

// Get retrieves the result for a game label, if recorded
func (s *ResultStore) Get(game string) (*Result, error) {
	if s.isClosed {
		return nil, fmt.Errorf("store is closed")
	}

	var result *Result
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(ResultBucket))
		if b == nil {
			return fmt.Errorf("bucket not found")
		}

		data := b.Get([]byte(game))
		if data == nil {
			return nil
		}

		var r Result
		if err := json.Unmarshal(data, &r); err != nil {
			return fmt.Errorf("failed to unmarshal result: %w", err)
		}
		result = &r
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result == nil {
		return nil, fmt.Errorf("no result for %s", game)
	}
	return result, nil
}

// Count returns the number of recorded results
func (s *ResultStore) Count() (int, error) {
	if s.isClosed {
		return 0, fmt.Errorf("store is closed")
	}

	count := 0
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(ResultBucket))
		if b == nil {
			return fmt.Errorf("bucket not found")
		}
		count = b.Stats().KeyN
		return nil
	})
	return count, err
}

// All returns every recorded result in key order
func (s *ResultStore) All() ([]Result, error) {
	if s.isClosed {
		return nil, fmt.Errorf("store is closed")
	}

	var results []Result
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(ResultBucket))
		if b == nil {
			return fmt.Errorf("bucket not found")
		}

		return b.ForEach(func(_, data []byte) error {
			var r Result
			if err := json.Unmarshal(data, &r); err != nil {
				return nil // Skip corrupted entries
			}
			results = append(results, r)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// ExportJSON writes every recorded result to w as an indented JSON array
func (s *ResultStore) ExportJSON(w io.Writer) error {
	results, err := s.All()
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// Close closes the underlying database
func (s *ResultStore) Close() error {
	if s.isClosed {
		return nil
	}
	s.isClosed = true
	return s.db.Close()
}
