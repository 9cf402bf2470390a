package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Prefix is the key prefix of every cached response.
const Prefix = "cache/"

var ErrNotFound = errors.New("not found")

// Open opens the badger database backing the cache. An empty path keeps the
// whole database in memory.
func Open(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return db, nil
}

// Store keeps JSON encoded backend responses for ttl.
type Store struct {
	db  *badger.DB
	ttl time.Duration
}

func NewStore(db *badger.DB, ttl time.Duration) *Store {
	return &Store{
		db:  db,
		ttl: ttl,
	}
}

func (s *Store) Get(_ context.Context, key string, v any) error {
	if err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(cacheKey(key))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, v)
		})
	}); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Set stores v under key. A zero ttl keeps the entry until DropAll.
func (s *Store) Set(_ context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", key, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(cacheKey(key), data)
		if s.ttl > 0 {
			entry = entry.WithTTL(s.ttl)
		}
		return txn.SetEntry(entry)
	})
}

// DropAll removes every cached response.
func (s *Store) DropAll(_ context.Context) error {
	if err := s.db.DropPrefix([]byte(Prefix)); err != nil {
		return fmt.Errorf("drop prefix: %w", err)
	}
	return nil
}

func cacheKey(key string) []byte {
	return []byte(fmt.Sprintf("%s%s", Prefix, key))
}
