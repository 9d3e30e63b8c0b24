package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// PerftRecord is one cached perft count.
type PerftRecord struct {
	Variant    string    `json:"variant"`
	FEN        string    `json:"fen"`
	Depth      int       `json:"depth"`
	Nodes      int64     `json:"nodes"`
	ComputedAt time.Time `json:"computed_at"`
}

// Cache wraps BadgerDB for persistent perft results.
type Cache struct {
	db *badger.DB
}

// Open opens the cache at the default platform location.
func Open() (*Cache, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return OpenAt(dbDir)
}

// OpenAt opens the cache at an explicit directory. Tests point this at a
// temp dir.
func OpenAt(dir string) (*Cache, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Cache{db: db}, nil
}

// Close closes the database.
func (c *Cache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func recordKey(variant, fen string, depth int) []byte {
	return []byte(fmt.Sprintf("perft|%s|%s|%d", variant, fen, depth))
}

// Put stores a perft result.
func (c *Cache) Put(variant, fen string, depth int, nodes int64) error {
	rec := PerftRecord{
		Variant:    variant,
		FEN:        fen,
		Depth:      depth,
		Nodes:      nodes,
		ComputedAt: time.Now(),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recordKey(variant, fen, depth), data)
	})
}

// Get looks up a cached perft result. The second return value reports
// whether the entry exists.
func (c *Cache) Get(variant, fen string, depth int) (int64, bool, error) {
	var rec PerftRecord
	found := false

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(recordKey(variant, fen, depth))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return 0, false, err
	}
	return rec.Nodes, found, nil
}
