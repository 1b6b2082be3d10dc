// Package store caches generated surfaces in a LevelDB database keyed by
// configuration fingerprint.
package store

import (
	"errors"
	"fmt"

	"github.com/df-mc/goleveldb/leveldb"
	"github.com/df-mc/goleveldb/leveldb/opt"
	"github.com/df-mc/goleveldb/leveldb/storage"

	"lemterrain/internal/surface"
)

// Store is a persistent surface cache. It is safe for concurrent use.
type Store struct {
	db *leveldb.DB
}

func options() *opt.Options {
	return &opt.Options{Compression: opt.SnappyCompression}
}

// Open opens or creates the cache in dir.
func Open(dir string) (*Store, error) {
	db, err := leveldb.OpenFile(dir, options())
	if err != nil {
		return nil, fmt.Errorf("open surface cache: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenMemory returns a cache that lives only as long as the process.
func OpenMemory() (*Store, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), options())
	if err != nil {
		return nil, fmt.Errorf("open memory cache: %w", err)
	}
	return &Store{db: db}, nil
}

// Get loads the surface stored under key. ok is false on a miss.
func (s *Store) Get(key string) (surf *surface.Surface, ok bool, err error) {
	data, err := s.db.Get([]byte(key), nil)
	switch {
	case errors.Is(err, leveldb.ErrNotFound):
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("read %q: %w", key, err)
	}
	surf, err = Decode(data)
	if err != nil {
		return nil, false, fmt.Errorf("decode %q: %w", key, err)
	}
	return surf, true, nil
}

// Put stores surf under key, replacing any previous value.
func (s *Store) Put(key string, surf *surface.Surface) error {
	if err := s.db.Put([]byte(key), Encode(surf), nil); err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	if err := s.db.Delete([]byte(key), nil); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }
