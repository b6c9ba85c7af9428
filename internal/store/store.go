// Package store persists named collections as whole JSON documents, one file
// per collection. Every mutation rewrites the full file; there is no partial
// write and no per-record locking. Update is the only safe way to run a
// read-modify-write cycle: it holds the collection's lock across the full
// load-mutate-save round trip so concurrent mutations cannot drop each other's
// writes.
package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	apperrors "bazaar/internal/errors"
)

// Collection names used across the service.
const (
	Users    = "users"
	Articles = "articles"
	Chats    = "chats"
	Profiles = "profiles"
)

// Store manages JSON collection files under a single data directory.
type Store struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{
		dir:   dir,
		locks: make(map[string]*sync.Mutex),
	}, nil
}

// lock returns the mutex serializing access to one collection.
func (s *Store) lock(collection string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[collection]
	if !ok {
		l = &sync.Mutex{}
		s.locks[collection] = l
	}
	return l
}

func (s *Store) path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

// Load reads a collection into v, best effort. A missing file leaves v at its
// zero value, which doubles as the collection's documented empty default. A
// present-but-unreadable file is treated the same externally but logged, so
// corruption stays distinguishable from an empty collection in the server log.
func (s *Store) Load(collection string, v interface{}) {
	l := s.lock(collection)
	l.Lock()
	defer l.Unlock()
	s.load(collection, v)
}

// load is Load without locking, for use inside Update.
func (s *Store) load(collection string, v interface{}) {
	raw, err := os.ReadFile(s.path(collection))
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("WARNING: collection %s unreadable, serving empty default: %v", collection, err)
		}
		return
	}
	if err := json.Unmarshal(raw, v); err != nil {
		log.Printf("WARNING: collection %s present but malformed, serving empty default: %v", collection, err)
	}
}

// Save serializes v and rewrites the collection file in full. The rewrite goes
// through a temp file plus rename so readers never observe a torn document.
// A write failure must abort the caller's mutation, never be swallowed.
func (s *Store) Save(collection string, v interface{}) error {
	l := s.lock(collection)
	l.Lock()
	defer l.Unlock()
	return s.save(collection, v)
}

func (s *Store) save(collection string, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal collection %s: %v", apperrors.ErrStorageFailure, collection, err)
	}
	target := s.path(collection)
	tmp, err := os.CreateTemp(s.dir, collection+"-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp for %s: %v", apperrors.ErrStorageFailure, collection, err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: write collection %s: %v", apperrors.ErrStorageFailure, collection, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: close collection %s: %v", apperrors.ErrStorageFailure, collection, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: replace collection %s: %v", apperrors.ErrStorageFailure, collection, err)
	}
	return nil
}

// Update runs fn as a serialized read-modify-write cycle: the collection lock
// is held while the current document is loaded into v, fn mutates v, and the
// result is persisted. fn returning an error aborts the cycle with nothing
// written.
func (s *Store) Update(collection string, v interface{}, fn func() error) error {
	l := s.lock(collection)
	l.Lock()
	defer l.Unlock()

	s.load(collection, v)
	if err := fn(); err != nil {
		return err
	}
	return s.save(collection, v)
}
