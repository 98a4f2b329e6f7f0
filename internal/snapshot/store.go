package snapshot

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
)

//go:generate go tool mockgen -destination=./snapshotmock/store.go -package=snapshotmock . Store

// Store keeps the latest snapshot of every actor.
// Save only updates memory; Flush writes pending records to the backend.
type Store interface {
	// Load returns the stored record for id. The bool is false if none exists
	// or the stored bytes are not a JSON object.
	Load(id string) (Record, bool)
	// Save replaces the in-memory snapshot for s.ID.
	Save(s Snapshot)
	// Flush writes every snapshot saved since the last flush.
	Flush() error
}

// ErrNotFound is returned by Backend.Read when no record exists for an id.
var ErrNotFound = errors.New("snapshot: not found")

// Backend is durable storage for encoded snapshots.
type Backend interface {
	Read(id string) ([]byte, error)
	Write(records map[string][]byte) error
}

// BufferedStore is a Store that caches encoded snapshots in memory and
// writes dirty ones to a Backend on Flush. Safe for concurrent use.
type BufferedStore struct {
	mu      sync.Mutex
	backend Backend
	cache   map[string][]byte
	dirty   map[string]struct{}
	logger  *log.Logger
}

// NewStore creates a store on top of backend. A nil backend keeps
// snapshots in memory only.
func NewStore(backend Backend, logger *log.Logger) *BufferedStore {
	return &BufferedStore{
		backend: backend,
		cache:   make(map[string][]byte),
		dirty:   make(map[string]struct{}),
		logger:  logger,
	}
}

// NewMemoryStore creates a store with no backend.
func NewMemoryStore() *BufferedStore {
	return NewStore(nil, nil)
}

// Load implements Store.
func (s *BufferedStore) Load(id string) (Record, bool) {
	s.mu.Lock()
	data, ok := s.cache[id]
	s.mu.Unlock()

	if !ok {
		if s.backend == nil {
			return Record{}, false
		}
		var err error
		data, err = s.backend.Read(id)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				s.warn("read snapshot failed", "id", id, "err", err)
			}
			return Record{}, false
		}
	}

	rec, err := Decode(data)
	if err != nil {
		s.warn("unreadable snapshot", "id", id, "err", err)
		return Record{}, false
	}
	return rec, true
}

// Save implements Store.
func (s *BufferedStore) Save(snap Snapshot) {
	data, err := snap.Encode()
	if err != nil {
		// Only a non-finite position or speed fails to encode.
		s.warn("encode snapshot failed", "id", snap.ID, "err", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[snap.ID] = data
	s.dirty[snap.ID] = struct{}{}
}

// Flush implements Store. On failure the pending set is kept so a later
// flush writes it again.
func (s *BufferedStore) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.dirty) == 0 {
		return nil
	}
	if s.backend == nil {
		clear(s.dirty)
		return nil
	}

	batch := make(map[string][]byte, len(s.dirty))
	for id := range s.dirty {
		batch[id] = s.cache[id]
	}
	if err := s.backend.Write(batch); err != nil {
		return fmt.Errorf("snapshot: flush %d records: %w", len(batch), err)
	}
	clear(s.dirty)
	return nil
}

// Pending returns the ids saved since the last successful flush, sorted.
func (s *BufferedStore) Pending() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Sorted(maps.Keys(s.dirty))
}

func (s *BufferedStore) warn(msg string, keyvals ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, keyvals...)
	}
}
