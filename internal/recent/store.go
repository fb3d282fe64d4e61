// Package recent keeps the most-recent-first list of committed search terms.
package recent

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"

	"github.com/Clark-Hu/reelscout/internal/kv"
	"github.com/Clark-Hu/reelscout/internal/metrics"
)

const (
	// DefaultKey is the key the list is stored under when no client id is given.
	DefaultKey = "recent_searches"
	// DefaultLimit caps the number of stored terms. WithLimit can only lower it.
	DefaultLimit = 10
)

// KeyFor namespaces the list per client; an empty id selects DefaultKey.
func KeyFor(clientID string) string {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return DefaultKey
	}
	return DefaultKey + ":" + clientID
}

// Normalize lowercases and trims a term. An empty result is never stored.
func Normalize(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// Option configures a Store.
type Option func(*Store)

// WithLimit keeps fewer terms. Values outside 1..DefaultLimit are ignored.
func WithLimit(n int) Option {
	return func(s *Store) {
		if n > 0 && n <= DefaultLimit {
			s.limit = n
		}
	}
}

// WithLogger sets the logger for backend failures.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Store reads and writes the list under one key of a kv backend. After the
// first backend failure it stops using the backend and serves from memory
// until the process exits.
type Store struct {
	backend kv.Store
	key     string
	limit   int
	logger  *log.Logger

	mu       sync.Mutex
	degraded bool
	memory   []string
}

// NewStore builds a Store for key over backend.
func NewStore(backend kv.Store, key string, opts ...Option) *Store {
	if key == "" {
		key = DefaultKey
	}
	s := &Store{
		backend: backend,
		key:     key,
		limit:   DefaultLimit,
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Degraded reports whether the store has fallen back to memory.
func (s *Store) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

// List returns the stored terms, most recent first.
func (s *Store) List(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.loadLocked(ctx))
}

// Record moves term to the front of the list, dropping the oldest entries
// past the limit, and returns the new list. Empty terms leave the list as is.
func (s *Store) Record(ctx context.Context, term string) []string {
	term = Normalize(term)

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.loadLocked(ctx)
	if term == "" {
		return clone(current)
	}

	next := make([]string, 0, s.limit)
	next = append(next, term)
	for _, existing := range current {
		if len(next) == s.limit {
			break
		}
		if existing != term {
			next = append(next, existing)
		}
	}
	s.saveLocked(ctx, next)
	return clone(next)
}

// Clear removes every stored term.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.memory = nil
	if s.degraded {
		return nil
	}
	if err := s.backend.Remove(ctx, s.key); err != nil {
		s.degradeLocked("remove", err)
	}
	return nil
}

func (s *Store) loadLocked(ctx context.Context) []string {
	if s.degraded {
		return s.memory
	}
	raw, ok, err := s.backend.Get(ctx, s.key)
	if err != nil {
		s.degradeLocked("get", err)
		return s.memory
	}
	if !ok || raw == "" {
		s.memory = nil
		return nil
	}
	var terms []string
	if err := json.Unmarshal([]byte(raw), &terms); err != nil {
		s.logger.Printf("recent: ignoring malformed list under %q: %v", s.key, err)
		return nil
	}
	if len(terms) > s.limit {
		terms = terms[:s.limit]
	}
	s.memory = terms
	return terms
}

func (s *Store) saveLocked(ctx context.Context, terms []string) {
	s.memory = terms
	if s.degraded {
		return
	}
	payload, err := json.Marshal(terms)
	if err != nil {
		s.degradeLocked("encode", err)
		return
	}
	if err := s.backend.Set(ctx, s.key, string(payload)); err != nil {
		s.degradeLocked("set", err)
	}
}

func (s *Store) degradeLocked(op string, err error) {
	metrics.RecordRecentStoreError(op)
	if !s.degraded {
		s.logger.Printf("recent: %s on %q failed, keeping recent searches in memory: %v", op, s.key, err)
	}
	s.degraded = true
}

func clone(terms []string) []string {
	out := make([]string, len(terms))
	copy(out, terms)
	return out
}
