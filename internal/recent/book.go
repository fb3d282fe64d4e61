package recent

import (
	"sync"

	"github.com/Clark-Hu/reelscout/internal/kv"
)

// Book hands out one Store per client id over a shared backend.
type Book struct {
	backend kv.Store
	opts    []Option

	mu     sync.Mutex
	stores map[string]*Store
}

// NewBook creates a Book; opts apply to every Store it creates.
func NewBook(backend kv.Store, opts ...Option) *Book {
	return &Book{backend: backend, opts: opts, stores: make(map[string]*Store)}
}

// For returns the Store of clientID, creating it on first use.
func (b *Book) For(clientID string) *Store {
	key := KeyFor(clientID)

	b.mu.Lock()
	defer b.mu.Unlock()
	if s, ok := b.stores[key]; ok {
		return s
	}
	s := NewStore(b.backend, key, b.opts...)
	b.stores[key] = s
	return s
}
