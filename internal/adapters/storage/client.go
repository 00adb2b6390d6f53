package storage

import (
	"sync"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	"go.trai.ch/iceberg/internal/core/domain"
	"go.trai.ch/zerr"
)

// ClientStore implements ports.ClientDiffStorage.
// It keeps one entry per request identity and evicts the least recently written entry.
type ClientStore struct {
	mu      sync.Mutex
	entries *simplelru.LRU[string, domain.CachedResponse]
}

// NewClientStore creates a store holding at most maxResponses entries.
func NewClientStore(maxResponses int) (*ClientStore, error) {
	entries, err := simplelru.NewLRU[string, domain.CachedResponse](maxResponses, nil)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "max responses must be positive"), "value", maxResponses)
	}
	return &ClientStore{entries: entries}, nil
}

// Response returns the cached entry for req.
func (s *ClientStore) Response(req domain.Request) (domain.CachedResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries.Peek(req.Key())
}

// Store replaces the cached entry for req and marks it most recently written.
func (s *ClientStore) Store(req domain.Request, entry domain.CachedResponse) {
	key := req.Key()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries.Remove(key)
	s.entries.Add(key, entry)
}

// Len returns the number of cached entries.
func (s *ClientStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries.Len()
}
