// Package storage provides the bounded in-memory caches used for response diffing.
package storage

import (
	"context"
	"sync"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	"go.trai.ch/iceberg/internal/core/domain"
	"go.trai.ch/iceberg/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// DefaultMaxResponses is the default number of bodies a store keeps.
	DefaultMaxResponses = 100
	// DefaultMaxHashesPerUser is the default number of hashes a single user may resolve.
	DefaultMaxHashesPerUser = 20
)

// responseKey identifies one stored body. The owner is part of the key so that
// bodies are never shared between users, even when their content hashes match.
type responseKey struct {
	owner     string
	procedure string
	input     string
	hash      string
}

// ServerStore implements ports.ServerDiffStorage.
//
// Bodies live in one bounded LRU shared by all users. Each user additionally has
// a bounded set of hashes they are allowed to resolve. A hash is resolvable only
// while it is both in its owner's set and in the body cache. Writes refresh
// recency, reads do not.
//
// Anonymous callers share one bucket under the empty owner. Handlers cannot
// tell them apart, so their responses carry nothing user specific.
type ServerStore struct {
	mu          sync.Mutex
	hasher      ports.ContentHasher
	bodies      *simplelru.LRU[responseKey, string]
	permitted   map[string]*simplelru.LRU[responseKey, struct{}]
	maxPerOwner int
}

// NewServerStore creates a store holding at most maxResponses bodies and
// maxHashesPerUser resolvable hashes per user.
func NewServerStore(hasher ports.ContentHasher, maxResponses, maxHashesPerUser int) (*ServerStore, error) {
	if maxHashesPerUser <= 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "max hashes per user must be positive"), "value", maxHashesPerUser)
	}

	s := &ServerStore{
		hasher:      hasher,
		permitted:   make(map[string]*simplelru.LRU[responseKey, struct{}]),
		maxPerOwner: maxHashesPerUser,
	}

	bodies, err := simplelru.NewLRU[responseKey, string](maxResponses, s.onBodyEvicted)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "max responses must be positive"), "value", maxResponses)
	}
	s.bodies = bodies
	return s, nil
}

// Response returns the body stored under hash for req by the owner in ctx.
func (s *ServerStore) Response(ctx context.Context, req domain.Request, hash string) (string, bool) {
	owner := domain.OwnerFrom(ctx)
	key := s.key(owner, req, hash)

	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.permitted[owner]
	if !ok || !set.Contains(key) {
		return "", false
	}
	return s.bodies.Peek(key)
}

// Store records body under hash for req and the owner in ctx.
func (s *ServerStore) Store(ctx context.Context, req domain.Request, hash, body string) {
	owner := domain.OwnerFrom(ctx)
	key := s.key(owner, req, hash)

	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.permitted[owner]
	if !ok {
		// Size is validated in NewServerStore.
		set, _ = simplelru.NewLRU[responseKey, struct{}](s.maxPerOwner, nil)
		s.permitted[owner] = set
	}

	// Make room in the owner's set first so the dropped hash's body goes with it.
	if !set.Contains(key) && set.Len() >= s.maxPerOwner {
		if oldest, _, ok := set.RemoveOldest(); ok {
			s.bodies.Remove(oldest)
		}
	}

	// Remove first so that a rewrite moves the entry to the most recent position.
	set.Remove(key)
	set.Add(key, struct{}{})
	// The eviction above may have dropped an emptied set from the map.
	s.permitted[owner] = set
	s.bodies.Add(key, body)
}

// Len returns the number of bodies currently stored.
func (s *ServerStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bodies.Len()
}

// Owners returns the number of users with at least one resolvable hash,
// counting the anonymous bucket as one.
func (s *ServerStore) Owners() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.permitted)
}

// onBodyEvicted runs with s.mu held, from inside bodies.Add or bodies.Remove.
func (s *ServerStore) onBodyEvicted(key responseKey, _ string) {
	set, ok := s.permitted[key.owner]
	if !ok {
		return
	}
	set.Remove(key)
	if set.Len() == 0 {
		delete(s.permitted, key.owner)
	}
}

func (s *ServerStore) key(owner string, req domain.Request, hash string) responseKey {
	return responseKey{
		owner:     owner,
		procedure: req.Procedure,
		input:     s.hasher.Hash(req.Input),
		hash:      hash,
	}
}
