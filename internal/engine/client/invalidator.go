package client

import (
	"slices"
	"strings"
	"sync"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	"go.trai.ch/iceberg/internal/core/domain"
)

// DefaultMaxQueries is the number of queries an Invalidator remembers by default.
const DefaultMaxQueries = 100

type observation struct {
	req  domain.Request
	tags []string
}

// Invalidator remembers the dependency tags of recently seen queries and marks
// queries stale when a mutation reports an overlapping tag. It keeps at most
// maxQueries queries and forgets the least recently observed one first,
// together with its stale mark.
type Invalidator struct {
	mu        sync.Mutex
	queries   *simplelru.LRU[string, observation]
	stale     map[string]struct{}
	listeners []func([]domain.Request)
}

// NewInvalidator creates an empty Invalidator remembering at most maxQueries
// queries. A non-positive maxQueries uses DefaultMaxQueries.
func NewInvalidator(maxQueries int) *Invalidator {
	if maxQueries <= 0 {
		maxQueries = DefaultMaxQueries
	}
	i := &Invalidator{stale: make(map[string]struct{})}
	// Size is positive here.
	i.queries, _ = simplelru.NewLRU[string, observation](maxQueries, i.onEvicted)
	return i
}

// Observe records the tags a query depends on and clears its stale mark.
func (i *Invalidator) Observe(req domain.Request, tags []string) {
	key := req.Key()

	i.mu.Lock()
	defer i.mu.Unlock()
	i.queries.Add(key, observation{req: req, tags: slices.Clone(tags)})
	delete(i.stale, key)
}

// Len returns the number of remembered queries.
func (i *Invalidator) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.queries.Len()
}

// Invalidate marks every observed query depending on one of tags as stale,
// notifies the listeners and returns the affected requests ordered by key.
func (i *Invalidator) Invalidate(tags []string) []domain.Request {
	if len(tags) == 0 {
		return nil
	}

	i.mu.Lock()
	var affected []domain.Request
	for _, key := range i.queries.Keys() {
		obs, _ := i.queries.Peek(key)
		if !intersects(obs.tags, tags) {
			continue
		}
		i.stale[key] = struct{}{}
		affected = append(affected, obs.req)
	}
	listeners := slices.Clone(i.listeners)
	i.mu.Unlock()

	if len(affected) == 0 {
		return nil
	}

	sortRequests(affected)
	for _, fn := range listeners {
		fn(affected)
	}
	return affected
}

// IsStale reports whether req was invalidated since it was last observed.
func (i *Invalidator) IsStale(req domain.Request) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	_, ok := i.stale[req.Key()]
	return ok
}

// Stale returns every stale request ordered by key.
func (i *Invalidator) Stale() []domain.Request {
	i.mu.Lock()
	defer i.mu.Unlock()

	out := make([]domain.Request, 0, len(i.stale))
	for key := range i.stale {
		if obs, ok := i.queries.Peek(key); ok {
			out = append(out, obs.req)
		}
	}
	sortRequests(out)
	return out
}

// OnInvalidate registers fn to run after every invalidation that affected at least one query.
// fn runs on the goroutine that called Invalidate.
func (i *Invalidator) OnInvalidate(fn func([]domain.Request)) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.listeners = append(i.listeners, fn)
}

// onEvicted runs with i.mu held, from inside queries.Add.
func (i *Invalidator) onEvicted(key string, _ observation) {
	delete(i.stale, key)
}

func intersects(a, b []string) bool {
	for _, tag := range a {
		if slices.Contains(b, tag) {
			return true
		}
	}
	return false
}

func sortRequests(reqs []domain.Request) {
	slices.SortFunc(reqs, func(a, b domain.Request) int {
		return strings.Compare(a.Key(), b.Key())
	})
}
