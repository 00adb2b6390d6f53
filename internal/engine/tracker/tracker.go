// Package tracker records which dependency tags a procedure touches while it runs.
//
// A scope is opened per invocation and travels in the context.Context handed to
// the handler, so concurrent invocations never observe each other's tags.
package tracker

import (
	"context"
	"slices"
	"sync"
)

type scopeKey struct{}

// Scope is the set of tags recorded during one invocation.
type Scope struct {
	mu   sync.Mutex
	tags map[string]struct{}
}

// Begin opens a fresh, empty scope and returns a context carrying it.
// A scope already present in ctx is shadowed, not extended.
func Begin(ctx context.Context) (context.Context, *Scope) {
	s := &Scope{tags: make(map[string]struct{})}
	return context.WithValue(ctx, scopeKey{}, s), s
}

// FromContext returns the active scope, if any.
func FromContext(ctx context.Context) (*Scope, bool) {
	s, ok := ctx.Value(scopeKey{}).(*Scope)
	return s, ok
}

// Track adds tags to the active scope. Without a scope it does nothing.
func Track(ctx context.Context, tags ...string) {
	s, ok := FromContext(ctx)
	if !ok {
		return
	}
	s.add(tags...)
}

func (s *Scope) add(tags ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tag := range tags {
		s.tags[tag] = struct{}{}
	}
}

// Snapshot returns the recorded tags in sorted order.
func (s *Scope) Snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.tags))
	for tag := range s.tags {
		out = append(out, tag)
	}
	slices.Sort(out)
	return out
}

// Len returns the number of distinct tags recorded so far.
func (s *Scope) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tags)
}

// Resource guards a value behind a dependency tag.
// Every access through Use records the tag in the caller's scope.
type Resource[T any] struct {
	tag   string
	value T
}

// NewResource wraps value under tag.
func NewResource[T any](tag string, value T) *Resource[T] {
	return &Resource[T]{tag: tag, value: value}
}

// Tag returns the dependency tag of the resource.
func (r *Resource[T]) Tag() string {
	return r.tag
}

// Use records the resource's tag and returns the wrapped value.
func (r *Resource[T]) Use(ctx context.Context) T {
	Track(ctx, r.tag)
	return r.value
}
