package procedure

import (
	"slices"
	"sync"

	"go.trai.ch/iceberg/internal/core/domain"
	"go.trai.ch/zerr"
)

// Registry maps procedure names to procedures.
type Registry struct {
	mu    sync.RWMutex
	procs map[string]*Procedure
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{procs: make(map[string]*Procedure)}
}

// Register adds p under name.
func (r *Registry) Register(name string, p *Procedure) error {
	if name == "" {
		return zerr.Wrap(domain.ErrUnknownProcedure, "procedure name must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.procs[name]; exists {
		return zerr.With(zerr.Wrap(domain.ErrDuplicateProcedure, "register procedure"), "procedure", name)
	}
	r.procs[name] = p
	return nil
}

// MustRegister is like Register but panics on error. It is meant for static setup.
func (r *Registry) MustRegister(name string, p *Procedure) {
	if err := r.Register(name, p); err != nil {
		panic(err)
	}
}

// Lookup returns the procedure registered under name.
func (r *Registry) Lookup(name string) (*Procedure, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.procs[name]
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownProcedure, "lookup procedure"), "procedure", name)
	}
	return p, nil
}

// Resolve returns the procedure addressed by req and checks that its kind matches.
func (r *Registry) Resolve(req domain.Request) (*Procedure, error) {
	p, err := r.Lookup(req.Procedure)
	if err != nil {
		return nil, err
	}
	if p.Kind() != req.Kind {
		err := zerr.With(zerr.Wrap(domain.ErrKindMismatch, "resolve procedure"), "procedure", req.Procedure)
		err = zerr.With(err, "expected", p.Kind())
		return nil, zerr.With(err, "got", req.Kind)
	}
	return p, nil
}

// Names returns the registered procedure names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.procs))
	for name := range r.procs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
