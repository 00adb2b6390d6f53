// Package transformer rewrites rich Go values into JSON-compatible trees and back.
//
// Values claimed by a plugin are replaced by a tagged record
//
//	{"__type": "<plugin id>", "value": <forward(value)>}
//
// and restored by the same plugin on the way back. Containers are rebuilt by
// walkers so that plugins apply at any depth, including inside structs, typed
// slices and maps, which come out as plain records and lists.
package transformer

import (
	"go.trai.ch/iceberg/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	// TypeKey holds the plugin id in a tagged record.
	TypeKey = "__type"
	// ValueKey holds the forwarded value in a tagged record.
	ValueKey = "value"
)

// Plugin converts one family of values.
type Plugin struct {
	ID string
	// Match reports whether the plugin handles v.
	Match func(v any) bool
	// Forward converts v into a value the transformer can keep walking.
	Forward func(v any) (any, error)
	// Reverse restores a value produced by Forward, after its children were restored.
	Reverse func(v any) (any, error)
}

// Walker rebuilds a container by passing each child through recurse.
// It reports false when v is not a container it understands.
type Walker func(v any, recurse func(any) (any, error)) (any, bool, error)

// Transformer implements ports.PayloadTransformer.
//
// Plugins are tried in registration order and the first match wins, so
// specific plugins must be registered before generic ones. Registration is
// not safe for concurrent use with Transform or Untransform.
type Transformer struct {
	plugins []Plugin
	byID    map[string]Plugin
	walkers []Walker
}

// New creates a Transformer without plugins or walkers.
func New() *Transformer {
	return &Transformer{byID: make(map[string]Plugin)}
}

// NewDefault creates a Transformer with the container and typed-value walkers
// and the Date, Map, Set and undefined plugins.
func NewDefault() *Transformer {
	t := New()
	t.RegisterWalker(walkContainers)
	t.RegisterWalker(walkTyped)
	for _, p := range []Plugin{datePlugin(), mapPlugin(), setPlugin(), undefinedPlugin()} {
		if err := t.Register(p); err != nil {
			panic(err)
		}
	}
	return t
}

// Register appends p to the plugin list.
func (t *Transformer) Register(p Plugin) error {
	if p.ID == "" || p.Match == nil || p.Forward == nil || p.Reverse == nil {
		return zerr.With(zerr.New("incomplete payload plugin"), "plugin", p.ID)
	}
	if _, exists := t.byID[p.ID]; exists {
		return zerr.With(zerr.Wrap(domain.ErrDuplicatePlugin, "register plugin"), "plugin", p.ID)
	}
	t.plugins = append(t.plugins, p)
	t.byID[p.ID] = p
	return nil
}

// RegisterWalker appends w to the walker list.
func (t *Transformer) RegisterWalker(w Walker) {
	t.walkers = append(t.walkers, w)
}

// Transform rewrites v so that every value claimed by a plugin becomes a tagged record.
func (t *Transformer) Transform(v any) (any, error) {
	return t.forward(v, true)
}

func (t *Transformer) forward(v any, includeSelf bool) (any, error) {
	if includeSelf {
		for _, p := range t.plugins {
			if !p.Match(v) {
				continue
			}
			inner, err := p.Forward(v)
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, "transform value"), "plugin", p.ID)
			}
			value, err := t.forward(inner, false)
			if err != nil {
				return nil, err
			}
			return map[string]any{TypeKey: p.ID, ValueKey: value}, nil
		}
	}
	return t.walk(v, t.Transform)
}

// Untransform restores the values of a tree produced by Transform.
// Tagged records with an unknown plugin id are kept as plain records.
func (t *Transformer) Untransform(v any) (any, error) {
	if rec, ok := v.(map[string]any); ok {
		if p, ok := t.pluginFor(rec); ok {
			inner, err := t.walk(rec[ValueKey], t.Untransform)
			if err != nil {
				return nil, err
			}
			out, err := p.Reverse(inner)
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, "restore value"), "plugin", p.ID)
			}
			return out, nil
		}
	}
	return t.walk(v, t.Untransform)
}

func (t *Transformer) pluginFor(rec map[string]any) (Plugin, bool) {
	if len(rec) != 2 {
		return Plugin{}, false
	}
	id, ok := rec[TypeKey].(string)
	if !ok {
		return Plugin{}, false
	}
	if _, ok := rec[ValueKey]; !ok {
		return Plugin{}, false
	}
	p, ok := t.byID[id]
	return p, ok
}

func (t *Transformer) walk(v any, recurse func(any) (any, error)) (any, error) {
	for _, w := range t.walkers {
		out, ok, err := w(v, recurse)
		if ok {
			return out, err
		}
	}
	return v, nil
}
