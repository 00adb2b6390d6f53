package transformer

import (
	"encoding/json"
	"reflect"
)

// Entry is one key/value pair of an OrderedMap.
type Entry struct {
	Key   any
	Value any
}

// OrderedMap is a map with arbitrary keys that remembers insertion order.
type OrderedMap struct {
	entries []Entry
}

// NewOrderedMap creates an OrderedMap. Later entries replace earlier ones with an equal key.
func NewOrderedMap(entries ...Entry) *OrderedMap {
	m := &OrderedMap{}
	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}
	return m
}

// Set stores value under key, keeping the original position of an existing key.
func (m *OrderedMap) Set(key, value any) {
	for i := range m.entries {
		if reflect.DeepEqual(m.entries[i].Key, key) {
			m.entries[i].Value = value
			return
		}
	}
	m.entries = append(m.entries, Entry{Key: key, Value: value})
}

// Get returns the value stored under key.
func (m *OrderedMap) Get(key any) (any, bool) {
	for _, e := range m.entries {
		if reflect.DeepEqual(e.Key, key) {
			return e.Value, true
		}
	}
	return nil, false
}

// Len returns the number of entries.
func (m *OrderedMap) Len() int {
	return len(m.entries)
}

// Entries returns a copy of the entries in insertion order.
func (m *OrderedMap) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// MarshalJSON encodes the map as a list of [key, value] pairs.
func (m *OrderedMap) MarshalJSON() ([]byte, error) {
	pairs := make([][2]any, len(m.entries))
	for i, e := range m.entries {
		pairs[i] = [2]any{e.Key, e.Value}
	}
	return json.Marshal(pairs)
}

// Set is an insertion-ordered collection of distinct values.
type Set struct {
	values []any
}

// NewSet creates a Set, dropping duplicates.
func NewSet(values ...any) *Set {
	s := &Set{}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts v unless an equal value is present.
func (s *Set) Add(v any) {
	if !s.Has(v) {
		s.values = append(s.values, v)
	}
}

// Has reports whether an equal value is present.
func (s *Set) Has(v any) bool {
	for _, existing := range s.values {
		if reflect.DeepEqual(existing, v) {
			return true
		}
	}
	return false
}

// Len returns the number of values.
func (s *Set) Len() int {
	return len(s.values)
}

// Values returns a copy of the values in insertion order.
func (s *Set) Values() []any {
	out := make([]any, len(s.values))
	copy(out, s.values)
	return out
}

// MarshalJSON encodes the set as a list.
func (s *Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

// walkContainers rebuilds lists, records, ordered maps and sets.
func walkContainers(v any, recurse func(any) (any, error)) (any, bool, error) {
	switch c := v.(type) {
	case []any:
		out := make([]any, len(c))
		for i, child := range c {
			r, err := recurse(child)
			if err != nil {
				return nil, true, err
			}
			out[i] = r
		}
		return out, true, nil
	case map[string]any:
		out := make(map[string]any, len(c))
		for k, child := range c {
			r, err := recurse(child)
			if err != nil {
				return nil, true, err
			}
			out[k] = r
		}
		return out, true, nil
	case *OrderedMap:
		out := NewOrderedMap()
		for _, e := range c.entries {
			r, err := recurse(e.Value)
			if err != nil {
				return nil, true, err
			}
			out.entries = append(out.entries, Entry{Key: e.Key, Value: r})
		}
		return out, true, nil
	case *Set:
		out := NewSet()
		for _, child := range c.values {
			r, err := recurse(child)
			if err != nil {
				return nil, true, err
			}
			out.values = append(out.values, r)
		}
		return out, true, nil
	default:
		return v, false, nil
	}
}
