package transformer

import (
	"time"

	"go.trai.ch/iceberg/internal/core/domain"
	"go.trai.ch/zerr"
)

// isoMillis matches JavaScript's Date.prototype.toISOString.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// formatDate writes t in UTC with millisecond precision, or with as many
// fractional digits as needed when t has a finer precision.
func formatDate(t time.Time) string {
	t = t.UTC()
	if t.Nanosecond()%int(time.Millisecond) != 0 {
		return t.Format(time.RFC3339Nano)
	}
	return t.Format(isoMillis)
}

// Undefined stands for a value that is absent, as opposed to null.
type Undefined struct{}

// Absent is the canonical Undefined value.
var Absent = Undefined{}

// MarshalJSON encodes an absent value as null.
func (Undefined) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// datePlugin restores the same instant. The location always comes back as UTC.
func datePlugin() Plugin {
	return Plugin{
		ID: "Date",
		Match: func(v any) bool {
			_, ok := v.(time.Time)
			return ok
		},
		Forward: func(v any) (any, error) {
			return formatDate(v.(time.Time)), nil
		},
		Reverse: func(v any) (any, error) {
			s, ok := v.(string)
			if !ok {
				return nil, malformed("Date", "expected a string")
			}
			ts, err := time.Parse(time.RFC3339Nano, s)
			if err != nil {
				return nil, zerr.With(malformed("Date", "expected an ISO-8601 timestamp"), "value", s)
			}
			return ts, nil
		},
	}
}

func mapPlugin() Plugin {
	return Plugin{
		ID: "Map",
		Match: func(v any) bool {
			_, ok := v.(*OrderedMap)
			return ok
		},
		Forward: func(v any) (any, error) {
			entries := v.(*OrderedMap).Entries()
			pairs := make([]any, len(entries))
			for i, e := range entries {
				pairs[i] = []any{e.Key, e.Value}
			}
			return pairs, nil
		},
		Reverse: func(v any) (any, error) {
			pairs, ok := v.([]any)
			if !ok {
				return nil, malformed("Map", "expected a list of pairs")
			}
			m := NewOrderedMap()
			for i, raw := range pairs {
				pair, ok := raw.([]any)
				if !ok || len(pair) != 2 {
					return nil, zerr.With(malformed("Map", "expected a [key, value] pair"), "index", i)
				}
				m.Set(pair[0], pair[1])
			}
			return m, nil
		},
	}
}

func setPlugin() Plugin {
	return Plugin{
		ID: "Set",
		Match: func(v any) bool {
			_, ok := v.(*Set)
			return ok
		},
		Forward: func(v any) (any, error) {
			return v.(*Set).Values(), nil
		},
		Reverse: func(v any) (any, error) {
			values, ok := v.([]any)
			if !ok {
				return nil, malformed("Set", "expected a list")
			}
			return NewSet(values...), nil
		},
	}
}

func undefinedPlugin() Plugin {
	return Plugin{
		ID: "undefined",
		Match: func(v any) bool {
			_, ok := v.(Undefined)
			return ok
		},
		Forward: func(any) (any, error) {
			return nil, nil
		},
		Reverse: func(any) (any, error) {
			return Absent, nil
		},
	}
}

func malformed(plugin, msg string) error {
	return zerr.With(zerr.Wrap(domain.ErrMalformedPayload, msg), "plugin", plugin)
}
