package procedure

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"reflect"

	"go.trai.ch/iceberg/internal/core/domain"
	"go.trai.ch/zerr"
)

// Void is the input type of procedures that take no input.
type Void struct{}

// Validator turns a raw JSON input into the value passed to a handler.
// Returned errors must wrap domain.ErrInvalidInput.
type Validator interface {
	Validate(raw json.RawMessage) (any, error)
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(raw json.RawMessage) (any, error)

// Validate calls f(raw).
func (f ValidatorFunc) Validate(raw json.RawMessage) (any, error) {
	return f(raw)
}

// Checker is implemented by input types that carry their own constraints.
type Checker interface {
	Validate() error
}

// JSON returns a validator that strictly decodes the input into I.
//
// Unknown object fields are rejected. A missing or null input is accepted only
// when I is Void, a pointer or an interface. When I (or *I) implements Checker,
// its Validate method runs after decoding.
func JSON[I any]() Validator {
	return ValidatorFunc(func(raw json.RawMessage) (any, error) {
		var in I
		absent := isAbsent(raw)

		if _, ok := any(in).(Void); ok {
			if !absent {
				return nil, zerr.Wrap(domain.ErrInvalidInput, "procedure takes no input")
			}
			return in, nil
		}

		if absent {
			if !nullable[I]() {
				return nil, zerr.Wrap(domain.ErrInvalidInput, "input is required")
			}
			return in, nil
		}

		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&in); err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidInput, "input does not match the expected shape"), "cause", err.Error())
		}
		if _, err := dec.Token(); !errors.Is(err, io.EOF) {
			return nil, zerr.Wrap(domain.ErrInvalidInput, "input has trailing data")
		}

		if err := check(&in); err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidInput, err.Error()), "cause", err.Error())
		}
		return in, nil
	})
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func nullable[I any]() bool {
	t := reflect.TypeFor[I]()
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return true
	default:
		return false
	}
}

func check[I any](in *I) error {
	if c, ok := any(*in).(Checker); ok {
		return c.Validate()
	}
	if c, ok := any(in).(Checker); ok {
		return c.Validate()
	}
	return nil
}
