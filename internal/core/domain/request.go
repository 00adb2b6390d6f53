package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"go.trai.ch/zerr"
)

// Kind distinguishes read-only queries from state-changing mutations.
type Kind string

const (
	// KindQuery marks a read-only procedure whose responses may be diffed.
	KindQuery Kind = "query"
	// KindMutation marks a state-changing procedure. Mutations never take part in diffing.
	KindMutation Kind = "mutation"
)

// Request identifies a single procedure call.
// Two requests with the same kind, procedure and canonical input are the same request.
type Request struct {
	Kind      Kind
	Procedure string
	// Input is the canonical JSON encoding of the input, empty when the call has none.
	Input json.RawMessage
}

// NewRequest builds a Request with a canonicalized input.
func NewRequest(kind Kind, procedure string, input []byte) (Request, error) {
	canonical, err := CanonicalInput(input)
	if err != nil {
		return Request{}, zerr.With(err, "procedure", procedure)
	}
	return Request{Kind: kind, Procedure: procedure, Input: canonical}, nil
}

// Key returns the identity string of the request.
func (r Request) Key() string {
	// Encoding the triple as a JSON array keeps the key unambiguous for any procedure name.
	key, _ := json.Marshal([3]string{string(r.Kind), r.Procedure, string(r.Input)})
	return string(key)
}

// HasInput reports whether the request carries an input value.
func (r Request) HasInput() bool {
	return len(r.Input) > 0
}

// CanonicalInput rewrites a JSON document so that object keys are sorted and
// insignificant whitespace is dropped. Numbers are kept verbatim.
// An empty or blank document yields a nil result.
func CanonicalInput(raw []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, zerr.Wrap(ErrMalformedRequest, "input is not valid JSON")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, zerr.Wrap(ErrMalformedRequest, "input has trailing data")
	}

	out, err := json.Marshal(v)
	if err != nil {
		return nil, zerr.Wrap(ErrMalformedRequest, err.Error())
	}
	return out, nil
}
