// Package procedure defines remotely callable procedures and the registry that routes calls to them.
package procedure

import (
	"context"
	"encoding/json"

	"go.trai.ch/iceberg/internal/core/domain"
	"go.trai.ch/iceberg/internal/engine/tracker"
	"go.trai.ch/zerr"
)

// Handler runs a procedure with an already validated input.
type Handler func(ctx context.Context, input any) (any, error)

// Procedure is a query or mutation together with its input contract and handler.
type Procedure struct {
	kind      domain.Kind
	validator Validator
	handler   Handler
}

// New creates a procedure from its parts.
func New(kind domain.Kind, validator Validator, handler Handler) *Procedure {
	return &Procedure{kind: kind, validator: validator, handler: handler}
}

// Query creates a query procedure with a typed handler. Inputs are decoded with JSON[I].
func Query[I, O any](h func(ctx context.Context, input I) (O, error)) *Procedure {
	return New(domain.KindQuery, JSON[I](), typed(h))
}

// Mutation creates a mutation procedure with a typed handler. Inputs are decoded with JSON[I].
func Mutation[I, O any](h func(ctx context.Context, input I) (O, error)) *Procedure {
	return New(domain.KindMutation, JSON[I](), typed(h))
}

func typed[I, O any](h func(context.Context, I) (O, error)) Handler {
	return func(ctx context.Context, input any) (any, error) {
		in, ok := input.(I)
		if !ok {
			return nil, zerr.Wrap(domain.ErrInvalidInput, "validator produced an unexpected type")
		}
		return h(ctx, in)
	}
}

// Kind returns whether the procedure is a query or a mutation.
func (p *Procedure) Kind() domain.Kind {
	return p.kind
}

// Invoke validates raw, runs the handler inside a fresh dependency scope and
// returns its value together with the tags it touched. The handler does not run
// when validation fails.
func (p *Procedure) Invoke(ctx context.Context, raw json.RawMessage) (domain.Result, error) {
	input, err := p.validator.Validate(raw)
	if err != nil {
		return domain.Result{}, err
	}

	ctx, scope := tracker.Begin(ctx)
	value, err := p.handler(ctx, input)
	if err != nil {
		return domain.Result{}, err
	}

	return domain.Result{Value: value, Dependencies: scope.Snapshot()}, nil
}
