// Package dispatcher serves procedure calls and decides per response whether
// the full body or a diff against the caller's cached copy goes on the wire.
package dispatcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.trai.ch/iceberg/internal/core/diff"
	"go.trai.ch/iceberg/internal/core/domain"
	"go.trai.ch/iceberg/internal/core/ports"
	"go.trai.ch/iceberg/internal/engine/procedure"
	"go.trai.ch/zerr"
)

// ErrorGuard turns an error into what the caller is allowed to see.
type ErrorGuard func(err error) domain.Failure

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithErrorGuard replaces DefaultGuard.
func WithErrorGuard(g ErrorGuard) Option {
	return func(d *Dispatcher) {
		if g != nil {
			d.guard = g
		}
	}
}

// Dispatcher is the server side of the protocol.
type Dispatcher struct {
	registry    *procedure.Registry
	generator   ports.DiffGenerator
	hasher      ports.ContentHasher
	transformer ports.PayloadTransformer
	logger      ports.Logger
	guard       ErrorGuard
}

// New creates a Dispatcher serving the procedures in registry.
func New(
	registry *procedure.Registry,
	generator ports.DiffGenerator,
	hasher ports.ContentHasher,
	transformer ports.PayloadTransformer,
	logger ports.Logger,
	opts ...Option,
) *Dispatcher {
	d := &Dispatcher{
		registry:    registry,
		generator:   generator,
		hasher:      hasher,
		transformer: transformer,
		logger:      logger,
		guard:       DefaultGuard,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch runs req and builds its response. prevHash is the hash of the body
// the caller holds for req, "" when it holds none. Mutations never produce diffs.
//
// The procedure runs to completion even when ctx is cancelled so that the
// caches stay consistent with what the handler did.
func (d *Dispatcher) Dispatch(ctx context.Context, req domain.Request, prevHash string) (*domain.Response, error) {
	p, err := d.registry.Resolve(req)
	if err != nil {
		return nil, err
	}

	input, err := d.restoreInput(req.Input)
	if err != nil {
		return nil, zerr.With(err, "procedure", req.Procedure)
	}

	ctx = context.WithoutCancel(ctx)

	res, err := p.Invoke(ctx, input)
	if err != nil {
		return nil, err
	}

	payload, err := d.transformer.Transform(res.Value)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "transform result"), "procedure", req.Procedure)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "encode result"), "procedure", req.Procedure)
	}

	deps := res.Dependencies
	if deps == nil {
		deps = []string{}
	}

	resp := &domain.Response{
		Dependencies: deps,
		Hash:         d.hasher.Hash(body),
		Body:         body,
	}

	if req.Kind == domain.KindQuery {
		if patch, ok := d.generator.Generate(ctx, req, prevHash, resp.Hash, string(body)); ok {
			resp.IsDiff = true
			resp.Body = diff.Encode(patch)
		}
	}

	d.logger.Debug("dispatched",
		"procedure", req.Procedure,
		"kind", req.Kind,
		"diff", resp.IsDiff,
		"bytes", len(resp.Body),
		"full_bytes", len(body),
	)
	return resp, nil
}

// restoreInput reverses the payload transform the caller applied to its input,
// so validators see plain JSON such as an ISO timestamp instead of a tagged date.
func (d *Dispatcher) restoreInput(raw json.RawMessage) (json.RawMessage, error) {
	if len(raw) == 0 {
		return raw, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, zerr.Wrap(domain.ErrMalformedRequest, "input is not valid JSON")
	}

	value, err := d.transformer.Untransform(tree)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidInput, "input contains a malformed tagged value"), "cause", err.Error())
	}
	out, err := json.Marshal(value)
	if err != nil {
		return nil, zerr.Wrap(err, "encode restored input")
	}
	return out, nil
}

// Fail maps err through the error guard. Errors that surface as server
// failures are logged since their detail never reaches the caller.
func (d *Dispatcher) Fail(err error) domain.Failure {
	f := d.guard(err)
	if f.StatusCode >= http.StatusInternalServerError {
		d.logger.Error(err)
	}
	return f
}

// DefaultGuard passes *domain.UserError through, maps routing and validation
// errors to client statuses and hides everything else behind a 500.
func DefaultGuard(err error) domain.Failure {
	var ue *domain.UserError
	if errors.As(err, &ue) {
		return domain.Failure{StatusCode: ue.StatusCode, Message: ue.Message}
	}

	switch {
	case errors.Is(err, domain.ErrUnknownProcedure):
		return domain.Failure{StatusCode: http.StatusNotFound, Message: domain.ErrUnknownProcedure.Error()}
	case errors.Is(err, domain.ErrKindMismatch):
		return domain.Failure{StatusCode: http.StatusMethodNotAllowed, Message: domain.ErrKindMismatch.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		return domain.Failure{StatusCode: http.StatusUnauthorized, Message: domain.ErrUnauthorized.Error()}
	case errors.Is(err, domain.ErrInvalidInput):
		return domain.Failure{StatusCode: http.StatusBadRequest, Message: detail(err, domain.ErrInvalidInput)}
	case errors.Is(err, domain.ErrMalformedRequest):
		return domain.Failure{StatusCode: http.StatusBadRequest, Message: detail(err, domain.ErrMalformedRequest)}
	default:
		return domain.Failure{StatusCode: http.StatusInternalServerError, Message: "internal server error"}
	}
}

// detail returns the outermost message attached to err, falling back to the sentinel text.
func detail(err, sentinel error) string {
	var ze *zerr.Error
	if errors.As(err, &ze) && ze.Message() != "" {
		return ze.Message()
	}
	return sentinel.Error()
}
