// Package diffgen implements the strategies deciding when a query response is sent as a diff.
package diffgen

import (
	"context"

	"go.trai.ch/iceberg/internal/core/diff"
	"go.trai.ch/iceberg/internal/core/domain"
	"go.trai.ch/iceberg/internal/core/ports"
	"go.trai.ch/zerr"
)

// New returns the generator for strategy. Advanced requires storage.
func New(strategy string, storage ports.ServerDiffStorage) (ports.DiffGenerator, error) {
	switch strategy {
	case domain.StrategyBasic:
		return NewBasic(), nil
	case domain.StrategyAdvanced:
		if storage == nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "advanced strategy needs diff storage"), "strategy", strategy)
		}
		return NewAdvanced(storage), nil
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownStrategy, "select diff strategy"), "strategy", strategy)
	}
}

// Basic only recognizes unchanged responses. It keeps no state.
type Basic struct{}

// NewBasic creates a Basic generator.
func NewBasic() *Basic {
	return &Basic{}
}

// Generate returns an empty patch when the client already holds the current body.
func (*Basic) Generate(_ context.Context, _ domain.Request, prevHash, hash, _ string) (diff.Patch, bool) {
	if prevHash != "" && prevHash == hash {
		return diff.Patch{}, true
	}
	return nil, false
}

// Advanced diffs against the body the client holds, looked up in storage.
// The current body is always stored so that the next request can diff against it.
type Advanced struct {
	storage ports.ServerDiffStorage
}

// NewAdvanced creates an Advanced generator backed by storage.
func NewAdvanced(storage ports.ServerDiffStorage) *Advanced {
	return &Advanced{storage: storage}
}

// Generate returns a patch only when its encoding is strictly smaller than body.
func (g *Advanced) Generate(ctx context.Context, req domain.Request, prevHash, hash, body string) (diff.Patch, bool) {
	if prevHash == "" {
		g.storage.Store(ctx, req, hash, body)
		return nil, false
	}

	prev, found := g.storage.Response(ctx, req, prevHash)
	g.storage.Store(ctx, req, hash, body)
	if !found {
		return nil, false
	}

	patch := diff.Compute(prev, body)
	if diff.EncodedLen(patch) >= len(body) {
		return nil, false
	}
	return patch, true
}
