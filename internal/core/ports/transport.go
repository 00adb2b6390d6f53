package ports

import (
	"context"

	"go.trai.ch/iceberg/internal/core/domain"
)

// Transport delivers a request to the server and returns its raw response.
//
//go:generate mockgen -source=transport.go -destination=mocks/mock_transport.go -package=mocks
type Transport interface {
	// Call sends req. prevHash is the hash of the body the caller holds, "" when none.
	Call(ctx context.Context, req domain.Request, prevHash string) (*domain.Response, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req domain.Request, prevHash string) (*domain.Response, error)

// Call calls f(ctx, req, prevHash).
func (f TransportFunc) Call(ctx context.Context, req domain.Request, prevHash string) (*domain.Response, error) {
	return f(ctx, req, prevHash)
}
