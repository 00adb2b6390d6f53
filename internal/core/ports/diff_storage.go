package ports

import (
	"context"

	"go.trai.ch/iceberg/internal/core/domain"
)

// ServerDiffStorage keeps recently sent response bodies so later requests can be answered with a diff.
// Entries are scoped to the owner found in ctx (see domain.OwnerFrom).
//
//go:generate mockgen -source=diff_storage.go -destination=mocks/mock_diff_storage.go -package=mocks
type ServerDiffStorage interface {
	// Response returns the body previously stored for req under hash by the same owner.
	Response(ctx context.Context, req domain.Request, hash string) (string, bool)

	// Store records body under hash for req and the current owner, refreshing its recency.
	Store(ctx context.Context, req domain.Request, hash, body string)
}

// ClientDiffStorage keeps the last full body the client received for each request.
type ClientDiffStorage interface {
	// Response returns the cached entry for req.
	Response(req domain.Request) (domain.CachedResponse, bool)

	// Store replaces the cached entry for req.
	Store(req domain.Request, entry domain.CachedResponse)
}
