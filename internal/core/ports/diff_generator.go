package ports

import (
	"context"

	"go.trai.ch/iceberg/internal/core/diff"
	"go.trai.ch/iceberg/internal/core/domain"
)

// DiffGenerator decides whether a query response can be sent as a diff.
//
//go:generate mockgen -source=diff_generator.go -destination=mocks/mock_diff_generator.go -package=mocks
type DiffGenerator interface {
	// Generate returns the patch from the body the client holds (prevHash, "" when absent)
	// to body. The boolean is false when the full body must be sent instead.
	Generate(ctx context.Context, req domain.Request, prevHash, hash, body string) (diff.Patch, bool)
}
