package transformer

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/iceberg/internal/core/ports"
)

// NodeID is the unique identifier for the payload transformer Graft node.
const NodeID graft.ID = "adapter.transformer"

func init() {
	graft.Register(graft.Node[ports.PayloadTransformer]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.PayloadTransformer, error) {
			return NewDefault(), nil
		},
	})
}
