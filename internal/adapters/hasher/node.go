package hasher

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/iceberg/internal/core/ports"
)

// NodeID is the unique identifier for the hasher Graft node.
const NodeID graft.ID = "adapter.hasher"

func init() {
	graft.Register(graft.Node[ports.ContentHasher]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ContentHasher, error) {
			return New(), nil
		},
	})
}
