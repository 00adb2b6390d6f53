package blog

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/iceberg/internal/engine/procedure"
)

const NodeID graft.ID = "demo.blog"

func init() {
	graft.Register(graft.Node[*procedure.Registry]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*procedure.Registry, error) {
			return NewRegistry()
		},
	})
}
