package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/iceberg/internal/adapters/config"      //nolint:depguard // Wired in app layer
	"go.trai.ch/iceberg/internal/adapters/hasher"      //nolint:depguard // Wired in app layer
	"go.trai.ch/iceberg/internal/adapters/logger"      //nolint:depguard // Wired in app layer
	"go.trai.ch/iceberg/internal/adapters/transformer" //nolint:depguard // Wired in app layer
	"go.trai.ch/iceberg/internal/core/ports"
	"go.trai.ch/iceberg/internal/demo/blog"
	"go.trai.ch/iceberg/internal/engine/procedure"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			hasher.NodeID,
			transformer.NodeID,
			blog.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	h, err := graft.Dep[ports.ContentHasher](ctx)
	if err != nil {
		return nil, err
	}

	t, err := graft.Dep[ports.PayloadTransformer](ctx)
	if err != nil {
		return nil, err
	}

	registry, err := graft.Dep[*procedure.Registry](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, log, h, t, registry), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:    app,
		Logger: log,
	}, nil
}
