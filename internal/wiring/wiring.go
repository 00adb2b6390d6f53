// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/iceberg/internal/adapters/config"
	_ "go.trai.ch/iceberg/internal/adapters/hasher"
	_ "go.trai.ch/iceberg/internal/adapters/logger"
	_ "go.trai.ch/iceberg/internal/adapters/transformer"
	// Register app and demo nodes.
	_ "go.trai.ch/iceberg/internal/app"
	_ "go.trai.ch/iceberg/internal/demo/blog"
)
