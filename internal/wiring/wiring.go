// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/watt/internal/adapters/cas"
	_ "go.trai.ch/watt/internal/adapters/config"
	_ "go.trai.ch/watt/internal/adapters/fs"
	_ "go.trai.ch/watt/internal/adapters/keystore"
	_ "go.trai.ch/watt/internal/adapters/logger"
	_ "go.trai.ch/watt/internal/adapters/storage"
	_ "go.trai.ch/watt/internal/adapters/telemetry"
	// Register app and plugin nodes.
	_ "go.trai.ch/watt/internal/app"
	_ "go.trai.ch/watt/internal/plugins/builtin"
)
