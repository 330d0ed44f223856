package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/watt/internal/adapters/cas"       //nolint:depguard // Wired in app layer
	"go.trai.ch/watt/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/watt/internal/adapters/keystore"  //nolint:depguard // Wired in app layer
	"go.trai.ch/watt/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/watt/internal/adapters/storage"   //nolint:depguard // Wired in app layer
	"go.trai.ch/watt/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/watt/internal/core/ports"
	"go.trai.ch/watt/internal/plugins/builtin"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components groups what the CLI entry point needs.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
			keystore.NodeID,
			storage.NodeID,
			cas.NodeID,
			builtin.NodeID,
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
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: a, Logger: log}, nil
		},
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
	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}
	keys, err := graft.Dep[ports.KeyStore](ctx)
	if err != nil {
		return nil, err
	}
	openTables, err := graft.Dep[ports.TableStorageOpener](ctx)
	if err != nil {
		return nil, err
	}
	openTrust, err := graft.Dep[ports.TrustStoreOpener](ctx)
	if err != nil {
		return nil, err
	}
	catalog, err := graft.Dep[*builtin.Catalog](ctx)
	if err != nil {
		return nil, err
	}
	return New(loader, log, tracer, keys, openTables, openTrust, catalog), nil
}
