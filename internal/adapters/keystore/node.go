package keystore

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/spf13/afero"
	"go.trai.ch/watt/internal/adapters/fs"
	"go.trai.ch/watt/internal/core/ports"
)

// NodeID identifies the key store node.
const NodeID graft.ID = "adapter.keystore"

func init() {
	graft.Register(graft.Node[ports.KeyStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.NodeID},
		Run: func(ctx context.Context) (ports.KeyStore, error) {
			fsys, err := graft.Dep[afero.Fs](ctx)
			if err != nil {
				return nil, err
			}
			return New(fsys), nil
		},
	})
}
