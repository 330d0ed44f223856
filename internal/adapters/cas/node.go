package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/spf13/afero"
	"go.trai.ch/watt/internal/adapters/fs"
	"go.trai.ch/watt/internal/core/ports"
)

// NodeID identifies the trust store node.
const NodeID graft.ID = "adapter.trust_store"

func init() {
	graft.Register(graft.Node[ports.TrustStoreOpener]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.NodeID},
		Run: func(ctx context.Context) (ports.TrustStoreOpener, error) {
			fsys, err := graft.Dep[afero.Fs](ctx)
			if err != nil {
				return nil, err
			}
			return func(dir string) ports.TrustStore {
				return NewStore(fsys, dir)
			}, nil
		},
	})
}
