package storage

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/spf13/afero"
	"go.trai.ch/watt/internal/adapters/fs"
	"go.trai.ch/watt/internal/core/ports"
)

// NodeID identifies the table storage node.
const NodeID graft.ID = "adapter.table_storage"

func init() {
	graft.Register(graft.Node[ports.TableStorageOpener]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.NodeID},
		Run: func(ctx context.Context) (ports.TableStorageOpener, error) {
			fsys, err := graft.Dep[afero.Fs](ctx)
			if err != nil {
				return nil, err
			}
			return func(root string) ports.TableStorage {
				return New(fsys, root)
			}, nil
		},
	})
}
