package builtin

import (
	"context"

	"github.com/grindlemire/graft"
)

// NodeID identifies the built-in catalog node.
const NodeID graft.ID = "plugins.builtin"

func init() {
	graft.Register(graft.Node[*Catalog]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Catalog, error) {
			return New(), nil
		},
	})
}
