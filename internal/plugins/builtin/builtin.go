// Package builtin lists the plugins compiled into watt.
package builtin

import (
	"go.trai.ch/watt/internal/core/ports"
	"go.trai.ch/watt/internal/plugins/cec"
	"go.trai.ch/watt/internal/plugins/nec"
)

// Catalog is the fixed set of built-in plugins, in registration order.
type Catalog struct {
	plugins []ports.Plugin
}

// New returns the catalog of every built-in plugin.
func New() *Catalog {
	return &Catalog{plugins: []ports.Plugin{cec.New(), nec.New()}}
}

// Plugins returns the plugins in registration order.
func (c *Catalog) Plugins() []ports.Plugin {
	out := make([]ports.Plugin, len(c.plugins))
	copy(out, c.plugins)
	return out
}

// Lookup returns the plugin with the given manifest id.
func (c *Catalog) Lookup(id string) (ports.Plugin, bool) {
	for _, p := range c.plugins {
		if p.Manifest().ID == id {
			return p, true
		}
	}
	return nil, false
}
