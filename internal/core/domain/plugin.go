package domain

// PluginState is a step of the plugin admission lifecycle.
type PluginState int

// Lifecycle states. Rejected is terminal.
const (
	PluginRegistered PluginState = iota
	PluginValidated
	PluginLoaded
	PluginReady
	PluginRejected
)

// String returns the lowercase state name.
func (s PluginState) String() string {
	switch s {
	case PluginRegistered:
		return "registered"
	case PluginValidated:
		return "validated"
	case PluginLoaded:
		return "loaded"
	case PluginReady:
		return "ready"
	case PluginRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s PluginState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// PluginStatus is one row of the registry listing.
type PluginStatus struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Version   string      `json:"version"`
	Standards []string    `json:"standards"`
	State     PluginState `json:"state"`
}
