package domain

import "strings"

// Config file and default values.
const (
	ConfigFileName = "watt.yaml"

	DefaultTablesRoot = "tables"
	DefaultPublicKey  = "keys/watt.pub"
	DefaultTrustStore = ".watt/trust"
	DefaultCode       = "CEC"
	DefaultEdition    = "2021"
	DefaultTier       = TierOne
)

// JurisdictionConfig carries per-code options handed to plugins.
type JurisdictionConfig struct {
	Code    string            `json:"code" yaml:"code"`
	Region  string            `json:"region" yaml:"region"`
	Options map[string]string `json:"options" yaml:"options"`
}

// Option returns the named option or fallback when it is unset.
func (j *JurisdictionConfig) Option(key, fallback string) string {
	if j == nil {
		return fallback
	}
	if v, ok := j.Options[key]; ok && v != "" {
		return v
	}
	return fallback
}

// Config is the resolved project configuration. Paths are absolute.
type Config struct {
	// Path is the config file the values were read from. Empty when defaults apply.
	Path string

	TablesRoot     string
	PublicKeyPath  string
	TrustStorePath string

	DefaultCode    string
	DefaultEdition string
	DefaultTier    Tier

	Jurisdictions map[string]JurisdictionConfig
}

// Jurisdiction looks up the configuration for code, case-insensitively.
func (c *Config) Jurisdiction(code string) *JurisdictionConfig {
	if c == nil {
		return nil
	}
	for k, j := range c.Jurisdictions {
		if strings.EqualFold(k, code) {
			jc := j
			return &jc
		}
	}
	return nil
}
