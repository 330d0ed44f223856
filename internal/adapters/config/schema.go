package config

// Wattfile is the on-disk shape of watt.yaml.
type Wattfile struct {
	Tables        TablesDTO                  `yaml:"tables"`
	Trust         TrustDTO                   `yaml:"trust"`
	Defaults      DefaultsDTO                `yaml:"defaults"`
	Jurisdictions map[string]JurisdictionDTO `yaml:"jurisdictions"`
}

// TablesDTO locates the reference tables.
type TablesDTO struct {
	Root string `yaml:"root"`
}

// TrustDTO locates the verification key and the envelope store.
type TrustDTO struct {
	PublicKey string `yaml:"publicKey"`
	Store     string `yaml:"store"`
}

// DefaultsDTO holds the values used when the CLI is not told otherwise.
type DefaultsDTO struct {
	Code    string `yaml:"code"`
	Edition string `yaml:"edition"`
	Tier    string `yaml:"tier"`
}

// JurisdictionDTO holds per-code options handed to plugins.
type JurisdictionDTO struct {
	Region  string            `yaml:"region"`
	Options map[string]string `yaml:"options"`
}
