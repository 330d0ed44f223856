package domain

import (
	"maps"
	"slices"
	"time"
)

// CalculationStep is one entry of the audit trail.
// Output is recorded unrounded; rounding only applies to Bundle.Results.
type CalculationStep struct {
	RuleID    string             `json:"ruleId" yaml:"ruleId"`
	Formula   string             `json:"formula" yaml:"formula"`
	Inputs    map[string]float64 `json:"inputs" yaml:"inputs"`
	Output    float64            `json:"output" yaml:"output"`
	Unit      Unit               `json:"unit" yaml:"unit"`
	Reference string             `json:"reference" yaml:"reference"`
}

// Warning is an advisory raised during a calculation. It never blocks a bundle.
type Warning struct {
	RuleID  string `json:"ruleId" yaml:"ruleId"`
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

// EngineMeta identifies the build of the engine that produced a bundle.
type EngineMeta struct {
	Commit  string `json:"commit" yaml:"commit"`
	Version string `json:"version" yaml:"version"`
}

// TableVersion records which table set a bundle was computed against.
type TableVersion struct {
	Code        string `json:"code" yaml:"code"`
	Edition     string `json:"edition" yaml:"edition"`
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`
}

// Bundle is the unsigned result of one plugin invocation.
// The caller of that invocation is its sole owner.
type Bundle struct {
	PluginID     string             `json:"pluginId" yaml:"pluginId"`
	Results      map[string]float64 `json:"results" yaml:"results"`
	Units        map[string]Unit    `json:"units,omitempty" yaml:"units,omitempty"`
	Steps        []CalculationStep  `json:"steps" yaml:"steps"`
	Warnings     []Warning          `json:"warnings" yaml:"warnings"`
	EngineMeta   EngineMeta         `json:"engineMeta" yaml:"engineMeta"`
	TableVersion TableVersion       `json:"tableVersion" yaml:"tableVersion"`
	Jurisdiction string             `json:"jurisdiction" yaml:"jurisdiction"`
}

// Clone returns a deep copy of the bundle.
func (b *Bundle) Clone() *Bundle {
	if b == nil {
		return nil
	}
	c := *b
	c.Results = maps.Clone(b.Results)
	c.Units = maps.Clone(b.Units)
	c.Warnings = slices.Clone(b.Warnings)
	c.Steps = make([]CalculationStep, len(b.Steps))
	for i, s := range b.Steps {
		s.Inputs = maps.Clone(s.Inputs)
		c.Steps[i] = s
	}
	return &c
}

// CalculationResult is what the registry returns for a successful invocation.
type CalculationResult struct {
	Bundle        *Bundle       `json:"bundle"`
	ExecutionTime time.Duration `json:"executionTime"`
	Warnings      []Warning     `json:"warnings"`
}
