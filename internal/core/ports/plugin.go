package ports

import (
	"context"

	"go.trai.ch/watt/internal/core/domain"
)

// Plugin is a jurisdiction-specific load calculation.
//
//go:generate mockgen -source=plugin.go -destination=mocks/mock_plugin.go -package=mocks
type Plugin interface {
	// Manifest returns the plugin's declarative identity.
	Manifest() domain.Manifest

	// ValidateInputs checks inputs without calculating anything.
	ValidateInputs(inputs domain.Inputs) domain.ValidationResult

	// RequiredTables names every table Calculate reads.
	RequiredTables() []string

	// Calculate runs the calculation. pctx must not be retained after it returns.
	Calculate(ctx context.Context, inputs domain.Inputs, pctx *PluginContext) (*domain.Bundle, error)

	// OnLoad runs once, after the plugin passes its integrity checks.
	OnLoad() error
}

// Options carries per-invocation settings for a plugin.
type Options struct {
	JurisdictionConfig *domain.JurisdictionConfig
}

// PluginContext is the execution context handed to Plugin.Calculate.
type PluginContext struct {
	EngineMeta domain.EngineMeta
	Tables     *domain.RuleTables
	Logger     Logger
	Options    Options
}

// TableRequirements reports which tables the registered plugins need for a code.
type TableRequirements interface {
	RequiredTables(code string) []string
}
