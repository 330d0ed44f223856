// Package plugins holds the shared plumbing of the built-in calculation plugins.
package plugins

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"go.trai.ch/watt/internal/core/domain"
	"go.trai.ch/watt/internal/core/ports"
	"go.trai.ch/watt/internal/engine/coordinator"
	"go.trai.ch/zerr"
)

// Plugin adapts a manifest and a coordinator pipeline to ports.Plugin.
type Plugin[T any] struct {
	manifest domain.Manifest
	coord    *coordinator.Coordinator[T]
}

var _ ports.Plugin = (*Plugin[struct{}])(nil)

// New creates a plugin from its manifest and pipeline.
func New[T any](m domain.Manifest, pipeline *coordinator.Pipeline[T]) *Plugin[T] {
	return &Plugin[T]{
		manifest: m,
		coord:    coordinator.New(m.ID, pipeline),
	}
}

// Manifest returns a copy of the plugin manifest.
func (p *Plugin[T]) Manifest() domain.Manifest {
	return p.manifest.Clone()
}

// ValidateInputs decodes and validates inputs.
func (p *Plugin[T]) ValidateInputs(inputs domain.Inputs) domain.ValidationResult {
	return p.coord.Validate(inputs)
}

// RequiredTables returns the tables declared in the manifest.
func (p *Plugin[T]) RequiredTables() []string {
	return slices.Clone(p.manifest.RequiredTables)
}

// Calculate runs the pipeline against the tables in pctx.
func (p *Plugin[T]) Calculate(ctx context.Context, inputs domain.Inputs, pctx *ports.PluginContext) (*domain.Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, zerr.Wrap(err, "calculation cancelled")
	}
	if pctx == nil || pctx.Tables == nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrCalculationFailed, "no tables in plugin context"), "plugin_id", p.manifest.ID)
	}

	return p.coord.Run(inputs, pctx.Tables, pctx.EngineMeta, coordinator.RunOptions{
		Jurisdiction:       Jurisdiction(pctx),
		JurisdictionConfig: pctx.Options.JurisdictionConfig,
	})
}

// OnLoad checks that every required table is named once.
func (p *Plugin[T]) OnLoad() error {
	tables := slices.Clone(p.manifest.RequiredTables)
	slices.Sort(tables)
	if len(slices.Compact(tables)) != len(p.manifest.RequiredTables) {
		return zerr.With(zerr.New("manifest lists a required table twice"), "plugin_id", p.manifest.ID)
	}
	return nil
}

// Jurisdiction names the code, and region when configured, a bundle was computed for.
func Jurisdiction(pctx *ports.PluginContext) string {
	code := pctx.Tables.Key().Code
	if cfg := pctx.Options.JurisdictionConfig; cfg != nil && cfg.Region != "" {
		return code + "/" + cfg.Region
	}
	return code
}

// Warning codes shared by the service current rules.
const (
	WarnNonStandardVoltage  = "NON_STANDARD_VOLTAGE"
	WarnServiceAboveCeiling = "SERVICE_CURRENT_ABOVE_CEILING"
)

// ServiceWarnings checks a service current against the nominal voltages and the
// "advisoryCeiling_A" value of table.
func ServiceWarnings(table *domain.Table, cfg *domain.JurisdictionConfig, voltage, current float64) ([]domain.Warning, error) {
	ceiling, err := table.Value("advisoryCeiling_A")
	if err != nil {
		return nil, err
	}

	var warnings []domain.Warning
	if nominal := StandardVoltages(table, cfg); !IsStandardVoltage(voltage, nominal) {
		warnings = append(warnings, domain.Warning{
			Code:    WarnNonStandardVoltage,
			Message: fmt.Sprintf("system voltage %g V is not a standard nominal voltage %v", voltage, nominal),
		})
	}
	if current > ceiling {
		warnings = append(warnings, domain.Warning{
			Code:    WarnServiceAboveCeiling,
			Message: fmt.Sprintf("service current %.2f A exceeds the advisory ceiling of %g A", current, ceiling),
		})
	}
	return warnings, nil
}

// StandardVoltages returns the nominal voltages listed in table under keys prefixed
// with "nominalVoltage". A comma separated "standardVoltages" jurisdiction option
// replaces the table list.
func StandardVoltages(table *domain.Table, cfg *domain.JurisdictionConfig) []float64 {
	if opt := cfg.Option("standardVoltages", ""); opt != "" {
		var out []float64
		for _, part := range strings.Split(opt, ",") {
			if v, err := strconv.ParseFloat(strings.TrimSpace(part), 64); err == nil {
				out = append(out, v)
			}
		}
		if len(out) > 0 {
			return out
		}
	}

	var out []float64
	for k, v := range table.Values() {
		if strings.HasPrefix(k, "nominalVoltage") {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out
}

// IsStandardVoltage reports whether v matches one of the nominal voltages.
func IsStandardVoltage(v float64, nominal []float64) bool {
	return slices.ContainsFunc(nominal, func(n float64) bool {
		return math.Abs(n-v) < 0.5
	})
}
