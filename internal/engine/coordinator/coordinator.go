package coordinator

import (
	"errors"
	"maps"
	"math"
	"slices"

	"go.trai.ch/watt/internal/core/domain"
	"go.trai.ch/watt/internal/validation"
	"go.trai.ch/zerr"
)

// RunOptions carries per-invocation settings that end up in the bundle.
type RunOptions struct {
	Jurisdiction       string
	JurisdictionConfig *domain.JurisdictionConfig
}

// Coordinator runs a pipeline for one plugin.
type Coordinator[T any] struct {
	pluginID string
	pipeline *Pipeline[T]
}

// New creates a Coordinator producing bundles attributed to pluginID.
func New[T any](pluginID string, pipeline *Pipeline[T]) *Coordinator[T] {
	return &Coordinator[T]{pluginID: pluginID, pipeline: pipeline}
}

// Validate decodes and validates inputs without running any evaluator.
func (c *Coordinator[T]) Validate(inputs domain.Inputs) domain.ValidationResult {
	if _, errs := DecodeInputs[T](inputs); len(errs) > 0 {
		return domain.InvalidResult(errs...)
	}
	return domain.ValidResult()
}

// Run evaluates the pipeline in declared order and returns the finished bundle.
//
// Invalid inputs fail before any evaluator runs. Any evaluator fault, including a
// panic or a non-finite value, fails the whole run and no bundle is returned.
func (c *Coordinator[T]) Run(
	inputs domain.Inputs,
	tables *domain.RuleTables,
	meta domain.EngineMeta,
	opts RunOptions,
) (bundle *domain.Bundle, err error) {
	in, fieldErrs := DecodeInputs[T](inputs)
	if len(fieldErrs) > 0 {
		return nil, validation.Error(domain.ErrInvalidInputs, fieldErrs)
	}
	if tables == nil {
		return nil, fault(c.pluginID, "", errors.New("no tables supplied"))
	}

	var current string
	defer zerr.Defer(func(panicErr error) {
		bundle = nil
		err = fault(c.pluginID, current, panicErr)
	})

	scope := &Scope[T]{
		Inputs:       in,
		Tables:       tables,
		Jurisdiction: opts.JurisdictionConfig,
		channels:     make(map[string]float64, len(c.pipeline.channels)),
	}

	steps := make([]domain.CalculationStep, 0, len(c.pipeline.evaluators))
	warnings := []domain.Warning{}

	for _, ev := range c.pipeline.evaluators {
		current = ev.RuleID

		out, evalErr := ev.Eval(scope)
		if evalErr != nil {
			return nil, fault(c.pluginID, ev.RuleID, evalErr)
		}
		if !finite(out.Output) {
			return nil, fault(c.pluginID, ev.RuleID, zerr.With(zerr.New("step output is not finite"), "output", out.Output))
		}

		for _, contrib := range out.Contributions {
			if err := c.apply(ev, scope, contrib); err != nil {
				return nil, fault(c.pluginID, ev.RuleID, err)
			}
		}

		stepInputs := maps.Clone(out.Inputs)
		if stepInputs == nil {
			stepInputs = map[string]float64{}
		}
		steps = append(steps, domain.CalculationStep{
			RuleID:    ev.RuleID,
			Formula:   out.Formula,
			Inputs:    stepInputs,
			Output:    out.Output,
			Unit:      out.Unit,
			Reference: ev.Reference,
		})

		for _, w := range out.Warnings {
			if w.RuleID == "" {
				w.RuleID = ev.RuleID
			}
			warnings = append(warnings, w)
		}
	}

	results, units := c.finalize(scope.channels)

	return &domain.Bundle{
		PluginID:     c.pluginID,
		Results:      results,
		Units:        units,
		Steps:        steps,
		Warnings:     warnings,
		EngineMeta:   meta,
		TableVersion: tables.Version(),
		Jurisdiction: opts.Jurisdiction,
	}, nil
}

func (c *Coordinator[T]) apply(ev Evaluator[T], scope *Scope[T], contrib Contribution) error {
	if _, ok := c.pipeline.byName[contrib.Channel]; !ok || !slices.Contains(ev.Writes, contrib.Channel) {
		return zerr.With(zerr.New("contribution to an undeclared channel"), "channel", contrib.Channel)
	}
	if !finite(contrib.Value) {
		return zerr.With(zerr.With(zerr.New("contribution is not finite"), "channel", contrib.Channel), "value", contrib.Value)
	}

	switch contrib.Mode {
	case Add:
		scope.channels[contrib.Channel] += contrib.Value
	case Set:
		scope.channels[contrib.Channel] = contrib.Value
	default:
		return zerr.With(zerr.New("unknown contribution mode"), "mode", int(contrib.Mode))
	}

	if !finite(scope.channels[contrib.Channel]) {
		return zerr.With(zerr.New("channel value is not finite"), "channel", contrib.Channel)
	}
	return nil
}

// finalize rounds every declared channel once, at its declared precision.
func (c *Coordinator[T]) finalize(channels map[string]float64) (map[string]float64, map[string]domain.Unit) {
	results := make(map[string]float64, len(c.pipeline.channels))
	units := make(map[string]domain.Unit, len(c.pipeline.channels))
	for _, ch := range c.pipeline.channels {
		results[ch.Name] = round(channels[ch.Name], ch.Precision)
		units[ch.Name] = ch.Unit
	}
	return results, units
}

func round(v float64, precision int) float64 {
	scale := math.Pow10(precision)
	return math.Round(v*scale) / scale
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func fault(pluginID, ruleID string, cause error) error {
	err := zerr.Wrap(errors.Join(domain.ErrCalculationFailed, cause), "evaluator faulted")
	err = zerr.With(err, "plugin_id", pluginID)
	if ruleID != "" {
		err = zerr.With(err, "rule_id", ruleID)
	}
	return err
}
