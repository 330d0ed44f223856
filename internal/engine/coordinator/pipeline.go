// Package coordinator composes independent rule evaluators into one deterministic,
// auditable calculation bundle.
package coordinator

import (
	"slices"

	"go.trai.ch/watt/internal/core/domain"
	"go.trai.ch/zerr"
)

// Mode selects how a contribution is applied to its channel.
type Mode int

const (
	// Add accumulates the value onto the channel.
	Add Mode = iota
	// Set replaces the channel value.
	Set
)

// Channel is a declared output of a pipeline.
type Channel struct {
	Name      string
	Unit      domain.Unit
	Precision int
}

// Contribution is a change an evaluator makes to one channel.
type Contribution struct {
	Channel string
	Mode    Mode
	Value   float64
}

// AddTo returns an Add contribution.
func AddTo(channel string, v float64) Contribution {
	return Contribution{Channel: channel, Mode: Add, Value: v}
}

// SetTo returns a Set contribution.
func SetTo(channel string, v float64) Contribution {
	return Contribution{Channel: channel, Mode: Set, Value: v}
}

// Outcome is what an evaluator produces: one audit step, its channel contributions and
// any warnings.
type Outcome struct {
	Formula       string
	Inputs        map[string]float64
	Output        float64
	Unit          domain.Unit
	Contributions []Contribution
	Warnings      []domain.Warning
}

// Evaluator is one rule of a pipeline. Writes declares every channel the rule may
// contribute to.
type Evaluator[T any] struct {
	RuleID    string
	Reference string
	Writes    []string
	Eval      func(s *Scope[T]) (Outcome, error)
}

// Pipeline is an ordered, validated list of evaluators and the channels they write.
type Pipeline[T any] struct {
	channels   []Channel
	byName     map[string]Channel
	evaluators []Evaluator[T]
}

// NewPipeline validates the declaration and returns the pipeline.
// Duplicate rule IDs, duplicate channels and writes to undeclared channels are rejected.
func NewPipeline[T any](channels []Channel, evaluators ...Evaluator[T]) (*Pipeline[T], error) {
	byName := make(map[string]Channel, len(channels))
	for _, ch := range channels {
		if ch.Name == "" {
			return nil, zerr.Wrap(domain.ErrPipelineInvalid, "channel name is empty")
		}
		if ch.Precision < 0 {
			return nil, zerr.With(zerr.Wrap(domain.ErrPipelineInvalid, "negative precision"), "channel", ch.Name)
		}
		if _, dup := byName[ch.Name]; dup {
			return nil, zerr.With(zerr.Wrap(domain.ErrPipelineInvalid, "duplicate channel"), "channel", ch.Name)
		}
		byName[ch.Name] = ch
	}

	seen := make(map[string]struct{}, len(evaluators))
	for _, ev := range evaluators {
		if ev.RuleID == "" {
			return nil, zerr.Wrap(domain.ErrPipelineInvalid, "evaluator has no rule id")
		}
		if ev.Eval == nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrPipelineInvalid, "evaluator has no function"), "rule_id", ev.RuleID)
		}
		if _, dup := seen[ev.RuleID]; dup {
			return nil, zerr.With(zerr.Wrap(domain.ErrPipelineInvalid, "duplicate rule id"), "rule_id", ev.RuleID)
		}
		seen[ev.RuleID] = struct{}{}

		for _, w := range ev.Writes {
			if _, ok := byName[w]; !ok {
				err := zerr.With(zerr.Wrap(domain.ErrPipelineInvalid, "evaluator writes an undeclared channel"), "rule_id", ev.RuleID)
				return nil, zerr.With(err, "channel", w)
			}
		}
	}

	return &Pipeline[T]{
		channels:   slices.Clone(channels),
		byName:     byName,
		evaluators: slices.Clone(evaluators),
	}, nil
}

// MustPipeline is like NewPipeline but panics on an invalid declaration.
// It is meant for package-level pipeline definitions.
func MustPipeline[T any](channels []Channel, evaluators ...Evaluator[T]) *Pipeline[T] {
	p, err := NewPipeline(channels, evaluators...)
	if err != nil {
		panic(err)
	}
	return p
}

// RuleIDs returns the rule IDs in declared order.
func (p *Pipeline[T]) RuleIDs() []string {
	ids := make([]string, len(p.evaluators))
	for i, ev := range p.evaluators {
		ids[i] = ev.RuleID
	}
	return ids
}

// Channels returns the declared channels.
func (p *Pipeline[T]) Channels() []Channel {
	return slices.Clone(p.channels)
}
