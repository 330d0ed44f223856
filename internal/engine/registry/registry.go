// Package registry admits plugins after integrity verification and executes them.
package registry

import (
	"context"
	"crypto/ed25519"
	"errors"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/jonboulle/clockwork"
	"go.trai.ch/watt/internal/core/domain"
	"go.trai.ch/watt/internal/core/ports"
	"go.trai.ch/watt/internal/engine/integrity"
	"go.trai.ch/watt/internal/validation"
	"go.trai.ch/zerr"
)

// FailedChecksKey is the metadata key listing the integrity checks a plugin failed.
const FailedChecksKey = "failed_checks"

// MissingTablesKey is the metadata key listing tables a plugin needs but cannot get.
const MissingTablesKey = "missing_tables"

type entry struct {
	plugin   ports.Plugin
	manifest domain.Manifest
	tables   []string
	state    domain.PluginState
}

// Registry tracks plugins through admission and runs the ready ones.
type Registry struct {
	logger ports.Logger
	clock  clockwork.Clock

	mu      sync.RWMutex
	entries map[string]*entry
}

// New creates an empty Registry. The clock measures execution time.
func New(logger ports.Logger, clock clockwork.Clock) *Registry {
	return &Registry{
		logger:  logger,
		clock:   clock,
		entries: make(map[string]*entry),
	}
}

// Register adds a plugin in the Registered state after validating its manifest.
func (r *Registry) Register(p ports.Plugin) error {
	m := p.Manifest().Clone()
	if errs := validation.Default().Struct(m); len(errs) > 0 {
		return zerr.With(validation.Error(domain.ErrManifestInvalid, errs), "plugin_id", m.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[m.ID]; exists {
		return zerr.With(zerr.Wrap(domain.ErrDuplicatePlugin, "cannot register plugin"), "plugin_id", m.ID)
	}

	tables := slices.Clone(p.RequiredTables())
	slices.Sort(tables)

	r.entries[m.ID] = &entry{
		plugin:   p,
		manifest: m,
		tables:   slices.Compact(tables),
		state:    domain.PluginRegistered,
	}
	return nil
}

// Admit verifies a registered plugin against its envelope and moves it to Ready.
//
// A failed check rejects the plugin for the lifetime of the registry. A nil envelope
// fails both checks.
func (r *Registry) Admit(ctx context.Context, id string, envelope *domain.Envelope, pub ed25519.PublicKey) error {
	if err := ctx.Err(); err != nil {
		return zerr.Wrap(err, "admission cancelled")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return zerr.With(zerr.Wrap(domain.ErrPluginNotFound, "cannot admit plugin"), "plugin_id", id)
	}

	switch e.state {
	case domain.PluginReady:
		return nil
	case domain.PluginRejected:
		return zerr.With(zerr.Wrap(domain.ErrIntegrityCheckFailed, "plugin was rejected"), "plugin_id", id)
	}

	report := r.verify(e, envelope, pub)
	if !report.Valid() {
		e.state = domain.PluginRejected
		err := zerr.Wrap(domain.ErrIntegrityCheckFailed, strings.Join(report.Errors, "; "))
		err = zerr.With(err, "plugin_id", id)
		err = zerr.With(err, FailedChecksKey, report.FailedChecks())
		r.logger.Error(err, "plugin_id", id)
		return err
	}
	e.state = domain.PluginValidated

	if err := e.plugin.OnLoad(); err != nil {
		e.state = domain.PluginRejected
		loadErr := zerr.With(zerr.Wrap(errors.Join(domain.ErrPluginLoadFailed, err), "plugin load hook failed"), "plugin_id", id)
		r.logger.Error(loadErr, "plugin_id", id)
		return loadErr
	}
	e.state = domain.PluginLoaded

	e.state = domain.PluginReady
	r.logger.Info("plugin ready", "plugin_id", id, "version", e.manifest.Version)
	return nil
}

func (r *Registry) verify(e *entry, envelope *domain.Envelope, pub ed25519.PublicKey) domain.IntegrityReport {
	if envelope == nil {
		return domain.IntegrityReport{Errors: []string{"no trust envelope for plugin"}}
	}
	if envelope.PluginID != e.manifest.ID {
		return domain.IntegrityReport{Errors: []string{"trust envelope belongs to plugin " + envelope.PluginID}}
	}
	return integrity.VerifyManifestIntegrity(e.manifest, envelope.Checksum, envelope.Signature, pub)
}

// Resolve returns a ready plugin whose required tables are all in available.
func (r *Registry) Resolve(id string, available []string) (ports.Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, err := r.readyLocked(id)
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, name := range e.tables {
		if !slices.Contains(available, name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		err := zerr.Wrap(domain.ErrMissingTables, "plugin cannot be resolved")
		err = zerr.With(err, "plugin_id", id)
		return nil, zerr.With(err, MissingTablesKey, missing)
	}
	return e.plugin, nil
}

// Ready reports whether a plugin has been admitted, without checking its tables.
func (r *Registry) Ready(id string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, err := r.readyLocked(id)
	return err
}

func (r *Registry) readyLocked(id string) (*entry, error) {
	e, ok := r.entries[id]
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrPluginNotFound, "unknown plugin"), "plugin_id", id)
	}
	if e.state != domain.PluginReady {
		err := zerr.With(zerr.Wrap(domain.ErrPluginNotReady, "plugin has not been admitted"), "plugin_id", id)
		return nil, zerr.With(err, "state", e.state.String())
	}
	return e, nil
}

// Execute validates inputs and runs a ready plugin.
//
// Validation failures never reach Calculate. Any fault, including a panic, is
// reported as domain.ErrCalculationFailed joined with its cause. Nothing is retried.
func (r *Registry) Execute(
	ctx context.Context,
	id string,
	inputs domain.Inputs,
	pctx *ports.PluginContext,
) (*domain.CalculationResult, error) {
	r.mu.RLock()
	e, err := r.readyLocked(id)
	r.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	if pctx == nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrCalculationFailed, "no plugin context"), "plugin_id", id)
	}
	logger := pctx.Logger
	if logger == nil {
		logger = r.logger
	}

	result, err := validate(e.plugin, inputs)
	if err != nil {
		err = zerr.With(err, "plugin_id", id)
		logger.Error(err, "plugin_id", id)
		return nil, err
	}
	if !result.Valid {
		return nil, zerr.With(validation.Error(domain.ErrInvalidInputs, result.Errors), "plugin_id", id)
	}

	if err := ctx.Err(); err != nil {
		return nil, zerr.Wrap(err, "execution cancelled")
	}

	logger.Info("plugin execution started", "plugin_id", id)
	start := r.clock.Now()

	bundle, err := calculate(ctx, e.plugin, inputs, pctx)
	elapsed := r.clock.Since(start)
	if err != nil {
		err = zerr.With(err, "plugin_id", id)
		logger.Error(err, "plugin_id", id, "elapsed", elapsed)
		return nil, err
	}

	logger.Info("plugin execution finished", "plugin_id", id, "elapsed", elapsed)

	return &domain.CalculationResult{
		Bundle:        bundle,
		ExecutionTime: elapsed,
		Warnings:      slices.Clone(bundle.Warnings),
	}, nil
}

func validate(p ports.Plugin, inputs domain.Inputs) (result domain.ValidationResult, err error) {
	defer zerr.Defer(func(panicErr error) {
		result = domain.ValidationResult{}
		err = zerr.Wrap(errors.Join(domain.ErrCalculationFailed, panicErr), "plugin input validation panicked")
	})

	return p.ValidateInputs(inputs), nil
}

func calculate(
	ctx context.Context,
	p ports.Plugin,
	inputs domain.Inputs,
	pctx *ports.PluginContext,
) (bundle *domain.Bundle, err error) {
	defer zerr.Defer(func(panicErr error) {
		bundle = nil
		err = zerr.Wrap(errors.Join(domain.ErrCalculationFailed, panicErr), "plugin panicked")
	})

	bundle, err = p.Calculate(ctx, inputs.Clone(), pctx)
	switch {
	case err != nil && (errors.Is(err, domain.ErrCalculationFailed) || errors.Is(err, domain.ErrInvalidInputs)):
		return nil, err
	case err != nil:
		return nil, zerr.Wrap(errors.Join(domain.ErrCalculationFailed, err), "plugin calculation failed")
	case bundle == nil:
		return nil, zerr.Wrap(domain.ErrCalculationFailed, "plugin returned no bundle")
	}
	return bundle, nil
}

// RequiredTables returns the sorted union of tables needed by non-rejected plugins
// whose standards include code. Codes compare case-insensitively.
func (r *Registry) RequiredTables(code string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := make(map[string]struct{})
	for _, e := range r.entries {
		if e.state == domain.PluginRejected || !e.manifest.SupportsStandard(code) {
			continue
		}
		for _, name := range e.tables {
			set[name] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(set))
}

// Manifest returns a copy of a registered plugin's manifest, whatever its state.
func (r *Registry) Manifest(id string) (domain.Manifest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[id]
	if !ok {
		return domain.Manifest{}, zerr.With(zerr.Wrap(domain.ErrPluginNotFound, "unknown plugin"), "plugin_id", id)
	}
	return e.manifest.Clone(), nil
}

// Plugins lists every registered plugin and its state, sorted by id.
func (r *Registry) Plugins() []domain.PluginStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.PluginStatus, 0, len(r.entries))
	for _, id := range slices.Sorted(maps.Keys(r.entries)) {
		e := r.entries[id]
		out = append(out, domain.PluginStatus{
			ID:        id,
			Name:      e.manifest.Name,
			Version:   e.manifest.Version,
			Standards: slices.Clone(e.manifest.Standards),
			State:     e.state,
		})
	}
	return out
}
