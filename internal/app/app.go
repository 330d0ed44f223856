// Package app implements the application layer for watt.
package app

import (
	"context"
	"crypto/rand"
	"errors"
	"io"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jonboulle/clockwork"
	"go.trai.ch/watt/internal/adapters/redaction"
	"go.trai.ch/watt/internal/build"
	"go.trai.ch/watt/internal/core/domain"
	"go.trai.ch/watt/internal/core/ports"
	"go.trai.ch/watt/internal/engine/integrity"
	"go.trai.ch/watt/internal/engine/registry"
	"go.trai.ch/watt/internal/engine/tables"
	"go.trai.ch/watt/internal/plugins/builtin"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	tracer       ports.Tracer
	keys         ports.KeyStore
	openTables   ports.TableStorageOpener
	openTrust    ports.TrustStoreOpener
	catalog      *builtin.Catalog
	clock        clockwork.Clock
	rand         io.Reader
	workDir      string

	mu      sync.Mutex
	session *session
}

// session is the state built by Boot. Sign and Keygen drop it so the next operation
// admits plugins against the new envelopes and keys.
type session struct {
	config   *domain.Config
	registry *registry.Registry
	tables   *tables.Manager
	trust    ports.TrustStore
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	tracer ports.Tracer,
	keys ports.KeyStore,
	openTables ports.TableStorageOpener,
	openTrust ports.TrustStoreOpener,
	catalog *builtin.Catalog,
) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		tracer:       tracer,
		keys:         keys,
		openTables:   openTables,
		openTrust:    openTrust,
		catalog:      catalog,
		clock:        clockwork.NewRealClock(),
		rand:         rand.Reader,
		workDir:      ".",
	}
}

// WithClock replaces the clock used to time plugin execution.
func (a *App) WithClock(clock clockwork.Clock) *App {
	a.clock = clock
	return a
}

// WithRand replaces the entropy source used by Keygen.
func (a *App) WithRand(r io.Reader) *App {
	a.rand = r
	return a
}

// WithWorkDir sets the directory config discovery starts from.
func (a *App) WithWorkDir(dir string) *App {
	a.workDir = dir
	return a
}

// Boot loads the configuration, registers the built-in plugins and admits each one
// against its trust envelope. A plugin that fails admission is logged and left
// unusable; boot carries on with the others. Boot runs once per App, and again after
// Sign or Keygen has changed the trust material.
func (a *App) Boot(ctx context.Context) error {
	_, err := a.boot(ctx)
	return err
}

func (a *App) boot(ctx context.Context) (*session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.session != nil {
		return a.session, nil
	}

	cfg, err := a.configLoader.Load(a.workDir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	reg := registry.New(a.logger, a.clock)
	for _, p := range a.catalog.Plugins() {
		if err := reg.Register(p); err != nil {
			return nil, zerr.Wrap(err, "failed to register built-in plugin")
		}
	}

	trust := a.openTrust(cfg.TrustStorePath)

	pub, err := a.keys.LoadPublicKey(cfg.PublicKeyPath)
	if err != nil {
		a.logger.Warn("no verification key, plugins cannot be admitted", "path", cfg.PublicKeyPath)
		pub = nil
	}

	for _, status := range reg.Plugins() {
		envelope, err := trust.Get(status.ID)
		if err != nil {
			a.logger.Error(err, "plugin_id", status.ID)
		}
		// Rejections are logged by the registry.
		_ = reg.Admit(ctx, status.ID, envelope, pub)
	}

	a.session = &session{
		config:   cfg,
		registry: reg,
		tables:   tables.NewManager(a.openTables(cfg.TablesRoot), reg),
		trust:    trust,
	}
	return a.session, nil
}

// reset drops the session. Cached tables go with it.
func (a *App) reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.session = nil
}

// CalculateRequest names the plugin, table set, inputs and tier of one calculation.
// Empty Code, Edition and Tier fall back to the configured defaults.
type CalculateRequest struct {
	PluginID string
	Code     string
	Edition  string
	Inputs   domain.Inputs
	Tier     domain.Tier
}

// CalculateResponse is the outcome of Calculate.
type CalculateResponse struct {
	Bundle        *domain.Bundle
	ExecutionTime time.Duration
	// InvocationID correlates logs and spans. It never appears in the bundle.
	InvocationID string
}

// Calculate loads the tables, resolves the plugin, runs it and redacts the bundle for
// the requested tier.
func (a *App) Calculate(ctx context.Context, req CalculateRequest) (*CalculateResponse, error) {
	sess, err := a.boot(ctx)
	if err != nil {
		return nil, err
	}

	code := fallback(req.Code, sess.config.DefaultCode)
	edition := fallback(req.Edition, sess.config.DefaultEdition)
	tier := req.Tier
	if tier == "" {
		tier = sess.config.DefaultTier
	}
	if !tier.Known() {
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownTier, "cannot calculate"), "tier", string(tier))
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create invocation id")
	}
	invocation := id.String()

	ctx, span := a.tracer.Start(ctx, "watt.calculate", ports.WithAttributes(map[string]any{
		"plugin_id":     req.PluginID,
		"code":          code,
		"edition":       edition,
		"tier":          string(tier),
		"invocation_id": invocation,
	}))
	defer span.End()

	resp, err := a.calculate(ctx, sess, req, code, edition, tier)
	if err != nil {
		span.RecordError(err)
		return nil, zerr.With(err, "invocation_id", invocation)
	}
	resp.InvocationID = invocation

	span.SetAttribute("warnings", len(resp.Bundle.Warnings))
	span.SetAttribute("fingerprint", resp.Bundle.TableVersion.Fingerprint)
	return resp, nil
}

func (a *App) calculate(
	ctx context.Context,
	sess *session,
	req CalculateRequest,
	code, edition string,
	tier domain.Tier,
) (*CalculateResponse, error) {
	if err := sess.registry.Ready(req.PluginID); err != nil {
		return nil, err
	}

	rt, err := sess.tables.LoadTables(ctx, code, edition)
	if errors.Is(err, domain.ErrNoTableRequirements) {
		// No admitted plugin covers code, so report the tables this plugin lacks.
		if _, resolveErr := sess.registry.Resolve(req.PluginID, nil); resolveErr != nil {
			return nil, zerr.With(resolveErr, "code", code)
		}
	}
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load tables")
	}

	if _, err := sess.registry.Resolve(req.PluginID, rt.Names()); err != nil {
		return nil, err
	}

	jurisdiction := sess.config.Jurisdiction(code)
	if jurisdiction != nil && jurisdiction.Code == "" {
		jurisdiction.Code = rt.Key().Code
	}

	result, err := sess.registry.Execute(ctx, req.PluginID, req.Inputs, &ports.PluginContext{
		EngineMeta: domain.EngineMeta{Version: build.Version, Commit: build.Commit},
		Tables:     rt,
		Logger:     a.logger,
		Options:    ports.Options{JurisdictionConfig: jurisdiction},
	})
	if err != nil {
		return nil, err
	}

	bundle, err := redaction.Apply(result.Bundle, tier)
	if err != nil {
		return nil, err
	}
	return &CalculateResponse{Bundle: bundle, ExecutionTime: result.ExecutionTime}, nil
}

// Sign checksums and signs a registered plugin's manifest with the private key at
// privateKeyPath and stores the envelope in the trust store.
func (a *App) Sign(ctx context.Context, pluginID, privateKeyPath string) (*domain.Envelope, error) {
	sess, err := a.boot(ctx)
	if err != nil {
		return nil, err
	}

	m, err := sess.registry.Manifest(pluginID)
	if err != nil {
		return nil, err
	}

	priv, err := a.keys.LoadPrivateKey(privateKeyPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load signing key")
	}

	checksum, err := integrity.ComputeChecksum(m)
	if err != nil {
		return nil, err
	}
	sig, err := integrity.SignManifest(m, priv)
	if err != nil {
		return nil, err
	}

	envelope := domain.Envelope{
		PluginID:  m.ID,
		Version:   m.Version,
		Checksum:  checksum,
		Signature: sig,
	}
	if err := sess.trust.Put(envelope); err != nil {
		return nil, zerr.Wrap(err, "failed to store envelope")
	}

	a.reset()
	a.logger.Info("plugin signed", "plugin_id", m.ID, "key_id", sig.KeyID)
	return &envelope, nil
}

// Verify checks a registered plugin's manifest against its stored envelope and the
// configured public key. Both checks are always reported.
func (a *App) Verify(ctx context.Context, pluginID string) (domain.IntegrityReport, error) {
	sess, err := a.boot(ctx)
	if err != nil {
		return domain.IntegrityReport{}, err
	}

	m, err := sess.registry.Manifest(pluginID)
	if err != nil {
		return domain.IntegrityReport{}, err
	}

	envelope, err := sess.trust.Get(pluginID)
	if err != nil {
		return domain.IntegrityReport{}, err
	}
	if envelope == nil {
		return domain.IntegrityReport{Errors: []string{"no trust envelope for plugin"}}, nil
	}

	pub, err := a.keys.LoadPublicKey(sess.config.PublicKeyPath)
	if err != nil {
		return domain.IntegrityReport{}, zerr.Wrap(err, "failed to load verification key")
	}

	return integrity.VerifyManifestIntegrity(m, envelope.Checksum, envelope.Signature, pub), nil
}

// KeygenResult describes a freshly written key pair.
type KeygenResult struct {
	PrivateKeyPath string
	PublicKeyPath  string
	KeyID          string
}

// Keygen writes a new key pair into dir. An empty dir means the directory of the
// configured public key.
func (a *App) Keygen(ctx context.Context, dir string) (*KeygenResult, error) {
	if dir == "" {
		sess, err := a.boot(ctx)
		if err != nil {
			return nil, err
		}
		dir = filepath.Dir(sess.config.PublicKeyPath)
	}

	pub, priv, err := integrity.GenerateKey(a.rand)
	if err != nil {
		return nil, err
	}

	privPath, pubPath, err := a.keys.SaveKeyPair(dir, pub, priv)
	if err != nil {
		return nil, err
	}

	a.reset()
	keyID := integrity.KeyID(pub)
	a.logger.Info("key pair written", "key_id", keyID, "dir", dir)
	return &KeygenResult{PrivateKeyPath: privPath, PublicKeyPath: pubPath, KeyID: keyID}, nil
}

// TablesReport describes one loaded table set.
type TablesReport struct {
	Key         domain.TableKey
	Names       []string
	Fingerprint string
	Cached      bool
	// Unused lists stored tables that no admitted plugin requires.
	Unused []string
}

// Tables loads the table set for code and edition. Empty values fall back to the
// configured defaults.
func (a *App) Tables(ctx context.Context, code, edition string) (*TablesReport, error) {
	sess, err := a.boot(ctx)
	if err != nil {
		return nil, err
	}

	code = fallback(code, sess.config.DefaultCode)
	edition = fallback(edition, sess.config.DefaultEdition)

	_, cached := sess.tables.Cached(code, edition)
	rt, err := sess.tables.LoadTables(ctx, code, edition)
	if err != nil {
		return nil, err
	}

	stored, err := sess.tables.Stored(ctx, code, edition)
	if err != nil {
		return nil, err
	}
	names := rt.Names()
	var unused []string
	for _, name := range stored {
		if !slices.Contains(names, name) {
			unused = append(unused, name)
		}
	}

	return &TablesReport{
		Key:         rt.Key(),
		Names:       names,
		Fingerprint: rt.Fingerprint(),
		Cached:      cached,
		Unused:      unused,
	}, nil
}

// Editions lists the table sets available in the configured tables root.
func (a *App) Editions(ctx context.Context) ([]domain.TableKey, error) {
	sess, err := a.boot(ctx)
	if err != nil {
		return nil, err
	}
	return sess.tables.Editions(ctx)
}

// Plugins lists every built-in plugin and its admission state.
func (a *App) Plugins(ctx context.Context) ([]domain.PluginStatus, error) {
	sess, err := a.boot(ctx)
	if err != nil {
		return nil, err
	}
	return sess.registry.Plugins(), nil
}

// Checksum returns the checksum of a manifest document in JSON or YAML form.
func (a *App) Checksum(raw []byte) (domain.Checksum, error) {
	return integrity.ChecksumDocument(raw)
}

func fallback(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
