package registry_test

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/watt/internal/core/domain"
	"go.trai.ch/watt/internal/core/ports"
	"go.trai.ch/watt/internal/core/ports/mocks"
	"go.trai.ch/watt/internal/engine/integrity"
	"go.trai.ch/watt/internal/engine/registry"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func manifest(id string, standards ...string) domain.Manifest {
	return domain.Manifest{
		ID:             id,
		Name:           "Plugin " + id,
		Version:        "1.0.0",
		Domain:         "electrical",
		Standards:      standards,
		BuildingTypes:  []string{"single-dwelling"},
		Entry:          "builtin:" + id,
		RequiredTables: []string{"basic-load"},
	}
}

func keyPair() (ed25519.PublicKey, ed25519.PrivateKey) {
	priv := ed25519.NewKeyFromSeed(bytes.Repeat([]byte{7}, ed25519.SeedSize))
	return priv.Public().(ed25519.PublicKey), priv
}

func envelopeFor(t *testing.T, m domain.Manifest, priv ed25519.PrivateKey) *domain.Envelope {
	t.Helper()
	sum, err := integrity.ComputeChecksum(m)
	require.NoError(t, err)
	sig, err := integrity.SignManifest(m, priv)
	require.NoError(t, err)
	return &domain.Envelope{PluginID: m.ID, Version: m.Version, Checksum: sum, Signature: sig}
}

func newPlugin(ctrl *gomock.Controller, m domain.Manifest, tables ...string) *mocks.MockPlugin {
	p := mocks.NewMockPlugin(ctrl)
	p.EXPECT().Manifest().Return(m).AnyTimes()
	p.EXPECT().RequiredTables().Return(tables).AnyTimes()
	return p
}

func quietLogger(ctrl *gomock.Controller) *mocks.MockLogger {
	l := mocks.NewMockLogger(ctrl)
	l.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	l.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	l.EXPECT().Error(gomock.Any(), gomock.Any()).AnyTimes()
	return l
}

func admitted(t *testing.T, ctrl *gomock.Controller, reg *registry.Registry, m domain.Manifest, tables ...string) *mocks.MockPlugin {
	t.Helper()
	pub, priv := keyPair()
	p := newPlugin(ctrl, m, tables...)
	p.EXPECT().OnLoad().Return(nil)
	require.NoError(t, reg.Register(p))
	require.NoError(t, reg.Admit(context.Background(), m.ID, envelopeFor(t, m, priv), pub))
	return p
}

func TestRegistry_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	reg := registry.New(quietLogger(ctrl), clockwork.NewFakeClock())

	require.NoError(t, reg.Register(newPlugin(ctrl, manifest("a", "CEC"))))

	err := reg.Register(newPlugin(ctrl, manifest("a", "CEC")))
	assert.ErrorIs(t, err, domain.ErrDuplicatePlugin)

	invalid := manifest("b", "CEC")
	invalid.Version = "latest"
	err = reg.Register(newPlugin(ctrl, invalid))
	assert.ErrorIs(t, err, domain.ErrManifestInvalid)

	statuses := reg.Plugins()
	require.Len(t, statuses, 1)
	assert.Equal(t, domain.PluginRegistered, statuses[0].State)
}

func TestRegistry_Admit_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	reg := registry.New(quietLogger(ctrl), clockwork.NewFakeClock())

	admitted(t, ctrl, reg, manifest("a", "CEC"), "basic-load")

	statuses := reg.Plugins()
	require.Len(t, statuses, 1)
	assert.Equal(t, domain.PluginReady, statuses[0].State)
}

func TestRegistry_Admit_IntegrityFailures(t *testing.T) {
	pub, priv := keyPair()
	otherPriv := ed25519.NewKeyFromSeed(bytes.Repeat([]byte{9}, ed25519.SeedSize))

	tests := []struct {
		name     string
		envelope func(m domain.Manifest) *domain.Envelope
		want     []string
	}{
		{
			name:     "no envelope",
			envelope: func(domain.Manifest) *domain.Envelope { return nil },
			want:     []string{"checksum", "signature"},
		},
		{
			name: "tampered checksum",
			envelope: func(m domain.Manifest) *domain.Envelope {
				env := envelopeFor(t, m, priv)
				env.Checksum = domain.Checksum(bytes.Repeat([]byte{'0'}, domain.ChecksumLength))
				return env
			},
			want: []string{"checksum"},
		},
		{
			name: "signed by another key",
			envelope: func(m domain.Manifest) *domain.Envelope {
				return envelopeFor(t, m, otherPriv)
			},
			want: []string{"signature"},
		},
		{
			name: "envelope for a different manifest version",
			envelope: func(m domain.Manifest) *domain.Envelope {
				old := m.Clone()
				old.Version = "0.9.0"
				return envelopeFor(t, old, priv)
			},
			want: []string{"checksum", "signature"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			logger := mocks.NewMockLogger(ctrl)
			logger.EXPECT().Error(gomock.Any(), gomock.Any()).Times(1)

			reg := registry.New(logger, clockwork.NewFakeClock())
			m := manifest("a", "CEC")
			p := newPlugin(ctrl, m, "basic-load")
			p.EXPECT().OnLoad().Times(0)
			require.NoError(t, reg.Register(p))

			err := reg.Admit(context.Background(), "a", tt.envelope(m), pub)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrIntegrityCheckFailed)

			var zErr *zerr.Error
			require.ErrorAs(t, err, &zErr)
			assert.Equal(t, tt.want, zErr.Metadata()[registry.FailedChecksKey])

			assert.Equal(t, domain.PluginRejected, reg.Plugins()[0].State)

			_, err = reg.Resolve("a", []string{"basic-load"})
			assert.ErrorIs(t, err, domain.ErrPluginNotReady)

			err = reg.Admit(context.Background(), "a", envelopeFor(t, m, priv), pub)
			assert.ErrorIs(t, err, domain.ErrIntegrityCheckFailed)
		})
	}
}

func TestRegistry_Admit_OnLoadFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	reg := registry.New(quietLogger(ctrl), clockwork.NewFakeClock())
	pub, priv := keyPair()

	m := manifest("a", "CEC")
	p := newPlugin(ctrl, m)
	p.EXPECT().OnLoad().Return(errors.New("tables schema mismatch"))
	require.NoError(t, reg.Register(p))

	err := reg.Admit(context.Background(), "a", envelopeFor(t, m, priv), pub)
	assert.ErrorIs(t, err, domain.ErrPluginLoadFailed)
	assert.Equal(t, domain.PluginRejected, reg.Plugins()[0].State)
}

func TestRegistry_Admit_Unknown(t *testing.T) {
	ctrl := gomock.NewController(t)
	reg := registry.New(quietLogger(ctrl), clockwork.NewFakeClock())
	pub, _ := keyPair()

	err := reg.Admit(context.Background(), "ghost", nil, pub)
	assert.ErrorIs(t, err, domain.ErrPluginNotFound)
}

func TestRegistry_Resolve(t *testing.T) {
	ctrl := gomock.NewController(t)
	reg := registry.New(quietLogger(ctrl), clockwork.NewFakeClock())
	p := admitted(t, ctrl, reg, manifest("a", "CEC"), "range-demand", "basic-load", "living-area")

	got, err := reg.Resolve("a", []string{"basic-load", "living-area", "range-demand", "extra"})
	require.NoError(t, err)
	assert.Same(t, p, got)

	_, err = reg.Resolve("a", []string{"living-area"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingTables)
	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, []string{"basic-load", "range-demand"}, zErr.Metadata()[registry.MissingTablesKey])

	_, err = reg.Resolve("ghost", nil)
	assert.ErrorIs(t, err, domain.ErrPluginNotFound)

	require.NoError(t, reg.Register(newPlugin(ctrl, manifest("b", "CEC"))))
	_, err = reg.Resolve("b", nil)
	assert.ErrorIs(t, err, domain.ErrPluginNotReady)

	assert.NoError(t, reg.Ready("a"))
	assert.ErrorIs(t, reg.Ready("b"), domain.ErrPluginNotReady)
	assert.ErrorIs(t, reg.Ready("ghost"), domain.ErrPluginNotFound)
}

func TestRegistry_Execute(t *testing.T) {
	ctrl := gomock.NewController(t)
	clock := clockwork.NewFakeClock()
	reg := registry.New(quietLogger(ctrl), clock)
	p := admitted(t, ctrl, reg, manifest("a", "CEC"), "basic-load")

	inputs := domain.Inputs{"systemVoltage": 240.0}
	bundle := &domain.Bundle{
		PluginID: "a",
		Results:  map[string]float64{"load_W": 6000},
		Warnings: []domain.Warning{{RuleID: "r", Code: "c", Message: "m"}},
	}

	pctxLogger := mocks.NewMockLogger(ctrl)
	pctxLogger.EXPECT().Info("plugin execution started", gomock.Any()).Times(1)
	pctxLogger.EXPECT().Info("plugin execution finished", gomock.Any()).Times(1)
	pctx := &ports.PluginContext{Logger: pctxLogger}

	p.EXPECT().ValidateInputs(inputs).Return(domain.ValidResult())
	p.EXPECT().Calculate(gomock.Any(), inputs, pctx).
		DoAndReturn(func(context.Context, domain.Inputs, *ports.PluginContext) (*domain.Bundle, error) {
			clock.Advance(250 * time.Millisecond)
			return bundle, nil
		})

	result, err := reg.Execute(context.Background(), "a", inputs, pctx)
	require.NoError(t, err)
	assert.Same(t, bundle, result.Bundle)
	assert.Equal(t, 250*time.Millisecond, result.ExecutionTime)
	assert.Equal(t, bundle.Warnings, result.Warnings)
}

func TestRegistry_Execute_InvalidInputsSkipCalculate(t *testing.T) {
	ctrl := gomock.NewController(t)
	reg := registry.New(quietLogger(ctrl), clockwork.NewFakeClock())
	p := admitted(t, ctrl, reg, manifest("a", "CEC"))

	p.EXPECT().ValidateInputs(gomock.Any()).
		Return(domain.InvalidResult(domain.FieldError{Field: "systemVoltage", Message: "systemVoltage is a required field"}))
	p.EXPECT().Calculate(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	result, err := reg.Execute(context.Background(), "a", domain.Inputs{}, &ports.PluginContext{Logger: quietLogger(ctrl)})
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrInvalidInputs)
}

func TestRegistry_Execute_Faults(t *testing.T) {
	tests := []struct {
		name      string
		calculate func(context.Context, domain.Inputs, *ports.PluginContext) (*domain.Bundle, error)
	}{
		{
			name: "error",
			calculate: func(context.Context, domain.Inputs, *ports.PluginContext) (*domain.Bundle, error) {
				return nil, errors.New("division by zero")
			},
		},
		{
			name: "panic",
			calculate: func(context.Context, domain.Inputs, *ports.PluginContext) (*domain.Bundle, error) {
				panic("unexpected nil table")
			},
		},
		{
			name: "nil bundle",
			calculate: func(context.Context, domain.Inputs, *ports.PluginContext) (*domain.Bundle, error) {
				return nil, nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			reg := registry.New(quietLogger(ctrl), clockwork.NewFakeClock())
			p := admitted(t, ctrl, reg, manifest("a", "CEC"))

			p.EXPECT().ValidateInputs(gomock.Any()).Return(domain.ValidResult())
			p.EXPECT().Calculate(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(tt.calculate).Times(1)

			result, err := reg.Execute(context.Background(), "a", domain.Inputs{}, &ports.PluginContext{Logger: quietLogger(ctrl)})
			assert.Nil(t, result)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrCalculationFailed)
		})
	}
}

func TestRegistry_Execute_ValidatorPanic(t *testing.T) {
	ctrl := gomock.NewController(t)
	reg := registry.New(quietLogger(ctrl), clockwork.NewFakeClock())
	p := admitted(t, ctrl, reg, manifest("a", "CEC"))

	p.EXPECT().ValidateInputs(gomock.Any()).DoAndReturn(func(domain.Inputs) domain.ValidationResult {
		panic("validator missing a field")
	})
	p.EXPECT().Calculate(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	var (
		result *domain.CalculationResult
		err    error
	)
	require.NotPanics(t, func() {
		result, err = reg.Execute(context.Background(), "a", domain.Inputs{}, &ports.PluginContext{Logger: quietLogger(ctrl)})
	})
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrCalculationFailed)
	assert.NotErrorIs(t, err, domain.ErrInvalidInputs)
}

func TestRegistry_Execute_NotReady(t *testing.T) {
	ctrl := gomock.NewController(t)
	reg := registry.New(quietLogger(ctrl), clockwork.NewFakeClock())
	p := newPlugin(ctrl, manifest("a", "CEC"))
	p.EXPECT().ValidateInputs(gomock.Any()).Times(0)
	require.NoError(t, reg.Register(p))

	_, err := reg.Execute(context.Background(), "a", domain.Inputs{}, &ports.PluginContext{})
	assert.ErrorIs(t, err, domain.ErrPluginNotReady)
}

func TestRegistry_RequiredTables(t *testing.T) {
	ctrl := gomock.NewController(t)
	reg := registry.New(quietLogger(ctrl), clockwork.NewFakeClock())
	pub, _ := keyPair()

	admitted(t, ctrl, reg, manifest("cec-a", "CEC"), "living-area", "basic-load")
	require.NoError(t, reg.Register(newPlugin(ctrl, manifest("cec-b", "cec"), "range-demand", "basic-load")))
	require.NoError(t, reg.Register(newPlugin(ctrl, manifest("nec", "NEC"), "general-lighting")))

	rejected := newPlugin(ctrl, manifest("cec-rejected", "CEC"), "secret-table")
	require.NoError(t, reg.Register(rejected))
	require.Error(t, reg.Admit(context.Background(), "cec-rejected", nil, pub))

	assert.Equal(t, []string{"basic-load", "living-area", "range-demand"}, reg.RequiredTables("CEC"))
	assert.Equal(t, []string{"general-lighting"}, reg.RequiredTables("nec"))
	assert.Empty(t, reg.RequiredTables("IEC"))

	ids := make([]string, 0, 4)
	for _, s := range reg.Plugins() {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"cec-a", "cec-b", "cec-rejected", "nec"}, ids)
}
