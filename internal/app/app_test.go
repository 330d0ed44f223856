package app_test

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"path/filepath"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/watt/internal/adapters/cas"
	"go.trai.ch/watt/internal/adapters/keystore"
	"go.trai.ch/watt/internal/adapters/storage"
	"go.trai.ch/watt/internal/adapters/telemetry"
	"go.trai.ch/watt/internal/app"
	"go.trai.ch/watt/internal/core/domain"
	"go.trai.ch/watt/internal/core/ports"
	"go.trai.ch/watt/internal/core/ports/mocks"
	"go.trai.ch/watt/internal/engine/registry"
	"go.trai.ch/watt/internal/plugins/builtin"
	"go.trai.ch/watt/internal/plugins/cec"
	"go.trai.ch/watt/internal/plugins/nec"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

type harness struct {
	fs       afero.Fs
	config   *domain.Config
	recorder *tracetest.SpanRecorder
}

// newHarness layers an in-memory filesystem over the repository's table data.
func newHarness(t *testing.T) *harness {
	t.Helper()

	root, err := filepath.Abs("../../tables")
	require.NoError(t, err)

	return &harness{
		fs: afero.NewCopyOnWriteFs(afero.NewReadOnlyFs(afero.NewOsFs()), afero.NewMemMapFs()),
		config: &domain.Config{
			TablesRoot:     root,
			PublicKeyPath:  "/keys/watt.pub",
			TrustStorePath: "/trust",
			DefaultCode:    domain.DefaultCode,
			DefaultEdition: domain.DefaultEdition,
			DefaultTier:    domain.TierOne,
			Jurisdictions: map[string]domain.JurisdictionConfig{
				"CEC": {Code: "CEC", Region: "ON"},
			},
		},
		recorder: tracetest.NewSpanRecorder(),
	}
}

func (h *harness) app(t *testing.T) *app.App {
	t.Helper()
	ctrl := gomock.NewController(t)

	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load(".").Return(h.config, nil).AnyTimes()

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any(), gomock.Any()).AnyTimes()

	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(h.recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	return app.New(
		loader,
		log,
		telemetry.NewOTelTracerWithProvider(tp),
		keystore.New(h.fs),
		func(root string) ports.TableStorage { return storage.New(h.fs, root) },
		func(dir string) ports.TrustStore { return cas.NewStore(h.fs, dir) },
		builtin.New(),
	).WithClock(clockwork.NewFakeClock()).
		WithRand(bytes.NewReader(bytes.Repeat([]byte{42}, 64)))
}

// signed writes a key pair and signs the given plugins with a throwaway App.
func (h *harness) signed(t *testing.T, ids ...string) {
	t.Helper()
	a := h.app(t)
	ctx := context.Background()

	keys, err := a.Keygen(ctx, "/keys")
	require.NoError(t, err)
	for _, id := range ids {
		_, err := a.Sign(ctx, id, keys.PrivateKeyPath)
		require.NoError(t, err)
	}
}

func TestBoot_AdmitsSignedPlugins(t *testing.T) {
	h := newHarness(t)
	h.signed(t, cec.PluginID)

	plugins, err := h.app(t).Plugins(context.Background())
	require.NoError(t, err)
	require.Len(t, plugins, 2)
	assert.Equal(t, cec.PluginID, plugins[0].ID)
	assert.Equal(t, domain.PluginReady, plugins[0].State)
	assert.Equal(t, nec.PluginID, plugins[1].ID)
	assert.Equal(t, domain.PluginRejected, plugins[1].State)
}

func TestBoot_NoKeyRejectsEverything(t *testing.T) {
	plugins, err := newHarness(t).app(t).Plugins(context.Background())
	require.NoError(t, err)
	for _, p := range plugins {
		assert.Equal(t, domain.PluginRejected, p.State, p.ID)
	}
}

func TestCalculate(t *testing.T) {
	h := newHarness(t)
	h.signed(t, cec.PluginID, nec.PluginID)
	a := h.app(t)
	ctx := context.Background()

	resp, err := a.Calculate(ctx, app.CalculateRequest{
		PluginID: cec.PluginID,
		Inputs:   domain.Inputs{"systemVoltage": 240, "livingArea_m2": 91},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.InvocationID)
	assert.Equal(t, 6000.0, resp.Bundle.Results[cec.ChannelCalculatedLoad])
	assert.Equal(t, 100.0, resp.Bundle.Results[cec.ChannelServiceCurrent])
	assert.Len(t, resp.Bundle.Steps, 11)
	assert.Equal(t, "CEC/ON", resp.Bundle.Jurisdiction)
	assert.Equal(t, "2021", resp.Bundle.TableVersion.Edition)
	assert.NotEmpty(t, resp.Bundle.TableVersion.Fingerprint)

	t.Run("guest tier", func(t *testing.T) {
		resp, err := a.Calculate(ctx, app.CalculateRequest{
			PluginID: cec.PluginID,
			Inputs:   domain.Inputs{"systemVoltage": 240, "livingArea_m2": 91},
			Tier:     domain.TierGuest,
		})
		require.NoError(t, err)
		assert.Empty(t, resp.Bundle.Steps)
		assert.Equal(t, 6000.0, resp.Bundle.Results[cec.ChannelCalculatedLoad])
	})

	t.Run("nec", func(t *testing.T) {
		resp, err := a.Calculate(ctx, app.CalculateRequest{
			PluginID: nec.PluginID,
			Code:     "nec",
			Edition:  "2023",
			Inputs:   domain.Inputs{"systemVoltage": 240, "floorArea_m2": 100},
		})
		require.NoError(t, err)
		assert.Equal(t, "NEC", resp.Bundle.Jurisdiction)
		assert.Contains(t, resp.Bundle.Results, nec.ChannelTotalLoad)
	})

	t.Run("span", func(t *testing.T) {
		var found bool
		for _, s := range h.recorder.Ended() {
			if s.Name() == "watt.calculate" {
				found = true
			}
		}
		assert.True(t, found)
	})
}

func TestCalculate_Errors(t *testing.T) {
	h := newHarness(t)
	h.signed(t, cec.PluginID)
	a := h.app(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  app.CalculateRequest
		want error
	}{
		{
			name: "invalid inputs",
			req:  app.CalculateRequest{PluginID: cec.PluginID, Inputs: domain.Inputs{"livingArea_m2": 91}},
			want: domain.ErrInvalidInputs,
		},
		{
			name: "unsigned plugin",
			req:  app.CalculateRequest{PluginID: nec.PluginID, Code: "NEC", Edition: "2023", Inputs: domain.Inputs{}},
			want: domain.ErrPluginNotReady,
		},
		{
			name: "unknown edition",
			req:  app.CalculateRequest{PluginID: cec.PluginID, Edition: "1999", Inputs: domain.Inputs{}},
			want: domain.ErrTableNotFound,
		},
		{
			name: "unknown code",
			req:  app.CalculateRequest{PluginID: cec.PluginID, Code: "IEC", Inputs: domain.Inputs{}},
			want: domain.ErrMissingTables,
		},
		{
			name: "plugin for another code",
			req:  app.CalculateRequest{PluginID: cec.PluginID, Code: "NEC", Edition: "2023", Inputs: domain.Inputs{}},
			want: domain.ErrMissingTables,
		},
		{
			name: "unknown tier",
			req:  app.CalculateRequest{PluginID: cec.PluginID, Tier: "root"},
			want: domain.ErrUnknownTier,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Calculate(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCalculate_UncoveredCodeListsMissingTables(t *testing.T) {
	h := newHarness(t)
	h.signed(t, cec.PluginID)

	_, err := h.app(t).Calculate(context.Background(), app.CalculateRequest{
		PluginID: cec.PluginID,
		Code:     "NEC",
		Edition:  "2023",
		Inputs:   domain.Inputs{"systemVoltage": 240, "livingArea_m2": 91},
	})
	require.ErrorIs(t, err, domain.ErrMissingTables)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, []string{
		cec.TableBasicLoad, cec.TableHeatingDemand, cec.TableLivingArea, cec.TableMinimumLoad,
		cec.TableOtherLoads, cec.TableRangeDemand, cec.TableServiceMinimums,
	}, zErr.Metadata()[registry.MissingTablesKey])
	assert.Equal(t, "NEC", zErr.Metadata()["code"])
}

func TestSign_AdmitsOnNextOperation(t *testing.T) {
	h := newHarness(t)
	a := h.app(t)
	ctx := context.Background()
	req := app.CalculateRequest{
		PluginID: cec.PluginID,
		Inputs:   domain.Inputs{"systemVoltage": 240, "livingArea_m2": 91},
	}

	keys, err := a.Keygen(ctx, "/keys")
	require.NoError(t, err)

	_, err = a.Calculate(ctx, req)
	require.ErrorIs(t, err, domain.ErrPluginNotReady)

	_, err = a.Sign(ctx, cec.PluginID, keys.PrivateKeyPath)
	require.NoError(t, err)

	resp, err := a.Calculate(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 6000.0, resp.Bundle.Results[cec.ChannelCalculatedLoad])
}

func TestVerify(t *testing.T) {
	h := newHarness(t)
	h.signed(t, cec.PluginID)
	a := h.app(t)
	ctx := context.Background()

	report, err := a.Verify(ctx, cec.PluginID)
	require.NoError(t, err)
	assert.True(t, report.Valid())

	report, err = a.Verify(ctx, nec.PluginID)
	require.NoError(t, err)
	assert.False(t, report.Valid())
	assert.Equal(t, []string{"checksum", "signature"}, report.FailedChecks())

	_, err = a.Verify(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrPluginNotFound)

	t.Run("rotated key", func(t *testing.T) {
		priv := ed25519.NewKeyFromSeed(bytes.Repeat([]byte{9}, ed25519.SeedSize))
		_, _, err := keystore.New(h.fs).SaveKeyPair("/keys", priv.Public().(ed25519.PublicKey), priv)
		require.NoError(t, err)

		report, err := h.app(t).Verify(ctx, cec.PluginID)
		require.NoError(t, err)
		assert.True(t, report.ChecksumValid)
		assert.False(t, report.SignatureValid)
	})
}

func TestSign_MissingKey(t *testing.T) {
	_, err := newHarness(t).app(t).Sign(context.Background(), cec.PluginID, "/keys/absent.key")
	assert.ErrorIs(t, err, domain.ErrKeyMaterialMissing)
}

func TestKeygen_DefaultDir(t *testing.T) {
	h := newHarness(t)
	res, err := h.app(t).Keygen(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "/keys/watt.key", res.PrivateKeyPath)
	assert.Equal(t, "/keys/watt.pub", res.PublicKeyPath)
	assert.Len(t, res.KeyID, 16)
}

func TestTables(t *testing.T) {
	h := newHarness(t)
	h.signed(t, cec.PluginID)
	extra := filepath.Join(h.config.TablesRoot, "CEC", "2021", "demand-notes.yaml")
	require.NoError(t, afero.WriteFile(h.fs, extra, []byte("values: {a: 1}\n"), 0o644))
	a := h.app(t)
	ctx := context.Background()

	first, err := a.Tables(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, domain.TableKey{Code: "CEC", Edition: "2021"}, first.Key)
	assert.Equal(t, []string{
		cec.TableBasicLoad, cec.TableHeatingDemand, cec.TableLivingArea, cec.TableMinimumLoad,
		cec.TableOtherLoads, cec.TableRangeDemand, cec.TableServiceMinimums,
	}, first.Names)
	assert.False(t, first.Cached)
	assert.Equal(t, []string{"demand-notes"}, first.Unused)

	second, err := a.Tables(ctx, "cec", "2021")
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)

	editions, err := a.Editions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.TableKey{{Code: "CEC", Edition: "2021"}, {Code: "NEC", Edition: "2023"}}, editions)
}

func TestChecksum(t *testing.T) {
	a := newHarness(t).app(t)
	yamlDoc := []byte("id: x\nname: X\nversion: 1.0.0\ndomain: d\nstandards: [B, A]\nbuildingTypes: [any]\nentry: builtin:x\n")
	jsonDoc := []byte(`{"entry":"builtin:x","standards":["A","B"],"buildingTypes":["any"],"domain":"d","version":"1.0.0","name":"X","id":"x"}`)

	a1, err := a.Checksum(yamlDoc)
	require.NoError(t, err)
	a2, err := a.Checksum(jsonDoc)
	require.NoError(t, err)
	assert.Equal(t, a1, a2)

	_, err = a.Checksum([]byte("id: x\n"))
	assert.ErrorIs(t, err, domain.ErrManifestInvalid)
}
