package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/watt/internal/core/domain"
)

func TestParseTier(t *testing.T) {
	tests := []struct {
		input   string
		want    domain.Tier
		wantErr bool
	}{
		{"guest", domain.TierGuest, false},
		{"TIER1", domain.TierOne, false},
		{" tier2 ", domain.TierTwo, false},
		{"tier3", domain.TierThree, false},
		{"admin", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := domain.ParseTier(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrUnknownTier)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChecksum_Validate(t *testing.T) {
	valid := domain.Checksum("0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef")
	require.NoError(t, valid.Validate())

	assert.ErrorIs(t, domain.Checksum("abc").Validate(), domain.ErrChecksumMalformed)
	upper := domain.Checksum("0123456789ABCDEF0123456789abcdef0123456789abcdef0123456789abcdef")
	assert.ErrorIs(t, upper.Validate(), domain.ErrChecksumMalformed)
}

func TestIntegrityReport_FailedChecks(t *testing.T) {
	assert.Empty(t, domain.IntegrityReport{ChecksumValid: true, SignatureValid: true}.FailedChecks())
	assert.Equal(t, []string{"signature"}, domain.IntegrityReport{ChecksumValid: true}.FailedChecks())
	assert.Equal(t, []string{"checksum", "signature"}, domain.IntegrityReport{}.FailedChecks())
}

func TestManifest_CloneIsDeep(t *testing.T) {
	m := domain.Manifest{Standards: []string{"CEC"}, Tags: []string{"residential"}}
	c := m.Clone()
	c.Standards[0] = "NEC"
	c.Tags[0] = "commercial"

	assert.Equal(t, "CEC", m.Standards[0])
	assert.Equal(t, "residential", m.Tags[0])
	assert.True(t, m.SupportsStandard("cec"))
	assert.False(t, m.SupportsStandard("NEC"))
}

func TestBundle_CloneIsDeep(t *testing.T) {
	b := &domain.Bundle{
		Results: map[string]float64{"load": 1},
		Steps:   []domain.CalculationStep{{RuleID: "r", Inputs: map[string]float64{"a": 1}}},
	}
	c := b.Clone()
	c.Results["load"] = 2
	c.Steps[0].Inputs["a"] = 2

	assert.InDelta(t, 1.0, b.Results["load"], 0)
	assert.InDelta(t, 1.0, b.Steps[0].Inputs["a"], 0)
}

func TestPluginState_String(t *testing.T) {
	assert.Equal(t, "ready", domain.PluginReady.String())
	assert.Equal(t, "rejected", domain.PluginRejected.String())
	assert.Equal(t, "unknown", domain.PluginState(42).String())
}

func TestUnitConversions(t *testing.T) {
	assert.InDelta(t, 1.0, domain.SquareMetresToSquareFeet(domain.SquareFootInSquareMetres), 1e-12)
	assert.InDelta(t, 100.0, domain.CurrentFromPower(24000, 240), 1e-12)
	assert.InDelta(t, 0.0, domain.CurrentFromPower(24000, 0), 0)
}
