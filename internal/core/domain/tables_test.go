package domain_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/watt/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestNewTable_Validation(t *testing.T) {
	tests := []struct {
		name    string
		doc     domain.TableDocument
		wantErr bool
	}{
		{
			name: "values only",
			doc:  domain.TableDocument{Values: map[string]float64{"a": 1}},
		},
		{
			name: "open ended final bracket",
			doc: domain.TableDocument{Brackets: []domain.Bracket{
				{UpTo: 10000, Factor: 1},
				{Factor: 0.4},
			}},
		},
		{
			name: "open ended middle bracket",
			doc: domain.TableDocument{Brackets: []domain.Bracket{
				{Factor: 1},
				{UpTo: 10000, Factor: 0.4},
			}},
			wantErr: true,
		},
		{
			name: "decreasing bounds",
			doc: domain.TableDocument{Brackets: []domain.Bracket{
				{UpTo: 10000, Factor: 1},
				{UpTo: 5000, Factor: 0.5},
			}},
			wantErr: true,
		},
		{
			name:    "negative factor",
			doc:     domain.TableDocument{Brackets: []domain.Bracket{{Factor: -1}}},
			wantErr: true,
		},
		{
			name:    "non finite value",
			doc:     domain.TableDocument{Values: map[string]float64{"a": math.Inf(1)}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.NewTable("t", tt.doc)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrTableInvalid)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestTable_ApplyBrackets(t *testing.T) {
	tbl, err := domain.NewTable("general-demand", domain.TableDocument{
		Brackets: []domain.Bracket{
			{UpTo: 10000, Factor: 1},
			{Factor: 0.4},
		},
	})
	require.NoError(t, err)

	tests := []struct {
		amount float64
		want   float64
	}{
		{0, 0},
		{-5, 0},
		{8000, 8000},
		{10000, 10000},
		{20000, 14000},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, tbl.ApplyBrackets(tt.amount), 1e-9, "amount %v", tt.amount)
	}
}

func TestTable_ApplyBrackets_ClosedFinalBand(t *testing.T) {
	tbl, err := domain.NewTable("closed", domain.TableDocument{
		Brackets: []domain.Bracket{{UpTo: 100, Factor: 0.5}},
	})
	require.NoError(t, err)

	assert.InDelta(t, 50.0+50.0, tbl.ApplyBrackets(150), 1e-9)
}

func TestTable_IsolatedFromSource(t *testing.T) {
	values := map[string]float64{"a": 1}
	tbl, err := domain.NewTable("t", domain.TableDocument{Values: values})
	require.NoError(t, err)

	values["a"] = 99
	got := tbl.Values()
	got["a"] = 42

	v, err := tbl.Value("a")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, v, 0)
}

func TestTable_ValueMissing(t *testing.T) {
	tbl, err := domain.NewTable("basic-load", domain.TableDocument{})
	require.NoError(t, err)

	_, err = tbl.Value("first")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTableValueMissing))

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "basic-load", zErr.Metadata()["table"])
	assert.Equal(t, "first", zErr.Metadata()["key"])
}

func TestRuleTables_Fingerprint(t *testing.T) {
	build := func(v float64) *domain.RuleTables {
		a, err := domain.NewTable("a", domain.TableDocument{Values: map[string]float64{"x": v, "y": 2}})
		require.NoError(t, err)
		b, err := domain.NewTable("b", domain.TableDocument{Brackets: []domain.Bracket{{Factor: 1}}})
		require.NoError(t, err)
		return domain.NewRuleTables(domain.TableKey{Code: "CEC", Edition: "2021"}, []*domain.Table{a, b})
	}

	first := build(1)
	second := build(1)
	changed := build(1.5)

	assert.Len(t, first.Fingerprint(), 16)
	assert.Equal(t, first.Fingerprint(), second.Fingerprint())
	assert.NotEqual(t, first.Fingerprint(), changed.Fingerprint())
	assert.Equal(t, []string{"a", "b"}, first.Names())
	assert.Equal(t, domain.TableVersion{Code: "CEC", Edition: "2021", Fingerprint: first.Fingerprint()}, first.Version())
}

func TestRuleTables_TableNotLoaded(t *testing.T) {
	rt := domain.NewRuleTables(domain.TableKey{Code: "NEC", Edition: "2023"}, nil)

	_, err := rt.Value("general-lighting", "vaPerSquareFoot")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTableNotFound)
	assert.False(t, rt.Has("general-lighting"))
}
