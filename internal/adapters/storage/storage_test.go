package storage_test

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/watt/internal/adapters/storage"
	"go.trai.ch/watt/internal/core/domain"
	"go.trai.ch/zerr"
)

var key = domain.TableKey{Code: "CEC", Edition: "2021"}

func newStorage(t *testing.T, files map[string]string) *storage.Storage {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fsys, "/tables/"+path, []byte(content), 0o644))
	}
	return storage.New(fsys, "/tables")
}

func TestReadTable_Formats(t *testing.T) {
	s := newStorage(t, map[string]string{
		"CEC/2021/basic-load.yaml": "description: basic load\nvalues:\n  firstLoad_W: 5000\n",
		"CEC/2021/heating.toml":    "[[brackets]]\nupTo = 10000\nfactor = 1.0\n\n[[brackets]]\nfactor = 0.75\n",
		"CEC/2021/range.json":      `{"values": {"baseLoad_W": 6000}}`,
	})
	ctx := context.Background()

	yml, err := s.ReadTable(ctx, key, "basic-load")
	require.NoError(t, err)
	assert.Equal(t, "basic load", yml.Description())
	v, err := yml.Value("firstLoad_W")
	require.NoError(t, err)
	assert.Equal(t, 5000.0, v)

	tml, err := s.ReadTable(ctx, key, "heating")
	require.NoError(t, err)
	assert.Equal(t, []domain.Bracket{{UpTo: 10000, Factor: 1}, {Factor: 0.75}}, tml.Brackets())

	js, err := s.ReadTable(ctx, key, "range")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"baseLoad_W": 6000}, js.Values())
}

func TestReadTable_Errors(t *testing.T) {
	s := newStorage(t, map[string]string{
		"CEC/2021/twice.yaml":    "values: {a: 1}\n",
		"CEC/2021/twice.json":    `{"values": {"a": 1}}`,
		"CEC/2021/broken.yaml":   "values: [\n",
		"CEC/2021/unknown.yaml":  "value: {a: 1}\n",
		"CEC/2021/extra.toml":    "colour = \"red\"\n",
		"CEC/2021/brackets.json": `{"brackets": [{"factor": 1}, {"upTo": 10, "factor": 1}]}`,
		"CEC/secret.yaml":        "values: {a: 1}\n",
	})
	ctx := context.Background()

	tests := []struct {
		name  string
		table string
		want  error
	}{
		{"missing", "absent", domain.ErrTableNotFound},
		{"ambiguous", "twice", domain.ErrTableInvalid},
		{"malformed", "broken", domain.ErrTableParseFailed},
		{"unknown yaml field", "unknown", domain.ErrTableParseFailed},
		{"unknown toml key", "extra", domain.ErrTableParseFailed},
		{"bad brackets", "brackets", domain.ErrTableInvalid},
		{"path traversal", "../secrets", domain.ErrTableInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.ReadTable(ctx, key, tt.table)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("unsafe key", func(t *testing.T) {
		// /tables/CEC/secret.yaml would be reachable through a "." edition.
		for _, k := range []domain.TableKey{
			{Code: "CEC", Edition: "."},
			{Code: "CEC/2021", Edition: ".."},
			{Code: "..", Edition: "CEC"},
			{Code: "CEC", Edition: `2021\..`},
			{Code: "", Edition: "2021"},
		} {
			_, err := s.ReadTable(ctx, k, "secret")
			assert.ErrorIs(t, err, domain.ErrTableInvalid, k.String())

			_, err = s.Tables(ctx, k)
			assert.ErrorIs(t, err, domain.ErrTableInvalid, k.String())
		}
	})

	t.Run("not found metadata", func(t *testing.T) {
		_, err := s.ReadTable(ctx, key, "absent")
		var zErr *zerr.Error
		require.ErrorAs(t, err, &zErr)
		assert.Equal(t, "absent", zErr.Metadata()["table"])
		assert.Equal(t, "CEC@2021", zErr.Metadata()["key"])
	})

	t.Run("cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := s.ReadTable(cctx, key, "twice")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestEditions(t *testing.T) {
	s := newStorage(t, map[string]string{
		"NEC/2023/service.yaml": "values: {a: 1}\n",
		"CEC/2024/service.yaml": "values: {a: 1}\n",
		"CEC/2021/service.yaml": "values: {a: 1}\n",
		"README.md":             "tables",
		"CEC/notes.txt":         "ignored",
	})

	keys, err := s.Editions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.TableKey{
		{Code: "CEC", Edition: "2021"},
		{Code: "CEC", Edition: "2024"},
		{Code: "NEC", Edition: "2023"},
	}, keys)

	empty, err := storage.New(afero.NewMemMapFs(), "/none").Editions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestTables(t *testing.T) {
	s := newStorage(t, map[string]string{
		"CEC/2021/range.json":      "{}",
		"CEC/2021/basic-load.yaml": "{}",
		"CEC/2021/notes.txt":       "ignored",
	})

	ctx := context.Background()
	names, err := s.Tables(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []string{"basic-load", "range"}, names)

	none, err := s.Tables(ctx, domain.TableKey{Code: "NEC", Edition: "2023"})
	require.NoError(t, err)
	assert.Empty(t, none)
}
