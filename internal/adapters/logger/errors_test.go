package logger_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/watt/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func TestCollectErrorEntries(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []logger.ErrorEntry
	}{
		{
			name: "nil",
			err:  nil,
			want: nil,
		},
		{
			name: "standard error",
			err:  errors.New("disk full"),
			want: []logger.ErrorEntry{{Message: "disk full"}},
		},
		{
			name: "zerr without metadata",
			err:  zerr.New("no tables"),
			want: []logger.ErrorEntry{{Message: "no tables"}},
		},
		{
			name: "wrapped chain",
			err:  zerr.Wrap(zerr.Wrap(errors.New("eof"), "cannot decode table"), "cannot load tables"),
			want: []logger.ErrorEntry{
				{Message: "cannot load tables"},
				{Message: "cannot decode table"},
				{Message: "eof"},
			},
		},
		{
			name: "metadata on each link",
			err: func() error {
				inner := zerr.With(zerr.New("table not found"), "table", "basic-load")
				return zerr.With(zerr.Wrap(inner, "cannot load tables"), "edition", "2021")
			}(),
			want: []logger.ErrorEntry{
				{Message: "cannot load tables", Metadata: map[string]any{"edition": "2021"}},
				{Message: "table not found", Metadata: map[string]any{"table": "basic-load"}},
			},
		},
		{
			name: "metadata on a foreign error moves to it",
			err:  zerr.With(errors.New("permission denied"), "path", "keys/watt.key"),
			want: []logger.ErrorEntry{
				{Message: "permission denied", Metadata: map[string]any{"path": "keys/watt.key"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.CollectErrorEntries(tt.err))
		})
	}
}

func TestFormatErrorEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []logger.ErrorEntry
		want    string
	}{
		{
			name:    "empty",
			entries: nil,
			want:    "",
		},
		{
			name:    "single",
			entries: []logger.ErrorEntry{{Message: "plugin not found"}},
			want:    "Error: plugin not found",
		},
		{
			name: "causes",
			entries: []logger.ErrorEntry{
				{Message: "calculation failed"},
				{Message: "evaluator faulted"},
				{Message: "step output is not finite"},
			},
			want: "Error: calculation failed\n\n  Caused by:\n    → evaluator faulted\n    → step output is not finite",
		},
		{
			name: "sorted metadata",
			entries: []logger.ErrorEntry{
				{Message: "plugin rejected", Metadata: map[string]any{"plugin_id": "cec", "failed_checks": []string{"signature"}}},
				{Message: "bad signature", Metadata: map[string]any{"key_id": "abc"}},
			},
			want: "Error: plugin rejected\n" +
				"       failed_checks: [signature]\n" +
				"       plugin_id: cec\n\n" +
				"  Caused by:\n" +
				"    → bad signature\n" +
				"      key_id: abc",
		},
		{
			name: "multiline messages",
			entries: []logger.ErrorEntry{
				{Message: "invalid inputs\nsystemVoltage is a required field"},
				{Message: "yaml: line 3\nmapping values are not allowed"},
			},
			want: "Error: invalid inputs\n" +
				"       systemVoltage is a required field\n\n" +
				"  Caused by:\n" +
				"    → yaml: line 3\n" +
				"      mapping values are not allowed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.FormatErrorEntries(tt.entries))
		})
	}
}

func TestCollectAndFormat_StdlibChainStops(t *testing.T) {
	err := fmt.Errorf("cannot open store: %w", errors.New("permission denied"))
	got := logger.FormatErrorEntries(logger.CollectErrorEntries(zerr.Wrap(err, "boot failed")))
	assert.Equal(t, "Error: boot failed\n\n  Caused by:\n    → cannot open store: permission denied", got)
}
