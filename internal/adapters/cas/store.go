// Package cas keeps plugin trust envelopes in a content addressed directory.
package cas

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
	wattfs "go.trai.ch/watt/internal/adapters/fs"
	"go.trai.ch/watt/internal/core/domain"
	"go.trai.ch/watt/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	dirPerm  = 0o750
	filePerm = 0o644
)

// Store implements ports.TrustStore with one JSON file per plugin, named by the
// SHA-256 of the plugin id.
type Store struct {
	fs  afero.Fs
	dir string
}

var _ ports.TrustStore = (*Store)(nil)

// NewStore creates a Store in dir. The directory is created on first Put.
func NewStore(fs afero.Fs, dir string) *Store {
	return &Store{fs: fs, dir: dir}
}

// Get returns the envelope for pluginID, or nil when none is stored.
func (s *Store) Get(pluginID string) (*domain.Envelope, error) {
	filename := s.filename(pluginID)
	data, err := afero.ReadFile(s.fs, filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(errors.Join(domain.ErrStoreReadFailed, err), "cannot read envelope"), "plugin_id", pluginID)
	}

	var env domain.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, zerr.With(zerr.Wrap(errors.Join(domain.ErrStoreUnmarshalFailed, err), "cannot decode envelope"), "plugin_id", pluginID)
	}
	return &env, nil
}

// Put stores envelope, replacing any earlier one for the same plugin.
func (s *Store) Put(envelope domain.Envelope) error {
	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return zerr.Wrap(errors.Join(domain.ErrStoreMarshalFailed, err), "cannot encode envelope")
	}

	if err := s.fs.MkdirAll(s.dir, dirPerm); err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrStoreCreateFailed, err), "cannot create trust store"), "dir", s.dir)
	}

	if err := wattfs.WriteFileAtomic(s.fs, s.filename(envelope.PluginID), append(data, '\n'), filePerm); err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrStoreWriteFailed, err), "cannot write envelope"), "plugin_id", envelope.PluginID)
	}
	return nil
}

func (s *Store) filename(pluginID string) string {
	sum := sha256.Sum256([]byte(pluginID))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:])+".json")
}
