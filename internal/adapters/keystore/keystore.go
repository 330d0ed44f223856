// Package keystore keeps Ed25519 signing keys as PEM files.
package keystore

import (
	"crypto/ed25519"
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
	wattfs "go.trai.ch/watt/internal/adapters/fs"
	"go.trai.ch/watt/internal/core/domain"
	"go.trai.ch/watt/internal/core/ports"
	"go.trai.ch/watt/internal/engine/integrity"
	"go.trai.ch/zerr"
)

// Key file names written by SaveKeyPair.
const (
	PrivateKeyFile = "watt.key"
	PublicKeyFile  = "watt.pub"
)

const (
	privatePerm = 0o600
	publicPerm  = 0o644
	dirPerm     = 0o750
)

// Store implements ports.KeyStore on an afero filesystem.
type Store struct {
	fs afero.Fs
}

var _ ports.KeyStore = (*Store)(nil)

// New creates a Store.
func New(fs afero.Fs) *Store {
	return &Store{fs: fs}
}

// LoadPrivateKey reads a PKCS#8 PEM private key.
func (s *Store) LoadPrivateKey(path string) (ed25519.PrivateKey, error) {
	data, err := s.read(path)
	if err != nil {
		return nil, err
	}
	priv, err := integrity.ParsePrivateKeyPEM(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return priv, nil
}

// LoadPublicKey reads a PKIX PEM public key.
func (s *Store) LoadPublicKey(path string) (ed25519.PublicKey, error) {
	data, err := s.read(path)
	if err != nil {
		return nil, err
	}
	pub, err := integrity.ParsePublicKeyPEM(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return pub, nil
}

// SaveKeyPair writes the private key with owner-only permissions and the public key
// world readable. Existing files are replaced.
func (s *Store) SaveKeyPair(dir string, pub ed25519.PublicKey, priv ed25519.PrivateKey) (string, string, error) {
	privPEM, err := integrity.EncodePrivateKeyPEM(priv)
	if err != nil {
		return "", "", zerr.Wrap(err, "cannot encode private key")
	}
	pubPEM, err := integrity.EncodePublicKeyPEM(pub)
	if err != nil {
		return "", "", zerr.Wrap(err, "cannot encode public key")
	}

	if err := s.fs.MkdirAll(dir, dirPerm); err != nil {
		return "", "", zerr.With(zerr.Wrap(errors.Join(domain.ErrKeyWriteFailed, err), "cannot create key directory"), "dir", dir)
	}

	privPath := filepath.Join(dir, PrivateKeyFile)
	pubPath := filepath.Join(dir, PublicKeyFile)
	if err := s.write(privPath, privPEM, privatePerm); err != nil {
		return "", "", err
	}
	if err := s.write(pubPath, pubPEM, publicPerm); err != nil {
		return "", "", err
	}
	return privPath, pubPath, nil
}

func (s *Store) read(path string) ([]byte, error) {
	if path == "" {
		return nil, zerr.Wrap(domain.ErrKeyMaterialMissing, "no key path configured")
	}
	data, err := afero.ReadFile(s.fs, path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, zerr.With(zerr.Wrap(domain.ErrKeyMaterialMissing, "key file does not exist"), "path", path)
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(errors.Join(domain.ErrKeyReadFailed, err), "cannot read key file"), "path", path)
	}
	return data, nil
}

func (s *Store) write(path string, data []byte, perm fs.FileMode) error {
	if err := wattfs.WriteFileAtomic(s.fs, path, data, perm); err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrKeyWriteFailed, err), "cannot write key file"), "path", path)
	}
	return nil
}
