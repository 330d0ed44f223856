package ports

import "crypto/ed25519"

// KeyStore loads and saves PEM encoded signing keys.
//
//go:generate mockgen -source=keystore.go -destination=mocks/mock_keystore.go -package=mocks
type KeyStore interface {
	LoadPrivateKey(path string) (ed25519.PrivateKey, error)
	LoadPublicKey(path string) (ed25519.PublicKey, error)
	// SaveKeyPair writes watt.key and watt.pub into dir and returns their paths.
	SaveKeyPair(dir string, pub ed25519.PublicKey, priv ed25519.PrivateKey) (privPath, pubPath string, err error)
}
