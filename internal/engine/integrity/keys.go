package integrity

import (
	"crypto/ed25519"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"io"

	"go.trai.ch/watt/internal/core/domain"
	"go.trai.ch/zerr"
)

// PEM block types.
const (
	pemPrivateKey = "PRIVATE KEY"
	pemPublicKey  = "PUBLIC KEY"
)

// keyIDLength is the number of hex characters of the key digest used as a key ID.
const keyIDLength = 16

// GenerateKey creates a new Ed25519 key pair from rand.
func GenerateKey(rand io.Reader) (ed25519.PublicKey, ed25519.PrivateKey, error) {
	pub, priv, err := ed25519.GenerateKey(rand)
	if err != nil {
		return nil, nil, zerr.Wrap(err, "failed to generate key pair")
	}
	return pub, priv, nil
}

// KeyID returns the first 16 hex characters of the SHA-256 digest of pub.
func KeyID(pub ed25519.PublicKey) string {
	sum := sha256.Sum256(pub)
	return hex.EncodeToString(sum[:])[:keyIDLength]
}

// EncodePrivateKeyPEM encodes priv as a PKCS#8 PEM block.
func EncodePrivateKeyPEM(priv ed25519.PrivateKey) ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, errors.Join(domain.ErrKeyMaterialInvalid, err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: pemPrivateKey, Bytes: der}), nil
}

// EncodePublicKeyPEM encodes pub as a PKIX PEM block.
func EncodePublicKeyPEM(pub ed25519.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, errors.Join(domain.ErrKeyMaterialInvalid, err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: pemPublicKey, Bytes: der}), nil
}

// ParsePrivateKeyPEM decodes a PKCS#8 PEM encoded Ed25519 private key.
func ParsePrivateKeyPEM(data []byte) (ed25519.PrivateKey, error) {
	block, err := decodePEM(data, pemPrivateKey)
	if err != nil {
		return nil, err
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, zerr.Wrap(errors.Join(domain.ErrKeyMaterialInvalid, err), "failed to parse private key")
	}
	priv, ok := key.(ed25519.PrivateKey)
	if !ok {
		return nil, zerr.Wrap(domain.ErrUnsupportedAlgorithm, "private key is not ed25519")
	}
	return priv, nil
}

// ParsePublicKeyPEM decodes a PKIX PEM encoded Ed25519 public key.
func ParsePublicKeyPEM(data []byte) (ed25519.PublicKey, error) {
	block, err := decodePEM(data, pemPublicKey)
	if err != nil {
		return nil, err
	}
	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, zerr.Wrap(errors.Join(domain.ErrKeyMaterialInvalid, err), "failed to parse public key")
	}
	pub, ok := key.(ed25519.PublicKey)
	if !ok {
		return nil, zerr.Wrap(domain.ErrUnsupportedAlgorithm, "public key is not ed25519")
	}
	return pub, nil
}

func decodePEM(data []byte, blockType string) (*pem.Block, error) {
	if len(data) == 0 {
		return nil, zerr.Wrap(domain.ErrKeyMaterialMissing, "key data is empty")
	}
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, zerr.Wrap(domain.ErrKeyMaterialInvalid, "no PEM block found")
	}
	if block.Type != blockType {
		return nil, zerr.With(zerr.Wrap(domain.ErrKeyMaterialInvalid, "unexpected PEM block type"), "type", block.Type)
	}
	return block, nil
}
