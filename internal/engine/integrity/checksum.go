package integrity

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"go.trai.ch/watt/internal/core/domain"
)

// ComputeChecksum returns the lowercase hex SHA-256 digest of the canonical manifest.
func ComputeChecksum(m domain.Manifest) (domain.Checksum, error) {
	canonical, err := Canonicalize(m)
	if err != nil {
		return "", err
	}
	return checksumOf(canonical), nil
}

// ChecksumDocument computes the checksum of a raw JSON or YAML manifest document.
func ChecksumDocument(raw []byte) (domain.Checksum, error) {
	canonical, err := CanonicalizeDocument(raw)
	if err != nil {
		return "", err
	}
	return checksumOf(canonical), nil
}

// VerifyChecksum recomputes the manifest checksum and compares it with digest in constant time.
// A malformed digest compares false. An invalid manifest is an error.
func VerifyChecksum(m domain.Manifest, digest domain.Checksum) (bool, error) {
	actual, err := ComputeChecksum(m)
	if err != nil {
		return false, err
	}
	if digest.Validate() != nil {
		return false, nil
	}
	return subtle.ConstantTimeCompare([]byte(actual), []byte(digest)) == 1, nil
}

func checksumOf(canonical []byte) domain.Checksum {
	sum := sha256.Sum256(canonical)
	return domain.Checksum(hex.EncodeToString(sum[:]))
}
