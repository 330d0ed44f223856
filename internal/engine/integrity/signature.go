package integrity

import (
	"crypto/ed25519"
	"errors"

	"go.trai.ch/watt/internal/core/domain"
	"go.trai.ch/zerr"
)

// SignManifest signs the ASCII bytes of the manifest checksum with priv.
func SignManifest(m domain.Manifest, priv ed25519.PrivateKey) (domain.Signature, error) {
	if len(priv) == 0 {
		return domain.Signature{}, zerr.Wrap(domain.ErrKeyMaterialMissing, "private key is empty")
	}
	if len(priv) != ed25519.PrivateKeySize {
		return domain.Signature{}, zerr.With(zerr.Wrap(domain.ErrKeyMaterialInvalid, "unexpected private key size"), "size", len(priv))
	}

	checksum, err := ComputeChecksum(m)
	if err != nil {
		return domain.Signature{}, errors.Join(domain.ErrSigningFailed, err)
	}

	pub, ok := priv.Public().(ed25519.PublicKey)
	if !ok {
		return domain.Signature{}, zerr.Wrap(domain.ErrKeyMaterialInvalid, "private key has no ed25519 public half")
	}

	return domain.Signature{
		Algorithm: domain.AlgorithmEd25519,
		KeyID:     KeyID(pub),
		Value:     ed25519.Sign(priv, []byte(checksum)),
	}, nil
}

// VerifySignature reports whether sig is a valid signature of m by pub.
//
// The checksum is always recomputed from content, so any mutation of m fails
// verification. A wrong key, a key ID mismatch or a corrupted signature yields false.
// Only malformed inputs are reported as errors.
func VerifySignature(m domain.Manifest, sig domain.Signature, pub ed25519.PublicKey) (bool, error) {
	if err := checkPublicKey(pub); err != nil {
		return false, err
	}
	if sig.Algorithm != domain.AlgorithmEd25519 {
		return false, zerr.With(zerr.Wrap(domain.ErrUnsupportedAlgorithm, "cannot verify signature"), "algorithm", sig.Algorithm)
	}

	checksum, err := ComputeChecksum(m)
	if err != nil {
		return false, err
	}

	if sig.KeyID != KeyID(pub) {
		return false, nil
	}
	if len(sig.Value) != ed25519.SignatureSize {
		return false, nil
	}
	return ed25519.Verify(pub, []byte(checksum), sig.Value), nil
}

// VerifyManifestIntegrity runs the checksum and signature checks and reports both.
// It never stops at the first failure.
func VerifyManifestIntegrity(
	m domain.Manifest,
	checksum domain.Checksum,
	sig domain.Signature,
	pub ed25519.PublicKey,
) domain.IntegrityReport {
	var report domain.IntegrityReport

	checksumOK, err := VerifyChecksum(m, checksum)
	switch {
	case err != nil:
		report.Errors = append(report.Errors, "checksum: "+err.Error())
	case !checksumOK:
		report.Errors = append(report.Errors, "checksum: does not match manifest content")
	default:
		report.ChecksumValid = true
	}

	signatureOK, err := VerifySignature(m, sig, pub)
	switch {
	case err != nil:
		report.Errors = append(report.Errors, "signature: "+err.Error())
	case !signatureOK:
		report.Errors = append(report.Errors, "signature: verification failed")
	default:
		report.SignatureValid = true
	}

	return report
}

func checkPublicKey(pub ed25519.PublicKey) error {
	if len(pub) == 0 {
		return zerr.Wrap(domain.ErrKeyMaterialMissing, "public key is empty")
	}
	if len(pub) != ed25519.PublicKeySize {
		return zerr.With(zerr.Wrap(domain.ErrKeyMaterialInvalid, "unexpected public key size"), "size", len(pub))
	}
	return nil
}
