package domain

import "go.trai.ch/zerr"

// ChecksumLength is the length of a hex encoded SHA-256 checksum.
const ChecksumLength = 64

// AlgorithmEd25519 is the only signature algorithm watt produces and accepts.
const AlgorithmEd25519 = "ed25519"

// Checksum is the lowercase hex SHA-256 digest of a canonical manifest.
type Checksum string

// String returns the digest as a string.
func (c Checksum) String() string {
	return string(c)
}

// Validate reports whether the checksum has the shape of a hex SHA-256 digest.
func (c Checksum) Validate() error {
	if len(c) != ChecksumLength {
		return zerr.With(zerr.Wrap(ErrChecksumMalformed, "unexpected length"), "length", len(c))
	}
	for i := range len(c) {
		ch := c[i]
		if (ch < '0' || ch > '9') && (ch < 'a' || ch > 'f') {
			return zerr.With(zerr.Wrap(ErrChecksumMalformed, "non hex character"), "position", i)
		}
	}
	return nil
}

// Signature is a detached signature over a manifest checksum.
// KeyID binds the signature to the public key that is expected to verify it.
type Signature struct {
	Algorithm string `json:"algorithm"`
	KeyID     string `json:"keyId"`
	Value     []byte `json:"value"`
}

// Envelope is the persisted trust record for one plugin.
type Envelope struct {
	PluginID  string    `json:"pluginId"`
	Version   string    `json:"version"`
	Checksum  Checksum  `json:"checksum"`
	Signature Signature `json:"signature"`
}

// IntegrityReport is the outcome of running every integrity check on a manifest.
type IntegrityReport struct {
	ChecksumValid  bool     `json:"checksumValid"`
	SignatureValid bool     `json:"signatureValid"`
	Errors         []string `json:"errors,omitempty"`
}

// Valid reports whether both checks passed.
func (r IntegrityReport) Valid() bool {
	return r.ChecksumValid && r.SignatureValid
}

// FailedChecks names the checks that did not pass, in a fixed order.
func (r IntegrityReport) FailedChecks() []string {
	var failed []string
	if !r.ChecksumValid {
		failed = append(failed, "checksum")
	}
	if !r.SignatureValid {
		failed = append(failed, "signature")
	}
	return failed
}
