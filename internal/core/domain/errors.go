package domain

import "go.trai.ch/zerr"

var (
	// ErrManifestInvalid is returned when a manifest is missing a required field or carries a malformed value.
	ErrManifestInvalid = zerr.New("manifest is invalid")

	// ErrInvalidInputs is returned when calculation inputs fail a plugin's validation.
	ErrInvalidInputs = zerr.New("calculation inputs are invalid")

	// ErrChecksumMalformed is returned when a checksum is not a 64 character lowercase hex digest.
	ErrChecksumMalformed = zerr.New("checksum is malformed")

	// ErrKeyMaterialMissing is returned when a signing or verification key is absent.
	ErrKeyMaterialMissing = zerr.New("key material is missing")

	// ErrKeyMaterialInvalid is returned when key material cannot be decoded or has the wrong size.
	ErrKeyMaterialInvalid = zerr.New("key material is invalid")

	// ErrUnsupportedAlgorithm is returned when a signature names an algorithm other than ed25519.
	ErrUnsupportedAlgorithm = zerr.New("unsupported signature algorithm")

	// ErrSigningFailed is returned when a manifest cannot be signed.
	ErrSigningFailed = zerr.New("failed to sign manifest")

	// ErrIntegrityCheckFailed is returned when a plugin manifest fails checksum or signature verification.
	ErrIntegrityCheckFailed = zerr.New("plugin integrity check failed")

	// ErrDuplicatePlugin is returned when a plugin id is registered twice.
	ErrDuplicatePlugin = zerr.New("plugin already registered")

	// ErrPluginNotFound is returned when a plugin id is not registered.
	ErrPluginNotFound = zerr.New("plugin not found")

	// ErrPluginNotReady is returned when a plugin has not completed admission.
	ErrPluginNotReady = zerr.New("plugin is not ready")

	// ErrPluginLoadFailed is returned when a plugin's load hook fails.
	ErrPluginLoadFailed = zerr.New("plugin failed to load")

	// ErrMissingTables is returned when a plugin requires tables that are not available.
	ErrMissingTables = zerr.New("required tables are missing")

	// ErrTableNotFound is returned when a reference table does not exist in storage.
	ErrTableNotFound = zerr.New("table not found")

	// ErrTableReadFailed is returned when a table file exists but cannot be read.
	ErrTableReadFailed = zerr.New("failed to read table")

	// ErrTableParseFailed is returned when a table file cannot be decoded.
	ErrTableParseFailed = zerr.New("failed to parse table")

	// ErrTableInvalid is returned when a decoded table breaks a structural rule.
	ErrTableInvalid = zerr.New("table is invalid")

	// ErrTableValueMissing is returned when an evaluator asks a table for a value it does not define.
	ErrTableValueMissing = zerr.New("table value missing")

	// ErrNoTableRequirements is returned when no registered plugin needs tables for a code.
	// It is always joined with ErrTableNotFound.
	ErrNoTableRequirements = zerr.New("no registered plugin requires tables for code")

	// ErrCalculationFailed is returned when an evaluator faults during a calculation run.
	ErrCalculationFailed = zerr.New("calculation failed")

	// ErrPipelineInvalid is returned when an evaluator pipeline is declared incorrectly.
	ErrPipelineInvalid = zerr.New("evaluator pipeline is invalid")

	// ErrUnknownTier is returned when a redaction tier is not recognised.
	ErrUnknownTier = zerr.New("unknown tier")

	// ErrStoreCreateFailed is returned when the trust store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create trust store directory")

	// ErrStoreReadFailed is returned when an envelope cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read envelope")

	// ErrStoreUnmarshalFailed is returned when an envelope cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal envelope")

	// ErrStoreMarshalFailed is returned when an envelope cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal envelope")

	// ErrStoreWriteFailed is returned when an envelope cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write envelope")

	// ErrKeyReadFailed is returned when a key file cannot be read.
	ErrKeyReadFailed = zerr.New("failed to read key file")

	// ErrKeyWriteFailed is returned when a key file cannot be written.
	ErrKeyWriteFailed = zerr.New("failed to write key file")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidTier is returned when the configured default tier is not recognised.
	ErrInvalidTier = zerr.New("invalid tier, expected one of guest, tier1, tier2, tier3")

	// ErrInputDecodeFailed is returned when a calculation input document cannot be decoded.
	ErrInputDecodeFailed = zerr.New("failed to decode calculation inputs")

	// ErrEncodeFailed is returned when a bundle cannot be encoded in the requested format.
	ErrEncodeFailed = zerr.New("failed to encode bundle")

	// ErrUnknownFormat is returned when an output format is not supported.
	ErrUnknownFormat = zerr.New("unknown output format")
)
