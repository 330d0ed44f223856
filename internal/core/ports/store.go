package ports

import "go.trai.ch/watt/internal/core/domain"

// TrustStore defines the interface for storing and retrieving plugin envelopes.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type TrustStore interface {
	// Get retrieves the envelope for a plugin id.
	// Returns nil, nil if not found.
	Get(pluginID string) (*domain.Envelope, error)

	// Put stores the envelope, replacing any previous one for the same plugin.
	Put(envelope domain.Envelope) error
}

// TrustStoreOpener opens the trust store kept in a directory.
type TrustStoreOpener func(dir string) TrustStore
