// Package redaction trims bundles to what a tier may see.
package redaction

import (
	"go.trai.ch/watt/internal/core/domain"
	"go.trai.ch/zerr"
)

// Apply returns the view of b that tier may see. Guests get a copy without the audit
// trail. Every other tier gets b itself.
func Apply(b *domain.Bundle, tier domain.Tier) (*domain.Bundle, error) {
	switch tier {
	case domain.TierGuest:
		c := b.Clone()
		if c != nil {
			c.Steps = []domain.CalculationStep{}
		}
		return c, nil
	case domain.TierOne, domain.TierTwo, domain.TierThree:
		return b, nil
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownTier, "cannot redact bundle"), "tier", string(tier))
	}
}
