package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Tier is the access level a bundle is presented at.
type Tier string

// Known tiers.
const (
	TierGuest Tier = "guest"
	TierOne   Tier = "tier1"
	TierTwo   Tier = "tier2"
	TierThree Tier = "tier3"
)

// Tiers lists every known tier from least to most privileged.
var Tiers = []Tier{TierGuest, TierOne, TierTwo, TierThree}

// ParseTier parses a tier name case-insensitively.
func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	if !t.Known() {
		return "", zerr.With(zerr.Wrap(ErrUnknownTier, "cannot parse tier"), "tier", s)
	}
	return t, nil
}

// Known reports whether t is one of the defined tiers.
func (t Tier) Known() bool {
	switch t {
	case TierGuest, TierOne, TierTwo, TierThree:
		return true
	default:
		return false
	}
}
