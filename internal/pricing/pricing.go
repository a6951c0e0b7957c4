// Package pricing implements the tiered-discount pricing engine and the
// distributor wholesale path. Everything here is pure: the same actor
// snapshot always yields the same price, no matter which surface (shop,
// academy, membership, checkout) asks.
package pricing

import (
	"math"

	"queentouch/internal/models"
)

// Discount fractions by role and tier. These are mutually exclusive, not
// additive: resolution stops at the first match.
const (
	privilegedDiscount = 0.50 // admin and distributor display pricing
	goldDiscount       = 0.20
	silverDiscount     = 0.10
	bronzeDiscount     = 0.05

	// wholesaleMultiplier is the distributor checkout price factor (40% off).
	// It is a separate pricing mode, not a variant of the tiered discount.
	wholesaleMultiplier = 0.60
)

// Discount resolves the tiered discount fraction and a human-readable label
// for the given actor. A nil actor is a guest and gets no discount.
func Discount(actor *models.Actor) (float64, string) {
	if actor == nil {
		return 0, ""
	}
	if actor.IsAdmin || actor.Role == models.RoleAdmin || actor.Role == models.RoleDistributor {
		return privilegedDiscount, "50% OFF"
	}
	switch actor.Tier {
	case models.TierGold:
		return goldDiscount, "Gold 20% OFF"
	case models.TierSilver:
		return silverDiscount, "Silver 10% OFF"
	case models.TierBronze:
		return bronzeDiscount, "Bronze 5% OFF"
	}
	return 0, ""
}

// Price applies the actor's tiered discount to a base price and rounds to
// the nearest whole peso. Non-positive base prices are rejected.
func Price(base int64, actor *models.Actor) (int64, error) {
	if base <= 0 {
		return 0, models.NewInvalidPriceError("base price must be positive")
	}
	fraction, _ := Discount(actor)
	return round(float64(base) * (1 - fraction)), nil
}

// WholesalePrice computes the distributor checkout price: a flat 40% off the
// base price. Coupons and tier discounts never apply on top of it.
func WholesalePrice(base int64) (int64, error) {
	if base <= 0 {
		return 0, models.NewInvalidPriceError("base price must be positive")
	}
	return round(float64(base) * wholesaleMultiplier), nil
}

func round(v float64) int64 {
	return int64(math.Round(v))
}
