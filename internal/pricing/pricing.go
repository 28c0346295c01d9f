// Package pricing holds the pure pricing rules applied to a register cart:
// loyalty tier discounts, proportional tax allocation, loyalty point accrual
// and wallet offsets.
package pricing

import (
	"math"

	"github.com/aaravmahajanofficial/dutyfree-pos/internal/models"
)

// PointsPerCurrencyUnit is the spend, in settlement currency, that earns one
// loyalty point.
const PointsPerCurrencyUnit = 100

var tierDiscountPercent = map[models.Tier]float64{
	models.TierBronze:   0,
	models.TierSilver:   5,
	models.TierGold:     10,
	models.TierPlatinum: 15,
}

// TaxableLine is the slice of a cart line the tax allocation needs.
type TaxableLine struct {
	Subtotal float64
	TaxRate  float64
}

// TierDiscountPercent returns the discount percentage for a loyalty tier.
// Unknown tiers earn nothing.
func TierDiscountPercent(tier models.Tier) float64 {
	return tierDiscountPercent[tier]
}

// LoyaltyDiscount is the tier discount on subtotal. Inactive or missing cards
// earn nothing.
func LoyaltyDiscount(subtotal float64, card *models.LoyaltyCard) float64 {
	if card == nil || !card.Active {
		return 0
	}

	return subtotal * TierDiscountPercent(card.TierLevel) / 100
}

// AllocateTax spreads the taxable base (subtotal - discount) across lines in
// proportion to each line's share of the pre-discount subtotal, then applies
// each line's own tax rate. The base is not floored at zero, so a discount
// larger than the subtotal produces negative tax.
func AllocateTax(lines []TaxableLine, discount float64) ([]float64, float64) {
	var subtotal float64
	for _, line := range lines {
		subtotal += line.Subtotal
	}

	taxableBase := subtotal - discount
	perLine := make([]float64, len(lines))

	var total float64
	for i, line := range lines {
		if subtotal == 0 {
			continue
		}

		share := (line.Subtotal / subtotal) * taxableBase
		perLine[i] = share * line.TaxRate / 100
		total += perLine[i]
	}

	return perLine, total
}

// PointsEarned returns the loyalty points accrued on a pre-discount,
// pre-tax subtotal.
func PointsEarned(subtotal float64) int64 {
	if subtotal <= 0 {
		return 0
	}

	return int64(math.Floor(subtotal / PointsPerCurrencyUnit))
}

// WalletOffset is the part of amount a wallet balance can cover.
func WalletOffset(amount, balance float64) float64 {
	if amount <= 0 || balance <= 0 {
		return 0
	}

	return math.Min(amount, balance)
}
