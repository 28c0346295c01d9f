package pricing

import (
	"errors"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/dutyfree-pos/internal/models"
	"github.com/shopspring/decimal"
)

var (
	ErrPromotionInactive     = errors.New("promotion is not active")
	ErrPromotionNotStarted   = errors.New("promotion has not started yet")
	ErrPromotionExpired      = errors.New("promotion has expired")
	ErrPromotionMinPurchase  = errors.New("cart subtotal is below the promotion minimum")
	ErrPromotionUnsupported  = errors.New("unsupported promotion discount type")
	ErrPromotionInvalidValue = errors.New("promotion discount value is invalid")
)

const promotionDateLayout = "2006-01-02"

var hundred = decimal.NewFromInt(100)

// ResolveDiscount turns a promotion into the absolute discount it grants on
// subtotal at time now. Start and end dates are inclusive calendar days.
func ResolveDiscount(promo models.Promotion, subtotal float64, now time.Time) (float64, error) {
	if !promo.Active {
		return 0, ErrPromotionInactive
	}

	today := now.Format(promotionDateLayout)

	if start := datePart(promo.StartDate); start != "" && today < start {
		return 0, ErrPromotionNotStarted
	}

	if end := datePart(promo.EndDate); end != "" && today > end {
		return 0, ErrPromotionExpired
	}

	if promo.MinPurchaseAmount > 0 && subtotal < promo.MinPurchaseAmount {
		return 0, fmt.Errorf("%w: minimum %.2f", ErrPromotionMinPurchase, promo.MinPurchaseAmount)
	}

	if promo.DiscountValue <= 0 {
		return 0, ErrPromotionInvalidValue
	}

	var discount decimal.Decimal

	switch promo.DiscountType {
	case models.DiscountPercentage:
		if promo.DiscountValue > 100 {
			return 0, ErrPromotionInvalidValue
		}
		discount = decimal.NewFromFloat(subtotal).Mul(decimal.NewFromFloat(promo.DiscountValue)).Div(hundred)
	case models.DiscountFixedAmount:
		discount = decimal.NewFromFloat(promo.DiscountValue)
	default:
		return 0, fmt.Errorf("%w: %q", ErrPromotionUnsupported, promo.DiscountType)
	}

	if promo.MaxDiscountAmount > 0 {
		discount = decimal.Min(discount, decimal.NewFromFloat(promo.MaxDiscountAmount))
	}

	return discount.InexactFloat64(), nil
}

// dates arrive either as "2006-01-02" or as full ISO timestamps
func datePart(value string) string {
	if len(value) > len(promotionDateLayout) {
		return value[:len(promotionDateLayout)]
	}

	return value
}
