package cart

import (
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/models"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/pricing"
)

func (c *Cart) Subtotal() float64 {
	var subtotal float64
	for _, line := range c.lines {
		subtotal += line.Subtotal
	}

	return subtotal
}

func (c *Cart) PromotionDiscount() float64 {
	if c.promotion == nil {
		return 0
	}

	return c.promotion.Discount
}

func (c *Cart) LoyaltyDiscount() float64 {
	return pricing.LoyaltyDiscount(c.Subtotal(), c.loyaltyCard)
}

// TotalDiscount stacks the promotion and loyalty tier discounts.
func (c *Cart) TotalDiscount() float64 {
	return c.PromotionDiscount() + c.LoyaltyDiscount()
}

func (c *Cart) TotalTax() float64 {
	_, total := pricing.AllocateTax(c.taxableLines(), c.TotalDiscount())
	return total
}

// LineTaxes returns the tax allocated to each line, in line order.
func (c *Cart) LineTaxes() []float64 {
	perLine, _ := pricing.AllocateTax(c.taxableLines(), c.TotalDiscount())
	return perLine
}

func (c *Cart) GrandTotal() float64 {
	return c.Subtotal() - c.TotalDiscount() + c.TotalTax()
}

func (c *Cart) CanUseLoyaltyWallet() bool {
	return c.loyaltyCard != nil && c.loyaltyCard.Active && c.loyaltyCard.WalletBalance > 0
}

// WalletAmountUsable is the part of amount the active card's wallet can cover.
func (c *Cart) WalletAmountUsable(amount float64) float64 {
	if c.loyaltyCard == nil || !c.loyaltyCard.Active {
		return 0
	}

	return pricing.WalletOffset(amount, c.loyaltyCard.WalletBalance)
}

// Totals computes every derived value from one read of the cart state.
func (c *Cart) Totals() models.CartTotals {
	subtotal := c.Subtotal()
	promotion := c.PromotionDiscount()
	loyalty := pricing.LoyaltyDiscount(subtotal, c.loyaltyCard)
	discount := promotion + loyalty
	_, tax := pricing.AllocateTax(c.taxableLines(), discount)

	return models.CartTotals{
		Subtotal:          subtotal,
		PromotionDiscount: promotion,
		LoyaltyDiscount:   loyalty,
		TotalDiscount:     discount,
		TaxableBase:       subtotal - discount,
		TotalTax:          tax,
		GrandTotal:        subtotal - discount + tax,
	}
}

func (c *Cart) taxableLines() []pricing.TaxableLine {
	lines := make([]pricing.TaxableLine, len(c.lines))
	for i, line := range c.lines {
		lines[i] = pricing.TaxableLine{Subtotal: line.Subtotal, TaxRate: line.Product.TaxRate}
	}

	return lines
}
