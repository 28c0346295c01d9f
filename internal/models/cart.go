package models

type CartLineView struct {
	ProductID int64   `json:"productId"`
	SKU       string  `json:"sku"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	TaxRate   float64 `json:"taxRate"`
	Subtotal  float64 `json:"subtotal"`
	TaxAmount float64 `json:"taxAmount"`
}

type CartTotals struct {
	Subtotal          float64 `json:"subtotal"`
	PromotionDiscount float64 `json:"promotionDiscount"`
	LoyaltyDiscount   float64 `json:"loyaltyDiscount"`
	TotalDiscount     float64 `json:"totalDiscount"`
	TaxableBase       float64 `json:"taxableBase"`
	TotalTax          float64 `json:"totalTax"`
	GrandTotal        float64 `json:"grandTotal"`
}

// CartResponse is the register-facing projection of a session cart.
type CartResponse struct {
	Lines              []CartLineView `json:"lines"`
	CustomerID         *int64         `json:"customerId,omitempty"`
	LoyaltyCard        *LoyaltyCard   `json:"loyaltyCard,omitempty"`
	PromotionCode      string         `json:"promotionCode,omitempty"`
	Totals             CartTotals     `json:"totals"`
	CanUseWallet       bool           `json:"canUseWallet"`
	PointsOnCompletion int64          `json:"pointsOnCompletion"`
}

type CheckoutRequest struct {
	PaymentMethod    PaymentMethod `json:"paymentMethod" validate:"omitempty,oneof=CASH CARD MOBILE_MONEY MIXED"`
	Currency         Currency      `json:"currency" validate:"omitempty,oneof=XOF EUR USD"`
	UseLoyaltyWallet bool          `json:"useLoyaltyWallet"`
	Notes            string        `json:"notes" validate:"max=500"`
}

type CheckoutResponse struct {
	Sale             *Sale               `json:"sale"`
	AmountPaid       float64             `json:"amountPaid"`
	WalletAmountUsed float64             `json:"walletAmountUsed"`
	PointsAdded      int64               `json:"pointsAdded"`
	Warnings         []SettlementWarning `json:"warnings,omitempty"`
}
