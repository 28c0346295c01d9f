package models

type DiscountType string

const (
	DiscountPercentage  DiscountType = "PERCENTAGE"
	DiscountFixedAmount DiscountType = "FIXED_AMOUNT"
)

type Promotion struct {
	ID                int64        `json:"id"`
	Code              string       `json:"code"`
	Name              string       `json:"name"`
	Description       string       `json:"description,omitempty"`
	DiscountType      DiscountType `json:"discountType"`
	DiscountValue     float64      `json:"discountValue"`
	StartDate         string       `json:"startDate,omitempty"`
	EndDate           string       `json:"endDate,omitempty"`
	Active            bool         `json:"active"`
	MinPurchaseAmount float64      `json:"minPurchaseAmount,omitempty"`
	MaxDiscountAmount float64      `json:"maxDiscountAmount,omitempty"`
}

type ApplyPromotionRequest struct {
	Code string `json:"code" validate:"required,max=32"`
}
