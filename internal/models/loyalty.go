package models

import "time"

type Tier string

const (
	TierBronze   Tier = "BRONZE"
	TierSilver   Tier = "SILVER"
	TierGold     Tier = "GOLD"
	TierPlatinum Tier = "PLATINUM"
)

const expiryDateLayout = "2006-01-02"

type LoyaltyCard struct {
	ID            int64   `json:"id"`
	CardNumber    string  `json:"cardNumber"`
	CustomerID    int64   `json:"customerId"`
	CustomerName  string  `json:"customerName,omitempty"`
	Points        int64   `json:"points"`
	WalletBalance float64 `json:"walletBalance"`
	TierLevel     Tier    `json:"tierLevel"`
	ExpiryDate    string  `json:"expiryDate,omitempty"`
	Active        bool    `json:"active"`
	LastUsedDate  string  `json:"lastUsedDate,omitempty"`
}

// ExpiredAt reports whether the card expiry date lies before now. Cards with
// no parseable expiry date never expire.
func (c *LoyaltyCard) ExpiredAt(now time.Time) bool {
	if c == nil || c.ExpiryDate == "" {
		return false
	}

	raw := c.ExpiryDate
	if len(raw) > len(expiryDateLayout) {
		raw = raw[:len(expiryDateLayout)]
	}

	expiry, err := time.Parse(expiryDateLayout, raw)
	if err != nil {
		return false
	}

	return expiry.AddDate(0, 0, 1).Before(now)
}

type SelectCustomerRequest struct {
	CustomerID *int64 `json:"customerId" validate:"omitempty,gt=0"`
}
