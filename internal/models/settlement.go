package models

import (
	"time"

	"github.com/google/uuid"
)

type SettlementOperation string

const (
	SettlementWalletDeduct SettlementOperation = "wallet_deduct"
	SettlementPointsAdd    SettlementOperation = "points_add"
)

// SettlementWarning records a loyalty follow-up that failed after its sale
// was already created. Amount is the wallet amount or the number of points.
type SettlementWarning struct {
	ID         uuid.UUID           `json:"id"`
	SaleNumber string              `json:"saleNumber"`
	CardNumber string              `json:"cardNumber"`
	Operation  SettlementOperation `json:"operation"`
	Amount     float64             `json:"amount"`
	Reason     string              `json:"reason"`
	Resolved   bool                `json:"resolved"`
	CreatedAt  time.Time           `json:"createdAt"`
	ResolvedAt *time.Time          `json:"resolvedAt,omitempty"`
}
