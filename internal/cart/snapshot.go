package cart

import "github.com/aaravmahajanofficial/dutyfree-pos/internal/models"

// Snapshot is the persisted form of a Cart.
type Snapshot struct {
	Lines       []SnapshotLine      `json:"lines"`
	CustomerID  *int64              `json:"customerId,omitempty"`
	LoyaltyCard *models.LoyaltyCard `json:"loyaltyCard,omitempty"`
	Promotion   *Promotion          `json:"promotion,omitempty"`
}

type SnapshotLine struct {
	Product   models.Product `json:"product"`
	Quantity  int            `json:"quantity"`
	UnitPrice float64        `json:"unitPrice"`
}

func (c *Cart) Snapshot() Snapshot {
	snap := Snapshot{
		Lines:       make([]SnapshotLine, len(c.lines)),
		CustomerID:  c.CustomerID(),
		LoyaltyCard: c.LoyaltyCard(),
	}

	for i, line := range c.lines {
		snap.Lines[i] = SnapshotLine{Product: line.Product, Quantity: line.Quantity, UnitPrice: line.UnitPrice}
	}

	if c.promotion != nil {
		promo := *c.promotion
		snap.Promotion = &promo
	}

	return snap
}

// FromSnapshot rebuilds a cart. Line subtotals are recomputed and lines with
// a non-positive quantity are dropped.
func FromSnapshot(snap Snapshot) *Cart {
	c := New()

	for _, line := range snap.Lines {
		if line.Quantity <= 0 {
			continue
		}

		c.lines = append(c.lines, Line{
			Product:   line.Product,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  float64(line.Quantity) * line.UnitPrice,
		})
	}

	c.SetCustomer(snap.CustomerID)
	c.SetLoyaltyCard(snap.LoyaltyCard)

	if snap.Promotion != nil {
		c.ApplyPromotion(snap.Promotion.Code, snap.Promotion.Discount)
	}

	return c
}
