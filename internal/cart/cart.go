// Package cart implements the in-memory register cart: line items, the active
// customer and loyalty card, and at most one promotion. Every derived value
// is recomputed from current state on read.
package cart

import "github.com/aaravmahajanofficial/dutyfree-pos/internal/models"

type Line struct {
	Product   models.Product
	Quantity  int
	UnitPrice float64
	Subtotal  float64
}

type Promotion struct {
	Code     string  `json:"code"`
	Discount float64 `json:"discount"`
}

// Cart is not safe for concurrent use; callers serialise access per session.
type Cart struct {
	lines       []Line
	customerID  *int64
	loyaltyCard *models.LoyaltyCard
	promotion   *Promotion
}

func New() *Cart {
	return &Cart{}
}

// AddItem increments the line for product.ID or appends a new one priced at
// the product's selling price. A quantity below 1 adds a single unit.
func (c *Cart) AddItem(product models.Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	if i := c.indexOf(product.ID); i >= 0 {
		line := &c.lines[i]
		line.Quantity += quantity
		line.Subtotal = float64(line.Quantity) * line.UnitPrice
		return
	}

	c.lines = append(c.lines, Line{
		Product:   product,
		Quantity:  quantity,
		UnitPrice: product.SellingPriceXOF,
		Subtotal:  product.SellingPriceXOF * float64(quantity),
	})
}

func (c *Cart) RemoveItem(productID int64) {
	i := c.indexOf(productID)
	if i < 0 {
		return
	}

	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

// UpdateQuantity sets the quantity of an existing line; zero or negative
// removes it. Unknown products are ignored.
func (c *Cart) UpdateQuantity(productID int64, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return
	}

	i := c.indexOf(productID)
	if i < 0 {
		return
	}

	line := &c.lines[i]
	line.Quantity = quantity
	line.Subtotal = float64(quantity) * line.UnitPrice
}

func (c *Cart) Clear() {
	c.lines = nil
	c.customerID = nil
	c.loyaltyCard = nil
	c.promotion = nil
}

func (c *Cart) SetCustomer(customerID *int64) {
	if customerID == nil {
		c.customerID = nil
		return
	}

	id := *customerID
	c.customerID = &id
}

func (c *Cart) CustomerID() *int64 {
	if c.customerID == nil {
		return nil
	}

	id := *c.customerID
	return &id
}

// SetLoyaltyCard replaces the loyalty projection wholesale. Expiry is not
// checked here.
func (c *Cart) SetLoyaltyCard(card *models.LoyaltyCard) {
	if card == nil {
		c.loyaltyCard = nil
		return
	}

	copied := *card
	c.loyaltyCard = &copied
}

func (c *Cart) LoyaltyCard() *models.LoyaltyCard {
	if c.loyaltyCard == nil {
		return nil
	}

	copied := *c.loyaltyCard
	return &copied
}

// ApplyPromotion stores an already-resolved absolute discount, replacing any
// promotion applied before. Negative discounts are stored as zero.
func (c *Cart) ApplyPromotion(code string, discount float64) {
	if discount < 0 {
		discount = 0
	}

	c.promotion = &Promotion{Code: code, Discount: discount}
}

func (c *Cart) RemovePromotion() {
	c.promotion = nil
}

func (c *Cart) Promotion() (Promotion, bool) {
	if c.promotion == nil {
		return Promotion{}, false
	}

	return *c.promotion, true
}

func (c *Cart) Lines() []Line {
	lines := make([]Line, len(c.lines))
	copy(lines, c.lines)

	return lines
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) indexOf(productID int64) int {
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			return i
		}
	}

	return -1
}
