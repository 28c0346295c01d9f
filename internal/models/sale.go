package models

type PaymentMethod string

type Currency string

type SaleStatus string

const (
	PaymentMethodCash        PaymentMethod = "CASH"
	PaymentMethodCard        PaymentMethod = "CARD"
	PaymentMethodMobileMoney PaymentMethod = "MOBILE_MONEY"
	PaymentMethodMixed       PaymentMethod = "MIXED"

	CurrencyXOF Currency = "XOF"
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"

	SaleStatusPending   SaleStatus = "PENDING"
	SaleStatusCompleted SaleStatus = "COMPLETED"
	SaleStatusCancelled SaleStatus = "CANCELLED"
)

// CreateSaleRequest is the body of POST /sales on the back-office API.
type CreateSaleRequest struct {
	CustomerID     *int64                  `json:"customerId,omitempty"`
	CashRegisterID int64                   `json:"cashRegisterId"`
	Items          []CreateSaleItemRequest `json:"items"`
	Payments       []CreatePaymentRequest  `json:"payments"`
	Notes          string                  `json:"notes,omitempty"`
}

type CreateSaleItemRequest struct {
	ProductID int64   `json:"productId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

type CreatePaymentRequest struct {
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Amount        float64       `json:"amount"`
	Currency      Currency      `json:"currency"`
}

type Sale struct {
	ID                 int64      `json:"id"`
	SaleNumber         string     `json:"saleNumber"`
	SaleDate           string     `json:"saleDate,omitempty"`
	CashierName        string     `json:"cashierName,omitempty"`
	CustomerName       string     `json:"customerName,omitempty"`
	CashRegisterNumber string     `json:"cashRegisterNumber,omitempty"`
	Status             SaleStatus `json:"status"`
	Subtotal           float64    `json:"subtotal"`
	Discount           float64    `json:"discount"`
	TaxAmount          float64    `json:"taxAmount"`
	TotalAmount        float64    `json:"totalAmount"`
	Items              []SaleItem `json:"items,omitempty"`
	Payments           []Payment  `json:"payments,omitempty"`
	ReceiptNumber      string     `json:"receiptNumber,omitempty"`
}

type SaleItem struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Discount    float64 `json:"discount"`
	TaxRate     float64 `json:"taxRate"`
	TaxAmount   float64 `json:"taxAmount"`
	TotalPrice  float64 `json:"totalPrice"`
}

type Payment struct {
	ID                   int64         `json:"id"`
	PaymentMethod        PaymentMethod `json:"paymentMethod"`
	Amount               float64       `json:"amount"`
	Currency             Currency      `json:"currency"`
	TransactionReference string        `json:"transactionReference,omitempty"`
}
