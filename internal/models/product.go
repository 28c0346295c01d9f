package models

type Product struct {
	ID              int64   `json:"id"`
	SKU             string  `json:"sku"`
	NameFr          string  `json:"nameFr"`
	NameEn          string  `json:"nameEn"`
	Barcode         string  `json:"barcode,omitempty"`
	CategoryID      int64   `json:"categoryId"`
	CategoryName    string  `json:"categoryName,omitempty"`
	SellingPriceXOF float64 `json:"sellingPriceXOF"`
	SellingPriceEUR float64 `json:"sellingPriceEUR,omitempty"`
	SellingPriceUSD float64 `json:"sellingPriceUSD,omitempty"`
	TaxRate         float64 `json:"taxRate"`
	Active          bool    `json:"active"`
	TrackStock      bool    `json:"trackStock"`
	CurrentStock    int64   `json:"currentStock"`
	Unit            string  `json:"unit,omitempty"`
}

// ScanItemRequest carries a scanned barcode or a typed SKU.
type ScanItemRequest struct {
	Code     string `json:"code" validate:"required,max=64"`
	Quantity int    `json:"quantity" validate:"omitempty,min=1"`
}

type AddProductRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"omitempty,min=1"`
}

// Quantity may be zero or negative: both remove the line.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}
