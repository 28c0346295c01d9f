// Package mocks holds a testify mock of the back-office client.
package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/dutyfree-pos/internal/models"
	"github.com/stretchr/testify/mock"
)

type Client struct {
	mock.Mock
}

func (m *Client) CreateSale(ctx context.Context, token string, req *models.CreateSaleRequest) (*models.Sale, error) {
	args := m.Called(ctx, token, req)

	sale, _ := args.Get(0).(*models.Sale)

	return sale, args.Error(1)
}

func (m *Client) GetProduct(ctx context.Context, token string, id int64) (*models.Product, error) {
	args := m.Called(ctx, token, id)

	return product(args)
}

func (m *Client) GetProductByBarcode(ctx context.Context, token string, barcode string) (*models.Product, error) {
	args := m.Called(ctx, token, barcode)

	return product(args)
}

func (m *Client) GetProductBySKU(ctx context.Context, token string, sku string) (*models.Product, error) {
	args := m.Called(ctx, token, sku)

	return product(args)
}

func (m *Client) GetLoyaltyCardByCustomer(ctx context.Context, token string, customerID int64) (*models.LoyaltyCard, error) {
	args := m.Called(ctx, token, customerID)

	return card(args)
}

func (m *Client) DeductFromWallet(ctx context.Context, token string, cardNumber string, amount float64) (*models.LoyaltyCard, error) {
	args := m.Called(ctx, token, cardNumber, amount)

	return card(args)
}

func (m *Client) AddPoints(ctx context.Context, token string, cardNumber string, points int64) (*models.LoyaltyCard, error) {
	args := m.Called(ctx, token, cardNumber, points)

	return card(args)
}

func (m *Client) GetPromotionByCode(ctx context.Context, token string, code string) (*models.Promotion, error) {
	args := m.Called(ctx, token, code)

	promo, _ := args.Get(0).(*models.Promotion)

	return promo, args.Error(1)
}

func (m *Client) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func product(args mock.Arguments) (*models.Product, error) {
	p, _ := args.Get(0).(*models.Product)

	return p, args.Error(1)
}

func card(args mock.Arguments) (*models.LoyaltyCard, error) {
	c, _ := args.Get(0).(*models.LoyaltyCard)

	return c, args.Error(1)
}
