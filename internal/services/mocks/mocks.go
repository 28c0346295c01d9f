// Package mocks holds testify mocks for the service interfaces.
package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/dutyfree-pos/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type CartService struct {
	mock.Mock
}

func (m *CartService) cart(args mock.Arguments) (*models.CartResponse, error) {
	c, _ := args.Get(0).(*models.CartResponse)

	return c, args.Error(1)
}

func (m *CartService) GetCart(ctx context.Context, session models.Session) (*models.CartResponse, error) {
	return m.cart(m.Called(ctx, session))
}

func (m *CartService) ScanItem(ctx context.Context, session models.Session, req *models.ScanItemRequest) (*models.CartResponse, error) {
	return m.cart(m.Called(ctx, session, req))
}

func (m *CartService) AddProduct(ctx context.Context, session models.Session, req *models.AddProductRequest) (*models.CartResponse, error) {
	return m.cart(m.Called(ctx, session, req))
}

func (m *CartService) UpdateQuantity(ctx context.Context, session models.Session, productID int64, quantity int) (*models.CartResponse, error) {
	return m.cart(m.Called(ctx, session, productID, quantity))
}

func (m *CartService) RemoveItem(ctx context.Context, session models.Session, productID int64) (*models.CartResponse, error) {
	return m.cart(m.Called(ctx, session, productID))
}

func (m *CartService) ClearCart(ctx context.Context, session models.Session) (*models.CartResponse, error) {
	return m.cart(m.Called(ctx, session))
}

func (m *CartService) ApplyPromotion(ctx context.Context, session models.Session, req *models.ApplyPromotionRequest) (*models.CartResponse, error) {
	return m.cart(m.Called(ctx, session, req))
}

func (m *CartService) RemovePromotion(ctx context.Context, session models.Session) (*models.CartResponse, error) {
	return m.cart(m.Called(ctx, session))
}

func (m *CartService) SelectCustomer(ctx context.Context, session models.Session, req *models.SelectCustomerRequest) (*models.CartResponse, error) {
	return m.cart(m.Called(ctx, session, req))
}

type CheckoutService struct {
	mock.Mock
}

func (m *CheckoutService) CompleteSale(ctx context.Context, session models.Session, req *models.CheckoutRequest) (*models.CheckoutResponse, error) {
	args := m.Called(ctx, session, req)

	resp, _ := args.Get(0).(*models.CheckoutResponse)

	return resp, args.Error(1)
}

type SettlementService struct {
	mock.Mock
}

func (m *SettlementService) ListOpen(ctx context.Context, limit int) (*models.PaginatedResponse, error) {
	args := m.Called(ctx, limit)

	resp, _ := args.Get(0).(*models.PaginatedResponse)

	return resp, args.Error(1)
}

func (m *SettlementService) Retry(ctx context.Context, session models.Session, id uuid.UUID) (*models.SettlementWarning, error) {
	args := m.Called(ctx, session, id)

	w, _ := args.Get(0).(*models.SettlementWarning)

	return w, args.Error(1)
}

type NotificationService struct {
	mock.Mock
}

func (m *NotificationService) NotifySettlementWarning(ctx context.Context, session models.Session, warning *models.SettlementWarning) error {
	return m.Called(ctx, session, warning).Error(0)
}

type PromotionResolver struct {
	mock.Mock
}

func (m *PromotionResolver) Resolve(ctx context.Context, token, code string, subtotal float64) (float64, error) {
	args := m.Called(ctx, token, code, subtotal)

	return args.Get(0).(float64), args.Error(1)
}
