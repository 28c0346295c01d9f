// Package mocks holds testify mocks for the repository interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/aaravmahajanofficial/dutyfree-pos/internal/cart"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type CartRepository struct {
	mock.Mock
}

func (m *CartRepository) Load(ctx context.Context, sessionKey string) (*cart.Cart, error) {
	args := m.Called(ctx, sessionKey)

	c, _ := args.Get(0).(*cart.Cart)

	return c, args.Error(1)
}

func (m *CartRepository) Save(ctx context.Context, sessionKey string, c *cart.Cart) error {
	return m.Called(ctx, sessionKey, c).Error(0)
}

func (m *CartRepository) Delete(ctx context.Context, sessionKey string) error {
	return m.Called(ctx, sessionKey).Error(0)
}

type SettlementRepository struct {
	mock.Mock
}

func (m *SettlementRepository) EnsureSchema(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *SettlementRepository) Create(ctx context.Context, warning *models.SettlementWarning) error {
	return m.Called(ctx, warning).Error(0)
}

func (m *SettlementRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SettlementWarning, error) {
	args := m.Called(ctx, id)

	w, _ := args.Get(0).(*models.SettlementWarning)

	return w, args.Error(1)
}

func (m *SettlementRepository) ListOpen(ctx context.Context, limit int) ([]*models.SettlementWarning, int, error) {
	args := m.Called(ctx, limit)

	warnings, _ := args.Get(0).([]*models.SettlementWarning)

	return warnings, args.Int(1), args.Error(2)
}

func (m *SettlementRepository) MarkResolved(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *SettlementRepository) Reopen(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type CheckoutThrottle struct {
	mock.Mock
}

func (m *CheckoutThrottle) Allow(ctx context.Context, cashRegisterID int64) (bool, time.Duration, error) {
	args := m.Called(ctx, cashRegisterID)

	return args.Bool(0), args.Get(1).(time.Duration), args.Error(2)
}
