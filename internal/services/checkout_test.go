package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/dutyfree-pos/internal/backoffice"
	boMocks "github.com/aaravmahajanofficial/dutyfree-pos/internal/backoffice/mocks"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/cart"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/config"
	appErrors "github.com/aaravmahajanofficial/dutyfree-pos/internal/errors"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/models"
	repoMocks "github.com/aaravmahajanofficial/dutyfree-pos/internal/repositories/mocks"
	service "github.com/aaravmahajanofficial/dutyfree-pos/internal/services"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/services/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testSession = models.Session{UserID: 7, Username: "awa", Role: "CASHIER", CashRegisterID: 3, Token: "token-123"}

func perfume() models.Product {
	return models.Product{ID: 1, SKU: "PRF-001", NameFr: "Parfum", Barcode: "3660000000011", SellingPriceXOF: 10000, TaxRate: 18, Active: true}
}

func bronzeCard() *models.LoyaltyCard {
	return &models.LoyaltyCard{CardNumber: "LC-0001", CustomerID: 42, Active: true, TierLevel: models.TierBronze, WalletBalance: 15000}
}

// twoPerfumes is scenario A: subtotal 20000, tax 3600, grand total 23600.
func twoPerfumes(card *models.LoyaltyCard) *cart.Cart {
	c := cart.New()
	c.AddItem(perfume(), 2)

	if card != nil {
		customerID := card.CustomerID
		c.SetCustomer(&customerID)
		c.SetLoyaltyCard(card)
	}

	return c
}

type checkoutFixture struct {
	carts         *repoMocks.CartRepository
	settlements   *repoMocks.SettlementRepository
	throttle      *repoMocks.CheckoutThrottle
	client        *boMocks.Client
	notifications *mocks.NotificationService
	service       service.CheckoutService
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{
		carts:         new(repoMocks.CartRepository),
		settlements:   new(repoMocks.SettlementRepository),
		throttle:      new(repoMocks.CheckoutThrottle),
		client:        new(boMocks.Client),
		notifications: new(mocks.NotificationService),
	}

	f.service = service.NewCheckoutService(
		f.carts,
		f.settlements,
		f.throttle,
		f.client,
		f.notifications,
		service.NewSessionLocks(),
		config.Backoffice{Currency: "XOF", PaymentMethod: "CASH"},
	)

	return f
}

func (f *checkoutFixture) assertExpectations(t *testing.T) {
	f.carts.AssertExpectations(t)
	f.settlements.AssertExpectations(t)
	f.throttle.AssertExpectations(t)
	f.client.AssertExpectations(t)
	f.notifications.AssertExpectations(t)
}

func TestCompleteSale(t *testing.T) {
	ctx := context.Background()
	sale := &models.Sale{ID: 900, SaleNumber: "VNT-2024-0001", Status: models.SaleStatusCompleted}

	t.Run("Success - Wallet Offset", func(t *testing.T) {
		// Arrange
		f := newCheckoutFixture()
		c := twoPerfumes(bronzeCard())

		f.carts.On("Load", mock.Anything, testSession.Key()).Return(c, nil).Once()
		f.throttle.On("Allow", mock.Anything, testSession.CashRegisterID).Return(true, time.Duration(0), nil).Once()
		f.client.On("CreateSale", mock.Anything, testSession.Token, mock.MatchedBy(func(req *models.CreateSaleRequest) bool {
			return req.CashRegisterID == 3 &&
				req.CustomerID != nil && *req.CustomerID == 42 &&
				len(req.Items) == 1 && req.Items[0].ProductID == 1 && req.Items[0].Quantity == 2 && req.Items[0].UnitPrice == 10000 &&
				len(req.Payments) == 1 && req.Payments[0].Amount == 8600 &&
				req.Payments[0].PaymentMethod == models.PaymentMethodCard && req.Payments[0].Currency == models.CurrencyXOF
		})).Return(sale, nil).Once()
		f.client.On("DeductFromWallet", mock.Anything, testSession.Token, "LC-0001", 15000.0).Return(&models.LoyaltyCard{}, nil).Once()
		f.client.On("AddPoints", mock.Anything, testSession.Token, "LC-0001", int64(200)).Return(&models.LoyaltyCard{}, nil).Once()
		f.carts.On("Save", mock.Anything, testSession.Key(), mock.MatchedBy(func(saved *cart.Cart) bool {
			return saved.IsEmpty() && saved.LoyaltyCard() == nil && saved.CustomerID() == nil
		})).Return(nil).Once()

		// Act
		resp, err := f.service.CompleteSale(ctx, testSession, &models.CheckoutRequest{
			PaymentMethod:    models.PaymentMethodCard,
			UseLoyaltyWallet: true,
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, sale, resp.Sale)
		assert.Equal(t, 8600.0, resp.AmountPaid)
		assert.Equal(t, 15000.0, resp.WalletAmountUsed)
		assert.Equal(t, int64(200), resp.PointsAdded)
		assert.Empty(t, resp.Warnings)
		f.assertExpectations(t)
	})

	t.Run("Success - Wallet Covers Everything", func(t *testing.T) {
		// Arrange
		f := newCheckoutFixture()
		card := bronzeCard()
		card.WalletBalance = 50000
		c := twoPerfumes(card)

		f.carts.On("Load", mock.Anything, testSession.Key()).Return(c, nil).Once()
		f.throttle.On("Allow", mock.Anything, testSession.CashRegisterID).Return(true, time.Duration(0), nil).Once()
		f.client.On("CreateSale", mock.Anything, testSession.Token, mock.MatchedBy(func(req *models.CreateSaleRequest) bool {
			return req.Payments != nil && len(req.Payments) == 0
		})).Return(sale, nil).Once()
		f.client.On("DeductFromWallet", mock.Anything, testSession.Token, "LC-0001", 23600.0).Return(&models.LoyaltyCard{}, nil).Once()
		f.client.On("AddPoints", mock.Anything, testSession.Token, "LC-0001", int64(200)).Return(&models.LoyaltyCard{}, nil).Once()
		f.carts.On("Save", mock.Anything, testSession.Key(), mock.AnythingOfType("*cart.Cart")).Return(nil).Once()

		// Act
		resp, err := f.service.CompleteSale(ctx, testSession, &models.CheckoutRequest{
			PaymentMethod:    models.PaymentMethodCash,
			UseLoyaltyWallet: true,
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 0.0, resp.AmountPaid)
		assert.Equal(t, 23600.0, resp.WalletAmountUsed)
		f.assertExpectations(t)
	})

	t.Run("Success - No Card, Currency And Notes", func(t *testing.T) {
		// Arrange
		f := newCheckoutFixture()
		c := twoPerfumes(nil)

		f.carts.On("Load", mock.Anything, testSession.Key()).Return(c, nil).Once()
		f.throttle.On("Allow", mock.Anything, testSession.CashRegisterID).Return(true, time.Duration(0), nil).Once()
		f.client.On("CreateSale", mock.Anything, testSession.Token, mock.MatchedBy(func(req *models.CreateSaleRequest) bool {
			return req.CustomerID == nil &&
				req.Notes == "gift wrap" &&
				len(req.Payments) == 1 && req.Payments[0].Amount == 23600 && req.Payments[0].Currency == models.CurrencyEUR
		})).Return(sale, nil).Once()
		f.carts.On("Save", mock.Anything, testSession.Key(), mock.AnythingOfType("*cart.Cart")).Return(nil).Once()

		// Act
		resp, err := f.service.CompleteSale(ctx, testSession, &models.CheckoutRequest{
			PaymentMethod:    models.PaymentMethodCash,
			Currency:         models.CurrencyEUR,
			UseLoyaltyWallet: true,
			Notes:            `<script>alert(1)</script><b>gift wrap</b>`,
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 23600.0, resp.AmountPaid)
		assert.Zero(t, resp.WalletAmountUsed)
		assert.Zero(t, resp.PointsAdded)
		f.client.AssertNotCalled(t, "DeductFromWallet", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.client.AssertNotCalled(t, "AddPoints", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("Success - Default Payment Method", func(t *testing.T) {
		// Arrange
		f := newCheckoutFixture()
		c := twoPerfumes(nil)

		f.carts.On("Load", mock.Anything, testSession.Key()).Return(c, nil).Once()
		f.throttle.On("Allow", mock.Anything, testSession.CashRegisterID).Return(true, time.Duration(0), nil).Once()
		f.client.On("CreateSale", mock.Anything, testSession.Token, mock.MatchedBy(func(req *models.CreateSaleRequest) bool {
			return len(req.Payments) == 1 &&
				req.Payments[0].PaymentMethod == models.PaymentMethodCash &&
				req.Payments[0].Currency == models.CurrencyXOF
		})).Return(sale, nil).Once()
		f.carts.On("Save", mock.Anything, testSession.Key(), mock.AnythingOfType("*cart.Cart")).Return(nil).Once()

		// Act
		resp, err := f.service.CompleteSale(ctx, testSession, &models.CheckoutRequest{})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 23600.0, resp.AmountPaid)
		f.assertExpectations(t)
	})

	t.Run("Success - Wallet Not Requested", func(t *testing.T) {
		// Arrange
		f := newCheckoutFixture()
		c := twoPerfumes(bronzeCard())

		f.carts.On("Load", mock.Anything, testSession.Key()).Return(c, nil).Once()
		f.throttle.On("Allow", mock.Anything, testSession.CashRegisterID).Return(true, time.Duration(0), nil).Once()
		f.client.On("CreateSale", mock.Anything, testSession.Token, mock.MatchedBy(func(req *models.CreateSaleRequest) bool {
			return len(req.Payments) == 1 && req.Payments[0].Amount == 23600
		})).Return(sale, nil).Once()
		f.client.On("AddPoints", mock.Anything, testSession.Token, "LC-0001", int64(200)).Return(&models.LoyaltyCard{}, nil).Once()
		f.carts.On("Save", mock.Anything, testSession.Key(), mock.AnythingOfType("*cart.Cart")).Return(nil).Once()

		// Act
		resp, err := f.service.CompleteSale(ctx, testSession, &models.CheckoutRequest{PaymentMethod: models.PaymentMethodCash})

		// Assert
		require.NoError(t, err)
		assert.Zero(t, resp.WalletAmountUsed)
		f.client.AssertNotCalled(t, "DeductFromWallet", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("Failure - Empty Cart", func(t *testing.T) {
		// Arrange
		f := newCheckoutFixture()
		f.carts.On("Load", mock.Anything, testSession.Key()).Return(cart.New(), nil).Once()

		// Act
		resp, err := f.service.CompleteSale(ctx, testSession, &models.CheckoutRequest{PaymentMethod: models.PaymentMethodCash})

		// Assert
		assert.Nil(t, resp)
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeEmptyCart, appErr.Code)
		assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
		f.throttle.AssertNotCalled(t, "Allow", mock.Anything, mock.Anything)
		f.client.AssertNotCalled(t, "CreateSale", mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("Failure - Throttled", func(t *testing.T) {
		// Arrange
		f := newCheckoutFixture()
		f.carts.On("Load", mock.Anything, testSession.Key()).Return(twoPerfumes(nil), nil).Once()
		f.throttle.On("Allow", mock.Anything, testSession.CashRegisterID).Return(false, 4*time.Second, nil).Once()

		// Act
		resp, err := f.service.CompleteSale(ctx, testSession, &models.CheckoutRequest{PaymentMethod: models.PaymentMethodCash})

		// Assert
		assert.Nil(t, resp)
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusTooManyRequests, appErr.StatusCode)
		assert.Equal(t, "retry after 4s", appErr.Detail)
		f.client.AssertNotCalled(t, "CreateSale", mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("Success - Throttle Unavailable Fails Open", func(t *testing.T) {
		// Arrange
		f := newCheckoutFixture()
		f.carts.On("Load", mock.Anything, testSession.Key()).Return(twoPerfumes(nil), nil).Once()
		f.throttle.On("Allow", mock.Anything, testSession.CashRegisterID).Return(false, time.Duration(0), errors.New("redis down")).Once()
		f.client.On("CreateSale", mock.Anything, testSession.Token, mock.Anything).Return(sale, nil).Once()
		f.carts.On("Save", mock.Anything, testSession.Key(), mock.AnythingOfType("*cart.Cart")).Return(nil).Once()

		// Act
		resp, err := f.service.CompleteSale(ctx, testSession, &models.CheckoutRequest{PaymentMethod: models.PaymentMethodCash})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, sale, resp.Sale)
		f.assertExpectations(t)
	})

	t.Run("Failure - Sale Rejected Keeps Cart", func(t *testing.T) {
		// Arrange
		f := newCheckoutFixture()
		c := twoPerfumes(bronzeCard())
		upstream := &backoffice.APIError{StatusCode: http.StatusUnprocessableEntity, Message: "Insufficient stock"}

		f.carts.On("Load", mock.Anything, testSession.Key()).Return(c, nil).Once()
		f.throttle.On("Allow", mock.Anything, testSession.CashRegisterID).Return(true, time.Duration(0), nil).Once()
		f.client.On("CreateSale", mock.Anything, testSession.Token, mock.Anything).Return(nil, upstream).Once()

		// Act
		resp, err := f.service.CompleteSale(ctx, testSession, &models.CheckoutRequest{PaymentMethod: models.PaymentMethodCash, UseLoyaltyWallet: true})

		// Assert
		assert.Nil(t, resp)
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeSaleSubmission, appErr.Code)
		assert.Equal(t, http.StatusUnprocessableEntity, appErr.StatusCode)
		assert.Equal(t, "Insufficient stock", appErr.Detail)
		assert.ErrorIs(t, err, upstream)
		assert.Len(t, c.Lines(), 1)
		f.carts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
		f.client.AssertNotCalled(t, "DeductFromWallet", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.client.AssertNotCalled(t, "AddPoints", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("Failure - Transport Error Is Bad Gateway", func(t *testing.T) {
		// Arrange
		f := newCheckoutFixture()
		f.carts.On("Load", mock.Anything, testSession.Key()).Return(twoPerfumes(nil), nil).Once()
		f.throttle.On("Allow", mock.Anything, testSession.CashRegisterID).Return(true, time.Duration(0), nil).Once()
		f.client.On("CreateSale", mock.Anything, testSession.Token, mock.Anything).Return(nil, errors.New("connection refused")).Once()

		// Act
		_, err := f.service.CompleteSale(ctx, testSession, &models.CheckoutRequest{PaymentMethod: models.PaymentMethodCash})

		// Assert
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadGateway, appErr.StatusCode)
		f.carts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("Success - Loyalty Failures Become Warnings", func(t *testing.T) {
		// Arrange
		f := newCheckoutFixture()
		c := twoPerfumes(bronzeCard())

		f.carts.On("Load", mock.Anything, testSession.Key()).Return(c, nil).Once()
		f.throttle.On("Allow", mock.Anything, testSession.CashRegisterID).Return(true, time.Duration(0), nil).Once()
		f.client.On("CreateSale", mock.Anything, testSession.Token, mock.Anything).Return(sale, nil).Once()
		f.client.On("DeductFromWallet", mock.Anything, testSession.Token, "LC-0001", 15000.0).Return(nil, errors.New("wallet service down")).Once()
		f.client.On("AddPoints", mock.Anything, testSession.Token, "LC-0001", int64(200)).Return(nil, &backoffice.APIError{StatusCode: 500, Message: "boom"}).Once()
		f.settlements.On("Create", mock.Anything, mock.AnythingOfType("*models.SettlementWarning")).Return(nil).Twice()
		f.notifications.On("NotifySettlementWarning", mock.Anything, testSession, mock.AnythingOfType("*models.SettlementWarning")).Return(errors.New("sendgrid down")).Twice()
		f.carts.On("Save", mock.Anything, testSession.Key(), mock.MatchedBy(func(saved *cart.Cart) bool {
			return saved.IsEmpty()
		})).Return(nil).Once()

		// Act
		resp, err := f.service.CompleteSale(ctx, testSession, &models.CheckoutRequest{PaymentMethod: models.PaymentMethodCash, UseLoyaltyWallet: true})

		// Assert
		require.NoError(t, err)
		require.Len(t, resp.Warnings, 2)
		assert.Equal(t, models.SettlementWalletDeduct, resp.Warnings[0].Operation)
		assert.Equal(t, 15000.0, resp.Warnings[0].Amount)
		assert.Equal(t, "VNT-2024-0001", resp.Warnings[0].SaleNumber)
		assert.Equal(t, models.SettlementPointsAdd, resp.Warnings[1].Operation)
		assert.Equal(t, 200.0, resp.Warnings[1].Amount)
		assert.NotEqual(t, resp.Warnings[0].ID, resp.Warnings[1].ID)
		assert.Zero(t, resp.PointsAdded)
		assert.Equal(t, 8600.0, resp.AmountPaid)
		f.assertExpectations(t)
	})

	t.Run("Success - Journal Failure Does Not Block", func(t *testing.T) {
		// Arrange
		f := newCheckoutFixture()
		card := bronzeCard()
		c := twoPerfumes(card)

		f.carts.On("Load", mock.Anything, testSession.Key()).Return(c, nil).Once()
		f.throttle.On("Allow", mock.Anything, testSession.CashRegisterID).Return(true, time.Duration(0), nil).Once()
		f.client.On("CreateSale", mock.Anything, testSession.Token, mock.Anything).Return(sale, nil).Once()
		f.client.On("AddPoints", mock.Anything, testSession.Token, "LC-0001", int64(200)).Return(nil, errors.New("timeout")).Once()
		f.settlements.On("Create", mock.Anything, mock.AnythingOfType("*models.SettlementWarning")).Return(errors.New("db down")).Once()
		f.notifications.On("NotifySettlementWarning", mock.Anything, testSession, mock.AnythingOfType("*models.SettlementWarning")).Return(nil).Once()
		f.carts.On("Save", mock.Anything, testSession.Key(), mock.AnythingOfType("*cart.Cart")).Return(errors.New("redis down")).Once()

		// Act
		resp, err := f.service.CompleteSale(ctx, testSession, &models.CheckoutRequest{PaymentMethod: models.PaymentMethodCash})

		// Assert
		require.NoError(t, err)
		require.Len(t, resp.Warnings, 1)
		assert.Equal(t, models.SettlementPointsAdd, resp.Warnings[0].Operation)
		f.assertExpectations(t)
	})

	t.Run("Success - Inactive Card Earns No Points", func(t *testing.T) {
		// Arrange
		f := newCheckoutFixture()
		card := bronzeCard()
		card.Active = false
		c := twoPerfumes(card)

		f.carts.On("Load", mock.Anything, testSession.Key()).Return(c, nil).Once()
		f.throttle.On("Allow", mock.Anything, testSession.CashRegisterID).Return(true, time.Duration(0), nil).Once()
		f.client.On("CreateSale", mock.Anything, testSession.Token, mock.MatchedBy(func(req *models.CreateSaleRequest) bool {
			return len(req.Payments) == 1 && req.Payments[0].Amount == 23600
		})).Return(sale, nil).Once()
		f.carts.On("Save", mock.Anything, testSession.Key(), mock.AnythingOfType("*cart.Cart")).Return(nil).Once()

		// Act
		resp, err := f.service.CompleteSale(ctx, testSession, &models.CheckoutRequest{PaymentMethod: models.PaymentMethodCash, UseLoyaltyWallet: true})

		// Assert
		require.NoError(t, err)
		assert.Zero(t, resp.WalletAmountUsed)
		assert.Zero(t, resp.PointsAdded)
		f.client.AssertNotCalled(t, "AddPoints", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("Failure - Cart Load Error", func(t *testing.T) {
		// Arrange
		f := newCheckoutFixture()
		f.carts.On("Load", mock.Anything, testSession.Key()).Return(nil, errors.New("redis down")).Once()

		// Act
		_, err := f.service.CompleteSale(ctx, testSession, &models.CheckoutRequest{PaymentMethod: models.PaymentMethodCash})

		// Assert
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeInternal, appErr.Code)
		f.assertExpectations(t)
	})
}
