package backoffice_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/dutyfree-pos/internal/backoffice"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const token = "cashier-token"

func writeEnvelope(t *testing.T, w http.ResponseWriter, status int, data any, message string) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(map[string]any{
		"success":   status < 300,
		"message":   message,
		"data":      data,
		"timestamp": "2026-06-15T10:00:00",
	})
	require.NoError(t, err)
}

func newServer(t *testing.T, handler http.HandlerFunc) backoffice.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return backoffice.NewClient(server.URL+"/api/", 2*time.Second)
}

func TestCreateSale(t *testing.T) {
	customerID := int64(12)
	req := &models.CreateSaleRequest{
		CustomerID:     &customerID,
		CashRegisterID: 3,
		Items:          []models.CreateSaleItemRequest{{ProductID: 1, Quantity: 2, UnitPrice: 10000}},
		Payments:       []models.CreatePaymentRequest{{PaymentMethod: models.PaymentMethodCash, Amount: 8600, Currency: models.CurrencyXOF}},
	}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		var received models.CreateSaleRequest

		client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/sales", r.URL.Path)
			assert.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			body, err := io.ReadAll(r.Body)
			assert.NoError(t, err)
			assert.NoError(t, json.Unmarshal(body, &received))

			writeEnvelope(t, w, http.StatusCreated, models.Sale{ID: 99, SaleNumber: "S-2026-0099", Status: models.SaleStatusCompleted, TotalAmount: 23600}, "Sale created")
		})

		// Act
		sale, err := client.CreateSale(t.Context(), token, req)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "S-2026-0099", sale.SaleNumber)
		assert.InDelta(t, 23600, sale.TotalAmount, 1e-9)
		assert.Equal(t, *req, received)
	})

	t.Run("Validation failure keeps upstream status", func(t *testing.T) {
		// Arrange
		client := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			writeEnvelope(t, w, http.StatusBadRequest, nil, "Insufficient stock for product 1")
		})

		// Act
		sale, err := client.CreateSale(t.Context(), token, req)

		// Assert
		require.Error(t, err)
		assert.Nil(t, sale)

		var apiErr *backoffice.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		assert.Equal(t, "Insufficient stock for product 1", apiErr.Message)
	})

	t.Run("Non JSON error body", func(t *testing.T) {
		// Arrange
		client := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("<html>bad gateway</html>"))
		})

		// Act
		_, err := client.CreateSale(t.Context(), token, req)

		// Assert
		var apiErr *backoffice.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
		assert.Equal(t, "Bad Gateway", apiErr.Message)
	})

	t.Run("Transport failure", func(t *testing.T) {
		// Arrange
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		client := backoffice.NewClient(url, time.Second)

		// Act
		_, err := client.CreateSale(t.Context(), token, req)

		// Assert
		require.Error(t, err)

		var apiErr *backoffice.APIError
		assert.False(t, errors.As(err, &apiErr))
	})
}

func TestProductLookups(t *testing.T) {
	product := models.Product{ID: 1, SKU: "PRF-001", Barcode: "3614272049529", SellingPriceXOF: 10000, TaxRate: 18, Active: true}

	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/products/1", "/api/products/barcode/3614272049529", "/api/products/sku/PRF-001":
			writeEnvelope(t, w, http.StatusOK, product, "")
		case "/api/products/sku/NULL-DATA":
			writeEnvelope(t, w, http.StatusOK, nil, "")
		default:
			writeEnvelope(t, w, http.StatusNotFound, nil, "Product not found")
		}
	})

	t.Run("By id", func(t *testing.T) {
		got, err := client.GetProduct(t.Context(), token, 1)
		require.NoError(t, err)
		assert.Equal(t, product, *got)
	})

	t.Run("By barcode", func(t *testing.T) {
		got, err := client.GetProductByBarcode(t.Context(), token, "3614272049529")
		require.NoError(t, err)
		assert.Equal(t, product, *got)
	})

	t.Run("By SKU", func(t *testing.T) {
		got, err := client.GetProductBySKU(t.Context(), token, "PRF-001")
		require.NoError(t, err)
		assert.Equal(t, product, *got)
	})

	t.Run("404 maps to ErrNotFound", func(t *testing.T) {
		got, err := client.GetProductByBarcode(t.Context(), token, "0000000000000")
		require.ErrorIs(t, err, backoffice.ErrNotFound)
		assert.Nil(t, got)
	})

	t.Run("Null data maps to ErrNotFound", func(t *testing.T) {
		_, err := client.GetProductBySKU(t.Context(), token, "NULL-DATA")
		require.ErrorIs(t, err, backoffice.ErrNotFound)
	})
}

func TestLoyalty(t *testing.T) {
	card := models.LoyaltyCard{ID: 4, CardNumber: "LC-0004", CustomerID: 12, TierLevel: models.TierGold, WalletBalance: 15000, Active: true}

	t.Run("Card by customer", func(t *testing.T) {
		client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/loyalty/customer/12", r.URL.Path)
			writeEnvelope(t, w, http.StatusOK, card, "")
		})

		got, err := client.GetLoyaltyCardByCustomer(t.Context(), token, 12)
		require.NoError(t, err)
		assert.Equal(t, card, *got)
	})

	t.Run("Wallet deduction sends amount as query", func(t *testing.T) {
		client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/loyalty/LC-0004/wallet/deduct", r.URL.Path)
			assert.Equal(t, "15000", r.URL.Query().Get("amount"))

			updated := card
			updated.WalletBalance = 0
			writeEnvelope(t, w, http.StatusOK, updated, "")
		})

		got, err := client.DeductFromWallet(t.Context(), token, "LC-0004", 15000)
		require.NoError(t, err)
		assert.Zero(t, got.WalletBalance)
	})

	t.Run("Points accrual sends points as query", func(t *testing.T) {
		client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/loyalty/LC-0004/points/add", r.URL.Path)
			assert.Equal(t, "200", r.URL.Query().Get("points"))
			writeEnvelope(t, w, http.StatusOK, card, "")
		})

		_, err := client.AddPoints(t.Context(), token, "LC-0004", 200)
		require.NoError(t, err)
	})

	t.Run("Server error", func(t *testing.T) {
		client := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			writeEnvelope(t, w, http.StatusInternalServerError, nil, "wallet service down")
		})

		_, err := client.DeductFromWallet(t.Context(), token, "LC-0004", 100.5)

		var apiErr *backoffice.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
		assert.Contains(t, apiErr.Error(), "wallet service down")
	})
}

func TestGetPromotionByCode(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/promotions/code/WELCOME10", r.URL.Path)
		writeEnvelope(t, w, http.StatusOK, models.Promotion{Code: "WELCOME10", DiscountType: models.DiscountPercentage, DiscountValue: 10, Active: true}, "")
	})

	promo, err := client.GetPromotionByCode(t.Context(), token, "WELCOME10")
	require.NoError(t, err)
	assert.Equal(t, models.DiscountPercentage, promo.DiscountType)
	assert.InDelta(t, 10, promo.DiscountValue, 1e-9)
}

func TestPing(t *testing.T) {
	t.Run("Reachable", func(t *testing.T) {
		client := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		assert.NoError(t, client.Ping(t.Context()))
	})

	t.Run("Server failing", func(t *testing.T) {
		client := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		assert.Error(t, client.Ping(t.Context()))
	})
}
