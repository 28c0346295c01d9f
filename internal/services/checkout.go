package service

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/dutyfree-pos/internal/api/middleware"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/backoffice"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/cart"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/config"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/errors"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/metrics"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/models"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/pricing"
	repository "github.com/aaravmahajanofficial/dutyfree-pos/internal/repositories"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type CheckoutService interface {
	CompleteSale(ctx context.Context, session models.Session, req *models.CheckoutRequest) (*models.CheckoutResponse, error)
}

type checkoutService struct {
	carts         repository.CartRepository
	settlements   repository.SettlementRepository
	throttle      repository.CheckoutThrottle
	client        backoffice.Client
	notifications NotificationService
	locks         *SessionLocks
	defaults      config.Backoffice
	sanitizer     *bluemonday.Policy
	tracer        trace.Tracer
}

func NewCheckoutService(
	carts repository.CartRepository,
	settlements repository.SettlementRepository,
	throttle repository.CheckoutThrottle,
	client backoffice.Client,
	notifications NotificationService,
	locks *SessionLocks,
	defaults config.Backoffice,
) CheckoutService {
	return &checkoutService{
		carts:         carts,
		settlements:   settlements,
		throttle:      throttle,
		client:        client,
		notifications: notifications,
		locks:         locks,
		defaults:      defaults,
		sanitizer:     bluemonday.StrictPolicy(),
		tracer:        otel.Tracer("github.com/aaravmahajanofficial/dutyfree-pos/internal/services"),
	}
}

// CompleteSale submits the session cart as one sale. Only POST /sales can
// fail the checkout; the wallet deduction and points accrual that follow are
// reported as warnings and the cart is cleared either way.
func (s *checkoutService) CompleteSale(ctx context.Context, session models.Session, req *models.CheckoutRequest) (*models.CheckoutResponse, error) {

	ctx, span := s.tracer.Start(ctx, "CheckoutService.CompleteSale", trace.WithAttributes(
		attribute.Int64("pos.cash_register_id", session.CashRegisterID),
		attribute.Int64("pos.user_id", session.UserID),
	))
	defer span.End()

	logger := middleware.LoggerFromContext(ctx)

	unlock := s.locks.Lock(session.Key())
	defer unlock()

	c, err := s.carts.Load(ctx, session.Key())
	if err != nil {
		return nil, errors.InternalError("Failed to load cart").WithError(err)
	}

	if c.IsEmpty() {
		return nil, errors.EmptyCartError()
	}

	if err := s.allow(ctx, session); err != nil {
		return nil, err
	}

	totals := c.Totals()
	if totals.TaxableBase < 0 {
		logger.Warn("Discounts exceed subtotal, taxable base is negative",
			slog.Float64("subtotal", totals.Subtotal),
			slog.Float64("totalDiscount", totals.TotalDiscount),
			slog.Float64("taxableBase", totals.TaxableBase),
		)
	}

	finalAmount := totals.GrandTotal

	var walletAmountUsed float64
	if req.UseLoyaltyWallet && c.CanUseLoyaltyWallet() {
		walletAmountUsed = c.WalletAmountUsable(finalAmount)
		finalAmount -= walletAmountUsed
	}

	saleReq := s.buildSaleRequest(c, session, req, finalAmount)

	sale, err := s.client.CreateSale(ctx, session.Token, saleReq)
	if err != nil {
		status := 0

		var apiErr *backoffice.APIError
		if stdErrors.As(err, &apiErr) {
			status = apiErr.StatusCode
		}

		metrics.SaleSubmissionFailures.WithLabelValues(submissionStatusLabel(status)).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "sale submission failed")

		logger.Error("Sale submission failed", slog.Int("upstreamStatus", status), slog.String("error", err.Error()))

		appErr := errors.SaleSubmissionError(status).WithError(err)
		if apiErr != nil && apiErr.Message != "" {
			appErr = appErr.WithDetail(apiErr.Message)
		}

		return nil, appErr
	}

	span.SetAttributes(attribute.String("pos.sale_number", sale.SaleNumber))

	logger.Info("Sale created",
		slog.String("saleNumber", sale.SaleNumber),
		slog.Float64("grandTotal", totals.GrandTotal),
		slog.Float64("amountPaid", finalAmount),
		slog.Float64("walletAmountUsed", walletAmountUsed),
	)

	resp := &models.CheckoutResponse{
		Sale:             sale,
		AmountPaid:       finalAmount,
		WalletAmountUsed: walletAmountUsed,
	}

	if card := c.LoyaltyCard(); card != nil {
		s.settleLoyalty(ctx, session, sale, card, walletAmountUsed, pricing.PointsEarned(totals.Subtotal), resp)
	}

	c.Clear()

	if err := s.carts.Save(ctx, session.Key(), c); err != nil {
		// the sale already exists upstream; a stale cart must not fail it
		logger.Error("Failed to persist cleared cart", slog.String("saleNumber", sale.SaleNumber), slog.String("error", err.Error()))
	}

	metrics.SalesCompleted.WithLabelValues(string(s.paymentMethod(req))).Inc()
	metrics.SaleAmount.Observe(totals.GrandTotal)

	return resp, nil
}

func (s *checkoutService) allow(ctx context.Context, session models.Session) error {

	if s.throttle == nil {
		return nil
	}

	allowed, retryAfter, err := s.throttle.Allow(ctx, session.CashRegisterID)
	if err != nil {
		// fail open: Redis being down must not stop the tills
		middleware.LoggerFromContext(ctx).Warn("Checkout throttle unavailable", slog.String("error", err.Error()))
		return nil
	}

	if !allowed {
		metrics.CheckoutsThrottled.Inc()

		return errors.TooManyRequestsError("Too many checkout attempts").
			WithDetail(fmt.Sprintf("retry after %s", retryAfter.Round(time.Second)))
	}

	return nil
}

func (s *checkoutService) buildSaleRequest(c *cart.Cart, session models.Session, req *models.CheckoutRequest, finalAmount float64) *models.CreateSaleRequest {

	lines := c.Lines()

	saleReq := &models.CreateSaleRequest{
		CustomerID:     c.CustomerID(),
		CashRegisterID: session.CashRegisterID,
		Items:          make([]models.CreateSaleItemRequest, len(lines)),
		Payments:       []models.CreatePaymentRequest{},
		Notes:          strings.TrimSpace(s.sanitizer.Sanitize(req.Notes)),
	}

	for i, line := range lines {
		saleReq.Items[i] = models.CreateSaleItemRequest{
			ProductID: line.Product.ID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		}
	}

	if finalAmount > 0 {
		currency := req.Currency
		if currency == "" {
			currency = models.Currency(s.defaults.Currency)
		}

		saleReq.Payments = append(saleReq.Payments, models.CreatePaymentRequest{
			PaymentMethod: s.paymentMethod(req),
			Amount:        finalAmount,
			Currency:      currency,
		})
	}

	return saleReq
}

// paymentMethod falls back to the register's configured method when the request omits one.
func (s *checkoutService) paymentMethod(req *models.CheckoutRequest) models.PaymentMethod {
	if req.PaymentMethod != "" {
		return req.PaymentMethod
	}

	return models.PaymentMethod(s.defaults.PaymentMethod)
}

// settleLoyalty runs the wallet deduction and the points accrual. Each runs
// even if the other failed.
func (s *checkoutService) settleLoyalty(ctx context.Context, session models.Session, sale *models.Sale, card *models.LoyaltyCard, walletAmountUsed float64, points int64, resp *models.CheckoutResponse) {

	if walletAmountUsed > 0 {
		if _, err := s.client.DeductFromWallet(ctx, session.Token, card.CardNumber, walletAmountUsed); err != nil {
			s.warn(ctx, session, resp, &models.SettlementWarning{
				SaleNumber: sale.SaleNumber,
				CardNumber: card.CardNumber,
				Operation:  models.SettlementWalletDeduct,
				Amount:     walletAmountUsed,
				Reason:     err.Error(),
			})
		}
	}

	if !card.Active {
		return
	}

	if _, err := s.client.AddPoints(ctx, session.Token, card.CardNumber, points); err != nil {
		s.warn(ctx, session, resp, &models.SettlementWarning{
			SaleNumber: sale.SaleNumber,
			CardNumber: card.CardNumber,
			Operation:  models.SettlementPointsAdd,
			Amount:     float64(points),
			Reason:     err.Error(),
		})
		return
	}

	resp.PointsAdded = points
}

// warn records a post-settlement warning on every side channel. None of them
// can fail the checkout.
func (s *checkoutService) warn(ctx context.Context, session models.Session, resp *models.CheckoutResponse, warning *models.SettlementWarning) {

	logger := middleware.LoggerFromContext(ctx)

	warning.ID = uuid.New()

	logger.Warn("Post-settlement operation failed",
		slog.String("warningId", warning.ID.String()),
		slog.String("saleNumber", warning.SaleNumber),
		slog.String("operation", string(warning.Operation)),
		slog.String("cardNumber", warning.CardNumber),
		slog.Float64("amount", warning.Amount),
		slog.String("reason", warning.Reason),
	)

	metrics.PostSettlementWarnings.WithLabelValues(string(warning.Operation)).Inc()

	if s.settlements != nil {
		if err := s.settlements.Create(ctx, warning); err != nil {
			logger.Error("Failed to journal settlement warning", slog.String("warningId", warning.ID.String()), slog.String("error", err.Error()))
		}
	}

	if s.notifications != nil {
		if err := s.notifications.NotifySettlementWarning(ctx, session, warning); err != nil {
			logger.Error("Failed to send settlement alert", slog.String("warningId", warning.ID.String()), slog.String("error", err.Error()))
		}
	}

	resp.Warnings = append(resp.Warnings, *warning)
}

func submissionStatusLabel(status int) string {
	if status == 0 {
		return "transport"
	}

	return strconv.Itoa(status)
}
