package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/dutyfree-pos/internal/models"
	service "github.com/aaravmahajanofficial/dutyfree-pos/internal/services"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/utils"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
	validator       *validator.Validate
}

func NewCheckoutHandler(checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService, validator: validator.New()}
}

// CompleteSale godoc
//	@Summary		Complete the sale
//	@Description	Submits the register cart to the back-office as one sale, optionally paying part of it from the loyalty wallet.
//	@Description	Wallet deduction and points accrual run after the sale is recorded; their failures are returned as warnings and never fail the checkout.
//	@Tags			Checkout
//	@Accept			json
//	@Produce		json
//	@Param			checkout	body		models.CheckoutRequest	true	"Payment method, currency, wallet use and notes"
//	@Success		201			{object}	models.CheckoutResponse	"Sale recorded"
//	@Failure		400			{object}	response.ErrorResponse	"Empty cart or validation error"
//	@Failure		401			{object}	response.ErrorResponse	"Authentication required"
//	@Failure		429			{object}	response.ErrorResponse	"Too many checkout attempts"
//	@Failure		502			{object}	response.ErrorResponse	"Back-office rejected or did not answer"
//	@Security		BearerAuth
//	@Router			/pos/checkout [post]
func (h *CheckoutHandler) CompleteSale() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		session, logger, ok := requireSession(w, r)
		if !ok {
			return
		}

		var req models.CheckoutRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid checkout input")
			return
		}

		result, err := h.checkoutService.CompleteSale(r.Context(), session, &req)
		if err != nil {
			logger.Error("Checkout failed", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Checkout completed",
			slog.String("saleNumber", result.Sale.SaleNumber),
			slog.Int("warnings", len(result.Warnings)),
		)
		response.Success(w, http.StatusCreated, result)
	}
}
