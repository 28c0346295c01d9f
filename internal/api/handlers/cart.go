package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/dutyfree-pos/internal/errors"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/models"
	service "github.com/aaravmahajanofficial/dutyfree-pos/internal/services"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/utils"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type CartHandler struct {
	cartService service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService, validator: validator.New()}
}

// GetCart godoc
//	@Summary		Get the register cart
//	@Description	Returns the current cart of the authenticated register session with every derived total.
//	@Tags			Cart
//	@Produce		json
//	@Success		200	{object}	models.CartResponse		"Current cart"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/pos/cart [get]
func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		session, logger, ok := requireSession(w, r)
		if !ok {
			return
		}

		cart, err := h.cartService.GetCart(r.Context(), session)
		if err != nil {
			logger.Error("Failed to get cart", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// ScanItem godoc
//	@Summary		Scan a product into the cart
//	@Description	Looks the code up as a barcode, then as a SKU, and adds the product to the cart.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			item	body		models.ScanItemRequest	true	"Scanned code and quantity"
//	@Success		200		{object}	models.CartResponse		"Updated cart"
//	@Failure		400		{object}	response.ErrorResponse	"Validation error or inactive product"
//	@Failure		401		{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404		{object}	response.ErrorResponse	"No product matches the code"
//	@Failure		500		{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/pos/cart/scan [post]
func (h *CartHandler) ScanItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		session, logger, ok := requireSession(w, r)
		if !ok {
			return
		}

		var req models.ScanItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid scan input")
			return
		}

		cart, err := h.cartService.ScanItem(r.Context(), session, &req)
		if err != nil {
			logger.Warn("Failed to scan item", slog.String("code", req.Code), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// AddProduct godoc
//	@Summary		Add a product by id
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			item	body		models.AddProductRequest	true	"Product id and quantity"
//	@Success		200		{object}	models.CartResponse			"Updated cart"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error"
//	@Failure		401		{object}	response.ErrorResponse		"Authentication required"
//	@Failure		404		{object}	response.ErrorResponse		"Product not found"
//	@Failure		500		{object}	response.ErrorResponse		"Internal server error"
//	@Security		BearerAuth
//	@Router			/pos/cart/items [post]
func (h *CartHandler) AddProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		session, logger, ok := requireSession(w, r)
		if !ok {
			return
		}

		var req models.AddProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid add product input")
			return
		}

		cart, err := h.cartService.AddProduct(r.Context(), session, &req)
		if err != nil {
			logger.Warn("Failed to add product", slog.Int64("productId", req.ProductID), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// UpdateQuantity godoc
//	@Summary		Set a line quantity
//	@Description	Sets the quantity of a cart line. Zero or a negative quantity removes the line.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			productId	path		int								true	"Product ID"
//	@Param			quantity	body		models.UpdateQuantityRequest	true	"New quantity"
//	@Success		200			{object}	models.CartResponse				"Updated cart"
//	@Failure		400			{object}	response.ErrorResponse			"Invalid product id or validation error"
//	@Failure		401			{object}	response.ErrorResponse			"Authentication required"
//	@Failure		500			{object}	response.ErrorResponse			"Internal server error"
//	@Security		BearerAuth
//	@Router			/pos/cart/items/{productId} [put]
func (h *CartHandler) UpdateQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		session, logger, ok := requireSession(w, r)
		if !ok {
			return
		}

		productID, err := utils.PathInt64(r, "productId")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("error", err.Error()))
			response.Error(w, errors.BadRequestError("Invalid product ID").WithDetail(err.Error()))
			return
		}

		var req models.UpdateQuantityRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update quantity input")
			return
		}

		cart, err := h.cartService.UpdateQuantity(r.Context(), session, productID, *req.Quantity)
		if err != nil {
			logger.Error("Failed to update quantity", slog.Int64("productId", productID), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// RemoveItem godoc
//	@Summary		Remove a line from the cart
//	@Tags			Cart
//	@Produce		json
//	@Param			productId	path		int						true	"Product ID"
//	@Success		200			{object}	models.CartResponse		"Updated cart"
//	@Failure		400			{object}	response.ErrorResponse	"Invalid product id"
//	@Failure		401			{object}	response.ErrorResponse	"Authentication required"
//	@Failure		500			{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/pos/cart/items/{productId} [delete]
func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		session, logger, ok := requireSession(w, r)
		if !ok {
			return
		}

		productID, err := utils.PathInt64(r, "productId")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("error", err.Error()))
			response.Error(w, errors.BadRequestError("Invalid product ID").WithDetail(err.Error()))
			return
		}

		cart, err := h.cartService.RemoveItem(r.Context(), session, productID)
		if err != nil {
			logger.Error("Failed to remove item", slog.Int64("productId", productID), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// ClearCart godoc
//	@Summary		Cancel the current cart
//	@Description	Drops every line, the customer, the loyalty card and the promotion.
//	@Tags			Cart
//	@Produce		json
//	@Success		200	{object}	models.CartResponse		"Empty cart"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/pos/cart [delete]
func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		session, logger, ok := requireSession(w, r)
		if !ok {
			return
		}

		cart, err := h.cartService.ClearCart(r.Context(), session)
		if err != nil {
			logger.Error("Failed to clear cart", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// ApplyPromotion godoc
//	@Summary		Apply a promotion code
//	@Description	Resolves the code against the current subtotal. The discount is fixed at that moment.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			promotion	body		models.ApplyPromotionRequest	true	"Promotion code"
//	@Success		200			{object}	models.CartResponse				"Updated cart"
//	@Failure		400			{object}	response.ErrorResponse			"Invalid promotion code"
//	@Failure		401			{object}	response.ErrorResponse			"Authentication required"
//	@Failure		500			{object}	response.ErrorResponse			"Internal server error"
//	@Security		BearerAuth
//	@Router			/pos/cart/promotion [post]
func (h *CartHandler) ApplyPromotion() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		session, logger, ok := requireSession(w, r)
		if !ok {
			return
		}

		var req models.ApplyPromotionRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid promotion input")
			return
		}

		cart, err := h.cartService.ApplyPromotion(r.Context(), session, &req)
		if err != nil {
			logger.Warn("Failed to apply promotion", slog.String("code", req.Code), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// RemovePromotion godoc
//	@Summary		Remove the applied promotion
//	@Tags			Cart
//	@Produce		json
//	@Success		200	{object}	models.CartResponse		"Updated cart"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/pos/cart/promotion [delete]
func (h *CartHandler) RemovePromotion() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		session, logger, ok := requireSession(w, r)
		if !ok {
			return
		}

		cart, err := h.cartService.RemovePromotion(r.Context(), session)
		if err != nil {
			logger.Error("Failed to remove promotion", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// SelectCustomer godoc
//	@Summary		Select the customer for the sale
//	@Description	Attaches the customer and their loyalty card. A null customerId detaches both.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			customer	body		models.SelectCustomerRequest	true	"Customer id or null"
//	@Success		200			{object}	models.CartResponse				"Updated cart"
//	@Failure		400			{object}	response.ErrorResponse			"Validation error"
//	@Failure		401			{object}	response.ErrorResponse			"Authentication required"
//	@Failure		500			{object}	response.ErrorResponse			"Internal server error"
//	@Security		BearerAuth
//	@Router			/pos/cart/customer [put]
func (h *CartHandler) SelectCustomer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		session, logger, ok := requireSession(w, r)
		if !ok {
			return
		}

		var req models.SelectCustomerRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid select customer input")
			return
		}

		cart, err := h.cartService.SelectCustomer(r.Context(), session, &req)
		if err != nil {
			logger.Error("Failed to select customer", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}
