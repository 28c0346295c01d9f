package service

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/dutyfree-pos/internal/api/middleware"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/backoffice"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/cart"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/errors"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/models"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/pricing"
	repository "github.com/aaravmahajanofficial/dutyfree-pos/internal/repositories"
)

type CartService interface {
	GetCart(ctx context.Context, session models.Session) (*models.CartResponse, error)
	ScanItem(ctx context.Context, session models.Session, req *models.ScanItemRequest) (*models.CartResponse, error)
	AddProduct(ctx context.Context, session models.Session, req *models.AddProductRequest) (*models.CartResponse, error)
	UpdateQuantity(ctx context.Context, session models.Session, productID int64, quantity int) (*models.CartResponse, error)
	RemoveItem(ctx context.Context, session models.Session, productID int64) (*models.CartResponse, error)
	ClearCart(ctx context.Context, session models.Session) (*models.CartResponse, error)
	ApplyPromotion(ctx context.Context, session models.Session, req *models.ApplyPromotionRequest) (*models.CartResponse, error)
	RemovePromotion(ctx context.Context, session models.Session) (*models.CartResponse, error)
	SelectCustomer(ctx context.Context, session models.Session, req *models.SelectCustomerRequest) (*models.CartResponse, error)
}

type cartService struct {
	repo     repository.CartRepository
	client   backoffice.Client
	catalog  *ProductCatalog
	resolver PromotionResolver
	locks    *SessionLocks
	now      func() time.Time
}

func NewCartService(repo repository.CartRepository, client backoffice.Client, catalog *ProductCatalog, resolver PromotionResolver, locks *SessionLocks) CartService {
	return &cartService{
		repo:     repo,
		client:   client,
		catalog:  catalog,
		resolver: resolver,
		locks:    locks,
		now:      time.Now,
	}
}

func (s *cartService) GetCart(ctx context.Context, session models.Session) (*models.CartResponse, error) {

	unlock := s.locks.Lock(session.Key())
	defer unlock()

	c, err := s.repo.Load(ctx, session.Key())
	if err != nil {
		return nil, errors.InternalError("Failed to load cart").WithError(err)
	}

	return CartView(c), nil
}

func (s *cartService) ScanItem(ctx context.Context, session models.Session, req *models.ScanItemRequest) (*models.CartResponse, error) {

	// the lookup happens before the lock; only the mutation needs it
	product, err := s.catalog.Lookup(ctx, session.Token, req.Code)
	if err != nil {
		if stdErrors.Is(err, backoffice.ErrNotFound) {
			return nil, errors.ProductNotFoundError(req.Code).WithError(err)
		}

		return nil, upstreamError("Failed to look up product", err)
	}

	return s.addProduct(ctx, session, product, req.Quantity)
}

func (s *cartService) AddProduct(ctx context.Context, session models.Session, req *models.AddProductRequest) (*models.CartResponse, error) {

	product, err := s.catalog.ByID(ctx, session.Token, req.ProductID)
	if err != nil {
		if stdErrors.Is(err, backoffice.ErrNotFound) {
			return nil, errors.NotFoundError("Product not found").WithError(err)
		}

		return nil, upstreamError("Failed to look up product", err)
	}

	return s.addProduct(ctx, session, product, req.Quantity)
}

func (s *cartService) addProduct(ctx context.Context, session models.Session, product *models.Product, quantity int) (*models.CartResponse, error) {

	if !product.Active {
		return nil, errors.BadRequestError("Product is not available for sale").WithDetail(product.SKU)
	}

	if quantity < 1 {
		quantity = 1
	}

	return s.mutate(ctx, session, func(c *cart.Cart) error {
		c.AddItem(*product, quantity)

		middleware.LoggerFromContext(ctx).Info("Product added to cart",
			slog.Int64("productId", product.ID),
			slog.String("sku", product.SKU),
			slog.Int("quantity", quantity),
		)

		return nil
	})
}

func (s *cartService) UpdateQuantity(ctx context.Context, session models.Session, productID int64, quantity int) (*models.CartResponse, error) {
	return s.mutate(ctx, session, func(c *cart.Cart) error {
		c.UpdateQuantity(productID, quantity)
		return nil
	})
}

func (s *cartService) RemoveItem(ctx context.Context, session models.Session, productID int64) (*models.CartResponse, error) {
	return s.mutate(ctx, session, func(c *cart.Cart) error {
		c.RemoveItem(productID)
		return nil
	})
}

func (s *cartService) ClearCart(ctx context.Context, session models.Session) (*models.CartResponse, error) {

	unlock := s.locks.Lock(session.Key())
	defer unlock()

	if err := s.repo.Delete(ctx, session.Key()); err != nil {
		return nil, errors.InternalError("Failed to clear cart").WithError(err)
	}

	middleware.LoggerFromContext(ctx).Info("Cart cleared")

	return CartView(cart.New()), nil
}

// ApplyPromotion resolves the code against the current subtotal; the
// resulting amount stays fixed even if lines change afterwards.
func (s *cartService) ApplyPromotion(ctx context.Context, session models.Session, req *models.ApplyPromotionRequest) (*models.CartResponse, error) {
	return s.mutate(ctx, session, func(c *cart.Cart) error {
		code := strings.ToUpper(strings.TrimSpace(req.Code))

		discount, err := s.resolver.Resolve(ctx, session.Token, code, c.Subtotal())
		if err != nil {
			return err
		}

		c.ApplyPromotion(code, discount)

		middleware.LoggerFromContext(ctx).Info("Promotion applied", slog.String("code", code), slog.Float64("discount", discount))

		return nil
	})
}

func (s *cartService) RemovePromotion(ctx context.Context, session models.Session) (*models.CartResponse, error) {
	return s.mutate(ctx, session, func(c *cart.Cart) error {
		c.RemovePromotion()
		return nil
	})
}

// SelectCustomer attaches the customer and their loyalty card. A failed card
// lookup leaves the customer without a card rather than failing the request.
func (s *cartService) SelectCustomer(ctx context.Context, session models.Session, req *models.SelectCustomerRequest) (*models.CartResponse, error) {

	logger := middleware.LoggerFromContext(ctx)

	var card *models.LoyaltyCard

	if req.CustomerID != nil {
		found, err := s.client.GetLoyaltyCardByCustomer(ctx, session.Token, *req.CustomerID)
		switch {
		case err == nil:
			card = found
		case stdErrors.Is(err, backoffice.ErrNotFound):
			logger.Info("Customer has no loyalty card", slog.Int64("customerId", *req.CustomerID))
		default:
			logger.Warn("Loyalty card lookup failed", slog.Int64("customerId", *req.CustomerID), slog.String("error", err.Error()))
		}
	}

	if card != nil && card.ExpiredAt(s.now()) {
		logger.Warn("Loyalty card is past its expiry date", slog.String("cardNumber", card.CardNumber), slog.String("expiryDate", card.ExpiryDate))
	}

	return s.mutate(ctx, session, func(c *cart.Cart) error {
		c.SetCustomer(req.CustomerID)
		c.SetLoyaltyCard(card)
		return nil
	})
}

func (s *cartService) mutate(ctx context.Context, session models.Session, apply func(c *cart.Cart) error) (*models.CartResponse, error) {

	unlock := s.locks.Lock(session.Key())
	defer unlock()

	c, err := s.repo.Load(ctx, session.Key())
	if err != nil {
		return nil, errors.InternalError("Failed to load cart").WithError(err)
	}

	if err := apply(c); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, session.Key(), c); err != nil {
		return nil, errors.InternalError("Failed to save cart").WithError(err)
	}

	return CartView(c), nil
}

// CartView projects a cart for the register UI.
func CartView(c *cart.Cart) *models.CartResponse {

	lines := c.Lines()
	taxes := c.LineTaxes()
	totals := c.Totals()
	card := c.LoyaltyCard()

	view := &models.CartResponse{
		Lines:        make([]models.CartLineView, len(lines)),
		CustomerID:   c.CustomerID(),
		LoyaltyCard:  card,
		Totals:       totals,
		CanUseWallet: c.CanUseLoyaltyWallet(),
	}

	for i, line := range lines {
		name := line.Product.NameFr
		if name == "" {
			name = line.Product.NameEn
		}

		view.Lines[i] = models.CartLineView{
			ProductID: line.Product.ID,
			SKU:       line.Product.SKU,
			Name:      name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			TaxRate:   line.Product.TaxRate,
			Subtotal:  line.Subtotal,
			TaxAmount: taxes[i],
		}
	}

	if promo, ok := c.Promotion(); ok {
		view.PromotionCode = promo.Code
	}

	if card != nil && card.Active {
		view.PointsOnCompletion = pricing.PointsEarned(totals.Subtotal)
	}

	return view
}
