package service

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/aaravmahajanofficial/dutyfree-pos/internal/api/middleware"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/backoffice"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/cache"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/models"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/utils"
)

// ProductCatalog reads products from the back-office through a short-lived
// Redis cache. Cache failures are logged and never fail a lookup.
type ProductCatalog struct {
	client backoffice.Client
	cache  cache.Cache
	ttl    time.Duration
}

func NewProductCatalog(client backoffice.Client, c cache.Cache, ttl time.Duration) *ProductCatalog {
	return &ProductCatalog{client: client, cache: c, ttl: ttl}
}

// Lookup resolves a scanned code as a barcode first, then as a SKU. It
// returns backoffice.ErrNotFound when neither matches.
func (p *ProductCatalog) Lookup(ctx context.Context, token, code string) (*models.Product, error) {

	product, err := p.fetch(ctx, cache.Key(cache.ProductBarcodeKeyPrefix, code), func() (*models.Product, error) {
		return p.client.GetProductByBarcode(ctx, token, code)
	})
	if err == nil || !stdErrors.Is(err, backoffice.ErrNotFound) {
		return product, err
	}

	return p.fetch(ctx, cache.Key(cache.ProductSKUKeyPrefix, code), func() (*models.Product, error) {
		return p.client.GetProductBySKU(ctx, token, code)
	})
}

func (p *ProductCatalog) ByID(ctx context.Context, token string, id int64) (*models.Product, error) {
	return p.fetch(ctx, cache.Key(cache.ProductKeyPrefix, strconv.FormatInt(id, 10)), func() (*models.Product, error) {
		return p.client.GetProduct(ctx, token, id)
	})
}

func (p *ProductCatalog) fetch(ctx context.Context, key string, load func() (*models.Product, error)) (*models.Product, error) {

	logger := middleware.LoggerFromContext(ctx)

	cacheCtx, cancel := utils.WithCacheTimeout(ctx)
	defer cancel()

	var cached models.Product

	found, err := p.cache.Get(cacheCtx, key, &cached)
	if err != nil {
		logger.Warn("Product cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	} else if found {
		return &cached, nil
	}

	product, err := load()
	if err != nil {
		return nil, err
	}

	if err := p.cache.Set(cacheCtx, key, product, p.ttl); err != nil {
		logger.Warn("Product cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	return product, nil
}
