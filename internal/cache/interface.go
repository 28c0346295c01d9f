package cache

import (
	"context"
	"strings"
	"time"
)

// Cache stores JSON encoded values. A zero or negative ttl falls back to the configured default.
type Cache interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

const (
	Namespace = "pos"

	CartKeyPrefix           = "cart"
	ProductKeyPrefix        = "product"
	ProductBarcodeKeyPrefix = "product:barcode"
	ProductSKUKeyPrefix     = "product:sku"
)

// Key builds "pos:<prefix>:<part>[:<part>...]".
func Key(prefix string, parts ...string) string {
	return Namespace + ":" + prefix + ":" + strings.Join(parts, ":")
}
