package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/dutyfree-pos/internal/cache"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/cart"
)

// CartRepository persists one cart per register session between requests.
type CartRepository interface {
	Load(ctx context.Context, sessionKey string) (*cart.Cart, error)
	Save(ctx context.Context, sessionKey string, c *cart.Cart) error
	Delete(ctx context.Context, sessionKey string) error
}

type cartRepository struct {
	cache cache.Cache
	ttl   time.Duration
}

func NewCartRepo(c cache.Cache, ttl time.Duration) CartRepository {
	return &cartRepository{cache: c, ttl: ttl}
}

// Load never returns nil: a session with no stored cart starts empty.
func (r *cartRepository) Load(ctx context.Context, sessionKey string) (*cart.Cart, error) {

	var snap cart.Snapshot

	found, err := r.cache.Get(ctx, cache.Key(cache.CartKeyPrefix, sessionKey), &snap)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart for session %s: %w", sessionKey, err)
	}

	if !found {
		return cart.New(), nil
	}

	return cart.FromSnapshot(snap), nil
}

func (r *cartRepository) Save(ctx context.Context, sessionKey string, c *cart.Cart) error {

	if err := r.cache.Set(ctx, cache.Key(cache.CartKeyPrefix, sessionKey), c.Snapshot(), r.ttl); err != nil {
		return fmt.Errorf("failed to save cart for session %s: %w", sessionKey, err)
	}

	return nil
}

func (r *cartRepository) Delete(ctx context.Context, sessionKey string) error {

	if err := r.cache.Delete(ctx, cache.Key(cache.CartKeyPrefix, sessionKey)); err != nil {
		return fmt.Errorf("failed to delete cart for session %s: %w", sessionKey, err)
	}

	return nil
}
