package cache_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/dutyfree-pos/internal/cache"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/config"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/models"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (cache.Cache, redismock.ClientMock, *config.CacheConfig) {
	t.Helper()

	client, mock := redismock.NewClientMock()
	cfg := &config.CacheConfig{DefaultTTL: 10 * time.Minute}

	return cache.NewRedisCache(client, cfg), mock, cfg
}

func perfume() models.Product {
	return models.Product{
		ID:              1,
		SKU:             "PRF-001",
		NameEn:          "Eau de Parfum 50ml",
		Barcode:         "3614272049529",
		SellingPriceXOF: 10000,
		TaxRate:         18,
		Active:          true,
	}
}

func TestGet(t *testing.T) {
	ctx := t.Context()
	key := cache.Key(cache.ProductKeyPrefix, "1")
	product := perfume()
	payload, err := json.Marshal(product)
	require.NoError(t, err)

	t.Run("Hit", func(t *testing.T) {
		// Arrange
		redisCache, mock, _ := setup(t)
		mock.ExpectGet(key).SetVal(string(payload))

		// Act
		var got models.Product
		found, err := redisCache.Get(ctx, key, &got)

		// Assert
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, product, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Miss", func(t *testing.T) {
		// Arrange
		redisCache, mock, _ := setup(t)
		mock.ExpectGet(key).SetErr(redis.Nil)

		// Act
		var got models.Product
		found, err := redisCache.Get(ctx, key, &got)

		// Assert
		require.NoError(t, err)
		assert.False(t, found)
		assert.Zero(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Redis error is wrapped", func(t *testing.T) {
		// Arrange
		redisCache, mock, _ := setup(t)
		redisErr := errors.New("connection refused")
		mock.ExpectGet(key).SetErr(redisErr)

		// Act
		var got models.Product
		found, err := redisCache.Get(ctx, key, &got)

		// Assert
		require.Error(t, err)
		assert.False(t, found)
		assert.ErrorIs(t, err, redisErr)
		assert.Contains(t, err.Error(), "failed to get key "+key)
	})

	t.Run("Corrupt payload", func(t *testing.T) {
		// Arrange
		redisCache, mock, _ := setup(t)
		mock.ExpectGet(key).SetVal(`{"id":"one"}`)

		// Act
		var got models.Product
		found, err := redisCache.Get(ctx, key, &got)

		// Assert
		require.Error(t, err)
		assert.False(t, found)

		var typeErr *json.UnmarshalTypeError
		assert.ErrorAs(t, err, &typeErr)
	})
}

func TestSet(t *testing.T) {
	ctx := t.Context()
	key := cache.Key(cache.ProductBarcodeKeyPrefix, "3614272049529")
	product := perfume()
	payload, err := json.Marshal(product)
	require.NoError(t, err)

	t.Run("Explicit TTL", func(t *testing.T) {
		// Arrange
		redisCache, mock, _ := setup(t)
		mock.ExpectSet(key, payload, 2*time.Minute).SetVal("OK")

		// Act
		err := redisCache.Set(ctx, key, product, 2*time.Minute)

		// Assert
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Non-positive TTL uses default", func(t *testing.T) {
		for _, ttl := range []time.Duration{0, -time.Second} {
			// Arrange
			redisCache, mock, cfg := setup(t)
			mock.ExpectSet(key, payload, cfg.DefaultTTL).SetVal("OK")

			// Act
			err := redisCache.Set(ctx, key, product, ttl)

			// Assert
			require.NoError(t, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		}
	})

	t.Run("Unmarshallable value", func(t *testing.T) {
		// Arrange
		redisCache, mock, _ := setup(t)

		// Act
		err := redisCache.Set(ctx, key, make(chan int), time.Minute)

		// Assert
		require.Error(t, err)

		var typeErr *json.UnsupportedTypeError
		assert.ErrorAs(t, err, &typeErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Redis error is wrapped", func(t *testing.T) {
		// Arrange
		redisCache, mock, _ := setup(t)
		redisErr := errors.New("READONLY replica")
		mock.ExpectSet(key, payload, time.Minute).SetErr(redisErr)

		// Act
		err := redisCache.Set(ctx, key, product, time.Minute)

		// Assert
		require.Error(t, err)
		assert.ErrorIs(t, err, redisErr)
	})
}

func TestDelete(t *testing.T) {
	ctx := t.Context()
	key := cache.Key(cache.CartKeyPrefix, "3", "42")

	t.Run("Success", func(t *testing.T) {
		redisCache, mock, _ := setup(t)
		mock.ExpectDel(key).SetVal(1)

		require.NoError(t, redisCache.Delete(ctx, key))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Redis error is wrapped", func(t *testing.T) {
		redisCache, mock, _ := setup(t)
		redisErr := errors.New("DEL failed")
		mock.ExpectDel(key).SetErr(redisErr)

		err := redisCache.Delete(ctx, key)

		require.Error(t, err)
		assert.ErrorIs(t, err, redisErr)
	})
}

func TestKey(t *testing.T) {
	assert.Equal(t, "pos:cart:3:42", cache.Key(cache.CartKeyPrefix, "3", "42"))
	assert.Equal(t, "pos:product:7", cache.Key(cache.ProductKeyPrefix, "7"))
	assert.Equal(t, "pos:product:sku:PRF-001", cache.Key(cache.ProductSKUKeyPrefix, "PRF-001"))
	assert.Equal(t, "pos:product:", cache.Key(cache.ProductKeyPrefix))
}
