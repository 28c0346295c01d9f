package repository

import (
	"time"

	"github.com/aaravmahajanofficial/dutyfree-pos/internal/config"
	"github.com/redis/go-redis/v9"
)

func NewCheckoutThrottleAt(client *redis.Client, cfg config.RateConfig, now func() time.Time) CheckoutThrottle {
	return &redisThrottle{client: client, cfg: cfg, now: now}
}
