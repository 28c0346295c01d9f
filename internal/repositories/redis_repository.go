package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/aaravmahajanofficial/dutyfree-pos/internal/api/middleware"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/config"
	"github.com/redis/go-redis/v9"
)

// CheckoutThrottle bounds how many sale submissions one register may make
// inside a sliding window.
type CheckoutThrottle interface {
	Allow(ctx context.Context, cashRegisterID int64) (bool, time.Duration, error)
}

type redisThrottle struct {
	client *redis.Client
	cfg    config.RateConfig
	now    func() time.Time
}

func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {

	slog.Info("Connecting to Redis", slog.String("addr", cfg.RedisConnect.Addr()), slog.Int("db", cfg.RedisConnect.DB))

	opt, err := redis.ParseURL(cfg.RedisConnect.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opt.DB = cfg.RedisConnect.DB

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("Connected to Redis")

	return client, nil
}

func NewCheckoutThrottle(client *redis.Client, cfg config.RateConfig) CheckoutThrottle {
	return &redisThrottle{client: client, cfg: cfg, now: time.Now}
}

func ThrottleKey(cashRegisterID int64) string {
	return "pos:checkout_attempts:" + strconv.FormatInt(cashRegisterID, 10)
}

// Allow records the attempt and reports whether it fits in the window. When it
// does not, the returned duration is how long until the oldest attempt expires.
func (r *redisThrottle) Allow(ctx context.Context, cashRegisterID int64) (bool, time.Duration, error) {

	logger := middleware.LoggerFromContext(ctx)

	key := ThrottleKey(cashRegisterID)
	at := r.now()
	now := at.UnixMilli()
	window := r.cfg.WindowSize.Milliseconds()
	member := strconv.FormatInt(at.UnixNano(), 10)

	// attempts are a sorted set scored by millisecond timestamp
	pipe := r.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(now-window, 10))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: member})
	count := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, r.cfg.WindowSize)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("redis pipeline error for checkout throttle: %w", err)
	}

	attempts := count.Val()

	if attempts <= r.cfg.MaxAttempts {
		logger.Debug("Checkout throttle passed", slog.Int64("cashRegisterId", cashRegisterID), slog.Int64("attempts", attempts))
		return true, 0, nil
	}

	oldest, err := r.client.ZRangeWithScores(ctx, key, 0, 0).Result()
	if err != nil || len(oldest) == 0 {
		return false, r.cfg.WindowSize, fmt.Errorf("failed to get oldest checkout attempt: %w", err)
	}

	retryAfter := time.Duration(max(int64(oldest[0].Score)+window-now, 0)) * time.Millisecond

	logger.Warn("Checkout throttle exceeded", slog.Int64("cashRegisterId", cashRegisterID), slog.Int64("attempts", attempts), slog.Duration("retryAfter", retryAfter))

	return false, retryAfter, nil
}
