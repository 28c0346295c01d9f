package utils

import (
	"context"
	"time"
)

const (
	DefaultDBTimeout    = 5 * time.Second
	DefaultCacheTimeout = 500 * time.Millisecond
)

func WithDBTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, DefaultDBTimeout)
}

// WithCacheTimeout bounds best-effort cache calls so a slow Redis never stalls a scan.
func WithCacheTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, DefaultCacheTimeout)
}
