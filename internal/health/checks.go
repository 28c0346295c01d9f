package health

import (
	"context"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/dutyfree-pos/internal/config"
	"github.com/hellofresh/health-go/v5"
	"github.com/hellofresh/health-go/v5/checks/postgres"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
)

// Pinger is satisfied by the back-office client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewHealthHandler reports Postgres and Redis as hard dependencies. The
// back-office check is soft: carts still work from cache while it is down.
func NewHealthHandler(cfg *config.Config, version string, backoffice Pinger) (*health.Health, error) {

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    cfg.Otel.ServiceName,
			Version: version,
		}),
		health.WithSystemInfo(),
		health.WithChecks(
			health.Config{
				Name:    "settlement-journal",
				Timeout: 3 * time.Second,
				Check: postgres.New(postgres.Config{
					DSN: cfg.Database.GetDSN(),
				}),
			},
			health.Config{
				Name:    "redis",
				Timeout: 2 * time.Second,
				Check: healthRedis.New(healthRedis.Config{
					DSN: cfg.RedisConnect.GetDSN(),
				}),
			},
			health.Config{
				Name:      "backoffice",
				Timeout:   5 * time.Second,
				SkipOnErr: true,
				Check: func(ctx context.Context) error {
					if backoffice == nil {
						return fmt.Errorf("backoffice client is not initialized")
					}

					return backoffice.Ping(ctx)
				},
			},
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}
