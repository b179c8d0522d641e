package storage

import (
	"context"
	"fmt"

	"github.com/marcelsud/payment-relay/config"
	"github.com/marcelsud/payment-relay/payment"
	"github.com/marcelsud/payment-relay/payment/postgres"
	"github.com/marcelsud/payment-relay/payment/redis"
)

/* Open connects to the configured payment store
 * The binaries under cmd/ share this so they agree on pool settings and on
 * whether the postgres schema is created at startup.
 */
func Open(ctx context.Context, cfg *config.Config) (payment.Repository, error) {
	switch cfg.Backend() {
	case payment.Redis:
		repo, err := redis.NewRepository(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("opening redis store: %w", err)
		}
		return repo, nil
	default:
		repo, err := postgres.NewRepositoryWithPoolConfig(
			cfg.DatabaseURL,
			cfg.PostgresMaxOpenConns,
			cfg.PostgresMaxIdleConns,
			cfg.PostgresConnMaxLifeMinutes,
		)
		if err != nil {
			return nil, fmt.Errorf("opening postgres store: %w", err)
		}
		if cfg.PostgresAutoMigrate {
			if err := repo.CreateTable(ctx); err != nil {
				repo.Close(ctx)
				return nil, fmt.Errorf("migrating postgres store: %w", err)
			}
		}
		return repo, nil
	}
}
