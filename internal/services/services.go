package services

import (
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lk16/mines/internal/config"
	"github.com/redis/go-redis/v9"
)

// Services contains the connections to the external services.
type Services struct {
	Postgres *sqlx.DB
	Redis    *redis.Client
}

func InitServices(cfg *config.ServerConfig) (*Services, error) {
	postgres, err := InitPostgres(cfg.PostgresURL)
	if err != nil {
		return nil, err
	}

	redis, err := InitRedis(cfg.RedisURL)
	if err != nil {
		return nil, errors.Join(err, postgres.Close())
	}

	return &Services{
		Postgres: postgres,
		Redis:    redis,
	}, nil
}

// Shutdown closes all connections. Services must not implement io.Closer, fasthttp closes every
// io.Closer in the request Locals when a request ends.
func (s *Services) Shutdown() error {
	return errors.Join(s.Postgres.Close(), s.Redis.Close())
}
