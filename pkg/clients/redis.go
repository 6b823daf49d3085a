package clients

import (
	"context"

	"github.com/eshop-tech/store-backend/internal/cfg"
	"github.com/eshop-tech/store-backend/pkg/e"
	"github.com/redis/go-redis/v9"
)

// RedisClient оборачивает go-redis клиент, настроенный из конфигурации.
type RedisClient struct {
	Client *redis.Client
}

func NewRedisClient(cfg *cfg.RedisCfg) *RedisClient {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Username:     cfg.User,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})

	return &RedisClient{Client: client}
}

func (r *RedisClient) Ping(ctx context.Context) error {
	const op = "RedisClient.Ping"

	if err := r.Client.Ping(ctx).Err(); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}
