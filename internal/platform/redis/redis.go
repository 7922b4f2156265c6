package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/amfitom1ne123-maker/UV/internal/common/config"
)

// New создаёт клиент Redis по конфигурации и проверяет соединение.
func New(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
