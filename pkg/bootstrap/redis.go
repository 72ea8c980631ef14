package bootstrap

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/Goden-Gun/vis-server/pkg/config"

	log "github.com/Goden-Gun/vis-server/pkg/logger"
)

// InitRedis builds a Redis client and verifies the connection.
func InitRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.Db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		log.Errorf("redis init failed: %v", err)
		return nil, err
	}

	log.Info("redis initialized successfully")
	return client, nil
}
