// File: utils/cache.go
package utils

import (
	"context"
	"fmt"
	"time"

	"appointly/config"

	"github.com/go-redis/redis/v8"
)

// RedisClient is shared by the health monitor; the queue uses its own asynq connection.
var RedisClient *redis.Client

// InitRedis connects to the Redis instance backing the dispatch queue.
func InitRedis(ctx context.Context) error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	RedisClient = client
	return nil
}

// CloseRedis releases RedisClient if it was opened.
func CloseRedis() {
	if RedisClient != nil {
		RedisClient.Close()
		RedisClient = nil
	}
}
