package utils

import (
	"context"
	"time"

	"sanket/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// SessionCacheClient is the redis client holding persisted sign-ins.
var SessionCacheClient *redis.Client

// InitSessionCache connects to redis when REDIS_ADDR is configured. It
// returns nil when sessions should stay in memory.
func InitSessionCache() *redis.Client {
	if config.AppConfig.RedisAddr == "" {
		GetLogger().Info("REDIS_ADDR not set; sessions are kept in memory")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSessionDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		GetLogger().Fatal("Failed to connect to Redis (Sessions)", zap.Error(err))
	}
	SessionCacheClient = client
	return client
}
