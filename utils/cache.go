// File: utils/cache.go
package utils

import (
	"context"
	"sync"
	"time"

	"bookpilot/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

var (
	sessionCacheClient *redis.Client
	sessionCacheOnce   sync.Once
)

// GetSessionCacheClient returns the Redis client backing the proposal
// session cache, or nil when Redis is not configured or unreachable.
// A nil client is a valid mode: the session store then keeps proposals
// in memory instead.
func GetSessionCacheClient() *redis.Client {
	sessionCacheOnce.Do(func() {
		if !config.RedisConfigured() {
			return
		}
		client := redis.NewClient(&redis.Options{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisSessionDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			GetLogger().Warn("Redis unreachable, proposal sessions will be kept in memory",
				zap.String("addr", config.AppConfig.RedisAddr), zap.Error(err))
			return
		}
		sessionCacheClient = client
	})
	return sessionCacheClient
}
