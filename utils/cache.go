// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"github.com/tmurray-at-tygershark/solushipX-sub005/config"

	"github.com/go-redis/redis/v8"
)

// SessionCacheClient holds draft editing sessions and booking attempt state.
var SessionCacheClient *redis.Client

// InitSessionCache initializes the Redis client used for draft sessions.
func InitSessionCache() {
	SessionCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSessionDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := SessionCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Sessions): %v", err)
	}
}

// GetSessionCacheClient returns the draft session cache client.
func GetSessionCacheClient() *redis.Client {
	if SessionCacheClient == nil {
		InitSessionCache()
	}
	return SessionCacheClient
}
