package utils

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
)

var (
	redisClient *redis.Client
	redisCtx    = context.Background()
)

// InitRedis connects the optional cache. Callers treat a nil client as
// "cache disabled" and fall back to the database.
func InitRedis() error {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", host, port),
		Password:     os.Getenv("REDIS_PASSWORD"),
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	if _, err := client.Ping(redisCtx).Result(); err != nil {
		return fmt.Errorf("failed to connect to redis at %s:%s: %w", host, port, err)
	}

	redisClient = client
	return nil
}

func CacheSet(key, value string, expiration time.Duration) error {
	if redisClient == nil {
		return fmt.Errorf("redis client not initialized")
	}
	return redisClient.Set(redisCtx, key, value, expiration).Err()
}

func CacheGet(key string) (string, error) {
	if redisClient == nil {
		return "", fmt.Errorf("redis client not initialized")
	}
	val, err := redisClient.Get(redisCtx, key).Result()
	if err == redis.Nil {
		return "", fmt.Errorf("key not found")
	}
	return val, err
}

func CacheDelete(key string) error {
	if redisClient == nil {
		return nil
	}
	return redisClient.Del(redisCtx, key).Err()
}

func CloseRedis() error {
	if redisClient != nil {
		return redisClient.Close()
	}
	return nil
}
