package utils

import (
	"context"
	"fmt"
	"os"

	"github.com/go-redis/redis/v8"
)

// IsRedisConfigured returns true iff a redis host is provided by env.
func IsRedisConfigured() bool {
	return os.Getenv("REDIS_HOST") != ""
}

// GetRedisClient connects to the redis specified by env and pings it once so
// that misconfiguration is surfaced at startup rather than on first use.
func GetRedisClient(ctx context.Context) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT")),
		Password: os.Getenv("REDIS_PASSWD"),
		DB:       0, // use default DB
	})
	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		redisClient.Close()
		return nil, err
	}
	return redisClient, nil
}
