package config

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is nil when REDIS_ADDR is unset; callers treat that as "no caching"
// rather than an error.
var Cache *redis.Client

func InitCache() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Printf("REDIS_ADDR not set, running without cache")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis ping failed, running without cache: %v", err)
		_ = client.Close()
		return
	}

	Cache = client
}
