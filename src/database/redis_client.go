package database

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

// InitRedis returns nil when REDIS_URI is unset or unreachable; callers fall
// back to in-process state in that case.
func InitRedis(ctx context.Context, addr string) *redis.Client {
	if addr == "" {
		log.Println("⚠️ REDIS_URI not set. Running without Redis.")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "",
		DB:       0,
	})
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Printf("⚠️ Failed to connect Redis at %s: %v", addr, err)
		_ = client.Close()
		return nil
	}
	log.Println("✅ Redis connected successfully")
	return client
}
