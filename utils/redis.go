package utils

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/greenroots/greenroots-backend/config"
)

var (
	RedisClient *redis.Client
	Ctx         = context.Background()
)

// InitRedis connects the shared Redis client and verifies it with a PING
func InitRedis(cfg *config.Config) error {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(Ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
	}

	RedisClient = client
	log.Printf("✅ Connected to Redis at %s", cfg.RedisAddr)
	return nil
}

// CloseRedis closes the shared client if it was opened
func CloseRedis() {
	if RedisClient != nil {
		_ = RedisClient.Close()
	}
}
