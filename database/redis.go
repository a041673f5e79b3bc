// file: database/redis.go
package database

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mauprogramador/ifms-dev-competition/utils"
)

// RDB 为 nil 时表示未配置 Redis，限流中间件会直接放行
var RDB *redis.Client
var Ctx = context.Background()

func InitRedis(cfg *utils.Config) {
	if cfg.RedisAddr == "" {
		log.Println("REDIS_ADDR not set, rate limiting disabled.")
		return
	}

	RDB = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		PoolSize: 100,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := RDB.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	log.Println("Redis connection successfully established.")
}
