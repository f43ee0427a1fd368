package database

import (
	"context"

	"style-learn-go/pkg/log"

	"github.com/go-redis/redis/v8"
)

var RDB *redis.Client

// InitRedis 初始化 Redis 客户端连接。
// Redis 仅作为会话上下文的热缓存，未配置时 RDB 保持为 nil，读写直接落库。
func InitRedis(addr, password string, db int) {
	if addr == "" {
		log.Info("未配置 Redis，会话上下文缓存关闭")
		return
	}

	RDB = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// 测试连接
	ctx := context.Background()
	if err := RDB.Ping(ctx).Err(); err != nil {
		log.Fatal("连接 Redis 失败", err)
	}

	log.Info("Redis 客户端连接成功")
}
