package utils

import (
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"

	"province-map/internal/logger"
)

// OpenRedisFromEnv：按 REDIS_HOST/PORT/PASS/DB 打开客户端
// 约束：REDIS_DB 解析失败时回退到 0；客户端惰性连接，调用方自行 Ping
func OpenRedisFromEnv() *redis.Client {
	addr := envOr("REDIS_HOST", "127.0.0.1") + ":" + envOr("REDIS_PORT", "6379")
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			db = n
		}
	}
	logger.L().Debug("redis_env", "addr", addr, "db", db)
	return redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASS"), DB: db})
}
