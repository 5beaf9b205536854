package pathbuild

import (
	"context"
	"time"

	"province-map/internal/logger"
	"province-map/internal/metrics"

	"github.com/redis/go-redis/v9"
)

// RedisStore：路径二级缓存；rc 为 nil 时所有操作为空操作
type RedisStore struct {
	rc  *redis.Client
	ttl time.Duration
}

func NewRedisStore(rc *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{rc: rc, ttl: ttl}
}

func (s *RedisStore) Load(ctx context.Context, keys []string) map[string]string {
	out := make(map[string]string)
	if s.rc == nil || len(keys) == 0 {
		return out
	}
	vals, err := s.rc.MGet(ctx, keys...).Result()
	if err != nil {
		logger.L().Error("redis_path_load_error", "err", err)
		return out
	}
	for i, v := range vals {
		str, ok := v.(string)
		if !ok || str == "" {
			metrics.RedisMissesTotal.Inc()
			continue
		}
		metrics.RedisHitsTotal.Inc()
		out[keys[i]] = str
	}
	return out
}

func (s *RedisStore) Save(ctx context.Context, kv map[string]string) {
	if s.rc == nil || len(kv) == 0 {
		return
	}
	pipe := s.rc.Pipeline()
	for k, v := range kv {
		pipe.Set(ctx, k, v, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		logger.L().Error("redis_path_save_error", "err", err)
		return
	}
	logger.L().Debug("redis_path_save", "count", len(kv))
}
