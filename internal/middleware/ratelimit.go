// 包 middleware：入口限流与跨域
package middleware

import (
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"province-map/internal/logger"
)

// 文档注释：令牌桶限流（按秒重置）
// 背景：SVG 渲染占用 CPU，峰值时对入口限速；不排队，超额直接返回 429。
type TokenBucket struct {
	capacity int
	tokens   int
	lastSec  int64
	mu       sync.Mutex
	now      func() time.Time
}

func NewTokenBucket(qps int) *TokenBucket {
	return &TokenBucket{capacity: qps, tokens: qps, lastSec: time.Now().Unix(), now: time.Now}
}

func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	nowSec := tb.now().Unix()
	if tb.lastSec != nowSec {
		tb.lastSec = nowSec
		tb.tokens = tb.capacity
	}
	if tb.tokens > 0 {
		tb.tokens--
		return true
	}
	return false
}

// RateLimit：令牌耗尽时返回 429
func RateLimit(tb *TokenBucket) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !tb.Allow() {
				logger.L().Debug("rate_limited", "path", r.URL.Path)
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Wrap：按环境变量组装中间件链（CORS 在外层，预检请求不消耗令牌）
func Wrap(next http.Handler, origins []string) http.Handler {
	h := next
	if os.Getenv("RATE_LIMIT_ENABLED") == "true" {
		qps := 200
		if s := os.Getenv("RATE_LIMIT_QPS"); s != "" {
			if n, e := strconv.Atoi(s); e == nil && n > 0 {
				qps = n
			}
		}
		logger.L().Info("rate_limit_enabled", "qps", qps)
		h = RateLimit(NewTokenBucket(qps))(h)
	}
	return CORS(origins)(h)
}
