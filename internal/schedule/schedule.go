// 包 schedule：服务进程内的后台定时任务
package schedule

import (
	"context"
	"os"
	"time"

	"province-map/internal/logger"
)

// IntervalFromEnv：读取 time.ParseDuration 格式的间隔；未设置或非法时返回 0 表示不调度
func IntervalFromEnv(key string) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return 0
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		logger.L().Error("schedule_interval_invalid", "key", key, "value", s)
		return 0
	}
	return d
}

// 文档注释：按固定间隔执行任务
// 背景：统计管线定期产出新数据，服务按间隔重新加载；错误只记录日志，下次继续调度。
// 约束：首次执行在一个间隔之后；上一次未结束时不会并发执行；ctx 取消后退出。
func Every(ctx context.Context, interval time.Duration, name string, fn func(context.Context) error) {
	if interval <= 0 {
		return
	}
	l := logger.L()
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
			}
			l.Debug("schedule_run", "task", name)
			if err := fn(ctx); err != nil {
				l.Error("schedule_error", "task", name, "err", err)
			} else {
				l.Info("schedule_done", "task", name)
			}
		}
	}()
}
