package boundary

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"province-map/internal/logger"
	"province-map/internal/metrics"
)

// 文档注释：边界数据源（一次性异步加载）
// 约束：加载完成前 Set 返回 false，调用方渲染加载占位；失败只记录日志，状态保持 loading，
// 由调用方再次调用 Start 重试。发布后的 Set 只读，读路径无锁。
type Source struct {
	v     atomic.Value // *Set
	load  func(context.Context) (*Set, error)
	ready chan struct{}
	once  sync.Once
}

func NewSource(load func(context.Context) (*Set, error)) *Source {
	return &Source{load: load, ready: make(chan struct{})}
}

// Ready：首次加载成功时关闭；加载失败不关闭
func (s *Source) Ready() <-chan struct{} { return s.ready }

// Set：已加载的数据集
func (s *Source) Set() (*Set, bool) {
	x := s.v.Load()
	if x == nil {
		return nil, false
	}
	return x.(*Set), true
}

func (s *Source) Loaded() bool {
	_, ok := s.Set()
	return ok
}

// Start：后台发起一次加载，返回的通道在本次尝试结束（成功或失败）时关闭
func (s *Source) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.loadOnce(ctx)
	}()
	return done
}

func (s *Source) loadOnce(ctx context.Context) {
	l := logger.L()
	t0 := time.Now()
	set, err := s.load(ctx)
	if err != nil {
		metrics.GeometryLoadFailTotal.Inc()
		l.Error("geometry_load_error", "err", err)
		return
	}
	s.v.Store(set)
	s.once.Do(func() { close(s.ready) })
	metrics.GeometryLoaded.Set(1)
	metrics.GeometryFeatures.Set(float64(set.Len()))
	l.Info("geometry_load_ok", "features", set.Len(), "ms", time.Since(t0).Milliseconds())
}
