package pathbuild

import (
	"context"
	"strconv"
	"sync"

	"province-map/internal/boundary"
	"province-map/internal/logger"
	"province-map/internal/metrics"
	"province-map/internal/projection"
)

// Store：二级路径缓存（可选，如 Redis）；Load 只返回命中的键
type Store interface {
	Load(ctx context.Context, keys []string) map[string]string
	Save(ctx context.Context, kv map[string]string)
}

// Paths：区域名到路径的只读映射
type Paths map[string]string

// cacheKey：几何指纹加完整投影标定（包围盒与画布），任一变化都使路径失效
type cacheKey struct {
	fingerprint uint64
	proj        projection.Config
}

// 文档注释：区域路径缓存
// 约束：仅在几何数据集或投影标定（包围盒、画布尺寸）变化时重建；交互（平移/缩放/悬停/选择）不会触发重建。
// 返回的 Paths 发布后不再修改，可被多个会话共享读取。
type Cache struct {
	mu    sync.Mutex
	key   cacheKey
	paths Paths
	l2    Store
}

func NewCache(l2 Store) *Cache { return &Cache{l2: l2} }

func (c *Cache) Paths(ctx context.Context, set *boundary.Set, proj *projection.Projector) Paths {
	k := cacheKey{fingerprint: set.Fingerprint, proj: proj.Config()}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paths != nil && c.key == k {
		metrics.PathCacheHitsTotal.Inc()
		return c.paths
	}
	metrics.PathCacheMissesTotal.Inc()
	c.paths = c.build(ctx, set, proj, k)
	c.key = k
	return c.paths
}

func (c *Cache) build(ctx context.Context, set *boundary.Set, proj *projection.Projector, k cacheKey) Paths {
	out := make(Paths, set.Len())
	var cached map[string]string
	keys := make([]string, 0, set.Len())
	if c.l2 != nil {
		for _, f := range set.Features {
			keys = append(keys, storeKey(k, f.Name))
		}
		cached = c.l2.Load(ctx, keys)
	}
	b := NewBuilder(proj)
	missing := make(map[string]string)
	for i, f := range set.Features {
		if c.l2 != nil {
			if p, ok := cached[keys[i]]; ok {
				out[f.Name] = p
				continue
			}
		}
		p := b.Build(f.Geometry)
		out[f.Name] = p
		if c.l2 != nil {
			missing[keys[i]] = p
		}
	}
	if c.l2 != nil && len(missing) > 0 {
		c.l2.Save(ctx, missing)
	}
	logger.L().Debug("path_cache_build", "features", set.Len(), "l2_hits", len(cached), "built", len(out)-len(cached), "w", k.proj.Width, "h", k.proj.Height)
	return out
}

func storeKey(k cacheKey, name string) string {
	c := k.proj
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return "regionpath:" +
		f(c.LonMin) + "," + f(c.LonMax) + "," + f(c.LatMin) + "," + f(c.LatMax) + ":" +
		f(c.Width) + "x" + f(c.Height) + ":" +
		strconv.FormatUint(k.fingerprint, 16) + ":" + name
}
