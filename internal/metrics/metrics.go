package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RendersTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "provmap_renders_total",
		Help: "Total number of map renders by output format",
	}, []string{"format"})
	RenderDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "provmap_render_duration_ms",
		Help:    "Map render duration in milliseconds",
		Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 200, 500},
	}, []string{"format"})
	LoadingRendersTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "provmap_loading_renders_total",
		Help: "Renders served as loading placeholder because geometry is not ready",
	})
	PathCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "provmap_path_cache_hits_total",
		Help: "In-process region path cache hits",
	})
	PathCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "provmap_path_cache_misses_total",
		Help: "In-process region path cache rebuilds",
	})
	RedisHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "provmap_redis_hits_total",
		Help: "Region path hits in redis",
	})
	RedisMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "provmap_redis_misses_total",
		Help: "Region path misses in redis",
	})
	GeometryLoaded = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "provmap_geometry_loaded",
		Help: "1 when the boundary dataset is loaded, 0 while loading",
	})
	GeometryFeatures = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "provmap_geometry_features",
		Help: "Number of boundary features in the loaded dataset",
	})
	GeometryLoadFailTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "provmap_geometry_load_fail_total",
		Help: "Boundary dataset load failures",
	})
	WSSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "provmap_ws_sessions",
		Help: "Open interactive websocket sessions",
	})
	EventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "provmap_events_total",
		Help: "Interaction events by type and whether they changed the view",
	}, []string{"type", "changed"})
)

func init() {
	prometheus.MustRegister(RendersTotal)
	prometheus.MustRegister(RenderDurationMs)
	prometheus.MustRegister(LoadingRendersTotal)
	prometheus.MustRegister(PathCacheHitsTotal)
	prometheus.MustRegister(PathCacheMissesTotal)
	prometheus.MustRegister(RedisHitsTotal)
	prometheus.MustRegister(RedisMissesTotal)
	prometheus.MustRegister(GeometryLoaded)
	prometheus.MustRegister(GeometryFeatures)
	prometheus.MustRegister(GeometryLoadFailTotal)
	prometheus.MustRegister(WSSessions)
	prometheus.MustRegister(EventsTotal)
}

// 文档注释：返回 Prometheus 指标监听器，在主入口挂载到 <API_BASE>/metrics
func Handler() http.Handler { return promhttp.Handler() }
