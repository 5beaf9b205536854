// 包 api：集中注册地图 HTTP 接口与交互会话，主入口只负责挂载到 API_BASE
package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"math"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"province-map/internal/boundary"
	"province-map/internal/colormap"
	"province-map/internal/logger"
	"province-map/internal/metrics"
	"province-map/internal/pathbuild"
	"province-map/internal/projection"
	"province-map/internal/render"
	"province-map/internal/store"
	"province-map/internal/viewport"
)

// 文档注释：接口依赖
// 约束：除 Store 与 ReloadStats 外均为必填；共享数据只读，会话各自持有控制器。
type Deps struct {
	Source    *boundary.Source
	Paths     *pathbuild.Cache
	Projector *projection.Projector
	Tables    *colormap.Dynamic
	Limits    viewport.Limits

	// 可选：记录渲染次数
	Store *store.Store
	// 可选：重新加载统计数据，需 ADMIN_TOKEN
	ReloadStats func(context.Context) error
	// websocket 允许的来源；为空时只接受同源
	Origins []string
}

func (d Deps) canvas() projection.Canvas { return d.Projector.Config().Canvas() }

// scene：几何未就绪时返回 false
func (d Deps) scene(ctx context.Context) (render.Scene, bool) {
	set, ok := d.Source.Set()
	if !ok {
		return render.Scene{}, false
	}
	return render.Scene{
		Names:  set.Names(),
		Paths:  d.Paths.Paths(ctx, set, d.Projector),
		Canvas: d.canvas(),
		Table:  d.Tables.Table(),
	}, true
}

// view：按控制器当前状态生成视图，未就绪时生成占位视图
func (d Deps) view(ctx context.Context, c *viewport.Controller) render.View {
	sc, ok := d.scene(ctx)
	if !ok {
		metrics.LoadingRendersTotal.Inc()
		return render.LoadingView(d.canvas(), c)
	}
	return sc.View(c)
}

// 构建并返回 API 路由：独立 ServeMux 便于在主入口挂载到 API 前缀
func BuildRoutes(d Deps) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/map.svg", func(w http.ResponseWriter, r *http.Request) {
		t0 := time.Now()
		c, err := controllerFromQuery(d.Limits, r.URL.Query())
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		v := d.view(r.Context(), c)
		w.Header().Set("content-type", "image/svg+xml; charset=utf-8")
		w.Header().Set("cache-control", "no-store")
		if v.Loading {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		if err := render.WriteSVG(w, v); err != nil {
			logger.L().Debug("svg_write_error", "err", err)
		}
		d.observe(r.Context(), "svg", t0, v.Loading)
	})
	mux.HandleFunc("/map", func(w http.ResponseWriter, r *http.Request) {
		t0 := time.Now()
		c, err := controllerFromQuery(d.Limits, r.URL.Query())
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		v := d.view(r.Context(), c)
		status := http.StatusOK
		if v.Loading {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, v)
		d.observe(r.Context(), "json", t0, v.Loading)
	})
	mux.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		tbl := d.Tables.Table()
		rows := tbl.Sorted(tbl.Search(r.URL.Query().Get("q")))
		writeJSON(w, http.StatusOK, map[string]any{"regions": rows, "totals": tbl.Totals()})
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		m := map[string]any{
			"geometry_loaded": false,
			"features":        0,
			"stats":           d.Tables.Table().Len(),
		}
		if set, ok := d.Source.Set(); ok {
			m["geometry_loaded"] = true
			m["features"] = set.Len()
		}
		if d.Store != nil {
			if u, err := d.Store.GetUsage(r.Context()); err == nil {
				m["renders"] = u
			} else {
				logger.L().Debug("db_usage_error", "err", err)
			}
		}
		writeJSON(w, http.StatusOK, m)
	})
	mux.HandleFunc("/reload-stats", func(w http.ResponseWriter, r *http.Request) {
		if d.ReloadStats == nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		t, want := r.Header.Get("x-admin-token"), adminToken()
		if t == "" || want == "" || subtle.ConstantTimeCompare([]byte(t), []byte(want)) != 1 {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if err := d.ReloadStats(r.Context()); err != nil {
			logger.L().Error("stats_reload_error", "err", err)
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		logger.L().Info("stats_reloaded", "rows", d.Tables.Table().Len())
		w.WriteHeader(http.StatusNoContent)
	})
	mux.Handle("/ws", newSessionHandler(d))
	return mux
}

// observe：渲染指标；配置了数据库时累计每日渲染次数
func (d Deps) observe(ctx context.Context, format string, t0 time.Time, loading bool) {
	metrics.RendersTotal.WithLabelValues(format).Inc()
	metrics.RenderDurationMs.WithLabelValues(format).Observe(float64(time.Since(t0).Milliseconds()))
	if d.Store == nil || loading {
		return
	}
	if err := d.Store.IncrRenders(ctx, format); err != nil {
		logger.L().Debug("db_incr_renders_error", "err", err)
	}
}

// 文档注释：由查询参数重建一次性控制器
// 参数：mode、zoom、dx、dy、selected、hovered、q；未给出的项取初始状态。
// 约束：zoom 超出范围时静默限制；mode 非法或数值无法解析时返回错误。
func controllerFromQuery(l viewport.Limits, q url.Values) (*viewport.Controller, error) {
	c := viewport.New(l)
	if m := q.Get("mode"); m != "" {
		if _, err := c.SetMode(colormap.Mode(m)); err != nil {
			return nil, err
		}
	}
	t := viewport.Identity()
	var err error
	if t.Zoom, err = floatParam(q, "zoom", 1); err != nil {
		return nil, err
	}
	if t.Pan.X, err = floatParam(q, "dx", 0); err != nil {
		return nil, err
	}
	if t.Pan.Y, err = floatParam(q, "dy", 0); err != nil {
		return nil, err
	}
	c.SetTransform(t)
	c.Click(q.Get("selected"))
	c.RegionEnter(q.Get("hovered"))
	c.SetSearch(q.Get("q"))
	return c, nil
}

func floatParam(q url.Values, k string, def float64) (float64, error) {
	s := q.Get(k)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &paramError{name: k, value: s}
	}
	return v, nil
}

func adminToken() string { return os.Getenv("ADMIN_TOKEN") }

type paramError struct{ name, value string }

func (e *paramError) Error() string { return "invalid " + e.name + ": " + strconv.Quote(e.value) }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
