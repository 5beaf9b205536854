// 程序入口：仅负责读取配置、初始化依赖并启动服务；API 注册在 internal/api
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"province-map/internal/api"
	"province-map/internal/boundary"
	"province-map/internal/colormap"
	"province-map/internal/config"
	"province-map/internal/logger"
	"province-map/internal/metrics"
	"province-map/internal/middleware"
	"province-map/internal/migrate"
	"province-map/internal/pathbuild"
	"province-map/internal/projection"
	"province-map/internal/schedule"
	"province-map/internal/stats"
	"province-map/internal/store"
	"province-map/internal/utils"
	"province-map/internal/version"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	l := logger.Setup()
	l.Debug("log_init_ok")

	cfg, err := config.FromEnv()
	if err != nil {
		l.Error("config_error", "err", err)
		os.Exit(1)
	}
	l.Debug("config_loaded", "api_base", cfg.APIBase, "geometry", cfg.GeometryLocation, "stats_source", cfg.StatsSource)
	proj, err := projection.New(cfg.Map.Projection)
	if err != nil {
		l.Error("projection_error", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	var st *store.Store
	if cfg.StatsSource == config.StatsFromPostgres {
		db, err := utils.OpenPostgresFromEnv()
		if err != nil {
			l.Error("db_open_error", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			l.Error("db_ping_error", "err", err)
			os.Exit(1)
		}
		l.Info("db_ping_ok")
		if err := migrate.EnsureSchema(ctx, db); err != nil {
			l.Error("schema_error", "err", err)
			os.Exit(1)
		}
		st = store.AttachDB(db)
	}

	// 统计联接表：启动时加载一次，之后可通过 /reload-stats 热替换
	tables := colormap.NewDynamic(nil)
	reload := func(ctx context.Context) error {
		rows, err := loadStats(ctx, cfg, st)
		if err != nil {
			return err
		}
		tbl, err := colormap.NewTable(rows, cfg.Map.Palette)
		if err != nil {
			return err
		}
		tables.Set(tbl)
		return nil
	}
	if err := reload(ctx); err != nil {
		l.Error("stats_load_error", "err", err)
		os.Exit(1)
	}
	l.Info("stats_load_ok", "rows", tables.Table().Len())
	schedule.Every(ctx, schedule.IntervalFromEnv("STATS_REFRESH_INTERVAL"), "stats_refresh", reload)

	// 可选：Redis 作为二级路径缓存，多实例共享已生成的路径
	var l2 pathbuild.Store
	if cfg.RedisEnabled {
		rc := utils.OpenRedisFromEnv()
		if err := rc.Ping(ctx).Err(); err != nil {
			l.Error("redis_ping_error", "err", err)
		} else {
			l.Info("redis_ping_ok")
			l2 = pathbuild.NewRedisStore(rc, redisTTL())
		}
	} else {
		l.Info("redis_disabled")
	}
	paths := pathbuild.NewCache(l2)

	// 几何数据后台加载；完成前接口返回加载占位，完成后预先生成全部路径
	client := &http.Client{Timeout: 30 * time.Second}
	src := boundary.NewSource(boundary.Loader(cfg.GeometryLocation, client))
	done := src.Start(ctx)
	go func() {
		<-done
		if set, ok := src.Set(); ok {
			paths.Paths(ctx, set, proj)
		}
	}()

	d := api.Deps{
		Source:      src,
		Paths:       paths,
		Projector:   proj,
		Tables:      tables,
		Limits:      cfg.Map.Zoom,
		Store:       st,
		ReloadStats: reload,
		Origins:     cfg.CORSOrigins,
	}
	mux := http.NewServeMux()
	mux.Handle(cfg.APIBase+"/", http.StripPrefix(cfg.APIBase, api.BuildRoutes(d)))
	mux.Handle(cfg.APIBase+"/metrics", metrics.Handler())
	mux.Handle("/", http.FileServer(http.Dir(cfg.UIDir)))
	// NOTE: 向前端暴露 API 基础路径与画布尺寸，避免硬编码
	mux.HandleFunc("/config.js", func(w http.ResponseWriter, r *http.Request) {
		c := proj.Config().Canvas()
		w.Header().Set("content-type", "application/javascript; charset=utf-8")
		w.Header().Set("cache-control", "no-store")
		fmt.Fprintf(w, "window.__API_BASE__=%s\n", strconv.Quote(cfg.APIBase))
		fmt.Fprintf(w, "window.__MAP_CANVAS__={w:%v,h:%v}\n", c.W, c.H)
		fmt.Fprintf(w, "window.__COMMIT_SHA__=%s\n", strconv.Quote(version.Commit))
	})

	handler := logger.AccessMiddleware(l)(mux)
	handler = middleware.Wrap(handler, cfg.CORSOrigins)
	s := &http.Server{Addr: cfg.Addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	if cfg.TLSEnable {
		if err := utils.EnsureSelfSignedCert(cfg.TLSCertPath, cfg.TLSKeyPath, "province-map.local"); err != nil {
			l.Error("tls_cert_error", "err", err)
			os.Exit(1)
		}
		l.Info("listening_tls", "addr", cfg.Addr, "cert", cfg.TLSCertPath)
		if err := s.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath); err != nil {
			l.Error("server_error", "err", err)
			os.Exit(1)
		}
		return
	}
	l.Info("listening", "addr", cfg.Addr, "commit", version.Commit)
	if err := s.ListenAndServe(); err != nil {
		l.Error("server_error", "err", err)
		os.Exit(1)
	}
}

// loadStats：按 STATS_SOURCE 从文件或数据库读取统计表
func loadStats(ctx context.Context, cfg config.Config, st *store.Store) ([]stats.RegionStat, error) {
	if cfg.StatsSource == config.StatsFromPostgres {
		if st == nil {
			return nil, fmt.Errorf("stats source postgres: store not configured")
		}
		return st.LoadRegionStats(ctx)
	}
	return stats.LoadFile(cfg.StatsPath)
}

// redisTTL：REDIS_PATH_TTL_SECONDS，非法或未设置时由 RedisStore 取默认值
func redisTTL() time.Duration {
	if s := os.Getenv("REDIS_PATH_TTL_SECONDS"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return 0
}
