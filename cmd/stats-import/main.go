package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"province-map/internal/logger"
	"province-map/internal/migrate"
	"province-map/internal/stats"
	"province-map/internal/store"
	"province-map/internal/utils"
)

// 文档注释：统计文件导入工具
// 背景：统计管线产出 JSON 文件，服务以 STATS_SOURCE=postgres 运行时从数据库读取；本工具负责校验并整表写入。
// 用法：stats-import [--env file.env] [--dry-run] [stats.json]，未给出文件时读取 STATS_PATH。
// 约束：文件未通过 JSON Schema 校验时不写库；写入在单个事务内完成。
func main() {
	var envFile, path string
	dryRun := false
	for i := 1; i < len(os.Args); i++ {
		switch a := os.Args[i]; {
		case a == "--env" && i+1 < len(os.Args):
			envFile = os.Args[i+1]
			i++
		case a == "--dry-run":
			dryRun = true
		case strings.HasSuffix(a, ".env"):
			envFile = a
		default:
			path = a
		}
	}
	if envFile != "" {
		_ = godotenv.Load(envFile)
	} else {
		_ = godotenv.Load(".env")
	}
	l := logger.Setup()
	if path == "" {
		path = os.Getenv("STATS_PATH")
	}
	if path == "" {
		path = filepath.Join("data", "stats", "provinces.json")
	}
	rows, err := stats.LoadFile(path)
	if err != nil {
		l.Error("stats_file_error", "path", path, "err", err)
		os.Exit(1)
	}
	l.Info("stats_file_ok", "path", path, "rows", len(rows))
	if dryRun {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
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
	if err := migrate.EnsureSchema(ctx, db); err != nil {
		l.Error("schema_error", "err", err)
		os.Exit(1)
	}
	t0 := time.Now()
	if err := store.AttachDB(db).UpsertRegionStats(ctx, rows); err != nil {
		l.Error("stats_import_error", "err", err)
		os.Exit(1)
	}
	l.Info("stats_import_success", "rows", len(rows), "ms", time.Since(t0).Milliseconds())
}
