// 包 migrate：统计表结构的幂等建表
package migrate

import (
	"context"
	"database/sql"
	"fmt"

	"province-map/internal/logger"
)

// Statements：建表语句，按顺序执行
var Statements = []string{
	`CREATE TABLE IF NOT EXISTS _region_stats (
		name_en TEXT PRIMARY KEY,
		name_local TEXT NOT NULL DEFAULT '',
		total INT NOT NULL DEFAULT 0,
		suspicious INT NOT NULL DEFAULT 0,
		dominant_label TEXT NOT NULL DEFAULT '',
		dominant_code TEXT NOT NULL DEFAULT '',
		dominant_color TEXT NOT NULL DEFAULT '',
		dominant_count INT NOT NULL DEFAULT 0,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS _region_category_counts (
		name_en TEXT NOT NULL REFERENCES _region_stats(name_en) ON DELETE CASCADE,
		code TEXT NOT NULL,
		label TEXT NOT NULL DEFAULT '',
		color TEXT NOT NULL DEFAULT '',
		count INT NOT NULL DEFAULT 0,
		position INT NOT NULL DEFAULT 0,
		PRIMARY KEY (name_en, code)
	)`,
	`CREATE TABLE IF NOT EXISTS _map_renders_daily (
		day DATE NOT NULL,
		format TEXT NOT NULL,
		renders BIGINT NOT NULL DEFAULT 0,
		PRIMARY KEY (day, format)
	)`,
}

// 背景：首次运行自动建表，导入工具与服务共用
// 约束：只使用 IF NOT EXISTS，不修改既有结构
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, s := range Statements {
		logger.L().Debug("schema_exec", "idx", i)
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	logger.L().Debug("schema_done")
	return nil
}
