// 包 store: PostgreSQL 数据访问层，读写区域统计并记录渲染次数
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"province-map/internal/logger"
	"province-map/internal/stats"
)

// Store: 持有连接池
type Store struct {
	db *sql.DB
}

func AttachDB(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) DB() *sql.DB { return s.db }

// LoadRegionStats: 读取全部区域统计及类别明细，按英文名排序
func (s *Store) LoadRegionStats(ctx context.Context) ([]stats.RegionStat, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name_en, name_local, total, suspicious,
		dominant_label, dominant_code, dominant_color, dominant_count
		FROM _region_stats ORDER BY name_en`)
	if err != nil {
		return nil, fmt.Errorf("query region stats: %w", err)
	}
	defer rows.Close()
	var out []stats.RegionStat
	idx := make(map[string]int)
	for rows.Next() {
		var r stats.RegionStat
		if err := rows.Scan(&r.NameEnglish, &r.NameLocal, &r.Total, &r.Suspicious,
			&r.DominantLabel, &r.DominantCode, &r.DominantColor, &r.DominantCount); err != nil {
			return nil, fmt.Errorf("scan region stat: %w", err)
		}
		idx[r.NameEnglish] = len(out)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	crows, err := s.db.QueryContext(ctx, `SELECT name_en, code, label, color, count
		FROM _region_category_counts ORDER BY name_en, position`)
	if err != nil {
		return nil, fmt.Errorf("query category counts: %w", err)
	}
	defer crows.Close()
	for crows.Next() {
		var name string
		var c stats.CategoryCount
		if err := crows.Scan(&name, &c.Code, &c.Label, &c.Color, &c.Count); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		if i, ok := idx[name]; ok {
			out[i].Breakdown = append(out[i].Breakdown, c)
		}
	}
	if err := crows.Err(); err != nil {
		return nil, err
	}
	logger.L().Debug("db_region_stats_loaded", "rows", len(out))
	return out, nil
}

// 文档注释：批量写入区域统计
// 背景：导入工具整表覆盖写入；同名区域更新字段并替换类别明细。
// 约束：单个事务内完成，任一记录失败整体回滚。
func (s *Store) UpsertRegionStats(ctx context.Context, rows []stats.RegionStat) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	stmtStat, err := tx.PrepareContext(ctx, `INSERT INTO _region_stats(name_en, name_local, total, suspicious,
		dominant_label, dominant_code, dominant_color, dominant_count, updated_at)
		VALUES($1,$2,$3,$4,$5,$6,$7,$8,now())
		ON CONFLICT (name_en) DO UPDATE SET name_local=EXCLUDED.name_local, total=EXCLUDED.total,
		suspicious=EXCLUDED.suspicious, dominant_label=EXCLUDED.dominant_label, dominant_code=EXCLUDED.dominant_code,
		dominant_color=EXCLUDED.dominant_color, dominant_count=EXCLUDED.dominant_count, updated_at=now()`)
	if err != nil {
		return err
	}
	defer stmtStat.Close()
	stmtDel, err := tx.PrepareContext(ctx, `DELETE FROM _region_category_counts WHERE name_en=$1`)
	if err != nil {
		return err
	}
	defer stmtDel.Close()
	stmtCat, err := tx.PrepareContext(ctx, `INSERT INTO _region_category_counts(name_en, code, label, color, count, position)
		VALUES($1,$2,$3,$4,$5,$6)
		ON CONFLICT (name_en, code) DO UPDATE SET label=EXCLUDED.label, color=EXCLUDED.color,
		count=EXCLUDED.count, position=EXCLUDED.position`)
	if err != nil {
		return err
	}
	defer stmtCat.Close()

	for _, r := range rows {
		if _, err := stmtStat.ExecContext(ctx, r.NameEnglish, r.NameLocal, r.Total, r.Suspicious,
			r.DominantLabel, r.DominantCode, r.DominantColor, r.DominantCount); err != nil {
			return fmt.Errorf("upsert %q: %w", r.NameEnglish, err)
		}
		if _, err := stmtDel.ExecContext(ctx, r.NameEnglish); err != nil {
			return err
		}
		for i, c := range r.Breakdown {
			if _, err := stmtCat.ExecContext(ctx, r.NameEnglish, c.Code, c.Label, c.Color, c.Count, i); err != nil {
				return fmt.Errorf("upsert %q/%q: %w", r.NameEnglish, c.Code, err)
			}
		}
	}
	return tx.Commit()
}

// IncrRenders: 按日与输出格式累计渲染次数；写失败由调用方记录日志
func (s *Store) IncrRenders(ctx context.Context, format string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO _map_renders_daily(day, format, renders) VALUES(current_date, $1, 1)
		ON CONFLICT (day, format) DO UPDATE SET renders=_map_renders_daily.renders+1`, format)
	return err
}

// Usage: 今日与累计渲染次数
type Usage struct {
	Today int64 `json:"today"`
	Total int64 `json:"total"`
}

func (s *Store) GetUsage(ctx context.Context) (*Usage, error) {
	var u Usage
	err := s.db.QueryRowContext(ctx, `SELECT
		COALESCE(SUM(renders) FILTER (WHERE day = current_date), 0),
		COALESCE(SUM(renders), 0)
		FROM _map_renders_daily`).Scan(&u.Today, &u.Total)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
