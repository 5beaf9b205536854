// 包 colormap：统计表与边界的联接层及三种着色模式
package colormap

import (
	"errors"
	"fmt"
	"strings"

	"province-map/internal/stats"
)

// Mode：着色模式
type Mode string

const (
	ModeCategory  Mode = "category"
	ModeCount     Mode = "count"
	ModeSecondary Mode = "secondary"
)

// ErrInvalidMode 未知着色模式
var ErrInvalidMode = errors.New("colormap: invalid mode")

// ParseMode：兼容前端旧名 party/seats/suspicious；空串非法，缺省模式由调用方决定
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "category", "party":
		return ModeCategory, nil
	case "count", "seats":
		return ModeCount, nil
	case "secondary", "suspicious":
		return ModeSecondary, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// 文档注释：只读联接表
// 约束：构建后不再修改，可在会话间共享；按英文名精确匹配，同名记录后者覆盖前者。
// 最大值在每次调用时对整表重新计算，表规模为数十到数百行。
type Table struct {
	rows    []stats.RegionStat
	byName  map[string]int
	palette Palette
	ramps   ramps
}

func NewTable(rows []stats.RegionStat, p Palette) (*Table, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	r, _ := p.ramps()
	t := &Table{
		rows:    make([]stats.RegionStat, 0, len(rows)),
		byName:  make(map[string]int, len(rows)),
		palette: p,
		ramps:   r,
	}
	for _, row := range rows {
		if i, ok := t.byName[row.NameEnglish]; ok {
			t.rows[i] = row
			continue
		}
		t.byName[row.NameEnglish] = len(t.rows)
		t.rows = append(t.rows, row)
	}
	return t, nil
}

// NewDefaultTable：默认调色板的联接表
func NewDefaultTable(rows []stats.RegionStat) *Table {
	t, err := NewTable(rows, DefaultPalette())
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) Palette() Palette { return t.palette }

func (t *Table) Len() int { return len(t.rows) }

// Rows：按输入顺序返回副本
func (t *Table) Rows() []stats.RegionStat { return append([]stats.RegionStat(nil), t.rows...) }

func (t *Table) Lookup(name string) (stats.RegionStat, bool) {
	i, ok := t.byName[name]
	if !ok {
		return stats.RegionStat{}, false
	}
	return t.rows[i], true
}

func (t *Table) MaxTotal() int {
	m := 0
	for _, r := range t.rows {
		if r.Total > m {
			m = r.Total
		}
	}
	return m
}

func (t *Table) MaxSuspicious() int {
	m := 0
	for _, r := range t.rows {
		if r.Suspicious > m {
			m = r.Suspicious
		}
	}
	return m
}

// Ratio：count 与 secondary 模式下的归一化值；缺数据、category 模式或全表为零时为 0
func (t *Table) Ratio(name string, mode Mode) float64 {
	r, ok := t.Lookup(name)
	if !ok {
		return 0
	}
	switch mode {
	case ModeCount:
		return ratio(r.Total, t.MaxTotal())
	case ModeSecondary:
		return ratio(r.Suspicious, t.MaxSuspicious())
	}
	return 0
}

func ratio(v, max int) float64 {
	if max <= 0 {
		return 0
	}
	return float64(v) / float64(max)
}

// ColorFor：区域在指定模式下的填充色；无统计记录时为中性色
func (t *Table) ColorFor(name string, mode Mode) string {
	r, ok := t.Lookup(name)
	if !ok {
		return t.palette.NoData
	}
	switch mode {
	case ModeCount:
		return Lerp(t.ramps.countLow, t.ramps.countHigh, t.Ratio(name, mode)).String()
	case ModeSecondary:
		if r.Suspicious == 0 {
			return t.palette.SecondaryZero
		}
		return Lerp(t.ramps.secLow, t.ramps.secHigh, t.Ratio(name, mode)).String()
	}
	if r.DominantColor == "" {
		return t.palette.CategoryFallback
	}
	return r.DominantColor
}

// Search：英文名、本地名、主导类别名的大小写不敏感子串匹配；空查询返回 nil 表示不过滤
func (t *Table) Search(q string) map[string]bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return nil
	}
	out := make(map[string]bool)
	for _, r := range t.rows {
		if strings.Contains(strings.ToLower(r.NameEnglish), q) ||
			strings.Contains(strings.ToLower(r.NameLocal), q) ||
			strings.Contains(strings.ToLower(r.DominantLabel), q) {
			out[r.NameEnglish] = true
		}
	}
	return out
}
