// 包 render：把静态区域路径、交互状态与统计联接结果组合成可绘制的视图
package render

import (
	"fmt"

	"province-map/internal/colormap"
	"province-map/internal/pathbuild"
	"province-map/internal/projection"
	"province-map/internal/viewport"
)

// LegendLimit：类别图例最多展示的条目数
const LegendLimit = 12

// Scene：一次渲染所需的只读输入，可在会话间共享
type Scene struct {
	Names  []string
	Paths  pathbuild.Paths
	Canvas projection.Canvas
	Table  *colormap.Table
}

// Region：单个区域的绘制指令
type Region struct {
	Name  string         `json:"name"`
	Title string         `json:"title"`
	Path  string         `json:"path"`
	Style viewport.Style `json:"style"`
}

// Legend：类别模式给出类别列表，计数类模式给出渐变端点与最小/最大标签
type Legend struct {
	Mode       colormap.Mode          `json:"mode"`
	Categories []colormap.LegendEntry `json:"categories,omitempty"`
	Min        int                    `json:"min"`
	Max        int                    `json:"max"`
	Low        string                 `json:"low,omitempty"`
	High       string                 `json:"high,omitempty"`
	Zero       string                 `json:"zero,omitempty"`
}

// View：渲染结果；Loading 为真时只有画布尺寸有效
type View struct {
	Loading bool              `json:"loading"`
	Canvas  projection.Canvas `json:"canvas"`
	State   viewport.State    `json:"state"`
	Regions []Region          `json:"regions,omitempty"`
	Legend  *Legend           `json:"legend,omitempty"`
	Totals  *colormap.Totals  `json:"totals,omitempty"`
	Detail  *colormap.Detail  `json:"detail,omitempty"`
}

// LoadingView：几何数据尚未就绪时的占位视图
func LoadingView(canvas projection.Canvas, c *viewport.Controller) View {
	return View{Loading: true, Canvas: canvas, State: c.State()}
}

// 文档注释：按当前交互状态组装视图
// 约束：路径原样取自缓存，不在此重算；样式与颜色每次重新计算。
// 绘制顺序保持数据集顺序，只把选中与悬停区域移到末尾，使其描边不被相邻区域覆盖。
func (s Scene) View(c *viewport.Controller) View {
	styles := c.Styles(s.Names, s.Table)
	v := View{Canvas: s.Canvas, State: c.State(), Regions: make([]Region, 0, len(s.Names))}
	for _, n := range drawOrder(s.Names, c.Selected(), c.Hovered()) {
		v.Regions = append(v.Regions, Region{
			Name:  n,
			Title: s.title(n),
			Path:  s.Paths[n],
			Style: styles[n],
		})
	}
	lg := s.legend(c.Mode())
	v.Legend = &lg
	t := s.Table.Totals()
	v.Totals = &t
	if sel := c.Selected(); sel != "" {
		v.Detail = s.Table.Detail(sel)
	}
	return v
}

func (s Scene) title(name string) string {
	r, ok := s.Table.Lookup(name)
	if !ok {
		return name
	}
	label := name
	if r.NameLocal != "" {
		label = fmt.Sprintf("%s (%s)", name, r.NameLocal)
	}
	if r.DominantLabel != "" {
		return fmt.Sprintf("%s: %d, %s", label, r.Total, r.DominantLabel)
	}
	return fmt.Sprintf("%s: %d", label, r.Total)
}

func (s Scene) legend(mode colormap.Mode) Legend {
	p := s.Table.Palette()
	switch mode {
	case colormap.ModeCount:
		return Legend{Mode: mode, Max: s.Table.MaxTotal(), Low: p.CountLow, High: p.CountHigh}
	case colormap.ModeSecondary:
		return Legend{Mode: mode, Max: s.Table.MaxSuspicious(), Low: p.SecondaryLow, High: p.SecondaryHigh, Zero: p.SecondaryZero}
	}
	cats := s.Table.Categories()
	if len(cats) > LegendLimit {
		cats = cats[:LegendLimit]
	}
	return Legend{Mode: colormap.ModeCategory, Categories: cats}
}

func drawOrder(names []string, selected, hovered string) []string {
	out := make([]string, 0, len(names))
	var tail []string
	for _, n := range names {
		if n == selected || n == hovered {
			tail = append(tail, n)
			continue
		}
		out = append(out, n)
	}
	// 悬停区域最后绘制
	if len(tail) == 2 && tail[0] == hovered {
		tail[0], tail[1] = tail[1], tail[0]
	}
	return append(out, tail...)
}
