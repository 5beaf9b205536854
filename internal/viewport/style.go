package viewport

import "province-map/internal/colormap"

// Style：单个区域的绘制样式
type Style struct {
	Fill        string  `json:"fill"`
	FillOpacity float64 `json:"fillOpacity"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
}

const (
	strokeDefault  = "#1e2030"
	strokeSelected = "#ffffff"
	strokeHovered  = "#e2e8f0"
	strokeMatch    = "#fbbf24"

	opacityNormal   = 0.88
	opacityDimmed   = 0.65
	opacityFiltered = 0.3
	opacityHovered  = 1.0
)

// Styles：按当前交互状态为每个区域计算样式
// 约束：填充色来自联接表与当前模式；描边优先级 悬停 > 选中 > 搜索命中 > 默认。
// 搜索命中集合每次调用只计算一次。
func (c *Controller) Styles(names []string, tbl *colormap.Table) map[string]Style {
	search := tbl.Search(c.search)
	out := make(map[string]Style, len(names))
	for _, n := range names {
		out[n] = c.style(n, tbl, search)
	}
	return out
}

func (c *Controller) style(name string, tbl *colormap.Table, search map[string]bool) Style {
	s := Style{Stroke: strokeDefault, StrokeWidth: 1, FillOpacity: opacityNormal}
	filtered := search != nil && !search[name]
	_, joined := tbl.Lookup(name)
	switch {
	case !joined:
		s.Fill = tbl.Palette().NoData
	case filtered:
		s.Fill = tbl.Palette().SearchMiss
	default:
		s.Fill = tbl.ColorFor(name, c.mode)
	}
	switch {
	case filtered:
		s.FillOpacity = opacityFiltered
	case c.selected != "" && c.selected != name:
		s.FillOpacity = opacityDimmed
	}
	switch {
	case c.hovered == name:
		s.Stroke, s.StrokeWidth, s.FillOpacity = strokeHovered, 3, opacityHovered
	case c.selected == name:
		s.Stroke, s.StrokeWidth = strokeSelected, 3
	case search != nil && search[name]:
		s.Stroke, s.StrokeWidth = strokeMatch, 2
	}
	return s
}
