// 包 viewport：平移/缩放与悬停/选择的显式状态机
package viewport

import (
	"province-map/internal/colormap"
)

// Phase：指针交互阶段
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePanning
)

func (p Phase) String() string {
	if p == PhasePanning {
		return "panning"
	}
	return "idle"
}

// PrimaryButton：仅主键触发平移
const PrimaryButton = 0

// State：对外可见的只读快照
type State struct {
	Transform Transform     `json:"transform"`
	Phase     string        `json:"phase"`
	Hovered   string        `json:"hovered,omitempty"`
	Selected  string        `json:"selected,omitempty"`
	Mode      colormap.Mode `json:"mode"`
	Search    string        `json:"search,omitempty"`
}

// 文档注释：交互控制器
// 约束：单一逻辑线程驱动，所有转移同步完成、不阻塞；每个转移返回可见状态是否变化，
// 调用方据此决定是否重绘。路径与投影从不在此重算。
//
// 各事件可修改的字段：
//   - PointerDown/Up：phase（及平移起点）
//   - PointerMove：pan（仅 panning）
//   - PointerLeave：phase、hovered
//   - Wheel：zoom
//   - RegionEnter/Leave：hovered
//   - Click：selected
//   - Reset：zoom、pan、selected、search、phase
//   - SetMode：mode；SetSearch：search
type Controller struct {
	limits Limits
	t      Transform
	phase  Phase

	panStart  Point
	panOrigin Point

	hovered  string
	selected string
	mode     colormap.Mode
	search   string
}

// New：limits 不合法时回退到默认值
func New(limits Limits) *Controller {
	if limits.Validate() != nil {
		limits = DefaultLimits()
	}
	return &Controller{limits: limits, t: Identity(), mode: colormap.ModeCategory}
}

func (c *Controller) Limits() Limits { return c.limits }

func (c *Controller) State() State {
	return State{
		Transform: c.t,
		Phase:     c.phase.String(),
		Hovered:   c.hovered,
		Selected:  c.selected,
		Mode:      c.mode,
		Search:    c.search,
	}
}

func (c *Controller) Transform() Transform { return c.t }
func (c *Controller) Phase() Phase         { return c.phase }
func (c *Controller) Hovered() string      { return c.hovered }
func (c *Controller) Selected() string     { return c.selected }
func (c *Controller) Mode() colormap.Mode  { return c.mode }
func (c *Controller) Search() string       { return c.search }

// PointerDown：主键按下开始平移，记录指针起点与当前偏移
func (c *Controller) PointerDown(x, y float64, button int) bool {
	if button != PrimaryButton {
		return false
	}
	c.phase = PhasePanning
	c.panStart = Point{X: x, Y: y}
	c.panOrigin = c.t.Pan
	return false
}

// PointerMove：pan = 起始偏移 + (当前指针 - 起点)
func (c *Controller) PointerMove(x, y float64) bool {
	if c.phase != PhasePanning {
		return false
	}
	next := Point{X: c.panOrigin.X + x - c.panStart.X, Y: c.panOrigin.Y + y - c.panStart.Y}
	if next == c.t.Pan {
		return false
	}
	c.t.Pan = next
	return true
}

func (c *Controller) PointerUp() bool {
	c.phase = PhaseIdle
	return false
}

// PointerLeave：指针离开地图表面，结束平移并清除悬停
func (c *Controller) PointerLeave() bool {
	c.phase = PhaseIdle
	if c.hovered == "" {
		return false
	}
	c.hovered = ""
	return true
}

// Wheel：deltaY<0 放大、>0 缩小，按固定倍率并限制在 [ZoomMin, ZoomMax]
func (c *Controller) Wheel(deltaY float64) bool {
	z := c.t.Zoom
	switch {
	case deltaY < 0:
		z *= c.limits.ZoomStep
	case deltaY > 0:
		z /= c.limits.ZoomStep
	default:
		return false
	}
	z = c.limits.clamp(z)
	if z == c.t.Zoom {
		return false
	}
	c.t.Zoom = z
	return true
}

func (c *Controller) RegionEnter(name string) bool {
	if name == "" || c.hovered == name {
		return false
	}
	c.hovered = name
	return true
}

// RegionLeave：只清除当前悬停的同名区域
func (c *Controller) RegionLeave(name string) bool {
	if c.hovered == "" || c.hovered != name {
		return false
	}
	c.hovered = ""
	return true
}

// Click：切换选择；点中已选区域则取消，与是否有统计数据无关
func (c *Controller) Click(name string) bool {
	if name == "" {
		return false
	}
	if c.selected == name {
		c.selected = ""
	} else {
		c.selected = name
	}
	return true
}

// SetTransform：恢复外部保存的视图（无状态渲染按查询参数重建），缩放同样受限
func (c *Controller) SetTransform(t Transform) bool {
	t.Zoom = c.limits.clamp(t.Zoom)
	if t == c.t {
		return false
	}
	c.t = t
	return true
}

// Reset：恢复缩放与偏移、取消选择并清空搜索；悬停不变
func (c *Controller) Reset() bool {
	changed := c.t != Identity() || c.selected != "" || c.search != ""
	c.t = Identity()
	c.phase = PhaseIdle
	c.selected = ""
	c.search = ""
	return changed
}

func (c *Controller) SetMode(m colormap.Mode) (bool, error) {
	m, err := colormap.ParseMode(string(m))
	if err != nil {
		return false, err
	}
	if m == c.mode {
		return false, nil
	}
	c.mode = m
	return true, nil
}

func (c *Controller) SetSearch(q string) bool {
	if q == c.search {
		return false
	}
	c.search = q
	return true
}
