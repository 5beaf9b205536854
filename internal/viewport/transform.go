package viewport

import (
	"errors"
	"fmt"
	"strconv"
)

// Point：画布坐标
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Transform：先平移后缩放，作用于包裹全部区域路径的单个分组
type Transform struct {
	Zoom float64 `json:"zoom"`
	Pan  Point   `json:"pan"`
}

func Identity() Transform { return Transform{Zoom: 1} }

// String：SVG transform 属性值
func (t Transform) String() string {
	return "translate(" + fnum(t.Pan.X) + "," + fnum(t.Pan.Y) + ") scale(" + fnum(t.Zoom) + ")"
}

// Apply：画布坐标经变换后的屏幕坐标，缩放锚点为画布原点
func (t Transform) Apply(p Point) Point {
	return Point{X: p.X*t.Zoom + t.Pan.X, Y: p.Y*t.Zoom + t.Pan.Y}
}

func fnum(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if s == "-0" {
		return "0"
	}
	return s
}

// ErrInvalidLimits 缩放限制不可用
var ErrInvalidLimits = errors.New("viewport: invalid zoom limits")

// Limits：缩放范围与每次滚轮的倍率
type Limits struct {
	ZoomMin  float64 `yaml:"zoom_min"`
	ZoomMax  float64 `yaml:"zoom_max"`
	ZoomStep float64 `yaml:"zoom_step"`
}

func DefaultLimits() Limits { return Limits{ZoomMin: 0.5, ZoomMax: 5, ZoomStep: 1.2} }

func (l Limits) Validate() error {
	if l.ZoomMin <= 0 || l.ZoomMin > 1 || l.ZoomMax < 1 {
		return fmt.Errorf("%w: range [%v,%v] must contain 1", ErrInvalidLimits, l.ZoomMin, l.ZoomMax)
	}
	if l.ZoomStep <= 1 {
		return fmt.Errorf("%w: step %v must be > 1", ErrInvalidLimits, l.ZoomStep)
	}
	return nil
}

func (l Limits) clamp(z float64) float64 {
	if z < l.ZoomMin {
		return l.ZoomMin
	}
	if z > l.ZoomMax {
		return l.ZoomMax
	}
	return z
}
