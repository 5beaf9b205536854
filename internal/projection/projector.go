// 包 projection：经纬度到固定尺寸绘图面的投影
package projection

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidBounds 包围盒或画布尺寸不可用
var ErrInvalidBounds = errors.New("projection: invalid bounds")

// 墨卡托在 ±90° 发散，纬度限制在 ±85°
const maxAbsLat = 85.0

// Config：包围盒与画布尺寸，按目标国家标定，不从数据推导
type Config struct {
	LonMin float64 `yaml:"lon_min"`
	LonMax float64 `yaml:"lon_max"`
	LatMin float64 `yaml:"lat_min"`
	LatMax float64 `yaml:"lat_max"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Thailand：默认标定
func Thailand() Config {
	return Config{LonMin: 97.3, LonMax: 105.7, LatMin: 5.5, LatMax: 20.6, Width: 400, Height: 720}
}

func (c Config) Validate() error {
	if !(c.LonMin < c.LonMax) {
		return fmt.Errorf("%w: lon_min %v >= lon_max %v", ErrInvalidBounds, c.LonMin, c.LonMax)
	}
	if !(c.LatMin < c.LatMax) {
		return fmt.Errorf("%w: lat_min %v >= lat_max %v", ErrInvalidBounds, c.LatMin, c.LatMax)
	}
	if math.Abs(c.LatMin) > maxAbsLat || math.Abs(c.LatMax) > maxAbsLat {
		return fmt.Errorf("%w: latitude beyond ±%v", ErrInvalidBounds, maxAbsLat)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: canvas %vx%v", ErrInvalidBounds, c.Width, c.Height)
	}
	return nil
}

// Canvas：画布尺寸，路径缓存以此为失效键
type Canvas struct{ W, H float64 }

func (c Config) Canvas() Canvas { return Canvas{W: c.Width, H: c.Height} }

// Projector：纯函数投影器；构造时预计算包围盒两端的墨卡托值
type Projector struct {
	cfg     Config
	mercMin float64
	mercMax float64
}

func New(cfg Config) (*Projector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Projector{cfg: cfg, mercMin: merc(cfg.LatMin), mercMax: merc(cfg.LatMax)}, nil
}

func (p *Projector) Config() Config { return p.cfg }

// Project：经度线性映射到 [0,W]；纬度经 ln(tan(π/4+φ/2)) 后线性映射到 [H,0]
// 约束：包围盒外的坐标落在画布外，不做裁剪
func (p *Projector) Project(lon, lat float64) (x, y float64) {
	x = (lon - p.cfg.LonMin) / (p.cfg.LonMax - p.cfg.LonMin) * p.cfg.Width
	y = (p.mercMax - merc(lat)) / (p.mercMax - p.mercMin) * p.cfg.Height
	return x, y
}

func merc(latDeg float64) float64 {
	phi := latDeg * math.Pi / 180
	return math.Log(math.Tan(math.Pi/4 + phi/2))
}
