package colormap

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RGB：8 位通道颜色
type RGB struct{ R, G, B uint8 }

func (c RGB) String() string { return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B) }

func (c RGB) Hex() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

var errBadHex = errors.New("colormap: bad hex color")

// ParseHex：解析 #rgb 或 #rrggbb
func ParseHex(s string) (RGB, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return RGB{}, fmt.Errorf("%w: %q", errBadHex, s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q", errBadHex, s)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Lerp：逐通道线性插值，ratio 限定在 [0,1]，结果四舍五入
func Lerp(a, b RGB, ratio float64) RGB {
	if ratio < 0 || math.IsNaN(ratio) {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	ch := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*ratio))
	}
	return RGB{R: ch(a.R, b.R), G: ch(a.G, b.G), B: ch(a.B, b.B)}
}

// Palette：各着色模式的固定颜色，十六进制文本便于配置文件覆盖
type Palette struct {
	NoData           string `yaml:"no_data"`
	CategoryFallback string `yaml:"category_fallback"`
	CountLow         string `yaml:"count_low"`
	CountHigh        string `yaml:"count_high"`
	SecondaryZero    string `yaml:"secondary_zero"`
	SecondaryLow     string `yaml:"secondary_low"`
	SecondaryHigh    string `yaml:"secondary_high"`
	SearchMiss       string `yaml:"search_miss"`
}

func DefaultPalette() Palette {
	return Palette{
		NoData:           "#2d3148",
		CategoryFallback: "#666666",
		CountLow:         "#3c46dc",
		CountHigh:        "#14ff96",
		SecondaryZero:    "#1e3a2e",
		SecondaryLow:     "#285032",
		SecondaryHigh:    "#ff100a",
		SearchMiss:       "#1a1c2a",
	}
}

// ramps：解析后的渐变端点
type ramps struct {
	countLow, countHigh, secLow, secHigh RGB
}

func (p Palette) ramps() (ramps, error) {
	var r ramps
	var err error
	if r.countLow, err = ParseHex(p.CountLow); err != nil {
		return r, err
	}
	if r.countHigh, err = ParseHex(p.CountHigh); err != nil {
		return r, err
	}
	if r.secLow, err = ParseHex(p.SecondaryLow); err != nil {
		return r, err
	}
	if r.secHigh, err = ParseHex(p.SecondaryHigh); err != nil {
		return r, err
	}
	return r, nil
}

// Validate：检查所有颜色字段均为合法十六进制
func (p Palette) Validate() error {
	for _, s := range []string{p.NoData, p.CategoryFallback, p.SecondaryZero, p.SearchMiss} {
		if _, err := ParseHex(s); err != nil {
			return err
		}
	}
	_, err := p.ramps()
	return err
}
