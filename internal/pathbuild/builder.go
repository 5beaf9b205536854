// 包 pathbuild：把边界几何转换为 SVG 路径命令串
package pathbuild

import (
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// Projector：路径构建只依赖投影函数
type Projector interface {
	Project(lon, lat float64) (x, y float64)
}

// Builder：固定精度输出，相同输入得到逐字节相同的路径
type Builder struct {
	proj Projector
	prec int
}

func NewBuilder(p Projector) *Builder { return &Builder{proj: p, prec: 2} }

// Build：Polygon 每环输出 M/L.../Z，洞作为同一路径内的额外闭合环，依赖 evenodd 填充规则；
// MultiPolygon 为各面结果拼接。其他几何类型返回空串。
func (b *Builder) Build(g orb.Geometry) string {
	var sb strings.Builder
	switch v := g.(type) {
	case orb.Polygon:
		b.writePolygon(&sb, v)
	case orb.MultiPolygon:
		for _, poly := range v {
			b.writePolygon(&sb, poly)
		}
	}
	return sb.String()
}

func (b *Builder) writePolygon(sb *strings.Builder, poly orb.Polygon) {
	for _, ring := range poly {
		b.writeRing(sb, ring)
	}
}

// 源数据若重复首点则保留为一条 L，环的命令数恒为点数+1
func (b *Builder) writeRing(sb *strings.Builder, ring orb.Ring) {
	if len(ring) == 0 {
		return
	}
	for i, p := range ring {
		if i == 0 {
			sb.WriteByte('M')
		} else {
			sb.WriteByte('L')
		}
		x, y := b.proj.Project(p.Lon(), p.Lat())
		sb.WriteString(b.num(x))
		sb.WriteByte(',')
		sb.WriteString(b.num(y))
	}
	sb.WriteByte('Z')
}

func (b *Builder) num(v float64) string {
	s := strconv.FormatFloat(v, 'f', b.prec, 64)
	if s == "-0.00" {
		return "0.00"
	}
	return s
}

// CountCommands：统计路径中的绘制命令数（M/L/Z）
func CountCommands(path string) int {
	n := 0
	for i := 0; i < len(path); i++ {
		switch path[i] {
		case 'M', 'L', 'Z':
			n++
		}
	}
	return n
}
