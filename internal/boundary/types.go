package boundary

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"time"

	"github.com/paulmach/orb"
)

// 文档注释：行政区边界要素
// 约束：Geometry 仅为 orb.Polygon 或 orb.MultiPolygon；环按 GeoJSON 约定，第一环为外环，其余为洞。
type Feature struct {
	Name     string
	Geometry orb.Geometry
	Bound    orb.Bound
}

// Set：加载结果快照，发布后只读
type Set struct {
	Features    []Feature
	Fingerprint uint64
	LoadedAt    time.Time
	index       map[string]int
}

func newSet(features []Feature) *Set {
	s := &Set{Features: features, index: make(map[string]int, len(features)), LoadedAt: time.Now()}
	for i, f := range features {
		s.index[f.Name] = i
	}
	s.Fingerprint = fingerprint(features)
	return s
}

// Lookup：按名称精确查找（区分大小写）
func (s *Set) Lookup(name string) (Feature, bool) {
	if s == nil {
		return Feature{}, false
	}
	i, ok := s.index[name]
	if !ok {
		return Feature{}, false
	}
	return s.Features[i], true
}

// Names：按文件顺序返回区域名
func (s *Set) Names() []string {
	out := make([]string, 0, len(s.Features))
	for _, f := range s.Features {
		out = append(out, f.Name)
	}
	return out
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Features)
}

// fingerprint：名称与全部顶点的 FNV-64a，用作跨进程缓存键
func fingerprint(features []Feature) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	writeF := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	for _, f := range features {
		h.Write([]byte(f.Name))
		h.Write([]byte{0})
		for _, poly := range polygons(f.Geometry) {
			for _, ring := range poly {
				for _, p := range ring {
					writeF(p.Lon())
					writeF(p.Lat())
				}
				h.Write([]byte{1})
			}
			h.Write([]byte{2})
		}
	}
	return h.Sum64()
}

// polygons：把 Polygon/MultiPolygon 统一展开为多面
func polygons(g orb.Geometry) []orb.Polygon {
	switch v := g.(type) {
	case orb.Polygon:
		return []orb.Polygon{v}
	case orb.MultiPolygon:
		return v
	}
	return nil
}
