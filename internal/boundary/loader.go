package boundary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"province-map/internal/logger"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ErrEmpty 数据集中没有可用的多边形要素
var ErrEmpty = errors.New("boundary: no polygon features")

// NameProperty：要素名称所在的 properties 字段，需与统计表英文名一致
const NameProperty = "name"

// 文档注释：解析 GeoJSON FeatureCollection
// 约束：仅接收 Polygon/MultiPolygon；缺名称或其他几何类型的要素跳过并记录；
// 同名要素合并为一个 MultiPolygon，保证每个区域只有一条路径。
func Parse(data []byte) (*Set, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("boundary: decode geojson: %w", err)
	}
	l := logger.L()
	var out []Feature
	pos := make(map[string]int)
	for i, f := range fc.Features {
		name := f.Properties.MustString(NameProperty, "")
		if name == "" {
			l.Debug("boundary_feature_skip", "idx", i, "reason", "no_name")
			continue
		}
		var g orb.Geometry
		switch v := f.Geometry.(type) {
		case orb.Polygon:
			g = v
		case orb.MultiPolygon:
			g = v
		default:
			l.Debug("boundary_feature_skip", "idx", i, "name", name, "reason", "geometry_type", "type", fmt.Sprintf("%T", f.Geometry))
			continue
		}
		if j, ok := pos[name]; ok {
			merged := append(orb.MultiPolygon{}, polygons(out[j].Geometry)...)
			merged = append(merged, polygons(g)...)
			out[j].Geometry = merged
			out[j].Bound = merged.Bound()
			l.Debug("boundary_feature_merge", "name", name)
			continue
		}
		pos[name] = len(out)
		out = append(out, Feature{Name: name, Geometry: g, Bound: g.Bound()})
	}
	if len(out) == 0 {
		return nil, ErrEmpty
	}
	return newSet(out), nil
}

// LoadFile：读取本地 GeoJSON 文件
func LoadFile(path string) (*Set, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("boundary: read %s: %w", path, err)
	}
	return Parse(b)
}

// Fetch：通过 HTTP 获取 GeoJSON；非 2xx 视为失败
func Fetch(ctx context.Context, client *http.Client, url string) (*Set, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("boundary: build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("boundary: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("boundary: fetch %s: status %d", url, resp.StatusCode)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("boundary: read body: %w", err)
	}
	return Parse(b)
}

// Loader：按位置选择加载方式，http(s) 走网络，其余视为本地路径
func Loader(location string, client *http.Client) func(context.Context) (*Set, error) {
	return func(ctx context.Context) (*Set, error) {
		if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
			return Fetch(ctx, client, location)
		}
		return LoadFile(location)
	}
}
