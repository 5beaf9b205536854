// 包 config：服务配置，环境变量为主，地图标定参数可由 YAML 文件覆盖
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"province-map/internal/colormap"
	"province-map/internal/projection"
	"province-map/internal/viewport"
)

// ErrInvalid 配置不可用
var ErrInvalid = errors.New("config: invalid")

// 统计数据来源
const (
	StatsFromFile     = "file"
	StatsFromPostgres = "postgres"
)

// Map：地图标定参数（投影包围盒与画布、缩放限制、配色）
type Map struct {
	Projection projection.Config `yaml:"projection"`
	Zoom       viewport.Limits   `yaml:"zoom"`
	Palette    colormap.Palette  `yaml:"palette"`
}

func DefaultMap() Map {
	return Map{
		Projection: projection.Thailand(),
		Zoom:       viewport.DefaultLimits(),
		Palette:    colormap.DefaultPalette(),
	}
}

func (m Map) Validate() error {
	if err := m.Projection.Validate(); err != nil {
		return err
	}
	if err := m.Zoom.Validate(); err != nil {
		return err
	}
	return m.Palette.Validate()
}

// 文档注释：服务配置
// 背景：沿用环境变量 + .env 的部署方式；未设置的项使用默认值。
// 约束：GeometryLocation 以 http(s):// 开头时远程拉取，否则按本地路径读取。
type Config struct {
	Addr    string
	APIBase string
	UIDir   string

	GeometryLocation string
	StatsSource      string
	StatsPath        string

	RedisEnabled bool
	CORSOrigins  []string

	TLSEnable   bool
	TLSCertPath string
	TLSKeyPath  string

	Map Map
}

// FromEnv：读取环境变量并叠加 MAP_CONFIG 指向的 YAML 文件
func FromEnv() (Config, error) {
	c := Config{
		Addr:        env("ADDR", ":8080"),
		APIBase:     strings.TrimRight(env("API_BASE", "/api"), "/"),
		UIDir:       env("UI_DIST", filepath.Join("ui", "dist")),
		StatsSource: strings.ToLower(env("STATS_SOURCE", StatsFromFile)),
		StatsPath:   env("STATS_PATH", filepath.Join("data", "stats", "provinces.json")),
		TLSEnable:   os.Getenv("TLS_ENABLE") == "true",
		TLSCertPath: env("TLS_CERT_PATH", filepath.Join("data", "certs", "server.crt")),
		TLSKeyPath:  env("TLS_KEY_PATH", filepath.Join("data", "certs", "server.key")),
		Map:         DefaultMap(),
	}
	c.GeometryLocation = geometryLocation()
	c.RedisEnabled = os.Getenv("REDIS_ENABLED") == "true"
	if s := os.Getenv("CORS_ORIGINS"); s != "" {
		for _, o := range strings.Split(s, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.CORSOrigins = append(c.CORSOrigins, o)
			}
		}
	}
	if c.APIBase == "" {
		c.APIBase = "/api"
	}
	if p := os.Getenv("MAP_CONFIG"); p != "" {
		m, err := LoadMap(p)
		if err != nil {
			return c, err
		}
		c.Map = m
	}
	if w := os.Getenv("MAP_WIDTH"); w != "" {
		n, err := strconv.ParseFloat(w, 64)
		if err != nil {
			return c, fmt.Errorf("%w: MAP_WIDTH %q", ErrInvalid, w)
		}
		c.Map.Projection.Width = n
	}
	if h := os.Getenv("MAP_HEIGHT"); h != "" {
		n, err := strconv.ParseFloat(h, 64)
		if err != nil {
			return c, fmt.Errorf("%w: MAP_HEIGHT %q", ErrInvalid, h)
		}
		c.Map.Projection.Height = n
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	switch c.StatsSource {
	case StatsFromFile, StatsFromPostgres:
	default:
		return fmt.Errorf("%w: STATS_SOURCE %q", ErrInvalid, c.StatsSource)
	}
	if c.GeometryLocation == "" {
		return fmt.Errorf("%w: empty geometry location", ErrInvalid)
	}
	return c.Map.Validate()
}

// LoadMap：读取 YAML 标定文件，未出现的字段保留默认值
func LoadMap(path string) (Map, error) {
	m := DefaultMap()
	b, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("read map config: %w", err)
	}
	if err := yaml.Unmarshal(b, &m); err != nil {
		return m, fmt.Errorf("%w: map config %s: %v", ErrInvalid, path, err)
	}
	if err := m.Validate(); err != nil {
		return m, fmt.Errorf("map config %s: %w", path, err)
	}
	return m, nil
}

// geometryLocation：GEOMETRY_PATH 优先；否则 MAP_BASE_URL + GEOMETRY_FILE
func geometryLocation() string {
	if p := os.Getenv("GEOMETRY_PATH"); p != "" {
		return p
	}
	file := env("GEOMETRY_FILE", "thailand-provinces.geojson")
	if base := os.Getenv("MAP_BASE_URL"); base != "" {
		return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(file, "/")
	}
	return filepath.Join("data", "geo", file)
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
