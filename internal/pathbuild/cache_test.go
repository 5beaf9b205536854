package pathbuild

import (
	"context"
	"testing"

	"province-map/internal/boundary"
	"province-map/internal/projection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	data  map[string]string
	loads int
	saves int
}

func (m *memStore) Load(_ context.Context, keys []string) map[string]string {
	m.loads++
	out := make(map[string]string)
	for _, k := range keys {
		if v, ok := m.data[k]; ok {
			out[k] = v
		}
	}
	return out
}

func (m *memStore) Save(_ context.Context, kv map[string]string) {
	m.saves++
	for k, v := range kv {
		m.data[k] = v
	}
}

const twoRegions = `{"type":"FeatureCollection","features":[
	{"type":"Feature","properties":{"name":"A"},"geometry":{"type":"Polygon","coordinates":[[[100,10],[101,10],[101,11],[100,11]]]}},
	{"type":"Feature","properties":{"name":"B"},"geometry":{"type":"Polygon","coordinates":[[[102,15],[103,15],[103,16],[102,15]]]}}]}`

func setup(t *testing.T) (*boundary.Set, *projection.Projector) {
	t.Helper()
	set, err := boundary.Parse([]byte(twoRegions))
	require.NoError(t, err)
	proj, err := projection.New(projection.Thailand())
	require.NoError(t, err)
	return set, proj
}

func TestCacheReusesPathsUntilCanvasChanges(t *testing.T) {
	set, proj := setup(t)
	c := NewCache(nil)
	ctx := context.Background()

	first := c.Paths(ctx, set, proj)
	require.Len(t, first, 2)
	assert.Equal(t, NewBuilder(proj).Build(set.Features[0].Geometry), first["A"])

	again := c.Paths(ctx, set, proj)
	assert.Equal(t, first, again)

	cfg := projection.Thailand()
	cfg.Width, cfg.Height = 800, 1440
	bigger, err := projection.New(cfg)
	require.NoError(t, err)
	resized := c.Paths(ctx, set, bigger)
	assert.NotEqual(t, first["A"], resized["A"])
	assert.Equal(t, NewBuilder(bigger).Build(set.Features[0].Geometry), resized["A"])
}

func TestCacheUsesSecondLevelStore(t *testing.T) {
	set, proj := setup(t)
	store := &memStore{data: map[string]string{}}
	ctx := context.Background()

	warm := NewCache(store).Paths(ctx, set, proj)
	assert.Equal(t, 1, store.saves)
	assert.Len(t, store.data, 2)

	// 新进程：内存为空，从二级缓存取回相同路径，无需再写
	cold := NewCache(store)
	got := cold.Paths(ctx, set, proj)
	assert.Equal(t, warm, got)
	assert.Equal(t, 1, store.saves)
	assert.Equal(t, 2, store.loads)
}

func TestRedisStoreNilClientIsNoop(t *testing.T) {
	s := NewRedisStore(nil, 0)
	assert.Empty(t, s.Load(context.Background(), []string{"k"}))
	s.Save(context.Background(), map[string]string{"k": "v"})
}

func TestCacheKeyCoversProjectionBounds(t *testing.T) {
	set, proj := setup(t)
	store := &memStore{data: map[string]string{}}
	ctx := context.Background()
	NewCache(store).Paths(ctx, set, proj)

	cfg := projection.Thailand()
	cfg.LonMin, cfg.LonMax = 90, 110
	wide, err := projection.New(cfg)
	require.NoError(t, err)

	// 同一二级缓存、同一画布，包围盒不同时不能取回旧路径
	got := NewCache(store).Paths(ctx, set, wide)
	assert.Equal(t, NewBuilder(wide).Build(set.Features[0].Geometry), got["A"])
	assert.Len(t, store.data, 4)

	// 同一进程内重新标定同样触发重建
	c := NewCache(nil)
	before := c.Paths(ctx, set, proj)
	after := c.Paths(ctx, set, wide)
	assert.NotEqual(t, before["A"], after["A"])
}
