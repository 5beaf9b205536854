package boundary

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSkipsUnusableFeatures(t *testing.T) {
	set, err := LoadFile(filepath.Join("testdata", "two_regions.geojson"))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, set.Names())

	a, ok := set.Lookup("A")
	require.True(t, ok)
	poly, ok := a.Geometry.(orb.Polygon)
	require.True(t, ok)
	assert.Len(t, poly, 1)
	assert.Equal(t, orb.Point{100, 10}, poly[0][0])
	assert.Equal(t, orb.Bound{Min: orb.Point{100, 10}, Max: orb.Point{101, 11}}, a.Bound)

	b, ok := set.Lookup("B")
	require.True(t, ok)
	mp, ok := b.Geometry.(orb.MultiPolygon)
	require.True(t, ok)
	assert.Len(t, mp, 2)
	assert.Len(t, mp[0], 2, "hole kept as second ring")

	_, ok = set.Lookup("a")
	assert.False(t, ok, "lookup is case-sensitive")
}

func TestParseMergesDuplicateNames(t *testing.T) {
	data := []byte(`{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{"name":"X"},"geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}},
		{"type":"Feature","properties":{"name":"X"},"geometry":{"type":"Polygon","coordinates":[[[5,5],[6,5],[6,6],[5,5]]]}}
	]}`)
	set, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, 1, set.Len())
	x, _ := set.Lookup("X")
	mp, ok := x.Geometry.(orb.MultiPolygon)
	require.True(t, ok)
	assert.Len(t, mp, 2)
	assert.Equal(t, orb.Point{6, 6}, x.Bound.Max)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte(`not json`))
	assert.Error(t, err)

	_, err = Parse([]byte(`{"type":"FeatureCollection","features":[]}`))
	assert.True(t, errors.Is(err, ErrEmpty))
}

func TestFingerprintStable(t *testing.T) {
	b, err := os.ReadFile(filepath.Join("testdata", "two_regions.geojson"))
	require.NoError(t, err)
	s1, err := Parse(b)
	require.NoError(t, err)
	s2, err := Parse(b)
	require.NoError(t, err)
	assert.Equal(t, s1.Fingerprint, s2.Fingerprint)

	other, err := Parse([]byte(`{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{"name":"A"},"geometry":{"type":"Polygon","coordinates":[[[100,10],[101,10],[101,12],[100,10]]]}}]}`))
	require.NoError(t, err)
	assert.NotEqual(t, s1.Fingerprint, other.Fingerprint)
}

func TestFetch(t *testing.T) {
	b, err := os.ReadFile(filepath.Join("testdata", "two_regions.geojson"))
	require.NoError(t, err)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/provinces.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(b)
	}))
	defer srv.Close()

	set, err := Loader(srv.URL+"/provinces.json", srv.Client())(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())

	_, err = Fetch(context.Background(), srv.Client(), srv.URL+"/missing.json")
	assert.Error(t, err)
}

func TestSourceStaysLoadingOnFailure(t *testing.T) {
	calls := 0
	src := NewSource(func(context.Context) (*Set, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("boom")
		}
		return Parse([]byte(`{"type":"FeatureCollection","features":[
			{"type":"Feature","properties":{"name":"A"},"geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}}]}`))
	})

	_, ok := src.Set()
	assert.False(t, ok)

	waitDone(t, src.Start(context.Background()))
	assert.False(t, src.Loaded(), "failure keeps loading state")
	select {
	case <-src.Ready():
		t.Fatal("ready closed after a failed load")
	default:
	}

	waitDone(t, src.Start(context.Background()))
	set, ok := src.Set()
	require.True(t, ok)
	assert.Equal(t, 1, set.Len())
	waitDone(t, src.Ready())

	// 再次加载成功不会重复关闭
	waitDone(t, src.Start(context.Background()))
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("load did not finish")
	}
}
