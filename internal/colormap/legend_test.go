package colormap

import (
	"path/filepath"
	"testing"

	"province-map/internal/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T) *Table {
	t.Helper()
	rows, err := stats.LoadFile(filepath.Join("..", "stats", "testdata", "provinces.json"))
	require.NoError(t, err)
	return NewDefaultTable(rows)
}

func TestCategories(t *testing.T) {
	got := fixture(t).Categories()
	require.Len(t, got, 2)
	assert.Equal(t, LegendEntry{Code: "P2", Label: "Party Two", Color: "#e30613", Total: 23, Regions: 1}, got[0])
	assert.Equal(t, LegendEntry{Code: "P1", Label: "Party One", Color: "#f47933", Total: 20, Regions: 1}, got[1])
}

func TestCategoriesCountsDominantWithoutBreakdown(t *testing.T) {
	tbl := NewDefaultTable([]stats.RegionStat{
		{NameEnglish: "A", Total: 5, DominantCode: "P1", DominantLabel: "One", DominantColor: "#f47933",
			Breakdown: []stats.CategoryCount{{Code: "P1", Label: "One", Color: "#f47933", Count: 5}}},
		{NameEnglish: "B", Total: 3, DominantCode: "P1", DominantLabel: "One", DominantColor: "#f47933"},
		{NameEnglish: "C", Total: 2, DominantCode: "P9", DominantLabel: "Nine", DominantColor: "#123456"},
		{NameEnglish: "D", Total: 1},
	})
	got := tbl.Categories()
	require.Len(t, got, 2)
	assert.Equal(t, LegendEntry{Code: "P1", Label: "One", Color: "#f47933", Total: 5, Regions: 2}, got[0])
	assert.Equal(t, LegendEntry{Code: "P9", Label: "Nine", Color: "#123456", Total: 0, Regions: 1}, got[1])
	assert.Equal(t, 2, tbl.Totals().Categories)
}

func TestTotals(t *testing.T) {
	assert.Equal(t, Totals{Regions: 2, Total: 43, Suspicious: 4, Categories: 2}, fixture(t).Totals())
}

func TestDetail(t *testing.T) {
	d := fixture(t).Detail("Bangkok")
	require.NotNil(t, d)
	require.Len(t, d.Shares, 2)
	assert.InDelta(t, 20.0/33.0*100, d.Shares[0].Percent, 1e-9)
	assert.Equal(t, "P2", d.Shares[1].Code)
}

func TestSorted(t *testing.T) {
	tbl := fixture(t)
	all := tbl.Sorted(nil)
	require.Len(t, all, 2)
	assert.Equal(t, "Bangkok", all[0].NameEnglish)

	only := tbl.Sorted(tbl.Search("chiang"))
	require.Len(t, only, 1)
	assert.Equal(t, "Chiang Mai", only[0].NameEnglish)
}
