package colormap

import (
	"errors"
	"math"
	"testing"

	"province-map/internal/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenario() *Table {
	return NewDefaultTable([]stats.RegionStat{
		{NameEnglish: "A", Total: 10, DominantColor: "#f47933"},
		{NameEnglish: "C", Total: 30, Suspicious: 0},
	})
}

func TestCountRatioScenario(t *testing.T) {
	tbl := NewDefaultTable([]stats.RegionStat{
		{NameEnglish: "A", Total: 10},
		{NameEnglish: "B", Total: 30},
	})
	assert.Equal(t, 1.0, tbl.Ratio("B", ModeCount))
	assert.InDelta(t, 1.0/3.0, tbl.Ratio("A", ModeCount), 1e-12)

	p := DefaultPalette()
	high, _ := ParseHex(p.CountHigh)
	assert.Equal(t, high.String(), tbl.ColorFor("B", ModeCount))
	assert.Equal(t, "rgb(47,132,197)", tbl.ColorFor("A", ModeCount))
}

func TestMissingRegionIsNeutralInEveryMode(t *testing.T) {
	tbl := scenario()
	for _, m := range []Mode{ModeCategory, ModeCount, ModeSecondary} {
		assert.Equal(t, DefaultPalette().NoData, tbl.ColorFor("B", m), "mode %s", m)
		assert.Equal(t, 0.0, tbl.Ratio("B", m))
	}
	assert.Nil(t, tbl.Detail("B"))
}

func TestCategoryMode(t *testing.T) {
	tbl := scenario()
	assert.Equal(t, "#f47933", tbl.ColorFor("A", ModeCategory))
	assert.Equal(t, DefaultPalette().CategoryFallback, tbl.ColorFor("C", ModeCategory))
}

func TestSecondaryMode(t *testing.T) {
	tbl := NewDefaultTable([]stats.RegionStat{
		{NameEnglish: "clean", Suspicious: 0},
		{NameEnglish: "some", Suspicious: 2},
		{NameEnglish: "most", Suspicious: 4},
		{NameEnglish: "tied", Suspicious: 4},
	})
	assert.Equal(t, DefaultPalette().SecondaryZero, tbl.ColorFor("clean", ModeSecondary))
	assert.Equal(t, "rgb(255,16,10)", tbl.ColorFor("most", ModeSecondary))
	assert.Equal(t, 1.0, tbl.Ratio("tied", ModeSecondary), "ties at max resolve to 1")
	assert.Equal(t, 0.5, tbl.Ratio("some", ModeSecondary))
	assert.Equal(t, "rgb(148,48,30)", tbl.ColorFor("some", ModeSecondary))
}

func TestAllZeroTableHasZeroRatio(t *testing.T) {
	tbl := NewDefaultTable([]stats.RegionStat{{NameEnglish: "A"}, {NameEnglish: "B"}})
	for _, m := range []Mode{ModeCount, ModeSecondary} {
		r := tbl.Ratio("A", m)
		assert.False(t, math.IsNaN(r))
		assert.Equal(t, 0.0, r)
	}
	low, _ := ParseHex(DefaultPalette().CountLow)
	assert.Equal(t, low.String(), tbl.ColorFor("A", ModeCount))
}

func TestRatioOneOnlyAtMaximum(t *testing.T) {
	rows := []stats.RegionStat{
		{NameEnglish: "a", Total: 3}, {NameEnglish: "b", Total: 9},
		{NameEnglish: "c", Total: 9}, {NameEnglish: "d", Total: 1},
	}
	tbl := NewDefaultTable(rows)
	for _, r := range rows {
		isMax := r.Total == tbl.MaxTotal()
		assert.Equal(t, isMax, tbl.Ratio(r.NameEnglish, ModeCount) == 1, r.NameEnglish)
	}
}

func TestJoinIsCaseSensitiveAndLastWins(t *testing.T) {
	tbl := NewDefaultTable([]stats.RegionStat{
		{NameEnglish: "Bangkok", Total: 1},
		{NameEnglish: "Bangkok", Total: 2},
	})
	r, ok := tbl.Lookup("Bangkok")
	require.True(t, ok)
	assert.Equal(t, 2, r.Total)
	_, ok = tbl.Lookup("bangkok")
	assert.False(t, ok)
	assert.Equal(t, 1, tbl.Len(), "duplicates collapse to one row")
	assert.Equal(t, 2, tbl.Totals().Total)
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{
		"party": ModeCategory, "Seats": ModeCount,
		"count": ModeCount, "suspicious": ModeSecondary, " secondary ": ModeSecondary,
	} {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"heat", "", "  "} {
		_, err := ParseMode(in)
		assert.True(t, errors.Is(err, ErrInvalidMode), "%q", in)
	}
}

func TestSearch(t *testing.T) {
	tbl := NewDefaultTable([]stats.RegionStat{
		{NameEnglish: "Chiang Mai", NameLocal: "เชียงใหม่", DominantLabel: "Party Two"},
		{NameEnglish: "Chiang Rai", NameLocal: "เชียงราย", DominantLabel: "Party One"},
		{NameEnglish: "Bangkok", NameLocal: "กรุงเทพมหานคร", DominantLabel: "Party One"},
	})
	assert.Nil(t, tbl.Search("   "))
	assert.Equal(t, map[string]bool{"Chiang Mai": true, "Chiang Rai": true}, tbl.Search("chiang"))
	assert.Equal(t, map[string]bool{"Chiang Rai": true, "Bangkok": true}, tbl.Search("party one"))
	assert.Equal(t, map[string]bool{"Chiang Mai": true}, tbl.Search("เชียงใหม่"))
	assert.Empty(t, tbl.Search("zzz"))
}

func TestNewTableRejectsBadPalette(t *testing.T) {
	p := DefaultPalette()
	p.CountHigh = "green"
	_, err := NewTable(nil, p)
	assert.Error(t, err)
}
