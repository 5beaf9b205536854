package colormap

import (
	"testing"

	"province-map/internal/stats"

	"github.com/stretchr/testify/assert"
)

func TestDynamicSwap(t *testing.T) {
	d := NewDynamic(nil)
	assert.Equal(t, 0, d.Table().Len())
	assert.Equal(t, DefaultPalette().NoData, d.Table().ColorFor("A", ModeCategory))

	first := NewDefaultTable([]stats.RegionStat{{NameEnglish: "A", DominantColor: "#112233"}})
	d.Set(first)
	held := d.Table()
	d.Set(NewDefaultTable([]stats.RegionStat{{NameEnglish: "A", DominantColor: "#445566"}}))
	d.Set(nil)

	assert.Equal(t, "#112233", held.ColorFor("A", ModeCategory), "readers keep the table they loaded")
	assert.Equal(t, "#445566", d.Table().ColorFor("A", ModeCategory))
}
