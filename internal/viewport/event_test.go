package viewport

import (
	"testing"

	"province-map/internal/colormap"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatch(t *testing.T) {
	c := New(DefaultLimits())
	steps := []struct {
		ev      Event
		changed bool
	}{
		{Event{Type: EventPointerDown, X: 0, Y: 0}, false},
		{Event{Type: EventPointerMove, X: 5, Y: 6}, true},
		{Event{Type: EventPointerUp}, false},
		{Event{Type: EventWheel, DeltaY: -3}, true},
		{Event{Type: EventRegionEnter, Region: "A"}, true},
		{Event{Type: EventClick, Region: "A"}, true},
		{Event{Type: EventRegionLeave, Region: "A"}, true},
		{Event{Type: EventMode, Mode: "suspicious"}, true},
		{Event{Type: EventSearch, Query: "bang"}, true},
		{Event{Type: EventPointerLeave}, false},
	}
	for i, s := range steps {
		changed, err := c.Dispatch(s.ev)
		require.NoError(t, err, "step %d", i)
		assert.Equal(t, s.changed, changed, "step %d (%s)", i, s.ev.Type)
	}
	st := c.State()
	assert.Equal(t, Point{X: 5, Y: 6}, st.Transform.Pan)
	assert.Equal(t, "A", st.Selected)
	assert.Equal(t, colormap.ModeSecondary, st.Mode)
	assert.Equal(t, "bang", st.Search)
	assert.Equal(t, "idle", st.Phase)

	changed, err := c.Dispatch(Event{Type: EventReset})
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestDispatchModeRequiresValue(t *testing.T) {
	c := New(DefaultLimits())
	_, err := c.SetMode(colormap.ModeCount)
	require.NoError(t, err)
	changed, err := c.Dispatch(Event{Type: EventMode})
	assert.ErrorIs(t, err, colormap.ErrInvalidMode)
	assert.False(t, changed)
	assert.Equal(t, colormap.ModeCount, c.Mode())
}

func TestDispatchUnknown(t *testing.T) {
	c := New(DefaultLimits())
	before := c.State()
	_, err := c.Dispatch(Event{Type: "teleport"})
	assert.ErrorIs(t, err, ErrUnknownEvent)
	assert.Equal(t, before, c.State())
}
