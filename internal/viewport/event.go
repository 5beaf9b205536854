package viewport

import (
	"errors"
	"fmt"

	"province-map/internal/colormap"
)

// ErrUnknownEvent 未知事件类型
var ErrUnknownEvent = errors.New("viewport: unknown event")

// Event：宿主界面上报的交互事件
type Event struct {
	Type   string  `json:"type"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Button int     `json:"button,omitempty"`
	DeltaY float64 `json:"deltaY,omitempty"`
	Region string  `json:"region,omitempty"`
	Mode   string  `json:"mode,omitempty"`
	Query  string  `json:"query,omitempty"`
}

const (
	EventPointerDown  = "pointerdown"
	EventPointerMove  = "pointermove"
	EventPointerUp    = "pointerup"
	EventPointerLeave = "pointerleave"
	EventWheel        = "wheel"
	EventRegionEnter  = "regionenter"
	EventRegionLeave  = "regionleave"
	EventClick        = "click"
	EventReset        = "reset"
	EventMode         = "mode"
	EventSearch       = "search"
)

// Dispatch：把事件分派到对应转移；未知类型返回 ErrUnknownEvent，状态不变
func (c *Controller) Dispatch(ev Event) (bool, error) {
	switch ev.Type {
	case EventPointerDown:
		return c.PointerDown(ev.X, ev.Y, ev.Button), nil
	case EventPointerMove:
		return c.PointerMove(ev.X, ev.Y), nil
	case EventPointerUp:
		return c.PointerUp(), nil
	case EventPointerLeave:
		return c.PointerLeave(), nil
	case EventWheel:
		return c.Wheel(ev.DeltaY), nil
	case EventRegionEnter:
		return c.RegionEnter(ev.Region), nil
	case EventRegionLeave:
		return c.RegionLeave(ev.Region), nil
	case EventClick:
		return c.Click(ev.Region), nil
	case EventReset:
		return c.Reset(), nil
	case EventMode:
		return c.SetMode(colormap.Mode(ev.Mode))
	case EventSearch:
		return c.SetSearch(ev.Query), nil
	}
	return false, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
}
