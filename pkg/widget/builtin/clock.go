package builtin

import (
	"time"

	"github.com/matzehuels/freeboard/pkg/widget"
)

// Clock renders the current time in a configured location and layout.
type Clock struct {
	now      func() time.Time
	settings map[string]any
}

// NewClock creates a clock reading time from now. A nil now uses time.Now.
func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

func (c *Clock) Mount(_ widget.Container, settings map[string]any, _ widget.SaveFunc) error {
	c.settings = settings
	return nil
}

func (c *Clock) Render() string {
	t := c.now()
	if loc, err := time.LoadLocation(stringSetting(c.settings, "location", "Local")); err == nil {
		t = t.In(loc)
	}
	return t.Format(stringSetting(c.settings, "format", "15:04"))
}

func (c *Clock) Unmount() { c.settings = nil }
