package builtin

import (
	"fmt"

	"github.com/matzehuels/freeboard/pkg/widget"
)

// Counter shows a labelled integer that grows by step on activation.
type Counter struct {
	settings map[string]any
	save     widget.SaveFunc
}

func (c *Counter) Mount(_ widget.Container, settings map[string]any, save widget.SaveFunc) error {
	c.settings, c.save = settings, save
	return nil
}

func (c *Counter) Render() string {
	return fmt.Sprintf("%s: %d",
		stringSetting(c.settings, "label", "Count"),
		intSetting(c.settings, "value", 0))
}

// Activate increments the counter and saves the new value.
func (c *Counter) Activate() {
	c.settings["value"] = intSetting(c.settings, "value", 0) + intSetting(c.settings, "step", 1)
	c.save(c.settings)
}

func (c *Counter) Unmount() { c.settings, c.save = nil, nil }
