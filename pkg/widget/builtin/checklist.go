package builtin

import (
	"slices"
	"strings"

	"github.com/matzehuels/freeboard/pkg/widget"
)

// Checklist renders items with a done marker. Activation checks off the first
// open item.
type Checklist struct {
	settings map[string]any
	save     widget.SaveFunc
}

func (c *Checklist) Mount(_ widget.Container, settings map[string]any, save widget.SaveFunc) error {
	c.settings, c.save = settings, save
	return nil
}

func (c *Checklist) Render() string {
	items := listSetting(c.settings, "items")
	if len(items) == 0 {
		return "(empty)"
	}
	done := listSetting(c.settings, "done")
	lines := make([]string, len(items))
	for i, item := range items {
		mark := "[ ]"
		if slices.Contains(done, item) {
			mark = "[x]"
		}
		lines[i] = mark + " " + item
	}
	return strings.Join(lines, "\n")
}

func (c *Checklist) Activate() {
	done := listSetting(c.settings, "done")
	for _, item := range listSetting(c.settings, "items") {
		if !slices.Contains(done, item) {
			raw, _ := c.settings["done"].([]any)
			c.settings["done"] = append(raw, item)
			c.save(c.settings)
			return
		}
	}
}

func (c *Checklist) Unmount() { c.settings, c.save = nil, nil }
