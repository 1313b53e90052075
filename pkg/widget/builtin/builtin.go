// Package builtin registers the widget types shipped with freeboard.
//
// The bodies are deliberately small leaf components: they render text into
// their container and persist their own settings through the save callback
// they receive at mount time.
package builtin

import (
	"github.com/matzehuels/freeboard/pkg/widget"
)

// Widget ids of the built-in types.
const (
	NoteID      = "note"
	ClockID     = "clock"
	CounterID   = "counter"
	ChecklistID = "checklist"
)

// Register adds every built-in widget type to r.
func Register(r *widget.Registry) error {
	for _, b := range all() {
		if err := r.Register(b.desc, b.factory); err != nil {
			return err
		}
	}
	return nil
}

type builtin struct {
	desc    widget.Descriptor
	factory widget.Factory
}

func all() []builtin {
	return []builtin{
		{
			desc: widget.Descriptor{
				ID:          NoteID,
				Name:        "Note",
				Icon:        "✎",
				Sizes:       []widget.SizeClass{widget.SizeSmall, widget.SizeMedium, widget.SizeLarge},
				DefaultSize: widget.SizeSmall,
				Settings: map[string]widget.SettingSpec{
					"title": {Type: "string", Default: "Note"},
					"text":  {Type: "string", Default: ""},
				},
			},
			factory: func() widget.Body { return &Note{} },
		},
		{
			desc: widget.Descriptor{
				ID:          ClockID,
				Name:        "Clock",
				Icon:        "◷",
				Sizes:       []widget.SizeClass{widget.SizeSmall},
				DefaultSize: widget.SizeSmall,
				Settings: map[string]widget.SettingSpec{
					"format":   {Type: "string", Default: "15:04"},
					"location": {Type: "string", Default: "Local"},
				},
			},
			factory: func() widget.Body { return NewClock(nil) },
		},
		{
			desc: widget.Descriptor{
				ID:          CounterID,
				Name:        "Counter",
				Icon:        "#",
				Sizes:       []widget.SizeClass{widget.SizeSmall, widget.SizeMedium},
				DefaultSize: widget.SizeSmall,
				Settings: map[string]widget.SettingSpec{
					"label": {Type: "string", Default: "Count"},
					"value": {Type: "int", Default: 0},
					"step":  {Type: "int", Default: 1},
				},
			},
			factory: func() widget.Body { return &Counter{} },
		},
		{
			desc: widget.Descriptor{
				ID:          ChecklistID,
				Name:        "Checklist",
				Icon:        "☑",
				Sizes:       []widget.SizeClass{widget.SizeMedium, widget.SizeLarge},
				DefaultSize: widget.SizeMedium,
				Settings: map[string]widget.SettingSpec{
					"items": {Type: "list", Default: []any{}},
					"done":  {Type: "list", Default: []any{}},
				},
			},
			factory: func() widget.Body { return &Checklist{} },
		},
	}
}

// intSetting reads an integer setting. JSON decoding yields float64 and YAML
// yields int, so both are accepted.
func intSetting(s map[string]any, key string, def int) int {
	switch v := s[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case int32:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

func stringSetting(s map[string]any, key, def string) string {
	if v, ok := s[key].(string); ok {
		return v
	}
	return def
}

func listSetting(s map[string]any, key string) []string {
	raw, _ := s[key].([]any)
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if str, ok := v.(string); ok {
			out = append(out, str)
		}
	}
	return out
}
