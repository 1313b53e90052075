package builtin

import (
	"strings"

	"github.com/matzehuels/freeboard/pkg/widget"
)

// Note renders a title and free text.
type Note struct {
	settings map[string]any
	save     widget.SaveFunc
	c        widget.Container
}

func (n *Note) Mount(c widget.Container, settings map[string]any, save widget.SaveFunc) error {
	n.c, n.settings, n.save = c, settings, save
	return nil
}

func (n *Note) Render() string {
	title := stringSetting(n.settings, "title", "Note")
	text := stringSetting(n.settings, "text", "")
	return title + "\n" + wrap(text, n.c.Width)
}

// RenderFocused shows the full text without wrapping to the small container.
func (n *Note) RenderFocused(c widget.Container) string {
	title := stringSetting(n.settings, "title", "Note")
	return strings.ToUpper(title) + "\n\n" + wrap(stringSetting(n.settings, "text", ""), c.Width)
}

// SetText replaces the note text and saves it.
func (n *Note) SetText(text string) {
	n.settings["text"] = text
	n.save(n.settings)
}

func (n *Note) Unmount() { n.settings, n.save = nil, nil }

// wrap breaks s into lines of at most width runes on word boundaries.
func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	var b strings.Builder
	line := 0
	for i, word := range strings.Fields(s) {
		n := len([]rune(word))
		if i > 0 {
			if line+1+n > width {
				b.WriteByte('\n')
				line = 0
			} else {
				b.WriteByte(' ')
				line++
			}
		}
		b.WriteString(word)
		line += n
	}
	return b.String()
}
