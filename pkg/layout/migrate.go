package layout

import (
	"sort"

	"github.com/matzehuels/freeboard/pkg/geom"
	"github.com/matzehuels/freeboard/pkg/widget"
)

// Grid constants used to lay out migrated legacy widgets.
const (
	MigrationColumns = 3
	ColumnSpacing    = 20
	RowSpacing       = 20
)

// LegacyWidget is a widget in the pre-freeform slot-index schema.
type LegacyWidget struct {
	InstanceID   string           `json:"instanceId"`
	WidgetID     string           `json:"widgetId"`
	Position     *int             `json:"position"`
	Size         widget.SizeClass `json:"size"`
	CustomWidth  int              `json:"customWidth,omitempty"`
	CustomHeight int              `json:"customHeight,omitempty"`
	Settings     map[string]any   `json:"settings"`
}

// dimensions returns the stored override when present, otherwise the size
// class default, never below the minimum size.
func (w LegacyWidget) dimensions() (int, int) {
	width, height := w.Size.Dimensions()
	if w.CustomWidth > 0 {
		width = w.CustomWidth
	}
	if w.CustomHeight > 0 {
		height = w.CustomHeight
	}
	return max(width, widget.MinWidth), max(height, widget.MinHeight)
}

// Migrate converts legacy widgets into a freeform layout. Widgets are ordered
// by slot index and placed row-major, MigrationColumns per row, starting at
// the canvas padding. A row ends early when the next widget would cross the
// right edge. Each row starts RowSpacing below the tallest widget of the
// previous row, so rows never overlap. Widths wider than the canvas are cut
// to fit a row of their own.
//
// The result depends only on the input, which makes migration repeatable.
func Migrate(workspaceID string, legacy []LegacyWidget, canvas geom.Canvas) *Layout {
	ordered := make([]LegacyWidget, len(legacy))
	copy(ordered, legacy)
	sort.SliceStable(ordered, func(i, j int) bool {
		return slot(ordered[i]) < slot(ordered[j])
	})

	l := New(workspaceID)
	x, y := canvas.Padding, canvas.Padding
	col, rowHeight := 0, 0
	for _, lw := range ordered {
		w, h := lw.dimensions()
		w = max(min(w, canvas.Width-canvas.Padding), widget.MinWidth)
		if col > 0 && (col == MigrationColumns || x+w > canvas.Width) {
			x = canvas.Padding
			y += rowHeight + RowSpacing
			col, rowHeight = 0, 0
		}

		inst := widget.Instance{
			InstanceID: lw.InstanceID,
			WidgetID:   lw.WidgetID,
			X:          x,
			Y:          y,
			Width:      w,
			Height:     h,
			Settings:   lw.Settings,
		}
		if inst.Settings == nil {
			inst.Settings = map[string]any{}
		}
		l.Widgets = append(l.Widgets, inst)

		x += w + ColumnSpacing
		rowHeight = max(rowHeight, h)
		col++
	}
	return l
}

func slot(w LegacyWidget) int {
	if w.Position == nil {
		return 0
	}
	return *w.Position
}
