package interact

import "github.com/matzehuels/freeboard/pkg/geom"

// Region is the part of a widget frame a pointer is over.
type Region int

const (
	RegionNone    Region = iota // outside the widget
	RegionHeader                // title bar, starts a drag
	RegionControl               // buttons at the right end of the header
	RegionBody                  // content, owned by the widget body
	RegionResize                // bottom-right handle, starts a resize
)

// Frame dimensions in canvas units.
const (
	HeaderHeight = 40
	ControlWidth = 48
	ResizeHandle = 16
)

var regionNames = [...]string{"none", "header", "control", "body", "resize"}

func (r Region) String() string {
	if r < 0 || int(r) >= len(regionNames) {
		return "unknown"
	}
	return regionNames[r]
}

// HitTest classifies p relative to the frame r.
func HitTest(r geom.Rect, p geom.Point) Region {
	if !r.Contains(p) {
		return RegionNone
	}
	if p.X >= r.Right()-ResizeHandle && p.Y >= r.Bottom()-ResizeHandle {
		return RegionResize
	}
	if p.Y < r.Y+HeaderHeight {
		if p.X >= r.Right()-ControlWidth {
			return RegionControl
		}
		return RegionHeader
	}
	return RegionBody
}
