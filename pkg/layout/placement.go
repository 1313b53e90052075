package layout

import (
	"github.com/matzehuels/freeboard/pkg/geom"
	"github.com/matzehuels/freeboard/pkg/widget"
)

// Placement scan parameters.
const (
	// PlacementStep is the grid pitch of the placement scan.
	PlacementStep = 20

	// ScanRows bounds the scan to this many grid rows below the padding.
	ScanRows = 40

	// StackGap separates a fallback placement from the instance above it.
	StackGap = 20
)

// FindPlacement returns the origin for a new w x h instance. It scans grid
// positions row by row, left to right, and returns the first one whose
// rectangle fits the canvas and overlaps no placed instance. When the scan
// region is full, the instance is stacked below the lowest existing one.
func FindPlacement(canvas geom.Canvas, existing []widget.Instance, w, h int) geom.Point {
	placed := make([]geom.Rect, 0, len(existing))
	for _, inst := range existing {
		if inst.Placed() {
			placed = append(placed, inst.Rect())
		}
	}

	for row := 0; row < ScanRows; row++ {
		y := canvas.Padding + row*PlacementStep
		for x := canvas.Padding; x+w <= canvas.Width; x += PlacementStep {
			if free(geom.Rect{X: x, Y: y, W: w, H: h}, placed) {
				return geom.Point{X: x, Y: y}
			}
		}
	}

	b := bottom(existing)
	if b == 0 {
		return geom.Point{X: canvas.Padding, Y: canvas.Padding}
	}
	return geom.Point{X: canvas.Padding, Y: b + StackGap}
}

func free(r geom.Rect, placed []geom.Rect) bool {
	for _, p := range placed {
		if geom.Overlaps(r, p) {
			return false
		}
	}
	return true
}
