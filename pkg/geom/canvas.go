package geom

// Default canvas constants.
const (
	DefaultWidth   = 1600
	DefaultPadding = 20
)

// Canvas describes the drawable area. Height is unbounded: the canvas grows
// downward as widgets are added.
type Canvas struct {
	Width   int
	Padding int
}

// DefaultCanvas returns a canvas with the default width and padding.
func DefaultCanvas() Canvas {
	return Canvas{Width: DefaultWidth, Padding: DefaultPadding}
}

// Contains reports whether r lies inside the canvas bounds: at or right of
// the left padding, at or below the top padding, and not past the right edge.
func (c Canvas) Contains(r Rect) bool {
	return r.X >= c.Padding && r.Y >= c.Padding && r.Right() <= c.Width
}

// ClampOrigin moves r so that it does not cross the left or top padding and,
// when it fits, does not cross the right edge. Width and height are kept.
func (c Canvas) ClampOrigin(r Rect) Rect {
	if r.X+r.W > c.Width {
		r.X = c.Width - r.W
	}
	if r.X < c.Padding {
		r.X = c.Padding
	}
	if r.Y < c.Padding {
		r.Y = c.Padding
	}
	return r
}

// ClampSize keeps the top-left corner of r and bounds its size to at least
// minW x minH and at most the room left before the right edge.
func (c Canvas) ClampSize(r Rect, minW, minH int) Rect {
	if maxW := c.Width - r.X; r.W > maxW {
		r.W = maxW
	}
	if r.W < minW {
		r.W = minW
	}
	if r.H < minH {
		r.H = minH
	}
	return r
}
