package geom

import "fmt"

// Unplaced is the sentinel coordinate of an instance that has not been
// assigned a position yet.
const Unplaced = -1

// Point is a location on the canvas.
type Point struct {
	X, Y int
}

// Add returns p translated by v.
func (p Point) Add(v Vector) Point { return Point{X: p.X + v.DX, Y: p.Y + v.DY} }

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Vector { return Vector{DX: p.X - q.X, DY: p.Y - q.Y} }

// Vector is a translation on the canvas.
type Vector struct {
	DX, DY int
}

// IsZero reports whether v moves nothing.
func (v Vector) IsZero() bool { return v.DX == 0 && v.DY == 0 }

// Rect is an axis-aligned rectangle. W and H are never negative for
// rectangles produced by this package.
type Rect struct {
	X, Y int
	W, H int
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() int { return r.Y + r.H }

// Origin returns the top-left corner.
func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

// At returns r moved so that its top-left corner is p.
func (r Rect) At(p Point) Rect {
	r.X, r.Y = p.X, p.Y
	return r
}

// Translate returns r moved by v.
func (r Rect) Translate(v Vector) Rect {
	r.X += v.DX
	r.Y += v.DY
	return r
}

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.W, r.H)
}

// Overlaps reports whether a and b intersect with a non-zero area.
// Touching edges count as non-overlapping, and a rectangle with no area
// overlaps nothing.
func Overlaps(a, b Rect) bool {
	if a.W <= 0 || a.H <= 0 || b.W <= 0 || b.H <= 0 {
		return false
	}
	return a.X < b.X+b.W &&
		a.X+a.W > b.X &&
		a.Y < b.Y+b.H &&
		a.Y+a.H > b.Y
}

// PushVector returns the minimum-magnitude axis-aligned translation that
// moves target out of dragged, leaving gap units of spacing between them.
//
// Four separations are evaluated: target pushed right, left, down and up.
// The axis needing the smaller displacement wins and the other component is
// zero. On equal magnitudes the x axis is preferred over y, and the
// positive direction (right, down) over the negative one.
//
// The result is only meaningful when Overlaps(dragged, target) is true.
func PushVector(dragged, target Rect, gap int) Vector {
	right := dragged.Right() + gap - target.X
	left := target.Right() + gap - dragged.X
	down := dragged.Bottom() + gap - target.Y
	up := target.Bottom() + gap - dragged.Y

	dx := right
	if left < right {
		dx = -left
	}
	dy := down
	if up < down {
		dy = -up
	}

	if abs(dy) < abs(dx) {
		return Vector{DY: dy}
	}
	return Vector{DX: dx}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
