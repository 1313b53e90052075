package push

import (
	"sort"

	"github.com/matzehuels/freeboard/pkg/geom"
	"github.com/matzehuels/freeboard/pkg/widget"
)

// Default resolver parameters.
const (
	DefaultGap      = 10
	DefaultMaxDepth = 5
)

// Result maps the id of every instance that must move to its new top-left
// corner. An empty Result means nothing has to move.
type Result map[string]geom.Point

// Resolver computes push resolutions on a canvas.
type Resolver struct {
	Canvas   geom.Canvas
	Gap      int // spacing left between a pushed instance and its pusher
	MaxDepth int // maximum number of cascade levels
}

// New returns a resolver for canvas with the default gap and depth.
func New(canvas geom.Canvas) *Resolver {
	return &Resolver{Canvas: canvas, Gap: DefaultGap, MaxDepth: DefaultMaxDepth}
}

// item is an instance reduced to what resolution needs.
type item struct {
	id   string
	rect geom.Rect
}

// TryPush resolves the overlaps created by instance moving occupying
// candidate. all is the current instance set; the entry for moving, if any,
// is ignored. The returned Result is complete: callers apply all of it or
// nothing. ok is false when no consistent placement exists.
func (r *Resolver) TryPush(moving string, candidate geom.Rect, all []widget.Instance) (Result, bool) {
	items := make([]item, 0, len(all))
	for _, inst := range all {
		if inst.InstanceID == moving {
			continue
		}
		items = append(items, item{id: inst.InstanceID, rect: inst.Rect()})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].id < items[j].id })

	out := make(Result)
	if !r.push(candidate, items, 0, out) {
		return nil, false
	}
	if !consistent(candidate, items, out) {
		return nil, false
	}
	return out, true
}

// push moves every member of set that overlaps candidate, recursing into
// cascades. set never contains candidate's own instance.
func (r *Resolver) push(candidate geom.Rect, set []item, depth int, out Result) bool {
	if depth >= r.MaxDepth {
		return false
	}
	for _, target := range set {
		if !geom.Overlaps(candidate, target.rect) {
			continue
		}
		moved := target.rect.Translate(geom.PushVector(candidate, target.rect, r.Gap))
		if !r.Canvas.Contains(moved) {
			return false
		}
		rest := without(set, target.id)
		if overlapsAny(moved, rest) {
			if !r.push(moved, rest, depth+1, out) {
				return false
			}
		}
		out[target.id] = moved.Origin()
	}
	return true
}

// consistent reports whether applying out leaves no overlap involving the
// moving rectangle or any pushed instance. Overlaps between two untouched
// instances are pre-existing and ignored.
func consistent(candidate geom.Rect, items []item, out Result) bool {
	final := make([]item, len(items))
	for i, it := range items {
		if p, ok := out[it.id]; ok {
			it.rect = it.rect.At(p)
		}
		final[i] = it
	}
	for i, a := range final {
		_, movedA := out[a.id]
		if geom.Overlaps(candidate, a.rect) {
			return false
		}
		for _, b := range final[i+1:] {
			if _, movedB := out[b.id]; !movedA && !movedB {
				continue
			}
			if geom.Overlaps(a.rect, b.rect) {
				return false
			}
		}
	}
	return true
}

func without(set []item, id string) []item {
	out := make([]item, 0, len(set))
	for _, it := range set {
		if it.id != id {
			out = append(out, it)
		}
	}
	return out
}

func overlapsAny(r geom.Rect, set []item) bool {
	for _, it := range set {
		if geom.Overlaps(r, it.rect) {
			return true
		}
	}
	return false
}

// Apply returns a copy of all with the moving instance set to candidate and
// every pushed instance moved to its resolved position.
func Apply(all []widget.Instance, moving string, candidate geom.Rect, res Result) []widget.Instance {
	out := make([]widget.Instance, len(all))
	for i, inst := range all {
		switch p, ok := res[inst.InstanceID]; {
		case inst.InstanceID == moving:
			inst.SetRect(candidate)
		case ok:
			inst.X, inst.Y = p.X, p.Y
		}
		out[i] = inst
	}
	return out
}
