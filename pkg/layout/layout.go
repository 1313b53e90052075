package layout

import (
	"github.com/matzehuels/freeboard/pkg/errors"
	"github.com/matzehuels/freeboard/pkg/geom"
	"github.com/matzehuels/freeboard/pkg/widget"
)

// Format versions.
const (
	VersionLegacy   = 1
	VersionFreeform = 2
)

// Layout is the persisted aggregate of one workspace.
type Layout struct {
	WorkspaceID string
	Version     int
	Widgets     []widget.Instance
}

// New returns an empty freeform layout for workspaceID.
func New(workspaceID string) *Layout {
	return &Layout{WorkspaceID: workspaceID, Version: VersionFreeform, Widgets: []widget.Instance{}}
}

// Index returns the position of the instance with the given id.
func (l *Layout) Index(instanceID string) (int, bool) {
	for i, w := range l.Widgets {
		if w.InstanceID == instanceID {
			return i, true
		}
	}
	return -1, false
}

// Instance returns a copy of the instance with the given id.
func (l *Layout) Instance(instanceID string) (widget.Instance, bool) {
	i, ok := l.Index(instanceID)
	if !ok {
		return widget.Instance{}, false
	}
	return l.Widgets[i].Clone(), true
}

// Clone returns a deep copy of l.
func (l *Layout) Clone() *Layout {
	out := &Layout{WorkspaceID: l.WorkspaceID, Version: l.Version, Widgets: make([]widget.Instance, len(l.Widgets))}
	for i, w := range l.Widgets {
		out.Widgets[i] = w.Clone()
	}
	return out
}

// Rects returns the geometry of every placed instance keyed by instance id.
func (l *Layout) Rects() map[string]geom.Rect {
	out := make(map[string]geom.Rect, len(l.Widgets))
	for _, w := range l.Widgets {
		if w.Placed() {
			out[w.InstanceID] = w.Rect()
		}
	}
	return out
}

// Bottom returns the lowest bottom edge among placed instances, or 0 for an
// empty layout.
func (l *Layout) Bottom() int {
	return bottom(l.Widgets)
}

// Validate checks that every instance has a unique id, meets the minimum
// size, lies inside the canvas and overlaps no other instance.
func (l *Layout) Validate(canvas geom.Canvas) error {
	seen := make(map[string]bool, len(l.Widgets))
	for i, w := range l.Widgets {
		if w.InstanceID == "" {
			return errors.New(errors.ErrCodeInvalidLayout, "widget %d has no instance id", i)
		}
		if seen[w.InstanceID] {
			return errors.New(errors.ErrCodeInvalidLayout, "duplicate instance id %q", w.InstanceID)
		}
		seen[w.InstanceID] = true
		if w.Width < widget.MinWidth || w.Height < widget.MinHeight {
			return errors.New(errors.ErrCodeInvalidGeometry, "instance %s is smaller than %dx%d", w.InstanceID, widget.MinWidth, widget.MinHeight)
		}
		if !canvas.Contains(w.Rect()) {
			return errors.New(errors.ErrCodeInvalidGeometry, "instance %s at %s is outside the canvas", w.InstanceID, w.Rect())
		}
	}
	for i := range l.Widgets {
		for j := i + 1; j < len(l.Widgets); j++ {
			a, b := l.Widgets[i], l.Widgets[j]
			if geom.Overlaps(a.Rect(), b.Rect()) {
				return errors.New(errors.ErrCodeInvalidLayout, "instances %s and %s overlap", a.InstanceID, b.InstanceID)
			}
		}
	}
	return nil
}

func bottom(ws []widget.Instance) int {
	b := 0
	for _, w := range ws {
		if w.Placed() && w.Y+w.Height > b {
			b = w.Y + w.Height
		}
	}
	return b
}
