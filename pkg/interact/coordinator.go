package interact

import (
	"context"
	"io"
	"maps"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/freeboard/pkg/errors"
	"github.com/matzehuels/freeboard/pkg/geom"
	"github.com/matzehuels/freeboard/pkg/observability"
	"github.com/matzehuels/freeboard/pkg/push"
	"github.com/matzehuels/freeboard/pkg/widget"
)

// Kind is the type of a gesture.
type Kind int

const (
	KindDrag Kind = iota
	KindResize
)

func (k Kind) String() string {
	if k == KindResize {
		return "resize"
	}
	return "drag"
}

// Outcome is the terminal state of a gesture.
type Outcome int

const (
	Reverted Outcome = iota
	Committed
)

func (o Outcome) String() string {
	if o == Committed {
		return "committed"
	}
	return "reverted"
}

// Preview is the tentative result of one pointer move. Rect is the candidate
// of the gesturing instance and Pushed holds the tentative rectangles of the
// neighbours it displaces. A blocked preview has no pushed instances.
type Preview struct {
	InstanceID string
	Kind       Kind
	Rect       geom.Rect
	Pushed     map[string]geom.Rect
	Blocked    bool
}

// Presenter applies gesture results to visible output.
type Presenter interface {
	// ShowPreview paints p without changing committed state.
	ShowPreview(p Preview)

	// Revert restores every listed instance to its pre-gesture rectangle.
	Revert(rects map[string]geom.Rect)

	// Commit reports rectangles that were written to the layout store.
	Commit(rects map[string]geom.Rect)
}

// Store is the part of the layout store gestures need.
type Store interface {
	Canvas() geom.Canvas
	Instances() []widget.Instance
	Commit(rects map[string]geom.Rect) error
	Save(ctx context.Context)
}

// Coordinator runs drag and resize gestures. It holds at most one active
// gesture; its methods are meant to be called from a single event loop.
type Coordinator struct {
	store     Store
	resolver  *push.Resolver
	presenter Presenter
	logger    *log.Logger

	active *gesture
}

type gesture struct {
	kind     Kind
	id       string
	start    geom.Rect
	pointer  geom.Point
	snapshot []widget.Instance
	last     Preview
	began    time.Time
}

// NewCoordinator returns a coordinator for store. A nil presenter discards
// previews and a nil logger discards output.
func NewCoordinator(store Store, resolver *push.Resolver, presenter Presenter, logger *log.Logger) *Coordinator {
	if resolver == nil {
		resolver = push.New(store.Canvas())
	}
	if presenter == nil {
		presenter = nopPresenter{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Coordinator{store: store, resolver: resolver, presenter: presenter, logger: logger}
}

// Active reports the running gesture, if any.
func (c *Coordinator) Active() (kind Kind, instanceID string, ok bool) {
	if c.active == nil {
		return 0, "", false
	}
	return c.active.kind, c.active.id, true
}

// Press starts a gesture when p lands on the header (drag) or the resize
// handle (resize) of instanceID. Presses on other regions return
// RegionBody, RegionControl or RegionNone and start nothing.
func (c *Coordinator) Press(instanceID string, p geom.Point) (Region, error) {
	if c.active != nil {
		return RegionNone, c.busy()
	}
	inst, ok := c.find(instanceID)
	if !ok {
		return RegionNone, errors.New(errors.ErrCodeInstanceNotFound, "instance %s not found", instanceID)
	}
	region := HitTest(inst.Rect(), p)
	switch region {
	case RegionHeader:
		return region, c.Begin(KindDrag, instanceID, p)
	case RegionResize:
		return region, c.Begin(KindResize, instanceID, p)
	default:
		return region, nil
	}
}

// Begin starts a gesture of kind on instanceID with the pointer at p,
// without hit testing.
func (c *Coordinator) Begin(kind Kind, instanceID string, p geom.Point) error {
	if c.active != nil {
		return c.busy()
	}
	snapshot := c.store.Instances()
	var start geom.Rect
	found := false
	for _, inst := range snapshot {
		if inst.InstanceID == instanceID {
			start, found = inst.Rect(), true
			break
		}
	}
	if !found {
		return errors.New(errors.ErrCodeInstanceNotFound, "instance %s not found", instanceID)
	}

	c.active = &gesture{
		kind:     kind,
		id:       instanceID,
		start:    start,
		pointer:  p,
		snapshot: snapshot,
		last:     Preview{InstanceID: instanceID, Kind: kind, Rect: start},
		began:    time.Now(),
	}
	observability.Gesture().OnGestureStart(kind.String(), instanceID)
	c.logger.Debug("gesture started", "kind", kind, "instance", instanceID, "rect", start)
	return nil
}

// Move computes the preview for the pointer at p and hands it to the
// presenter. An infeasible candidate yields a blocked preview; the last
// feasible one is forgotten so that a release reverts.
func (c *Coordinator) Move(p geom.Point) (Preview, error) {
	g := c.active
	if g == nil {
		return Preview{}, errors.New(errors.ErrCodeNoGesture, "no gesture in progress")
	}

	canvas := c.store.Canvas()
	delta := p.Sub(g.pointer)
	var cand geom.Rect
	if g.kind == KindDrag {
		cand = canvas.ClampOrigin(g.start.Translate(delta))
	} else {
		cand = g.start
		cand.W += delta.DX
		cand.H += delta.DY
		cand = canvas.ClampSize(cand, widget.MinWidth, widget.MinHeight)
	}

	pv := Preview{InstanceID: g.id, Kind: g.kind, Rect: cand}
	res, ok := c.resolver.TryPush(g.id, cand, g.snapshot)
	if !ok {
		pv.Blocked = true
		observability.Gesture().OnGestureBlocked(g.kind.String(), g.id)
	} else {
		pv.Pushed = c.pushedRects(g.snapshot, res)
	}
	g.last = pv
	c.presenter.ShowPreview(pv)
	return pv, nil
}

// Release ends the gesture. A feasible preview that changed anything is
// written to the store in one batch and saved; anything else restores the
// pre-gesture rectangles and leaves the store untouched.
func (c *Coordinator) Release(ctx context.Context) (Outcome, error) {
	g := c.active
	if g == nil {
		return Reverted, errors.New(errors.ErrCodeNoGesture, "no gesture in progress")
	}
	c.active = nil

	if g.last.Blocked || g.last.Rect == g.start {
		c.revert(g)
		return Reverted, nil
	}

	rects := make(map[string]geom.Rect, len(g.last.Pushed)+1)
	maps.Copy(rects, g.last.Pushed)
	rects[g.id] = g.last.Rect
	if err := c.store.Commit(rects); err != nil {
		c.revert(g)
		return Reverted, err
	}
	c.store.Save(ctx)
	c.presenter.Commit(rects)

	observability.Gesture().OnGestureEnd(g.kind.String(), g.id, Committed.String(), len(g.last.Pushed), time.Since(g.began))
	c.logger.Info("gesture committed", "kind", g.kind, "instance", g.id, "rect", g.last.Rect, "pushed", len(g.last.Pushed))
	return Committed, nil
}

// Cancel abandons the gesture and reverts it. It is a no-op when idle.
func (c *Coordinator) Cancel() {
	if g := c.active; g != nil {
		c.active = nil
		c.revert(g)
	}
}

// Drag runs a complete drag of instanceID so that its top-left corner lands
// on to, subject to clamping and push resolution.
func (c *Coordinator) Drag(ctx context.Context, instanceID string, to geom.Point) (Outcome, Preview, error) {
	return c.run(ctx, KindDrag, instanceID, func(geom.Rect) geom.Point { return to })
}

// Resize runs a complete resize of instanceID to w x h.
func (c *Coordinator) Resize(ctx context.Context, instanceID string, w, h int) (Outcome, Preview, error) {
	return c.run(ctx, KindResize, instanceID, func(start geom.Rect) geom.Point {
		return geom.Point{X: start.X + w, Y: start.Y + h}
	})
}

// run presses at the gesture's anchor point, moves to the point computed by
// target and releases.
func (c *Coordinator) run(ctx context.Context, kind Kind, instanceID string, target func(start geom.Rect) geom.Point) (Outcome, Preview, error) {
	inst, ok := c.find(instanceID)
	if !ok {
		return Reverted, Preview{}, errors.New(errors.ErrCodeInstanceNotFound, "instance %s not found", instanceID)
	}
	start := inst.Rect()
	anchor := start.Origin()
	if kind == KindResize {
		anchor = geom.Point{X: start.Right(), Y: start.Bottom()}
	}
	if err := c.Begin(kind, instanceID, anchor); err != nil {
		return Reverted, Preview{}, err
	}
	pv, err := c.Move(target(start))
	if err != nil {
		c.Cancel()
		return Reverted, Preview{}, err
	}
	out, err := c.Release(ctx)
	return out, pv, err
}

func (c *Coordinator) revert(g *gesture) {
	rects := make(map[string]geom.Rect, len(g.snapshot))
	for _, inst := range g.snapshot {
		rects[inst.InstanceID] = inst.Rect()
	}
	c.presenter.Revert(rects)
	observability.Gesture().OnGestureEnd(g.kind.String(), g.id, Reverted.String(), 0, time.Since(g.began))
	c.logger.Debug("gesture reverted", "kind", g.kind, "instance", g.id, "blocked", g.last.Blocked)
}

func (c *Coordinator) pushedRects(snapshot []widget.Instance, res push.Result) map[string]geom.Rect {
	out := make(map[string]geom.Rect, len(res))
	for _, inst := range snapshot {
		if p, ok := res[inst.InstanceID]; ok {
			out[inst.InstanceID] = inst.Rect().At(p)
		}
	}
	return out
}

func (c *Coordinator) find(instanceID string) (widget.Instance, bool) {
	for _, inst := range c.store.Instances() {
		if inst.InstanceID == instanceID {
			return inst, true
		}
	}
	return widget.Instance{}, false
}

func (c *Coordinator) busy() error {
	return errors.New(errors.ErrCodeGestureActive, "a %s of %s is already in progress", c.active.kind, c.active.id)
}

type nopPresenter struct{}

func (nopPresenter) ShowPreview(Preview)         {}
func (nopPresenter) Revert(map[string]geom.Rect) {}
func (nopPresenter) Commit(map[string]geom.Rect) {}
