package interact

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/matzehuels/freeboard/pkg/errors"
	"github.com/matzehuels/freeboard/pkg/geom"
	"github.com/matzehuels/freeboard/pkg/layout"
	"github.com/matzehuels/freeboard/pkg/storage"
	"github.com/matzehuels/freeboard/pkg/widget"
)

type recorder struct {
	previews  []Preview
	reverted  map[string]geom.Rect
	committed map[string]geom.Rect
}

func (r *recorder) ShowPreview(p Preview)             { r.previews = append(r.previews, p) }
func (r *recorder) Revert(rects map[string]geom.Rect) { r.reverted = rects }
func (r *recorder) Commit(rects map[string]geom.Rect) { r.committed = rects }

type box struct {
	id   string
	rect geom.Rect
}

// newBoard returns a store holding one note per box.
func newBoard(t *testing.T, boxes ...box) (*layout.Store, *storage.Memory) {
	t.Helper()
	repo := storage.NewMemory()
	s := layout.NewStore(repo, layout.Options{})
	s.Load(context.Background(), "ws")

	l := layout.New("ws")
	for _, b := range boxes {
		inst := widget.Instance{InstanceID: b.id, WidgetID: "note", Settings: map[string]any{}}
		inst.SetRect(b.rect)
		l.Widgets = append(l.Widgets, inst)
	}
	if err := s.Replace(context.Background(), l); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	s.Flush()
	t.Cleanup(s.Flush)
	return s, repo
}

func rect(x, y, w, h int) geom.Rect { return geom.Rect{X: x, Y: y, W: w, H: h} }

func rectOf(t *testing.T, s *layout.Store, id string) geom.Rect {
	t.Helper()
	inst, ok := s.Instance(id)
	if !ok {
		t.Fatalf("instance %s missing", id)
	}
	return inst.Rect()
}

func TestDragCommitsPush(t *testing.T) {
	s, repo := newBoard(t, box{"a", rect(20, 20, 200, 150)}, box{"b", rect(240, 20, 200, 150)})
	rec := &recorder{}
	c := NewCoordinator(s, nil, rec, nil)

	out, pv, err := c.Drag(context.Background(), "a", geom.Point{X: 50, Y: 20})
	if err != nil {
		t.Fatalf("Drag: %v", err)
	}
	if out != Committed || pv.Blocked {
		t.Fatalf("outcome = %v blocked = %v, want committed", out, pv.Blocked)
	}
	if got := rectOf(t, s, "a"); got != rect(50, 20, 200, 150) {
		t.Errorf("a = %s", got)
	}
	if got := rectOf(t, s, "b"); got != rect(260, 20, 200, 150) {
		t.Errorf("b = %s, want pushed right to x=260", got)
	}
	if len(rec.committed) != 2 || rec.reverted != nil {
		t.Errorf("presenter: committed=%v reverted=%v", rec.committed, rec.reverted)
	}

	s.Flush()
	stored, err := repo.Get(context.Background(), "ws")
	if err != nil {
		t.Fatal(err)
	}
	l, _, err := layout.Parse(stored, "ws", s.Canvas())
	if err != nil {
		t.Fatal(err)
	}
	if i, _ := l.Index("b"); l.Widgets[i].X != 260 {
		t.Errorf("persisted b.x = %d, want 260", l.Widgets[i].X)
	}
}

func TestDragCascade(t *testing.T) {
	s, _ := newBoard(t,
		box{"a", rect(20, 20, 200, 150)},
		box{"b", rect(230, 20, 200, 150)},
		box{"c", rect(440, 20, 200, 150)},
	)
	c := NewCoordinator(s, nil, nil, nil)

	out, pv, err := c.Drag(context.Background(), "a", geom.Point{X: 40, Y: 20})
	if err != nil || out != Committed {
		t.Fatalf("Drag = %v, %v", out, err)
	}
	if len(pv.Pushed) != 2 {
		t.Fatalf("pushed %v, want b and c", pv.Pushed)
	}
	if got := rectOf(t, s, "b"); got.X != 250 {
		t.Errorf("b.x = %d, want 250", got.X)
	}
	if got := rectOf(t, s, "c"); got.X != 460 {
		t.Errorf("c.x = %d, want 460", got.X)
	}
	if err := s.Layout().Validate(s.Canvas()); err != nil {
		t.Errorf("layout after cascade: %v", err)
	}
}

func TestResizeInfeasibleReverts(t *testing.T) {
	s, repo := newBoard(t, box{"a", rect(160, 20, 200, 150)}, box{"n", rect(20, 200, 200, 150)})
	rec := &recorder{}
	c := NewCoordinator(s, nil, rec, nil)
	before := s.Layout()

	// Growing a downward pushes n left past the padding.
	out, pv, err := c.Resize(context.Background(), "a", 200, 260)
	if err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if out != Reverted || !pv.Blocked {
		t.Fatalf("outcome = %v blocked = %v, want reverted and blocked", out, pv.Blocked)
	}
	if pv.Rect != rect(160, 20, 200, 260) {
		t.Errorf("candidate = %s", pv.Rect)
	}
	if rec.committed != nil {
		t.Error("presenter received a commit")
	}
	for _, w := range before.Widgets {
		if rec.reverted[w.InstanceID] != w.Rect() {
			t.Errorf("revert of %s = %s, want %s", w.InstanceID, rec.reverted[w.InstanceID], w.Rect())
		}
		if got := rectOf(t, s, w.InstanceID); got != w.Rect() {
			t.Errorf("store changed %s to %s", w.InstanceID, got)
		}
	}
	s.Flush()
	stored, _ := repo.Get(context.Background(), "ws")
	after, _, _ := layout.Parse(stored, "ws", s.Canvas())
	if i, _ := after.Index("a"); after.Widgets[i].Height != 150 {
		t.Errorf("persisted a.height = %d, want 150", after.Widgets[i].Height)
	}
}

func TestResizeClampsToMinimum(t *testing.T) {
	s, _ := newBoard(t, box{"a", rect(20, 20, 400, 300)})
	c := NewCoordinator(s, nil, nil, nil)

	out, _, err := c.Resize(context.Background(), "a", 10, 10)
	if err != nil || out != Committed {
		t.Fatalf("Resize = %v, %v", out, err)
	}
	if got := rectOf(t, s, "a"); got != rect(20, 20, widget.MinWidth, widget.MinHeight) {
		t.Errorf("a = %s, want clamped to minimum", got)
	}
}

func TestDragClampsToPadding(t *testing.T) {
	s, _ := newBoard(t, box{"a", rect(300, 300, 200, 150)})
	c := NewCoordinator(s, nil, nil, nil)

	if _, err := c.Press("a", geom.Point{X: 310, Y: 310}); err != nil {
		t.Fatal(err)
	}
	pv, err := c.Move(geom.Point{X: -500, Y: -500})
	if err != nil {
		t.Fatal(err)
	}
	if pv.Rect.X != 20 || pv.Rect.Y != 20 {
		t.Errorf("candidate = %s, want clamped to padding", pv.Rect)
	}
	c.Release(context.Background())
}

func TestLastCandidateDecides(t *testing.T) {
	s, _ := newBoard(t, box{"a", rect(160, 20, 200, 150)}, box{"n", rect(20, 200, 200, 150)})
	rec := &recorder{}
	c := NewCoordinator(s, nil, rec, nil)
	ctx := context.Background()

	// Feasible move, then a blocked one: release reverts.
	if err := c.Begin(KindResize, "a", geom.Point{X: 360, Y: 170}); err != nil {
		t.Fatal(err)
	}
	if pv, _ := c.Move(geom.Point{X: 400, Y: 170}); pv.Blocked {
		t.Fatalf("widening should be feasible: %+v", pv)
	}
	if pv, _ := c.Move(geom.Point{X: 360, Y: 280}); !pv.Blocked {
		t.Fatalf("growing down should be blocked: %+v", pv)
	}
	if out, _ := c.Release(ctx); out != Reverted {
		t.Errorf("outcome = %v, want reverted", out)
	}

	// Blocked, then feasible: release commits.
	c.Begin(KindResize, "a", geom.Point{X: 360, Y: 170})
	c.Move(geom.Point{X: 360, Y: 280})
	c.Move(geom.Point{X: 400, Y: 170})
	if out, _ := c.Release(ctx); out != Committed {
		t.Errorf("outcome = %v, want committed", out)
	}
	if got := rectOf(t, s, "a"); got != rect(160, 20, 240, 150) {
		t.Errorf("a = %s", got)
	}
	if len(rec.previews) != 4 {
		t.Errorf("presenter saw %d previews, want 4", len(rec.previews))
	}
}

func TestReleaseWithoutMoveReverts(t *testing.T) {
	s, _ := newBoard(t, box{"a", rect(20, 20, 200, 150)})
	rec := &recorder{}
	c := NewCoordinator(s, nil, rec, nil)

	c.Begin(KindDrag, "a", geom.Point{X: 30, Y: 30})
	out, err := c.Release(context.Background())
	if err != nil || out != Reverted {
		t.Fatalf("Release = %v, %v", out, err)
	}
	if rec.reverted["a"] != rect(20, 20, 200, 150) {
		t.Errorf("reverted = %v", rec.reverted)
	}
}

func TestSingleGestureSlot(t *testing.T) {
	s, _ := newBoard(t, box{"a", rect(20, 20, 200, 150)}, box{"b", rect(300, 20, 200, 150)})
	c := NewCoordinator(s, nil, nil, nil)
	ctx := context.Background()

	if _, err := c.Move(geom.Point{}); !errors.Is(err, errors.ErrCodeNoGesture) {
		t.Errorf("Move while idle = %v", err)
	}
	if _, err := c.Release(ctx); !errors.Is(err, errors.ErrCodeNoGesture) {
		t.Errorf("Release while idle = %v", err)
	}

	if err := c.Begin(KindDrag, "a", geom.Point{X: 30, Y: 30}); err != nil {
		t.Fatal(err)
	}
	if err := c.Begin(KindResize, "b", geom.Point{X: 500, Y: 170}); !errors.Is(err, errors.ErrCodeGestureActive) {
		t.Errorf("second Begin = %v, want GESTURE_ACTIVE", err)
	}
	if _, err := c.Press("b", geom.Point{X: 310, Y: 30}); !errors.Is(err, errors.ErrCodeGestureActive) {
		t.Errorf("Press during gesture = %v, want GESTURE_ACTIVE", err)
	}
	if _, _, err := c.Drag(ctx, "b", geom.Point{X: 600, Y: 20}); !errors.Is(err, errors.ErrCodeGestureActive) {
		t.Errorf("Drag during gesture = %v, want GESTURE_ACTIVE", err)
	}
	if kind, id, ok := c.Active(); !ok || kind != KindDrag || id != "a" {
		t.Errorf("Active() = %v %s %v", kind, id, ok)
	}

	c.Cancel()
	if _, _, ok := c.Active(); ok {
		t.Error("gesture still active after Cancel")
	}
	if err := c.Begin(KindDrag, "missing", geom.Point{}); !errors.Is(err, errors.ErrCodeInstanceNotFound) {
		t.Errorf("Begin(missing) = %v", err)
	}
}

func TestPressRegions(t *testing.T) {
	s, _ := newBoard(t, box{"a", rect(20, 20, 200, 150)})
	c := NewCoordinator(s, nil, nil, nil)

	tests := []struct {
		p      geom.Point
		region Region
		starts bool
		kind   Kind
	}{
		{geom.Point{X: 100, Y: 100}, RegionBody, false, 0},
		{geom.Point{X: 200, Y: 30}, RegionControl, false, 0},
		{geom.Point{X: 500, Y: 500}, RegionNone, false, 0},
		{geom.Point{X: 30, Y: 30}, RegionHeader, true, KindDrag},
		{geom.Point{X: 215, Y: 165}, RegionResize, true, KindResize},
	}
	for _, tt := range tests {
		t.Run(tt.region.String(), func(t *testing.T) {
			region, err := c.Press("a", tt.p)
			if err != nil {
				t.Fatal(err)
			}
			if region != tt.region {
				t.Errorf("region = %v, want %v", region, tt.region)
			}
			kind, _, active := c.Active()
			if active != tt.starts || (active && kind != tt.kind) {
				t.Errorf("active = %v kind = %v", active, kind)
			}
			c.Cancel()
		})
	}
}

func TestCommittedLayoutsNeverOverlap(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))
	s := layout.NewStore(storage.NewMemory(), layout.Options{})
	s.Load(ctx, "ws")
	for i := 0; i < 12; i++ {
		inst := widget.Instance{
			InstanceID: fmt.Sprintf("w%02d", i),
			WidgetID:   "note",
			X:          geom.Unplaced,
			Y:          geom.Unplaced,
			Width:      200 + rng.Intn(200),
			Height:     150 + rng.Intn(150),
		}
		if _, err := s.AddInstance(ctx, inst); err != nil {
			t.Fatal(err)
		}
	}
	c := NewCoordinator(s, nil, nil, nil)

	committed := 0
	for i := 0; i < 300; i++ {
		id := fmt.Sprintf("w%02d", rng.Intn(12))
		var out Outcome
		var err error
		if rng.Intn(3) == 0 {
			out, _, err = c.Resize(ctx, id, 150+rng.Intn(400), 100+rng.Intn(300))
		} else {
			out, _, err = c.Drag(ctx, id, geom.Point{X: rng.Intn(1600), Y: rng.Intn(1200)})
		}
		if err != nil {
			t.Fatalf("gesture %d: %v", i, err)
		}
		if out == Committed {
			committed++
		}
		if err := s.Layout().Validate(s.Canvas()); err != nil {
			t.Fatalf("after gesture %d (%s %v): %v", i, id, out, err)
		}
	}
	s.Flush()
	if committed == 0 {
		t.Error("no gesture committed")
	}
}

func TestHitTest(t *testing.T) {
	r := rect(100, 100, 300, 200)
	tests := []struct {
		p    geom.Point
		want Region
	}{
		{geom.Point{X: 99, Y: 150}, RegionNone},
		{geom.Point{X: 400, Y: 150}, RegionNone},
		{geom.Point{X: 100, Y: 100}, RegionHeader},
		{geom.Point{X: 351, Y: 139}, RegionHeader},
		{geom.Point{X: 352, Y: 139}, RegionControl},
		{geom.Point{X: 351, Y: 140}, RegionBody},
		{geom.Point{X: 384, Y: 284}, RegionResize},
		{geom.Point{X: 383, Y: 284}, RegionBody},
	}
	for _, tt := range tests {
		if got := HitTest(r, tt.p); got != tt.want {
			t.Errorf("HitTest(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}
