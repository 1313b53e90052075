package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/freeboard/pkg/geom"
	"github.com/matzehuels/freeboard/pkg/layout"
	"github.com/matzehuels/freeboard/pkg/push"
	"github.com/matzehuels/freeboard/pkg/storage"
	"github.com/matzehuels/freeboard/pkg/widget"
	"github.com/matzehuels/freeboard/pkg/widget/builtin"
)

func newTestBoard(t *testing.T, insts ...widget.Instance) (boardModel, *layout.Store) {
	t.Helper()
	reg := widget.NewRegistry()
	if err := builtin.Register(reg); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	store := layout.NewStore(storage.NewMemory(), layout.Options{})
	store.Load(ctx, "test")
	l := layout.New("test")
	l.Widgets = insts
	if err := store.Replace(ctx, l); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(store.Flush)

	m := newBoardModel(ctx, store, reg, push.New(geom.DefaultCanvas()), nil)
	t.Cleanup(m.close)
	return m, store
}

func note(id string, x, y int) widget.Instance {
	return widget.Instance{InstanceID: id, WidgetID: builtin.NoteID, X: x, Y: y, Width: 300, Height: 200, Settings: map[string]any{}}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m boardModel, keys ...string) boardModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(boardModel)
	}
	return m
}

func TestBoardMovePushesNeighbour(t *testing.T) {
	m, store := newTestBoard(t, note("a", 20, 20), note("b", 340, 20))

	m = press(m, "m", "right", "right")
	if m.mode != modeGesture {
		t.Fatal("move did not start a gesture")
	}
	if pv := m.pres.preview; pv == nil || pv.Blocked || pv.Pushed["b"].X != 370 {
		t.Fatalf("preview = %+v", m.pres.preview)
	}
	// The store is untouched until the widget is dropped.
	if b, _ := store.Instance("b"); b.X != 340 {
		t.Fatalf("b moved before release: %d", b.X)
	}

	m = press(m, "enter")
	a, _ := store.Instance("a")
	b, _ := store.Instance("b")
	if a.X != 60 || b.X != 370 {
		t.Errorf("a.x = %d, b.x = %d, want 60 and 370", a.X, b.X)
	}
	if m.mode != modeSelect {
		t.Error("gesture still active after enter")
	}
}

func TestBoardEscCancelsGesture(t *testing.T) {
	m, store := newTestBoard(t, note("a", 20, 20), note("b", 340, 20))

	m = press(m, "tab", "r", "right", "right", "esc")
	if b, _ := store.Instance("b"); b.Width != 300 {
		t.Errorf("b.width = %d after cancel", b.Width)
	}
	if _, _, ok := m.coord.Active(); ok {
		t.Error("coordinator still has a gesture")
	}
	if m.pres.status != "reverted" {
		t.Errorf("status = %q", m.pres.status)
	}
}

func TestBoardResize(t *testing.T) {
	m, store := newTestBoard(t, note("a", 20, 20))

	m = press(m, "r", "right", "right", "enter")
	if a, _ := store.Instance("a"); a.Width != 340 || a.Height != 200 {
		t.Errorf("a = %dx%d, want 340x200", a.Width, a.Height)
	}
}

func TestBoardFocus(t *testing.T) {
	m, _ := newTestBoard(t, note("a", 20, 20))

	m = press(m, "enter")
	if id, ok := m.focus.Focused(); !ok || id != "a" {
		t.Fatalf("focused = %q, %v", id, ok)
	}
	if view := m.View(); !strings.Contains(view, "NOTE") {
		t.Errorf("focus view = %q", view)
	}

	m = press(m, "esc")
	if _, ok := m.focus.Focused(); ok {
		t.Error("still focused after esc")
	}
	if view := m.View(); !strings.Contains(view, "┌note") && !strings.Contains(view, "╔note") {
		t.Errorf("canvas view = %q", view)
	}
}

func TestBoardActivate(t *testing.T) {
	counter := widget.Instance{InstanceID: "c", WidgetID: builtin.CounterID, X: 20, Y: 20, Width: 300, Height: 200,
		Settings: map[string]any{"step": 3}}
	m, store := newTestBoard(t, counter)

	press(m, " ", " ")
	if c, _ := store.Instance("c"); intValue(c.Settings["value"]) != 6 {
		t.Errorf("value = %v, want 6", c.Settings["value"])
	}
}

func TestBoardRemove(t *testing.T) {
	m, store := newTestBoard(t, note("a", 20, 20), note("b", 340, 20))

	m = press(m, "tab", "x")
	if len(store.Instances()) != 1 {
		t.Fatalf("instances = %d", len(store.Instances()))
	}
	if m.views.Mounted("b") {
		t.Error("removed widget still mounted")
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d", m.cursor)
	}
}

func intValue(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	}
	return -1
}

func TestDrawCanvas(t *testing.T) {
	canvas := geom.Canvas{Width: 400, Padding: 0}
	lines := drawCanvas(canvas, []box{
		{rect: geom.Rect{X: 0, Y: 0, W: 200, H: 160}, label: "note", body: "hello"},
		{rect: geom.Rect{X: 220, Y: 0, W: 180, H: 80}, label: "x", selected: true},
	})

	want := []string{
		"┌note────┐ ╔x══════╗",
		"│hello   │ ╚═══════╝",
		"│        │",
		"└────────┘",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines:\n%s", len(lines), strings.Join(lines, "\n"))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestDrawCanvasBlocked(t *testing.T) {
	lines := drawCanvas(geom.Canvas{Width: 400}, []box{
		{rect: geom.Rect{X: 0, Y: 0, W: 100, H: 80}, label: "a", blocked: true},
	})
	if len(lines) != 2 || lines[0] != "+a--+" || lines[1] != "+---+" {
		t.Errorf("lines = %q", lines)
	}
}
