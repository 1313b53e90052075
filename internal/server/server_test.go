package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/freeboard/pkg/geom"
	"github.com/matzehuels/freeboard/pkg/layout"
	"github.com/matzehuels/freeboard/pkg/push"
	"github.com/matzehuels/freeboard/pkg/storage"
	"github.com/matzehuels/freeboard/pkg/widget"
	"github.com/matzehuels/freeboard/pkg/widget/builtin"
)

type testEnv struct {
	srv  *Server
	http *httptest.Server
	repo *storage.Memory
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	reg := widget.NewRegistry()
	if err := builtin.Register(reg); err != nil {
		t.Fatal(err)
	}
	repo := storage.NewMemory()
	srv := New(Options{Port: repo, Registry: reg, Resolver: push.New(geom.DefaultCanvas())})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		srv.Flush()
	})
	return &testEnv{srv: srv, http: ts, repo: repo}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var rd *bytes.Reader
	switch b := body.(type) {
	case nil:
		rd = bytes.NewReader(nil)
	case string:
		rd = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, e.http.URL+path, rd)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := e.http.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	return resp, buf.Bytes()
}

func (e *testEnv) add(t *testing.T, ws, widgetID string) widget.Instance {
	t.Helper()
	resp, body := e.do(t, http.MethodPost, "/api/workspaces/"+ws+"/widgets", map[string]any{"widgetId": widgetID})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add %s: status %d: %s", widgetID, resp.StatusCode, body)
	}
	var inst widget.Instance
	if err := json.Unmarshal(body, &inst); err != nil {
		t.Fatal(err)
	}
	return inst
}

func (e *testEnv) layout(t *testing.T, ws string) *layout.Layout {
	t.Helper()
	resp, body := e.do(t, http.MethodGet, "/api/workspaces/"+ws+"/layout", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get layout: status %d", resp.StatusCode)
	}
	l, _, err := layout.Parse(body, "", geom.DefaultCanvas())
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var e errorResponse
	if err := json.Unmarshal(body, &e); err != nil {
		t.Fatalf("decode error body %s: %v", body, err)
	}
	return string(e.Error.Code)
}

func TestHealthAndWidgets(t *testing.T) {
	e := newTestEnv(t)
	if resp, _ := e.do(t, http.MethodGet, "/healthz", nil); resp.StatusCode != http.StatusOK {
		t.Errorf("healthz status %d", resp.StatusCode)
	}

	resp, body := e.do(t, http.MethodGet, "/api/widgets", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var out struct {
		Widgets []widget.Descriptor `json:"widgets"`
	}
	json.Unmarshal(body, &out)
	if len(out.Widgets) != 4 || out.Widgets[0].ID != builtin.ChecklistID {
		t.Errorf("widgets = %+v", out.Widgets)
	}
}

func TestLayoutLifecycle(t *testing.T) {
	e := newTestEnv(t)

	if l := e.layout(t, "home"); len(l.Widgets) != 0 || l.Version != layout.VersionFreeform {
		t.Fatalf("new workspace layout = %+v", l)
	}

	a := e.add(t, "home", builtin.NoteID)
	b := e.add(t, "home", builtin.CounterID)
	if a.X != 20 || a.Y != 20 {
		t.Errorf("first widget at (%d,%d)", a.X, a.Y)
	}
	if geom.Overlaps(a.Rect(), b.Rect()) {
		t.Errorf("placed widgets overlap: %s %s", a.Rect(), b.Rect())
	}

	resp, body := e.do(t, http.MethodPatch, "/api/workspaces/home/widgets/"+a.InstanceID+"/settings", map[string]any{"text": "hello"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("patch settings: %d %s", resp.StatusCode, body)
	}

	l := e.layout(t, "home")
	if len(l.Widgets) != 2 {
		t.Fatalf("layout has %d widgets", len(l.Widgets))
	}
	if got, _ := l.Instance(a.InstanceID); got.Settings["text"] != "hello" || got.Settings["title"] != "Note" {
		t.Errorf("settings = %v", got.Settings)
	}

	if resp, _ := e.do(t, http.MethodDelete, "/api/workspaces/home/widgets/"+a.InstanceID, nil); resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status %d", resp.StatusCode)
	}
	resp, body = e.do(t, http.MethodDelete, "/api/workspaces/home/widgets/"+a.InstanceID, nil)
	if resp.StatusCode != http.StatusNotFound || errorCode(t, body) != "INSTANCE_NOT_FOUND" {
		t.Errorf("second delete: %d %s", resp.StatusCode, body)
	}

	e.srv.Flush()
	stored, err := e.repo.Get(context.Background(), "home")
	if err != nil {
		t.Fatalf("layout not persisted: %v", err)
	}
	persisted, _, _ := layout.Parse(stored, "home", geom.DefaultCanvas())
	if len(persisted.Widgets) != 1 || persisted.Widgets[0].InstanceID != b.InstanceID {
		t.Errorf("persisted = %+v", persisted.Widgets)
	}
}

func TestAddWidgetErrors(t *testing.T) {
	e := newTestEnv(t)
	tests := []struct {
		name   string
		path   string
		body   any
		status int
		code   string
	}{
		{"unknown widget", "/api/workspaces/home/widgets", map[string]any{"widgetId": "radio"}, http.StatusBadRequest, "UNKNOWN_WIDGET"},
		{"bad size", "/api/workspaces/home/widgets", map[string]any{"widgetId": "note", "size": "huge"}, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad json", "/api/workspaces/home/widgets", "{", http.StatusBadRequest, "INVALID_INPUT"},
		{"bad workspace", "/api/workspaces/a..b/widgets", map[string]any{"widgetId": "note"}, http.StatusBadRequest, "INVALID_WORKSPACE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := e.do(t, http.MethodPost, tt.path, tt.body)
			if resp.StatusCode != tt.status || errorCode(t, body) != tt.code {
				t.Errorf("got %d %s, want %d %s", resp.StatusCode, body, tt.status, tt.code)
			}
		})
	}
}

func TestAddWidgetWithSizeAndSettings(t *testing.T) {
	e := newTestEnv(t)
	resp, body := e.do(t, http.MethodPost, "/api/workspaces/home/widgets", map[string]any{
		"widgetId": "note",
		"size":     "large",
		"settings": map[string]any{"title": "Plan"},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}
	var inst widget.Instance
	json.Unmarshal(body, &inst)
	if inst.Width != 600 || inst.Height != 400 || inst.Settings["title"] != "Plan" {
		t.Errorf("instance = %+v", inst)
	}
}

func TestMoveAndResize(t *testing.T) {
	e := newTestEnv(t)
	body := `{"layout":{"workspaceId":"home","version":2,"widgets":[
		{"instanceId":"a","widgetId":"note","x":20,"y":20,"width":200,"height":150,"settings":{}},
		{"instanceId":"b","widgetId":"note","x":240,"y":20,"width":200,"height":150,"settings":{}},
		{"instanceId":"n","widgetId":"note","x":20,"y":400,"width":200,"height":150,"settings":{}}
	]}}`
	if resp, out := e.do(t, http.MethodPost, "/api/workspaces/home/layout", body); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("post layout: %d %s", resp.StatusCode, out)
	}

	resp, out := e.do(t, http.MethodPost, "/api/workspaces/home/widgets/a/move", map[string]int{"x": 50, "y": 20})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("move: %d %s", resp.StatusCode, out)
	}
	var g gestureResponse
	json.Unmarshal(out, &g)
	if g.Outcome != "committed" || g.Blocked {
		t.Errorf("move response = %+v", g)
	}
	l := e.layout(t, "home")
	if b, _ := l.Instance("b"); b.X != 260 {
		t.Errorf("b.x = %d, want 260", b.X)
	}

	// Growing a downward pushes n below it.
	resp, out = e.do(t, http.MethodPost, "/api/workspaces/home/widgets/a/resize", map[string]int{"width": 200, "height": 500})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("resize: %d %s", resp.StatusCode, out)
	}
	l = e.layout(t, "home")
	if a, _ := l.Instance("a"); a.Height != 500 {
		t.Errorf("a.height = %d", a.Height)
	}
	if n, _ := l.Instance("n"); n.X != 20 || n.Y != 530 {
		t.Errorf("n at (%d,%d), want (20,530)", n.X, n.Y)
	}
	if err := l.Validate(geom.DefaultCanvas()); err != nil {
		t.Errorf("layout invalid after resize: %v", err)
	}

	resp, out = e.do(t, http.MethodPost, "/api/workspaces/home/widgets/missing/move", map[string]int{"x": 0, "y": 0})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("move missing: %d %s", resp.StatusCode, out)
	}
}

func TestInfeasibleResizeConflicts(t *testing.T) {
	e := newTestEnv(t)
	body := `{"layout":{"workspaceId":"home","version":2,"widgets":[
		{"instanceId":"a","widgetId":"note","x":160,"y":20,"width":200,"height":150,"settings":{}},
		{"instanceId":"n","widgetId":"note","x":20,"y":200,"width":200,"height":150,"settings":{}}
	]}}`
	e.do(t, http.MethodPost, "/api/workspaces/home/layout", body)

	resp, out := e.do(t, http.MethodPost, "/api/workspaces/home/widgets/a/resize", map[string]int{"width": 200, "height": 260})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status %d: %s", resp.StatusCode, out)
	}
	var g gestureResponse
	json.Unmarshal(out, &g)
	if g.Outcome != "reverted" || !g.Blocked {
		t.Errorf("response = %+v", g)
	}
	if a, _ := e.layout(t, "home").Instance("a"); a.Height != 150 {
		t.Errorf("a.height = %d, want unchanged 150", a.Height)
	}
}

func TestPostLayoutValidation(t *testing.T) {
	e := newTestEnv(t)

	overlapping := `{"layout":{"widgets":[
		{"instanceId":"a","widgetId":"note","x":20,"y":20,"width":200,"height":150},
		{"instanceId":"b","widgetId":"note","x":100,"y":20,"width":200,"height":150}
	]}}`
	resp, out := e.do(t, http.MethodPost, "/api/workspaces/home/layout", overlapping)
	if resp.StatusCode != http.StatusBadRequest || errorCode(t, out) != "INVALID_LAYOUT" {
		t.Errorf("overlapping layout: %d %s", resp.StatusCode, out)
	}

	legacy := `{"layout":{"version":1,"widgets":[
		{"instanceId":"a","widgetId":"note","position":1,"size":"small"},
		{"instanceId":"b","widgetId":"note","position":0,"size":"large"}
	]}}`
	resp, out = e.do(t, http.MethodPost, "/api/workspaces/home/layout", legacy)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("legacy layout: %d %s", resp.StatusCode, out)
	}
	l := e.layout(t, "home")
	if len(l.Widgets) != 2 || l.Widgets[0].InstanceID != "b" || l.Widgets[1].X != 640 {
		t.Errorf("migrated layout = %+v", l.Widgets)
	}
	if !strings.Contains(string(mustGet(t, e, "home")), `"version":2`) {
		t.Error("stored layout is not freeform")
	}
}

func mustGet(t *testing.T, e *testEnv, ws string) []byte {
	t.Helper()
	e.srv.Flush()
	data, err := e.repo.Get(context.Background(), ws)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

// blockingRepo holds Get for one workspace until release is closed.
type blockingRepo struct {
	*storage.Memory
	slow    string
	started chan struct{}
	release chan struct{}
}

func (r *blockingRepo) Get(ctx context.Context, ws string) ([]byte, error) {
	if ws == r.slow {
		close(r.started)
		<-r.release
	}
	return r.Memory.Get(ctx, ws)
}

func TestSlowLoadDoesNotBlockOtherWorkspaces(t *testing.T) {
	reg := widget.NewRegistry()
	if err := builtin.Register(reg); err != nil {
		t.Fatal(err)
	}
	repo := &blockingRepo{
		Memory:  storage.NewMemory(),
		slow:    "cold",
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	srv := New(Options{Port: repo, Registry: reg})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	var once sync.Once
	release := func() { once.Do(func() { close(repo.release) }) }
	defer release()

	get := func(ws string) <-chan int {
		ch := make(chan int, 1)
		go func() {
			resp, err := ts.Client().Get(ts.URL + "/api/workspaces/" + ws + "/layout")
			if err != nil {
				ch <- 0
				return
			}
			resp.Body.Close()
			ch <- resp.StatusCode
		}()
		return ch
	}

	cold := get("cold")
	<-repo.started

	select {
	case code := <-get("home"):
		if code != http.StatusOK {
			t.Errorf("home status = %d", code)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("request for home waited on the cold workspace load")
	}

	// A second request for the loading workspace waits for the first load.
	again := get("cold")
	select {
	case code := <-again:
		t.Fatalf("cold answered %d before its load finished", code)
	case <-time.After(50 * time.Millisecond):
	}

	release()
	for _, ch := range []<-chan int{cold, again} {
		if code := <-ch; code != http.StatusOK {
			t.Errorf("cold status = %d", code)
		}
	}
	srv.Flush()
}
