package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	g := NoopGestureHooks{}
	g.OnGestureStart("drag", "a")
	g.OnGestureBlocked("drag", "a")
	g.OnGestureEnd("drag", "a", "reverted", 0, time.Second)

	s := NoopStoreHooks{}
	s.OnLoad(ctx, "ws", 3, true, time.Second, nil)
	s.OnSave(ctx, "ws", 128, time.Second, errors.New("boom"))

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "localhost", "/api/widgets")
	h.OnResponse(ctx, "GET", "localhost", "/api/widgets", 200, time.Second)
	h.OnError(ctx, "GET", "localhost", "/api/widgets", errors.New("timeout"))
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Gesture().(NoopGestureHooks); !ok {
		t.Error("default Gesture() should return NoopGestureHooks")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("default Store() should return NoopStoreHooks")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("default HTTP() should return NoopHTTPHooks")
	}

	customGesture := &testGestureHooks{}
	SetGestureHooks(customGesture)
	if Gesture() != customGesture {
		t.Error("SetGestureHooks should set custom hooks")
	}

	customStore := &testStoreHooks{}
	SetStoreHooks(customStore)
	if Store() != customStore {
		t.Error("SetStoreHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Gesture().(NoopGestureHooks); !ok {
		t.Error("Reset() should restore NoopGestureHooks")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Reset() should restore NoopStoreHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testGestureHooks{}
	SetGestureHooks(custom)
	SetGestureHooks(nil)

	if Gesture() != custom {
		t.Error("SetGestureHooks(nil) should be ignored")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	h := NewLogHooks(logger)

	h.OnGestureEnd("resize", "w1", "committed", 2, 15*time.Millisecond)
	h.OnLoad(context.Background(), "ws", 0, false, 0, errors.New("offline"))

	out := buf.String()
	for _, want := range []string{"gesture ended", "committed", "w1", "layout load failed", "offline"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

type testGestureHooks struct{ NoopGestureHooks }
type testStoreHooks struct{ NoopStoreHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
