package bridge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fullstackenviormentss/brackets-electron/pkg/menu"
)

type testBridge struct {
	mgr      *menu.Manager
	commands *CommandQueue
	handler  http.Handler
}

func newTestBridge(t *testing.T) *testBridge {
	t.Helper()
	q := NewCommandQueue(0)
	mgr := menu.New(nil, menu.WithDispatcher(q), menu.WithDebounce(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		_ = mgr.Run(ctx)
		close(stopped)
	}()
	t.Cleanup(func() {
		cancel()
		<-stopped
	})

	return &testBridge{mgr: mgr, commands: q, handler: New(mgr, q).Handler()}
}

func (tb *testBridge) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	tb.handler.ServeHTTP(rec, req)

	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("%s %s: response is not JSON: %v (%q)", method, path, err, rec.Body.String())
	}
	return rec, out
}

func (tb *testBridge) mustOK(t *testing.T, method, path, body string) map[string]interface{} {
	t.Helper()
	rec, out := tb.do(t, method, path, body)
	if rec.Code != http.StatusOK || out["code"] != float64(NoError) {
		t.Fatalf("%s %s: status %d body %v", method, path, rec.Code, out)
	}
	return out
}

func TestBridgeMenuLifecycle(t *testing.T) {
	tb := newTestBridge(t)

	tb.mustOK(t, "POST", "/api/menu", `{"title":"File","id":"file"}`)
	tb.mustOK(t, "POST", "/api/menu/items", `{"parentId":"file","title":"Open","id":"open","key":"Ctrl-O","position":"append","relativeId":"-"}`)
	tb.mustOK(t, "PUT", "/api/menu/items/open/title", `{"title":"Open File"}`)
	tb.mustOK(t, "PUT", "/api/menu/items/open/state", `{"enabled":true,"checked":true}`)
	tb.mustOK(t, "PUT", "/api/menu/items/open/shortcut", `{"key":"Ctrl-Shift-O"}`)

	out := tb.mustOK(t, "GET", "/api/menu/items/open/title", "")
	if out["title"] != "Open File" {
		t.Fatalf("unexpected title: %v", out)
	}

	root := tb.mgr.Snapshot()
	open := root[0].Children[0]
	if open.Kind != menu.KindCheckbox || open.Shortcut != "Ctrl+Shift+O" || open.Label != "Open File" {
		t.Fatalf("unexpected entry state: %+v", open)
	}

	out = tb.mustOK(t, "GET", "/api/menu", "")
	entries, ok := out["menu"].([]interface{})
	if !ok || len(entries) != 1 {
		t.Fatalf("unexpected menu payload: %v", out)
	}

	tb.mustOK(t, "DELETE", "/api/menu/items/open", "")
	tb.mustOK(t, "DELETE", "/api/menu/file", "")
	if len(tb.mgr.Snapshot()) != 0 {
		t.Fatalf("expected empty tree after removals")
	}
}

func TestBridgeErrors(t *testing.T) {
	tb := newTestBridge(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{name: "missing parent", method: "POST", path: "/api/menu/items", body: `{"parentId":"ghost","title":"Open","id":"open","position":"append","relativeId":"-"}`, status: http.StatusNotFound, code: "NOTFOUND"},
		{name: "missing position", method: "POST", path: "/api/menu/items", body: `{"parentId":"file","title":"Open","id":"open"}`, status: http.StatusBadRequest, code: "INVALID_ARGUMENT"},
		{name: "bad body", method: "POST", path: "/api/menu", body: `{`, status: http.StatusBadRequest, code: "INVALID_ARGUMENT"},
		{name: "bad position", method: "POST", path: "/api/menu", body: `{"title":"File","id":"file","position":"first"}`, status: http.StatusBadRequest, code: "INVALID_ARGUMENT"},
		{name: "unknown title", method: "GET", path: "/api/menu/items/ghost/title", status: http.StatusNotFound, code: "NOTFOUND"},
		{name: "unknown item", method: "PUT", path: "/api/menu/items/ghost/title", body: `{"title":"x"}`, status: http.StatusNotFound, code: "NOTFOUND"},
		{name: "state query", method: "GET", path: "/api/menu/items/x/state", status: http.StatusNotImplemented, code: "NOT_IMPLEMENTED"},
		{name: "position query", method: "GET", path: "/api/menu/items/x/position", status: http.StatusNotImplemented, code: "NOT_IMPLEMENTED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, out := tb.do(t, tt.method, tt.path, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("expected status %d, got %d (%v)", tt.status, rec.Code, out)
			}
			if out["code"] != tt.code {
				t.Fatalf("expected code %s, got %v", tt.code, out["code"])
			}
			if out["message"] == nil {
				t.Fatalf("expected an error message")
			}
		})
	}
}

func TestBridgeDuplicateID(t *testing.T) {
	tb := newTestBridge(t)
	tb.mustOK(t, "POST", "/api/menu", `{"title":"File","id":"file"}`)

	rec, out := tb.do(t, "POST", "/api/menu", `{"title":"File","id":"file"}`)
	if rec.Code != http.StatusConflict || out["code"] != "ALREADY_EXISTS" {
		t.Fatalf("expected conflict, got %d %v", rec.Code, out)
	}
}

func TestBridgeCommands(t *testing.T) {
	tb := newTestBridge(t)
	tb.mustOK(t, "POST", "/api/menu", `{"title":"File","id":"file"}`)
	tb.mustOK(t, "POST", "/api/menu/items", `{"parentId":"file","title":"Save","id":"save","position":"append","relativeId":"-"}`)

	tb.mgr.Activate("save")
	tb.mgr.Activate("file")

	out := tb.mustOK(t, "GET", "/api/commands", "")
	cmds, ok := out["commands"].([]interface{})
	if !ok || len(cmds) != 2 {
		t.Fatalf("unexpected commands: %v", out)
	}
	first := cmds[0].(map[string]interface{})
	if first["id"] != "save" || first["fromMenu"] != true {
		t.Fatalf("unexpected first command: %v", first)
	}

	out = tb.mustOK(t, "GET", "/api/commands", "")
	if _, ok := out["commands"]; ok {
		t.Fatalf("expected queue to be drained, got %v", out)
	}
}

func TestRequestID(t *testing.T) {
	tb := newTestBridge(t)

	rec, _ := tb.do(t, "GET", "/api/menu", "")
	if rec.Header().Get(HeaderRequestID) == "" {
		t.Fatalf("expected a generated request id")
	}

	req := httptest.NewRequest("GET", "/api/menu", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec = httptest.NewRecorder()
	tb.handler.ServeHTTP(rec, req)
	if got := rec.Header().Get(HeaderRequestID); got != "abc-123" {
		t.Fatalf("expected caller request id to be kept, got %q", got)
	}
}

func TestCommandQueueBacklog(t *testing.T) {
	q := NewCommandQueue(2)
	q.ExecuteCommand("a", true)
	q.ExecuteCommand("b", true)
	q.ExecuteCommand("c", false)

	got := q.Drain()
	if len(got) != 2 || got[0].ID != "b" || got[1].ID != "c" || got[1].FromMenu {
		t.Fatalf("unexpected drain: %+v", got)
	}
	if len(q.Drain()) != 0 {
		t.Fatalf("expected empty queue after drain")
	}
}

func TestBridgeAnswersAfterManagerStops(t *testing.T) {
	mgr := menu.New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		_ = mgr.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	handler := New(mgr, nil).Handler()
	for _, c := range []struct{ method, path, body string }{
		{"PUT", "/api/menu/items/open/title", `{"title":"Open"}`},
		{"GET", "/api/menu/items/open/title", ""},
	} {
		res := make(chan *httptest.ResponseRecorder, 1)
		go func() {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(c.method, c.path, strings.NewReader(c.body)))
			res <- rec
		}()

		select {
		case rec := <-res:
			if rec.Code != http.StatusServiceUnavailable {
				t.Fatalf("%s %s: expected 503, got %d", c.method, c.path, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), CodeUnavailable) {
				t.Fatalf("%s %s: expected %s code, got %s", c.method, c.path, CodeUnavailable, rec.Body.String())
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("%s %s: request hung after manager stopped", c.method, c.path)
		}
	}
}
