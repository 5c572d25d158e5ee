// Package bridge exposes the menu operations to the embedded web UI as a
// local JSON API.
package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/fullstackenviormentss/brackets-electron/pkg/menu"
)

// HeaderRequestID carries the request correlation id.
const HeaderRequestID = "X-Request-ID"

// NoError is the code reported on success.
const NoError = 0

// CodeUnavailable is reported once the menu manager has stopped.
const CodeUnavailable = "UNAVAILABLE"

const maxBodyBytes = 64 << 10

// Bridge translates HTTP calls into menu.Manager operations.
type Bridge struct {
	mgr      *menu.Manager
	commands *CommandQueue
}

// New creates a Bridge. commands may be nil when nothing dispatches to the
// web UI.
func New(mgr *menu.Manager, commands *CommandQueue) *Bridge {
	return &Bridge{mgr: mgr, commands: commands}
}

type response struct {
	Code     interface{}   `json:"code"`
	Message  string        `json:"message,omitempty"`
	Title    *string       `json:"title,omitempty"`
	Menu     []*menu.Entry `json:"menu,omitempty"`
	Commands []Command     `json:"commands,omitempty"`
}

type addMenuRequest struct {
	Title      string `json:"title"`
	ID         string `json:"id"`
	Position   string `json:"position,omitempty"`
	RelativeID string `json:"relativeId,omitempty"`
}

type titleRequest struct {
	Title string `json:"title"`
}

type shortcutRequest struct {
	Key        string `json:"key"`
	DisplayStr string `json:"displayStr,omitempty"`
}

type stateRequest struct {
	Enabled bool `json:"enabled"`
	Checked bool `json:"checked"`
}

// RegisterHandlers hands every route to register, in the pattern syntax of
// http.ServeMux.
func (b *Bridge) RegisterHandlers(register func(pattern string, handler http.Handler)) {
	routes := map[string]http.HandlerFunc{
		"GET /api/menu":                     b.getMenu,
		"POST /api/menu":                    b.addMenu,
		"POST /api/menu/items":              b.addMenuItem,
		"DELETE /api/menu/{id}":             b.removeMenu,
		"DELETE /api/menu/items/{id}":       b.removeMenuItem,
		"GET /api/menu/items/{id}/title":    b.getMenuTitle,
		"PUT /api/menu/items/{id}/title":    b.setMenuTitle,
		"PUT /api/menu/items/{id}/shortcut": b.setMenuItemShortcut,
		"PUT /api/menu/items/{id}/state":    b.setMenuItemState,
		"GET /api/menu/items/{id}/state":    b.getMenuItemState,
		"GET /api/menu/items/{id}/position": b.getMenuPosition,
		"GET /api/commands":                 b.drainCommands,
	}
	for pattern, h := range routes {
		register(pattern, WithRequestID(h))
	}
}

// Handler returns a mux serving every bridge route.
func (b *Bridge) Handler() http.Handler {
	mux := http.NewServeMux()
	b.RegisterHandlers(mux.Handle)
	return mux
}

// WithRequestID tags the request and response with a correlation id,
// reusing one supplied by the caller.
func WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)
		slog.Debug("bridge request", "method", r.Method, "path", r.URL.Path, "request_id", id)
		next.ServeHTTP(w, r)
	})
}

func (b *Bridge) getMenu(w http.ResponseWriter, r *http.Request) {
	entries := b.mgr.Snapshot()
	if entries == nil {
		entries = []*menu.Entry{}
	}
	writeJSON(w, http.StatusOK, response{Code: NoError, Menu: entries})
}

func (b *Bridge) addMenu(w http.ResponseWriter, r *http.Request) {
	var req addMenuRequest
	if !decode(w, r, &req) {
		return
	}
	b.await(w, r, func(done menu.Done) error {
		return b.mgr.AddMenu(req.Title, req.ID, req.Position, req.RelativeID, done)
	})
}

func (b *Bridge) addMenuItem(w http.ResponseWriter, r *http.Request) {
	var req menu.ItemSpec
	if !decode(w, r, &req) {
		return
	}
	b.await(w, r, func(done menu.Done) error {
		return b.mgr.AddMenuItem(req, done)
	})
}

func (b *Bridge) removeMenu(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	b.await(w, r, func(done menu.Done) error {
		b.mgr.RemoveMenu(id, done)
		return nil
	})
}

func (b *Bridge) removeMenuItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	b.await(w, r, func(done menu.Done) error {
		b.mgr.RemoveMenuItem(id, done)
		return nil
	})
}

func (b *Bridge) setMenuTitle(w http.ResponseWriter, r *http.Request) {
	var req titleRequest
	if !decode(w, r, &req) {
		return
	}
	id := r.PathValue("id")
	b.await(w, r, func(done menu.Done) error {
		b.mgr.SetMenuTitle(id, req.Title, done)
		return nil
	})
}

func (b *Bridge) setMenuItemShortcut(w http.ResponseWriter, r *http.Request) {
	var req shortcutRequest
	if !decode(w, r, &req) {
		return
	}
	id := r.PathValue("id")
	b.await(w, r, func(done menu.Done) error {
		b.mgr.SetMenuItemShortcut(id, req.Key, req.DisplayStr, done)
		return nil
	})
}

func (b *Bridge) setMenuItemState(w http.ResponseWriter, r *http.Request) {
	var req stateRequest
	if !decode(w, r, &req) {
		return
	}
	id := r.PathValue("id")
	b.await(w, r, func(done menu.Done) error {
		b.mgr.SetMenuItemState(id, req.Enabled, req.Checked, done)
		return nil
	})
}

func (b *Bridge) getMenuTitle(w http.ResponseWriter, r *http.Request) {
	type result struct {
		title string
		err   error
	}
	ch := make(chan result, 1)
	b.mgr.GetMenuTitle(r.PathValue("id"), func(title string, err error) {
		ch <- result{title: title, err: err}
	})

	answer := func(res result) {
		if res.err != nil {
			writeError(w, res.err)
			return
		}
		writeJSON(w, http.StatusOK, response{Code: NoError, Title: &res.title})
	}

	select {
	case <-r.Context().Done():
	case res := <-ch:
		answer(res)
	case <-b.mgr.Stopped():
		select {
		case res := <-ch:
			answer(res)
		default:
			writeStopped(w)
		}
	}
}

func (b *Bridge) getMenuItemState(w http.ResponseWriter, r *http.Request) {
	b.await(w, r, func(done menu.Done) error {
		b.mgr.GetMenuItemState(r.PathValue("id"), func(_, _ bool, err error) { done(err) })
		return nil
	})
}

func (b *Bridge) getMenuPosition(w http.ResponseWriter, r *http.Request) {
	b.await(w, r, func(done menu.Done) error {
		b.mgr.GetMenuPosition(r.PathValue("id"), func(_ string, _ int, err error) { done(err) })
		return nil
	})
}

func (b *Bridge) drainCommands(w http.ResponseWriter, r *http.Request) {
	cmds := []Command{}
	if b.commands != nil {
		cmds = b.commands.Drain()
	}
	writeJSON(w, http.StatusOK, response{Code: NoError, Commands: cmds})
}

// await runs op and answers with the outcome delivered to its completion.
// Errors returned by op itself are argument errors and answered directly.
func (b *Bridge) await(w http.ResponseWriter, r *http.Request, op func(done menu.Done) error) {
	ch := make(chan error, 1)
	if err := op(func(err error) { ch <- err }); err != nil {
		writeError(w, err)
		return
	}

	answer := func(err error) {
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, response{Code: NoError})
	}

	select {
	case <-r.Context().Done():
		slog.Warn("bridge request abandoned", "path", r.URL.Path, "error", r.Context().Err())
	case err := <-ch:
		answer(err)
	case <-b.mgr.Stopped():
		// The loop may have delivered the completion just before exiting.
		select {
		case err := <-ch:
			answer(err)
		default:
			writeStopped(w)
		}
	}
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, &menu.Error{Code: menu.CodeInvalidArgument, Message: fmt.Sprintf("invalid request body: %v", err)})
		return false
	}
	return true
}

func statusFor(code menu.Code) int {
	switch code {
	case menu.CodeNotFound:
		return http.StatusNotFound
	case menu.CodeInvalidArgument:
		return http.StatusBadRequest
	case menu.CodeNotImplemented:
		return http.StatusNotImplemented
	case menu.CodeAlreadyExists:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	var merr *menu.Error
	if !errors.As(err, &merr) {
		merr = &menu.Error{Code: "INTERNAL", Message: err.Error()}
	}
	status := statusFor(merr.Code)
	slog.Error("bridge request failed",
		"status", status,
		"code", merr.Code,
		"error", err,
	)
	writeJSON(w, status, response{Code: merr.Code, Message: merr.Message})
}

// writeStopped answers requests whose completion will never arrive because
// the manager loop has exited.
func writeStopped(w http.ResponseWriter) {
	slog.Warn("bridge request dropped, menu manager stopped")
	writeJSON(w, http.StatusServiceUnavailable, response{Code: CodeUnavailable, Message: "menu manager stopped"})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(payload); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}
