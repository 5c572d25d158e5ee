package menu

import (
	"log/slog"
	"sync"
	"time"
)

// Done receives the outcome of a menu operation. A nil error means success.
type Done func(err error)

// Renderer rebuilds the host menu from a snapshot of the tree. The snapshot
// belongs to the renderer; the manager never touches it again.
type Renderer interface {
	Render(entries []*Entry)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(entries []*Entry)

func (f RendererFunc) Render(entries []*Entry) { f(entries) }

// Dispatcher executes the command bound to an activated entry.
type Dispatcher interface {
	ExecuteCommand(id string, fromMenu bool)
}

// Observer is told about mutations and renders, typically to record metrics.
type Observer interface {
	Mutation(op string)
	Rendered(entries int)
}

type nopRenderer struct{}

func (nopRenderer) Render([]*Entry) {}

type nopObserver struct{}

func (nopObserver) Mutation(string) {}
func (nopObserver) Rendered(int)    {}

// Option configures a Manager.
type Option func(*Manager)

// WithDebounce sets the window during which mutations are coalesced into
// one render. Defaults to DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.debounce = d
		}
	}
}

// WithDispatcher sets where activated entries are sent.
func WithDispatcher(d Dispatcher) Option {
	return func(m *Manager) { m.dispatcher = d }
}

// WithObserver attaches an Observer.
func WithObserver(o Observer) Option {
	return func(m *Manager) {
		if o != nil {
			m.observer = o
		}
	}
}

// ItemSpec describes a menu item to add under an existing entry.
type ItemSpec struct {
	ParentID   string `json:"parentId"`
	Title      string `json:"title"`
	ID         string `json:"id"`
	Key        string `json:"key,omitempty"`
	DisplayStr string `json:"displayStr,omitempty"`
	Position   string `json:"position"`
	RelativeID string `json:"relativeId"`
}

// Manager owns the application menu tree and keeps a Renderer in sync with
// it. The tree is changed immediately by each call; completions and renders
// happen on the loop started by Run.
type Manager struct {
	mu       sync.Mutex
	root     []*Entry
	dirty    bool
	pending  bool
	timer    *time.Timer
	debounce time.Duration

	loop       *eventLoop
	renderer   Renderer
	dispatcher Dispatcher
	observer   Observer
}

// New creates a Manager with an empty tree. A nil renderer discards renders.
func New(renderer Renderer, opts ...Option) *Manager {
	if renderer == nil {
		renderer = nopRenderer{}
	}
	m := &Manager{
		debounce: DefaultDebounce,
		loop:     newEventLoop(),
		renderer: renderer,
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load replaces the tree with a deep copy of entries and schedules a render.
// Kinds left empty are derived from the label.
func (m *Manager) Load(entries []*Entry) error {
	seen := make(map[string]struct{})
	var bad error
	walk(entries, func(e *Entry) {
		if bad != nil {
			return
		}
		if e.ID == "" {
			bad = invalidArg("menu entry %q has no id", e.Label)
			return
		}
		if _, dup := seen[e.ID]; dup {
			bad = invalidArg("duplicate menu id: %s", e.ID)
			return
		}
		seen[e.ID] = struct{}{}
	})
	if bad != nil {
		return bad
	}

	root := cloneEntries(entries)
	walk(root, func(e *Entry) {
		if e.Kind != "" {
			return
		}
		if e.Label == SeparatorLabel {
			e.Kind = KindSeparator
		} else {
			e.Kind = KindNormal
		}
	})

	m.mu.Lock()
	m.root = root
	m.scheduleSyncLocked()
	m.mu.Unlock()

	slog.Info("menu loaded", "entries", len(seen))
	m.observer.Mutation("load")
	return nil
}

// Snapshot returns a deep copy of the current tree.
func (m *Manager) Snapshot() []*Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneEntries(m.root)
}

// AddMenu adds a top-level menu. An empty position appends; before and
// after place it next to the top-level menu relativeID.
func (m *Manager) AddMenu(title, id, position, relativeID string, done Done) error {
	if id == "" {
		return invalidArg("id must be a non-empty string")
	}
	pos, err := ParsePosition(position)
	if err != nil {
		return err
	}

	entry := &Entry{ID: id, Label: title, Kind: KindNormal}

	m.mu.Lock()
	defer m.mu.Unlock()

	if findByID(&m.root, id, false) != nil {
		m.complete(done, newError(CodeAlreadyExists, "menu item already exists: %s", id))
		return nil
	}
	root, err := insertRelative(m.root, entry, pos, relativeID)
	if err != nil {
		m.complete(done, err)
		return nil
	}
	m.root = root
	m.mutatedLocked("add_menu", done)
	slog.Debug("menu added", "id", id, "position", pos.String(), "relative_id", relativeID)
	return nil
}

// AddMenuItem adds an item to the submenu of spec.ParentID, turning the
// parent into a submenu if it is not one yet. A title of "---" adds a
// separator.
func (m *Manager) AddMenuItem(spec ItemSpec, done Done) error {
	switch {
	case spec.ParentID == "":
		return invalidArg("parentId must be a non-empty string")
	case spec.Title == "":
		return invalidArg("title must be a non-empty string")
	case spec.ID == "":
		return invalidArg("id must be a non-empty string")
	case spec.Position == "":
		return invalidArg("position must be a non-empty string")
	case spec.RelativeID == "":
		return invalidArg("relativeId must be a non-empty string")
	}
	pos, err := ParsePosition(spec.Position)
	if err != nil {
		return err
	}

	entry := &Entry{ID: spec.ID, Label: spec.Title, Kind: KindNormal}
	if spec.Title == SeparatorLabel {
		entry.Kind = KindSeparator
	}
	if key, ok := NormalizeShortcut(spec.Key); ok {
		entry.Shortcut = key
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	parent := findByID(&m.root, spec.ParentID, false)
	if parent == nil {
		m.complete(done, notFound(spec.ParentID))
		return nil
	}
	if findByID(&m.root, spec.ID, false) != nil {
		m.complete(done, newError(CodeAlreadyExists, "menu item already exists: %s", spec.ID))
		return nil
	}

	children := parent.Children
	if children == nil {
		children = []*Entry{}
	}
	children, err = insertRelative(children, entry, pos, spec.RelativeID)
	if err != nil {
		m.complete(done, err)
		return nil
	}
	parent.Children = children
	m.mutatedLocked("add_menu_item", done)
	slog.Debug("menu item added", "id", spec.ID, "parent_id", spec.ParentID, "kind", entry.Kind, "shortcut", entry.Shortcut)
	return nil
}

// RemoveMenu deletes the entry with id wherever it sits in the tree.
func (m *Manager) RemoveMenu(id string, done Done) {
	m.remove("remove_menu", id, done)
}

// RemoveMenuItem deletes the entry with id wherever it sits in the tree.
// It behaves exactly like RemoveMenu.
func (m *Manager) RemoveMenuItem(id string, done Done) {
	m.remove("remove_menu_item", id, done)
}

func (m *Manager) remove(op, id string, done Done) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := findByID(&m.root, id, true)
	m.mutatedLocked(op, done)
	slog.Debug("menu entry removed", "id", id, "found", removed != nil)
}

// SetMenuTitle changes the label of the entry with id.
func (m *Manager) SetMenuTitle(id, title string, done Done) {
	m.update("set_menu_title", id, done, func(e *Entry) {
		e.Label = title
	})
}

// SetMenuItemShortcut sets the accelerator of the entry with id. A shortcut
// that does not normalize clears the existing one. displayStr is accepted
// for compatibility and not used.
func (m *Manager) SetMenuItemShortcut(id, shortcut, displayStr string, done Done) {
	key, ok := NormalizeShortcut(shortcut)
	m.update("set_menu_item_shortcut", id, done, func(e *Entry) {
		if ok {
			e.Shortcut = key
		} else {
			e.Shortcut = ""
		}
	})
}

// SetMenuItemState sets the enabled and checked flags of the entry with id.
// A checked entry becomes a checkbox and stays one.
func (m *Manager) SetMenuItemState(id string, enabled, checked bool, done Done) {
	m.update("set_menu_item_state", id, done, func(e *Entry) {
		e.Enabled = boolPtr(enabled)
		e.Checked = boolPtr(checked)
		if checked {
			e.Kind = KindCheckbox
		}
	})
}

func (m *Manager) update(op, id string, done Done, apply func(*Entry)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := findByID(&m.root, id, false)
	if e == nil {
		m.complete(done, notFound(id))
		return
	}
	apply(e)
	m.mutatedLocked(op, done)
	slog.Debug("menu entry updated", "op", op, "id", id)
}

// mutatedLocked schedules a render and reports success. Callers hold m.mu.
func (m *Manager) mutatedLocked(op string, done Done) {
	m.scheduleSyncLocked()
	m.observer.Mutation(op)
	m.complete(done, nil)
}

// GetMenuTitle delivers the label of the entry with id.
func (m *Manager) GetMenuTitle(id string, done func(title string, err error)) {
	m.loop.post(func() {
		m.mu.Lock()
		e := findByID(&m.root, id, false)
		var title string
		if e != nil {
			title = e.Label
		}
		m.mu.Unlock()

		if done == nil {
			return
		}
		if e == nil {
			done("", notFound(id))
			return
		}
		done(title, nil)
	})
}

// GetMenuItemState is not supported by the shell and always reports
// CodeNotImplemented.
func (m *Manager) GetMenuItemState(id string, done func(enabled, checked bool, err error)) {
	if done == nil {
		return
	}
	m.loop.post(func() {
		done(false, false, newError(CodeNotImplemented, "getMenuItemState not implemented: %s", id))
	})
}

// GetMenuPosition is not supported by the shell and always reports
// CodeNotImplemented.
func (m *Manager) GetMenuPosition(id string, done func(parentID string, index int, err error)) {
	if done == nil {
		return
	}
	m.loop.post(func() {
		done("", -1, newError(CodeNotImplemented, "getMenuPosition not implemented: %s", id))
	})
}

// Activate runs the command bound to the entry with id. Renderers call it
// when the user clicks a native menu entry. Separators and unknown ids are
// ignored.
func (m *Manager) Activate(id string) {
	m.mu.Lock()
	e := findByID(&m.root, id, false)
	ok := e != nil && e.Kind != KindSeparator
	m.mu.Unlock()

	if !ok || m.dispatcher == nil {
		slog.Debug("menu activation ignored", "id", id)
		return
	}
	m.dispatcher.ExecuteCommand(id, true)
}
