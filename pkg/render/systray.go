//go:build cgo || windows
// +build cgo windows

package render

import (
	"context"
	"log/slog"
	"sync"

	"github.com/getlantern/systray"

	"github.com/fullstackenviormentss/brackets-electron/pkg/menu"
)

// Systray renders the menu tree into the native system tray.
type Systray struct {
	activate func(id string)
	tooltip  string
	updates  chan []*menu.Entry

	mu      sync.Mutex
	entries []trayEntry
}

type trayEntry struct {
	item   *systray.MenuItem
	cancel context.CancelFunc
}

// NewSystray creates a tray renderer. activate is called with the entry id
// whenever the user clicks a tray item.
func NewSystray(activate func(id string), tooltip string) (*Systray, error) {
	return &Systray{
		activate: activate,
		tooltip:  tooltip,
		updates:  make(chan []*menu.Entry, 1),
	}, nil
}

// Render queues entries for the tray. Only the latest pending tree is kept.
func (s *Systray) Render(entries []*menu.Entry) {
	select {
	case s.updates <- entries:
	default:
		select {
		case <-s.updates:
		default:
		}
		select {
		case s.updates <- entries:
		default:
		}
	}
}

// Run starts the tray and applies rendered trees until ctx is canceled.
func (s *Systray) Run(ctx context.Context) error {
	done := make(chan struct{})

	go systray.Run(func() {
		systray.SetTooltip(s.tooltip)
		go s.listen(ctx)
	}, func() {
		s.shutdown()
		close(done)
	})

	select {
	case <-ctx.Done():
		systray.Quit()
		<-done
		return ctx.Err()
	case <-done:
		return nil
	}
}

func (s *Systray) listen(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case entries := <-s.updates:
			s.apply(ctx, entries)
		}
	}
}

func (s *Systray) apply(ctx context.Context, entries []*menu.Entry) {
	s.mu.Lock()
	old := s.entries
	s.entries = nil
	s.mu.Unlock()

	for _, e := range old {
		e.cancel()
		e.item.Hide()
	}

	added := s.addGroup(ctx, entries, nil)

	s.mu.Lock()
	s.entries = added
	s.mu.Unlock()
	slog.Debug("tray menu rebuilt", "items", len(added))
}

func (s *Systray) addGroup(ctx context.Context, entries []*menu.Entry, parent *systray.MenuItem) []trayEntry {
	out := make([]trayEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, s.addEntry(ctx, e, parent)...)
	}
	return out
}

func (s *Systray) addEntry(ctx context.Context, e *menu.Entry, parent *systray.MenuItem) []trayEntry {
	ti := trayItemFor(e)
	mi := makeItem(parent, ti)
	if ti.disabled {
		mi.Disable()
	}
	if !ti.clickable {
		return []trayEntry{{item: mi, cancel: func() {}}}
	}

	itemCtx, cancel := context.WithCancel(ctx)
	go func(id string, ch <-chan struct{}) {
		for {
			select {
			case <-itemCtx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				s.activate(id)
			}
		}
	}(e.ID, mi.ClickedCh)

	out := []trayEntry{{item: mi, cancel: cancel}}
	if e.HasSubmenu() {
		out = append(out, s.addGroup(ctx, e.Children, mi)...)
	}
	return out
}

// makeItem creates the tray item. Check marks are only drawn for items
// created through the checkbox constructors.
func makeItem(parent *systray.MenuItem, ti trayItem) *systray.MenuItem {
	switch {
	case parent == nil && ti.checkable:
		return systray.AddMenuItemCheckbox(ti.title, ti.tooltip, ti.checked)
	case parent == nil:
		return systray.AddMenuItem(ti.title, ti.tooltip)
	case ti.checkable:
		return parent.AddSubMenuItemCheckbox(ti.title, ti.tooltip, ti.checked)
	default:
		return parent.AddSubMenuItem(ti.title, ti.tooltip)
	}
}

func (s *Systray) shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		e.cancel()
	}
	s.entries = nil
}
