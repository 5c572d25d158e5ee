// Package render provides host menu renderers fed by menu.Manager.
package render

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/fullstackenviormentss/brackets-electron/pkg/menu"
)

// Snapshot keeps the most recently rendered tree so the embedded web UI can
// draw the menu itself. It is the renderer used when no native tray exists.
type Snapshot struct {
	mu         sync.RWMutex
	entries    []*menu.Entry
	generation uint64
}

// NewSnapshot returns an empty Snapshot renderer.
func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

// Render stores entries as the current menu.
func (s *Snapshot) Render(entries []*menu.Entry) {
	s.mu.Lock()
	s.entries = entries
	s.generation++
	s.mu.Unlock()
}

// Current returns the last rendered tree and how many renders happened so far.
func (s *Snapshot) Current() ([]*menu.Entry, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries, s.generation
}

type snapshotPayload struct {
	Generation uint64        `json:"generation"`
	Menu       []*menu.Entry `json:"menu"`
}

// Handler serves the last rendered tree as JSON.
func (s *Snapshot) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entries, gen := s.Current()
		if entries == nil {
			entries = []*menu.Entry{}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(snapshotPayload{Generation: gen, Menu: entries}); err != nil {
			slog.Error("failed to encode rendered menu", "error", err)
		}
	})
}
