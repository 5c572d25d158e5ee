package bridge

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultCommandBacklog bounds how many activations wait for the web UI.
const DefaultCommandBacklog = 256

// Command is a menu activation waiting to be executed by the web UI.
type Command struct {
	ID       string    `json:"id"`
	FromMenu bool      `json:"fromMenu"`
	At       time.Time `json:"at"`
}

// CommandQueue buffers activations from the native menu until the web UI
// polls them. It satisfies menu.Dispatcher.
type CommandQueue struct {
	mu      sync.Mutex
	pending []Command
	backlog int
}

// NewCommandQueue returns a queue holding at most backlog commands; older
// commands are dropped first.
func NewCommandQueue(backlog int) *CommandQueue {
	if backlog <= 0 {
		backlog = DefaultCommandBacklog
	}
	return &CommandQueue{backlog: backlog}
}

func (q *CommandQueue) ExecuteCommand(id string, fromMenu bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) >= q.backlog {
		dropped := q.pending[0]
		q.pending = q.pending[1:]
		slog.Warn("command backlog full, dropping oldest", "id", dropped.ID, "backlog", q.backlog)
	}
	q.pending = append(q.pending, Command{ID: id, FromMenu: fromMenu, At: time.Now().UTC()})
	slog.Debug("command queued", "id", id, "from_menu", fromMenu)
}

// Drain removes and returns every pending command in activation order.
func (q *CommandQueue) Drain() []Command {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := q.pending
	q.pending = nil
	if out == nil {
		out = []Command{}
	}
	return out
}
