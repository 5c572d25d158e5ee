package menu

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultDebounce is how long mutations are collected before the renderer
// is rebuilt.
const DefaultDebounce = 100 * time.Millisecond

// eventLoop runs posted tasks one at a time, in order, on the goroutine
// that calls run. Tasks posted before run starts are kept.
type eventLoop struct {
	mu    sync.Mutex
	queue []func()
	wake  chan struct{}

	stopOnce sync.Once
	stopped  chan struct{}
}

func newEventLoop() *eventLoop {
	return &eventLoop{
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}
}

func (l *eventLoop) post(task func()) {
	l.mu.Lock()
	l.queue = append(l.queue, task)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *eventLoop) drain() {
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return
		}
		task := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		task()
	}
}

func (l *eventLoop) run(ctx context.Context) error {
	defer l.stopOnce.Do(func() { close(l.stopped) })
	for {
		l.drain()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Run drives completions and renderer rebuilds until ctx is canceled.
// It must be running for callbacks to fire.
func (m *Manager) Run(ctx context.Context) error {
	slog.Debug("menu manager loop started", "debounce", m.debounce)
	err := m.loop.run(ctx)

	m.mu.Lock()
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.pending = false
	m.mu.Unlock()

	slog.Debug("menu manager loop stopped")
	return err
}

// Stopped is closed once Run has returned. Completions posted after that
// never fire.
func (m *Manager) Stopped() <-chan struct{} {
	return m.loop.stopped
}

// scheduleSyncLocked marks the tree dirty and arms the single rebuild timer
// if none is pending. Callers hold m.mu.
func (m *Manager) scheduleSyncLocked() {
	m.dirty = true
	if m.pending {
		return
	}
	m.pending = true
	m.timer = time.AfterFunc(m.debounce, func() {
		m.loop.post(m.render)
	})
}

// render rebuilds the host menu from the tree as it is now.
func (m *Manager) render() {
	m.mu.Lock()
	m.pending = false
	m.timer = nil
	if !m.dirty {
		m.mu.Unlock()
		return
	}
	m.dirty = false
	snapshot := cloneEntries(m.root)
	m.mu.Unlock()

	n := countEntries(snapshot)
	m.renderer.Render(snapshot)
	m.observer.Rendered(n)
	slog.Debug("menu rendered", "entries", n)
}

// complete hands err to done on the next tick of the loop.
func (m *Manager) complete(done Done, err error) {
	if done == nil {
		return
	}
	m.loop.post(func() { done(err) })
}
