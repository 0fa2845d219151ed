package services

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"
	"sync"

	"docsync/internal/events"
)

// Channel is one outbound connection a session's events are written to.
type Channel interface {
	Send(ctx context.Context, payload []byte) error
	Connected() bool
	Close() error
}

type sessionTask struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// SessionManager tracks one channel and at most one running task per session id.
type SessionManager struct {
	mu       sync.Mutex
	channels map[string]Channel
	tasks    map[string]*sessionTask
	closed   bool

	logger *slog.Logger
}

func NewSessionManager(logger *slog.Logger) *SessionManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionManager{
		channels: map[string]Channel{},
		tasks:    map[string]*sessionTask{},
		logger:   logger.With("component", "sessions"),
	}
}

// Connect registers ch for id, replacing any previous channel.
func (m *SessionManager) Connect(id string, ch Channel) {
	m.mu.Lock()
	m.channels[id] = ch
	m.mu.Unlock()
	m.logger.Debug("session connected", "session", id)
}

// Disconnect forgets the channel of id and cancels its running task. It does
// not wait for the task, so it is safe to call from inside the task.
func (m *SessionManager) Disconnect(id string) {
	m.mu.Lock()
	_, had := m.channels[id]
	delete(m.channels, id)
	t := m.tasks[id]
	m.mu.Unlock()

	if t != nil {
		t.cancel()
	}
	if had {
		m.logger.Debug("session disconnected", "session", id)
	}
}

func (m *SessionManager) Connected(id string) bool {
	m.mu.Lock()
	ch := m.channels[id]
	m.mu.Unlock()
	return ch != nil && ch.Connected()
}

// Dispatch writes evt to the channel of id. Missing or closed channels are a
// no-op. A failed write disconnects the session.
func (m *SessionManager) Dispatch(ctx context.Context, id string, evt events.ProgressEvent) error {
	m.mu.Lock()
	ch := m.channels[id]
	m.mu.Unlock()
	if ch == nil || !ch.Connected() {
		return nil
	}

	payload, err := json.Marshal(events.Envelope{Event: evt})
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", evt.Type, err)
	}
	if err := ch.Send(ctx, payload); err != nil {
		m.logger.Warn("event delivery failed, disconnecting", "session", id, "type", evt.Type, "error", err)
		m.Disconnect(id)
		return err
	}
	return nil
}

// Start runs run in a new goroutine for id. A task already running for id is
// cancelled, and run begins only after it has returned. Start itself never
// waits, so a slow task only delays its own successor.
func (m *SessionManager) Start(ctx context.Context, id string, run func(ctx context.Context)) {
	taskCtx, cancel := context.WithCancel(events.WithSession(ctx, id))
	t := &sessionTask{cancel: cancel, done: make(chan struct{})}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		cancel()
		m.logger.Warn("session manager is shut down, task not started", "session", id)
		return
	}
	prev := m.tasks[id]
	m.tasks[id] = t
	m.mu.Unlock()

	if prev != nil {
		m.logger.Info("superseding running task", "session", id)
		prev.cancel()
	}

	go func() {
		defer close(t.done)
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				m.logger.Error("session task panicked", "session", id, "panic", r)
			}
			m.mu.Lock()
			if m.tasks[id] == t {
				delete(m.tasks, id)
			}
			m.mu.Unlock()
		}()
		if prev != nil {
			<-prev.done
		}
		if taskCtx.Err() != nil {
			return
		}
		run(taskCtx)
	}()
}

// Pump dispatches every event of seq to id and stops at the first failed write.
func (m *SessionManager) Pump(ctx context.Context, id string, seq iter.Seq[events.ProgressEvent]) {
	for evt := range seq {
		if err := m.Dispatch(ctx, id, evt); err != nil {
			return
		}
	}
}

// Running reports whether a task is in flight for id.
func (m *SessionManager) Running(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tasks[id] != nil
}

// Shutdown cancels every task, waits for them and closes all channels. Later
// calls to Start are ignored.
func (m *SessionManager) Shutdown() {
	m.mu.Lock()
	m.closed = true
	tasks := make([]*sessionTask, 0, len(m.tasks))
	for _, t := range m.tasks {
		tasks = append(tasks, t)
	}
	channels := m.channels
	m.channels = map[string]Channel{}
	m.mu.Unlock()

	for _, t := range tasks {
		t.cancel()
	}
	for _, t := range tasks {
		<-t.done
	}
	for id, ch := range channels {
		if err := ch.Close(); err != nil {
			m.logger.Debug("closing channel", "session", id, "error", err)
		}
	}
}
