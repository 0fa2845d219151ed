package mocks

import (
	"context"
	"sync"
)

// ChannelMock records every payload sent to it.
type ChannelMock struct {
	SendFunc func(ctx context.Context, payload []byte) error

	mu     sync.Mutex
	sent   [][]byte
	closed bool
}

func (m *ChannelMock) Send(ctx context.Context, payload []byte) error {
	if m.SendFunc != nil {
		if err := m.SendFunc(ctx, payload); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, append([]byte(nil), payload...))
	return nil
}

func (m *ChannelMock) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.closed
}

func (m *ChannelMock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *ChannelMock) Sent() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]byte(nil), m.sent...)
}
