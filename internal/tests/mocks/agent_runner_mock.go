package mocks

import (
	"context"
	"encoding/json"
	"sync"

	"docsync/internal/llm/client"
)

type AgentRunnerMock struct {
	RunFunc func(ctx context.Context, agent client.Agent, input string, out any) error

	mu    sync.Mutex
	calls []AgentCall
}

type AgentCall struct {
	Agent client.Agent
	Input string
}

func (m *AgentRunnerMock) Run(ctx context.Context, agent client.Agent, input string, out any) error {
	m.mu.Lock()
	m.calls = append(m.calls, AgentCall{Agent: agent, Input: input})
	m.mu.Unlock()
	if m.RunFunc != nil {
		return m.RunFunc(ctx, agent, input, out)
	}
	return nil
}

func (m *AgentRunnerMock) Calls() []AgentCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]AgentCall(nil), m.calls...)
}

// Fill copies value into out through JSON, the way a decoded model answer would arrive.
func Fill(out any, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}
