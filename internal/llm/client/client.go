package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/flow/agent/react"
	"github.com/cloudwego/eino/schema"

	"docsync/internal/apperr"
)

const defaultMaxSteps = 25

// Agent bundles an instruction template, the toolset the model may call and
// a name used in logs and errors. The expected output is the value passed to Run.
type Agent struct {
	Name   string
	Prompt string
	Tools  []tool.BaseTool
}

// LLMClient runs agents against one chat model and decodes their JSON output.
type LLMClient struct {
	chat     model.ToolCallingChatModel
	prompts  *Prompts
	maxSteps int
	logger   *slog.Logger
}

type Option func(*LLMClient)

func WithMaxSteps(n int) Option {
	return func(c *LLMClient) {
		if n > 0 {
			c.maxSteps = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *LLMClient) {
		if l != nil {
			c.logger = l
		}
	}
}

func NewLLMClient(chat model.ToolCallingChatModel, prompts *Prompts, opts ...Option) *LLMClient {
	c := &LLMClient{
		chat:     chat,
		prompts:  prompts,
		maxSteps: defaultMaxSteps,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run sends input to the agent and decodes the final assistant message into out.
// A nil out skips decoding. Every failure is an AgentInvocationError.
func (c *LLMClient) Run(ctx context.Context, agent Agent, input string, out any) error {
	reply, err := c.Generate(ctx, agent, input)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := DecodeJSON(reply, out); err != nil {
		c.logger.Warn("agent returned unparseable output", "agent", agent.Name, "error", err)
		return apperr.Agent(agent.Name, fmt.Errorf("decode output: %w", err))
	}
	return nil
}

// Generate returns the raw text of the agent's final answer.
func (c *LLMClient) Generate(ctx context.Context, agent Agent, input string) (string, error) {
	if c == nil || c.chat == nil {
		return "", apperr.Agent(agent.Name, errors.New("chat model not configured"))
	}
	instructions, err := c.prompts.Get(agent.Prompt)
	if err != nil {
		return "", apperr.Agent(agent.Name, err)
	}

	c.logger.Debug("running agent", "agent", agent.Name, "tools", len(agent.Tools))

	var reply *schema.Message
	if len(agent.Tools) == 0 {
		reply, err = c.chat.Generate(ctx, []*schema.Message{
			schema.SystemMessage(instructions),
			schema.UserMessage(input),
		})
	} else {
		reply, err = c.runReact(ctx, agent, instructions, input)
	}
	if err != nil {
		return "", apperr.Agent(agent.Name, err)
	}
	if reply == nil || strings.TrimSpace(reply.Content) == "" {
		return "", apperr.Agent(agent.Name, errors.New("empty response"))
	}
	return reply.Content, nil
}

func (c *LLMClient) runReact(ctx context.Context, agent Agent, instructions, input string) (*schema.Message, error) {
	ra, err := react.NewAgent(ctx, &react.AgentConfig{
		ToolCallingModel: c.chat,
		ToolsConfig: compose.ToolsNodeConfig{
			Tools: agent.Tools,
		},
		MessageModifier: func(ctx context.Context, input []*schema.Message) []*schema.Message {
			res := make([]*schema.Message, 0, len(input)+1)
			res = append(res, schema.SystemMessage(instructions))
			res = append(res, input...)
			return res
		},
		MaxStep: c.maxSteps,
	})
	if err != nil {
		return nil, fmt.Errorf("create react agent: %w", err)
	}
	return ra.Generate(ctx, []*schema.Message{schema.UserMessage(input)})
}

// DecodeJSON decodes a model answer that may be wrapped in a markdown code
// fence or surrounded by prose.
func DecodeJSON(raw string, out any) error {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}
	if err := json.Unmarshal([]byte(text), out); err == nil {
		return nil
	}
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return errors.New("no JSON object in response")
	}
	closer := "}"
	if text[start] == '[' {
		closer = "]"
	}
	end := strings.LastIndex(text, closer)
	if end <= start {
		return errors.New("unterminated JSON in response")
	}
	return json.Unmarshal([]byte(text[start:end+1]), out)
}
