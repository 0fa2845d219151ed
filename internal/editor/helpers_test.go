package editor

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cloudwego/eino/components/tool"

	"docsync/internal/apperr"
	"docsync/internal/llm/client"
	"docsync/internal/models"
	"docsync/internal/tests/mocks"
)

type noTools struct{}

func (noTools) SuggestionTools(bool) ([]tool.BaseTool, error) { return nil, nil }
func (noTools) CreationTools() ([]tool.BaseTool, error)       { return nil, nil }
func (noTools) DeletionTools() ([]tool.BaseTool, error)       { return nil, nil }

type memVersions struct {
	mu   sync.Mutex
	docs map[string]string
}

func (m *memVersions) GetDocumentVersion(_ context.Context, documentID, version string) (*models.DocumentContentRead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	body, ok := m.docs[documentID+"@"+version]
	if !ok {
		return nil, apperr.NotFound("document version", documentID+"@"+version)
	}
	return &models.DocumentContentRead{
		DocumentContent: models.DocumentContent{DocumentID: documentID, Version: version, MarkdownContent: body},
		Title:           "Title " + documentID,
	}, nil
}

// scripted answers by agent name. A value of type error is returned as the
// failure of that agent; a func(input string) any is evaluated per call.
func scripted(answers map[string]any) *mocks.AgentRunnerMock {
	return &mocks.AgentRunnerMock{
		RunFunc: func(ctx context.Context, agent client.Agent, input string, out any) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, ok := answers[agent.Name]
			if !ok {
				return fmt.Errorf("no answer scripted for %s", agent.Name)
			}
			if fn, ok := v.(func(string) any); ok {
				v = fn(input)
			}
			if err, ok := v.(error); ok {
				return err
			}
			return mocks.Fill(out, v)
		},
	}
}

// patchFor answers the patch generator by looking up the document id in the input.
func patchFor(byDoc map[string]any) func(string) any {
	return func(input string) any {
		for id, v := range byDoc {
			if strings.Contains(input, "Title "+id+"\n") {
				return v
			}
		}
		return fmt.Errorf("unexpected patch input")
	}
}

func intents(kinds ...models.IntentKind) map[string]any {
	list := make([]map[string]any, 0, len(kinds))
	for _, k := range kinds {
		list = append(list, map[string]any{"kind": string(k), "reason": "because", "task": "do " + string(k)})
	}
	return map[string]any{"intents": list}
}

func change(old, new string) map[string]any {
	return map[string]any{"changes": []map[string]string{{"old_string": old, "new_string": new}}}
}
