package editor

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"

	"docsync/internal/llm/client"
	"docsync/internal/models"
)

// AgentRunner runs one language-model agent and decodes its answer into out.
type AgentRunner interface {
	Run(ctx context.Context, agent client.Agent, input string, out any) error
}

// ToolProvider hands out the document-discovery tools for each agent.
type ToolProvider interface {
	SuggestionTools(isAPIRef bool) ([]tool.BaseTool, error)
	CreationTools() ([]tool.BaseTool, error)
	DeletionTools() ([]tool.BaseTool, error)
}

// VersionSource fetches one exact document version.
type VersionSource interface {
	GetDocumentVersion(ctx context.Context, documentID, version string) (*models.DocumentContentRead, error)
}

// intentInput renders the shared header handed to every per-intent agent.
func intentInput(query string, intent models.Intent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User query: %s\n", query)
	if task := strings.TrimSpace(intent.Task); task != "" {
		fmt.Fprintf(&b, "Task: %s\n", task)
	}
	if reason := strings.TrimSpace(intent.Reason); reason != "" {
		fmt.Fprintf(&b, "Reason: %s\n", reason)
	}
	return b.String()
}
