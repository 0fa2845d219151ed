package client

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/yargevad/filepathx"

	"docsync/internal/utils"
)

// Prompts resolves instruction templates by key. Embedded templates are the
// defaults; files under an override directory replace them by base name.
type Prompts struct {
	mu    sync.RWMutex
	texts map[string]string
}

// LoadPrompts reads the embedded templates and then every *.txt below overrideDir.
func LoadPrompts(overrideDir string) (*Prompts, error) {
	p := &Prompts{texts: make(map[string]string)}

	entries, err := fs.Glob(embeddedPrompts, "prompts/*.txt")
	if err != nil {
		return nil, fmt.Errorf("list embedded prompts: %w", err)
	}
	for _, name := range entries {
		b, err := embeddedPrompts.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read embedded prompt %s: %w", name, err)
		}
		p.texts[promptKey(name)] = string(b)
	}

	if strings.TrimSpace(overrideDir) == "" {
		return p, nil
	}
	if !utils.DirectoryExists(overrideDir) {
		return nil, fmt.Errorf("prompt override dir %s: %w", overrideDir, os.ErrNotExist)
	}
	files, err := filepathx.Glob(filepath.Join(overrideDir, "**", "*.txt"))
	if err != nil {
		return nil, fmt.Errorf("scan prompt overrides: %w", err)
	}
	for _, path := range files {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read prompt override %s: %w", path, err)
		}
		p.texts[promptKey(path)] = string(b)
	}
	return p, nil
}

func (p *Prompts) Get(key string) (string, error) {
	if p == nil {
		return "", fmt.Errorf("prompt %q: no prompts loaded", key)
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	text, ok := p.texts[key]
	if !ok {
		return "", fmt.Errorf("prompt %q not found", key)
	}
	return text, nil
}

// Set replaces a template at runtime.
func (p *Prompts) Set(key, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.texts[key] = text
}

func (p *Prompts) Keys() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	keys := make([]string, 0, len(p.texts))
	for k := range p.texts {
		keys = append(keys, k)
	}
	return keys
}

func promptKey(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".txt")
}
