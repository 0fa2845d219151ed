package assets

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

// ModelsData holds the raw JSON catalog of supported model providers.
//
//go:embed models.json
var ModelsData []byte

type Provider struct {
	ID             string `json:"id"`
	Label          string `json:"label"`
	DefaultModel   string `json:"default_model"`
	EmbeddingModel string `json:"embedding_model,omitempty"`
	APIKeyEnv      string `json:"api_key_env"`
}

type catalog struct {
	Providers []Provider `json:"providers"`
}

// Providers decodes the embedded catalog.
func Providers() ([]Provider, error) {
	var c catalog
	if err := json.Unmarshal(ModelsData, &c); err != nil {
		return nil, fmt.Errorf("decode model catalog: %w", err)
	}
	return c.Providers, nil
}

// LookupProvider returns the catalog entry for id.
func LookupProvider(id string) (Provider, bool) {
	list, err := Providers()
	if err != nil {
		return Provider{}, false
	}
	for _, p := range list {
		if p.ID == id {
			return p, true
		}
	}
	return Provider{}, false
}
