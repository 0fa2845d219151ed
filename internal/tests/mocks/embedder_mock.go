package mocks

import (
	"context"

	"github.com/cloudwego/eino/components/embedding"
)

type EmbedderMock struct {
	EmbedStringsFunc func(ctx context.Context, texts []string) ([][]float64, error)
}

func (m *EmbedderMock) EmbedStrings(ctx context.Context, texts []string, _ ...embedding.Option) ([][]float64, error) {
	if m.EmbedStringsFunc != nil {
		return m.EmbedStringsFunc(ctx, texts)
	}
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = []float64{1, 0, 0}
	}
	return out, nil
}
