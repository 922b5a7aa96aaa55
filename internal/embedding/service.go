package embedding

import (
	"context"
	"fmt"

	"github.com/mkravchenko/legal-assistant-backend/internal/llm"
)

// Service turns chunk texts into vectors through the LLM gateway. Output
// order always matches input order. dims is the requested vector width and
// must match the embedding column; text-embedding-3-large would otherwise
// return 3072-dim vectors the store cannot hold.
type Service struct {
	gateway llm.Gateway
	model   string
	dims    int
}

func NewService(gw llm.Gateway, model string, dims int) *Service {
	if model == "" {
		model = "text-embedding-3-large"
	}
	return &Service{gateway: gw, model: model, dims: dims}
}

func (s *Service) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	// Provider APIs cap batch sizes; 100 inputs per request is safe.
	const batchSize = 100
	var all [][]float32

	for i := 0; i < len(texts); i += batchSize {
		end := i + batchSize
		if end > len(texts) {
			end = len(texts)
		}

		resp, err := s.gateway.Embed(ctx, llm.EmbeddingRequest{
			Model:      s.model,
			Input:      texts[i:end],
			Dimensions: s.dims,
		})
		if err != nil {
			return nil, fmt.Errorf("embed batch %d: %w", i/batchSize, err)
		}

		all = append(all, resp.Embeddings...)
	}

	if len(all) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: %d vectors for %d inputs", len(all), len(texts))
	}

	return all, nil
}
