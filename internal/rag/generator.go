package rag

import (
	"context"
	"fmt"

	"github.com/mkravchenko/legal-assistant-backend/internal/llm"
)

// Generator streams a model reply for an assembled prompt.
type Generator struct {
	gateway llm.Gateway
	model   string
}

func NewGenerator(gw llm.Gateway, model string) *Generator {
	return &Generator{gateway: gw, model: model}
}

// StreamReply starts a streaming completion and returns a channel of text
// tokens. Provider chunks without a text delta are dropped, so every chunk
// on the returned channel either carries non-empty content or reports the
// stream's error. The channel closes when the underlying stream completes;
// the sequence is finite and cannot be restarted.
func (g *Generator) StreamReply(ctx context.Context, messages []llm.Message) (<-chan llm.StreamChunk, error) {
	ch, err := g.gateway.ChatStream(ctx, llm.ChatRequest{
		Model:    g.model,
		Messages: messages,
		Stream:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("start model stream: %w", err)
	}

	out := make(chan llm.StreamChunk, 64)
	go func() {
		defer close(out)
		for chunk := range ch {
			if chunk.Error != nil {
				out <- llm.StreamChunk{Error: chunk.Error, Done: true}
				return
			}
			if chunk.Content != "" {
				out <- llm.StreamChunk{Content: chunk.Content}
			}
			if chunk.Done {
				return
			}
		}
	}()

	return out, nil
}
