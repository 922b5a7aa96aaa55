package rag

import (
	"context"
	"errors"
	"testing"

	"github.com/mkravchenko/legal-assistant-backend/internal/llm"
)

type fakeGateway struct {
	chunks []llm.StreamChunk
}

func (f *fakeGateway) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeGateway) ChatStream(ctx context.Context, req llm.ChatRequest) (<-chan llm.StreamChunk, error) {
	ch := make(chan llm.StreamChunk, len(f.chunks))
	for _, c := range f.chunks {
		ch <- c
	}
	close(ch)
	return ch, nil
}

func (f *fakeGateway) Embed(ctx context.Context, req llm.EmbeddingRequest) (*llm.EmbeddingResponse, error) {
	return nil, errors.New("not implemented")
}

func collect(t *testing.T, ch <-chan llm.StreamChunk) []llm.StreamChunk {
	t.Helper()
	var out []llm.StreamChunk
	for c := range ch {
		out = append(out, c)
	}
	return out
}

func TestStreamReplyDropsEmptyDeltas(t *testing.T) {
	gw := &fakeGateway{chunks: []llm.StreamChunk{
		{Content: "Hel"},
		{Content: ""},
		{Content: "lo"},
		{Done: true},
	}}
	g := NewGenerator(gw, "test-model")

	ch, err := g.StreamReply(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	if err != nil {
		t.Fatalf("StreamReply: %v", err)
	}

	got := collect(t, ch)
	if len(got) != 2 {
		t.Fatalf("got %d chunks, want 2: %+v", len(got), got)
	}
	if got[0].Content != "Hel" || got[1].Content != "lo" {
		t.Errorf("chunks = %+v", got)
	}
}

func TestStreamReplyForwardsError(t *testing.T) {
	streamErr := errors.New("connection reset")
	gw := &fakeGateway{chunks: []llm.StreamChunk{
		{Content: "partial"},
		{Error: streamErr},
	}}
	g := NewGenerator(gw, "test-model")

	ch, err := g.StreamReply(context.Background(), nil)
	if err != nil {
		t.Fatalf("StreamReply: %v", err)
	}

	got := collect(t, ch)
	if len(got) != 2 {
		t.Fatalf("got %d chunks, want 2: %+v", len(got), got)
	}
	last := got[len(got)-1]
	if !errors.Is(last.Error, streamErr) {
		t.Errorf("last chunk error = %v, want %v", last.Error, streamErr)
	}
	if !last.Done {
		t.Error("error chunk not marked done")
	}
}
