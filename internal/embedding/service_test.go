package embedding

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mkravchenko/legal-assistant-backend/internal/llm"
)

type stubGateway struct {
	batches [][]string
	dims    []int
	short   bool
}

func (s *stubGateway) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	return nil, errors.New("not implemented")
}

func (s *stubGateway) ChatStream(ctx context.Context, req llm.ChatRequest) (<-chan llm.StreamChunk, error) {
	return nil, errors.New("not implemented")
}

func (s *stubGateway) Embed(ctx context.Context, req llm.EmbeddingRequest) (*llm.EmbeddingResponse, error) {
	s.batches = append(s.batches, req.Input)
	s.dims = append(s.dims, req.Dimensions)
	n := len(req.Input)
	if s.short {
		n--
	}
	out := make([][]float32, n)
	for i := range out {
		out[i] = []float32{float32(len(s.batches)), float32(i)}
	}
	return &llm.EmbeddingResponse{Embeddings: out}, nil
}

func TestEmbedBatchesAndPreservesOrder(t *testing.T) {
	gw := &stubGateway{}
	svc := NewService(gw, "test-embed", 1536)

	texts := make([]string, 150)
	for i := range texts {
		texts[i] = fmt.Sprintf("chunk %d", i)
	}

	vectors, err := svc.Embed(context.Background(), texts)
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}

	if len(vectors) != 150 {
		t.Fatalf("got %d vectors, want 150", len(vectors))
	}
	if len(gw.batches) != 2 {
		t.Fatalf("got %d batches, want 2", len(gw.batches))
	}
	if len(gw.batches[0]) != 100 || len(gw.batches[1]) != 50 {
		t.Errorf("batch sizes = %d, %d", len(gw.batches[0]), len(gw.batches[1]))
	}
	if gw.batches[1][0] != "chunk 100" {
		t.Errorf("second batch starts with %q", gw.batches[1][0])
	}
	// First vector of the second batch carries the batch number.
	if vectors[100][0] != 2 {
		t.Errorf("vectors[100] = %v, expected it from batch 2", vectors[100])
	}
}

func TestEmbedRequestsConfiguredDimensions(t *testing.T) {
	gw := &stubGateway{}
	svc := NewService(gw, "text-embedding-3-large", 1536)

	texts := make([]string, 120)
	for i := range texts {
		texts[i] = fmt.Sprintf("chunk %d", i)
	}

	if _, err := svc.Embed(context.Background(), texts); err != nil {
		t.Fatalf("Embed: %v", err)
	}

	if len(gw.dims) != 2 {
		t.Fatalf("got %d requests, want 2", len(gw.dims))
	}
	// Every request must carry the column width; the model's native 3072
	// dims would not fit the vector column.
	for i, d := range gw.dims {
		if d != 1536 {
			t.Errorf("request %d dimensions = %d, want 1536", i, d)
		}
	}
}

func TestEmbedEmptyInput(t *testing.T) {
	gw := &stubGateway{}
	svc := NewService(gw, "", 1536)

	vectors, err := svc.Embed(context.Background(), nil)
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if vectors != nil {
		t.Errorf("got %v, want nil", vectors)
	}
	if len(gw.batches) != 0 {
		t.Error("gateway called for empty input")
	}
}

func TestEmbedCountMismatch(t *testing.T) {
	gw := &stubGateway{short: true}
	svc := NewService(gw, "", 1536)

	if _, err := svc.Embed(context.Background(), []string{"a", "b"}); err == nil {
		t.Fatal("expected error on vector count mismatch")
	}
}
