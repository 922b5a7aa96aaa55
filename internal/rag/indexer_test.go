package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/mkravchenko/legal-assistant-backend/internal/vectorstore"
)

type fakeChunkStore struct {
	fakeChunkSource
	inserted []vectorstore.Chunk
	deleted  []uuid.UUID
}

func (f *fakeChunkStore) Insert(ctx context.Context, chunks []vectorstore.Chunk) error {
	f.inserted = append(f.inserted, chunks...)
	return nil
}

func (f *fakeChunkStore) DeleteForDocument(ctx context.Context, documentID uuid.UUID) error {
	f.deleted = append(f.deleted, documentID)
	return nil
}

type fakeEmbedder struct {
	err  error
	seen [][]string
}

func (f *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	f.seen = append(f.seen, texts)
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(i)}
	}
	return out, nil
}

func TestUpsertEmbeddingsAssignsSequentialIndexes(t *testing.T) {
	store := &fakeChunkStore{}
	ix := NewIndexer(store, &fakeEmbedder{}, 10, 2)
	docID := uuid.New()

	text := strings.Repeat("abcde ", 10) // 59 runes normalized
	if err := ix.UpsertEmbeddings(context.Background(), docID, text); err != nil {
		t.Fatalf("UpsertEmbeddings: %v", err)
	}

	if len(store.deleted) != 1 || store.deleted[0] != docID {
		t.Errorf("deleted = %v, want one delete for %s", store.deleted, docID)
	}
	if len(store.inserted) == 0 {
		t.Fatal("no chunks inserted")
	}
	for i, c := range store.inserted {
		if c.ChunkIndex != i {
			t.Errorf("chunk %d has index %d", i, c.ChunkIndex)
		}
		if c.DocumentID != docID {
			t.Errorf("chunk %d has document %s", i, c.DocumentID)
		}
		if len(c.Embedding) == 0 {
			t.Errorf("chunk %d has no embedding", i)
		}
	}
}

func TestUpsertEmbeddingsEmptyTextSkipsEverything(t *testing.T) {
	store := &fakeChunkStore{}
	emb := &fakeEmbedder{}
	ix := NewIndexer(store, emb, 1500, 200)

	if err := ix.UpsertEmbeddings(context.Background(), uuid.New(), "   \n\t  "); err != nil {
		t.Fatalf("UpsertEmbeddings: %v", err)
	}

	if len(store.deleted) != 0 {
		t.Error("delete issued for empty text")
	}
	if len(store.inserted) != 0 {
		t.Error("insert issued for empty text")
	}
	if len(emb.seen) != 0 {
		t.Error("embedder called for empty text")
	}
}

func TestUpsertEmbeddingsEmbedFailureStopsBeforeInsert(t *testing.T) {
	store := &fakeChunkStore{}
	ix := NewIndexer(store, &fakeEmbedder{err: errors.New("provider down")}, 1500, 200)

	err := ix.UpsertEmbeddings(context.Background(), uuid.New(), "some document text")
	if err == nil {
		t.Fatal("expected error")
	}
	// The delete has already run by this point; only the insert must not.
	if len(store.inserted) != 0 {
		t.Error("chunks inserted despite embed failure")
	}
}
