// Package vectorstore persists embedded document chunks in Postgres with
// pgvector columns.
package vectorstore

import (
	"context"

	"github.com/google/uuid"
)

type Chunk struct {
	ID         uuid.UUID
	DocumentID uuid.UUID
	ChunkIndex int
	Content    string
	Embedding  []float32
}

// ChunkStore is the persistence contract for embedded chunks. Delete and
// Insert are separate operations on purpose: re-indexing a document issues
// a delete-all followed by an insert-all, and the pair is not atomic.
type ChunkStore interface {
	Insert(ctx context.Context, chunks []Chunk) error
	DeleteForDocument(ctx context.Context, documentID uuid.UUID) error
	// ListByDocuments returns chunk content for the given documents ordered
	// by chunk_index ascending, capped at limit. Embeddings are not loaded.
	ListByDocuments(ctx context.Context, documentIDs []uuid.UUID, limit int) ([]Chunk, error)
}
