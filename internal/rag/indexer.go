// Package rag implements the retrieval pipeline: chunking documents into
// embedded windows at ingestion time, and at chat time gathering case
// context, assembling the prompt and streaming the model reply.
package rag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mkravchenko/legal-assistant-backend/internal/vectorstore"
	"github.com/mkravchenko/legal-assistant-backend/pkg/chunker"
)

// Embedder produces one vector per input text, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Indexer replaces a document's stored embeddings with freshly computed
// ones whenever its text is (re-)extracted.
type Indexer struct {
	store        vectorstore.ChunkStore
	embedder     Embedder
	chunkSize    int
	chunkOverlap int
}

func NewIndexer(store vectorstore.ChunkStore, embedder Embedder, chunkSize, chunkOverlap int) *Indexer {
	return &Indexer{
		store:        store,
		embedder:     embedder,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// UpsertEmbeddings chunks text, embeds every chunk in one ordered batch and
// replaces the document's rows: delete-all, then insert-all with chunk_index
// equal to each chunk's position. When the text chunks to nothing the whole
// operation is skipped, including the delete, so embeddings from an earlier
// non-empty extraction stay in place.
//
// The delete and the insert are separate statements; a failure between them
// leaves the document without chunks until the next index run.
func (ix *Indexer) UpsertEmbeddings(ctx context.Context, documentID uuid.UUID, text string) error {
	chunks := chunker.Chunk(text, ix.chunkSize, ix.chunkOverlap)
	if len(chunks) == 0 {
		slog.Debug("no chunks to index", "document_id", documentID)
		return nil
	}

	if err := ix.store.DeleteForDocument(ctx, documentID); err != nil {
		return fmt.Errorf("clear existing embeddings: %w", err)
	}

	vectors, err := ix.embedder.Embed(ctx, chunks)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	rows := make([]vectorstore.Chunk, len(chunks))
	for i, content := range chunks {
		rows[i] = vectorstore.Chunk{
			DocumentID: documentID,
			ChunkIndex: i,
			Content:    content,
			Embedding:  vectors[i],
		}
	}

	if err := ix.store.Insert(ctx, rows); err != nil {
		return fmt.Errorf("insert embeddings: %w", err)
	}

	slog.Info("document indexed", "document_id", documentID, "chunks", len(rows))
	return nil
}
