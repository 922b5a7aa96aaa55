// Package workers holds the asynq task handlers run by the worker binary.
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/mkravchenko/legal-assistant-backend/internal/cache"
	"github.com/mkravchenko/legal-assistant-backend/internal/document"
	"github.com/mkravchenko/legal-assistant-backend/internal/queue"
	"github.com/mkravchenko/legal-assistant-backend/internal/rag"
)

// EmbeddingWorker indexes a document's extracted text into the vector
// store and drops the case's cached context so the next chat turn sees
// the new chunks.
type EmbeddingWorker struct {
	docSvc  *document.Service
	indexer *rag.Indexer
	cache   *cache.Cache
}

func NewEmbeddingWorker(docSvc *document.Service, indexer *rag.Indexer, c *cache.Cache) *EmbeddingWorker {
	return &EmbeddingWorker{
		docSvc:  docSvc,
		indexer: indexer,
		cache:   c,
	}
}

func (w *EmbeddingWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.EmbeddingIndexPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	docID, err := uuid.Parse(payload.DocumentID)
	if err != nil {
		return fmt.Errorf("parse document ID: %w", err)
	}

	caseID, err := uuid.Parse(payload.CaseID)
	if err != nil {
		return fmt.Errorf("parse case ID: %w", err)
	}

	doc, err := w.docSvc.Get(ctx, docID)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}

	var content string
	if doc.Content != nil {
		content = *doc.Content
	}

	slog.Info("indexing document", "document_id", docID, "case_id", caseID)

	if err := w.indexer.UpsertEmbeddings(ctx, docID, content); err != nil {
		return fmt.Errorf("index document: %w", err)
	}

	if err := w.cache.Delete(ctx, rag.ContextCacheKey(caseID)); err != nil {
		slog.Warn("invalidate context cache", "case_id", caseID, "error", err)
	}

	return nil
}
