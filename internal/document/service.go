// Package document manages uploaded case files: storage, text extraction
// and handoff to the embedding indexer.
package document

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkravchenko/legal-assistant-backend/internal/cache"
	"github.com/mkravchenko/legal-assistant-backend/internal/models"
	"github.com/mkravchenko/legal-assistant-backend/internal/rag"
	"github.com/mkravchenko/legal-assistant-backend/internal/storage"
	"github.com/mkravchenko/legal-assistant-backend/internal/vectorstore"
)

// signedURLTTL is how long the stored file reference stays valid.
const signedURLTTL = 7 * 24 * time.Hour

// IndexEnqueuer schedules background embedding of a document. Implemented
// by the queue client.
type IndexEnqueuer interface {
	EnqueueEmbeddingIndex(ctx context.Context, documentID, caseID uuid.UUID) error
}

type Service struct {
	db      *pgxpool.Pool
	storage storage.Storage
	chunks  vectorstore.ChunkStore
	queue   IndexEnqueuer // nil means index inline
	indexer *rag.Indexer
	cache   *cache.Cache
}

func NewService(db *pgxpool.Pool, store storage.Storage, chunks vectorstore.ChunkStore, queue IndexEnqueuer, indexer *rag.Indexer, c *cache.Cache) *Service {
	return &Service{
		db:      db,
		storage: store,
		chunks:  chunks,
		queue:   queue,
		indexer: indexer,
		cache:   c,
	}
}

// Store uploads the file, extracts its text, records the document and kicks
// off embedding. Extraction failures are not fatal: the file is still stored
// and listed as an attachment, it just contributes no text context.
func (s *Service) Store(ctx context.Context, caseID uuid.UUID, fileName, contentType string, data []byte) (*models.Document, error) {
	content, err := ExtractText(ctx, data, fileName, contentType)
	if err != nil {
		slog.Warn("text extraction failed", "file_name", fileName, "error", err)
		content = ""
	}

	objectPath := fmt.Sprintf("%s/%s_%s", caseID, uuid.New(), fileName)
	if err := s.storage.Upload(ctx, objectPath, bytes.NewReader(data), contentType); err != nil {
		return nil, fmt.Errorf("upload file: %w", err)
	}

	fileURL, err := s.storage.SignedURL(ctx, objectPath, signedURLTTL)
	if err != nil {
		return nil, fmt.Errorf("sign file url: %w", err)
	}

	var doc models.Document
	err = s.db.QueryRow(ctx,
		`INSERT INTO documents (case_id, file_name, file_url, content)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, case_id, file_name, file_url, content, created_at`,
		caseID, fileName, fileURL, content,
	).Scan(&doc.ID, &doc.CaseID, &doc.FileName, &doc.FileURL, &doc.Content, &doc.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	if strings.TrimSpace(content) != "" {
		if err := s.scheduleIndexing(ctx, doc.ID, caseID, content); err != nil {
			slog.Error("schedule document indexing", "document_id", doc.ID, "error", err)
		}
	}

	return &doc, nil
}

func (s *Service) scheduleIndexing(ctx context.Context, documentID, caseID uuid.UUID, content string) error {
	if s.queue != nil {
		return s.queue.EnqueueEmbeddingIndex(ctx, documentID, caseID)
	}
	if err := s.indexer.UpsertEmbeddings(ctx, documentID, content); err != nil {
		return err
	}
	return s.cache.Delete(ctx, rag.ContextCacheKey(caseID))
}

func (s *Service) ListByCase(ctx context.Context, caseID uuid.UUID) ([]models.Document, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, case_id, file_name, file_url, content, created_at
		 FROM documents WHERE case_id = $1 ORDER BY created_at DESC`,
		caseID,
	)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var out []models.Document
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(&d.ID, &d.CaseID, &d.FileName, &d.FileURL, &d.Content, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	var d models.Document
	err := s.db.QueryRow(ctx,
		`SELECT id, case_id, file_name, file_url, content, created_at
		 FROM documents WHERE id = $1`,
		id,
	).Scan(&d.ID, &d.CaseID, &d.FileName, &d.FileURL, &d.Content, &d.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &d, nil
}

// Delete removes the document row and its embeddings and drops the case's
// cached context. The stored object is left behind; its signed URL expires
// on its own.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.chunks.DeleteForDocument(ctx, id); err != nil {
		return fmt.Errorf("delete embeddings: %w", err)
	}
	if _, err := s.db.Exec(ctx, "DELETE FROM documents WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	if err := s.cache.Delete(ctx, rag.ContextCacheKey(doc.CaseID)); err != nil {
		slog.Warn("invalidate context cache", "case_id", doc.CaseID, "error", err)
	}
	return nil
}

// ListIDsByCase returns the ids of the case's documents for chunk lookup.
func (s *Service) ListIDsByCase(ctx context.Context, caseID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.db.Query(ctx, "SELECT id FROM documents WHERE case_id = $1", caseID)
	if err != nil {
		return nil, fmt.Errorf("list document ids: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan document id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListFilesByCase returns the case's file references for attachment
// prompting.
func (s *Service) ListFilesByCase(ctx context.Context, caseID uuid.UUID) ([]rag.Attachment, error) {
	rows, err := s.db.Query(ctx, "SELECT file_url, file_name FROM documents WHERE case_id = $1", caseID)
	if err != nil {
		return nil, fmt.Errorf("list document files: %w", err)
	}
	defer rows.Close()

	var files []rag.Attachment
	for rows.Next() {
		var a rag.Attachment
		if err := rows.Scan(&a.URL, &a.FileName); err != nil {
			return nil, fmt.Errorf("scan document file: %w", err)
		}
		files = append(files, a)
	}
	return files, rows.Err()
}
