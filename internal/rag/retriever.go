package rag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mkravchenko/legal-assistant-backend/internal/cache"
	"github.com/mkravchenko/legal-assistant-backend/internal/vectorstore"
)

// Attachment is a stored case file reference suitable for prompting.
type Attachment struct {
	URL      string `json:"url"`
	FileName string `json:"file_name"`
}

// DocumentSource resolves which documents belong to a case. Implemented by
// the document service.
type DocumentSource interface {
	ListIDsByCase(ctx context.Context, caseID uuid.UUID) ([]uuid.UUID, error)
	ListFilesByCase(ctx context.Context, caseID uuid.UUID) ([]Attachment, error)
}

// ChunkSource is the read side of the chunk store.
type ChunkSource interface {
	ListByDocuments(ctx context.Context, documentIDs []uuid.UUID, limit int) ([]vectorstore.Chunk, error)
}

const contextCacheTTL = 5 * time.Minute

// ContextCacheKey is the cache slot for a case's retrieved context. Writers
// that change a case's chunks (indexing, document deletion) invalidate it.
func ContextCacheKey(caseID uuid.UUID) string {
	return "rag:context:" + caseID.String()
}

// Retriever gathers prompt context for a case. Chunks are selected by
// chunk_index order, not by similarity to the live query: the first
// MaxContextChunks windows across the case's documents win.
type Retriever struct {
	docs      DocumentSource
	chunks    ChunkSource
	maxChunks int
	cache     *cache.Cache // nil disables caching
}

func NewRetriever(docs DocumentSource, chunks ChunkSource, maxChunks int, c *cache.Cache) *Retriever {
	if maxChunks <= 0 {
		maxChunks = 6
	}
	return &Retriever{docs: docs, chunks: chunks, maxChunks: maxChunks, cache: c}
}

// ContextChunks returns up to maxChunks chunk contents drawn only from
// documents of the given case. A case with no documents short-circuits
// before the chunk table is touched.
func (r *Retriever) ContextChunks(ctx context.Context, caseID uuid.UUID) ([]string, error) {
	key := ContextCacheKey(caseID)
	var cached []string
	if err := r.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	ids, err := r.docs.ListIDsByCase(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("list case documents: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	chunks, err := r.chunks.ListByDocuments(ctx, ids, r.maxChunks)
	if err != nil {
		return nil, fmt.Errorf("list context chunks: %w", err)
	}

	contents := make([]string, len(chunks))
	for i, c := range chunks {
		contents[i] = c.Content
	}

	_ = r.cache.Set(ctx, key, contents, contextCacheTTL)
	return contents, nil
}

// ImageAttachments returns the case's image documents for multimodal
// prompting, identified by file extension.
func (r *Retriever) ImageAttachments(ctx context.Context, caseID uuid.UUID) ([]Attachment, error) {
	files, err := r.docs.ListFilesByCase(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("list case files: %w", err)
	}

	var images []Attachment
	for _, f := range files {
		if f.URL != "" && f.FileName != "" && IsImageFile(f.FileName) {
			images = append(images, f)
		}
	}
	return images, nil
}

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp", ".tiff"}

func IsImageFile(fileName string) bool {
	lower := strings.ToLower(fileName)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
