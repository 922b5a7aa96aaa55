package models

import (
	"time"

	"github.com/google/uuid"
)

// Document is an uploaded file attached to a case. Content holds the text
// extracted once at upload time; it is nil when extraction produced nothing
// (for example an image with no OCR engine available).
type Document struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CaseID    uuid.UUID `json:"case_id" db:"case_id"`
	FileName  string    `json:"file_name" db:"file_name"`
	FileURL   string    `json:"file_url" db:"file_url"`
	Content   *string   `json:"content,omitempty" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// DocumentChunk is one embedded window of a document's extracted text.
// ChunkIndex values for a document are contiguous from zero; the whole set
// is replaced on every re-index, never patched.
type DocumentChunk struct {
	ID         uuid.UUID `json:"id" db:"id"`
	DocumentID uuid.UUID `json:"document_id" db:"document_id"`
	ChunkIndex int       `json:"chunk_index" db:"chunk_index"`
	Content    string    `json:"content" db:"content"`
	Embedding  []float32 `json:"-" db:"embedding"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
