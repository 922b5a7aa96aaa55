package vectorstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

type PgChunkStore struct {
	db *pgxpool.Pool
}

func NewPgChunkStore(db *pgxpool.Pool) *PgChunkStore {
	return &PgChunkStore{db: db}
}

func (s *PgChunkStore) Insert(ctx context.Context, chunks []Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, c := range chunks {
		id := c.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		batch.Queue(
			`INSERT INTO document_embeddings (id, document_id, chunk_index, content, embedding)
			 VALUES ($1, $2, $3, $4, $5)`,
			id, c.DocumentID, c.ChunkIndex, c.Content, pgvector.NewVector(c.Embedding),
		)
	}

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	for i := range chunks {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert chunk %d: %w", chunks[i].ChunkIndex, err)
		}
	}
	return nil
}

func (s *PgChunkStore) DeleteForDocument(ctx context.Context, documentID uuid.UUID) error {
	_, err := s.db.Exec(ctx, "DELETE FROM document_embeddings WHERE document_id = $1", documentID)
	if err != nil {
		return fmt.Errorf("delete chunks for document %s: %w", documentID, err)
	}
	return nil
}

func (s *PgChunkStore) ListByDocuments(ctx context.Context, documentIDs []uuid.UUID, limit int) ([]Chunk, error) {
	if len(documentIDs) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 6
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, document_id, chunk_index, content
		 FROM document_embeddings
		 WHERE document_id = ANY($1)
		 ORDER BY chunk_index ASC
		 LIMIT $2`,
		documentIDs, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list chunks: %w", err)
	}
	defer rows.Close()

	var chunks []Chunk
	for rows.Next() {
		var c Chunk
		if err := rows.Scan(&c.ID, &c.DocumentID, &c.ChunkIndex, &c.Content); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}
