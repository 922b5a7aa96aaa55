// Package cases manages the top-level case records a user's chats and
// documents hang off.
package cases

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkravchenko/legal-assistant-backend/internal/models"
)

type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

const caseColumns = "id, user_id, title, tags, created_at, updated_at"

func scanCase(row interface{ Scan(dest ...any) error }) (*models.Case, error) {
	var c models.Case
	if err := row.Scan(&c.ID, &c.UserID, &c.Title, &c.Tags, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Case, error) {
	rows, err := s.db.Query(ctx,
		"SELECT "+caseColumns+" FROM cases WHERE user_id = $1 ORDER BY updated_at DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	defer rows.Close()

	var out []models.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan case: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, title string, tags []string) (*models.Case, error) {
	if tags == nil {
		tags = []string{}
	}
	row := s.db.QueryRow(ctx,
		"INSERT INTO cases (user_id, title, tags) VALUES ($1, $2, $3) RETURNING "+caseColumns,
		userID, title, tags,
	)
	c, err := scanCase(row)
	if err != nil {
		return nil, fmt.Errorf("create case: %w", err)
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Case, error) {
	row := s.db.QueryRow(ctx, "SELECT "+caseColumns+" FROM cases WHERE id = $1", id)
	c, err := scanCase(row)
	if err != nil {
		return nil, fmt.Errorf("get case: %w", err)
	}
	return c, nil
}

// Update applies the provided fields and refreshes updated_at. Nil fields
// keep their current value.
func (s *Service) Update(ctx context.Context, id uuid.UUID, title *string, tags []string) (*models.Case, error) {
	row := s.db.QueryRow(ctx,
		`UPDATE cases
		 SET title = COALESCE($2, title),
		     tags = COALESCE($3, tags),
		     updated_at = now()
		 WHERE id = $1
		 RETURNING `+caseColumns,
		id, title, tags,
	)
	c, err := scanCase(row)
	if err != nil {
		return nil, fmt.Errorf("update case: %w", err)
	}
	return c, nil
}

// Delete removes the case; chats, documents and their embeddings go with it
// through foreign-key cascades.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.Exec(ctx, "DELETE FROM cases WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete case: %w", err)
	}
	return nil
}
