package chats

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

func (s *Service) ListByCase(ctx context.Context, caseID uuid.UUID) ([]models.Chat, error) {
	rows, err := s.db.Query(ctx,
		"SELECT id, case_id, title, created_at FROM chats WHERE case_id = $1 ORDER BY created_at DESC",
		caseID,
	)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	defer rows.Close()

	var out []models.Chat
	for rows.Next() {
		var c models.Chat
		if err := rows.Scan(&c.ID, &c.CaseID, &c.Title, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Service) Create(ctx context.Context, caseID uuid.UUID, title string) (*models.Chat, error) {
	var c models.Chat
	err := s.db.QueryRow(ctx,
		"INSERT INTO chats (case_id, title) VALUES ($1, $2) RETURNING id, case_id, title, created_at",
		caseID, title,
	).Scan(&c.ID, &c.CaseID, &c.Title, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create chat: %w", err)
	}
	return &c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Chat, error) {
	var c models.Chat
	err := s.db.QueryRow(ctx,
		"SELECT id, case_id, title, created_at FROM chats WHERE id = $1",
		id,
	).Scan(&c.ID, &c.CaseID, &c.Title, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get chat: %w", err)
	}
	return &c, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.Exec(ctx, "DELETE FROM chats WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete chat: %w", err)
	}
	return nil
}
