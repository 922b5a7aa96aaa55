// Package messages stores the chat transcript and drives the streaming
// assistant reply.
package messages

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

// List returns the chat transcript in ascending creation order.
func (s *Service) List(ctx context.Context, chatID uuid.UUID) ([]models.Message, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, chat_id, role, content, created_at
		 FROM messages WHERE chat_id = $1 ORDER BY created_at ASC`,
		chatID,
	)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var out []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Create appends one message to the chat. Messages are never updated or
// deleted individually.
func (s *Service) Create(ctx context.Context, chatID uuid.UUID, role, content string) (*models.Message, error) {
	var m models.Message
	err := s.db.QueryRow(ctx,
		`INSERT INTO messages (chat_id, role, content)
		 VALUES ($1, $2, $3)
		 RETURNING id, chat_id, role, content, created_at`,
		chatID, role, content,
	).Scan(&m.ID, &m.ChatID, &m.Role, &m.Content, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return &m, nil
}
