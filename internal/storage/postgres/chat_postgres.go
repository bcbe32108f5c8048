package postgres

import (
	"EduStream/internal/models"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ChatPostgres struct {
	db *pgxpool.Pool
}

func NewChatPostgres(db *pgxpool.Pool) *ChatPostgres {
	return &ChatPostgres{db: db}
}

func (r *ChatPostgres) SaveMessage(ctx context.Context, msg *models.ChatMessage) error {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	msg.CreatedAt = time.Now().UTC()

	query := `
        INSERT INTO chat_messages (id, course_id, user_id, body, author_name, avatar_url, from_tutor, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `
	_, err := r.db.Exec(ctx, query,
		msg.ID, msg.CourseID, msg.UserID, msg.Body,
		msg.AuthorName, msg.AvatarURL, msg.FromTutor, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save chat message: %w", err)
	}
	return nil
}

func (r *ChatPostgres) MessagesByCourse(ctx context.Context, courseID uuid.UUID) ([]models.ChatMessage, error) {
	query := `
        SELECT id, course_id, user_id, body, author_name, avatar_url, from_tutor, created_at
          FROM chat_messages
         WHERE course_id = $1
         ORDER BY created_at
    `
	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat messages: %w", err)
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.CourseID, &m.UserID, &m.Body, &m.AuthorName, &m.AvatarURL, &m.FromTutor, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}
