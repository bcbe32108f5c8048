package models

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	ID         uuid.UUID `json:"id"`
	CourseID   uuid.UUID `json:"course_id"`
	UserID     uuid.UUID `json:"user_id"`
	Body       string    `json:"body"`
	AuthorName string    `json:"author_name"`
	AvatarURL  string    `json:"avatar_url"`
	FromTutor  bool      `json:"from_tutor"`
	CreatedAt  time.Time `json:"created_at"`
}
