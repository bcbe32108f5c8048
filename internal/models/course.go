package models

import (
	"time"

	"github.com/google/uuid"
)

// RequiredOutcomes is how many learning outcomes a course must declare;
// the remaining slots up to MaxOutcomes are optional.
const (
	RequiredOutcomes = 3
	MaxOutcomes      = 5
)

type Course struct {
	ID                 uuid.UUID `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	ThumbnailObjectKey string    `json:"thumbnail_object_key"`
	TutorID            uuid.UUID `json:"tutor_id"`
	Outcomes           []string  `json:"outcomes"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type CoursePreview struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	TutorName    string    `json:"tutor_name"`
	TutorEmail   string    `json:"tutor_email"`
	ThumbnailURL string    `json:"thumbnail_url"`
	Outcomes     []string  `json:"outcomes"`
	CreatedAt    time.Time `json:"created_at"`
}
