package models

import (
	"time"

	"github.com/google/uuid"
)

type Video struct {
	ID                 uuid.UUID `json:"id"`
	CourseID           uuid.UUID `json:"course_id"`
	Name               string    `json:"name"`
	VideoObjectKey     string    `json:"video_object_key"`
	ThumbnailObjectKey string    `json:"thumbnail_object_key"`
	CreatedAt          time.Time `json:"created_at"`
}

type CourseWithVideos struct {
	Course Course  `json:"course"`
	Videos []Video `json:"videos"`
}
