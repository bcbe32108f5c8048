package models

import (
	"time"

	"github.com/google/uuid"
)

// ProgressRecord marks that a user started watching a video of a course.
// At most one record exists per (user, course, video) triple.
type ProgressRecord struct {
	UserID    uuid.UUID `json:"user_id"`
	CourseID  uuid.UUID `json:"course_id"`
	VideoID   uuid.UUID `json:"video_id"`
	CreatedAt time.Time `json:"created_at"`
}

type CourseProgress struct {
	CourseID        uuid.UUID   `json:"course_id"`
	TotalVideos     int         `json:"total_videos"`
	WatchedVideos   int         `json:"watched_videos"`
	PercentDone     int         `json:"percent_done"`
	WatchedVideoIDs []uuid.UUID `json:"watched_video_ids"`
}
