package models

import (
	"time"

	"github.com/google/uuid"
)

type Enrollment struct {
	CourseID  uuid.UUID `json:"course_id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// EnrollmentEntry is one row of a tutor's enrollment listing: the enrollment
// joined with the enrolled user's profile.
type EnrollmentEntry struct {
	Enrollment
	Username string `json:"username"`
	Email    string `json:"email"`
}

// CourseEnrollments groups a course's enrollment entries for the tutor view.
type CourseEnrollments struct {
	Course  Course            `json:"course"`
	Entries []EnrollmentEntry `json:"entries"`
}
