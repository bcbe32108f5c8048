package postgres

import (
	"EduStream/internal/app_errors"
	"EduStream/internal/models"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EnrollmentPostgres struct {
	db *pgxpool.Pool
}

func NewEnrollmentPostgres(db *pgxpool.Pool) *EnrollmentPostgres {
	return &EnrollmentPostgres{db: db}
}

// Enroll inserts the enrollment row in a single statement. Uniqueness of the
// (user, course) pair is owned by the enrollments_user_course_key constraint,
// so two racing calls cannot both succeed; the loser surfaces as
// ErrAlreadyEnrolled.
func (r *EnrollmentPostgres) Enroll(ctx context.Context, courseID, userID uuid.UUID) error {
	now := time.Now().UTC()
	query := `
        INSERT INTO enrollments (course_id, user_id, created_at)
        VALUES ($1, $2, $3)
    `
	_, err := r.db.Exec(ctx, query, courseID, userID, now)
	if err != nil {
		if isUniqueViolation(err) {
			return app_errors.ErrAlreadyEnrolled
		}
		return fmt.Errorf("failed to enroll: %w", err)
	}
	return nil
}

// Unenroll deletes the enrollment row. A missing row is success: the end
// state is the same either way.
func (r *EnrollmentPostgres) Unenroll(ctx context.Context, courseID, userID uuid.UUID) error {
	query := `DELETE FROM enrollments WHERE course_id = $1 AND user_id = $2`
	_, err := r.db.Exec(ctx, query, courseID, userID)
	if err != nil {
		return fmt.Errorf("failed to unenroll: %w", err)
	}
	return nil
}

func (r *EnrollmentPostgres) IsEnrolled(ctx context.Context, courseID, userID uuid.UUID) (bool, error) {
	var enrolled bool
	query := `SELECT EXISTS(SELECT 1 FROM enrollments WHERE course_id = $1 AND user_id = $2)`
	if err := r.db.QueryRow(ctx, query, courseID, userID).Scan(&enrolled); err != nil {
		return false, fmt.Errorf("failed to check enrollment: %w", err)
	}
	return enrolled, nil
}

func (r *EnrollmentPostgres) EnrolledCourses(ctx context.Context, userID uuid.UUID) ([]models.Course, error) {
	query := `
        SELECT c.id, c.title, c.description, c.thumbnail_object_key, c.tutor_id,
               c.outcome_1, c.outcome_2, c.outcome_3, c.outcome_4, c.outcome_5,
               c.created_at, c.updated_at
          FROM courses c
         INNER JOIN enrollments e ON e.course_id = c.id
         WHERE e.user_id = $1
         ORDER BY c.created_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrolled courses: %w", err)
	}
	defer rows.Close()

	return scanCourses(rows)
}

// TutorEnrollmentRow carries the nullable user side of the tutor listing
// join so the service can drop and report dangling references.
type TutorEnrollmentRow struct {
	Enrollment models.Enrollment
	Course     models.Course
	Username   *string
	Email      *string
}

// EnrollmentsByTutor returns every enrollment in the tutor's courses joined
// with the enrolled user's profile. The user side is a LEFT JOIN: a row whose
// user can no longer be resolved comes back with nil profile fields instead
// of disappearing inside the store.
func (r *EnrollmentPostgres) EnrollmentsByTutor(ctx context.Context, tutorID uuid.UUID) ([]TutorEnrollmentRow, error) {
	query := `
        SELECT e.course_id, e.user_id, e.created_at,
               c.id, c.title, c.description, c.thumbnail_object_key, c.tutor_id,
               c.outcome_1, c.outcome_2, c.outcome_3, c.outcome_4, c.outcome_5,
               c.created_at, c.updated_at,
               u.username, u.email
          FROM enrollments e
         INNER JOIN courses c ON c.id = e.course_id AND c.tutor_id = $1
          LEFT JOIN users u ON u.id = e.user_id
         ORDER BY e.created_at DESC
    `
	rows, err := r.db.Query(ctx, query, tutorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tutor enrollments: %w", err)
	}
	defer rows.Close()

	var result []TutorEnrollmentRow
	for rows.Next() {
		var row TutorEnrollmentRow
		cols := make([]*string, models.MaxOutcomes)
		if err := rows.Scan(
			&row.Enrollment.CourseID, &row.Enrollment.UserID, &row.Enrollment.CreatedAt,
			&row.Course.ID, &row.Course.Title, &row.Course.Description,
			&row.Course.ThumbnailObjectKey, &row.Course.TutorID,
			&cols[0], &cols[1], &cols[2], &cols[3], &cols[4],
			&row.Course.CreatedAt, &row.Course.UpdatedAt,
			&row.Username, &row.Email,
		); err != nil {
			return nil, err
		}
		row.Course.Outcomes = outcomesFromColumns(cols)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
