package postgres

import (
	"EduStream/internal/app_errors"
	"EduStream/internal/models"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CoursePostgres struct {
	db *pgxpool.Pool
}

func NewCoursePostgres(db *pgxpool.Pool) *CoursePostgres {
	return &CoursePostgres{db: db}
}

// outcomesToColumns pads the outcome slice to the five outcome columns;
// the optional tail is stored as NULL.
func outcomesToColumns(outcomes []string) []*string {
	cols := make([]*string, models.MaxOutcomes)
	for i := range outcomes {
		if i >= models.MaxOutcomes {
			break
		}
		if outcomes[i] == "" {
			continue
		}
		v := outcomes[i]
		cols[i] = &v
	}
	return cols
}

func outcomesFromColumns(cols []*string) []string {
	var outcomes []string
	for _, c := range cols {
		if c != nil && *c != "" {
			outcomes = append(outcomes, *c)
		}
	}
	return outcomes
}

func (r *CoursePostgres) NewCourse(ctx context.Context, course *models.Course) (uuid.UUID, error) {
	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now

	o := outcomesToColumns(course.Outcomes)
	query := `
		INSERT INTO courses (
			id, title, description, thumbnail_object_key, tutor_id,
			outcome_1, outcome_2, outcome_3, outcome_4, outcome_5,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	var returnedID uuid.UUID
	err := r.db.QueryRow(
		ctx,
		query,
		course.ID,
		course.Title,
		course.Description,
		course.ThumbnailObjectKey,
		course.TutorID,
		o[0], o[1], o[2], o[3], o[4],
		course.CreatedAt,
		course.UpdatedAt,
	).Scan(&returnedID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert course: %w", err)
	}
	return returnedID, nil
}

func (r *CoursePostgres) CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	const query = `
        SELECT id, title, description, thumbnail_object_key, tutor_id,
               outcome_1, outcome_2, outcome_3, outcome_4, outcome_5,
               created_at, updated_at
          FROM courses
         WHERE id = $1
    `
	course := &models.Course{}
	cols := make([]*string, models.MaxOutcomes)
	row := r.db.QueryRow(ctx, query, id)
	err := row.Scan(
		&course.ID,
		&course.Title,
		&course.Description,
		&course.ThumbnailObjectKey,
		&course.TutorID,
		&cols[0], &cols[1], &cols[2], &cols[3], &cols[4],
		&course.CreatedAt,
		&course.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrCourseNotFound
		}
		return nil, err
	}
	course.Outcomes = outcomesFromColumns(cols)

	return course, nil
}

func (r *CoursePostgres) ListCourses(ctx context.Context, limit, offset int) ([]models.Course, error) {
	query := `
        SELECT id, title, description, thumbnail_object_key, tutor_id,
               outcome_1, outcome_2, outcome_3, outcome_4, outcome_5,
               created_at, updated_at
          FROM courses
         ORDER BY created_at DESC
         LIMIT $1 OFFSET $2
    `
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	return scanCourses(rows)
}

func (r *CoursePostgres) ListCoursesByTutor(ctx context.Context, tutorID uuid.UUID) ([]models.Course, error) {
	query := `
        SELECT id, title, description, thumbnail_object_key, tutor_id,
               outcome_1, outcome_2, outcome_3, outcome_4, outcome_5,
               created_at, updated_at
          FROM courses
         WHERE tutor_id = $1
         ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, tutorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tutor courses: %w", err)
	}
	defer rows.Close()

	return scanCourses(rows)
}

func (r *CoursePostgres) CountCourses(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM courses`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count courses: %w", err)
	}
	return total, nil
}

// UpdateCourse mutates the course metadata. The tutor_id predicate is the
// ownership boundary: the update touches nothing unless the caller owns
// the row.
func (r *CoursePostgres) UpdateCourse(ctx context.Context, course *models.Course, tutorID uuid.UUID) error {
	o := outcomesToColumns(course.Outcomes)
	query := `
        UPDATE courses
           SET title = $3,
               description = $4,
               outcome_1 = $5, outcome_2 = $6, outcome_3 = $7,
               outcome_4 = $8, outcome_5 = $9,
               updated_at = NOW()
         WHERE id = $1 AND tutor_id = $2
    `
	cmdTag, err := r.db.Exec(ctx, query,
		course.ID, tutorID,
		course.Title, course.Description,
		o[0], o[1], o[2], o[3], o[4],
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrNotCourseTutor
	}
	return nil
}

func (r *CoursePostgres) UpdateCourseThumbnail(ctx context.Context, courseID, tutorID uuid.UUID, objectKey string) error {
	query := `
        UPDATE courses
           SET thumbnail_object_key = $3,
               updated_at = NOW()
         WHERE id = $1 AND tutor_id = $2
    `
	cmdTag, err := r.db.Exec(ctx, query, courseID, tutorID, objectKey)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrNotCourseTutor
	}
	return nil
}

// DeleteCourse removes the course and everything hanging off it. Same
// tutor_id predicate as UpdateCourse.
func (r *CoursePostgres) DeleteCourse(ctx context.Context, courseID, tutorID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var owned bool
	err = tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM courses WHERE id = $1 AND tutor_id = $2)`, courseID, tutorID).Scan(&owned)
	if err != nil {
		return err
	}
	if !owned {
		return app_errors.ErrNotCourseTutor
	}

	for _, q := range []string{
		`DELETE FROM progress_records WHERE course_id = $1`,
		`DELETE FROM enrollments WHERE course_id = $1`,
		`DELETE FROM chat_messages WHERE course_id = $1`,
		`DELETE FROM videos WHERE course_id = $1`,
		`DELETE FROM courses WHERE id = $1`,
	} {
		if _, err = tx.Exec(ctx, q, courseID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func scanCourses(rows pgx.Rows) ([]models.Course, error) {
	var courses []models.Course
	for rows.Next() {
		var c models.Course
		cols := make([]*string, models.MaxOutcomes)
		if err := rows.Scan(
			&c.ID, &c.Title, &c.Description, &c.ThumbnailObjectKey, &c.TutorID,
			&cols[0], &cols[1], &cols[2], &cols[3], &cols[4],
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		c.Outcomes = outcomesFromColumns(cols)
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return courses, nil
}
