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

type VideoPostgres struct {
	db *pgxpool.Pool
}

func NewVideoPostgres(db *pgxpool.Pool) *VideoPostgres {
	return &VideoPostgres{db: db}
}

func (r *VideoPostgres) NewVideo(ctx context.Context, video *models.Video) (uuid.UUID, error) {
	if video.ID == uuid.Nil {
		video.ID = uuid.New()
	}
	video.CreatedAt = time.Now().UTC()

	query := `
        INSERT INTO videos (id, course_id, name, video_object_key, thumbnail_object_key, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `
	var returnedID uuid.UUID
	err := r.db.QueryRow(ctx, query,
		video.ID, video.CourseID, video.Name,
		video.VideoObjectKey, video.ThumbnailObjectKey, video.CreatedAt,
	).Scan(&returnedID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert video: %w", err)
	}
	return returnedID, nil
}

func (r *VideoPostgres) VideoByID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	query := `
        SELECT id, course_id, name, video_object_key, thumbnail_object_key, created_at
          FROM videos
         WHERE id = $1
    `
	video := &models.Video{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&video.ID, &video.CourseID, &video.Name,
		&video.VideoObjectKey, &video.ThumbnailObjectKey, &video.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrVideoNotFound
		}
		return nil, err
	}
	return video, nil
}

func (r *VideoPostgres) VideosByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Video, error) {
	query := `
        SELECT id, course_id, name, video_object_key, thumbnail_object_key, created_at
          FROM videos
         WHERE course_id = $1
         ORDER BY created_at
    `
	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}
	defer rows.Close()

	var videos []models.Video
	for rows.Next() {
		var v models.Video
		if err := rows.Scan(&v.ID, &v.CourseID, &v.Name, &v.VideoObjectKey, &v.ThumbnailObjectKey, &v.CreatedAt); err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return videos, nil
}

func (r *VideoPostgres) CountByCourse(ctx context.Context, courseID uuid.UUID) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM videos WHERE course_id = $1`, courseID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count videos: %w", err)
	}
	return count, nil
}

// DeleteVideo removes the video and its progress rows. The join against
// courses.tutor_id is the ownership boundary: a tutor cannot delete another
// tutor's content no matter what the UI shows.
func (r *VideoPostgres) DeleteVideo(ctx context.Context, videoID, tutorID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err = tx.Exec(ctx, `DELETE FROM progress_records WHERE video_id = $1`, videoID); err != nil {
		return err
	}

	query := `
        DELETE FROM videos v
         USING courses c
         WHERE v.id = $1 AND c.id = v.course_id AND c.tutor_id = $2
    `
	cmdTag, err := tx.Exec(ctx, query, videoID, tutorID)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrNotCourseTutor
	}

	return tx.Commit(ctx)
}
