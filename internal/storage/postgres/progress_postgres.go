package postgres

import (
	"EduStream/internal/models"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProgressPostgres struct {
	db *pgxpool.Pool
}

func NewProgressPostgres(db *pgxpool.Pool) *ProgressPostgres {
	return &ProgressPostgres{db: db}
}

// RecordWatch inserts the progress record for the (user, course, video)
// triple. ON CONFLICT DO NOTHING makes repeat watches and racing first
// watches indistinguishable from a single one.
func (r *ProgressPostgres) RecordWatch(ctx context.Context, userID, courseID, videoID uuid.UUID) error {
	now := time.Now().UTC()
	query := `
        INSERT INTO progress_records (user_id, course_id, video_id, created_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (user_id, course_id, video_id) DO NOTHING
    `
	_, err := r.db.Exec(ctx, query, userID, courseID, videoID, now)
	if err != nil {
		return fmt.Errorf("failed to record progress: %w", err)
	}
	return nil
}

// WatchedVideoIDs returns the ids of videos the user has started, restricted
// to videos that still exist in the course. Progress rows pointing at
// deleted videos do not inflate completion.
func (r *ProgressPostgres) WatchedVideoIDs(ctx context.Context, userID, courseID uuid.UUID) ([]uuid.UUID, error) {
	query := `
        SELECT p.video_id
          FROM progress_records p
         INNER JOIN videos v ON v.id = p.video_id
         WHERE p.user_id = $1 AND p.course_id = $2
    `
	rows, err := r.db.Query(ctx, query, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query watched videos: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *ProgressPostgres) CountWatched(ctx context.Context, userID, courseID uuid.UUID) (int, error) {
	var count int
	query := `
        SELECT COUNT(*)
          FROM progress_records p
         INNER JOIN videos v ON v.id = p.video_id
         WHERE p.user_id = $1 AND p.course_id = $2
    `
	if err := r.db.QueryRow(ctx, query, userID, courseID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count watched videos: %w", err)
	}
	return count, nil
}

func (r *ProgressPostgres) RecordsByUser(ctx context.Context, userID uuid.UUID) ([]models.ProgressRecord, error) {
	query := `
        SELECT user_id, course_id, video_id, created_at
          FROM progress_records
         WHERE user_id = $1
         ORDER BY created_at
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query progress records: %w", err)
	}
	defer rows.Close()

	var records []models.ProgressRecord
	for rows.Next() {
		var p models.ProgressRecord
		if err := rows.Scan(&p.UserID, &p.CourseID, &p.VideoID, &p.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
