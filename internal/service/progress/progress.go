package progress

import (
	"EduStream/internal/app_errors"
	"EduStream/internal/models"
	"EduStream/pkg/logger"
	"context"
	"math"
	"time"

	"github.com/google/uuid"
)

// recordTimeout bounds the background progress write after the originating
// request has already been answered.
const recordTimeout = 10 * time.Second

type enrollmentRepo interface {
	IsEnrolled(ctx context.Context, courseID, userID uuid.UUID) (bool, error)
}

type videoRepo interface {
	VideoByID(ctx context.Context, id uuid.UUID) (*models.Video, error)
	CountByCourse(ctx context.Context, courseID uuid.UUID) (int, error)
}

type progressRepo interface {
	RecordWatch(ctx context.Context, userID, courseID, videoID uuid.UUID) error
	CountWatched(ctx context.Context, userID, courseID uuid.UUID) (int, error)
	WatchedVideoIDs(ctx context.Context, userID, courseID uuid.UUID) ([]uuid.UUID, error)
}

type mediaRepo interface {
	GetURL(ctx context.Context, objectKey string) (string, error)
}

type ProgressService struct {
	log            logger.Log
	enrollmentRepo enrollmentRepo
	videoRepo      videoRepo
	progressRepo   progressRepo
	mediaRepo      mediaRepo
}

func NewProgressService(l logger.Log, e enrollmentRepo, v videoRepo, p progressRepo, m mediaRepo) *ProgressService {
	return &ProgressService{
		log:            l,
		enrollmentRepo: e,
		videoRepo:      v,
		progressRepo:   p,
		mediaRepo:      m,
	}
}

// Watch resolves the playback URL for an enrolled learner and records the
// progress mark in the background. Tracking is best-effort: the URL is
// returned as soon as it is known, and a failed write never blocks playback.
// The returned channel carries the single recording outcome for callers that
// want it; dropping the channel is fine.
func (s *ProgressService) Watch(ctx context.Context, userID, videoID uuid.UUID) (string, <-chan error, error) {
	video, err := s.videoRepo.VideoByID(ctx, videoID)
	if err != nil {
		return "", nil, err
	}

	enrolled, err := s.enrollmentRepo.IsEnrolled(ctx, video.CourseID, userID)
	if err != nil {
		return "", nil, err
	}
	if !enrolled {
		return "", nil, app_errors.ErrNotEnrolled
	}

	url, err := s.mediaRepo.GetURL(ctx, video.VideoObjectKey)
	if err != nil {
		return "", nil, err
	}

	recorded := make(chan error, 1)
	go func() {
		defer close(recorded)
		recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
		defer cancel()

		err := s.progressRepo.RecordWatch(recordCtx, userID, video.CourseID, video.ID)
		if err != nil {
			s.log.ErrorErr("failed to record watch progress", err,
				"user_id", userID,
				"video_id", video.ID,
			)
		}
		recorded <- err
	}()

	return url, recorded, nil
}

// CompletionPercent derives how much of the course the user has watched,
// recomputed on every read. An empty course is 0 percent, not a division
// by zero.
func (s *ProgressService) CompletionPercent(ctx context.Context, userID, courseID uuid.UUID) (int, error) {
	total, err := s.videoRepo.CountByCourse(ctx, courseID)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}

	watched, err := s.progressRepo.CountWatched(ctx, userID, courseID)
	if err != nil {
		return 0, err
	}

	return int(math.Round(100 * float64(watched) / float64(total))), nil
}

// CourseProgress is the detailed variant of CompletionPercent for the
// enrolled-courses view: per-video watched state plus the derived percent.
func (s *ProgressService) CourseProgress(ctx context.Context, userID, courseID uuid.UUID) (models.CourseProgress, error) {
	total, err := s.videoRepo.CountByCourse(ctx, courseID)
	if err != nil {
		return models.CourseProgress{}, err
	}

	watchedIDs, err := s.progressRepo.WatchedVideoIDs(ctx, userID, courseID)
	if err != nil {
		return models.CourseProgress{}, err
	}

	percent := 0
	if total > 0 {
		percent = int(math.Round(100 * float64(len(watchedIDs)) / float64(total)))
	}

	return models.CourseProgress{
		CourseID:        courseID,
		TotalVideos:     total,
		WatchedVideos:   len(watchedIDs),
		PercentDone:     percent,
		WatchedVideoIDs: watchedIDs,
	}, nil
}
