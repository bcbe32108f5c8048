package video

import (
	"EduStream/internal/app_errors"
	"EduStream/internal/models"
	"EduStream/pkg/logger"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

const (
	maxVideoSizeBytes     = 2 << 30
	maxThumbnailSizeBytes = 5 << 20
)

type courseRepo interface {
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
}

type videoRepo interface {
	NewVideo(ctx context.Context, video *models.Video) (uuid.UUID, error)
	VideoByID(ctx context.Context, id uuid.UUID) (*models.Video, error)
	VideosByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Video, error)
	DeleteVideo(ctx context.Context, videoID, tutorID uuid.UUID) error
}

type mediaRepo interface {
	UploadVideo(ctx context.Context, courseID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (string, error)
	UploadThumbnail(ctx context.Context, courseID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (string, error)
	GetURL(ctx context.Context, objectKey string) (string, error)
	Delete(ctx context.Context, objectKey string) error
}

type VideoService struct {
	log        logger.Log
	courseRepo courseRepo
	videoRepo  videoRepo
	mediaRepo  mediaRepo
}

func NewVideoService(l logger.Log, c courseRepo, v videoRepo, m mediaRepo) *VideoService {
	return &VideoService{
		log:        l,
		courseRepo: c,
		videoRepo:  v,
		mediaRepo:  m,
	}
}

type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// UploadVideo stores the video file (and optional thumbnail) and registers
// it in the course. File checks run before any byte leaves the process;
// transfers are one-shot, a failed upload starts over from zero.
func (s *VideoService) UploadVideo(ctx context.Context, courseID, tutorID uuid.UUID, name string, file Upload, thumb *Upload) (*models.Video, error) {
	if !strings.HasPrefix(file.ContentType, "video/") {
		return nil, app_errors.ErrNotVideo
	}
	if file.Size <= 0 || file.Size > maxVideoSizeBytes {
		return nil, app_errors.ErrFileSize
	}
	if thumb != nil {
		if !strings.HasPrefix(thumb.ContentType, "image/") {
			return nil, app_errors.ErrNotImage
		}
		if thumb.Size <= 0 || thumb.Size > maxThumbnailSizeBytes {
			return nil, app_errors.ErrFileSize
		}
	}

	course, err := s.courseRepo.CourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.TutorID != tutorID {
		return nil, app_errors.ErrNotCourseTutor
	}

	videoKey, err := s.mediaRepo.UploadVideo(ctx, courseID, file.Filename, file.Reader, file.Size, file.ContentType)
	if err != nil {
		return nil, fmt.Errorf("video upload failed: %w", err)
	}

	var thumbKey string
	if thumb != nil {
		thumbKey, err = s.mediaRepo.UploadThumbnail(ctx, courseID, thumb.Filename, thumb.Reader, thumb.Size, thumb.ContentType)
		if err != nil {
			if delErr := s.mediaRepo.Delete(ctx, videoKey); delErr != nil {
				s.log.ErrorErr("failed to clean up video object", delErr, "object_key", videoKey)
			}
			return nil, fmt.Errorf("thumbnail upload failed: %w", err)
		}
	}

	video := &models.Video{
		CourseID:           courseID,
		Name:               name,
		VideoObjectKey:     videoKey,
		ThumbnailObjectKey: thumbKey,
	}
	if _, err := s.videoRepo.NewVideo(ctx, video); err != nil {
		if delErr := s.mediaRepo.Delete(ctx, videoKey); delErr != nil {
			s.log.ErrorErr("failed to clean up video object", delErr, "object_key", videoKey)
		}
		return nil, err
	}

	return video, nil
}

func (s *VideoService) VideosByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Video, error) {
	if _, err := s.courseRepo.CourseByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.videoRepo.VideosByCourse(ctx, courseID)
}

// DeleteVideo removes the row (ownership enforced by the query predicate)
// and then the stored objects. Orphaned objects after a partial failure are
// logged for the operator rather than failing the call: the row is gone,
// the content is unreachable.
func (s *VideoService) DeleteVideo(ctx context.Context, videoID, tutorID uuid.UUID) error {
	video, err := s.videoRepo.VideoByID(ctx, videoID)
	if err != nil {
		return err
	}

	if err := s.videoRepo.DeleteVideo(ctx, videoID, tutorID); err != nil {
		return err
	}

	if err := s.mediaRepo.Delete(ctx, video.VideoObjectKey); err != nil {
		s.log.ErrorErr("failed to delete video object", err, "object_key", video.VideoObjectKey)
	}
	if video.ThumbnailObjectKey != "" {
		if err := s.mediaRepo.Delete(ctx, video.ThumbnailObjectKey); err != nil {
			s.log.ErrorErr("failed to delete video thumbnail", err, "object_key", video.ThumbnailObjectKey)
		}
	}
	return nil
}
