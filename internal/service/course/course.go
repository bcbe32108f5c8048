package course

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

const maxThumbnailSizeBytes = 5 << 20

type userRepo interface {
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type courseRepo interface {
	NewCourse(ctx context.Context, course *models.Course) (uuid.UUID, error)
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	ListCourses(ctx context.Context, limit, offset int) ([]models.Course, error)
	ListCoursesByTutor(ctx context.Context, tutorID uuid.UUID) ([]models.Course, error)
	CountCourses(ctx context.Context) (int, error)
	UpdateCourse(ctx context.Context, course *models.Course, tutorID uuid.UUID) error
	UpdateCourseThumbnail(ctx context.Context, courseID, tutorID uuid.UUID, objectKey string) error
	DeleteCourse(ctx context.Context, courseID, tutorID uuid.UUID) error
}

type searchRepo interface {
	Index(ctx context.Context, course models.Course) error
	Update(ctx context.Context, course models.Course) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, query string, size int) ([]uuid.UUID, error)
}

type mediaRepo interface {
	UploadThumbnail(ctx context.Context, courseID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (string, error)
	GetURL(ctx context.Context, objectKey string) (string, error)
	Delete(ctx context.Context, objectKey string) error
}

type CourseService struct {
	log        logger.Log
	courseRepo courseRepo
	searchRepo searchRepo
	mediaRepo  mediaRepo
	userRepo   userRepo
}

func NewCourseService(log logger.Log, c courseRepo, s searchRepo, m mediaRepo, u userRepo) *CourseService {
	return &CourseService{
		log:        log,
		courseRepo: c,
		searchRepo: s,
		mediaRepo:  m,
		userRepo:   u,
	}
}

// validateOutcomes enforces the outcome contract: the first three learning
// outcomes are mandatory, up to five are kept.
func validateOutcomes(outcomes []string) error {
	if len(outcomes) < models.RequiredOutcomes {
		return app_errors.ErrMissingOutcome
	}
	for i := 0; i < models.RequiredOutcomes; i++ {
		if strings.TrimSpace(outcomes[i]) == "" {
			return app_errors.ErrMissingOutcome
		}
	}
	return nil
}

func (s *CourseService) CreateCourse(ctx context.Context, course models.Course) (uuid.UUID, error) {
	if err := validateOutcomes(course.Outcomes); err != nil {
		return uuid.Nil, err
	}
	if len(course.Outcomes) > models.MaxOutcomes {
		course.Outcomes = course.Outcomes[:models.MaxOutcomes]
	}

	id, err := s.courseRepo.NewCourse(ctx, &course)
	if err != nil {
		return uuid.Nil, err
	}

	if err := s.searchRepo.Index(ctx, course); err != nil {
		s.log.ErrorErr("failed to index course", err, "course_id", id)
	}
	return id, nil
}

func (s *CourseService) UpdateCourse(ctx context.Context, course models.Course, tutorID uuid.UUID) error {
	if err := validateOutcomes(course.Outcomes); err != nil {
		return err
	}
	if _, err := s.courseRepo.CourseByID(ctx, course.ID); err != nil {
		return err
	}
	if err := s.courseRepo.UpdateCourse(ctx, &course, tutorID); err != nil {
		return err
	}

	if err := s.searchRepo.Update(ctx, course); err != nil {
		s.log.ErrorErr("failed to update course index", err, "course_id", course.ID)
	}
	return nil
}

func (s *CourseService) DeleteCourse(ctx context.Context, courseID, tutorID uuid.UUID) error {
	course, err := s.courseRepo.CourseByID(ctx, courseID)
	if err != nil {
		return err
	}
	if err := s.courseRepo.DeleteCourse(ctx, courseID, tutorID); err != nil {
		return err
	}

	if course.ThumbnailObjectKey != "" {
		if err := s.mediaRepo.Delete(ctx, course.ThumbnailObjectKey); err != nil {
			s.log.ErrorErr("failed to delete course thumbnail", err, "course_id", courseID)
		}
	}
	if err := s.searchRepo.Delete(ctx, courseID); err != nil {
		s.log.ErrorErr("failed to delete course from index", err, "course_id", courseID)
	}
	return nil
}

func (s *CourseService) CourseByID(ctx context.Context, id uuid.UUID) (*models.CoursePreview, error) {
	course, err := s.courseRepo.CourseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	preview := s.preview(ctx, *course)
	return &preview, nil
}

func (s *CourseService) CoursesPreview(ctx context.Context, count, offset int) ([]models.CoursePreview, int, error) {
	courses, err := s.courseRepo.ListCourses(ctx, count, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.courseRepo.CountCourses(ctx)
	if err != nil {
		return nil, 0, err
	}

	previews := make([]models.CoursePreview, 0, len(courses))
	for _, c := range courses {
		previews = append(previews, s.preview(ctx, c))
	}
	return previews, total, nil
}

func (s *CourseService) SearchCoursesPreview(ctx context.Context, query string, count, offset int) ([]models.CoursePreview, error) {
	ids, err := s.searchRepo.Search(ctx, query, count+offset)
	if err != nil {
		return nil, fmt.Errorf("course search failed: %w", err)
	}

	if len(ids) > offset {
		ids = ids[offset:]
	} else {
		ids = nil
	}
	if len(ids) > count {
		ids = ids[:count]
	}

	previews := make([]models.CoursePreview, 0, len(ids))
	for _, id := range ids {
		course, err := s.courseRepo.CourseByID(ctx, id)
		if err != nil {
			s.log.ErrorErr("search preview: failed to load course by id", err, "course_id", id)
			continue
		}
		previews = append(previews, s.preview(ctx, *course))
	}
	return previews, nil
}

func (s *CourseService) CoursesByTutor(ctx context.Context, tutorID uuid.UUID) ([]models.Course, error) {
	return s.courseRepo.ListCoursesByTutor(ctx, tutorID)
}

// UploadThumbnail validates the file before any network round-trip, stores
// the object and points the course at the new key.
func (s *CourseService) UploadThumbnail(
	ctx context.Context,
	courseID, tutorID uuid.UUID,
	filename string,
	reader io.Reader,
	size int64,
	contentType string,
) (string, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", app_errors.ErrNotImage
	}
	if size <= 0 || size > maxThumbnailSizeBytes {
		return "", app_errors.ErrFileSize
	}

	course, err := s.courseRepo.CourseByID(ctx, courseID)
	if err != nil {
		return "", err
	}
	if course.TutorID != tutorID {
		return "", app_errors.ErrNotCourseTutor
	}

	objectKey, err := s.mediaRepo.UploadThumbnail(ctx, courseID, filename, reader, size, contentType)
	if err != nil {
		return "", fmt.Errorf("thumbnail upload failed: %w", err)
	}

	if err := s.courseRepo.UpdateCourseThumbnail(ctx, courseID, tutorID, objectKey); err != nil {
		return "", err
	}

	if course.ThumbnailObjectKey != "" {
		if err := s.mediaRepo.Delete(ctx, course.ThumbnailObjectKey); err != nil {
			s.log.ErrorErr("failed to delete old thumbnail", err, "course_id", courseID)
		}
	}
	return objectKey, nil
}

func (s *CourseService) preview(ctx context.Context, c models.Course) models.CoursePreview {
	var thumbnailURL string
	if c.ThumbnailObjectKey != "" {
		u, err := s.mediaRepo.GetURL(ctx, c.ThumbnailObjectKey)
		if err != nil {
			s.log.ErrorErr("failed to get thumbnail URL", err, "course_id", c.ID)
		} else {
			thumbnailURL = u
		}
	}

	var tutorName, tutorEmail string
	tutor, err := s.userRepo.UserByID(ctx, c.TutorID)
	if err != nil {
		s.log.ErrorErr("failed to get course tutor", err, "course_id", c.ID)
	} else {
		tutorName = tutor.Username
		tutorEmail = tutor.Email
	}

	return models.CoursePreview{
		ID:           c.ID,
		Title:        c.Title,
		Description:  c.Description,
		TutorName:    tutorName,
		TutorEmail:   tutorEmail,
		ThumbnailURL: thumbnailURL,
		Outcomes:     c.Outcomes,
		CreatedAt:    c.CreatedAt,
	}
}
