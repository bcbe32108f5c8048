package enrollment

import (
	"EduStream/internal/app_errors"
	"EduStream/internal/models"
	"EduStream/internal/storage/postgres"
	"EduStream/pkg/logger"
	"context"

	"github.com/google/uuid"
)

type courseRepo interface {
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
}

type enrollmentRepo interface {
	Enroll(ctx context.Context, courseID, userID uuid.UUID) error
	Unenroll(ctx context.Context, courseID, userID uuid.UUID) error
	EnrolledCourses(ctx context.Context, userID uuid.UUID) ([]models.Course, error)
	EnrollmentsByTutor(ctx context.Context, tutorID uuid.UUID) ([]postgres.TutorEnrollmentRow, error)
}

type videoRepo interface {
	VideosByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Video, error)
}

type EnrollmentService struct {
	log            logger.Log
	courseRepo     courseRepo
	enrollmentRepo enrollmentRepo
	videoRepo      videoRepo
}

func NewEnrollmentService(l logger.Log, c courseRepo, e enrollmentRepo, v videoRepo) *EnrollmentService {
	return &EnrollmentService{
		log:            l,
		courseRepo:     c,
		enrollmentRepo: e,
		videoRepo:      v,
	}
}

// Enroll grants the user access to the course. The store's unique constraint
// on the (user, course) pair is what makes this idempotent: a repeat or
// racing call surfaces as ErrAlreadyEnrolled with exactly one row persisted.
func (s *EnrollmentService) Enroll(ctx context.Context, courseID, userID uuid.UUID) error {
	if _, err := s.courseRepo.CourseByID(ctx, courseID); err != nil {
		return err
	}
	return s.enrollmentRepo.Enroll(ctx, courseID, userID)
}

// Unenroll removes a student from a course the caller tutors. Deleting an
// enrollment that does not exist succeeds: the desired end state already
// holds.
func (s *EnrollmentService) Unenroll(ctx context.Context, tutorID, courseID, userID uuid.UUID) error {
	course, err := s.courseRepo.CourseByID(ctx, courseID)
	if err != nil {
		return err
	}
	if course.TutorID != tutorID {
		return app_errors.ErrNotCourseTutor
	}
	return s.enrollmentRepo.Unenroll(ctx, courseID, userID)
}

// EnrollmentsForTutor lists every enrollment in the tutor's courses, grouped
// by course. Rows whose user side cannot be resolved are dropped from the
// result and logged: a dangling reference is a data-integrity problem for
// the operator, not something to render.
func (s *EnrollmentService) EnrollmentsForTutor(ctx context.Context, tutorID uuid.UUID) ([]models.CourseEnrollments, error) {
	rows, err := s.enrollmentRepo.EnrollmentsByTutor(ctx, tutorID)
	if err != nil {
		return nil, err
	}

	byCourse := make(map[uuid.UUID]int)
	var grouped []models.CourseEnrollments
	for _, row := range rows {
		if row.Username == nil || row.Email == nil {
			s.log.Warn("enrollment references missing user",
				"course_id", row.Enrollment.CourseID,
				"user_id", row.Enrollment.UserID,
			)
			continue
		}
		idx, ok := byCourse[row.Course.ID]
		if !ok {
			grouped = append(grouped, models.CourseEnrollments{Course: row.Course})
			idx = len(grouped) - 1
			byCourse[row.Course.ID] = idx
		}
		grouped[idx].Entries = append(grouped[idx].Entries, models.EnrollmentEntry{
			Enrollment: row.Enrollment,
			Username:   *row.Username,
			Email:      *row.Email,
		})
	}
	return grouped, nil
}

// EnrolledCourses returns the learner's courses with their videos ordered by
// upload time.
func (s *EnrollmentService) EnrolledCourses(ctx context.Context, userID uuid.UUID) ([]models.CourseWithVideos, error) {
	courses, err := s.enrollmentRepo.EnrolledCourses(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]models.CourseWithVideos, 0, len(courses))
	for _, c := range courses {
		videos, err := s.videoRepo.VideosByCourse(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, models.CourseWithVideos{Course: c, Videos: videos})
	}
	return result, nil
}
