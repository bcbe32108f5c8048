package enrollment

import (
	"EduStream/internal/app_errors"
	"EduStream/internal/models"
	"EduStream/internal/storage/postgres"
	"EduStream/pkg/logger"
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCourseRepo struct {
	courses map[uuid.UUID]*models.Course
}

func (f *fakeCourseRepo) CourseByID(_ context.Context, id uuid.UUID) (*models.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, app_errors.ErrCourseNotFound
	}
	return c, nil
}

type enrollmentKey struct {
	courseID uuid.UUID
	userID   uuid.UUID
}

// fakeEnrollmentRepo behaves like the table with its unique constraint:
// the second insert of the same pair fails, deletes are idempotent.
type fakeEnrollmentRepo struct {
	mu        sync.Mutex
	rows      map[enrollmentKey]struct{}
	tutorRows []postgres.TutorEnrollmentRow
}

func newFakeEnrollmentRepo() *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{rows: make(map[enrollmentKey]struct{})}
}

func (f *fakeEnrollmentRepo) Enroll(_ context.Context, courseID, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := enrollmentKey{courseID, userID}
	if _, exists := f.rows[key]; exists {
		return app_errors.ErrAlreadyEnrolled
	}
	f.rows[key] = struct{}{}
	return nil
}

func (f *fakeEnrollmentRepo) Unenroll(_ context.Context, courseID, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, enrollmentKey{courseID, userID})
	return nil
}

func (f *fakeEnrollmentRepo) EnrolledCourses(_ context.Context, _ uuid.UUID) ([]models.Course, error) {
	return nil, nil
}

func (f *fakeEnrollmentRepo) EnrollmentsByTutor(_ context.Context, _ uuid.UUID) ([]postgres.TutorEnrollmentRow, error) {
	return f.tutorRows, nil
}

type fakeVideoRepo struct {
	videos map[uuid.UUID][]models.Video
}

func (f *fakeVideoRepo) VideosByCourse(_ context.Context, courseID uuid.UUID) ([]models.Video, error) {
	return f.videos[courseID], nil
}

func newService(courses *fakeCourseRepo, enrollments *fakeEnrollmentRepo) *EnrollmentService {
	return NewEnrollmentService(logger.NewDiscard(), courses, enrollments, &fakeVideoRepo{})
}

func TestEnroll(t *testing.T) {
	courseID := uuid.New()
	userID := uuid.New()
	courses := &fakeCourseRepo{courses: map[uuid.UUID]*models.Course{
		courseID: {ID: courseID, TutorID: uuid.New()},
	}}
	enrollments := newFakeEnrollmentRepo()
	s := newService(courses, enrollments)

	require.NoError(t, s.Enroll(context.Background(), courseID, userID))
	assert.Len(t, enrollments.rows, 1)

	err := s.Enroll(context.Background(), courseID, userID)
	assert.ErrorIs(t, err, app_errors.ErrAlreadyEnrolled)
	assert.Len(t, enrollments.rows, 1)
}

func TestEnrollUnknownCourse(t *testing.T) {
	courses := &fakeCourseRepo{courses: map[uuid.UUID]*models.Course{}}
	s := newService(courses, newFakeEnrollmentRepo())

	err := s.Enroll(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, app_errors.ErrCourseNotFound)
}

func TestEnrollConcurrent(t *testing.T) {
	courseID := uuid.New()
	userID := uuid.New()
	courses := &fakeCourseRepo{courses: map[uuid.UUID]*models.Course{
		courseID: {ID: courseID, TutorID: uuid.New()},
	}}
	enrollments := newFakeEnrollmentRepo()
	s := newService(courses, enrollments)

	const attempts = 16
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.Enroll(context.Background(), courseID, userID)
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded int
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, app_errors.ErrAlreadyEnrolled)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Len(t, enrollments.rows, 1)
}

func TestUnenroll(t *testing.T) {
	courseID := uuid.New()
	userID := uuid.New()
	tutorID := uuid.New()
	courses := &fakeCourseRepo{courses: map[uuid.UUID]*models.Course{
		courseID: {ID: courseID, TutorID: tutorID},
	}}
	enrollments := newFakeEnrollmentRepo()
	s := newService(courses, enrollments)

	require.NoError(t, s.Enroll(context.Background(), courseID, userID))
	require.NoError(t, s.Unenroll(context.Background(), tutorID, courseID, userID))
	assert.Empty(t, enrollments.rows)

	// removing an already removed student still succeeds
	assert.NoError(t, s.Unenroll(context.Background(), tutorID, courseID, userID))
}

func TestUnenrollNotTutor(t *testing.T) {
	courseID := uuid.New()
	userID := uuid.New()
	courses := &fakeCourseRepo{courses: map[uuid.UUID]*models.Course{
		courseID: {ID: courseID, TutorID: uuid.New()},
	}}
	enrollments := newFakeEnrollmentRepo()
	s := newService(courses, enrollments)

	require.NoError(t, s.Enroll(context.Background(), courseID, userID))
	err := s.Unenroll(context.Background(), uuid.New(), courseID, userID)
	assert.ErrorIs(t, err, app_errors.ErrNotCourseTutor)
	assert.Len(t, enrollments.rows, 1)
}

func TestEnrollmentsForTutor(t *testing.T) {
	tutorID := uuid.New()
	course := models.Course{ID: uuid.New(), Title: "Go Basics", TutorID: tutorID}

	alice := "alice"
	aliceMail := "alice@example.com"
	bob := "bob"
	bobMail := "bob@example.com"

	enrollments := newFakeEnrollmentRepo()
	enrollments.tutorRows = []postgres.TutorEnrollmentRow{
		{
			Enrollment: models.Enrollment{CourseID: course.ID, UserID: uuid.New()},
			Course:     course,
			Username:   &alice,
			Email:      &aliceMail,
		},
		{
			// user row was deleted after enrolling; must not surface
			Enrollment: models.Enrollment{CourseID: course.ID, UserID: uuid.New()},
			Course:     course,
		},
		{
			Enrollment: models.Enrollment{CourseID: course.ID, UserID: uuid.New()},
			Course:     course,
			Username:   &bob,
			Email:      &bobMail,
		},
	}
	s := newService(&fakeCourseRepo{}, enrollments)

	grouped, err := s.EnrollmentsForTutor(context.Background(), tutorID)
	require.NoError(t, err)
	require.Len(t, grouped, 1)
	assert.Equal(t, course.ID, grouped[0].Course.ID)
	require.Len(t, grouped[0].Entries, 2)
	assert.Equal(t, "alice", grouped[0].Entries[0].Username)
	assert.Equal(t, "bob", grouped[0].Entries[1].Username)
}
