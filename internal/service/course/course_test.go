package course

import (
	"EduStream/internal/app_errors"
	"EduStream/internal/models"
	"EduStream/pkg/logger"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCourseRepo struct {
	courses map[uuid.UUID]*models.Course
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: make(map[uuid.UUID]*models.Course)}
}

func (f *fakeCourseRepo) NewCourse(_ context.Context, course *models.Course) (uuid.UUID, error) {
	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}
	stored := *course
	f.courses[course.ID] = &stored
	return course.ID, nil
}

func (f *fakeCourseRepo) CourseByID(_ context.Context, id uuid.UUID) (*models.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, app_errors.ErrCourseNotFound
	}
	return c, nil
}

func (f *fakeCourseRepo) ListCourses(_ context.Context, _, _ int) ([]models.Course, error) {
	return nil, nil
}

func (f *fakeCourseRepo) ListCoursesByTutor(_ context.Context, _ uuid.UUID) ([]models.Course, error) {
	return nil, nil
}

func (f *fakeCourseRepo) CountCourses(_ context.Context) (int, error) {
	return len(f.courses), nil
}

func (f *fakeCourseRepo) UpdateCourse(_ context.Context, course *models.Course, tutorID uuid.UUID) error {
	existing, ok := f.courses[course.ID]
	if !ok || existing.TutorID != tutorID {
		return app_errors.ErrNotCourseTutor
	}
	existing.Title = course.Title
	existing.Description = course.Description
	existing.Outcomes = course.Outcomes
	return nil
}

func (f *fakeCourseRepo) UpdateCourseThumbnail(_ context.Context, courseID, tutorID uuid.UUID, objectKey string) error {
	existing, ok := f.courses[courseID]
	if !ok || existing.TutorID != tutorID {
		return app_errors.ErrNotCourseTutor
	}
	existing.ThumbnailObjectKey = objectKey
	return nil
}

func (f *fakeCourseRepo) DeleteCourse(_ context.Context, courseID, tutorID uuid.UUID) error {
	existing, ok := f.courses[courseID]
	if !ok || existing.TutorID != tutorID {
		return app_errors.ErrNotCourseTutor
	}
	delete(f.courses, courseID)
	return nil
}

type fakeSearchRepo struct {
	indexed map[uuid.UUID]struct{}
	failing bool
}

func newFakeSearchRepo() *fakeSearchRepo {
	return &fakeSearchRepo{indexed: make(map[uuid.UUID]struct{})}
}

func (f *fakeSearchRepo) Index(_ context.Context, course models.Course) error {
	if f.failing {
		return errors.New("cluster unavailable")
	}
	f.indexed[course.ID] = struct{}{}
	return nil
}

func (f *fakeSearchRepo) Update(_ context.Context, course models.Course) error {
	return f.Index(context.Background(), course)
}

func (f *fakeSearchRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.indexed, id)
	return nil
}

func (f *fakeSearchRepo) Search(_ context.Context, _ string, _ int) ([]uuid.UUID, error) {
	return nil, nil
}

type fakeMediaRepo struct {
	objects map[string]struct{}
}

func newFakeMediaRepo() *fakeMediaRepo {
	return &fakeMediaRepo{objects: make(map[string]struct{})}
}

func (f *fakeMediaRepo) UploadThumbnail(_ context.Context, courseID uuid.UUID, filename string, _ io.Reader, _ int64, _ string) (string, error) {
	key := "courses/" + courseID.String() + "/" + filename
	f.objects[key] = struct{}{}
	return key, nil
}

func (f *fakeMediaRepo) GetURL(_ context.Context, objectKey string) (string, error) {
	return "https://media.local/" + objectKey, nil
}

func (f *fakeMediaRepo) Delete(_ context.Context, objectKey string) error {
	delete(f.objects, objectKey)
	return nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*models.User
}

func (f *fakeUserRepo) UserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, app_errors.ErrUserNotFound
	}
	return u, nil
}

func newService(courses *fakeCourseRepo, search *fakeSearchRepo, media *fakeMediaRepo) *CourseService {
	return NewCourseService(logger.NewDiscard(), courses, search, media, &fakeUserRepo{})
}

func validCourse(tutorID uuid.UUID) models.Course {
	return models.Course{
		Title:       "Go Basics",
		Description: "From zero to goroutines",
		TutorID:     tutorID,
		Outcomes:    []string{"syntax", "tooling", "concurrency"},
	}
}

func TestCreateCourse(t *testing.T) {
	courses := newFakeCourseRepo()
	search := newFakeSearchRepo()
	s := newService(courses, search, newFakeMediaRepo())

	id, err := s.CreateCourse(context.Background(), validCourse(uuid.New()))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
	assert.Contains(t, search.indexed, id)
}

func TestCreateCourseOutcomes(t *testing.T) {
	tests := []struct {
		name     string
		outcomes []string
		wantErr  error
	}{
		{"none", nil, app_errors.ErrMissingOutcome},
		{"too few", []string{"a", "b"}, app_errors.ErrMissingOutcome},
		{"blank required slot", []string{"a", "  ", "c"}, app_errors.ErrMissingOutcome},
		{"exactly required", []string{"a", "b", "c"}, nil},
		{"all five", []string{"a", "b", "c", "d", "e"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newService(newFakeCourseRepo(), newFakeSearchRepo(), newFakeMediaRepo())
			course := validCourse(uuid.New())
			course.Outcomes = tt.outcomes

			_, err := s.CreateCourse(context.Background(), course)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateCourseExtraOutcomesTrimmed(t *testing.T) {
	courses := newFakeCourseRepo()
	s := newService(courses, newFakeSearchRepo(), newFakeMediaRepo())

	course := validCourse(uuid.New())
	course.Outcomes = []string{"a", "b", "c", "d", "e", "f", "g"}

	id, err := s.CreateCourse(context.Background(), course)
	require.NoError(t, err)
	stored, err := courses.CourseByID(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, stored.Outcomes, models.MaxOutcomes)
}

func TestCreateCourseSurvivesIndexFailure(t *testing.T) {
	courses := newFakeCourseRepo()
	search := newFakeSearchRepo()
	search.failing = true
	s := newService(courses, search, newFakeMediaRepo())

	id, err := s.CreateCourse(context.Background(), validCourse(uuid.New()))
	require.NoError(t, err)
	_, err = courses.CourseByID(context.Background(), id)
	assert.NoError(t, err)
}

func TestUpdateCourseOwnership(t *testing.T) {
	tutorID := uuid.New()
	courses := newFakeCourseRepo()
	s := newService(courses, newFakeSearchRepo(), newFakeMediaRepo())

	id, err := s.CreateCourse(context.Background(), validCourse(tutorID))
	require.NoError(t, err)

	updated := validCourse(tutorID)
	updated.ID = id
	updated.Title = "Go Basics, 2nd edition"

	err = s.UpdateCourse(context.Background(), updated, uuid.New())
	assert.ErrorIs(t, err, app_errors.ErrNotCourseTutor)

	require.NoError(t, s.UpdateCourse(context.Background(), updated, tutorID))
	stored, err := courses.CourseByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Go Basics, 2nd edition", stored.Title)
}

func TestDeleteCourseOwnership(t *testing.T) {
	tutorID := uuid.New()
	courses := newFakeCourseRepo()
	s := newService(courses, newFakeSearchRepo(), newFakeMediaRepo())

	id, err := s.CreateCourse(context.Background(), validCourse(tutorID))
	require.NoError(t, err)

	err = s.DeleteCourse(context.Background(), id, uuid.New())
	assert.ErrorIs(t, err, app_errors.ErrNotCourseTutor)

	require.NoError(t, s.DeleteCourse(context.Background(), id, tutorID))
	_, err = courses.CourseByID(context.Background(), id)
	assert.ErrorIs(t, err, app_errors.ErrCourseNotFound)
}

func TestUploadThumbnail(t *testing.T) {
	tutorID := uuid.New()
	courses := newFakeCourseRepo()
	media := newFakeMediaRepo()
	s := newService(courses, newFakeSearchRepo(), media)

	id, err := s.CreateCourse(context.Background(), validCourse(tutorID))
	require.NoError(t, err)

	body := strings.NewReader("png bytes")

	_, err = s.UploadThumbnail(context.Background(), id, tutorID, "thumb.txt", body, int64(body.Len()), "text/plain")
	assert.ErrorIs(t, err, app_errors.ErrNotImage)

	_, err = s.UploadThumbnail(context.Background(), id, tutorID, "thumb.png", body, maxThumbnailSizeBytes+1, "image/png")
	assert.ErrorIs(t, err, app_errors.ErrFileSize)

	_, err = s.UploadThumbnail(context.Background(), id, uuid.New(), "thumb.png", body, int64(body.Len()), "image/png")
	assert.ErrorIs(t, err, app_errors.ErrNotCourseTutor)

	key, err := s.UploadThumbnail(context.Background(), id, tutorID, "thumb.png", body, int64(body.Len()), "image/png")
	require.NoError(t, err)
	assert.Contains(t, media.objects, key)

	stored, err := courses.CourseByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, key, stored.ThumbnailObjectKey)
}
