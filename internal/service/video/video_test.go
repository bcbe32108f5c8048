package video

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

func (f *fakeCourseRepo) CourseByID(_ context.Context, id uuid.UUID) (*models.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, app_errors.ErrCourseNotFound
	}
	return c, nil
}

type fakeVideoRepo struct {
	videos     map[uuid.UUID]*models.Video
	insertFail bool
}

func newFakeVideoRepo() *fakeVideoRepo {
	return &fakeVideoRepo{videos: make(map[uuid.UUID]*models.Video)}
}

func (f *fakeVideoRepo) NewVideo(_ context.Context, video *models.Video) (uuid.UUID, error) {
	if f.insertFail {
		return uuid.Nil, errors.New("insert failed")
	}
	video.ID = uuid.New()
	stored := *video
	f.videos[video.ID] = &stored
	return video.ID, nil
}

func (f *fakeVideoRepo) VideoByID(_ context.Context, id uuid.UUID) (*models.Video, error) {
	v, ok := f.videos[id]
	if !ok {
		return nil, app_errors.ErrVideoNotFound
	}
	return v, nil
}

func (f *fakeVideoRepo) VideosByCourse(_ context.Context, courseID uuid.UUID) ([]models.Video, error) {
	var out []models.Video
	for _, v := range f.videos {
		if v.CourseID == courseID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (f *fakeVideoRepo) DeleteVideo(_ context.Context, videoID, _ uuid.UUID) error {
	delete(f.videos, videoID)
	return nil
}

type fakeMediaRepo struct {
	objects map[string]struct{}
}

func newFakeMediaRepo() *fakeMediaRepo {
	return &fakeMediaRepo{objects: make(map[string]struct{})}
}

func (f *fakeMediaRepo) UploadVideo(_ context.Context, courseID uuid.UUID, filename string, _ io.Reader, _ int64, _ string) (string, error) {
	key := "courses/" + courseID.String() + "/video-" + filename
	f.objects[key] = struct{}{}
	return key, nil
}

func (f *fakeMediaRepo) UploadThumbnail(_ context.Context, courseID uuid.UUID, filename string, _ io.Reader, _ int64, _ string) (string, error) {
	key := "courses/" + courseID.String() + "/thumb-" + filename
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

func videoUpload() Upload {
	body := strings.NewReader("mp4 bytes")
	return Upload{
		Filename:    "lecture-1.mp4",
		ContentType: "video/mp4",
		Size:        int64(body.Len()),
		Reader:      body,
	}
}

func newFixture() (*VideoService, *fakeVideoRepo, *fakeMediaRepo, uuid.UUID, uuid.UUID) {
	courseID := uuid.New()
	tutorID := uuid.New()
	courses := &fakeCourseRepo{courses: map[uuid.UUID]*models.Course{
		courseID: {ID: courseID, TutorID: tutorID},
	}}
	videos := newFakeVideoRepo()
	media := newFakeMediaRepo()
	s := NewVideoService(logger.NewDiscard(), courses, videos, media)
	return s, videos, media, courseID, tutorID
}

func TestUploadVideo(t *testing.T) {
	s, videos, media, courseID, tutorID := newFixture()

	v, err := s.UploadVideo(context.Background(), courseID, tutorID, "Lecture 1", videoUpload(), nil)
	require.NoError(t, err)
	assert.Equal(t, "Lecture 1", v.Name)
	assert.Contains(t, media.objects, v.VideoObjectKey)
	assert.Len(t, videos.videos, 1)
}

func TestUploadVideoValidation(t *testing.T) {
	s, _, _, courseID, tutorID := newFixture()

	notVideo := videoUpload()
	notVideo.ContentType = "application/pdf"
	_, err := s.UploadVideo(context.Background(), courseID, tutorID, "x", notVideo, nil)
	assert.ErrorIs(t, err, app_errors.ErrNotVideo)

	tooBig := videoUpload()
	tooBig.Size = maxVideoSizeBytes + 1
	_, err = s.UploadVideo(context.Background(), courseID, tutorID, "x", tooBig, nil)
	assert.ErrorIs(t, err, app_errors.ErrFileSize)

	badThumb := Upload{Filename: "t.mp4", ContentType: "video/mp4", Size: 10, Reader: strings.NewReader("x")}
	_, err = s.UploadVideo(context.Background(), courseID, tutorID, "x", videoUpload(), &badThumb)
	assert.ErrorIs(t, err, app_errors.ErrNotImage)
}

func TestUploadVideoNotTutor(t *testing.T) {
	s, videos, media, courseID, _ := newFixture()

	_, err := s.UploadVideo(context.Background(), courseID, uuid.New(), "x", videoUpload(), nil)
	assert.ErrorIs(t, err, app_errors.ErrNotCourseTutor)
	assert.Empty(t, videos.videos)
	assert.Empty(t, media.objects)
}

func TestUploadVideoCleansUpOnInsertFailure(t *testing.T) {
	s, videos, media, courseID, tutorID := newFixture()
	videos.insertFail = true

	_, err := s.UploadVideo(context.Background(), courseID, tutorID, "x", videoUpload(), nil)
	require.Error(t, err)
	assert.Empty(t, media.objects)
}

func TestDeleteVideo(t *testing.T) {
	s, videos, media, courseID, tutorID := newFixture()

	thumb := Upload{Filename: "t.png", ContentType: "image/png", Size: 4, Reader: strings.NewReader("png")}
	v, err := s.UploadVideo(context.Background(), courseID, tutorID, "Lecture 1", videoUpload(), &thumb)
	require.NoError(t, err)

	require.NoError(t, s.DeleteVideo(context.Background(), v.ID, tutorID))
	assert.Empty(t, videos.videos)
	assert.Empty(t, media.objects)

	err = s.DeleteVideo(context.Background(), v.ID, tutorID)
	assert.ErrorIs(t, err, app_errors.ErrVideoNotFound)
}
