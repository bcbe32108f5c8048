package chat

import (
	"EduStream/internal/app_errors"
	"EduStream/internal/models"
	"EduStream/pkg/logger"
	"context"
	"strings"

	"github.com/google/uuid"
)

type userRepo interface {
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type courseRepo interface {
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
}

type chatRepo interface {
	SaveMessage(ctx context.Context, msg *models.ChatMessage) error
	MessagesByCourse(ctx context.Context, courseID uuid.UUID) ([]models.ChatMessage, error)
}

type chatFeed interface {
	Publish(ctx context.Context, msg models.ChatMessage) error
	Subscribe(ctx context.Context, courseID uuid.UUID) (<-chan models.ChatMessage, error)
}

type ChatService struct {
	log        logger.Log
	userRepo   userRepo
	courseRepo courseRepo
	chatRepo   chatRepo
	feed       chatFeed
}

func NewChatService(l logger.Log, u userRepo, c courseRepo, r chatRepo, f chatFeed) *ChatService {
	return &ChatService{
		log:        l,
		userRepo:   u,
		courseRepo: c,
		chatRepo:   r,
		feed:       f,
	}
}

// Send persists the message and then announces it on the change feed. The
// feed is delivery-only: if the publish fails the message is still saved,
// subscribers catch up from history on reconnect.
func (s *ChatService) Send(ctx context.Context, courseID, userID uuid.UUID, body string) (*models.ChatMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, app_errors.ErrEmptyMessage
	}

	course, err := s.courseRepo.CourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	msg := &models.ChatMessage{
		CourseID:   courseID,
		UserID:     userID,
		Body:       body,
		AuthorName: user.Username,
		FromTutor:  user.ID == course.TutorID,
	}
	if err := s.chatRepo.SaveMessage(ctx, msg); err != nil {
		return nil, err
	}

	if err := s.feed.Publish(ctx, *msg); err != nil {
		s.log.ErrorErr("failed to publish chat message", err, "course_id", courseID)
	}
	return msg, nil
}

func (s *ChatService) History(ctx context.Context, courseID uuid.UUID) ([]models.ChatMessage, error) {
	if _, err := s.courseRepo.CourseByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.chatRepo.MessagesByCourse(ctx, courseID)
}

// Stream subscribes to the course's live message feed. The channel closes
// when ctx is cancelled.
func (s *ChatService) Stream(ctx context.Context, courseID uuid.UUID) (<-chan models.ChatMessage, error) {
	if _, err := s.courseRepo.CourseByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.feed.Subscribe(ctx, courseID)
}
