package chat

import (
	"EduStream/internal/app_errors"
	"EduStream/internal/delivery/http/controllers/middleware"
	"EduStream/internal/models"
	"EduStream/pkg/logger"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ChatService interface {
	Send(ctx context.Context, courseID, userID uuid.UUID, body string) (*models.ChatMessage, error)
	History(ctx context.Context, courseID uuid.UUID) ([]models.ChatMessage, error)
	Stream(ctx context.Context, courseID uuid.UUID) (<-chan models.ChatMessage, error)
}

type ChatHandler struct {
	log     logger.Log
	service ChatService
}

func NewChatHandler(l logger.Log, s ChatService) *ChatHandler {
	return &ChatHandler{
		log:     l,
		service: s,
	}
}

type sendRequest struct {
	Body string `json:"body" binding:"required"`
}

func (h *ChatHandler) Send(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}
	userID, ok := middleware.ClientID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var input sendRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.service.Send(c.Request.Context(), courseID, userID, input.Body)
	if err != nil {
		switch {
		case errors.Is(err, app_errors.ErrEmptyMessage):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, app_errors.ErrCourseNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			h.log.ErrorErr("chat send failed", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *ChatHandler) History(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}

	messages, err := h.service.History(c.Request.Context(), courseID)
	if err != nil {
		if errors.Is(err, app_errors.ErrCourseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// Stream pushes new course messages as server-sent events until the client
// disconnects.
func (h *ChatHandler) Stream(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}

	messages, err := h.service.Stream(c.Request.Context(), courseID)
	if err != nil {
		if errors.Is(err, app_errors.ErrCourseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.log.ErrorErr("chat stream failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		msg, open := <-messages
		if !open {
			return false
		}
		c.SSEvent("message", msg)
		return true
	})
}
