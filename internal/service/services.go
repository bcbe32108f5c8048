package service

import (
	"EduStream/internal/service/auth"
	"EduStream/internal/service/chat"
	"EduStream/internal/service/course"
	"EduStream/internal/service/enrollment"
	"EduStream/internal/service/payment"
	"EduStream/internal/service/progress"
	"EduStream/internal/service/video"
)

type Collection struct {
	*auth.AuthService
	*course.CourseService
	*enrollment.EnrollmentService
	*progress.ProgressService
	*video.VideoService
	*chat.ChatService
	*payment.PaymentService
}
