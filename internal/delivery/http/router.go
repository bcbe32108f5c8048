package http

import (
	"EduStream/internal/delivery/http/controllers"
	authctl "EduStream/internal/delivery/http/controllers/auth"
	chatctl "EduStream/internal/delivery/http/controllers/chat"
	coursectl "EduStream/internal/delivery/http/controllers/course"
	enrollmentctl "EduStream/internal/delivery/http/controllers/enrollment"
	"EduStream/internal/delivery/http/controllers/middleware"
	paymentctl "EduStream/internal/delivery/http/controllers/payment"
	videoctl "EduStream/internal/delivery/http/controllers/video"
	"EduStream/internal/models"
	"EduStream/internal/service"
	"EduStream/pkg/logger"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func InitRoutes(l logger.Log, u service.Collection) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	config := cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	r.Use(cors.New(config))

	authProvider := middleware.NewAuthMiddlewareProvider(l, u.AuthService)

	statusController := controllers.NewStatusHandler()
	authController := authctl.NewAuthHandler(l, u.AuthService)
	courseManagement := coursectl.NewManagementHandler(l, u.CourseService)
	courseQuery := coursectl.NewQueryHandler(l, u.CourseService)
	enrollmentController := enrollmentctl.NewEnrollmentHandler(l, u.EnrollmentService)
	videoManagement := videoctl.NewManagementHandler(l, u.VideoService)
	watchController := videoctl.NewWatchHandler(l, u.ProgressService)
	chatController := chatctl.NewChatHandler(l, u.ChatService)
	paymentController := paymentctl.NewPaymentHandler(l, u.PaymentService)

	v1 := r.Group("/v1", middleware.LoggingMiddleware(l))
	{
		v1.GET("/status", statusController.Status)

		v1.GET("/me", authProvider.AuthMiddleware, authController.Me)

		auth := v1.Group("/auth")
		{
			auth.POST("/login", authController.Login)
			auth.POST("/register", authController.Register)
			auth.POST("/refresh", authController.Refresh)
		}

		// Stripe calls this endpoint directly; it authenticates with the
		// signature header, not a bearer token.
		v1.POST("/payments/webhook", paymentController.Webhook)

		courses := v1.Group("/courses")
		{
			courses.GET("", courseQuery.ListCoursePreview)
			courses.GET("/:course_id/preview", courseQuery.CourseByID)
			courses.GET("/:course_id/videos", videoManagement.ListVideos)
			courses.GET("/:course_id/chat", chatController.History)

			tutor := courses.Group("", authProvider.AuthMiddleware, middleware.RequireRoles(models.TutorRole))
			{
				tutor.POST("", courseManagement.CreateCourse)
				tutor.PUT("/:course_id", courseManagement.UpdateCourse)
				tutor.DELETE("/:course_id", courseManagement.DeleteCourse)
				tutor.PUT("/:course_id/thumbnail", courseManagement.UploadThumbnail)
				tutor.GET("/my-courses", courseManagement.MyCourses)
				tutor.POST("/:course_id/videos", videoManagement.UploadVideo)
				tutor.DELETE("/videos/:video_id", videoManagement.DeleteVideo)
				tutor.GET("/enrollments", enrollmentController.TutorEnrollments)
				tutor.DELETE("/:course_id/students/:user_id", enrollmentController.RemoveStudent)
			}

			client := courses.Group("", authProvider.AuthMiddleware, middleware.RequireRoles(models.ClientRole))
			{
				client.POST("/:course_id/enroll", enrollmentController.Enroll)
				client.GET("/enrolled", enrollmentController.MyCourses)
				client.GET("/videos/:video_id/watch", watchController.Watch)
				client.GET("/:course_id/progress", watchController.CourseProgress)
			}

			member := courses.Group("", authProvider.AuthMiddleware)
			{
				member.POST("/:course_id/chat", chatController.Send)
				member.GET("/:course_id/chat/stream", chatController.Stream)
			}
		}

		payments := v1.Group("/payments", authProvider.AuthMiddleware)
		{
			payments.POST("/checkout", paymentController.CreateCheckout)
			payments.GET("/:session_id", paymentController.SessionStatus)
		}
	}
	return r
}
