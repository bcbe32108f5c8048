package app

import (
	"EduStream/internal/app/server"
	"EduStream/internal/config"
	"EduStream/internal/delivery/http"
	"EduStream/internal/service"
	"EduStream/internal/service/auth"
	"EduStream/internal/service/chat"
	"EduStream/internal/service/course"
	"EduStream/internal/service/enrollment"
	"EduStream/internal/service/payment"
	"EduStream/internal/service/progress"
	"EduStream/internal/service/video"
	"EduStream/internal/storage/elastic"
	"EduStream/internal/storage/minio_storage"
	"EduStream/internal/storage/postgres"
	"EduStream/internal/storage/rabbit"
	"EduStream/pkg/logger"
	"context"
	"os"
	"os/signal"
	"syscall"
)

const courseMediaBucket = "course_media"

func Run(cfg *config.Config) {

	log := logger.New(cfg.Env)
	log.Info("Starting with Env: " + cfg.Env)

	pg, err := postgres.NewPostgresPool(cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.DBName)
	if err != nil {
		log.FatalErr("error connecting to database", err)
	}
	defer pg.Close()

	minioStorage, err := minio_storage.NewMinioStorage(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL, cfg.Minio.Buckets)
	if err != nil {
		log.FatalErr("error connecting to minio", err)
	}
	bucket := cfg.Minio.Buckets[courseMediaBucket]
	mediaStorage, err := minio_storage.NewCourseMediaStorage(minioStorage, bucket.Name, bucket.PresignTTL)
	if err != nil {
		log.FatalErr("error preparing media storage", err)
	}

	esClient, err := elastic.NewElasticClient(cfg.ES.Password, cfg.ES.Hosts)
	if err != nil {
		log.FatalErr("error connecting to elasticsearch", err)
	}
	searchRepo := elastic.NewCourseSearchRepository(esClient, cfg.ES.Index)
	if err := searchRepo.CreateIndexIfNotExist(context.Background()); err != nil {
		log.FatalErr("error creating search index", err)
	}

	rb, err := rabbit.New(cfg.Rabbit.URL, cfg.Rabbit.Exchange)
	if err != nil {
		log.FatalErr("error connecting to rabbitmq", err)
	}
	defer rb.Close()
	chatFeed := rabbit.NewChatFeed(rb)

	tokenRepo := postgres.NewTokensPostgres(pg.Pool)
	userRepo := postgres.NewUserPostgres(pg.Pool)
	courseRepo := postgres.NewCoursePostgres(pg.Pool)
	enrollmentRepo := postgres.NewEnrollmentPostgres(pg.Pool)
	videoRepo := postgres.NewVideoPostgres(pg.Pool)
	progressRepo := postgres.NewProgressPostgres(pg.Pool)
	chatRepo := postgres.NewChatPostgres(pg.Pool)
	paymentRepo := postgres.NewPaymentPostgres(pg.Pool)

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, "//", cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	u := service.Collection{
		AuthService:       auth.NewAuthService(log, jwtManager, userRepo, tokenRepo),
		CourseService:     course.NewCourseService(log, courseRepo, searchRepo, mediaStorage, userRepo),
		EnrollmentService: enrollment.NewEnrollmentService(log, courseRepo, enrollmentRepo, videoRepo),
		ProgressService:   progress.NewProgressService(log, enrollmentRepo, videoRepo, progressRepo, mediaStorage),
		VideoService:      video.NewVideoService(log, courseRepo, videoRepo, mediaStorage),
		ChatService:       chat.NewChatService(log, userRepo, courseRepo, chatRepo, chatFeed),
		PaymentService:    payment.NewPaymentService(log, paymentRepo, cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret, cfg.Stripe.SuccessURL, cfg.Stripe.CancelURL),
	}

	r := http.InitRoutes(log, u)

	srv := server.New(cfg.HTTPServer.Address, cfg.HTTPServer.Timeout, cfg.HTTPServer.IdleTimeout, r)
	srv.Start()
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Info("app signal: " + s.String())
	case err := <-srv.Notify():
		log.ErrorErr("server stopped", err)
	}
	err = srv.Shutdown()
	if err != nil {
		log.ErrorErr("shutdown failed", err)
	}
}
