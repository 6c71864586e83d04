package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/aulavirtual/aula-go-api/internal/config"
	"github.com/aulavirtual/aula-go-api/internal/database"
	"github.com/aulavirtual/aula-go-api/internal/events"
	"github.com/aulavirtual/aula-go-api/internal/handler"
	"github.com/aulavirtual/aula-go-api/internal/middleware"
	"github.com/aulavirtual/aula-go-api/internal/repository"
	"github.com/aulavirtual/aula-go-api/internal/router"
	"github.com/aulavirtual/aula-go-api/internal/service"
	"github.com/aulavirtual/aula-go-api/pkg/judge0"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(context.Background(), cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var natsConn *nats.Conn
	var publisher events.Publisher
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()
		publisher = events.NewNATSPublisher(natsConn, events.DefaultGradedSubject, logger)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	judgeClient := judge0.New(judge0.Config{
		BaseURL:       cfg.JudgeBaseURL,
		APIKey:        cfg.JudgeAPIKey,
		APIHost:       cfg.JudgeAPIHost,
		CreateRetries: cfg.JudgeRetries,
	}, logger)

	activityRepo := repository.NewActivityRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	rankingRepo := repository.NewRankingRepository(db)

	activityService := service.NewActivityService(activityRepo, courseRepo, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, gradeRepo, logger)
	rankingService := service.NewRankingService(rankingRepo, redisClient, cfg.RankingCacheTTL, logger)
	gradingService := service.NewGradingService(
		activityRepo, courseRepo, submissionRepo, gradeRepo,
		judgeClient, publisher, validate, logger,
		service.GradingConfig{PollInterval: cfg.PollInterval, PollAttempts: cfg.PollAttempts},
	)

	// Leaderboards go stale the moment a grade lands, so grading events
	// drop the affected cache entries.
	if natsConn != nil {
		_, err := events.SubscribeGraded(natsConn, events.DefaultGradedSubject, func(ctx context.Context, event events.GradedEvent) {
			rankingService.Invalidate(ctx, event.CourseID)
		}, logger)
		if err != nil {
			log.Fatalf("failed to subscribe to grading events: %v", err)
		}
	}

	activityHandler := handler.NewActivityHandler(activityService, logger)
	submissionHandler := handler.NewSubmissionHandler(gradingService, submissionService, logger)
	rankingHandler := handler.NewRankingHandler(rankingService, logger)
	languageHandler := handler.NewLanguageHandler()

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, CORSOrigins: cfg.CORSOrigins})
	router.Register(app, cfg, router.Dependencies{
		ActivityHandler:   activityHandler,
		SubmissionHandler: submissionHandler,
		RankingHandler:    rankingHandler,
		LanguageHandler:   languageHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
