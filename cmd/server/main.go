package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/criticdb/review-api/internal/api"
	"github.com/criticdb/review-api/internal/core/service"
	"github.com/criticdb/review-api/internal/infrastructure/config"
	mongodb "github.com/criticdb/review-api/internal/infrastructure/db/mongo"
	redisdb "github.com/criticdb/review-api/internal/infrastructure/db/redis"
	"github.com/criticdb/review-api/internal/infrastructure/mailer"
	"github.com/criticdb/review-api/internal/infrastructure/queue"
	"github.com/criticdb/review-api/internal/infrastructure/token"
	"github.com/criticdb/review-api/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(db)
	categoryRepo := mongodb.NewCategoryRepository(db)
	genreRepo := mongodb.NewGenreRepository(db)
	titleRepo := mongodb.NewTitleRepository(db)
	reviewRepo := mongodb.NewReviewRepository(db)
	commentRepo := mongodb.NewCommentRepository(db)

	if err := ensureIndexes(ctx, userRepo, categoryRepo, genreRepo, reviewRepo); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	ratingCache := redisdb.NewRatingCache(rdb)

	// --- Mail pipeline ---
	smtpMailer := mailer.New(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	dispatcher := queue.NewMailDispatcher(cfg.MailWorkers, smtpMailer, logger.With("mail"))
	dispatcher.Start(ctx)

	// --- Core services ---
	signer := token.NewJWTSigner(cfg.JWTSecret, cfg.TokenTTL)
	clock := service.SystemClock{}

	authService := service.NewAuthService(userRepo, dispatcher, signer, clock, log)
	userService := service.NewUserService(userRepo, clock, log)
	catalogService := service.NewCatalogService(categoryRepo, genreRepo, titleRepo, reviewRepo, commentRepo, ratingCache, clock, log)
	reviewService := service.NewReviewService(titleRepo, reviewRepo, commentRepo, ratingCache, clock, log)

	e := api.NewRouter(api.Dependencies{
		Auth:    authService,
		Users:   userService,
		Catalog: catalogService,
		Reviews: reviewService,
		Signer:  signer,
		Mongo:   db,
		Redis:   rdb,
		Logger:  log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

func ensureIndexes(ctx context.Context, repos ...indexer) error {
	for _, r := range repos {
		if err := r.EnsureIndexes(ctx); err != nil {
			return err
		}
	}
	return nil
}
