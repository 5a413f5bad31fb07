package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/criticdb/review-api/internal/api/handler"
	"github.com/criticdb/review-api/internal/api/middleware"
	"github.com/criticdb/review-api/internal/core/ports"
)

// Dependencies carries everything the router needs wired in.
type Dependencies struct {
	Auth    ports.AuthService
	Users   ports.UserService
	Catalog ports.CatalogService
	Reviews ports.ReviewService
	Signer  ports.TokenSigner
	Mongo   *mongo.Database
	Redis   *redis.Client
	Logger  zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("reviewapi"))
	e.Use(middleware.Actor(deps.Signer))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	userHandler := handler.NewUserHandler(deps.Users)
	catalogHandler := handler.NewCatalogHandler(deps.Catalog)
	titleHandler := handler.NewTitleHandler(deps.Catalog)
	reviewHandler := handler.NewReviewHandler(deps.Reviews)
	commentHandler := handler.NewCommentHandler(deps.Reviews)

	v1 := e.Group("/v1")

	// --- Auth ---
	v1.POST("/auth/signup/", authHandler.Signup)
	v1.POST("/auth/token/", authHandler.Token)

	// --- Users ---
	// /users/me/ is registered before /users/:username/ so the literal
	// segment wins.
	v1.GET("/users/me/", userHandler.Me, middleware.RequireAuth)
	v1.PATCH("/users/me/", userHandler.UpdateMe, middleware.RequireAuth)
	v1.GET("/users/", userHandler.List)
	v1.POST("/users/", userHandler.Create)
	v1.GET("/users/:username/", userHandler.Get)
	v1.PATCH("/users/:username/", userHandler.Update)
	v1.DELETE("/users/:username/", userHandler.Delete)

	// --- Categories and genres ---
	v1.GET("/categories/", catalogHandler.ListCategories)
	v1.POST("/categories/", catalogHandler.CreateCategory)
	v1.DELETE("/categories/:slug/", catalogHandler.DeleteCategory)
	v1.GET("/genres/", catalogHandler.ListGenres)
	v1.POST("/genres/", catalogHandler.CreateGenre)
	v1.DELETE("/genres/:slug/", catalogHandler.DeleteGenre)

	// --- Titles ---
	v1.GET("/titles/", titleHandler.List)
	v1.POST("/titles/", titleHandler.Create)
	v1.GET("/titles/:title_id/", titleHandler.Get)
	v1.PATCH("/titles/:title_id/", titleHandler.Update)
	v1.DELETE("/titles/:title_id/", titleHandler.Delete)

	// --- Reviews ---
	v1.GET("/titles/:title_id/reviews/", reviewHandler.List)
	v1.POST("/titles/:title_id/reviews/", reviewHandler.Create)
	v1.GET("/titles/:title_id/reviews/:review_id/", reviewHandler.Get)
	v1.PATCH("/titles/:title_id/reviews/:review_id/", reviewHandler.Update)
	v1.DELETE("/titles/:title_id/reviews/:review_id/", reviewHandler.Delete)

	// --- Comments ---
	v1.GET("/titles/:title_id/reviews/:review_id/comments/", commentHandler.List)
	v1.POST("/titles/:title_id/reviews/:review_id/comments/", commentHandler.Create)
	v1.GET("/titles/:title_id/reviews/:review_id/comments/:comment_id/", commentHandler.Get)
	v1.PATCH("/titles/:title_id/reviews/:review_id/comments/:comment_id/", commentHandler.Update)
	v1.DELETE("/titles/:title_id/reviews/:review_id/comments/:comment_id/", commentHandler.Delete)

	// --- Health and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	// Liveness reports only that the process is up; readiness also pings
	// the backing stores.
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
