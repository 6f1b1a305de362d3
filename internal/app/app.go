package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"housesign-server/internal/cache"
	"housesign-server/internal/config"
	"housesign-server/internal/handler"
	myMiddleware "housesign-server/internal/middleware" // Импортируем наш пакет middleware
	"housesign-server/internal/repository"
	"housesign-server/internal/service"
	"housesign-server/internal/storage"

	_ "housesign-server/docs"

	httpSwagger "github.com/swaggo/http-swagger" // Swagger UI
)

type App struct {
	server *http.Server
	logger *slog.Logger
}

func NewApp(cfg config.Config) (*App, error) {
	// Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Database
	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBSSLMode)
	dbPool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Repositories
	repo := repository.NewPostgres(dbPool)
	if err := repo.EnsureSchema(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	// Redis Client
	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	}
	redisClient := redis.NewClient(redisOptions)

	// Cache
	cacheRepo := cache.NewRedisCache(redisClient, cfg.CacheTTLList, cfg.CacheTTLItem)

	// File storage
	blobs, err := storage.NewFileStore(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("failed to init file storage: %w", err)
	}

	// Service
	svc := service.NewService(repo, repo, cacheRepo, blobs, cfg.JWTSecret, cfg.BaseURL)

	// Handler
	h := handler.NewHandler(svc, logger)

	// Middleware
	mw := myMiddleware.NewMiddleware(svc, logger)

	// Router
	r := chi.NewRouter()

	// Global Middlewares
	r.Use(mw.Logging)
	r.Use(mw.Recover)
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(mw.CacheControl)
	r.Use(chiMiddleware.Compress(5)) // Сжатие ответов

	// Routes
	r.Post("/api/signup", h.Signup)
	r.Post("/api/auth", h.Login)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(mw.AuthRequired)
		r.Delete("/api/auth", h.Logout)

		r.Post("/api/docs", h.CreateDocument)
		r.Get("/api/docs", h.ListDocuments)
		r.Head("/api/docs", h.ListDocuments)
		r.Get("/api/docs/{id}", h.GetDocument)
		r.Head("/api/docs/{id}", h.GetDocument)
		r.Delete("/api/docs/{id}", h.DeleteDocument)
		r.Get("/api/docs/{id}/file", h.GetDocumentFile)
		r.Get("/api/docs/{id}/download", h.DownloadDocument)
		r.Get("/api/docs/{id}/share", h.ShareDocument)

		r.Post("/api/docs/{id}/fields", h.PlaceField)
		r.Patch("/api/docs/{id}/fields/{fid}", h.UpdateField)
		r.Delete("/api/docs/{id}/fields/{fid}", h.DeleteField)

		r.Post("/api/docs/{id}/sign", h.SignDocument)
		r.Post("/api/docs/{id}/fields/{fid}/sign", h.SignField)
		r.Post("/api/docs/{id}/fields/{fid}/revoke", h.RevokeSignature)
	})

	// Server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// Docs
	r.Get("/swagger/*", httpSwagger.Handler())

	return &App{
		server: srv,
		logger: logger,
	}, nil
}

func (a *App) Run() error {
	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("Server failed", "error", err)
		}
	}()
	a.logger.Info("Server started", "addr", a.server.Addr)

	<-done
	a.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("Server shutdown failed", "error", err)
		return err
	}
	a.logger.Info("Server exited")
	return nil
}
