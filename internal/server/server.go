// Package server wires the dependency graph and owns the HTTP
// lifecycle: routes, middleware, startup and graceful shutdown.
package server

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
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sheepbooru/catalog/internal/auth"
	"github.com/sheepbooru/catalog/internal/handler"
	"github.com/sheepbooru/catalog/internal/middleware"
	sqliteRepo "github.com/sheepbooru/catalog/internal/repository/sqlite"
	"github.com/sheepbooru/catalog/internal/service"
	"github.com/sheepbooru/catalog/internal/storage"
)

// Config holds server configuration, read from the environment in
// cmd/server.
type Config struct {
	Port          int
	DBPath        string
	UploadDir     string
	SessionSecret string
	SessionTTL    time.Duration
	CORSOrigin    string // browser frontend origin; empty disables CORS
}

// Server owns the router and the database connection. The connection is
// closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain: database → blob store →
// services → handlers → routes.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	if s.config.CORSOrigin != "" {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{s.config.CORSOrigin},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	blobs, err := storage.NewDiskStore(s.config.UploadDir)
	if err != nil {
		return fmt.Errorf("creating blob store: %w", err)
	}

	tokens, err := auth.NewTokenService(s.config.SessionSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	sessions := auth.NewMemorySessionStore(s.config.SessionTTL)
	passwords := auth.NewPasswordService()
	verifier := auth.NewVerifier(tokens, sessions, s.db)

	identitySvc := service.NewIdentityService(s.db, passwords, s.logger)
	postSvc := service.NewPostService(s.db, blobs, s.logger)
	favoriteSvc := service.NewFavoriteService(s.db, s.logger)
	poolSvc := service.NewPoolService(s.db, s.logger)
	tagSvc := service.NewTagService(s.db)

	authHandler := handler.NewAuthHandler(identitySvc, tokens, sessions, s.config.SessionTTL, s.logger)
	userHandler := handler.NewUserHandler(identitySvc, favoriteSvc, s.logger)
	postHandler := handler.NewPostHandler(postSvc, favoriteSvc, s.logger)
	poolHandler := handler.NewPoolHandler(poolSvc, s.logger)
	tagHandler := handler.NewTagHandler(tagSvc, s.logger)

	// Uploaded images are served read-only by key.
	fileServer := http.FileServer(http.Dir(blobs.Dir()))
	s.router.Handle("/uploads/*", http.StripPrefix("/uploads/", fileServer))

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/logout", authHandler.HandleLogout)
		r.With(verifier.RequireAuth).Get("/auth/me", authHandler.HandleMe)

		r.Get("/users", userHandler.HandleList)
		r.Get("/users/{id}/favorites", userHandler.HandleFavorites)

		r.Get("/posts", postHandler.HandleList)
		r.With(verifier.OptionalAuth).Get("/posts/{id}", postHandler.HandleGet)
		r.Get("/tags", tagHandler.HandleList)
		r.Get("/pools", poolHandler.HandleList)
		r.Get("/pools/{id}", poolHandler.HandleGet)

		r.Group(func(r chi.Router) {
			r.Use(verifier.RequireAuth)
			r.Post("/posts", postHandler.HandleCreate)
			r.Delete("/posts/{id}", postHandler.HandleDelete)
			r.Post("/posts/{id}/favorite", postHandler.HandleFavorite)
			r.Post("/pools", poolHandler.HandleCreate)
			r.Post("/pools/{id}/posts", poolHandler.HandleAddPost)
			r.Delete("/pools/{id}/posts/{postID}", poolHandler.HandleRemovePost)
			r.Delete("/pools/{id}", poolHandler.HandleDelete)
		})
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
			slog.String("uploads", s.config.UploadDir),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
