// Package server is the composition root: it wires the database, services,
// handlers, and middleware into one chi router and owns the HTTP server's
// lifecycle, including graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/summaize/summaize/internal/auth"
	"github.com/summaize/summaize/internal/config"
	"github.com/summaize/summaize/internal/handler"
	"github.com/summaize/summaize/internal/middleware"
	sqliteRepo "github.com/summaize/summaize/internal/repository/sqlite"
	"github.com/summaize/summaize/internal/service"
)

// Server bundles the router with the resources it owns. The database
// connection is opened in New and closed when Start returns, so a crashed
// startup or a graceful shutdown both leave the WAL flushed.
type Server struct {
	router *chi.Mux
	cfg    config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain:
//
//	sqlite.DB → services → handlers → router
//
// Each layer receives only what it needs — services get repository
// interfaces, handlers get services, the router gets http.HandlerFuncs.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}
	s.setupRoutes(tokens)

	return s, nil
}

// setupRoutes mounts middleware and the route table.
//
// Middleware order: request id and real-ip first (so the logger can use
// them), then the recoverer (so a panic in the logger's downstream is still
// caught), then logging. CORS wraps the API group; the per-request timeout
// wraps only /api — buffering timed responses is wrong for static files.
func (s *Server) setupRoutes(tokens *auth.TokenService) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	passwords := auth.NewPasswordService()

	authSvc := service.NewAuthService(s.db, tokens, passwords, s.logger)
	setSvc := service.NewCardSetService(s.db, s.logger)
	cardSvc := service.NewCardService(s.db, s.db, s.logger)
	imageSvc := service.NewPreviewImageService(s.db, s.logger)

	authH := handler.NewAuthHandler(authSvc, s.logger, s.cfg.Production)
	setH := handler.NewCardSetHandler(setSvc, s.logger, s.cfg.Production)
	cardH := handler.NewCardHandler(cardSvc, s.logger, s.cfg.Production)
	imageH := handler.NewPreviewImageHandler(imageSvc, s.logger, s.cfg.Production)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true, // the session cookie must survive cross-origin dev setups
		MaxAge:           300,
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Use(corsHandler.Handler)
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))

		r.Post("/auth/register", authH.HandleRegister)
		r.Post("/auth/login", authH.HandleLogin)
		r.Post("/auth/logout", authH.HandleLogout)

		// Everything below requires a valid token.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Get("/users/{userID}/card-sets", setH.HandleList)
			r.Post("/users/{userID}/card-sets", setH.HandleCreate)
			r.Get("/users/{userID}/card-sets/{setID}", setH.HandleGet)
			r.Put("/users/{userID}/card-sets/{setID}", setH.HandleUpdate)
			r.Delete("/users/{userID}/card-sets/{setID}", setH.HandleDelete)

			r.Post("/card-sets/{setID}/cards", cardH.HandleCreate)
			r.Put("/cards/{cardID}", cardH.HandleUpdate)
			// Older frontend builds send card edits as POST.
			r.Post("/cards/{cardID}", cardH.HandleUpdate)
			r.Delete("/cards/{cardID}", cardH.HandleDelete)

			r.Post("/card-sets/{setID}/preview-image", imageH.HandleUpload)
			r.Put("/card-sets/{setID}/preview-image", imageH.HandleUpload)
			r.Get("/card-sets/{setID}/preview-image", imageH.HandleGet)
			r.Delete("/card-sets/{setID}/preview-image", imageH.HandleDelete)
		})
	})

	// Everything that is not /api serves the built frontend.
	s.router.Handle("/*", spaFileServer(s.cfg.StaticDir))
}

// spaFileServer serves the built single-page app: real files as-is, every
// other path falls back to index.html so client-side routes survive a page
// reload. Path traversal is blocked by filepath.Clean before the join.
func spaFileServer(staticDir string) http.HandlerFunc {
	fs := http.FileServer(http.Dir(staticDir))
	index := filepath.Join(staticDir, "index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		name := filepath.Join(staticDir, filepath.Clean("/"+r.URL.Path))
		info, err := os.Stat(name)
		if err != nil || info.IsDir() {
			http.ServeFile(w, r, index)
			return
		}
		fs.ServeHTTP(w, r)
	}
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully:
// stop accepting connections, give in-flight requests 30s to drain, close
// the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
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
			slog.Int("port", s.cfg.Port),
			slog.String("database", s.cfg.DBPath),
			slog.Bool("production", s.cfg.Production),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
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
