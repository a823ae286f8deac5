// Package api provides the HTTP API server for the event planner.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/narvanalabs/eventplanner/internal/api/handlers"
	"github.com/narvanalabs/eventplanner/internal/api/health"
	"github.com/narvanalabs/eventplanner/internal/api/middleware"
	"github.com/narvanalabs/eventplanner/internal/assistant"
	"github.com/narvanalabs/eventplanner/internal/auth"
	"github.com/narvanalabs/eventplanner/internal/planner"
	"github.com/narvanalabs/eventplanner/internal/store"
	"github.com/narvanalabs/eventplanner/pkg/config"
)

// Version is the current version of the API server.
// This should be set at build time using ldflags.
var Version = "dev"

// Server represents the HTTP API server.
type Server struct {
	router        chi.Router
	httpServer    *http.Server
	store         store.Store
	planner       *planner.Service
	assistant     *assistant.Service
	auth          *auth.Service
	config        *config.Config
	logger        *slog.Logger
	healthChecker *health.Checker
}

// NewServer creates a new API server. A nil assistant leaves /ai unmounted.
func NewServer(cfg *config.Config, st store.Store, p *planner.Service, a *assistant.Service, authSvc *auth.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		store:     st,
		planner:   p,
		assistant: a,
		auth:      authSvc,
		config:    cfg,
		logger:    logger,
	}

	s.healthChecker = health.NewChecker(st, Version)
	if a != nil {
		s.healthChecker.AddOptional("ai", health.PingerFunc(func(context.Context) error {
			if cfg.AI.APIKey == "" {
				return errors.New("AI_API_KEY not set, serving fallbacks")
			}
			return nil
		}))
	}

	s.setupRouter()
	return s
}

// setupRouter configures the router with middleware and routes.
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(s.logger))
	r.Use(middleware.Recovery(s.logger))
	r.Use(middleware.CORS(s.config.CORSAllowedOrigins))
	r.Use(chimiddleware.Timeout(s.config.RequestTimeout))

	r.Get("/health", s.healthChecker.Handler())

	docsHandler := handlers.NewDocsHandler(s.logger)
	r.Get("/api/docs", docsHandler.ServeSwaggerUI)
	r.Get("/api/docs/openapi.yaml", docsHandler.ServeOpenAPISpec)

	authHandler := handlers.NewAuthHandler(s.planner, s.auth, s.logger)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	// Everything below requires a bearer token.
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(s.auth, s.logger).Authenticate)

		eventHandler := handlers.NewEventHandler(s.planner, s.logger)
		r.Route("/events", func(r chi.Router) {
			r.Get("/", eventHandler.List)
			r.Post("/", eventHandler.Create)
			r.Get("/past", eventHandler.ListPast)
			r.Get("/invited", eventHandler.ListInvited)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", eventHandler.Get)
				r.Put("/", eventHandler.Update)
				r.Delete("/", eventHandler.Delete)
				r.Post("/invite", eventHandler.Invite)
			})
		})

		taskHandler := handlers.NewTaskHandler(s.planner, s.logger)
		r.Route("/tasks", func(r chi.Router) {
			r.Get("/event/{id}", taskHandler.List)
			r.Post("/event/{id}", taskHandler.Create)
			r.Put("/{id}", taskHandler.Update)
			r.Delete("/{id}", taskHandler.Delete)
		})

		rsvpHandler := handlers.NewRSVPHandler(s.planner, s.logger)
		notificationHandler := handlers.NewNotificationHandler(s.planner, s.logger)
		r.Route("/rsvps", func(r chi.Router) {
			r.Get("/event/{id}", rsvpHandler.List)
			r.Post("/event/{id}", rsvpHandler.Upsert)
			r.Get("/notifications", notificationHandler.List)
			r.Put("/notifications/read-all", notificationHandler.MarkAllRead)
			r.Put("/notifications/{id}/read", notificationHandler.MarkRead)
		})

		inviteHandler := handlers.NewInviteHandler(s.planner, s.logger)
		r.Route("/invites", func(r chi.Router) {
			r.Get("/", inviteHandler.ListReceived)
			r.Get("/sent", inviteHandler.ListSent)
			r.Post("/{id}/respond", inviteHandler.Respond)
			r.Delete("/{id}/cancel", inviteHandler.Cancel)
		})

		profileHandler := handlers.NewProfileHandler(s.planner, s.logger)
		r.Route("/profile", func(r chi.Router) {
			r.Get("/", profileHandler.Get)
			r.Put("/", profileHandler.Update)
			r.Delete("/delete", profileHandler.Delete)
			r.Put("/change-password", profileHandler.ChangePassword)
		})

		if s.assistant != nil {
			aiHandler := handlers.NewAIHandler(s.assistant, s.planner, s.logger)
			r.Route("/ai", func(r chi.Router) {
				r.Post("/generate-description", aiHandler.GenerateDescription)
				r.Post("/suggest-tasks", aiHandler.SuggestTasks)
				r.Post("/generate-rsvp", aiHandler.GenerateRSVP)
				r.Post("/chat", aiHandler.Chat)
				r.Post("/optimize-timing", aiHandler.OptimizeTiming)
			})
		}
	})

	s.router = r
}

// Start starts the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	addr := s.config.Addr()
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.config.RequestTimeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s.logger.Info("starting API server", "addr", addr, "ai_enabled", s.assistant != nil)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

// Router returns the chi router for testing purposes.
func (s *Server) Router() chi.Router {
	return s.router
}
