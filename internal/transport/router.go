// Package transport exposes the LetzCode REST API over HTTP.
package transport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/letzcode/letzcode-server/internal/domain/activity"
	"github.com/letzcode/letzcode-server/internal/domain/notification"
	"github.com/letzcode/letzcode-server/internal/domain/project"
	"github.com/letzcode/letzcode-server/internal/domain/user"
	"github.com/letzcode/letzcode-server/internal/realtime"
)

// Services are the domain services behind the API.
type Services struct {
	Users         *user.Service
	Projects      *project.Service
	Activity      *activity.Service
	Notifications *notification.Service
}

// Config wires the router.
type Config struct {
	Services Services
	Auth     Authenticator
	// Stream backs the notification SSE endpoint. Nil disables it.
	Stream *realtime.Bus
	// CORSOrigin is the allowed browser origin. Empty disables CORS headers.
	CORSOrigin string
	// MCP is mounted at /mcp when set.
	MCP    http.Handler
	Logger *slog.Logger
}

// Server holds the HTTP handlers.
type Server struct {
	users         *user.Service
	projects      *project.Service
	activity      *activity.Service
	notifications *notification.Service
	auth          Authenticator
	stream        *realtime.Bus
	logger        *slog.Logger
}

// NewRouter creates the HTTP router with middleware.
func NewRouter(cfg Config) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		users:         cfg.Services.Users,
		projects:      cfg.Services.Projects,
		activity:      cfg.Services.Activity,
		notifications: cfg.Services.Notifications,
		auth:          cfg.Auth,
		stream:        cfg.Stream,
		logger:        logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	if cfg.CORSOrigin != "" {
		r.Use(cors(cfg.CORSOrigin))
	}

	r.Get("/health", s.handleHealth)
	if cfg.MCP != nil {
		r.Handle("/mcp", cfg.MCP)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", s.handleSignUp)
			r.Post("/signin", s.handleSignIn)
			r.With(s.AuthMiddleware).Get("/me", s.handleMe)
		})

		r.Route("/profile", func(r chi.Router) {
			r.Get("/{userId}", s.handleGetProfile)
			r.With(s.AuthMiddleware).Put("/", s.handleUpdateProfile)
			r.With(s.AuthMiddleware).Delete("/", s.handleDeleteAccount)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware)

			r.Route("/friends", func(r chi.Router) {
				r.Get("/", s.handleListFriends)
				r.Get("/search", s.handleSearchUsers)
				r.Get("/{friendId}/mutual", s.handleMutual)
				r.Post("/request", s.handleFriendRequest)
				r.Post("/accept", s.handleAcceptFriend)
				r.Post("/reject", s.handleRejectFriend)
				r.Post("/cancel", s.handleCancelFriend)
				r.Delete("/{friendId}", s.handleRemoveFriend)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", s.handleListNotifications)
				r.Get("/stream", s.handleNotificationStream)
				r.Put("/read-all", s.handleMarkAllRead)
				r.Put("/{id}/read", s.handleMarkRead)
				r.Delete("/{id}", s.handleDeleteNotification)
			})

			r.Route("/projects", func(r chi.Router) {
				r.Post("/", s.handleCreateProject)
				r.Get("/", s.handleListProjects)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetProject)
					r.Put("/", s.handleUpdateProject)
					r.Delete("/", s.handleDeleteProject)
					r.Post("/checkout", s.handleCheckOut)
					r.Post("/checkin", s.handleCheckIn)
					r.Post("/files", s.handleAddFiles)
					r.Post("/members", s.handleAddMember)
					r.Delete("/members/{memberId}", s.handleRemoveMember)
				})
			})

			r.Get("/activity", s.handleActivityFeed)
		})
	})

	return r
}

// handleHealth reports ok, or 503 when the realtime bus is configured but
// unreachable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.stream != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.stream.Ping(ctx); err != nil {
			s.logger.Warn("health check: redis unreachable", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("redis unavailable"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Add("Vary", "Origin")
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Mcp-Session-Id")
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
