// Package app assembles repositories, services and transports into a
// running LetzCode server.
package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/letzcode/letzcode-server/internal/auth"
	"github.com/letzcode/letzcode-server/internal/domain/activity"
	"github.com/letzcode/letzcode-server/internal/domain/notification"
	"github.com/letzcode/letzcode-server/internal/domain/project"
	"github.com/letzcode/letzcode-server/internal/domain/user"
	"github.com/letzcode/letzcode-server/internal/mcp"
	"github.com/letzcode/letzcode-server/internal/realtime"
	"github.com/letzcode/letzcode-server/internal/sqlite"
	"github.com/letzcode/letzcode-server/internal/transport"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Options configures New.
type Options struct {
	DB *sqlite.DB
	// Bus enables realtime fan-out. Nil disables it.
	Bus        *realtime.Bus
	JWTSecret  string
	TokenTTL   time.Duration
	CORSOrigin string
	// EnableMCP mounts the streamable MCP handler at /mcp.
	EnableMCP bool
	// MCPToken authenticates MCP calls on header-less transports.
	MCPToken string
	Logger   *slog.Logger
}

// App is a fully wired server.
type App struct {
	Users         *user.Service
	Projects      *project.Service
	Activity      *activity.Service
	Notifications *notification.Service
	Tokens        *auth.Tokens
	Auth          *auth.Authenticator
	MCP           *sdkmcp.Server
	Handler       http.Handler
}

// New wires the application.
func New(opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	userRepo := sqlite.NewUserRepository(opts.DB)
	projectRepo := sqlite.NewProjectRepository(opts.DB)
	activityRepo := sqlite.NewActivityRepository(opts.DB)
	notificationRepo := sqlite.NewNotificationRepository(opts.DB)

	// A nil *Bus must not become a non-nil publisher interface.
	var (
		activityPublisher     activity.Publisher
		notificationPublisher notification.Publisher
	)
	if opts.Bus != nil {
		activityPublisher = opts.Bus
		notificationPublisher = opts.Bus
	}

	tokens := auth.NewTokens(opts.JWTSecret, opts.TokenTTL)

	activitySvc := activity.NewService(activityRepo, activityPublisher, logger)
	notificationSvc := notification.NewService(notificationRepo, notificationPublisher, logger)
	userSvc := user.NewService(userRepo, notificationSvc, auth.NewPasswords(), tokens, opts.DB, logger)
	projectSvc := project.NewService(projectRepo, userSvc, activitySvc, opts.DB, logger)

	authenticator := auth.NewAuthenticator(tokens, auth.NewActorCache(userSvc))

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects:      projectSvc,
			Activity:      activitySvc,
			Notifications: notificationSvc,
		},
		Auth:   authenticator,
		Token:  opts.MCPToken,
		Logger: logger,
	})

	var mcpHandler http.Handler
	if opts.EnableMCP {
		mcpHandler = mcp.NewHTTPHandler(mcpServer)
	}

	router := transport.NewRouter(transport.Config{
		Services: transport.Services{
			Users:         userSvc,
			Projects:      projectSvc,
			Activity:      activitySvc,
			Notifications: notificationSvc,
		},
		Auth:       authenticator,
		Stream:     opts.Bus,
		CORSOrigin: opts.CORSOrigin,
		MCP:        mcpHandler,
		Logger:     logger,
	})

	return &App{
		Users:         userSvc,
		Projects:      projectSvc,
		Activity:      activitySvc,
		Notifications: notificationSvc,
		Tokens:        tokens,
		Auth:          authenticator,
		MCP:           mcpServer,
		Handler:       router,
	}
}
