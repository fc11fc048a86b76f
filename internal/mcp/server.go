// Package mcp exposes the checkout workflow as Model Context Protocol tools.
package mcp

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/letzcode/letzcode-server/internal/domain/activity"
	"github.com/letzcode/letzcode-server/internal/domain/notification"
	"github.com/letzcode/letzcode-server/internal/domain/project"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	List(ctx context.Context, opts project.ListOptions) ([]project.Summary, error)
	Get(ctx context.Context, id string) (*project.Project, error)
	CheckOut(ctx context.Context, id, actorID string) (*project.Project, error)
	CheckIn(ctx context.Context, id, actorID string, req project.CheckInRequest) (*project.Project, error)
	AddFiles(ctx context.Context, id, actorID string, files []project.FileInput) (*project.Project, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	Feed(ctx context.Context, opts activity.FeedOptions) ([]activity.FeedItem, error)
}

// NotificationService defines notification operations needed by MCP.
type NotificationService interface {
	List(ctx context.Context, recipientID string) (*notification.Inbox, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Projects      ProjectService
	Activity      ActivityService
	Notifications NotificationService
}

// Config contains server configuration.
type Config struct {
	Services Services
	Auth     Authenticator
	// Token authenticates requests whose transport carries no headers.
	Token  string
	Logger *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "letzcode",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       logger,
	})

	registerDocResources(server)

	// Later middleware runs first, so auth wraps the traffic logger.
	server.AddReceivingMiddleware(trafficLoggingMiddleware(logger))
	server.AddReceivingMiddleware(authMiddleware(cfg.Auth, cfg.Token))

	registerTools(server, cfg.Services, logger)

	return server
}

// NewHTTPHandler serves server over streamable HTTP.
func NewHTTPHandler(server *sdkmcp.Server) http.Handler {
	return sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return server },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)
}
