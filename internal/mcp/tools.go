package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/letzcode/letzcode-server/internal/domain/activity"
	"github.com/letzcode/letzcode-server/internal/domain/project"
	"github.com/letzcode/letzcode-server/internal/domain/user"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type listProjectsInput struct {
	Mine   bool   `json:"mine,omitempty" jsonschema:"only projects you are a member of"`
	UserID string `json:"user_id,omitempty" jsonschema:"only projects this account is a member of"`
}

type projectIDInput struct {
	ID string `json:"id" jsonschema:"project id"`
}

type fileInput struct {
	Name string `json:"name" jsonschema:"file name; the path becomes /name"`
	Size string `json:"size,omitempty" jsonschema:"human readable size"`
}

type checkInInput struct {
	ID      string      `json:"id" jsonschema:"project id"`
	Message string      `json:"message" jsonschema:"what changed"`
	Version string      `json:"version,omitempty" jsonschema:"new version; the current one is kept when omitted"`
	Files   []fileInput `json:"files,omitempty" jsonschema:"file metadata to attach"`
}

type addFilesInput struct {
	ID    string      `json:"id" jsonschema:"project id"`
	Files []fileInput `json:"files" jsonschema:"file metadata to attach"`
}

type activityFeedInput struct {
	Scope string `json:"scope,omitempty" jsonschema:"local (you and your friends, default) or global"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum entries, default 50"`
}

type emptyInput struct{}

// toolHandler is a tool body that runs with the authenticated account.
type toolHandler[In any] func(ctx context.Context, actor *user.User, in In) (any, error)

func registerTools(server *sdkmcp.Server, svc Services, logger *slog.Logger) {
	addTool(server, logger, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List projects, optionally only those you or another account belong to",
	}, func(ctx context.Context, actor *user.User, in listProjectsInput) (any, error) {
		var opts project.ListOptions
		switch {
		case in.Mine:
			opts.MemberID = actor.ID
		case in.UserID != "":
			opts.MemberID = in.UserID
		}
		projects, err := svc.Projects.List(ctx, opts)
		if err != nil {
			return nil, err
		}
		return map[string]any{"projects": projects}, nil
	})

	addTool(server, logger, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get a project with its members, files and check-in history",
	}, func(ctx context.Context, _ *user.User, in projectIDInput) (any, error) {
		return svc.Projects.Get(ctx, in.ID)
	})

	addTool(server, logger, &sdkmcp.Tool{
		Name:        "check_out_project",
		Description: "Take the edit lock on a project you are a member of",
	}, func(ctx context.Context, actor *user.User, in projectIDInput) (any, error) {
		return svc.Projects.CheckOut(ctx, in.ID, actor.ID)
	})

	addTool(server, logger, &sdkmcp.Tool{
		Name:        "check_in_project",
		Description: "Release the edit lock you hold, recording a message, optional version and files",
	}, func(ctx context.Context, actor *user.User, in checkInInput) (any, error) {
		return svc.Projects.CheckIn(ctx, in.ID, actor.ID, project.CheckInRequest{
			Message: in.Message,
			Version: in.Version,
			Files:   toFileInputs(in.Files),
		})
	})

	addTool(server, logger, &sdkmcp.Tool{
		Name:        "add_project_files",
		Description: "Attach file metadata to a project without taking the lock",
	}, func(ctx context.Context, actor *user.User, in addFilesInput) (any, error) {
		return svc.Projects.AddFiles(ctx, in.ID, actor.ID, toFileInputs(in.Files))
	})

	addTool(server, logger, &sdkmcp.Tool{
		Name:        "get_activity_feed",
		Description: "Recent project activity, newest first",
	}, func(ctx context.Context, actor *user.User, in activityFeedInput) (any, error) {
		items, err := svc.Activity.Feed(ctx, activity.FeedOptions{
			ViewerID: actor.ID,
			Scope:    activity.Scope(in.Scope),
			Limit:    in.Limit,
		})
		if err != nil {
			return nil, err
		}
		return map[string]any{"activities": items}, nil
	})

	addTool(server, logger, &sdkmcp.Tool{
		Name:        "list_notifications",
		Description: "Your newest notifications and unread count",
	}, func(ctx context.Context, actor *user.User, _ emptyInput) (any, error) {
		return svc.Notifications.List(ctx, actor.ID)
	})
}

// addTool registers fn and renders its result as JSON text. Domain errors
// become tool errors; anything else is logged and reported as INTERNAL.
func addTool[In any](server *sdkmcp.Server, logger *slog.Logger, tool *sdkmcp.Tool, fn toolHandler[In]) {
	sdkmcp.AddTool(server, tool, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in In) (*sdkmcp.CallToolResult, any, error) {
		actor, ok := actorFromContext(ctx)
		if !ok {
			return nil, nil, errUnauthorized
		}

		out, err := fn(ctx, actor, in)
		if err != nil {
			if mapped := MapError(err); mapped != nil {
				return nil, nil, mapped
			}
			logger.Error("mcp tool failed", "tool", tool.Name, "user_id", actor.ID, "error", err)
			return nil, nil, &APIError{Code: "INTERNAL", Message: "Internal error"}
		}

		data, err := json.Marshal(out)
		if err != nil {
			return nil, nil, fmt.Errorf("encoding %s result: %w", tool.Name, err)
		}
		return &sdkmcp.CallToolResult{
			Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
		}, nil, nil
	})
}

func toFileInputs(files []fileInput) []project.FileInput {
	out := make([]project.FileInput, 0, len(files))
	for _, f := range files {
		out = append(out, project.FileInput{Name: f.Name, Size: f.Size})
	}
	return out
}
