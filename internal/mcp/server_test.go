package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/letzcode/letzcode-server/internal/auth"
	"github.com/letzcode/letzcode-server/internal/domain/activity"
	"github.com/letzcode/letzcode-server/internal/domain/notification"
	"github.com/letzcode/letzcode-server/internal/domain/project"
	"github.com/letzcode/letzcode-server/internal/domain/user"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

type staticAuth struct {
	token string
	actor *user.User
}

func (a staticAuth) Authenticate(_ context.Context, token string) (*user.User, error) {
	if token == "" {
		return nil, auth.ErrMissingToken
	}
	if token != a.token {
		return nil, auth.ErrInvalidToken
	}
	return a.actor, nil
}

type projectStub struct {
	listFn     func(context.Context, project.ListOptions) ([]project.Summary, error)
	getFn      func(context.Context, string) (*project.Project, error)
	checkOutFn func(context.Context, string, string) (*project.Project, error)
	checkInFn  func(context.Context, string, string, project.CheckInRequest) (*project.Project, error)
	addFilesFn func(context.Context, string, string, []project.FileInput) (*project.Project, error)
}

func (p projectStub) List(ctx context.Context, opts project.ListOptions) ([]project.Summary, error) {
	return p.listFn(ctx, opts)
}
func (p projectStub) Get(ctx context.Context, id string) (*project.Project, error) {
	return p.getFn(ctx, id)
}
func (p projectStub) CheckOut(ctx context.Context, id, actorID string) (*project.Project, error) {
	return p.checkOutFn(ctx, id, actorID)
}
func (p projectStub) CheckIn(ctx context.Context, id, actorID string, req project.CheckInRequest) (*project.Project, error) {
	return p.checkInFn(ctx, id, actorID, req)
}
func (p projectStub) AddFiles(ctx context.Context, id, actorID string, files []project.FileInput) (*project.Project, error) {
	return p.addFilesFn(ctx, id, actorID, files)
}

type activityStub struct {
	feedFn func(context.Context, activity.FeedOptions) ([]activity.FeedItem, error)
}

func (a activityStub) Feed(ctx context.Context, opts activity.FeedOptions) ([]activity.FeedItem, error) {
	return a.feedFn(ctx, opts)
}

type notificationStub struct {
	listFn func(context.Context, string) (*notification.Inbox, error)
}

func (n notificationStub) List(ctx context.Context, recipientID string) (*notification.Inbox, error) {
	return n.listFn(ctx, recipientID)
}

func connect(t *testing.T, services Services, token string) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	server := NewServer(Config{
		Services: services,
		Auth:     staticAuth{token: "good", actor: &user.User{ID: "alice", Name: "Alice"}},
		Token:    token,
	})

	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func textOf(t *testing.T, res *sdkmcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func heldProject(id, holder string) *project.Project {
	return &project.Project{
		ID:           id,
		Name:         "Demo",
		OwnerID:      holder,
		Members:      []string{holder},
		Status:       project.StatusCheckedOut,
		CheckedOutBy: &holder,
		Version:      project.DefaultVersion,
		CreatedAt:    time.Now().UTC(),
		LastUpdated:  time.Now().UTC(),
	}
}

func TestTools_Listed(t *testing.T) {
	session := connect(t, Services{}, "good")

	res, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	require.ElementsMatch(t, []string{
		"list_projects", "get_project", "check_out_project", "check_in_project",
		"add_project_files", "get_activity_feed", "list_notifications",
	}, names)
}

func TestCheckOutTool(t *testing.T) {
	var gotActor string
	services := Services{Projects: projectStub{
		checkOutFn: func(_ context.Context, id, actorID string) (*project.Project, error) {
			gotActor = actorID
			return heldProject(id, actorID), nil
		},
	}}
	session := connect(t, services, "good")

	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      "check_out_project",
		Arguments: map[string]any{"id": "p1"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Equal(t, "alice", gotActor)

	var out project.Project
	require.NoError(t, json.Unmarshal([]byte(textOf(t, res)), &out))
	require.Equal(t, project.StatusCheckedOut, out.Status)
	require.Equal(t, "alice", *out.CheckedOutBy)
}

func TestCheckOutTool_DomainError(t *testing.T) {
	services := Services{Projects: projectStub{
		checkOutFn: func(context.Context, string, string) (*project.Project, error) {
			return nil, project.ErrAlreadyCheckedOut
		},
	}}
	session := connect(t, services, "good")

	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      "check_out_project",
		Arguments: map[string]any{"id": "p1"},
	})
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.Contains(t, textOf(t, res), "ALREADY_CHECKED_OUT")
}

func TestCheckInTool_PassesRequest(t *testing.T) {
	var got project.CheckInRequest
	services := Services{Projects: projectStub{
		checkInFn: func(_ context.Context, id, _ string, req project.CheckInRequest) (*project.Project, error) {
			got = req
			p := heldProject(id, "alice")
			p.Status = project.StatusCheckedIn
			p.CheckedOutBy = nil
			return p, nil
		},
	}}
	session := connect(t, services, "good")

	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name: "check_in_project",
		Arguments: map[string]any{
			"id":      "p1",
			"message": "fixed bug",
			"version": "1.0.1",
			"files":   []map[string]any{{"name": "main.go", "size": "2KB"}},
		},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Equal(t, "fixed bug", got.Message)
	require.Equal(t, "1.0.1", got.Version)
	require.Equal(t, []project.FileInput{{Name: "main.go", Size: "2KB"}}, got.Files)
}

func TestTool_UnexpectedErrorIsInternal(t *testing.T) {
	services := Services{Projects: projectStub{
		getFn: func(context.Context, string) (*project.Project, error) {
			return nil, errors.New("disk on fire")
		},
	}}
	session := connect(t, services, "good")

	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      "get_project",
		Arguments: map[string]any{"id": "p1"},
	})
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.Contains(t, textOf(t, res), "INTERNAL")
	require.NotContains(t, textOf(t, res), "disk on fire")
}

func TestActivityFeedTool_UsesActor(t *testing.T) {
	var got activity.FeedOptions
	services := Services{Activity: activityStub{
		feedFn: func(_ context.Context, opts activity.FeedOptions) ([]activity.FeedItem, error) {
			got = opts
			return []activity.FeedItem{}, nil
		},
	}}
	session := connect(t, services, "good")

	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      "get_activity_feed",
		Arguments: map[string]any{"scope": "global", "limit": 5},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Equal(t, "alice", got.ViewerID)
	require.Equal(t, activity.ScopeGlobal, got.Scope)
	require.Equal(t, 5, got.Limit)
}

func TestListNotificationsTool(t *testing.T) {
	var gotRecipient string
	services := Services{Notifications: notificationStub{
		listFn: func(_ context.Context, recipientID string) (*notification.Inbox, error) {
			gotRecipient = recipientID
			return &notification.Inbox{Notifications: []notification.Notification{}, UnreadCount: 3}, nil
		},
	}}
	session := connect(t, services, "good")

	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: "list_notifications"})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Equal(t, "alice", gotRecipient)

	var inbox notification.Inbox
	require.NoError(t, json.Unmarshal([]byte(textOf(t, res)), &inbox))
	require.Equal(t, 3, inbox.UnreadCount)
}

func TestAuth_BadToken(t *testing.T) {
	session := connect(t, Services{}, "bad")

	_, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: "list_notifications"})
	require.Error(t, err)
}

func TestMapError(t *testing.T) {
	require.Nil(t, MapError(nil))
	require.Nil(t, MapError(errors.New("other")))
	require.Equal(t, "NOT_LOCK_HOLDER", MapError(project.ErrNotLockHolder).Code)
	require.Equal(t, "PROJECT_NOT_FOUND", MapError(project.ErrProjectNotFound).Code)
	require.Equal(t, "UNAUTHORIZED", MapError(auth.ErrExpiredToken).Code)
}
