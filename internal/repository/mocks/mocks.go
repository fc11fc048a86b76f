package mocks

import (
	"context"
	"time"

	"github.com/letzcode/letzcode-server/internal/domain/activity"
	"github.com/letzcode/letzcode-server/internal/domain/notification"
	"github.com/letzcode/letzcode-server/internal/domain/project"
	"github.com/letzcode/letzcode-server/internal/domain/user"
	"github.com/stretchr/testify/mock"
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context, opts project.ListOptions) ([]project.Summary, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]project.Summary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) ListShared(ctx context.Context, userID, otherID string) ([]project.Summary, error) {
	args := m.Called(ctx, userID, otherID)
	if list, ok := args.Get(0).([]project.Summary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) UpdateDetails(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ProjectRepository) MarkCheckedOut(ctx context.Context, id, holderID string, at time.Time) error {
	args := m.Called(ctx, id, holderID, at)
	return args.Error(0)
}

func (m *ProjectRepository) MarkCheckedIn(ctx context.Context, id, holderID, version string, at time.Time) error {
	args := m.Called(ctx, id, holderID, version, at)
	return args.Error(0)
}

func (m *ProjectRepository) AppendCheckIn(ctx context.Context, projectID string, ci *project.CheckIn) error {
	args := m.Called(ctx, projectID, ci)
	return args.Error(0)
}

func (m *ProjectRepository) AppendFiles(ctx context.Context, projectID string, files []project.FileRecord, at time.Time) error {
	args := m.Called(ctx, projectID, files, at)
	return args.Error(0)
}

func (m *ProjectRepository) AddMember(ctx context.Context, projectID, userID string, at time.Time) error {
	args := m.Called(ctx, projectID, userID, at)
	return args.Error(0)
}

func (m *ProjectRepository) RemoveMember(ctx context.Context, projectID, userID string, at time.Time) error {
	args := m.Called(ctx, projectID, userID, at)
	return args.Error(0)
}

// UserRepository is a mock for user.Repository. It also satisfies
// project.Directory.
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *UserRepository) Get(ctx context.Context, id string) (*user.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*user.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*user.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	args := m.Called(ctx, username)
	if u, ok := args.Get(0).(*user.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) GetSummaries(ctx context.Context, ids []string) (map[string]user.Summary, error) {
	args := m.Called(ctx, ids)
	if s, ok := args.Get(0).(map[string]user.Summary); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) Update(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *UserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *UserRepository) Search(ctx context.Context, excludeID, query string, limit int) ([]user.User, error) {
	args := m.Called(ctx, excludeID, query, limit)
	if list, ok := args.Get(0).([]user.User); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) AreFriends(ctx context.Context, userID, otherID string) (bool, error) {
	args := m.Called(ctx, userID, otherID)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepository) HasFriendRequest(ctx context.Context, fromID, toID string) (bool, error) {
	args := m.Called(ctx, fromID, toID)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepository) AddFriendRequest(ctx context.Context, fromID, toID string, at time.Time) error {
	args := m.Called(ctx, fromID, toID, at)
	return args.Error(0)
}

func (m *UserRepository) DeleteFriendRequest(ctx context.Context, fromID, toID string) error {
	args := m.Called(ctx, fromID, toID)
	return args.Error(0)
}

func (m *UserRepository) AddFriendship(ctx context.Context, userID, otherID string, at time.Time) error {
	args := m.Called(ctx, userID, otherID, at)
	return args.Error(0)
}

func (m *UserRepository) DeleteFriendship(ctx context.Context, userID, otherID string) error {
	args := m.Called(ctx, userID, otherID)
	return args.Error(0)
}

func (m *UserRepository) ListFriends(ctx context.Context, userID string) ([]user.Summary, error) {
	return m.summaries(m.Called(ctx, userID))
}

func (m *UserRepository) ListIncomingRequests(ctx context.Context, userID string) ([]user.Summary, error) {
	return m.summaries(m.Called(ctx, userID))
}

func (m *UserRepository) ListOutgoingRequests(ctx context.Context, userID string) ([]user.Summary, error) {
	return m.summaries(m.Called(ctx, userID))
}

func (m *UserRepository) ListMutualFriends(ctx context.Context, userID, otherID string) ([]user.Summary, error) {
	return m.summaries(m.Called(ctx, userID, otherID))
}

func (m *UserRepository) summaries(args mock.Arguments) ([]user.Summary, error) {
	if list, ok := args.Get(0).([]user.Summary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Append(ctx context.Context, entry *activity.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) DeleteByProject(ctx context.Context, projectID string) (int64, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityRepository) Feed(ctx context.Context, opts activity.FeedOptions) ([]activity.FeedItem, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.FeedItem); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// NotificationRepository is a mock for notification.Repository.
type NotificationRepository struct {
	mock.Mock
}

func (m *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *NotificationRepository) List(ctx context.Context, recipientID string, limit int) ([]notification.Notification, error) {
	args := m.Called(ctx, recipientID, limit)
	if list, ok := args.Get(0).([]notification.Notification); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *NotificationRepository) CountUnread(ctx context.Context, recipientID string) (int, error) {
	args := m.Called(ctx, recipientID)
	return args.Int(0), args.Error(1)
}

func (m *NotificationRepository) MarkRead(ctx context.Context, recipientID, id string) (*notification.Notification, error) {
	args := m.Called(ctx, recipientID, id)
	if n, ok := args.Get(0).(*notification.Notification); ok {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *NotificationRepository) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationRepository) Delete(ctx context.Context, recipientID, id string) error {
	args := m.Called(ctx, recipientID, id)
	return args.Error(0)
}

// Ledger is a mock for project.Ledger.
type Ledger struct {
	mock.Mock
}

func (m *Ledger) Append(ctx context.Context, entry *activity.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *Ledger) DeleteByProject(ctx context.Context, projectID string) error {
	args := m.Called(ctx, projectID)
	return args.Error(0)
}

func (m *Ledger) Announce(ctx context.Context, entry activity.Entry) {
	m.Called(ctx, entry)
}
