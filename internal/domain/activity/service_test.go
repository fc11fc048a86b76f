package activity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/letzcode/letzcode-server/internal/domain/activity"
	"github.com/letzcode/letzcode-server/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type publisherStub struct {
	published []activity.Entry
	err       error
}

func (p *publisherStub) PublishActivity(_ context.Context, entry activity.Entry) error {
	p.published = append(p.published, entry)
	return p.err
}

func TestActivityService_AppendSetsTimestamp(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ActivityRepository{}
	entry := &activity.Entry{
		Type:      activity.TypeCheckOut,
		UserID:    "user1",
		ProjectID: "proj1",
		Message:   "Checked out project",
	}
	repo.On("Append", ctx, entry).Return(nil)

	svc := activity.NewService(repo, nil, nil)
	require.NoError(t, svc.Append(ctx, entry))
	require.False(t, entry.Timestamp.IsZero())
	repo.AssertExpectations(t)
}

func TestActivityService_AppendValidation(t *testing.T) {
	ctx := context.Background()
	svc := activity.NewService(&mocks.ActivityRepository{}, nil, nil)

	require.ErrorIs(t, svc.Append(ctx, nil), activity.ErrInvalidInput)
	require.ErrorIs(t, svc.Append(ctx, &activity.Entry{Type: "merge", UserID: "u", ProjectID: "p"}), activity.ErrInvalidInput)
	require.ErrorIs(t, svc.Append(ctx, &activity.Entry{Type: activity.TypeCreate, ProjectID: "p"}), activity.ErrInvalidInput)
	require.ErrorIs(t, svc.Append(ctx, &activity.Entry{Type: activity.TypeCreate, UserID: "u"}), activity.ErrInvalidInput)
}

func TestActivityService_FeedNormalizesOptions(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ActivityRepository{}
	repo.On("Feed", ctx, activity.FeedOptions{
		ViewerID: "user1",
		Scope:    activity.ScopeLocal,
		Sort:     activity.SortDate,
		Limit:    activity.DefaultFeedLimit,
	}).Return(nil, nil).Once()
	repo.On("Feed", ctx, activity.FeedOptions{
		ViewerID: "user1",
		Scope:    activity.ScopeGlobal,
		Sort:     activity.SortPopularity,
		Limit:    activity.MaxFeedLimit,
	}).Return([]activity.FeedItem{{ID: 1}}, nil).Once()

	svc := activity.NewService(repo, nil, nil)

	items, err := svc.Feed(ctx, activity.FeedOptions{ViewerID: "user1"})
	require.NoError(t, err)
	require.NotNil(t, items)
	require.Empty(t, items)

	items, err = svc.Feed(ctx, activity.FeedOptions{
		ViewerID: "user1",
		Scope:    "everyone",
		Sort:     activity.SortPopularity,
		Limit:    10000,
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	repo.AssertExpectations(t)
}

func TestActivityService_History(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ActivityRepository{}
	repo.On("List", ctx, activity.ListOptions{ProjectID: "proj1", Limit: activity.DefaultFeedLimit}).
		Return([]activity.Entry{{ID: 2}, {ID: 1}}, nil)

	svc := activity.NewService(repo, nil, nil)
	entries, err := svc.History(ctx, activity.ListOptions{ProjectID: "proj1"})
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestActivityService_DeleteByProject(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ActivityRepository{}
	repo.On("DeleteByProject", ctx, "proj1").Return(int64(3), nil)

	svc := activity.NewService(repo, nil, nil)
	require.NoError(t, svc.DeleteByProject(ctx, "proj1"))
	repo.AssertExpectations(t)
}

func TestActivityService_AnnounceIgnoresPublishFailure(t *testing.T) {
	ctx := context.Background()

	pub := &publisherStub{err: errors.New("redis down")}
	svc := activity.NewService(&mocks.ActivityRepository{}, pub, nil)
	svc.Announce(ctx, activity.Entry{ID: 7, ProjectID: "proj1"})
	require.Len(t, pub.published, 1)

	// A nil publisher is a no-op.
	activity.NewService(&mocks.ActivityRepository{}, nil, nil).Announce(ctx, activity.Entry{})
}

func TestActivityService_RepoErrorIsWrapped(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	repo := &mocks.ActivityRepository{}
	repo.On("Append", ctx, mock.Anything).Return(boom)

	svc := activity.NewService(repo, nil, nil)
	err := svc.Append(ctx, &activity.Entry{Type: activity.TypeUpdate, UserID: "u", ProjectID: "p"})
	require.ErrorIs(t, err, boom)
}
