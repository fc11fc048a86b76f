package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/letzcode/letzcode-server/internal/domain/notification"
	"github.com/letzcode/letzcode-server/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestNotificationRepository_Lifecycle(t *testing.T) {
	db := NewTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()
	seedUser(t, db, "alice", "Alice")
	seedUser(t, db, "bob", "Bob")

	now := time.Now().UTC()
	for i, id := range []string{"n1", "n2"} {
		require.NoError(t, repo.Create(ctx, &notification.Notification{
			ID:          id,
			RecipientID: "bob",
			SenderID:    "alice",
			Type:        notification.TypeFriendRequest,
			Message:     "Alice sent you a friend request",
			Link:        "/profile/alice",
			CreatedAt:   now.Add(time.Duration(i) * time.Second),
		}))
	}

	list, err := repo.List(ctx, "bob", 50)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "n2", list[0].ID)
	require.NotNil(t, list[0].Sender)
	require.Equal(t, "Alice", list[0].Sender.Name)
	require.Equal(t, "alice", list[0].Sender.ID)

	unread, err := repo.CountUnread(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, 2, unread)

	_, err = repo.MarkRead(ctx, "alice", "n1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	n, err := repo.MarkRead(ctx, "bob", "n1")
	require.NoError(t, err)
	require.True(t, n.Read)

	updated, err := repo.MarkAllRead(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, int64(1), updated)

	unread, err = repo.CountUnread(ctx, "bob")
	require.NoError(t, err)
	require.Zero(t, unread)

	require.ErrorIs(t, repo.Delete(ctx, "alice", "n1"), repository.ErrNotFound)
	require.NoError(t, repo.Delete(ctx, "bob", "n1"))

	list, err = repo.List(ctx, "bob", 50)
	require.NoError(t, err)
	require.Len(t, list, 1)
}
