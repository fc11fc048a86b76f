package user

import (
	"context"
	"time"

	"github.com/letzcode/letzcode-server/internal/domain/notification"
)

// Repository provides persistence for accounts and the friend graph.
type Repository interface {
	Create(ctx context.Context, u *User) error
	Get(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetSummaries(ctx context.Context, ids []string) (map[string]Summary, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, excludeID, query string, limit int) ([]User, error)

	AreFriends(ctx context.Context, userID, otherID string) (bool, error)
	HasFriendRequest(ctx context.Context, fromID, toID string) (bool, error)
	AddFriendRequest(ctx context.Context, fromID, toID string, at time.Time) error
	DeleteFriendRequest(ctx context.Context, fromID, toID string) error
	AddFriendship(ctx context.Context, userID, otherID string, at time.Time) error
	DeleteFriendship(ctx context.Context, userID, otherID string) error
	ListFriends(ctx context.Context, userID string) ([]Summary, error)
	ListIncomingRequests(ctx context.Context, userID string) ([]Summary, error)
	ListOutgoingRequests(ctx context.Context, userID string) ([]Summary, error)
	ListMutualFriends(ctx context.Context, userID, otherID string) ([]Summary, error)
}

// Notifier records social notifications and announces them once committed.
type Notifier interface {
	Notify(ctx context.Context, n *notification.Notification) error
	Announce(ctx context.Context, n notification.Notification)
}

// PasswordHasher hashes and verifies credentials.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer issues bearer tokens for an account.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}
