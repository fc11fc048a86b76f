package project

import (
	"context"
	"time"

	"github.com/letzcode/letzcode-server/internal/domain/activity"
	"github.com/letzcode/letzcode-server/internal/domain/user"
)

// ListOptions filters project listings. MemberID restricts the result to
// projects whose member set contains that account.
type ListOptions struct {
	MemberID string
}

// Repository provides persistence for projects and their embedded lists.
type Repository interface {
	Create(ctx context.Context, p *Project) error
	Get(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context, opts ListOptions) ([]Summary, error)
	ListShared(ctx context.Context, userID, otherID string) ([]Summary, error)
	UpdateDetails(ctx context.Context, p *Project) error
	Delete(ctx context.Context, id string) error

	// MarkCheckedOut takes the lock only while the project is checked in.
	// It returns repository.ErrConflict when no row matched.
	MarkCheckedOut(ctx context.Context, id, holderID string, at time.Time) error
	// MarkCheckedIn releases the lock only while holderID holds it and sets
	// the version. It returns repository.ErrConflict when no row matched.
	MarkCheckedIn(ctx context.Context, id, holderID, version string, at time.Time) error
	AppendCheckIn(ctx context.Context, projectID string, ci *CheckIn) error
	AppendFiles(ctx context.Context, projectID string, files []FileRecord, at time.Time) error
	AddMember(ctx context.Context, projectID, userID string, at time.Time) error
	RemoveMember(ctx context.Context, projectID, userID string, at time.Time) error
}

// Directory resolves accounts and friendships for membership rules.
type Directory interface {
	Get(ctx context.Context, id string) (*user.User, error)
	AreFriends(ctx context.Context, userID, otherID string) (bool, error)
}

// Ledger records project activity. Append and DeleteByProject run in the
// caller's transaction; Announce runs after commit.
type Ledger interface {
	Append(ctx context.Context, entry *activity.Entry) error
	DeleteByProject(ctx context.Context, projectID string) error
	Announce(ctx context.Context, entry activity.Entry)
}
