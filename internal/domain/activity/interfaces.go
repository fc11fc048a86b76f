package activity

import "context"

// Repository provides persistence operations for the ledger.
type Repository interface {
	Append(ctx context.Context, entry *Entry) error
	DeleteByProject(ctx context.Context, projectID string) (int64, error)
	List(ctx context.Context, opts ListOptions) ([]Entry, error)
	Feed(ctx context.Context, opts FeedOptions) ([]FeedItem, error)
}

// Publisher pushes committed entries to live subscribers.
type Publisher interface {
	PublishActivity(ctx context.Context, entry Entry) error
}
