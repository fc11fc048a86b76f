package notification

import "context"

// Repository provides persistence for notifications. Every lookup is scoped
// to the recipient.
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	List(ctx context.Context, recipientID string, limit int) ([]Notification, error)
	CountUnread(ctx context.Context, recipientID string) (int, error)
	MarkRead(ctx context.Context, recipientID, id string) (*Notification, error)
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)
	Delete(ctx context.Context, recipientID, id string) error
}

// Publisher pushes committed notifications to live subscribers.
type Publisher interface {
	PublishNotification(ctx context.Context, n Notification) error
}
