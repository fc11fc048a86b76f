package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/letzcode/letzcode-server/internal/repository"
)

// InboxLimit caps how many notifications List returns.
const InboxLimit = 50

// Service handles notification operations.
type Service struct {
	repo      Repository
	publisher Publisher
	logger    *slog.Logger
}

// NewService creates a new notification service. publisher may be nil.
func NewService(repo Repository, publisher Publisher, logger *slog.Logger) *Service {
	return &Service{repo: repo, publisher: publisher, logger: logger}
}

// Notify stores a notification. It runs inside the caller's transaction
// when ctx carries one.
func (s *Service) Notify(ctx context.Context, n *Notification) error {
	if n == nil || strings.TrimSpace(n.RecipientID) == "" || strings.TrimSpace(n.SenderID) == "" {
		return ErrInvalidInput
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("creating notification: %w", err)
	}
	return nil
}

// Announce publishes a committed notification. Failures are logged only.
func (s *Service) Announce(ctx context.Context, n Notification) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishNotification(ctx, n); err != nil && s.logger != nil {
		s.logger.Warn("failed to publish notification", "notification_id", n.ID, "recipient", n.RecipientID, "error", err)
	}
}

// List returns the recipient's newest notifications and unread count.
func (s *Service) List(ctx context.Context, recipientID string) (*Inbox, error) {
	items, err := s.repo.List(ctx, recipientID, InboxLimit)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	unread, err := s.repo.CountUnread(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("counting unread notifications: %w", err)
	}
	if items == nil {
		items = []Notification{}
	}
	return &Inbox{Notifications: items, UnreadCount: unread}, nil
}

// MarkRead flags one notification as read.
func (s *Service) MarkRead(ctx context.Context, recipientID, id string) (*Notification, error) {
	n, err := s.repo.MarkRead(ctx, recipientID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("marking notification read: %w", err)
	}
	return n, nil
}

// MarkAllRead flags every unread notification of the recipient as read.
func (s *Service) MarkAllRead(ctx context.Context, recipientID string) error {
	if _, err := s.repo.MarkAllRead(ctx, recipientID); err != nil {
		return fmt.Errorf("marking notifications read: %w", err)
	}
	return nil
}

// Delete removes one notification owned by the recipient.
func (s *Service) Delete(ctx context.Context, recipientID, id string) error {
	if err := s.repo.Delete(ctx, recipientID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("deleting notification: %w", err)
	}
	return nil
}
