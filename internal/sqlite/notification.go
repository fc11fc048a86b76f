package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/letzcode/letzcode-server/internal/domain/notification"
	"github.com/letzcode/letzcode-server/internal/repository"
)

// NotificationRepository implements notification.Repository for SQLite
type NotificationRepository struct {
	db *DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

const notificationSelect = `
	SELECT n.id, n.recipient_id, n.sender_id, n.type, n.message, n.link, n.read, n.created_at,
		s.name, s.username, s.profile_image
	FROM notifications n
	JOIN users s ON s.id = n.sender_id
`

func scanNotification(row rowScanner) (*notification.Notification, error) {
	var (
		n      notification.Notification
		sender notification.Sender
	)
	err := row.Scan(
		&n.ID,
		&n.RecipientID,
		&n.SenderID,
		&n.Type,
		&n.Message,
		&n.Link,
		&n.Read,
		&n.CreatedAt,
		&sender.Name,
		&sender.Username,
		&sender.ProfileImage,
	)
	if err != nil {
		return nil, err
	}
	sender.ID = n.SenderID
	n.Sender = &sender
	return &n, nil
}

// Create inserts a notification
func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	query := `
		INSERT INTO notifications (id, recipient_id, sender_id, type, message, link, read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.conn(ctx).ExecContext(ctx, query,
		n.ID,
		n.RecipientID,
		n.SenderID,
		n.Type,
		n.Message,
		n.Link,
		n.Read,
		n.CreatedAt,
	)
	if err != nil {
		if mapped := constraintError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// List returns the recipient's notifications newest first
func (r *NotificationRepository) List(ctx context.Context, recipientID string, limit int) ([]notification.Notification, error) {
	query := notificationSelect + `
		WHERE n.recipient_id = ?
		ORDER BY n.created_at DESC, n.rowid DESC
		LIMIT ?
	`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, recipientID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var list []notification.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		list = append(list, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification rows: %w", err)
	}
	return list, nil
}

// CountUnread counts unread notifications for the recipient
func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID string) (int, error) {
	var count int
	err := r.db.conn(ctx).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id = ? AND read = 0`, recipientID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return count, nil
}

// MarkRead flags one notification as read and returns it
func (r *NotificationRepository) MarkRead(ctx context.Context, recipientID, id string) (*notification.Notification, error) {
	result, err := r.db.conn(ctx).ExecContext(ctx,
		`UPDATE notifications SET read = 1 WHERE id = ? AND recipient_id = ?`, id, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark notification read: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return nil, err
	}

	n, err := scanNotification(r.db.conn(ctx).QueryRowContext(ctx,
		notificationSelect+` WHERE n.id = ? AND n.recipient_id = ?`, id, recipientID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return n, nil
}

// MarkAllRead flags every unread notification of the recipient as read
func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	result, err := r.db.conn(ctx).ExecContext(ctx,
		`UPDATE notifications SET read = 1 WHERE recipient_id = ? AND read = 0`, recipientID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

// Delete removes a notification owned by the recipient
func (r *NotificationRepository) Delete(ctx context.Context, recipientID, id string) error {
	result, err := r.db.conn(ctx).ExecContext(ctx,
		`DELETE FROM notifications WHERE id = ? AND recipient_id = ?`, id, recipientID)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return requireAffected(result)
}
