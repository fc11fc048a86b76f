package notification

import "errors"

var (
	// ErrNotificationNotFound indicates the notification doesn't exist or
	// belongs to another recipient.
	ErrNotificationNotFound = errors.New("notification not found")
	// ErrInvalidInput indicates an incomplete notification.
	ErrInvalidInput = errors.New("invalid notification input")
)
