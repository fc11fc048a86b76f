package notification

import "time"

// Type identifies the social event behind a notification.
type Type string

const (
	TypeFriendRequest Type = "friend-request"
	TypeFriendAccept  Type = "friend-accept"
)

// Sender is the public card of the account that triggered a notification.
type Sender struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Username     string `json:"username"`
	ProfileImage string `json:"profileImage"`
}

// Notification is addressed to one recipient. Only Read changes after creation.
type Notification struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipient"`
	SenderID    string    `json:"-"`
	Sender      *Sender   `json:"sender,omitempty"`
	Type        Type      `json:"type"`
	Message     string    `json:"message"`
	Link        string    `json:"link,omitempty"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Inbox is a recipient's newest notifications plus the total unread count.
type Inbox struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unreadCount"`
}
