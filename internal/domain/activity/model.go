package activity

import "time"

// Type represents the kind of project event recorded in the ledger
type Type string

const (
	TypeCheckIn  Type = "check-in"
	TypeCheckOut Type = "check-out"
	TypeCreate   Type = "create"
	TypeUpdate   Type = "update"
	TypeDelete   Type = "delete"
)

// Valid reports whether t is a known activity type.
func (t Type) Valid() bool {
	switch t {
	case TypeCheckIn, TypeCheckOut, TypeCreate, TypeUpdate, TypeDelete:
		return true
	}
	return false
}

// Entry is one immutable ledger record
type Entry struct {
	ID        int64     `json:"id"`
	Type      Type      `json:"type"`
	UserID    string    `json:"user"`
	ProjectID string    `json:"project"`
	Message   string    `json:"message"`
	Version   string    `json:"version,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Actor is the denormalized account shown next to a feed item
type Actor struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	ProfileImage string `json:"profileImage"`
}

// Owner is the project owner as shown in a feed item
type Owner struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// ProjectRef is the denormalized project summary shown in a feed item
type ProjectRef struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Languages   []string `json:"languages"`
	Type        string   `json:"type"`
	Status      string   `json:"status"`
	Owner       Owner    `json:"owner"`
}

// FeedItem is an Entry enriched for display
type FeedItem struct {
	ID        int64      `json:"id"`
	Type      Type       `json:"type"`
	User      Actor      `json:"user"`
	Project   ProjectRef `json:"project"`
	Message   string     `json:"message"`
	Version   string     `json:"version,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}
