package user

import "time"

// Role is an account's authorization role.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// DefaultProfileImage is assigned to accounts without an uploaded image.
const DefaultProfileImage = "/placeholder.svg"

// User is a LetzCode account. Email and username are stored lowercased.
type User struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	Username         string     `json:"username"`
	PasswordHash     string     `json:"-"`
	Name             string     `json:"name"`
	Bio              string     `json:"bio"`
	Location         string     `json:"location"`
	Website          string     `json:"website"`
	Birthday         *time.Time `json:"birthday,omitempty"`
	Work             string     `json:"work"`
	ProfileImage     string     `json:"profileImage"`
	Role             Role       `json:"role"`
	ProfileCompleted bool       `json:"profileCompleted"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// Summary is the public card shown wherever another account is referenced.
type Summary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Username     string `json:"username"`
	Email        string `json:"email,omitempty"`
	ProfileImage string `json:"profileImage"`
	Work         string `json:"work,omitempty"`
	Location     string `json:"location,omitempty"`
}

// Summary returns the account's public card.
func (u *User) Summary() Summary {
	return Summary{
		ID:           u.ID,
		Name:         u.Name,
		Username:     u.Username,
		Email:        u.Email,
		ProfileImage: u.ProfileImage,
		Work:         u.Work,
		Location:     u.Location,
	}
}

// FriendStatus describes the relation between the viewer and another account.
type FriendStatus string

const (
	FriendStatusNone     FriendStatus = "none"
	FriendStatusFriends  FriendStatus = "friends"
	FriendStatusIncoming FriendStatus = "incoming"
	FriendStatusOutgoing FriendStatus = "outgoing"
)

// SearchResult is one account match annotated with its relation to the viewer.
type SearchResult struct {
	Summary
	FriendStatus FriendStatus `json:"friendStatus"`
}

// FriendLists holds the viewer's friends and pending requests in both directions.
type FriendLists struct {
	Friends        []Summary `json:"friends"`
	FriendRequests []Summary `json:"friendRequests"`
	SentRequests   []Summary `json:"sentRequests"`
}

// AuthResult is returned by sign-up and sign-in.
type AuthResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
