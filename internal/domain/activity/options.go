package activity

// Scope selects whose activity a feed contains.
type Scope string

const (
	// ScopeLocal covers the viewer and the viewer's friends.
	ScopeLocal Scope = "local"
	// ScopeGlobal covers every record in the ledger.
	ScopeGlobal Scope = "global"
)

// Sort selects feed ordering.
type Sort string

const (
	SortDate Sort = "date"
	// SortPopularity is accepted but no popularity signal exists yet, so it
	// orders exactly like SortDate.
	SortPopularity Sort = "popularity"
)

const (
	DefaultFeedLimit = 50
	MaxFeedLimit     = 200
)

// FeedOptions configures a feed query.
type FeedOptions struct {
	ViewerID string
	Scope    Scope
	Sort     Sort
	Limit    int
}

// ListOptions filters plain ledger listings.
type ListOptions struct {
	ProjectID string
	UserID    string
	Limit     int
	Offset    int
}
