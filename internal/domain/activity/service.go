package activity

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Service handles ledger operations.
type Service struct {
	repo      Repository
	publisher Publisher
	logger    *slog.Logger
}

// NewService creates a new activity service. publisher may be nil.
func NewService(repo Repository, publisher Publisher, logger *slog.Logger) *Service {
	return &Service{repo: repo, publisher: publisher, logger: logger}
}

// Append records an entry with the current timestamp if missing. It runs
// inside the caller's transaction when ctx carries one.
func (s *Service) Append(ctx context.Context, entry *Entry) error {
	if entry == nil || !entry.Type.Valid() ||
		strings.TrimSpace(entry.UserID) == "" || strings.TrimSpace(entry.ProjectID) == "" {
		return ErrInvalidInput
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if err := s.repo.Append(ctx, entry); err != nil {
		return fmt.Errorf("appending activity: %w", err)
	}
	return nil
}

// DeleteByProject removes every entry that references the project.
func (s *Service) DeleteByProject(ctx context.Context, projectID string) error {
	n, err := s.repo.DeleteByProject(ctx, projectID)
	if err != nil {
		return fmt.Errorf("deleting project activity: %w", err)
	}
	if s.logger != nil {
		s.logger.Debug("project activity deleted", "project_id", projectID, "count", n)
	}
	return nil
}

// Announce publishes a committed entry. Failures are logged only.
func (s *Service) Announce(ctx context.Context, entry Entry) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishActivity(ctx, entry); err != nil && s.logger != nil {
		s.logger.Warn("failed to publish activity", "activity_id", entry.ID, "project_id", entry.ProjectID, "error", err)
	}
}

// Feed returns enriched entries newest first. An unset scope means local;
// any other value than local is treated as global. Popularity sort falls
// back to date order.
func (s *Service) Feed(ctx context.Context, opts FeedOptions) ([]FeedItem, error) {
	opts = normalizeFeedOptions(opts)
	items, err := s.repo.Feed(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("loading activity feed: %w", err)
	}
	if items == nil {
		items = []FeedItem{}
	}
	return items, nil
}

// History lists plain entries filtered by project or actor, newest first.
func (s *Service) History(ctx context.Context, opts ListOptions) ([]Entry, error) {
	if opts.Limit <= 0 || opts.Limit > MaxFeedLimit {
		opts.Limit = DefaultFeedLimit
	}
	entries, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing activity: %w", err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

func normalizeFeedOptions(opts FeedOptions) FeedOptions {
	if opts.Scope == "" {
		opts.Scope = ScopeLocal
	}
	if opts.Scope != ScopeLocal {
		opts.Scope = ScopeGlobal
	}
	if opts.Sort != SortPopularity {
		opts.Sort = SortDate
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultFeedLimit
	}
	if opts.Limit > MaxFeedLimit {
		opts.Limit = MaxFeedLimit
	}
	return opts
}
