package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/letzcode/letzcode-server/internal/domain/activity"
)

// ActivityRepository implements activity.Repository for SQLite
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Append inserts a new ledger entry
func (r *ActivityRepository) Append(ctx context.Context, entry *activity.Entry) error {
	createdAt := entry.Timestamp
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	var version any
	if entry.Version != "" {
		version = entry.Version
	}

	query := `
		INSERT INTO activities (type, user_id, project_id, message, version, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.conn(ctx).ExecContext(ctx, query,
		entry.Type,
		entry.UserID,
		entry.ProjectID,
		entry.Message,
		version,
		createdAt,
	)
	if err != nil {
		if mapped := constraintError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to append activity: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		entry.ID = id
	}
	entry.Timestamp = createdAt

	return nil
}

// DeleteByProject removes every entry that references the project
func (r *ActivityRepository) DeleteByProject(ctx context.Context, projectID string) (int64, error) {
	result, err := r.db.conn(ctx).ExecContext(ctx, `DELETE FROM activities WHERE project_id = ?`, projectID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete activity: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

// List returns plain entries newest first
func (r *ActivityRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error) {
	query := `
		SELECT id, type, user_id, project_id, message, version, created_at
		FROM activities
	`

	var (
		conditions []string
		args       []any
	)
	if opts.ProjectID != "" {
		conditions = append(conditions, "project_id = ?")
		args = append(args, opts.ProjectID)
	}
	if opts.UserID != "" {
		conditions = append(conditions, "user_id = ?")
		args = append(args, opts.UserID)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY created_at DESC, id DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var entries []activity.Entry
	for rows.Next() {
		var (
			entry   activity.Entry
			version sql.NullString
		)
		err := rows.Scan(
			&entry.ID,
			&entry.Type,
			&entry.UserID,
			&entry.ProjectID,
			&entry.Message,
			&version,
			&entry.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		entry.Version = version.String
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}

	return entries, nil
}

// Feed returns entries joined with their actor, project and project owner.
// Local scope covers the viewer and the viewer's friends. Entries written by
// a deleted account keep only the actor's id.
func (r *ActivityRepository) Feed(ctx context.Context, opts activity.FeedOptions) ([]activity.FeedItem, error) {
	query := `
		SELECT
			a.id, a.type, a.message, a.version, a.created_at, a.user_id,
			u.name, u.username, u.email, u.profile_image,
			p.id, p.name, p.description, p.image, p.languages, p.type, p.status,
			o.id, o.name, o.username
		FROM activities a
		LEFT JOIN users u ON u.id = a.user_id
		JOIN projects p ON p.id = a.project_id
		JOIN users o ON o.id = p.owner_id
	`

	var args []any
	if opts.Scope != activity.ScopeGlobal {
		query += `
		WHERE a.user_id = ?
			OR a.user_id IN (SELECT friend_id FROM friendships WHERE user_id = ?)
		`
		args = append(args, opts.ViewerID, opts.ViewerID)
	}

	// Popularity has no signal of its own; both sorts order by date.
	query += " ORDER BY a.created_at DESC, a.id DESC LIMIT ?"
	args = append(args, opts.Limit)

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load feed: %w", err)
	}
	defer rows.Close()

	var items []activity.FeedItem
	for rows.Next() {
		var (
			item                         activity.FeedItem
			version                      sql.NullString
			name, username, email, image sql.NullString
			languages                    string
		)
		err := rows.Scan(
			&item.ID, &item.Type, &item.Message, &version, &item.Timestamp, &item.User.ID,
			&name, &username, &email, &image,
			&item.Project.ID, &item.Project.Name, &item.Project.Description, &item.Project.Image,
			&languages, &item.Project.Type, &item.Project.Status,
			&item.Project.Owner.ID, &item.Project.Owner.Name, &item.Project.Owner.Username,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feed item: %w", err)
		}
		item.Version = version.String
		item.User.Name = name.String
		item.User.Username = username.String
		item.User.Email = email.String
		item.User.ProfileImage = image.String
		if item.Project.Languages, err = decodeLanguages(languages); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feed rows: %w", err)
	}

	return items, nil
}
