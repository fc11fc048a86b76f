package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/letzcode/letzcode-server/internal/domain/user"
	"github.com/letzcode/letzcode-server/internal/repository"
)

// UserRepository implements user.Repository for SQLite
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, username, password_hash, name, bio, location, website,
	birthday, work, profile_image, role, profile_completed, created_at, updated_at`

const summaryColumns = `u.id, u.name, u.username, u.email, u.profile_image, u.work, u.location`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*user.User, error) {
	var (
		u        user.User
		birthday sql.NullTime
	)
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.PasswordHash,
		&u.Name,
		&u.Bio,
		&u.Location,
		&u.Website,
		&birthday,
		&u.Work,
		&u.ProfileImage,
		&u.Role,
		&u.ProfileCompleted,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if birthday.Valid {
		b := birthday.Time
		u.Birthday = &b
	}
	return &u, nil
}

func scanSummary(row rowScanner) (user.Summary, error) {
	var s user.Summary
	err := row.Scan(&s.ID, &s.Name, &s.Username, &s.Email, &s.ProfileImage, &s.Work, &s.Location)
	return s, err
}

// Create inserts a new account
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.conn(ctx).ExecContext(ctx, query,
		u.ID,
		u.Email,
		u.Username,
		u.PasswordHash,
		u.Name,
		u.Bio,
		u.Location,
		u.Website,
		nullTime(u.Birthday),
		u.Work,
		u.ProfileImage,
		u.Role,
		u.ProfileCompleted,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		if mapped := constraintError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Get retrieves an account by ID
func (r *UserRepository) Get(ctx context.Context, id string) (*user.User, error) {
	return r.getBy(ctx, "id", id)
}

// GetByEmail retrieves an account by lowercased email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getBy(ctx, "email", strings.ToLower(email))
}

// GetByUsername retrieves an account by lowercased username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.getBy(ctx, "username", strings.ToLower(username))
}

func (r *UserRepository) getBy(ctx context.Context, column, value string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = ?`

	u, err := scanUser(r.db.conn(ctx).QueryRowContext(ctx, query, value))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetSummaries returns public cards keyed by ID. Unknown IDs are skipped.
func (r *UserRepository) GetSummaries(ctx context.Context, ids []string) (map[string]user.Summary, error) {
	result := make(map[string]user.Summary, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := `SELECT ` + summaryColumns + ` FROM users u WHERE u.id IN (` + placeholders(len(ids)) + `)`

	list, err := r.querySummaries(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	for _, s := range list {
		result[s.ID] = s
	}
	return result, nil
}

// Update writes profile fields
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	query := `
		UPDATE users
		SET name = ?, bio = ?, location = ?, website = ?, birthday = ?, work = ?,
			profile_image = ?, profile_completed = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.conn(ctx).ExecContext(ctx, query,
		u.Name,
		u.Bio,
		u.Location,
		u.Website,
		nullTime(u.Birthday),
		u.Work,
		u.ProfileImage,
		u.ProfileCompleted,
		u.UpdatedAt,
		u.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return requireAffected(result)
}

// Delete removes an account. Locks held by the account are released first;
// friend edges, requests, memberships, notifications, activity and owned
// projects are removed by cascade.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	q := r.db.conn(ctx)

	_, err := q.ExecContext(ctx, `
		UPDATE projects
		SET status = 'checked-in', checked_out_by = NULL
		WHERE checked_out_by = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to release locks: %w", err)
	}

	result, err := q.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return requireAffected(result)
}

// Search matches name, username or email case-insensitively, excluding one account
func (r *UserRepository) Search(ctx context.Context, excludeID, query string, limit int) ([]user.User, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	sqlQuery := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id != ?
			AND (lower(name) LIKE ? ESCAPE '\'
				OR lower(username) LIKE ? ESCAPE '\'
				OR lower(email) LIKE ? ESCAPE '\')
		ORDER BY username
		LIMIT ?
	`

	rows, err := r.db.conn(ctx).QueryContext(ctx, sqlQuery, excludeID, pattern, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

// AreFriends reports whether a friendship edge exists
func (r *UserRepository) AreFriends(ctx context.Context, userID, otherID string) (bool, error) {
	return r.exists(ctx, `SELECT COUNT(*) FROM friendships WHERE user_id = ? AND friend_id = ?`, userID, otherID)
}

// HasFriendRequest reports whether a pending request from fromID to toID exists
func (r *UserRepository) HasFriendRequest(ctx context.Context, fromID, toID string) (bool, error) {
	return r.exists(ctx, `SELECT COUNT(*) FROM friend_requests WHERE from_id = ? AND to_id = ?`, fromID, toID)
}

// AddFriendRequest records a pending request
func (r *UserRepository) AddFriendRequest(ctx context.Context, fromID, toID string, at time.Time) error {
	_, err := r.db.conn(ctx).ExecContext(ctx,
		`INSERT INTO friend_requests (from_id, to_id, created_at) VALUES (?, ?, ?)`,
		fromID, toID, at)
	if err != nil {
		if mapped := constraintError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to add friend request: %w", err)
	}
	return nil
}

// DeleteFriendRequest removes a pending request if present
func (r *UserRepository) DeleteFriendRequest(ctx context.Context, fromID, toID string) error {
	_, err := r.db.conn(ctx).ExecContext(ctx,
		`DELETE FROM friend_requests WHERE from_id = ? AND to_id = ?`, fromID, toID)
	if err != nil {
		return fmt.Errorf("failed to delete friend request: %w", err)
	}
	return nil
}

// AddFriendship writes the friendship in both directions
func (r *UserRepository) AddFriendship(ctx context.Context, userID, otherID string, at time.Time) error {
	_, err := r.db.conn(ctx).ExecContext(ctx, `
		INSERT OR IGNORE INTO friendships (user_id, friend_id, created_at)
		VALUES (?, ?, ?), (?, ?, ?)
	`, userID, otherID, at, otherID, userID, at)
	if err != nil {
		if mapped := constraintError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to add friendship: %w", err)
	}
	return nil
}

// DeleteFriendship removes the friendship in both directions
func (r *UserRepository) DeleteFriendship(ctx context.Context, userID, otherID string) error {
	_, err := r.db.conn(ctx).ExecContext(ctx, `
		DELETE FROM friendships
		WHERE (user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)
	`, userID, otherID, otherID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete friendship: %w", err)
	}
	return nil
}

// ListFriends returns the account's friends
func (r *UserRepository) ListFriends(ctx context.Context, userID string) ([]user.Summary, error) {
	return r.querySummaries(ctx, `
		SELECT `+summaryColumns+`
		FROM friendships f
		JOIN users u ON u.id = f.friend_id
		WHERE f.user_id = ?
		ORDER BY f.created_at, u.id
	`, userID)
}

// ListIncomingRequests returns senders of requests addressed to the account
func (r *UserRepository) ListIncomingRequests(ctx context.Context, userID string) ([]user.Summary, error) {
	return r.querySummaries(ctx, `
		SELECT `+summaryColumns+`
		FROM friend_requests fr
		JOIN users u ON u.id = fr.from_id
		WHERE fr.to_id = ?
		ORDER BY fr.created_at, u.id
	`, userID)
}

// ListOutgoingRequests returns recipients of requests the account sent
func (r *UserRepository) ListOutgoingRequests(ctx context.Context, userID string) ([]user.Summary, error) {
	return r.querySummaries(ctx, `
		SELECT `+summaryColumns+`
		FROM friend_requests fr
		JOIN users u ON u.id = fr.to_id
		WHERE fr.from_id = ?
		ORDER BY fr.created_at, u.id
	`, userID)
}

// ListMutualFriends returns accounts that are friends with both users
func (r *UserRepository) ListMutualFriends(ctx context.Context, userID, otherID string) ([]user.Summary, error) {
	return r.querySummaries(ctx, `
		SELECT `+summaryColumns+`
		FROM friendships a
		JOIN friendships b ON b.friend_id = a.friend_id AND b.user_id = ?
		JOIN users u ON u.id = a.friend_id
		WHERE a.user_id = ?
		ORDER BY u.name, u.id
	`, otherID, userID)
}

func (r *UserRepository) querySummaries(ctx context.Context, query string, args ...any) ([]user.Summary, error) {
	rows, err := r.db.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var list []user.Summary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user summary: %w", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return list, nil
}

func (r *UserRepository) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var count int
	if err := r.db.conn(ctx).QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to query existence: %w", err)
	}
	return count > 0, nil
}
