package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/letzcode/letzcode-server/internal/domain/project"
	"github.com/letzcode/letzcode-server/internal/repository"
)

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a project, its owner membership and initial files
func (r *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	languages, err := encodeLanguages(proj.Languages)
	if err != nil {
		return err
	}

	return r.db.WithinTx(ctx, func(ctx context.Context) error {
		q := r.db.conn(ctx)

		query := `
			INSERT INTO projects (id, owner_id, name, description, type, version, languages,
				image, status, checked_out_by, created_at, last_updated)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		_, err := q.ExecContext(ctx, query,
			proj.ID,
			proj.OwnerID,
			proj.Name,
			proj.Description,
			proj.Type,
			proj.Version,
			languages,
			proj.Image,
			proj.Status,
			nullString(proj.CheckedOutBy),
			proj.CreatedAt,
			proj.LastUpdated,
		)
		if err != nil {
			if mapped := constraintError(err); mapped != nil {
				return mapped
			}
			return fmt.Errorf("failed to create project: %w", err)
		}

		for _, memberID := range proj.Members {
			if err := r.insertMember(ctx, proj.ID, memberID, proj.CreatedAt); err != nil {
				return err
			}
		}

		for i := range proj.Files {
			id, err := r.insertFile(ctx, proj.ID, nil, &proj.Files[i])
			if err != nil {
				return err
			}
			proj.Files[i].ID = id
		}
		return nil
	})
}

// Get loads the full project aggregate
func (r *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	query := `
		SELECT id, owner_id, name, description, type, version, languages, image,
			status, checked_out_by, created_at, last_updated
		FROM projects
		WHERE id = ?
	`

	var (
		proj      project.Project
		languages string
		holder    sql.NullString
	)
	err := r.db.conn(ctx).QueryRowContext(ctx, query, id).Scan(
		&proj.ID,
		&proj.OwnerID,
		&proj.Name,
		&proj.Description,
		&proj.Type,
		&proj.Version,
		&languages,
		&proj.Image,
		&proj.Status,
		&holder,
		&proj.CreatedAt,
		&proj.LastUpdated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	if proj.Languages, err = decodeLanguages(languages); err != nil {
		return nil, err
	}
	if holder.Valid {
		h := holder.String
		proj.CheckedOutBy = &h
	}

	members, err := r.members(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	proj.Members = nonNilStrings(members[id])

	files, err := r.files(ctx, id)
	if err != nil {
		return nil, err
	}
	proj.Files = []project.FileRecord{}
	byCheckIn := make(map[int64][]project.FileRecord)
	for _, f := range files {
		proj.Files = append(proj.Files, f.record)
		if f.checkInID.Valid {
			byCheckIn[f.checkInID.Int64] = append(byCheckIn[f.checkInID.Int64], f.record)
		}
	}

	proj.CheckIns, err = r.checkIns(ctx, id)
	if err != nil {
		return nil, err
	}
	for i := range proj.CheckIns {
		if list, ok := byCheckIn[proj.CheckIns[i].ID]; ok {
			proj.CheckIns[i].Files = list
		}
	}

	return &proj, nil
}

// List returns project summaries, newest update first
func (r *ProjectRepository) List(ctx context.Context, opts project.ListOptions) ([]project.Summary, error) {
	var (
		where string
		args  []any
	)
	if opts.MemberID != "" {
		where = `WHERE EXISTS (SELECT 1 FROM project_members m WHERE m.project_id = p.id AND m.user_id = ?)`
		args = append(args, opts.MemberID)
	}
	return r.listSummaries(ctx, where, args...)
}

// ListShared returns projects where both accounts are members
func (r *ProjectRepository) ListShared(ctx context.Context, userID, otherID string) ([]project.Summary, error) {
	where := `
		WHERE EXISTS (SELECT 1 FROM project_members m WHERE m.project_id = p.id AND m.user_id = ?)
			AND EXISTS (SELECT 1 FROM project_members m WHERE m.project_id = p.id AND m.user_id = ?)
	`
	return r.listSummaries(ctx, where, userID, otherID)
}

func (r *ProjectRepository) listSummaries(ctx context.Context, where string, args ...any) ([]project.Summary, error) {
	query := `
		SELECT
			p.id,
			p.owner_id,
			p.name,
			p.description,
			p.type,
			p.version,
			p.languages,
			p.image,
			p.status,
			p.checked_out_by,
			p.created_at,
			p.last_updated,
			(SELECT COUNT(*) FROM project_files f WHERE f.project_id = p.id) AS files_count,
			(SELECT COUNT(*) FROM project_checkins c WHERE c.project_id = p.id) AS checkins_count
		FROM projects p
		` + where + `
		ORDER BY p.last_updated DESC, p.id
	`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	var (
		summaries []project.Summary
		ids       []string
	)
	for rows.Next() {
		var (
			s         project.Summary
			languages string
			holder    sql.NullString
		)
		err := rows.Scan(
			&s.ID,
			&s.OwnerID,
			&s.Name,
			&s.Description,
			&s.Type,
			&s.Version,
			&languages,
			&s.Image,
			&s.Status,
			&holder,
			&s.CreatedAt,
			&s.LastUpdated,
			&s.FilesCount,
			&s.CheckInsCount,
		)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan project summary: %w", err)
		}
		if s.Languages, err = decodeLanguages(languages); err != nil {
			rows.Close()
			return nil, err
		}
		if holder.Valid {
			h := holder.String
			s.CheckedOutBy = &h
		}
		summaries = append(summaries, s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}
	rows.Close()

	members, err := r.members(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range summaries {
		summaries[i].Members = nonNilStrings(members[summaries[i].ID])
	}

	return summaries, nil
}

// UpdateDetails writes the editable metadata fields
func (r *ProjectRepository) UpdateDetails(ctx context.Context, proj *project.Project) error {
	languages, err := encodeLanguages(proj.Languages)
	if err != nil {
		return err
	}

	query := `
		UPDATE projects
		SET name = ?, description = ?, type = ?, languages = ?, image = ?, last_updated = ?
		WHERE id = ?
	`
	result, err := r.db.conn(ctx).ExecContext(ctx, query,
		proj.Name,
		proj.Description,
		proj.Type,
		languages,
		proj.Image,
		proj.LastUpdated,
		proj.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	return requireAffected(result)
}

// Delete removes a project; members, files and check-ins cascade
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.conn(ctx).ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return requireAffected(result)
}

// MarkCheckedOut takes the lock if the project is currently checked in
func (r *ProjectRepository) MarkCheckedOut(ctx context.Context, id, holderID string, at time.Time) error {
	query := `
		UPDATE projects
		SET status = 'checked-out', checked_out_by = ?, last_updated = ?
		WHERE id = ? AND status = 'checked-in'
	`
	result, err := r.db.conn(ctx).ExecContext(ctx, query, holderID, at, id)
	if err != nil {
		return fmt.Errorf("failed to check out project: %w", err)
	}
	return r.requireTransition(ctx, result, id)
}

// MarkCheckedIn releases the lock if holderID holds it, and sets the version
func (r *ProjectRepository) MarkCheckedIn(ctx context.Context, id, holderID, version string, at time.Time) error {
	query := `
		UPDATE projects
		SET status = 'checked-in', checked_out_by = NULL, version = ?, last_updated = ?
		WHERE id = ? AND status = 'checked-out' AND checked_out_by = ?
	`
	result, err := r.db.conn(ctx).ExecContext(ctx, query, version, at, id, holderID)
	if err != nil {
		return fmt.Errorf("failed to check in project: %w", err)
	}
	return r.requireTransition(ctx, result, id)
}

// requireTransition reports ErrNotFound when the project is gone and
// ErrConflict when it exists but was not in the expected state.
func (r *ProjectRepository) requireTransition(ctx context.Context, result sql.Result, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	var count int
	if err := r.db.conn(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM projects WHERE id = ?`, id).Scan(&count); err != nil {
		return fmt.Errorf("failed to check project: %w", err)
	}
	if count == 0 {
		return repository.ErrNotFound
	}
	return repository.ErrConflict
}

// AppendCheckIn records a check-in and the files that came with it
func (r *ProjectRepository) AppendCheckIn(ctx context.Context, projectID string, ci *project.CheckIn) error {
	return r.db.WithinTx(ctx, func(ctx context.Context) error {
		result, err := r.db.conn(ctx).ExecContext(ctx, `
			INSERT INTO project_checkins (project_id, user_id, message, version, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, projectID, ci.UserID, ci.Message, ci.Version, ci.Timestamp)
		if err != nil {
			if mapped := constraintError(err); mapped != nil {
				return mapped
			}
			return fmt.Errorf("failed to record check-in: %w", err)
		}
		if ci.ID, err = result.LastInsertId(); err != nil {
			return fmt.Errorf("failed to get check-in id: %w", err)
		}

		checkInID := ci.ID
		for i := range ci.Files {
			id, err := r.insertFile(ctx, projectID, &checkInID, &ci.Files[i])
			if err != nil {
				return err
			}
			ci.Files[i].ID = id
		}
		return nil
	})
}

// AppendFiles attaches files outside of a check-in
func (r *ProjectRepository) AppendFiles(ctx context.Context, projectID string, files []project.FileRecord, at time.Time) error {
	return r.db.WithinTx(ctx, func(ctx context.Context) error {
		for i := range files {
			id, err := r.insertFile(ctx, projectID, nil, &files[i])
			if err != nil {
				return err
			}
			files[i].ID = id
		}
		return r.touch(ctx, projectID, at)
	})
}

// AddMember inserts a membership row
func (r *ProjectRepository) AddMember(ctx context.Context, projectID, userID string, at time.Time) error {
	return r.db.WithinTx(ctx, func(ctx context.Context) error {
		if err := r.insertMember(ctx, projectID, userID, at); err != nil {
			return err
		}
		return r.touch(ctx, projectID, at)
	})
}

// RemoveMember deletes a membership row. The lock column is left untouched.
func (r *ProjectRepository) RemoveMember(ctx context.Context, projectID, userID string, at time.Time) error {
	return r.db.WithinTx(ctx, func(ctx context.Context) error {
		_, err := r.db.conn(ctx).ExecContext(ctx,
			`DELETE FROM project_members WHERE project_id = ? AND user_id = ?`, projectID, userID)
		if err != nil {
			return fmt.Errorf("failed to remove member: %w", err)
		}
		return r.touch(ctx, projectID, at)
	})
}

func (r *ProjectRepository) touch(ctx context.Context, projectID string, at time.Time) error {
	result, err := r.db.conn(ctx).ExecContext(ctx,
		`UPDATE projects SET last_updated = ? WHERE id = ?`, at, projectID)
	if err != nil {
		return fmt.Errorf("failed to touch project: %w", err)
	}
	return requireAffected(result)
}

func (r *ProjectRepository) insertMember(ctx context.Context, projectID, userID string, at time.Time) error {
	_, err := r.db.conn(ctx).ExecContext(ctx,
		`INSERT INTO project_members (project_id, user_id, added_at) VALUES (?, ?, ?)`,
		projectID, userID, at)
	if err != nil {
		if mapped := constraintError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

func (r *ProjectRepository) insertFile(ctx context.Context, projectID string, checkInID *int64, f *project.FileRecord) (int64, error) {
	var ci any
	if checkInID != nil {
		ci = *checkInID
	}
	result, err := r.db.conn(ctx).ExecContext(ctx, `
		INSERT INTO project_files (project_id, checkin_id, name, size, path, uploaded_by, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, projectID, ci, f.Name, f.Size, f.Path, f.UploadedBy, f.UploadedAt)
	if err != nil {
		if mapped := constraintError(err); mapped != nil {
			return 0, mapped
		}
		return 0, fmt.Errorf("failed to add file: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get file id: %w", err)
	}
	return id, nil
}

// members returns member IDs per project, owner first then by join order
func (r *ProjectRepository) members(ctx context.Context, projectIDs []string) (map[string][]string, error) {
	result := make(map[string][]string, len(projectIDs))
	if len(projectIDs) == 0 {
		return result, nil
	}

	args := make([]any, len(projectIDs))
	for i, id := range projectIDs {
		args[i] = id
	}
	query := `
		SELECT m.project_id, m.user_id
		FROM project_members m
		JOIN projects p ON p.id = m.project_id
		WHERE m.project_id IN (` + placeholders(len(projectIDs)) + `)
		ORDER BY m.project_id, CASE WHEN m.user_id = p.owner_id THEN 0 ELSE 1 END, m.added_at, m.rowid
	`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var projectID, userID string
		if err := rows.Scan(&projectID, &userID); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		result[projectID] = append(result[projectID], userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", err)
	}
	return result, nil
}

type fileRow struct {
	record    project.FileRecord
	checkInID sql.NullInt64
}

func (r *ProjectRepository) files(ctx context.Context, projectID string) ([]fileRow, error) {
	rows, err := r.db.conn(ctx).QueryContext(ctx, `
		SELECT id, checkin_id, name, size, path, uploaded_by, uploaded_at
		FROM project_files
		WHERE project_id = ?
		ORDER BY id
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()

	var list []fileRow
	for rows.Next() {
		var f fileRow
		err := rows.Scan(
			&f.record.ID,
			&f.checkInID,
			&f.record.Name,
			&f.record.Size,
			&f.record.Path,
			&f.record.UploadedBy,
			&f.record.UploadedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		list = append(list, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating file rows: %w", err)
	}
	return list, nil
}

// checkIns returns the history newest first
func (r *ProjectRepository) checkIns(ctx context.Context, projectID string) ([]project.CheckIn, error) {
	rows, err := r.db.conn(ctx).QueryContext(ctx, `
		SELECT id, user_id, message, version, created_at
		FROM project_checkins
		WHERE project_id = ?
		ORDER BY created_at DESC, id DESC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list check-ins: %w", err)
	}
	defer rows.Close()

	list := []project.CheckIn{}
	for rows.Next() {
		var ci project.CheckIn
		if err := rows.Scan(&ci.ID, &ci.UserID, &ci.Message, &ci.Version, &ci.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan check-in: %w", err)
		}
		ci.Files = []project.FileRecord{}
		list = append(list, ci)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating check-in rows: %w", err)
	}
	return list, nil
}

func nonNilStrings(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
