package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/letzcode/letzcode-server/internal/domain/activity"
	"github.com/letzcode/letzcode-server/internal/domain/user"
	"github.com/letzcode/letzcode-server/internal/repository"
)

// Service handles project operations and the checkout lifecycle.
// Every mutation and its ledger entry commit in one transaction.
type Service struct {
	repo   Repository
	users  Directory
	ledger Ledger
	tx     repository.Transactor
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new project service. tx may be nil, in which case
// operations run without a transaction.
func NewService(repo Repository, users Directory, ledger Ledger, tx repository.Transactor, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		users:  users,
		ledger: ledger,
		tx:     tx,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.tx == nil {
		return fn(ctx)
	}
	return s.tx.WithinTx(ctx, fn)
}

// FileInput describes a file to attach. Path is derived from Name.
type FileInput struct {
	Name string
	Size string
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	Name        string
	Description string
	Type        Type
	Languages   []string
	Version     string
	Files       []FileInput
}

// Create creates a project owned by actor, who becomes its first member.
func (s *Service) Create(ctx context.Context, actorID string, req CreateRequest) (*Project, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || strings.TrimSpace(req.Description) == "" || req.Type == "" {
		return nil, ErrMissingFields
	}
	if !req.Type.Valid() {
		return nil, ErrInvalidType
	}

	now := s.now()
	version := req.Version
	if strings.TrimSpace(version) == "" {
		version = DefaultVersion
	}
	languages := req.Languages
	if languages == nil {
		languages = []string{}
	}

	proj := &Project{
		ID:          uuid.NewString(),
		Name:        name,
		Description: req.Description,
		OwnerID:     actorID,
		Members:     []string{actorID},
		Languages:   languages,
		Type:        req.Type,
		Version:     version,
		Status:      StatusCheckedIn,
		Image:       DefaultImage,
		Files:       toFileRecords(req.Files, actorID, now),
		CheckIns:    []CheckIn{},
		CreatedAt:   now,
		LastUpdated: now,
	}

	entry := &activity.Entry{
		Type:      activity.TypeCreate,
		UserID:    actorID,
		ProjectID: proj.ID,
		Message:   fmt.Sprintf("Created project %q", name),
		Timestamp: now,
	}

	err := s.inTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, proj); err != nil {
			return fmt.Errorf("creating project: %w", err)
		}
		return s.ledger.Append(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.ledger.Announce(ctx, *entry)
	s.log("project created", proj.ID, actorID)
	return proj, nil
}

// Get fetches a project by ID.
func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	proj, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// List returns project summaries ordered by last update, newest first.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Summary, error) {
	list, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	if list == nil {
		list = []Summary{}
	}
	return list, nil
}

// ListShared returns projects where both accounts are members.
func (s *Service) ListShared(ctx context.Context, userID, otherID string) ([]Summary, error) {
	list, err := s.repo.ListShared(ctx, userID, otherID)
	if err != nil {
		return nil, fmt.Errorf("listing shared projects: %w", err)
	}
	if list == nil {
		list = []Summary{}
	}
	return list, nil
}

// UpdateRequest carries replacement project details. Empty values are ignored.
type UpdateRequest struct {
	Name        string
	Description string
	Type        Type
	Languages   []string
	Image       string
}

// Update replaces project details. Owner only.
func (s *Service) Update(ctx context.Context, id, actorID string, req UpdateRequest) (*Project, error) {
	if req.Type != "" && !req.Type.Valid() {
		return nil, ErrInvalidType
	}

	var (
		proj  *Project
		entry *activity.Entry
	)
	err := s.inTx(ctx, func(ctx context.Context) error {
		var err error
		proj, err = s.Get(ctx, id)
		if err != nil {
			return err
		}
		if !proj.IsOwner(actorID) {
			return ErrNotOwner
		}

		if name := strings.TrimSpace(req.Name); name != "" {
			proj.Name = name
		}
		if req.Description != "" {
			proj.Description = req.Description
		}
		if req.Type != "" {
			proj.Type = req.Type
		}
		if req.Languages != nil {
			proj.Languages = req.Languages
		}
		if req.Image != "" {
			proj.Image = req.Image
		}
		proj.LastUpdated = s.now()

		if err := s.repo.UpdateDetails(ctx, proj); err != nil {
			return fmt.Errorf("updating project: %w", err)
		}

		entry = &activity.Entry{
			Type:      activity.TypeUpdate,
			UserID:    actorID,
			ProjectID: proj.ID,
			Message:   "Updated project details",
			Timestamp: proj.LastUpdated,
		}
		return s.ledger.Append(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.ledger.Announce(ctx, *entry)
	return proj, nil
}

// Delete removes the project and every ledger entry that references it.
// Owner only. A checked-out project can be deleted; the lock goes with it.
func (s *Service) Delete(ctx context.Context, id, actorID string) error {
	err := s.inTx(ctx, func(ctx context.Context) error {
		proj, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		if !proj.IsOwner(actorID) {
			return ErrNotOwner
		}
		if err := s.ledger.DeleteByProject(ctx, id); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrProjectNotFound
			}
			return fmt.Errorf("deleting project: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log("project deleted", id, actorID)
	return nil
}

// AddFiles appends file metadata. Any member may add files regardless of the
// lock state. No ledger entry is written for this path, unlike check-in.
func (s *Service) AddFiles(ctx context.Context, id, actorID string, files []FileInput) (*Project, error) {
	var proj *Project
	err := s.inTx(ctx, func(ctx context.Context) error {
		var err error
		proj, err = s.Get(ctx, id)
		if err != nil {
			return err
		}
		if !proj.IsMember(actorID) {
			return ErrNotAMember
		}
		if len(files) == 0 {
			return nil
		}

		now := s.now()
		records := toFileRecords(files, actorID, now)
		if err := s.repo.AppendFiles(ctx, id, records, now); err != nil {
			return fmt.Errorf("adding files: %w", err)
		}
		proj, err = s.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return proj, nil
}

// AddMember adds target to the member set. The owner may add anyone; other
// members may only add their own friends.
func (s *Service) AddMember(ctx context.Context, id, actorID, targetID string) (*Project, error) {
	if strings.TrimSpace(targetID) == "" {
		return nil, ErrUserIDRequired
	}

	var (
		proj  *Project
		entry *activity.Entry
	)
	err := s.inTx(ctx, func(ctx context.Context) error {
		var err error
		proj, err = s.Get(ctx, id)
		if err != nil {
			return err
		}

		isOwner := proj.IsOwner(actorID)
		if !isOwner && !proj.IsMember(actorID) {
			return ErrNotAuthorized
		}
		if !isOwner {
			friends, err := s.users.AreFriends(ctx, actorID, targetID)
			if err != nil {
				return fmt.Errorf("checking friendship: %w", err)
			}
			if !friends {
				return ErrNotAFriend
			}
		}

		target, err := s.lookupUser(ctx, targetID)
		if err != nil {
			return err
		}
		if proj.IsMember(targetID) {
			return ErrAlreadyMember
		}

		now := s.now()
		if err := s.repo.AddMember(ctx, id, targetID, now); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrAlreadyMember
			}
			return fmt.Errorf("adding member: %w", err)
		}
		proj.Members = append(proj.Members, targetID)
		proj.LastUpdated = now

		entry = &activity.Entry{
			Type:      activity.TypeUpdate,
			UserID:    actorID,
			ProjectID: id,
			Message:   fmt.Sprintf("Added %s to the project", target.Name),
			Timestamp: now,
		}
		return s.ledger.Append(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.ledger.Announce(ctx, *entry)
	return proj, nil
}

// RemoveMember drops target from the member set. Owner only; the owner
// cannot be removed. If target holds the lock, the lock stays with them
// until they check in.
func (s *Service) RemoveMember(ctx context.Context, id, actorID, targetID string) error {
	var entry *activity.Entry
	err := s.inTx(ctx, func(ctx context.Context) error {
		proj, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		if !proj.IsOwner(actorID) {
			return ErrNotOwner
		}
		if proj.IsOwner(targetID) {
			return ErrCannotRemoveOwner
		}

		now := s.now()
		if err := s.repo.RemoveMember(ctx, id, targetID, now); err != nil {
			return fmt.Errorf("removing member: %w", err)
		}

		name := targetID
		if target, err := s.lookupUser(ctx, targetID); err == nil {
			name = target.Name
		} else if !errors.Is(err, ErrUserNotFound) {
			return err
		}

		entry = &activity.Entry{
			Type:      activity.TypeUpdate,
			UserID:    actorID,
			ProjectID: id,
			Message:   fmt.Sprintf("Removed %s from the project", name),
			Timestamp: now,
		}
		return s.ledger.Append(ctx, entry)
	})
	if err != nil {
		return err
	}

	s.ledger.Announce(ctx, *entry)
	return nil
}

func (s *Service) lookupUser(ctx context.Context, id string) (*user.User, error) {
	u, err := s.users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

func (s *Service) log(msg, projectID, actorID string) {
	if s.logger != nil {
		s.logger.Info(msg, "project_id", projectID, "actor_id", actorID)
	}
}

func toFileRecords(files []FileInput, uploadedBy string, at time.Time) []FileRecord {
	records := make([]FileRecord, 0, len(files))
	for _, f := range files {
		if strings.TrimSpace(f.Name) == "" {
			continue
		}
		records = append(records, FileRecord{
			Name:       f.Name,
			Size:       f.Size,
			Path:       "/" + f.Name,
			UploadedBy: uploadedBy,
			UploadedAt: at,
		})
	}
	return records
}
