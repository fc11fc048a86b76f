package project

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/letzcode/letzcode-server/internal/domain/activity"
	"github.com/letzcode/letzcode-server/internal/repository"
)

// CheckOut takes the project lock for actor. It fails with
// ErrAlreadyCheckedOut whenever the project is checked out, including by
// actor, so a repeated call is not idempotent.
func (s *Service) CheckOut(ctx context.Context, id, actorID string) (*Project, error) {
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
		if !proj.IsMember(actorID) {
			return ErrNotAMember
		}
		if proj.Status == StatusCheckedOut {
			return ErrAlreadyCheckedOut
		}

		now := s.now()
		if err := s.repo.MarkCheckedOut(ctx, id, actorID, now); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrAlreadyCheckedOut
			}
			if errors.Is(err, repository.ErrNotFound) {
				return ErrProjectNotFound
			}
			return fmt.Errorf("checking out project: %w", err)
		}

		holder := actorID
		proj.Status = StatusCheckedOut
		proj.CheckedOutBy = &holder
		proj.LastUpdated = now

		entry = &activity.Entry{
			Type:      activity.TypeCheckOut,
			UserID:    actorID,
			ProjectID: id,
			Message:   "Checked out project",
			Timestamp: now,
		}
		return s.ledger.Append(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.ledger.Announce(ctx, *entry)
	s.log("project checked out", id, actorID)
	return proj, nil
}

// CheckInRequest carries the check-in message, an optional new version and
// files added with this check-in.
type CheckInRequest struct {
	Message string
	Version string
	Files   []FileInput
}

// CheckIn returns the lock held by actor. Only the member who checked the
// project out may check it in. The history entry records the supplied
// version, or the prior version when none is supplied.
func (s *Service) CheckIn(ctx context.Context, id, actorID string, req CheckInRequest) (*Project, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrMissingMessage
	}

	var (
		proj  *Project
		entry *activity.Entry
	)
	err := s.inTx(ctx, func(ctx context.Context) error {
		current, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		if current.Status != StatusCheckedOut {
			return ErrNotCheckedOut
		}
		if !current.IsHeldBy(actorID) {
			return ErrNotLockHolder
		}

		version := current.Version
		if v := strings.TrimSpace(req.Version); v != "" {
			version = v
		}

		now := s.now()
		if err := s.repo.MarkCheckedIn(ctx, id, actorID, version, now); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrNotCheckedOut
			}
			if errors.Is(err, repository.ErrNotFound) {
				return ErrProjectNotFound
			}
			return fmt.Errorf("checking in project: %w", err)
		}

		ci := &CheckIn{
			UserID:    actorID,
			Message:   req.Message,
			Version:   version,
			Files:     toFileRecords(req.Files, actorID, now),
			Timestamp: now,
		}
		if err := s.repo.AppendCheckIn(ctx, id, ci); err != nil {
			return fmt.Errorf("recording check-in: %w", err)
		}

		entry = &activity.Entry{
			Type:      activity.TypeCheckIn,
			UserID:    actorID,
			ProjectID: id,
			Message:   req.Message,
			Version:   version,
			Timestamp: now,
		}
		if err := s.ledger.Append(ctx, entry); err != nil {
			return err
		}

		proj, err = s.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.ledger.Announce(ctx, *entry)
	s.log("project checked in", id, actorID)
	return proj, nil
}
