package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/letzcode/letzcode-server/internal/repository"
)

const (
	MinPasswordLength = 6
	MinUsernameLength = 3
	MaxBioLength      = 500
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailPattern    = regexp.MustCompile(`^\S+@\S+\.\S+$`)
)

// Service handles accounts, profiles and the friend graph.
type Service struct {
	repo      Repository
	notifier  Notifier
	passwords PasswordHasher
	tokens    TokenIssuer
	tx        repository.Transactor
	logger    *slog.Logger
}

// NewService creates a new user service. notifier and tx may be nil.
func NewService(
	repo Repository,
	notifier Notifier,
	passwords PasswordHasher,
	tokens TokenIssuer,
	tx repository.Transactor,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:      repo,
		notifier:  notifier,
		passwords: passwords,
		tokens:    tokens,
		tx:        tx,
		logger:    logger,
	}
}

func (s *Service) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.tx == nil {
		return fn(ctx)
	}
	return s.tx.WithinTx(ctx, fn)
}

// SignUpRequest holds registration inputs.
type SignUpRequest struct {
	Email    string
	Password string
	Username string
}

// SignUp registers an account and returns a token for it.
func (s *Service) SignUp(ctx context.Context, req SignUpRequest) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.ToLower(strings.TrimSpace(req.Username))

	if email == "" || username == "" || req.Password == "" {
		return nil, ErrMissingSignUpFields
	}
	if len(req.Password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if len(username) < MinUsernameLength {
		return nil, ErrUsernameTooShort
	}
	if !usernamePattern.MatchString(username) {
		return nil, ErrUsernameInvalid
	}
	if !emailPattern.MatchString(email) {
		return nil, ErrEmailInvalid
	}

	hash, err := s.passwords.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now().UTC()
	u := &User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Name:         strings.SplitN(email, "@", 2)[0],
		ProfileImage: DefaultProfileImage,
		Role:         RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.inTx(ctx, func(ctx context.Context) error {
		if taken, err := s.exists(s.repo.GetByEmail(ctx, email)); err != nil {
			return err
		} else if taken {
			return ErrEmailTaken
		}
		if taken, err := s.exists(s.repo.GetByUsername(ctx, username)); err != nil {
			return err
		} else if taken {
			return ErrUsernameTaken
		}
		if err := s.repo.Create(ctx, u); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrEmailTaken
			}
			return fmt.Errorf("creating user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("account created", "user_id", u.ID, "username", u.Username)
	}
	return &AuthResult{Token: token, User: u}, nil
}

func (s *Service) exists(_ *User, err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("checking existing account: %w", err)
}

// SignIn verifies credentials and returns a fresh token.
func (s *Service) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrMissingSignInFields
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("loading account: %w", err)
	}
	if err := s.passwords.Compare(u.PasswordHash, password); err != nil {
		return nil, ErrWrongPassword
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}
	return &AuthResult{Token: token, User: u}, nil
}

// Get fetches an account by ID.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

// Summaries resolves public cards for ids. Unknown ids are absent from the map.
func (s *Service) Summaries(ctx context.Context, ids []string) (map[string]Summary, error) {
	if len(ids) == 0 {
		return map[string]Summary{}, nil
	}
	summaries, err := s.repo.GetSummaries(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("getting user summaries: %w", err)
	}
	return summaries, nil
}

// ProfileUpdate carries optional profile fields; nil leaves a field unchanged.
// Birthday accepts YYYY-MM-DD or RFC 3339; an empty string clears it.
type ProfileUpdate struct {
	Name     *string
	Bio      *string
	Location *string
	Website  *string
	Birthday *string
	Work     *string
}

// UpdateProfile applies profile edits and marks the profile completed.
func (s *Service) UpdateProfile(ctx context.Context, actorID string, req ProfileUpdate) (*User, error) {
	if req.Bio != nil && utf8.RuneCountInString(*req.Bio) > MaxBioLength {
		return nil, ErrBioTooLong
	}

	var birthday *time.Time
	if req.Birthday != nil && *req.Birthday != "" {
		parsed, err := parseBirthday(*req.Birthday)
		if err != nil {
			return nil, ErrInvalidBirthday
		}
		birthday = &parsed
	}

	var updated *User
	err := s.inTx(ctx, func(ctx context.Context) error {
		u, err := s.Get(ctx, actorID)
		if err != nil {
			return err
		}

		if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
			u.Name = strings.TrimSpace(*req.Name)
		}
		if req.Bio != nil {
			u.Bio = *req.Bio
		}
		if req.Location != nil {
			u.Location = *req.Location
		}
		if req.Website != nil {
			u.Website = *req.Website
		}
		if req.Birthday != nil {
			u.Birthday = birthday
		}
		if req.Work != nil {
			u.Work = *req.Work
		}
		u.ProfileCompleted = true
		u.UpdatedAt = time.Now().UTC()

		if err := s.repo.Update(ctx, u); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("updating user: %w", err)
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func parseBirthday(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// DeleteAccount removes the actor's account. Friend edges, pending requests,
// memberships, notifications and owned projects go with it, and any project
// lock the account held is released.
func (s *Service) DeleteAccount(ctx context.Context, actorID string) error {
	err := s.inTx(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, actorID)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("deleting user: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("account deleted", "user_id", actorID)
	}
	return nil
}
