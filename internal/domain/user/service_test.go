package user_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/letzcode/letzcode-server/internal/domain/notification"
	"github.com/letzcode/letzcode-server/internal/domain/user"
	"github.com/letzcode/letzcode-server/internal/repository"
	"github.com/letzcode/letzcode-server/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

type staticTokens struct{}

func (staticTokens) Issue(userID string) (string, error) { return "token-" + userID, nil }

type recordingNotifier struct {
	stored    []*notification.Notification
	announced []notification.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n *notification.Notification) error {
	r.stored = append(r.stored, n)
	return nil
}

func (r *recordingNotifier) Announce(_ context.Context, n notification.Notification) {
	r.announced = append(r.announced, n)
}

func newService(repo *mocks.UserRepository, notifier user.Notifier) *user.Service {
	return user.NewService(repo, notifier, plainHasher{}, staticTokens{}, nil, nil)
}

func TestUserService_SignUpValidation(t *testing.T) {
	ctx := context.Background()
	svc := newService(&mocks.UserRepository{}, nil)

	tests := []struct {
		name string
		req  user.SignUpRequest
		err  error
	}{
		{"missing fields", user.SignUpRequest{Email: "a@b.co", Username: "alice"}, user.ErrMissingSignUpFields},
		{"short password", user.SignUpRequest{Email: "a@b.co", Username: "alice", Password: "12345"}, user.ErrPasswordTooShort},
		{"short username", user.SignUpRequest{Email: "a@b.co", Username: "al", Password: "secret1"}, user.ErrUsernameTooShort},
		{"invalid username", user.SignUpRequest{Email: "a@b.co", Username: "al-ice", Password: "secret1"}, user.ErrUsernameInvalid},
		{"invalid email", user.SignUpRequest{Email: "not-an-email", Username: "alice", Password: "secret1"}, user.ErrEmailInvalid},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SignUp(ctx, tc.req)
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestUserService_SignUp(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.UserRepository{}
	repo.On("GetByEmail", ctx, "alice@example.com").Return(nil, repository.ErrNotFound)
	repo.On("GetByUsername", ctx, "alice").Return(nil, repository.ErrNotFound)
	repo.On("Create", ctx, mock.AnythingOfType("*user.User")).Return(nil)

	svc := newService(repo, nil)
	res, err := svc.SignUp(ctx, user.SignUpRequest{Email: " Alice@Example.com ", Username: "Alice", Password: "secret1"})
	require.NoError(t, err)
	require.Equal(t, "token-"+res.User.ID, res.Token)
	require.Equal(t, "alice@example.com", res.User.Email)
	require.Equal(t, "alice", res.User.Username)
	require.Equal(t, "alice", res.User.Name)
	require.Equal(t, "hashed:secret1", res.User.PasswordHash)
	require.Equal(t, user.DefaultProfileImage, res.User.ProfileImage)
	require.False(t, res.User.ProfileCompleted)
}

func TestUserService_SignUpTaken(t *testing.T) {
	ctx := context.Background()

	t.Run("email", func(t *testing.T) {
		repo := &mocks.UserRepository{}
		repo.On("GetByEmail", ctx, "alice@example.com").Return(&user.User{ID: "u1"}, nil)
		_, err := newService(repo, nil).SignUp(ctx, user.SignUpRequest{Email: "alice@example.com", Username: "alice", Password: "secret1"})
		require.ErrorIs(t, err, user.ErrEmailTaken)
	})

	t.Run("username", func(t *testing.T) {
		repo := &mocks.UserRepository{}
		repo.On("GetByEmail", ctx, "alice@example.com").Return(nil, repository.ErrNotFound)
		repo.On("GetByUsername", ctx, "alice").Return(&user.User{ID: "u1"}, nil)
		_, err := newService(repo, nil).SignUp(ctx, user.SignUpRequest{Email: "alice@example.com", Username: "alice", Password: "secret1"})
		require.ErrorIs(t, err, user.ErrUsernameTaken)
	})
}

func TestUserService_SignIn(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.UserRepository{}
	repo.On("GetByEmail", ctx, "alice@example.com").Return(&user.User{ID: "u1", PasswordHash: "hashed:secret1"}, nil)
	repo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, repository.ErrNotFound)
	svc := newService(repo, nil)

	res, err := svc.SignIn(ctx, "ALICE@example.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, "token-u1", res.Token)

	_, err = svc.SignIn(ctx, "alice@example.com", "wrong")
	require.ErrorIs(t, err, user.ErrWrongPassword)

	_, err = svc.SignIn(ctx, "nobody@example.com", "secret1")
	require.ErrorIs(t, err, user.ErrAccountNotFound)

	_, err = svc.SignIn(ctx, "", "secret1")
	require.ErrorIs(t, err, user.ErrMissingSignInFields)
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("bio too long", func(t *testing.T) {
		bio := strings.Repeat("x", user.MaxBioLength+1)
		_, err := newService(&mocks.UserRepository{}, nil).UpdateProfile(ctx, "u1", user.ProfileUpdate{Bio: &bio})
		require.ErrorIs(t, err, user.ErrBioTooLong)
	})

	t.Run("invalid birthday", func(t *testing.T) {
		bday := "yesterday"
		_, err := newService(&mocks.UserRepository{}, nil).UpdateProfile(ctx, "u1", user.ProfileUpdate{Birthday: &bday})
		require.ErrorIs(t, err, user.ErrInvalidBirthday)
	})

	t.Run("marks profile completed", func(t *testing.T) {
		repo := &mocks.UserRepository{}
		repo.On("Get", ctx, "u1").Return(&user.User{ID: "u1", Name: "alice"}, nil)
		repo.On("Update", ctx, mock.AnythingOfType("*user.User")).Return(nil)

		name, work, bday := "Alice Liddell", "Wonderland Inc", "1990-05-04"
		u, err := newService(repo, nil).UpdateProfile(ctx, "u1", user.ProfileUpdate{Name: &name, Work: &work, Birthday: &bday})
		require.NoError(t, err)
		require.True(t, u.ProfileCompleted)
		require.Equal(t, "Alice Liddell", u.Name)
		require.Equal(t, "Wonderland Inc", u.Work)
		require.NotNil(t, u.Birthday)
		require.Equal(t, 1990, u.Birthday.Year())
	})
}

func TestUserService_DeleteAccount(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.UserRepository{}
	repo.On("Delete", ctx, "u1").Return(nil)
	repo.On("Delete", ctx, "ghost").Return(repository.ErrNotFound)
	svc := newService(repo, nil)

	require.NoError(t, svc.DeleteAccount(ctx, "u1"))
	require.ErrorIs(t, svc.DeleteAccount(ctx, "ghost"), user.ErrUserNotFound)
}
