package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/letzcode/letzcode-server/internal/domain/user"
	"github.com/stretchr/testify/require"
)

func TestTokens_IssueParse(t *testing.T) {
	tokens := NewTokens("secret", 0)

	token, err := tokens.Issue("user-1")
	require.NoError(t, err)

	id, err := tokens.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", id)
}

func TestTokens_Rejections(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)

	_, err := tokens.Parse("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)

	other, err := NewTokens("other-secret", time.Hour).Issue("user-1")
	require.NoError(t, err)
	_, err = tokens.Parse(other)
	require.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{ID: "user-1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = tokens.Parse(none)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokens_Expired(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	issuedAt := time.Now().Add(-2 * time.Hour)
	tokens.now = func() time.Time { return issuedAt }

	token, err := tokens.Issue("user-1")
	require.NoError(t, err)

	tokens.now = time.Now
	_, err = tokens.Parse(token)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestPasswords_HashCompare(t *testing.T) {
	p := NewPasswords()

	hash, err := p.Hash("secret1")
	require.NoError(t, err)
	require.NotEqual(t, "secret1", hash)

	require.NoError(t, p.Compare(hash, "secret1"))
	require.Error(t, p.Compare(hash, "secret2"))
}

type countingLoader struct {
	calls int
	users map[string]*user.User
}

func (l *countingLoader) Get(_ context.Context, id string) (*user.User, error) {
	l.calls++
	if u, ok := l.users[id]; ok {
		return u, nil
	}
	return nil, errors.New("not found")
}

func TestActorCache(t *testing.T) {
	ctx := context.Background()
	loader := &countingLoader{users: map[string]*user.User{"u1": {ID: "u1", Name: "Alice"}}}
	c := NewActorCache(loader)

	u, err := c.Resolve(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "Alice", u.Name)

	_, err = c.Resolve(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 1, loader.calls)

	c.Invalidate("u1")
	_, err = c.Resolve(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 2, loader.calls)

	_, err = c.Resolve(ctx, "ghost")
	require.Error(t, err)
	_, err = c.Resolve(ctx, "ghost")
	require.Error(t, err)
	require.Equal(t, 4, loader.calls)
}

func TestActorCache_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	birthday := time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)
	loader := &countingLoader{users: map[string]*user.User{"u1": {ID: "u1", Name: "Alice", Birthday: &birthday}}}
	c := NewActorCache(loader)

	first, err := c.Resolve(ctx, "u1")
	require.NoError(t, err)
	first.Name = "Mallory"
	*first.Birthday = time.Time{}

	second, err := c.Resolve(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 1, loader.calls)
	require.Equal(t, "Alice", second.Name)
	require.Equal(t, birthday, *second.Birthday)

	second.Name = "Eve"
	third, err := c.Resolve(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "Alice", third.Name)
}

func TestAuthenticator(t *testing.T) {
	ctx := context.Background()
	tokens := NewTokens("secret", time.Hour)
	loader := &countingLoader{users: map[string]*user.User{"u1": {ID: "u1"}}}
	a := NewAuthenticator(tokens, NewActorCache(loader))

	_, err := a.Authenticate(ctx, "")
	require.ErrorIs(t, err, ErrMissingToken)

	_, err = a.Authenticate(ctx, "garbage")
	require.ErrorIs(t, err, ErrInvalidToken)

	token, err := tokens.Issue("u1")
	require.NoError(t, err)
	u, err := a.Authenticate(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "u1", u.ID)

	orphan, err := tokens.Issue("deleted")
	require.NoError(t, err)
	_, err = a.Authenticate(ctx, orphan)
	require.Error(t, err)
}

func TestBearerToken(t *testing.T) {
	require.Equal(t, "abc", BearerToken("Bearer abc"))
	require.Equal(t, "abc", BearerToken("bearer  abc "))
	require.Empty(t, BearerToken("Basic abc"))
	require.Empty(t, BearerToken(""))
}
