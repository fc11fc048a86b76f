package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/letzcode/letzcode-server/internal/domain/user"
)

// ErrMissingToken indicates a request without a bearer token.
var ErrMissingToken = errors.New("no authentication token provided")

// Authenticator turns a bearer token into the account it was issued for.
type Authenticator struct {
	tokens *Tokens
	actors *ActorCache
}

// NewAuthenticator creates an authenticator.
func NewAuthenticator(tokens *Tokens, actors *ActorCache) *Authenticator {
	return &Authenticator{tokens: tokens, actors: actors}
}

// Authenticate returns the account for token. It fails with ErrMissingToken,
// ErrInvalidToken, ErrExpiredToken or the loader's not-found error.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (*user.User, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	userID, err := a.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	return a.actors.Resolve(ctx, userID)
}

// Forget drops any cached copy of the account.
func (a *Authenticator) Forget(userID string) {
	a.actors.Invalidate(userID)
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
