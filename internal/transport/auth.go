package transport

import (
	"context"
	"net/http"

	"github.com/letzcode/letzcode-server/internal/auth"
	"github.com/letzcode/letzcode-server/internal/domain/user"
)

type actorKey struct{}

// Authenticator resolves bearer tokens to accounts.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*user.User, error)
	// Forget drops cached state for an account after it changes.
	Forget(userID string)
}

// ActorFromContext returns the authenticated account, if present.
func ActorFromContext(ctx context.Context) (*user.User, bool) {
	actor, ok := ctx.Value(actorKey{}).(*user.User)
	return actor, ok && actor != nil
}

// WithActor stores the authenticated account in ctx.
func WithActor(ctx context.Context, actor *user.User) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// AuthMiddleware enforces bearer token authentication.
func (s *Server) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := auth.BearerToken(r.Header.Get("Authorization"))
		actor, err := s.auth.Authenticate(r.Context(), token)
		if err != nil {
			s.writeError(w, r, "", err, "Authentication failed")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

func mustActor(r *http.Request) *user.User {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		panic("transport: handler mounted without AuthMiddleware")
	}
	return actor
}
