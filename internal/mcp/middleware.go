package mcp

import (
	"context"
	"strings"

	"github.com/letzcode/letzcode-server/internal/auth"
	"github.com/letzcode/letzcode-server/internal/domain/user"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type contextKey int

const actorKey contextKey = iota

// actorFromContext returns the authenticated account.
func actorFromContext(ctx context.Context) (*user.User, bool) {
	actor, ok := ctx.Value(actorKey).(*user.User)
	return actor, ok && actor != nil
}

// Authenticator resolves bearer tokens to accounts.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*user.User, error)
}

// authMiddleware authenticates every request except the protocol handshake.
// The token comes from the Authorization header; fallbackToken is used when
// the transport carries no headers (stdio).
func authMiddleware(authenticator Authenticator, fallbackToken string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if method == "initialize" || method == "ping" || strings.HasPrefix(method, "notifications/") {
				return next(ctx, method, req)
			}

			token := fallbackToken
			if extra := req.GetExtra(); extra != nil && extra.Header != nil {
				if bearer := auth.BearerToken(extra.Header.Get("Authorization")); bearer != "" {
					token = bearer
				}
			}

			actor, err := authenticator.Authenticate(ctx, token)
			if err != nil {
				if mapped := MapError(err); mapped != nil {
					return nil, mapped
				}
				return nil, errUnauthorized
			}

			ctx = context.WithValue(ctx, actorKey, actor)
			return next(ctx, method, req)
		}
	}
}
