package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// maxLoggedPayload caps how much of a params or result body lands in a log line.
const maxLoggedPayload = 2048

// trafficLoggingMiddleware writes one debug line per MCP call once the call
// returns. Notifications and pings are not logged.
func trafficLoggingMiddleware(logger *slog.Logger) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if logger == nil || !logger.Enabled(ctx, slog.LevelDebug) || quietMethod(method) {
				return next(ctx, method, req)
			}

			start := time.Now()
			result, err := next(ctx, method, req)

			attrs := []any{
				"method", method,
				"session_id", sessionIDOf(req),
				"duration", time.Since(start),
				"params", payloadString(paramsOf(req)),
			}
			if actor, ok := actorFromContext(ctx); ok {
				attrs = append(attrs, "user_id", actor.ID)
			}
			if err != nil {
				attrs = append(attrs, "error", err)
			} else {
				attrs = append(attrs, "result", payloadString(result))
			}
			logger.Debug("mcp call", attrs...)

			return result, err
		}
	}
}

func quietMethod(method string) bool {
	return method == "ping" || strings.HasPrefix(method, "notifications/")
}

// sessionIDOf tolerates requests whose session is not yet attached.
func sessionIDOf(req sdkmcp.Request) (id string) {
	if req == nil {
		return ""
	}
	defer func() {
		if recover() != nil {
			id = ""
		}
	}()
	if session := req.GetSession(); session != nil {
		return session.ID()
	}
	return ""
}

func paramsOf(req sdkmcp.Request) (params any) {
	if req == nil {
		return nil
	}
	defer func() {
		if recover() != nil {
			params = nil
		}
	}()
	return req.GetParams()
}

func payloadString(payload any) string {
	if payload == nil {
		return "<nil>"
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%T", payload)
	}
	if len(data) > maxLoggedPayload {
		return string(data[:maxLoggedPayload]) + "...(truncated)"
	}
	return string(data)
}
