package mcp

import (
	"errors"
	"fmt"

	"github.com/letzcode/letzcode-server/internal/auth"
	"github.com/letzcode/letzcode-server/internal/domain/notification"
	"github.com/letzcode/letzcode-server/internal/domain/project"
	"github.com/letzcode/letzcode-server/internal/domain/user"
)

// APIError is the tool-facing form of a domain error.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
}

var errUnauthorized = &APIError{Code: "UNAUTHORIZED", Message: "Invalid or expired token", RecoveryHint: "Send a valid bearer token"}

// MapError maps domain errors to tool errors. It returns nil for errors
// that are not part of the domain vocabulary.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	switch {
	case errors.Is(err, auth.ErrMissingToken), errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrExpiredToken):
		return errUnauthorized
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "Project not found", RecoveryHint: "Call list_projects for valid ids"}
	case errors.Is(err, project.ErrUserNotFound), errors.Is(err, user.ErrUserNotFound):
		return &APIError{Code: "USER_NOT_FOUND", Message: "User not found"}
	case errors.Is(err, project.ErrNotAMember):
		return &APIError{Code: "NOT_A_MEMBER", Message: "Only project members can perform this action"}
	case errors.Is(err, project.ErrAlreadyCheckedOut):
		return &APIError{Code: "ALREADY_CHECKED_OUT", Message: "Project is already checked out", RecoveryHint: "Wait for the holder to check it in"}
	case errors.Is(err, project.ErrNotCheckedOut):
		return &APIError{Code: "NOT_CHECKED_OUT", Message: "Project is not checked out", RecoveryHint: "Call check_out_project first"}
	case errors.Is(err, project.ErrNotLockHolder):
		return &APIError{Code: "NOT_LOCK_HOLDER", Message: "Only the user who checked out the project can check it back in"}
	case errors.Is(err, project.ErrMissingMessage):
		return &APIError{Code: "INVALID_INPUT", Message: "Check-in message is required"}
	case errors.Is(err, notification.ErrNotificationNotFound):
		return &APIError{Code: "NOTIFICATION_NOT_FOUND", Message: "Notification not found"}
	default:
		return nil
	}
}
