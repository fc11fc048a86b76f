package transport

import (
	"errors"
	"net/http"

	"github.com/letzcode/letzcode-server/internal/auth"
	"github.com/letzcode/letzcode-server/internal/domain/notification"
	"github.com/letzcode/letzcode-server/internal/domain/project"
	"github.com/letzcode/letzcode-server/internal/domain/user"
)

// errInvalidBody is returned when a request body is not valid JSON.
var errInvalidBody = errors.New("invalid request body")

type errorMapping struct {
	err     error
	status  int
	message string
}

// errorMappings is checked in order with errors.Is.
var errorMappings = []errorMapping{
	{errInvalidBody, http.StatusBadRequest, "Invalid request body"},

	{auth.ErrMissingToken, http.StatusUnauthorized, "No authentication token provided"},
	{auth.ErrInvalidToken, http.StatusUnauthorized, "Invalid or expired token"},
	{auth.ErrExpiredToken, http.StatusUnauthorized, "Invalid or expired token"},

	{project.ErrProjectNotFound, http.StatusNotFound, "Project not found"},
	{project.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{project.ErrMissingFields, http.StatusBadRequest, "Please provide name, description, and type"},
	{project.ErrInvalidType, http.StatusBadRequest, "Please provide a valid project type"},
	{project.ErrMissingMessage, http.StatusBadRequest, "Check-in message is required"},
	{project.ErrUserIDRequired, http.StatusBadRequest, "User ID is required"},
	{project.ErrAlreadyCheckedOut, http.StatusBadRequest, "Project is already checked out"},
	{project.ErrNotCheckedOut, http.StatusBadRequest, "Project is not checked out"},
	{project.ErrAlreadyMember, http.StatusBadRequest, "User is already a member of this project"},
	{project.ErrCannotRemoveOwner, http.StatusBadRequest, "Cannot remove the project owner"},
	{project.ErrNotLockHolder, http.StatusForbidden, "Only the user who checked out the project can check it back in"},
	{project.ErrNotAuthorized, http.StatusForbidden, "Only project owner and members can add new members"},
	{project.ErrNotAFriend, http.StatusForbidden, "You can only add friends to the project"},

	{user.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{user.ErrMissingSignUpFields, http.StatusBadRequest, "Please provide email, username, and password"},
	{user.ErrPasswordTooShort, http.StatusBadRequest, "Password must be at least 6 characters long"},
	{user.ErrUsernameTooShort, http.StatusBadRequest, "Username must be at least 3 characters long"},
	{user.ErrUsernameInvalid, http.StatusBadRequest, "Username can only contain letters, numbers, and underscores"},
	{user.ErrEmailInvalid, http.StatusBadRequest, "Please provide a valid email address"},
	{user.ErrEmailTaken, http.StatusBadRequest, "An account with this email already exists. Please sign in instead."},
	{user.ErrUsernameTaken, http.StatusBadRequest, "This username is already taken. Please choose another one."},
	{user.ErrMissingSignInFields, http.StatusBadRequest, "Please provide both email and password"},
	{user.ErrAccountNotFound, http.StatusUnauthorized, "No account found with this email. Please sign up first."},
	{user.ErrWrongPassword, http.StatusUnauthorized, "Incorrect password. Please try again."},
	{user.ErrBioTooLong, http.StatusBadRequest, "Bio cannot exceed 500 characters"},
	{user.ErrInvalidBirthday, http.StatusBadRequest, "Please provide a valid birthday"},
	{user.ErrUserIDRequired, http.StatusBadRequest, "User ID is required"},
	{user.ErrSelfFriendRequest, http.StatusBadRequest, "Cannot send friend request to yourself"},
	{user.ErrAlreadyFriends, http.StatusBadRequest, "You are already friends with this user"},
	{user.ErrRequestAlreadySent, http.StatusBadRequest, "Friend request already sent"},
	{user.ErrRequestPending, http.StatusBadRequest, "This user has already sent you a friend request. Accept it instead."},
	{user.ErrNoPendingRequest, http.StatusBadRequest, "No friend request from this user"},
	{user.ErrNotFriends, http.StatusBadRequest, "This user is not your friend"},

	{notification.ErrNotificationNotFound, http.StatusNotFound, "Notification not found"},
}

// forbiddenMessages words the shared permission sentinels per operation.
var forbiddenMessages = map[string]map[error]string{
	opCheckOut:     {project.ErrNotAMember: "Only project members can check out the project"},
	opAddFiles:     {project.ErrNotAMember: "Only project members can add files"},
	opRemoveMember: {project.ErrNotOwner: "Only the project owner can remove members"},
	opDelete:       {project.ErrNotOwner: "Only the project owner can delete the project"},
	opUpdate:       {project.ErrNotOwner: "Only the project owner can update project details"},
}

const (
	opCheckOut     = "checkout"
	opAddFiles     = "add-files"
	opRemoveMember = "remove-member"
	opDelete       = "delete"
	opUpdate       = "update"
)

// resolveError maps err to a status and client message. ok is false when the
// error is unexpected.
func resolveError(op string, err error) (status int, message string, ok bool) {
	for sentinel, msg := range forbiddenMessages[op] {
		if errors.Is(err, sentinel) {
			return http.StatusForbidden, msg, true
		}
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.status, m.message, true
		}
	}
	if errors.Is(err, project.ErrNotAMember) || errors.Is(err, project.ErrNotOwner) {
		return http.StatusForbidden, "You do not have permission to perform this action", true
	}
	return http.StatusInternalServerError, "", false
}

// writeError writes the client form of err. Unexpected errors are logged and
// answered with fallback.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, op string, err error, fallback string) {
	status, message, ok := resolveError(op, err)
	if !ok {
		s.logger.Error(fallback,
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
		)
		message = fallback
	}
	fail(w, status, message)
}
