package transport

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/letzcode/letzcode-server/internal/auth"
	"github.com/letzcode/letzcode-server/internal/domain/project"
	"github.com/letzcode/letzcode-server/internal/domain/user"
	"github.com/stretchr/testify/require"
)

func TestResolveError(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		err     error
		status  int
		message string
	}{
		{"wrapped not found", "", fmt.Errorf("loading: %w", project.ErrProjectNotFound), http.StatusNotFound, "Project not found"},
		{"checkout non-member", opCheckOut, project.ErrNotAMember, http.StatusForbidden, "Only project members can check out the project"},
		{"files non-member", opAddFiles, project.ErrNotAMember, http.StatusForbidden, "Only project members can add files"},
		{"remove by non-owner", opRemoveMember, project.ErrNotOwner, http.StatusForbidden, "Only the project owner can remove members"},
		{"lock holder", "", project.ErrNotLockHolder, http.StatusForbidden, "Only the user who checked out the project can check it back in"},
		{"expired token", "", auth.ErrExpiredToken, http.StatusUnauthorized, "Invalid or expired token"},
		{"wrong password", "", user.ErrWrongPassword, http.StatusUnauthorized, "Incorrect password. Please try again."},
		{"pending request", "", user.ErrRequestPending, http.StatusBadRequest, "This user has already sent you a friend request. Accept it instead."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message, ok := resolveError(tt.op, tt.err)
			require.True(t, ok)
			require.Equal(t, tt.status, status)
			require.Equal(t, tt.message, message)
		})
	}
}

func TestResolveError_Unexpected(t *testing.T) {
	status, _, ok := resolveError(opCheckOut, errors.New("database is locked"))
	require.False(t, ok)
	require.Equal(t, http.StatusInternalServerError, status)
}
