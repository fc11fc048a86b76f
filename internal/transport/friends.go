package transport

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type targetBody struct {
	UserID string `json:"userId"`
}

func (s *Server) handleListFriends(w http.ResponseWriter, r *http.Request) {
	lists, err := s.users.ListFriends(r.Context(), mustActor(r).ID)
	if err != nil {
		s.writeError(w, r, "", err, "Error fetching friends")
		return
	}
	respond(w, http.StatusOK, envelope{
		"friends":        lists.Friends,
		"friendRequests": lists.FriendRequests,
		"sentRequests":   lists.SentRequests,
	})
}

func (s *Server) handleSearchUsers(w http.ResponseWriter, r *http.Request) {
	results, err := s.users.Search(r.Context(), mustActor(r).ID, r.URL.Query().Get("query"))
	if err != nil {
		s.writeError(w, r, "", err, "Error searching users")
		return
	}
	respond(w, http.StatusOK, envelope{"users": results})
}

func (s *Server) handleMutual(w http.ResponseWriter, r *http.Request) {
	actor := mustActor(r)
	friendID := chi.URLParam(r, "friendId")

	friends, err := s.users.MutualFriends(r.Context(), actor.ID, friendID)
	if err != nil {
		s.writeError(w, r, "", err, "Error fetching mutual data")
		return
	}
	shared, err := s.projects.ListShared(r.Context(), actor.ID, friendID)
	if err != nil {
		s.writeError(w, r, "", err, "Error fetching mutual data")
		return
	}
	projects, err := s.presentSummaries(r.Context(), shared)
	if err != nil {
		s.writeError(w, r, "", err, "Error fetching mutual data")
		return
	}

	respond(w, http.StatusOK, envelope{
		"mutualFriends":  friends,
		"mutualProjects": projects,
	})
}

// friendAction handles the POST endpoints that take {"userId": ...}.
func (s *Server) friendAction(
	w http.ResponseWriter,
	r *http.Request,
	action func(ctx context.Context, actorID, targetID string) error,
	success, fallback string,
) {
	var body targetBody
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, "", errInvalidBody, "")
		return
	}
	if err := action(r.Context(), mustActor(r).ID, body.UserID); err != nil {
		s.writeError(w, r, "", err, fallback)
		return
	}
	respond(w, http.StatusOK, envelope{"message": success})
}

func (s *Server) handleFriendRequest(w http.ResponseWriter, r *http.Request) {
	s.friendAction(w, r, s.users.SendFriendRequest,
		"Friend request sent successfully", "Error sending friend request")
}

func (s *Server) handleRejectFriend(w http.ResponseWriter, r *http.Request) {
	s.friendAction(w, r, s.users.RejectFriendRequest,
		"Friend request rejected", "Error rejecting friend request")
}

func (s *Server) handleCancelFriend(w http.ResponseWriter, r *http.Request) {
	s.friendAction(w, r, s.users.CancelFriendRequest,
		"Friend request cancelled", "Error cancelling friend request")
}

func (s *Server) handleAcceptFriend(w http.ResponseWriter, r *http.Request) {
	var body targetBody
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, "", errInvalidBody, "")
		return
	}
	friend, err := s.users.AcceptFriendRequest(r.Context(), mustActor(r).ID, body.UserID)
	if err != nil {
		s.writeError(w, r, "", err, "Error accepting friend request")
		return
	}
	respond(w, http.StatusOK, envelope{
		"message": "Friend request accepted",
		"friend":  friend,
	})
}

func (s *Server) handleRemoveFriend(w http.ResponseWriter, r *http.Request) {
	err := s.users.RemoveFriend(r.Context(), mustActor(r).ID, chi.URLParam(r, "friendId"))
	if err != nil {
		s.writeError(w, r, "", err, "Error removing friend")
		return
	}
	respond(w, http.StatusOK, envelope{"message": "Friend removed successfully"})
}
