package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/letzcode/letzcode-server/internal/domain/user"
)

type signUpBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

type signInBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileBody struct {
	Name     *string `json:"name"`
	Bio      *string `json:"bio"`
	Location *string `json:"location"`
	Website  *string `json:"website"`
	Birthday *string `json:"birthday"`
	Work     *string `json:"work"`
}

// profileView is the public profile: the account plus its friends.
type profileView struct {
	*user.User
	Friends []user.Summary `json:"friends"`
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var body signUpBody
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, "", errInvalidBody, "")
		return
	}

	result, err := s.users.SignUp(r.Context(), user.SignUpRequest{
		Email:    body.Email,
		Password: body.Password,
		Username: body.Username,
	})
	if err != nil {
		s.writeError(w, r, "", err, "Error creating account. Please try again.")
		return
	}

	respond(w, http.StatusCreated, envelope{
		"message": "Account created successfully! Please complete your profile.",
		"token":   result.Token,
		"user":    result.User,
	})
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var body signInBody
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, "", errInvalidBody, "")
		return
	}

	result, err := s.users.SignIn(r.Context(), body.Email, body.Password)
	if err != nil {
		s.writeError(w, r, "", err, "Error signing in. Please try again.")
		return
	}

	respond(w, http.StatusOK, envelope{
		"message": "Login successful! Welcome back!",
		"token":   result.Token,
		"user":    result.User,
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, envelope{"user": mustActor(r)})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	u, err := s.users.Get(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, "", err, "Error fetching profile")
		return
	}
	lists, err := s.users.ListFriends(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, "", err, "Error fetching profile")
		return
	}

	respond(w, http.StatusOK, envelope{"user": profileView{User: u, Friends: lists.Friends}})
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor := mustActor(r)
	var body profileBody
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, "", errInvalidBody, "")
		return
	}

	updated, err := s.users.UpdateProfile(r.Context(), actor.ID, user.ProfileUpdate{
		Name:     body.Name,
		Bio:      body.Bio,
		Location: body.Location,
		Website:  body.Website,
		Birthday: body.Birthday,
		Work:     body.Work,
	})
	if err != nil {
		s.writeError(w, r, "", err, "Error updating profile")
		return
	}
	s.auth.Forget(actor.ID)

	respond(w, http.StatusOK, envelope{
		"message": "Profile updated successfully",
		"user":    updated,
	})
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	actor := mustActor(r)
	if err := s.users.DeleteAccount(r.Context(), actor.ID); err != nil {
		s.writeError(w, r, "", err, "Error deleting account")
		return
	}
	s.auth.Forget(actor.ID)

	respond(w, http.StatusOK, envelope{"message": "Account deleted successfully"})
}
