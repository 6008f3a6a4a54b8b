package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"devconnect/auth"
	"devconnect/domain"
	"devconnect/errs"
)

// registerProfileRoutes is a helper for registering all profile and user routes.
func (s *Server) registerProfileRoutes(r *mux.Router) {
	// List all profiles, or sign up a new user.
	r.HandleFunc("/profiles", s.handleListProfiles).Methods("GET")
	r.HandleFunc("/profiles", s.handleSignup).Methods("POST")

	// The authed user's own profile.
	r.HandleFunc("/profile", s.requireAuth(s.handleOwnProfile)).Methods("GET")
	r.HandleFunc("/profile", s.requireAuth(s.handleUpdateProfile)).Methods("PUT")

	// Another user's profile by username.
	r.HandleFunc("/profile/{username}", s.handleGetProfile).Methods("GET")

	// All users except the authed one, for building a follow-candidate list.
	r.HandleFunc("/users", s.requireAuth(s.handleListUsers)).Methods("GET")
}

// profileResponse is the json shape of a user profile.
type profileResponse struct {
	ID       int     `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Bio      *string `json:"bio,omitempty"`
}

// handleListProfiles handles the route "GET /api/profiles".
// It returns the username and email of every registered user.
func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	users, err := s.us.All(r.Context())
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	profiles := make([]map[string]string, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, map[string]string{
			"username": user.Username,
			"email":    user.Email,
		})
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(profiles); err != nil {
		errs.LogError(r, err)
	}
}

// handleSignup handles the route "POST /api/profiles".
// It validates the submitted fields, creates the user together with an empty
// profile, and issues a bearer token pair instead of a session cookie.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var user domain.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	if err := s.us.Create(r.Context(), &user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	pair, err := s.tokens.NewPair(user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(pair); err != nil {
		errs.LogError(r, err)
	}
}

// handleOwnProfile handles the route "GET /api/profile".
// It returns the authed user's own profile data.
func (s *Server) handleOwnProfile(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(&profileResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}); err != nil {
		errs.LogError(r, err)
	}
}

// handleGetProfile handles the route "GET /api/profile/{username}".
// It returns the profile of the requested user, including their optional bio.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	user, err := s.us.ByUsername(r.Context(), username)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	resp := profileResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
	if user.Profile != nil {
		resp.Bio = user.Profile.Bio
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(&resp); err != nil {
		errs.LogError(r, err)
	}
}

// handleUpdateProfile handles the route "PUT /api/profile".
// It updates the authed user's username, email and bio. Nobody can update
// anyone else's profile, since the target is always taken from the principal.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username *string `json:"username"`
		Email    *string `json:"email"`
		Bio      *string `json:"bio"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	user := auth.GetUser(r.Context())
	if body.Username != nil {
		user.Username = *body.Username
	}
	if body.Email != nil {
		user.Email = *body.Email
	}
	if body.Bio != nil {
		if user.Profile == nil {
			user.Profile = &domain.Profile{UserID: user.ID}
		}
		user.Profile.Bio = body.Bio
	}

	if err := s.us.Update(r.Context(), user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	resp := profileResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
	if user.Profile != nil {
		resp.Bio = user.Profile.Bio
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(&resp); err != nil {
		errs.LogError(r, err)
	}
}

// handleListUsers handles the route "GET /api/users".
// It returns all users except the requesting one.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	users, err := s.us.AllExcept(r.Context(), user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(users); err != nil {
		errs.LogError(r, err)
	}
}
