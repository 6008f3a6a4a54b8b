package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"devconnect/auth"
	"devconnect/domain"
	"devconnect/errs"
)

// registerFollowRoutes is a helper for registering all Follow routes.
func (s *Server) registerFollowRoutes(r *mux.Router) {
	// Read the follower status of a user. No authentication required.
	r.HandleFunc("/follows/{user_id:[0-9]+}", s.handleGetFollowers).Methods("GET")

	// Toggle the authed user's follow on another user.
	r.HandleFunc("/follows/{user_id:[0-9]+}", s.requireAuth(s.handleToggleFollow)).Methods("POST")
}

// followEnvelope is the json response shape of the follow endpoints.
type followEnvelope struct {
	Message       string   `json:"message,omitempty"`
	FollowerCount int      `json:"follower_count"`
	Followers     []string `json:"followers"`
}

// handleToggleFollow handles the route "POST /api/follows/{user_id}".
// It creates the follow if the authed user doesn't follow the target yet,
// and removes it otherwise. The response carries the recomputed follower
// count and follower names. Activation answers 201, removal 200.
func (s *Server) handleToggleFollow(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["user_id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	user := auth.GetUser(r.Context())
	status, err := s.fs.Toggle(r.Context(), user.ID, id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	envelope := followStatusEnvelope(status)
	if status.Following {
		envelope.Message = "Followed successfully"
		w.WriteHeader(http.StatusCreated)
	} else {
		envelope.Message = "Unfollowed successfully"
		w.WriteHeader(http.StatusOK)
	}
	if err := json.NewEncoder(w).Encode(&envelope); err != nil {
		errs.LogError(r, err)
	}
}

// handleGetFollowers handles the route "GET /api/follows/{user_id}".
// It returns the live follower count and names without mutating anything.
func (s *Server) handleGetFollowers(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["user_id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	status, err := s.fs.Status(r.Context(), id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	envelope := followStatusEnvelope(status)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(&envelope); err != nil {
		errs.LogError(r, err)
	}
}

// followStatusEnvelope projects a FollowStatus to the json envelope.
// The followers list is always an array, never null.
func followStatusEnvelope(status *domain.FollowStatus) followEnvelope {
	followers := make([]string, 0, len(status.Followers))
	for _, u := range status.Followers {
		followers = append(followers, u.Username)
	}
	return followEnvelope{
		FollowerCount: status.Count,
		Followers:     followers,
	}
}
