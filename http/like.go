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

// registerLikeRoutes is a helper for registering all Like routes.
func (s *Server) registerLikeRoutes(r *mux.Router) {
	// Read the like status of a post. No authentication required.
	r.HandleFunc("/posts/{id:[0-9]+}/like", s.handleGetLikes).Methods("GET")

	// Toggle the authed user's like on a post.
	r.HandleFunc("/posts/{id:[0-9]+}/like", s.requireAuth(s.handleToggleLike)).Methods("POST")
}

// likeEnvelope is the json response shape of the like endpoints.
type likeEnvelope struct {
	Message   string     `json:"message,omitempty"`
	LikeCount int        `json:"like_count"`
	Users     []likeUser `json:"users"`
}

// likeUser identifies a user holding a like.
type likeUser struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// handleToggleLike handles the route "POST /api/posts/{id}/like".
// It creates the like if the authed user doesn't hold one on the post yet,
// and removes it otherwise. Either way the response carries the recomputed
// like count and the current likers. Activation answers 201, removal 200.
func (s *Server) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	user := auth.GetUser(r.Context())
	status, err := s.ls.Toggle(r.Context(), user.ID, id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	envelope := likeStatusEnvelope(status)
	if status.Liked {
		envelope.Message = "Post liked"
		w.WriteHeader(http.StatusCreated)
	} else {
		envelope.Message = "Like removed"
		w.WriteHeader(http.StatusOK)
	}
	if err := json.NewEncoder(w).Encode(&envelope); err != nil {
		errs.LogError(r, err)
	}
}

// handleGetLikes handles the route "GET /api/posts/{id}/like".
// It returns the live like count and likers of a post without mutating anything.
func (s *Server) handleGetLikes(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	status, err := s.ls.Status(r.Context(), id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	envelope := likeStatusEnvelope(status)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(&envelope); err != nil {
		errs.LogError(r, err)
	}
}

// likeStatusEnvelope projects a LikeStatus to the json envelope. The users
// list is always an array, never null.
func likeStatusEnvelope(status *domain.LikeStatus) likeEnvelope {
	users := make([]likeUser, 0, len(status.Users))
	for _, u := range status.Users {
		users = append(users, likeUser{ID: u.ID, Username: u.Username})
	}
	return likeEnvelope{
		LikeCount: status.Count,
		Users:     users,
	}
}
