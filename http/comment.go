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

// registerCommentRoutes is a helper for registering all Comment routes.
func (s *Server) registerCommentRoutes(r *mux.Router) {
	// List a post's comments. No authentication required.
	r.HandleFunc("/posts/{id:[0-9]+}/comments", s.handleListComments).Methods("GET")

	// Append a comment to a post.
	r.HandleFunc("/posts/{id:[0-9]+}/comments", s.requireAuth(s.handleCreateComment)).Methods("POST")
}

// handleListComments handles the route "GET /api/posts/{id}/comments".
// It returns all comments of a post in creation order, oldest first,
// regardless of authentication.
func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	comments, err := s.cs.ByPostID(r.Context(), id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if comments == nil {
		comments = []domain.Comment{}
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(comments); err != nil {
		errs.LogError(r, err)
	}
}

// handleCreateComment handles the route "POST /api/posts/{id}/comments".
// Any authenticated user may comment on any existing post; no relationship
// to the post's author is required.
func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	var comment domain.Comment
	if err := json.NewDecoder(r.Body).Decode(&comment); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	user := auth.GetUser(r.Context())
	comment.UserID = user.ID
	comment.PostID = id

	if err := s.cs.Create(r.Context(), &comment); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(&comment); err != nil {
		errs.LogError(r, err)
	}
}
