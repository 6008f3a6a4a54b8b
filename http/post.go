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

// registerPostRoutes is a helper for registering all Post routes.
func (s *Server) registerPostRoutes(r *mux.Router) {
	// The global feed, newest first, and post creation.
	r.HandleFunc("/posts", s.handleListPosts).Methods("GET")
	r.HandleFunc("/posts", s.requireAuth(s.handleCreatePost)).Methods("POST")

	// A single post: read, author-only edit and delete.
	r.HandleFunc("/posts/{id:[0-9]+}", s.handleGetPost).Methods("GET")
	r.HandleFunc("/posts/{id:[0-9]+}", s.requireAuth(s.handleUpdatePost)).Methods("PUT")
	r.HandleFunc("/posts/{id:[0-9]+}", s.requireAuth(s.handleDeletePost)).Methods("DELETE")

	// The authed user's own posts; POST behaves like /posts.
	r.HandleFunc("/myposts", s.requireAuth(s.handleMyPosts)).Methods("GET")
	r.HandleFunc("/myposts", s.requireAuth(s.handleCreatePost)).Methods("POST")
}

// handleListPosts handles the route "GET /api/posts".
// It returns all posts, newest first, each annotated with its live like count.
func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.ps.All(r.Context())
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if posts == nil {
		posts = []domain.Post{}
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(posts); err != nil {
		errs.LogError(r, err)
	}
}

// handleCreatePost handles the routes "POST /api/posts" and "POST /api/myposts".
// It reads the content from the json body and creates a post authored by the
// authed user.
func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var post domain.Post
	if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	user := auth.GetUser(r.Context())
	post.UserID = user.ID

	if err := s.ps.Create(r.Context(), &post); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(&post); err != nil {
		errs.LogError(r, err)
	}
}

// handleGetPost handles the route "GET /api/posts/{id}".
func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	post, err := s.ps.ByID(r.Context(), id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(post); err != nil {
		errs.LogError(r, err)
	}
}

// handleUpdatePost handles the route "PUT /api/posts/{id}".
// Only the author may edit a post; anyone else gets a 403 and the post
// remains unchanged.
func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	user := auth.GetUser(r.Context())
	post, err := s.ps.Update(r.Context(), user.ID, id, body.Content)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(post); err != nil {
		errs.LogError(r, err)
	}
}

// handleDeletePost handles the route "DELETE /api/posts/{id}".
// Only the author may delete a post. Its likes and comments are removed by
// the database's foreign key cascades.
func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	user := auth.GetUser(r.Context())
	if err := s.ps.Delete(r.Context(), user.ID, id); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleMyPosts handles the route "GET /api/myposts".
// It returns the authed user's own posts, newest first.
func (s *Server) handleMyPosts(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	posts, err := s.ps.ByUserID(r.Context(), user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if posts == nil {
		posts = []domain.Post{}
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(posts); err != nil {
		errs.LogError(r, err)
	}
}
