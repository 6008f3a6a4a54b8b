package http

import (
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"

	"devconnect/auth"
	"devconnect/domain"
	"devconnect/errs"
	"devconnect/log"
)

//go:embed views/*.gohtml
var viewsFS embed.FS

var views = template.Must(template.ParseFS(viewsFS, "views/*.gohtml"))

// pageData is what every page template receives.
type pageData struct {
	User  *domain.User
	Flash string
	CSRF  template.HTML

	Posts    []domain.Post
	Post     *domain.Post
	Comments map[int][]domain.Comment
	List     []domain.Comment
}

// registerPageRoutes is a helper for registering the page-rendering routes.
func (s *Server) registerPageRoutes(r *mux.Router) {
	r.HandleFunc("/", s.requireUser(s.handleHome)).Methods("GET")
	r.HandleFunc("/profile", s.requireUser(s.handleProfilePage)).Methods("GET")
	r.HandleFunc("/myposts", s.requireUser(s.handleMyPostsPage)).Methods("GET")

	r.HandleFunc("/login", s.handleLoginPage).Methods("GET")
	r.HandleFunc("/login", s.handleLoginForm).Methods("POST")
	r.HandleFunc("/logout", s.handleLogoutForm).Methods("POST")
	r.HandleFunc("/signup", s.handleSignupPage).Methods("GET")
	r.HandleFunc("/signup", s.handleSignupForm).Methods("POST")

	r.HandleFunc("/create_post", s.requireUser(s.handleCreatePostPage)).Methods("GET")
	r.HandleFunc("/create_post", s.requireUser(s.handleCreatePostForm)).Methods("POST")
	r.HandleFunc("/edit/{post_id:[0-9]+}", s.requireUser(s.handleEditPostPage)).Methods("GET")
	r.HandleFunc("/edit/{post_id:[0-9]+}", s.requireUser(s.handleEditPostForm)).Methods("POST")
	r.HandleFunc("/delete/{post_id:[0-9]+}", s.requireUser(s.handleDeletePostForm)).Methods("POST")

	r.HandleFunc("/comment_post/{post_id:[0-9]+}", s.requireUser(s.handleCommentPostPage)).Methods("GET")
	r.HandleFunc("/comment_post/{post_id:[0-9]+}", s.requireUser(s.handleCommentPostForm)).Methods("POST")
	r.HandleFunc("/like_post/{post_id:[0-9]+}", s.requireUser(s.handleLikePostForm)).Methods("POST")
}

// handleHome handles the route "GET /".
// It renders the global feed, newest first, with each post's comments and
// a marker on the posts the authed user has liked.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	posts, err := s.ps.All(r.Context())
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	liked, err := s.ls.LikedPostIDs(r.Context(), user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	comments := make(map[int][]domain.Comment, len(posts))
	for i := range posts {
		posts[i].LikedByAuth = liked[posts[i].ID]
		list, err := s.cs.ByPostID(r.Context(), posts[i].ID)
		if err != nil {
			errs.ReturnError(w, r, err)
			return
		}
		comments[posts[i].ID] = list
	}

	s.renderPage(w, r, "home.gohtml", &pageData{
		Posts:    posts,
		Comments: comments,
	})
}

// handleProfilePage handles the route "GET /profile".
// It shows the authed user's data along with their posts.
func (s *Server) handleProfilePage(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	posts, err := s.ps.ByUserID(r.Context(), user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	s.renderPage(w, r, "profile.gohtml", &pageData{Posts: posts})
}

// handleMyPostsPage handles the route "GET /myposts".
func (s *Server) handleMyPostsPage(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	posts, err := s.ps.ByUserID(r.Context(), user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	s.renderPage(w, r, "myposts.gohtml", &pageData{Posts: posts})
}

// handleCreatePostPage handles the route "GET /create_post".
func (s *Server) handleCreatePostPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, "create_post.gohtml", nil)
}

// handleCreatePostForm handles the route "POST /create_post".
func (s *Server) handleCreatePostForm(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	post := domain.Post{
		UserID:  user.ID,
		Content: r.PostFormValue("content"),
	}
	if err := s.ps.Create(r.Context(), &post); err != nil {
		setFlash(w, flashMessage(err))
		http.Redirect(w, r, "/create_post", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// handleEditPostPage handles the route "GET /edit/{post_id}".
// Non-authors are bounced back to the profile with a flash message before
// the form is even rendered.
func (s *Server) handleEditPostPage(w http.ResponseWriter, r *http.Request) {
	post, err := s.pagePost(r)
	if err != nil {
		setFlash(w, flashMessage(err))
		http.Redirect(w, r, "/profile", http.StatusFound)
		return
	}

	user := auth.GetUser(r.Context())
	if post.UserID != user.ID {
		setFlash(w, "You are not authorized to edit this post.")
		http.Redirect(w, r, "/profile", http.StatusFound)
		return
	}

	s.renderPage(w, r, "edit_post.gohtml", &pageData{Post: post})
}

// handleEditPostForm handles the route "POST /edit/{post_id}".
func (s *Server) handleEditPostForm(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["post_id"])
	if err != nil {
		http.NotFound(w, r)
		return
	}

	user := auth.GetUser(r.Context())
	if _, err := s.ps.Update(r.Context(), user.ID, id, r.PostFormValue("content")); err != nil {
		setFlash(w, flashMessage(err))
		http.Redirect(w, r, "/profile", http.StatusFound)
		return
	}

	setFlash(w, "Post updated successfully.")
	http.Redirect(w, r, "/profile", http.StatusFound)
}

// handleDeletePostForm handles the route "POST /delete/{post_id}".
func (s *Server) handleDeletePostForm(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["post_id"])
	if err != nil {
		http.NotFound(w, r)
		return
	}

	user := auth.GetUser(r.Context())
	if err := s.ps.Delete(r.Context(), user.ID, id); err != nil {
		setFlash(w, flashMessage(err))
		http.Redirect(w, r, "/profile", http.StatusFound)
		return
	}

	setFlash(w, "Post deleted successfully.")
	http.Redirect(w, r, "/profile", http.StatusFound)
}

// handleCommentPostPage handles the route "GET /comment_post/{post_id}".
// It shows the post with its comments and a form to add another one.
func (s *Server) handleCommentPostPage(w http.ResponseWriter, r *http.Request) {
	post, err := s.pagePost(r)
	if err != nil {
		setFlash(w, flashMessage(err))
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	comments, err := s.cs.ByPostID(r.Context(), post.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	s.renderPage(w, r, "comment_post.gohtml", &pageData{
		Post: post,
		List: comments,
	})
}

// handleCommentPostForm handles the route "POST /comment_post/{post_id}".
func (s *Server) handleCommentPostForm(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["post_id"])
	if err != nil {
		http.NotFound(w, r)
		return
	}

	user := auth.GetUser(r.Context())
	comment := domain.Comment{
		UserID:  user.ID,
		PostID:  id,
		Content: r.PostFormValue("content"),
	}
	if err := s.cs.Create(r.Context(), &comment); err != nil {
		setFlash(w, flashMessage(err))
	}
	http.Redirect(w, r, "/comment_post/"+strconv.Itoa(id), http.StatusFound)
}

// handleLikePostForm handles the route "POST /like_post/{post_id}".
// It toggles the authed user's like on the post and returns to the feed.
func (s *Server) handleLikePostForm(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["post_id"])
	if err != nil {
		http.NotFound(w, r)
		return
	}

	user := auth.GetUser(r.Context())
	if _, err := s.ls.Toggle(r.Context(), user.ID, id); err != nil {
		setFlash(w, flashMessage(err))
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// pagePost fetches the post referenced by the {post_id} route variable.
func (s *Server) pagePost(r *http.Request) (*domain.Post, error) {
	id, err := strconv.Atoi(mux.Vars(r)["post_id"])
	if err != nil {
		return nil, errs.Errorf(errs.EINVALID, "Invalid Id format.")
	}
	return s.ps.ByID(r.Context(), id)
}

// renderPage executes the named template with the page chrome filled in:
// the authed user, the pending flash message, and the csrf form field.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, name string, data *pageData) {
	if data == nil {
		data = &pageData{}
	}
	data.User = auth.GetUser(r.Context())
	data.Flash = getFlash(w, r)
	data.CSRF = csrf.TemplateField(r)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := views.ExecuteTemplate(w, name, data); err != nil {
		log.Error("[http] rendering %s: %v", name, err)
	}
}

// setFlash stores a one-shot message in a cookie. The next rendered page
// picks it up and clears it.
func setFlash(w http.ResponseWriter, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "flash",
		Value:    url.QueryEscape(message),
		Path:     "/",
		HttpOnly: true,
	})
}

// getFlash reads and clears the pending flash message, if any.
func getFlash(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie("flash")
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "flash",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	message, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}
	return message
}

// flashMessage converts an application error to its user-facing text.
func flashMessage(err error) string {
	return errs.ErrorMessage(err)
}
