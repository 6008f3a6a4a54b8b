package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"

	"devconnect/auth"
	"devconnect/crud"
	"devconnect/domain"
	"devconnect/errs"
	"devconnect/log"
)

// Server provides most of the http functionality of this app, namely routing,
// request handling, and middleware. It resolves the requesting principal and
// performs authentication checks before handing things over to one of the
// crud services. Two surfaces share those services: the json api under /api
// and the form-submitting page surface at the root.
type Server struct {
	router *mux.Router
	us     domain.UserService
	ps     domain.PostService
	ls     domain.LikeService
	cs     domain.CommentService
	fs     domain.FollowService
	tokens *auth.TokenManager
}

// NewServer returns a new instance of the server, registers all necessary
// routes and gives their handlers access to the app services passed in.
func NewServer(isProd bool, csrfAuthKey string, tokens *auth.TokenManager, services *crud.Services) *Server {
	s := &Server{
		router: mux.NewRouter(),
		us:     services.User,
		ps:     services.Post,
		ls:     services.Like,
		cs:     services.Comment,
		fs:     services.Follow,
		tokens: tokens,
	}

	// The api surface returns json envelopes, token-authenticated.
	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(setContentTypeJSON)
	s.registerTokenRoutes(api)
	s.registerProfileRoutes(api)
	s.registerPostRoutes(api)
	s.registerLikeRoutes(api)
	s.registerCommentRoutes(api)
	s.registerFollowRoutes(api)

	// The page surface renders templates and redirects, session-cookie
	// authenticated. Its forms carry CSRF tokens.
	pages := s.router.NewRoute().Subrouter()
	csrfMw := csrf.Protect([]byte(csrfAuthKey), csrf.Secure(isProd), csrf.Path("/"))
	pages.Use(csrfMw)
	s.registerPageRoutes(pages)

	s.router.Use(s.checkUser)
	s.router.MethodNotAllowedHandler = http.HandlerFunc(handleMethodNotAllowed)
	return s
}

// Run starts to listen and serve on the specified port.
func (s *Server) Run(port int) {
	addr := ":" + strconv.Itoa(port)
	log.Info("[http] listening on %s", addr)
	log.Fatal("%v", http.ListenAndServe(addr, s.router))
}

// Router exposes the underlying handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// The setContentTypeJSON middleware sets the content type to "application/json".
func setContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// The checkUser middleware tries to resolve the requesting principal, first
// from the session cookie, then from a bearer access token. It never rejects
// a request; handlers that need authentication wrap themselves in requireAuth
// or requireUser.
func (s *Server) checkUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := s.resolveUser(r); user != nil {
			r = r.WithContext(auth.SetUser(r.Context(), user))
		}
		next.ServeHTTP(w, r)
	})
}

// resolveUser identifies the user behind a request, or returns nil for an
// anonymous request.
func (s *Server) resolveUser(r *http.Request) *domain.User {
	if cookie, err := r.Cookie("remember_token"); err == nil {
		if user, err := s.us.ByRemember(r.Context(), cookie.Value); err == nil {
			return user
		}
	}

	header := r.Header.Get("Authorization")
	if tokenString, ok := strings.CutPrefix(header, "Bearer "); ok {
		claims, err := s.tokens.Parse(tokenString)
		if err != nil || claims.TokenType != auth.TokenTypeAccess {
			return nil
		}
		if user, err := s.us.ByID(r.Context(), claims.UserID); err == nil {
			return user
		}
	}
	return nil
}

// requireAuth rejects anonymous api requests with a 401 envelope.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if auth.GetUser(r.Context()) == nil {
			errs.ReturnError(w, r, errs.Errorf(errs.EUNAUTHORIZED, "Authentication required."))
			return
		}
		next.ServeHTTP(w, r)
	}
}

// requireUser redirects anonymous page requests to the login page.
func (s *Server) requireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if auth.GetUser(r.Context()) == nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	}
}

// handleMethodNotAllowed returns the json error envelope with a 405.
func handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	w.Write([]byte(`{"error": "Invalid request method"}`))
}
