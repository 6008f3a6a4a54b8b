package http

import (
	"context"
	"net/http"
	"time"

	"devconnect/auth"
	"devconnect/domain"
	"devconnect/errs"
)

// handleLoginPage handles the route "GET /login".
func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if auth.GetUser(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	s.renderPage(w, r, "login.gohtml", nil)
}

// handleLoginForm handles the route "POST /login".
// It authenticates the submitted credentials and signs the user in via the
// remember-token cookie. A wrong username or password becomes a flash message.
func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := s.us.Authenticate(r.Context(), username, password)
	if err != nil {
		setFlash(w, "Invalid username or password")
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	if err := s.signIn(w, r.Context(), user); err != nil {
		setFlash(w, "Something went wrong, please try again.")
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// handleLogoutForm handles the route "POST /logout".
// It clears the session cookie and rotates the user's remember token so the
// old cookie value can't be replayed.
func (s *Server) handleLogoutForm(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "remember_token",
		Value:    "",
		Expires:  time.Now(),
		HttpOnly: true,
	})

	if user := auth.GetUser(r.Context()); user != nil {
		if token, err := auth.MakeRememberToken(); err == nil {
			user.Remember = token
			// If the rotation fails the old cookie value stays valid,
			// which at least deserves a trace.
			if err := s.us.Update(r.Context(), user); err != nil {
				errs.LogError(r, err)
			}
		}
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

// handleSignupPage handles the route "GET /signup".
func (s *Server) handleSignupPage(w http.ResponseWriter, r *http.Request) {
	if auth.GetUser(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	s.renderPage(w, r, "signup.gohtml", nil)
}

// handleSignupForm handles the route "POST /signup".
// Unlike the api signup, it creates a session cookie instead of issuing
// tokens, and validation failures surface as flash messages.
func (s *Server) handleSignupForm(w http.ResponseWriter, r *http.Request) {
	user := domain.User{
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}

	if err := s.us.Create(r.Context(), &user); err != nil {
		setFlash(w, flashMessage(err))
		http.Redirect(w, r, "/signup", http.StatusFound)
		return
	}

	setFlash(w, "Account created successfully. You can now login.")
	http.Redirect(w, r, "/login", http.StatusFound)
}

// signIn is used to sign the given user in via the remember-token cookie.
func (s *Server) signIn(w http.ResponseWriter, ctx context.Context, user *domain.User) error {
	if user.Remember == "" {
		token, err := auth.MakeRememberToken()
		if err != nil {
			return err
		}
		user.Remember = token
		if err := s.us.Update(ctx, user); err != nil {
			return err
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "remember_token",
		Value:    user.Remember,
		HttpOnly: true,
	})
	return nil
}
