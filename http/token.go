package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"devconnect/errs"
)

// registerTokenRoutes is a helper for registering the token issuing routes.
func (s *Server) registerTokenRoutes(r *mux.Router) {
	// Obtain an access/refresh token pair with username and password.
	r.HandleFunc("/auth/token", s.handleObtainToken).Methods("POST")

	// Exchange a refresh token for a fresh pair.
	r.HandleFunc("/auth/token/refresh", s.handleRefreshToken).Methods("POST")
}

// handleObtainToken handles the route "POST /api/auth/token".
// It authenticates the submitted credentials and issues a token pair.
func (s *Server) handleObtainToken(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	user, err := s.us.Authenticate(r.Context(), body.Username, body.Password)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	pair, err := s.tokens.NewPair(user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(pair); err != nil {
		errs.LogError(r, err)
	}
}

// handleRefreshToken handles the route "POST /api/auth/token/refresh".
// It exchanges a valid refresh token for a new pair.
func (s *Server) handleRefreshToken(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	pair, err := s.tokens.Refresh(body.RefreshToken)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(pair); err != nil {
		errs.LogError(r, err)
	}
}
