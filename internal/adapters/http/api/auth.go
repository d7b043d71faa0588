package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/hireview/internal/domain/types"
)

// AuthHandler handles the HR login session routes.
type AuthHandler struct {
	deps Dependencies
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(deps Dependencies) *AuthHandler {
	return &AuthHandler{deps: deps}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type meResponse struct {
	LoggedIn bool        `json:"logged_in"`
	User     *types.User `json:"user,omitempty"`
}

// HandleLogin handles POST /login requests.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := decodeBody(r, &body); err != nil {
		writeFailure(w, err)
		return
	}
	if strings.TrimSpace(body.Email) == "" || body.Password == "" {
		writeFailure(w, fmt.Errorf("%w: email and password are required", ErrBadRequest))
		return
	}
	user, err := h.deps.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, meResponse{LoggedIn: true, User: &user})
}

// HandleLogout handles POST /logout requests.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Logout(r.Context()); err != nil {
		writeFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleMe handles GET /me requests.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, _ *http.Request) {
	user, ok := h.deps.CurrentUser()
	if !ok {
		writeJSON(w, http.StatusOK, meResponse{})
		return
	}
	writeJSON(w, http.StatusOK, meResponse{LoggedIn: true, User: &user})
}
