package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	authservice "github.com/fappie/backend/internal/service/auth"
	"github.com/fappie/backend/pkg/logger"
	"github.com/fappie/backend/pkg/utils"
)

// Authenticator exchanges the shared secret for a session.
type Authenticator interface {
	Authenticate(secret string) (authservice.Session, error)
	TTL() time.Duration
}

// Handler serves login and logout.
type Handler struct {
	gate         Authenticator
	secureCookie bool
}

// New creates the auth handler.
func New(gate Authenticator, secureCookie bool) *Handler {
	return &Handler{gate: gate, secureCookie: secureCookie}
}

// RegisterRoutes registers the public auth routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth", h.handleLogin)
	r.Post("/logout", h.handleLogout)
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool `json:"success"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.gate.Authenticate(req.Password)
	if err != nil {
		if !errors.Is(err, authservice.ErrInvalidSecret) {
			logger.Errorf("[auth] login failed: %v", err)
		}
		utils.RespondJSON(w, http.StatusUnauthorized, loginResponse{Success: false})
		return
	}

	http.SetCookie(w, authservice.SessionCookie(session, h.gate.TTL(), h.secureCookie))
	logger.Infof("[auth] session issued, expires %s", session.ExpiresAt.Format(time.RFC3339))
	utils.RespondJSON(w, http.StatusOK, loginResponse{Success: true})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, authservice.ClearCookie(h.secureCookie))
	utils.RespondJSON(w, http.StatusOK, loginResponse{Success: true})
}
