package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/postforge/identity/internal/common"
	"github.com/postforge/identity/internal/server/models"
)

type statusResponse struct {
	Configured bool   `json:"configured"`
	Message    string `json:"message"`
}

type setupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	configured, err := s.authSvc.Configured(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), "status check failed", "error", err)
		writeError(w, http.StatusInternalServerError, "unable to check system status")
		return
	}

	message := "System needs initial setup"
	if configured {
		message = "System ready"
	}
	writeJSON(w, http.StatusOK, statusResponse{Configured: configured, Message: message})
}

func (s *Server) handleSetup(w http.ResponseWriter, r *http.Request) {
	var req setupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := s.authSvc.Setup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrAlreadyConfigured):
			writeError(w, http.StatusBadRequest, "System is already configured")
		case errors.Is(err, common.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			s.logger.Error(r.Context(), "setup failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to setup system")
		}
		return
	}

	writeJSON(w, http.StatusOK, authResponse{User: user, Token: token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := s.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		var authErr *common.AuthError
		switch {
		case errors.As(err, &authErr):
			writeError(w, http.StatusUnauthorized, authErr.Reason)
		case errors.Is(err, common.ErrNotConfigured):
			writeError(w, http.StatusServiceUnavailable, "System not configured. Please set up the user account first.")
		default:
			s.logger.Error(r.Context(), "login failed", "error", err)
			writeError(w, http.StatusInternalServerError, "login failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, authResponse{User: user, Token: token})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userFromContext(r.Context()))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionIDFromContext(r.Context())
	if err := s.authSvc.Logout(r.Context(), sessionID); err != nil {
		s.logger.Error(r.Context(), "logout failed", "error", err)
		writeError(w, http.StatusInternalServerError, "logout failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
