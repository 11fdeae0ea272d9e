package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/postforge/identity/internal/common"
	"github.com/postforge/identity/internal/server/models"
)

type createKeyRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// createKeyResponse is the only payload that ever carries a key's full
// secret.
type createKeyResponse struct {
	*models.APIKey
	Key string `json:"key"`
}

func (s *Server) handleListKeys(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	keys, err := s.apiKeySvc.List(r.Context(), user.ID)
	if err != nil {
		s.logger.Error(r.Context(), "list keys failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list API keys")
		return
	}
	if keys == nil {
		keys = []*models.APIKey{}
	}
	writeJSON(w, http.StatusOK, keys)
}

func (s *Server) handleCreateKey(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req createKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	key, secret, err := s.apiKeySvc.Create(r.Context(), user.ID, req.Name, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, common.ErrTooManyKeys):
			writeError(w, http.StatusBadRequest, "Maximum number of API keys reached")
		default:
			s.logger.Error(r.Context(), "create key failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to create API key")
		}
		return
	}

	writeJSON(w, http.StatusOK, createKeyResponse{APIKey: key, Key: secret})
}

func (s *Server) handleRevokeKey(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := s.apiKeySvc.Revoke(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeError(w, http.StatusNotFound, "API key not found")
			return
		}
		s.logger.Error(r.Context(), "revoke key failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to revoke API key")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
