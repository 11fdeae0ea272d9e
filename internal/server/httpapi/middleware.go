package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/postforge/identity/internal/common"
	"github.com/postforge/identity/internal/server/models"
)

type ctxKey string

const (
	userKey      ctxKey = "user"
	sessionIDKey ctxKey = "sessionID"
)

// userFromContext returns the authenticated user installed by requireAuth.
func userFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey).(*models.User)
	return u
}

// sessionIDFromContext returns the session record ID, or "" when the
// request authenticated through an API key.
func sessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}

// requireAuth accepts either a bearer session token or an X-API-Key
// header. Bearer wins when both are present. The resolved user is placed
// on the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if token := bearerToken(r); token != "" {
			user, sessionID, err := s.authSvc.Authenticate(ctx, token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "could not validate credentials")
				return
			}
			ctx = context.WithValue(ctx, userKey, user)
			ctx = context.WithValue(ctx, sessionIDKey, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		if secret := r.Header.Get(common.APIKeyHeaderName); secret != "" {
			key, err := s.apiKeySvc.Validate(ctx, secret)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid API key")
				return
			}
			user, err := s.authSvc.GetUser(ctx, key.UserID)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid API key")
				return
			}
			ctx = context.WithValue(ctx, userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		writeError(w, http.StatusUnauthorized, "authentication required")
	})
}

// requireSession is requireAuth restricted to bearer tokens; key
// management never accepts an API key as the credential.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		user, sessionID, err := s.authSvc.Authenticate(ctx, token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "could not validate credentials")
			return
		}

		ctx = context.WithValue(ctx, userKey, user)
		ctx = context.WithValue(ctx, sessionIDKey, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get(common.AuthHeaderName)
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(header, common.BearerPrefix) {
		return ""
	}
	return strings.TrimPrefix(header, common.BearerPrefix)
}
