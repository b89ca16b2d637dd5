package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/AnshRaj112/mindjourney-backend/internal/auth"
	"github.com/AnshRaj112/mindjourney-backend/internal/logging"
)

const unauthorizedBody = `{"success":false,"message":"Authentication required"}`

// RequireAuth resolves the bearer token to an identity or answers 401.
// Websocket upgrades may pass the token as ?token= since browsers cannot set
// headers on them.
func RequireAuth(authn auth.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" && strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
				token = r.URL.Query().Get("token")
			}

			id, err := authn.Authenticate(r.Context(), token)
			if err != nil {
				if !errors.Is(err, auth.ErrNoToken) {
					logging.Ctx(r.Context()).Debug().Err(err).Msg("authentication failed")
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(unauthorizedBody))
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}
