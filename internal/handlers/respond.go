package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/AnshRaj112/mindjourney-backend/internal/auth"
	"github.com/AnshRaj112/mindjourney-backend/internal/logging"
	"github.com/AnshRaj112/mindjourney-backend/internal/services"
	"github.com/AnshRaj112/mindjourney-backend/internal/storage"
	"github.com/AnshRaj112/mindjourney-backend/pkg/utils"
)

// storeTimeout bounds every store call made on behalf of a request.
const storeTimeout = 5 * time.Second

// maxJSONBody caps JSON request bodies.
const maxJSONBody = 1 << 20

type envelope map[string]interface{}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Warn().Err(err).Msg("failed to encode response")
	}
}

func writeSuccess(w http.ResponseWriter, status int, message string, payload envelope) {
	body := envelope{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range payload {
		body[k] = v
	}
	writeJSON(w, status, body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{"success": false, "message": message})
}

// writeServiceError maps domain errors to status codes. Anything unknown is
// logged and answered with fallback as a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var ve *utils.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, envelope{"success": false, "message": ve.Message, "field": ve.Field})
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, auth.ErrSessionRevoked), errors.Is(err, auth.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, storage.ErrDuplicate):
		writeError(w, http.StatusConflict, "An account with this email already exists")
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrImagesDisabled):
		writeError(w, http.StatusServiceUnavailable, "Image uploads are not available")
	case errors.Is(err, context.DeadlineExceeded):
		logging.Ctx(r.Context()).Error().Err(err).Msg(fallback)
		writeError(w, http.StatusGatewayTimeout, "The request timed out. Please try again.")
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg(fallback)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// storeContext derives the per-request store deadline from the request context.
func storeContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), storeTimeout)
}

// requestLocation reads the caller's IANA zone from X-Timezone or ?tz=.
// Unknown or missing zones fall back to UTC.
func requestLocation(r *http.Request) *time.Location {
	name := strings.TrimSpace(r.Header.Get("X-Timezone"))
	if name == "" {
		name = strings.TrimSpace(r.URL.Query().Get("tz"))
	}
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// paging parses limit and skip with the given default limit.
func paging(r *http.Request, defaultLimit, maxLimit int) (limit, skip int) {
	limit = defaultLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("skip")); err == nil && v >= 0 {
		skip = v
	}
	return limit, skip
}

// identity returns the caller set by middleware.RequireAuth.
func identity(r *http.Request) *auth.Identity {
	return auth.FromContext(r.Context())
}
