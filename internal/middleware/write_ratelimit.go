package middleware

import (
	"net/http"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/AnshRaj112/mindjourney-backend/internal/auth"
)

// Per-user write limit: 30 writes/min, burst 20. Keeps a runaway client from
// flooding the classifier while leaving normal journaling untouched.
const (
	writeRateLimitRPS   = 0.5
	writeRateLimitBurst = 20
)

// UserWriteLimiter limits mutating requests per authenticated user. It must
// run after RequireAuth.
type UserWriteLimiter struct {
	users *limiterSet
}

func NewUserWriteLimiter() *UserWriteLimiter {
	return &UserWriteLimiter{users: newLimiterSet(rate.Limit(writeRateLimitRPS), writeRateLimitBurst)}
}

func (l *UserWriteLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		id := auth.FromContext(r.Context())
		if id == nil {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(writeRateLimitBurst))
		if !l.users.allow(id.UserID) {
			w.Header().Set("X-RateLimit-Remaining", "0")
			writeTooMany(w, "Too many writes. Please slow down.")
			return
		}
		next.ServeHTTP(w, r)
	})
}
