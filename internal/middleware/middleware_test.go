package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AnshRaj112/mindjourney-backend/internal/auth"
	"github.com/AnshRaj112/mindjourney-backend/pkg/clientip"
)

type stubAuthenticator struct{}

func (stubAuthenticator) Name() string { return "stub" }

func (stubAuthenticator) Authenticate(ctx context.Context, token string) (*auth.Identity, error) {
	switch token {
	case "":
		return nil, auth.ErrNoToken
	case "good":
		return &auth.Identity{UserID: "u1"}, nil
	default:
		return nil, auth.ErrInvalidToken
	}
}

func TestRequireAuth(t *testing.T) {
	var seen string
	h := RequireAuth(stubAuthenticator{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = auth.FromContext(r.Context()).UserID
	}))

	tests := []struct {
		name    string
		header  string
		query   string
		upgrade bool
		want    int
	}{
		{"missing", "", "", false, http.StatusUnauthorized},
		{"bad", "Bearer nope", "", false, http.StatusUnauthorized},
		{"not bearer", "Basic good", "", false, http.StatusUnauthorized},
		{"good", "Bearer good", "", false, http.StatusOK},
		{"lowercase scheme", "bearer good", "", false, http.StatusOK},
		{"query ignored without upgrade", "", "good", false, http.StatusUnauthorized},
		{"websocket query token", "", "good", true, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			target := "/api/journal"
			if tt.query != "" {
				target += "?token=" + tt.query
			}
			r := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			if tt.upgrade {
				r.Header.Set("Upgrade", "websocket")
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)

			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
			if tt.want == http.StatusUnauthorized && w.Body.String() != unauthorizedBody {
				t.Errorf("body = %s", w.Body.String())
			}
			if tt.want == http.StatusOK && seen != "u1" {
				t.Errorf("identity not attached")
			}
		})
	}
}

func TestLoginRateLimit(t *testing.T) {
	l := NewIPRateLimiter(clientip.Resolver{})
	h := l.Login(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := make([]int, 0, loginRateLimitBurst+1)
	for i := 0; i < loginRateLimitBurst+1; i++ {
		r := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		r.RemoteAddr = "192.0.2.1:1234"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		codes = append(codes, w.Code)
	}
	if codes[len(codes)-1] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want last to be 429", codes)
	}

	// Other paths and other IPs are untouched.
	r := httptest.NewRequest(http.MethodGet, "/api/journal", nil)
	r.RemoteAddr = "192.0.2.1:1234"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("non-login path status = %d", w.Code)
	}
	r = httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	r.RemoteAddr = "192.0.2.2:1234"
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("other ip status = %d", w.Code)
	}
}

func TestUserWriteLimiter(t *testing.T) {
	l := NewUserWriteLimiter()
	h := l.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ctx := auth.WithIdentity(context.Background(), &auth.Identity{UserID: "u1"})

	var last int
	for i := 0; i < writeRateLimitBurst+1; i++ {
		r := httptest.NewRequest(http.MethodPost, "/api/mood", nil).WithContext(ctx)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		last = w.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("last status = %d, want 429", last)
	}

	r := httptest.NewRequest(http.MethodGet, "/api/mood", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("reads should not be limited, got %d", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := CORS([]string{"https://mindjourney.app"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("preflight reached handler")
	}))
	r := httptest.NewRequest(http.MethodOptions, "/api/journal", nil)
	r.Header.Set("Origin", "https://mindjourney.app")
	r.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://mindjourney.app" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
}

func TestHostCheck(t *testing.T) {
	h := HostCheck("api.mindjourney.app")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	for host, want := range map[string]int{
		"api.mindjourney.app":     http.StatusOK,
		"api.mindjourney.app:443": http.StatusOK,
		"evil.example.com":        http.StatusForbidden,
	} {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Host = host
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		if w.Code != want {
			t.Errorf("host %s: status %d, want %d", host, w.Code, want)
		}
	}
}
