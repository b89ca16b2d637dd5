package clientip

import (
	"net/http/httptest"
	"testing"
)

func TestResolver(t *testing.T) {
	tests := []struct {
		name   string
		trust  bool
		remote string
		xff    string
		realIP string
		want   string
	}{
		{"remote only", false, "10.0.0.1:5555", "", "", "10.0.0.1"},
		{"untrusted header ignored", false, "10.0.0.1:5555", "203.0.113.7", "", "10.0.0.1"},
		{"trusted xff first hop", true, "10.0.0.1:5555", "203.0.113.7, 10.0.0.2", "", "203.0.113.7"},
		{"trusted real ip", true, "10.0.0.1:5555", "", "198.51.100.4", "198.51.100.4"},
		{"garbage header falls back", true, "10.0.0.1:5555", "not-an-ip", "", "10.0.0.1"},
		{"no port", false, "10.0.0.9", "", "", "10.0.0.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.realIP != "" {
				r.Header.Set("X-Real-IP", tt.realIP)
			}
			if got := (Resolver{TrustProxy: tt.trust}).ClientIP(r); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}
