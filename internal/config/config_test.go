package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"ENV", "HOST", "ALLOWED_ORIGINS", "FRONTEND_URL", "FRONTEND_URL_2", "SESSION_TTL", "STORE_BACKEND", "LOG_FORMAT"} {
		t.Setenv(k, "")
	}
	c := Load()

	if c.IsProduction() {
		t.Error("default env should not be production")
	}
	if c.AllowedHost != "" {
		t.Errorf("AllowedHost = %q, want empty outside production", c.AllowedHost)
	}
	if c.SessionTTL != DefaultSessionTTL {
		t.Errorf("SessionTTL = %v", c.SessionTTL)
	}
	if c.StoreBackend != BackendMongo {
		t.Errorf("StoreBackend = %q", c.StoreBackend)
	}
	if len(c.AllowedOrigins) != 1 || c.AllowedOrigins[0] != "http://localhost:3000" {
		t.Errorf("AllowedOrigins = %v", c.AllowedOrigins)
	}
	if c.LogFormat != "console" {
		t.Errorf("LogFormat = %q", c.LogFormat)
	}
}

func TestLoadProduction(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("HOST", "https://api.mindjourney.app:443/v1")
	t.Setenv("ALLOWED_ORIGINS", "https://mindjourney.app")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("LOG_FORMAT", "")

	c := Load()
	if c.AllowedHost != "api.mindjourney.app" {
		t.Errorf("AllowedHost = %q", c.AllowedHost)
	}
	if c.SessionTTL != 2*time.Hour {
		t.Errorf("SessionTTL = %v", c.SessionTTL)
	}
	want := []string{"https://mindjourney.app", "https://www.mindjourney.app"}
	if len(c.AllowedOrigins) != len(want) {
		t.Fatalf("AllowedOrigins = %v, want %v", c.AllowedOrigins, want)
	}
	for i := range want {
		if c.AllowedOrigins[i] != want[i] {
			t.Errorf("AllowedOrigins[%d] = %q, want %q", i, c.AllowedOrigins[i], want[i])
		}
	}
	if c.LogFormat != "json" {
		t.Errorf("LogFormat = %q", c.LogFormat)
	}
}
