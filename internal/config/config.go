package config

import (
	"os"
	"strings"
	"time"
)

// Store backends.
const (
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

// DefaultSessionTTL is used when SESSION_TTL is unset or unparsable.
const DefaultSessionTTL = 7 * 24 * time.Hour

type Config struct {
	Environment string // ENV: production, development, etc.
	Port        string
	Host        string // Raw HOST env (e.g. https://api.mindjourney.app)
	AllowedHost string // Hostname only for strict host check (production only)
	TrustProxy  bool   // Honor X-Forwarded-For from a fronting proxy

	FrontendURL    string
	AllowedOrigins []string

	StoreBackend string
	MongoURI     string
	PostgresURI  string
	RedisURI     string

	JWTSecret     string
	SessionTTL    time.Duration
	EncryptionKey string

	CloudinaryName      string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	UploadDir           string

	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string

	ClassifierURL          string
	ClassifierAPIKey       string
	ClassifierModel        string
	ClassifierTokenURL     string
	ClassifierClientID     string
	ClassifierClientSecret string

	LogLevel  string
	LogFormat string
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))
	host := getEnv("HOST", "http://localhost:8080")

	// AllowedHost is only set in production; host check is skipped in development
	var allowedHost string
	if env == "production" {
		allowedHost = bareHost(host)
	}

	allowedOrigins := parseList(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		for _, u := range []string{getEnv("FRONTEND_URL", "http://localhost:3000"), getEnv("FRONTEND_URL_2", "")} {
			u = strings.TrimSpace(u)
			if u != "" {
				allowedOrigins = append(allowedOrigins, u)
			}
		}
	}
	// A backend on api.example.com serves the frontend on example.com and www.example.com
	if h := bareHost(host); h != "" && h != "localhost" {
		parts := strings.Split(h, ".")
		if len(parts) >= 3 {
			domain := strings.Join(parts[1:], ".")
			for _, origin := range []string{"https://" + domain, "https://www." + domain} {
				if !containsOrigin(allowedOrigins, origin) {
					allowedOrigins = append(allowedOrigins, origin)
				}
			}
		}
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	logFormat := "console"
	if env == "production" {
		logFormat = "json"
	}

	return &Config{
		Environment:    env,
		Port:           getEnv("PORT", "8080"),
		Host:           host,
		AllowedHost:    allowedHost,
		TrustProxy:     getEnvBool("TRUST_PROXY", false),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:3000"),
		AllowedOrigins: allowedOrigins,

		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", BackendMongo)),
		MongoURI:     getEnv("MONGODB_URI", getEnv("MONGO_URI", "mongodb://localhost:27017/mindjourney")),
		PostgresURI:  getEnv("POSTGRES_URI", "postgres://localhost:5432/mindjourney?sslmode=disable"),
		RedisURI:     getEnv("REDIS_URI", "redis://localhost:6379/0"),

		JWTSecret:     getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		SessionTTL:    getEnvDuration("SESSION_TTL", DefaultSessionTTL),
		EncryptionKey: getEnv("ENCRYPTION_KEY", ""),

		CloudinaryName:      getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		UploadDir:           getEnv("UPLOAD_DIR", "./uploads"),

		OIDCIssuer:       getEnv("OIDC_ISSUER", ""),
		OIDCClientID:     getEnv("OIDC_CLIENT_ID", ""),
		OIDCClientSecret: getEnv("OIDC_CLIENT_SECRET", ""),

		ClassifierURL:          getEnv("CLASSIFIER_URL", ""),
		ClassifierAPIKey:       getEnv("CLASSIFIER_API_KEY", ""),
		ClassifierModel:        getEnv("CLASSIFIER_MODEL", "gemini-1.5-flash"),
		ClassifierTokenURL:     getEnv("CLASSIFIER_TOKEN_URL", ""),
		ClassifierClientID:     getEnv("CLASSIFIER_CLIENT_ID", ""),
		ClassifierClientSecret: getEnv("CLASSIFIER_CLIENT_SECRET", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", logFormat),
	}
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

// CloudinaryEnabled reports whether all three Cloudinary credentials are set.
func (c *Config) CloudinaryEnabled() bool {
	return c.CloudinaryName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

// OIDCEnabled reports whether external ID tokens can be verified.
func (c *Config) OIDCEnabled() bool {
	return c.OIDCIssuer != "" && c.OIDCClientID != ""
}

// ClassifierEnabled reports whether an external mood classifier is configured.
func (c *Config) ClassifierEnabled() bool {
	return c.ClassifierURL != ""
}

// bareHost strips scheme, path and port from a URL-ish string.
func bareHost(s string) string {
	for _, prefix := range []string{"https://", "http://"} {
		s = strings.TrimPrefix(s, prefix)
	}
	if idx := strings.Index(s, "/"); idx != -1 {
		s = s[:idx]
	}
	if idx := strings.Index(s, ":"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

func parseList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func containsOrigin(list []string, o string) bool {
	o = strings.TrimSpace(strings.ToLower(o))
	for _, v := range list {
		if strings.TrimSpace(strings.ToLower(v)) == o {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return defaultValue
}
