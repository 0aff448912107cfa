package config

import (
	"os"
	"time"
)

// Server captures the admin gateway configuration.
type Server struct {
	Addr        string
	Environment string

	// BackendBaseURL is the booking backend the gateway proxies to.
	BackendBaseURL string
	// BackendTimeout bounds every backend fetch issued by the client.
	BackendTimeout time.Duration
	// BackendCookieName is the name of the backend session cookie the
	// gateway forwards as credentials on every backend call.
	BackendCookieName string

	// SigningKey signs the dashboard session cookie. Empty means main
	// generates an ephemeral key at startup (dev only; sessions won't
	// survive a restart).
	SigningKey string
	// SessionTTL bounds the dashboard cookie lifetime.
	SessionTTL time.Duration

	// StateDir holds the persisted studio selection.
	StateDir string

	// LoginSurface marks this process as the login page host. The session
	// store skips identity resolution at startup in that case to avoid
	// redirect loops.
	LoginSurface bool

	// OpsTokenHash is the bcrypt hash guarding /metrics and /health/status.
	// Empty disables the guard.
	OpsTokenHash string
}

const (
	defaultBackendTimeout = 5 * time.Second
	defaultSessionTTL     = 12 * time.Hour
)

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:              getEnv("ADMIN_ADDR", ":8080"),
		Environment:       getEnv("ENVIRONMENT", "development"),
		BackendBaseURL:    getEnv("BACKEND_API_URL", "http://localhost:9000"),
		BackendTimeout:    defaultBackendTimeout,
		BackendCookieName: getEnv("BACKEND_SESSION_COOKIE", "admin_session"),
		SigningKey:        os.Getenv("DASHBOARD_SIGNING_KEY"),
		SessionTTL:        defaultSessionTTL,
		StateDir:          getEnv("STATE_DIR", "."),
		LoginSurface:      os.Getenv("LOGIN_SURFACE") == "true",
		OpsTokenHash:      os.Getenv("OPS_TOKEN_HASH"),
	}

	if v := os.Getenv("BACKEND_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.BackendTimeout = d
		}
	}
	if v := os.Getenv("DASHBOARD_SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.SessionTTL = d
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
