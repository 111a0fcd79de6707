// Package config loads application configuration from the environment.
//
// A .env file is honoured when present (development convenience — the
// production deployment sets real environment variables). Every value has a
// working default so `go run ./cmd/server` starts with zero setup.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the Summaize server.
type Config struct {
	Port           int           // HTTP listen port
	DBPath         string        // SQLite database file
	JWTSecret      string        // token signing key; random per-process when unset
	GeneratedKey   bool          // true when JWTSecret was generated at startup
	Production     bool          // APP_ENV=production: Secure cookies, no error details
	StaticDir      string        // built SPA directory; served with index.html fallback
	CORSOrigins    []string      // allowed browser origins
	RequestTimeout time.Duration // per-request deadline, exceeded → 408
}

// Load reads the .env file (if any) and the process environment.
//
// JWT SECRET HANDLING:
// When JWT_SECRET is unset we generate a random per-process key. That keeps
// single-instance deployments working out of the box, but every restart
// invalidates all outstanding tokens, and multiple instances cannot verify
// each other's tokens. GeneratedKey lets main log a loud warning about this.
func Load() (*Config, error) {
	// Missing .env is fine — env vars may be set directly.
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getIntEnv("PORT", 3000),
		DBPath:         getEnv("DB_PATH", "data/summaize.db"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		Production:     getEnv("APP_ENV", "development") == "production",
		StaticDir:      getEnv("STATIC_DIR", "web/dist"),
		CORSOrigins:    getSliceEnv("CORS_ORIGINS", []string{"http://localhost:5173", "http://127.0.0.1:5173"}),
		RequestTimeout: getDurationEnv("REQUEST_TIMEOUT", 5*time.Second),
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("config: invalid PORT %d", cfg.Port)
	}

	if cfg.JWTSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return nil, fmt.Errorf("config: generating JWT secret: %w", err)
		}
		cfg.JWTSecret = secret
		cfg.GeneratedKey = true
	}

	return cfg, nil
}

// randomSecret returns 32 random bytes hex-encoded — same strength as the
// recommended `openssl rand -hex 32`.
func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
