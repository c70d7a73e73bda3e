// Package config handles application configuration from environment
// variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// EnvFile is read before the environment, matching the deployment layout.
const EnvFile = "supabase_backend.env"

// Config holds all application configuration.
type Config struct {
	Port       int
	UploadsDir string

	// Supabase identity service (required)
	SupabaseURL string
	SupabaseKey string

	// Optional overrides
	PublicBaseURL string // BACKEND_URL
	ModelPath     string // BASIC_PITCH_MODEL_PATH

	// Hosting-platform flag; widens the CORS allow list in production.
	OnRender bool

	// ArtifactTTL enables the background sweep of generated artifacts.
	// Zero keeps them forever.
	ArtifactTTL time.Duration
}

// Load reads configuration from the env file and environment variables.
// Missing Supabase credentials are fatal.
func Load() (*Config, error) {
	_ = godotenv.Load(EnvFile)

	port, err := strconv.Atoi(getEnv("PORT", "8000"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	ttl := time.Duration(0)
	if raw := os.Getenv("ARTIFACT_TTL"); raw != "" {
		ttl, err = time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid ARTIFACT_TTL: %w", err)
		}
	}

	cfg := &Config{
		Port:          port,
		UploadsDir:    getEnv("UPLOADS_DIR", "uploads"),
		SupabaseURL:   os.Getenv("SUPABASE_URL"),
		SupabaseKey:   os.Getenv("SUPABASE_KEY"),
		PublicBaseURL: os.Getenv("BACKEND_URL"),
		ModelPath:     os.Getenv("BASIC_PITCH_MODEL_PATH"),
		OnRender:      os.Getenv("RENDER") != "",
		ArtifactTTL:   ttl,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	if c.SupabaseURL == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	if c.SupabaseKey == "" {
		missing = append(missing, "SUPABASE_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Origins returns the allowed cross-origin callers. The production
// frontend origins are only trusted when running on the hosting platform.
func (c *Config) Origins() []string {
	origins := []string{
		"http://localhost:8080",
		"http://localhost:5173",
		"http://127.0.0.1:5173",
	}
	if c.OnRender {
		origins = append(origins, "https://autosheetify-frontend.onrender.com")
	}
	return origins
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
