package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds environment-driven settings for the planner services.
type Config struct {
	Gemini struct {
		APIKey      string
		Model       string
		Temperature float32
	}
	Database struct {
		DSN string // empty disables interaction auditing
	}
	RateLimitPerSecond float64
}

// Load reads configuration from the environment, with .env as a local
// convenience. GEMINI_API_KEY is the only required setting.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	if cfg.Gemini.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}
	cfg.Gemini.Model = envOrDefault("GEMINI_MODEL", "gemini-2.0-flash")
	cfg.Gemini.Temperature = float32(envOrDefaultFloat("GEMINI_TEMPERATURE", 0.4))
	cfg.Database.DSN = os.Getenv("DATABASE_DSN")
	cfg.RateLimitPerSecond = envOrDefaultFloat("LLM_RATE_LIMIT_PER_SECOND", 2)
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
