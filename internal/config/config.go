package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application settings. Everything has a usable default so
// the reproduce pipeline runs from a bare checkout.
type Config struct {
	// RunDir is the run directory with metrics CSVs.
	RunDir string
	// OutputDir receives figure artifacts and the report.
	OutputDir string
	// DatabaseURL enables run-summary persistence when set.
	DatabaseURL string
	// ServerPort for the report server.
	ServerPort string
	// Seed for all seeded operations.
	Seed int64
	// Resamples is the bootstrap resample count.
	Resamples int
}

// Load reads configuration from a .env file (when present) and the
// environment.
func Load() *Config {
	// Missing .env is fine; the environment still applies.
	_ = godotenv.Load()

	return &Config{
		RunDir:      getEnv("RUN_DIR", "runs/affordable"),
		OutputDir:   getEnv("OUTPUT_DIR", "runs/affordable/figures"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		Seed:        getEnvInt64("SEED", 42),
		Resamples:   int(getEnvInt64("BOOTSTRAP_RESAMPLES", 1000)),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
