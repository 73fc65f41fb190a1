package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by PERSONA_ENV (or .env by
// default), then loads the corresponding .secret sidecar if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("PERSONA_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	_ = godotenv.Load(envFile)
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// APIKey returns the service API key. When empty, authentication is
// disabled (local development).
func APIKey() string {
	return os.Getenv("API_KEY")
}

// RateLimitRPS returns requests per second limit. Defaults to 100.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting. Defaults
// to 20.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LearnOnIngest reports whether recording an interaction also runs the
// learning pipeline over it inline. Defaults to true.
func LearnOnIngest() bool {
	v := os.Getenv("LEARN_ON_INGEST")
	if v == "" {
		return true
	}
	enabled, err := strconv.ParseBool(v)
	if err != nil {
		return true
	}
	return enabled
}

// SweepInterval returns how often the background sweeper runs.
// Defaults to 15 minutes.
func SweepInterval() time.Duration {
	minutes, err := strconv.Atoi(os.Getenv("SWEEP_INTERVAL_MINUTES"))
	if err != nil || minutes <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(minutes) * time.Minute
}

// LogLevel returns the log level (debug, info, warn, error). Defaults
// to "info".
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}
