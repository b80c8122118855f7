package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Upstream captures the transport policy for one remote dependency.
// Retries apply only to 5xx and connection failures, with a static delay
// between attempts; 4xx responses are never retried.
type Upstream struct {
	BaseURL    string
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
}

// Server captures process-level configuration so main stays lean.
type Server struct {
	Addr           string
	Directory      Upstream
	Issuer         Upstream
	DocStore       string // "memory" or "redis"
	RedisURL       string
	ConfigCacheTTL time.Duration
}

// FromEnv builds a Server config from environment variables. A .env file in
// the working directory is loaded first when present.
func FromEnv() Server {
	_ = godotenv.Load()

	addr := os.Getenv("CONSENT_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	docStore := os.Getenv("DOC_STORE")
	if docStore == "" {
		docStore = "memory"
	}

	return Server{
		Addr: addr,
		Directory: Upstream{
			BaseURL:    os.Getenv("DES_API_HOSTNAME"),
			Timeout:    durationEnv("DES_TIMEOUT", 10*time.Second),
			Retries:    intEnv("DES_RETRIES", 3),
			RetryDelay: durationEnv("DES_RETRY_DELAY", 3*time.Second),
		},
		Issuer: Upstream{
			BaseURL:    os.Getenv("HPASS_API_HOSTNAME"),
			Timeout:    durationEnv("HPASS_TIMEOUT", 10*time.Second),
			Retries:    intEnv("HPASS_RETRIES", 3),
			RetryDelay: durationEnv("HPASS_RETRY_DELAY", 3*time.Second),
		},
		DocStore:       docStore,
		RedisURL:       os.Getenv("REDIS_URL"),
		ConfigCacheTTL: durationEnv("CONFIG_CACHE_TTL", 5*time.Minute),
	}
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if raw := os.Getenv(key); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			return d
		}
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if raw := os.Getenv(key); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	}
	return fallback
}
