package config

import (
	"os"
	"strconv"
	"time"
)

type AppConfig struct {
	Environment string
	Port        string

	JWTSecret string
	TokenTTL  time.Duration

	// DatabaseURL selects the postgres backend when set; otherwise the
	// sqlite file at DatabasePath is used.
	DatabaseURL    string
	DatabasePath   string
	MigrationsPath string

	RedisURL string

	RateLimitEnabled bool
	RateLimitConfigs map[string]RateLimitConfig

	TracingEnabled bool
	OTLPEndpoint   string
	MetricsPort    string
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

func Load() *AppConfig {
	cfg := &AppConfig{
		Environment:      getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		JWTSecret:        getEnv("JWT_SECRET", "default-secret-key"),
		TokenTTL:         getEnvDuration("TOKEN_TTL", time.Hour),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		DatabasePath:     getEnv("DATABASE_PATH", "todo.db"),
		MigrationsPath:   os.Getenv("MIGRATIONS_PATH"),
		RedisURL:         os.Getenv("REDIS_URL"),
		RateLimitEnabled: getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitConfigs: defaultRateLimits(),
		TracingEnabled:   getEnvBool("TRACING_ENABLED", true),
		OTLPEndpoint:     getEnv("OTLP_ENDPOINT", "localhost:4317"),
		MetricsPort:      getEnv("METRICS_PORT", "9091"),
	}

	if os.Getenv("GIN_MODE") == "release" {
		cfg.Environment = "production"
	}

	return cfg
}

func defaultRateLimits() map[string]RateLimitConfig {
	return map[string]RateLimitConfig{
		"POST /api/register": {
			Requests: 5,
			Window:   time.Minute,
		},
		"POST /api/login": {
			Requests: 10,
			Window:   time.Minute,
		},
		"GET /api/todos": {
			Requests: 100,
			Window:   time.Minute,
		},
		"POST /api/todos": {
			Requests: 20,
			Window:   time.Minute,
		},
		"PUT /api/todos/:id": {
			Requests: 20,
			Window:   time.Minute,
		},
		"DELETE /api/todos/:id": {
			Requests: 20,
			Window:   time.Minute,
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)

	if v == "" {
		return fallback
	}

	parsed, err := strconv.ParseBool(v)

	if err != nil {
		return fallback
	}

	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)

	if v == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(v)

	if err != nil {
		return fallback
	}

	return parsed
}
