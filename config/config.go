// Package config loads service configuration from the environment.
//
// A .env file in the working directory is loaded first when present; real
// environment variables always win over it.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the root configuration.
type Config struct {
	Service   ServiceConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Weather   WeatherConfig
	Logging   LoggingConfig
	Tracing   TracingConfig
	Profiling ProfilingConfig
	Shutdown  ShutdownConfig
}

type ServiceConfig struct {
	Name    string
	Version string
	Env     string
	Port    string
}

type DatabaseConfig struct {
	URL            string
	MaxConns       int32
	ConnectTimeout time.Duration
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	// BcryptWorkFactor is the bcrypt cost used when hashing passwords.
	BcryptWorkFactor int
}

type WeatherConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	// Circuit breaker: trips after BreakerFailures consecutive failures and
	// stays open for BreakerOpenTimeout.
	BreakerFailures    uint32
	BreakerOpenTimeout time.Duration
}

type LoggingConfig struct {
	Level string
}

type TracingConfig struct {
	Enabled    bool
	Endpoint   string
	SampleRate float64
}

type ProfilingConfig struct {
	Enabled  bool
	Endpoint string
}

type ShutdownConfig struct {
	Timeout             string
	ReadinessDrainDelay string
}

// Load reads configuration from the environment with defaults.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Service: ServiceConfig{
			Name:    getEnv("SERVICE_NAME", "fishfile-service"),
			Version: getEnv("SERVICE_VERSION", "dev"),
			Env:     getEnv("ENV", "development"),
			Port:    getEnv("PORT", "3001"),
		},
		Database: DatabaseConfig{
			URL:            getEnv("DATABASE_URL", "postgres://localhost:5432/fishfile?sslmode=disable"),
			MaxConns:       int32(getEnvInt("DB_MAX_CONNS", 10)),
			ConnectTimeout: getEnvDuration("DB_CONNECT_TIMEOUT", 30*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret:        getEnv("SECRET_KEY", ""),
			TokenTTL:         getEnvDuration("TOKEN_TTL", 24*time.Hour),
			BcryptWorkFactor: getEnvInt("BCRYPT_WORK_FACTOR", 12),
		},
		Weather: WeatherConfig{
			APIKey:             getEnv("WEATHER_API_KEY", ""),
			BaseURL:            getEnv("WEATHER_BASE_URL", "https://api.tomorrow.io/v4/timelines"),
			Timeout:            getEnvDuration("WEATHER_TIMEOUT", 10*time.Second),
			BreakerFailures:    uint32(getEnvInt("WEATHER_BREAKER_FAILURES", 5)),
			BreakerOpenTimeout: getEnvDuration("WEATHER_BREAKER_OPEN_TIMEOUT", time.Minute),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Tracing: TracingConfig{
			Enabled:    getEnvBool("TRACING_ENABLED", false),
			Endpoint:   getEnv("OTEL_COLLECTOR_ENDPOINT", "localhost:4318"),
			SampleRate: getEnvFloat("OTEL_SAMPLE_RATE", 0.1),
		},
		Profiling: ProfilingConfig{
			Enabled:  getEnvBool("PROFILING_ENABLED", false),
			Endpoint: getEnv("PYROSCOPE_ENDPOINT", "http://localhost:4040"),
		},
		Shutdown: ShutdownConfig{
			Timeout:             getEnv("SHUTDOWN_TIMEOUT", "10s"),
			ReadinessDrainDelay: getEnv("READINESS_DRAIN_DELAY", "0s"),
		},
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Service.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if c.Database.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("SECRET_KEY is required"))
	}
	if c.Auth.BcryptWorkFactor < 4 || c.Auth.BcryptWorkFactor > 31 {
		errs = append(errs, fmt.Errorf("BCRYPT_WORK_FACTOR must be between 4 and 31, got %d", c.Auth.BcryptWorkFactor))
	}
	if c.Weather.Timeout <= 0 {
		errs = append(errs, errors.New("WEATHER_TIMEOUT must be positive"))
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		errs = append(errs, fmt.Errorf("OTEL_SAMPLE_RATE must be between 0 and 1, got %v", c.Tracing.SampleRate))
	}
	if _, err := time.ParseDuration(c.Shutdown.Timeout); err != nil {
		errs = append(errs, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err))
	}
	if _, err := time.ParseDuration(c.Shutdown.ReadinessDrainDelay); err != nil {
		errs = append(errs, fmt.Errorf("invalid READINESS_DRAIN_DELAY: %w", err))
	}

	return errors.Join(errs...)
}

// GetShutdownTimeoutDuration returns the graceful shutdown timeout, 10s if unparsable.
func (c *Config) GetShutdownTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Shutdown.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// GetReadinessDrainDelayDuration returns how long /ready fails before the server stops.
func (c *Config) GetReadinessDrainDelayDuration() time.Duration {
	d, err := time.ParseDuration(c.Shutdown.ReadinessDrainDelay)
	if err != nil {
		return 0
	}
	return d
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return fallback
	}
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
