package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/ravigill3969/resource-tracker/backend/utils"
)

// Config holds all process-wide settings. It is built once at startup and never mutated.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Export    ExportConfig
	TimeZone  string `env:"TIME_ZONE" env-default:"Africa/Lagos"`
}

type ServerConfig struct {
	Host            string        `env:"HOST" env-default:"0.0.0.0"`
	Port            int           `env:"PORT" env-default:"8001"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type DatabaseConfig struct {
	URL             string        `env:"DATABASE_URL" env-required:"true"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" env-default:"25"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"30m"`
}

type AuthConfig struct {
	SecretKey                string `env:"SECRET_KEY" env-required:"true"`
	Algorithm                string `env:"ALGORITHM" env-default:"HS256"`
	AccessTokenExpireMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" env-default:"60"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"BACKEND_CORS_ORIGINS" env-separator:"," env-default:"http://localhost:5173"`
}

// RateLimitConfig is only used when RedisURL is set.
type RateLimitConfig struct {
	RedisURL    string        `env:"REDIS_URL"`
	MaxRequests int           `env:"RATE_LIMIT_MAX_REQUESTS" env-default:"100"`
	Window      time.Duration `env:"RATE_LIMIT_WINDOW" env-default:"1m"`
}

// ExportConfig enables S3 archival of generated exports when Bucket is set.
type ExportConfig struct {
	Bucket          string `env:"EXPORT_S3_BUCKET"`
	Region          string `env:"AWS_REGION"`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var problems []string

	if len(c.Auth.SecretKey) < utils.MinSecretBytes {
		problems = append(problems, fmt.Sprintf("SECRET_KEY must be at least %d characters", utils.MinSecretBytes))
	}
	switch strings.ToUpper(c.Auth.Algorithm) {
	case "HS256", "HS384", "HS512":
	default:
		problems = append(problems, fmt.Sprintf("ALGORITHM %q is not supported", c.Auth.Algorithm))
	}
	if c.Auth.AccessTokenExpireMinutes <= 0 {
		problems = append(problems, "ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}
	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		problems = append(problems, fmt.Sprintf("TIME_ZONE %q is unknown", c.TimeZone))
	}
	if c.RateLimit.RedisURL != "" && (c.RateLimit.MaxRequests <= 0 || c.RateLimit.Window <= 0) {
		problems = append(problems, "RATE_LIMIT_MAX_REQUESTS and RATE_LIMIT_WINDOW must be positive")
	}
	if c.Export.Bucket != "" && c.Export.Region == "" {
		problems = append(problems, "AWS_REGION is required when EXPORT_S3_BUCKET is set")
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}

// TokenConfig converts the auth settings for utils.NewTokenService.
func (c *Config) TokenConfig() utils.TokenConfig {
	return utils.TokenConfig{
		Secret:    []byte(c.Auth.SecretKey),
		Algorithm: c.Auth.Algorithm,
		Lifetime:  time.Duration(c.Auth.AccessTokenExpireMinutes) * time.Minute,
	}
}

// Location resolves TimeZone. Validate has already checked it, so UTC is only a fallback.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
