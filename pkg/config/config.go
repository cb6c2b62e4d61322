// Package config reads process configuration once at startup.
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

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is immutable after Load and is passed to constructors explicitly.
type Config struct {
	Port     string
	AppEnv   string
	LogLevel string

	DatabaseURL  string
	DatabaseName string

	JWTSecret  string
	JWTIssuer  string
	BcryptCost int

	CORSAllowedOrigins string

	S3Bucket          string
	S3Region          string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3PublicBaseURL   string
	UploadTimeout     time.Duration

	// parseErrs holds malformed values seen by Load; Validate reports them.
	parseErrs []error
}

// Load reads environment variables, optionally from a .env file if present,
// and validates the result.
func Load() (*Config, error) {
	// Try to load .env if it exists; ignore error if file not found
	_ = godotenv.Load()

	var parseErrs []error
	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		AppEnv:   getEnv("APP_ENV", EnvDevelopment),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: getEnv("DATABASE_NAME", "accounts"),

		JWTSecret:  os.Getenv("JWT_SECRET"),
		JWTIssuer:  getEnv("JWT_ISSUER", "accounts-service"),
		BcryptCost: getEnvInt("BCRYPT_COST", 12, &parseErrs),

		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),

		S3Bucket:          os.Getenv("S3_BUCKET"),
		S3Region:          getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:        os.Getenv("S3_ENDPOINT"),
		S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		S3PublicBaseURL:   strings.TrimRight(os.Getenv("S3_PUBLIC_BASE_URL"), "/"),
		UploadTimeout:     getEnvDuration("UPLOAD_TIMEOUT", 15*time.Second, &parseErrs),
	}
	cfg.parseErrs = parseErrs
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every missing or malformed setting at once.
func (c *Config) Validate() error {
	errs := append([]error(nil), c.parseErrs...)
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	} else if _, err := c.StoreKind(); err != nil {
		errs = append(errs, err)
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.BcryptCost < 10 || c.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between 10 and 31, got %d", c.BcryptCost))
	}
	if c.AppEnv != EnvDevelopment && c.AppEnv != EnvProduction && c.AppEnv != "test" {
		errs = append(errs, fmt.Errorf("APP_ENV %q is not one of development, production, test", c.AppEnv))
	}
	if strings.Contains(c.CORSAllowedOrigins, "*") {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS must list explicit origins; the session cookie is credentialed"))
	}
	if c.IsProduction() {
		if len(c.JWTSecret) < 32 {
			errs = append(errs, errors.New("JWT_SECRET must be at least 32 bytes in production"))
		}
		if kind, _ := c.StoreKind(); kind == StoreMemory {
			errs = append(errs, errors.New("memory store is not allowed in production"))
		}
		if c.S3Bucket == "" || c.S3PublicBaseURL == "" {
			errs = append(errs, errors.New("S3_BUCKET and S3_PUBLIC_BASE_URL are required in production"))
		}
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool  { return c.AppEnv == EnvProduction }
func (c *Config) IsDevelopment() bool { return c.AppEnv == EnvDevelopment }

// ImageHostEnabled reports whether profile images can be uploaded.
func (c *Config) ImageHostEnabled() bool {
	return c.S3Bucket != "" && c.S3PublicBaseURL != ""
}

// StoreKind is the user store backend selected by DATABASE_URL.
type StoreKind string

const (
	StorePostgres StoreKind = "postgres"
	StoreMongo    StoreKind = "mongo"
	StoreMemory   StoreKind = "memory"
)

func (c *Config) StoreKind() (StoreKind, error) {
	scheme, _, ok := strings.Cut(c.DatabaseURL, "://")
	if !ok {
		return "", fmt.Errorf("DATABASE_URL %q has no scheme", redact(c.DatabaseURL))
	}
	switch strings.ToLower(scheme) {
	case "postgres", "postgresql":
		return StorePostgres, nil
	case "mongodb", "mongodb+srv":
		return StoreMongo, nil
	case "memory":
		return StoreMemory, nil
	default:
		return "", fmt.Errorf("DATABASE_URL scheme %q is not supported", scheme)
	}
}

func redact(dsn string) string {
	if at := strings.LastIndex(dsn, "@"); at >= 0 {
		return "***" + dsn[at:]
	}
	return dsn
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int, errs *[]error) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s must be an integer, got %q", key, v))
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration, errs *[]error) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil || d <= 0 {
		*errs = append(*errs, fmt.Errorf("%s must be a positive duration such as 15s, got %q", key, v))
		return def
	}
	return d
}
