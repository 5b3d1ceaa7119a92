package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Auth          AuthConfig
	Redis         RedisConfig
	Observability ObservabilityConfig
	Pagination    PaginationConfig
	Environment   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// DatabaseConfig holds PostgreSQL database configuration.
// When ConnectionString (from DATABASE_URL) is set, it takes precedence over individual fields.
type DatabaseConfig struct {
	ConnectionString string
	Host             string
	Port             int
	User             string
	Password         string
	Database         string
	SSLMode          string
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
}

// AuthConfig holds the identity provider settings used to verify bearer tokens.
type AuthConfig struct {
	Domain         string
	Audience       string
	Algorithms     []string
	JWKSURL        string // overrides the URL derived from Domain
	JWKSCacheTTL   time.Duration
	JWKSMinRefresh time.Duration
	JWKSTimeout    time.Duration
	Leeway         time.Duration
}

// RedisConfig holds the optional shared key-set cache. Empty URL means in-process caching.
type RedisConfig struct {
	URL       string
	KeyPrefix string
}

// ObservabilityConfig holds logging configuration
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string // json or console
}

// PaginationConfig limits the rows returned by list endpoints
type PaginationConfig struct {
	PageSize int
}

// New creates a new Config instance by loading environment variables
func New() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getPort(),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			AllowedOrigins:  getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Database: loadDatabaseConfig(),
		Auth: AuthConfig{
			Domain:         normalizeDomain(getEnv("AUTH0_DOMAIN", "")),
			Audience:       getEnv("API_AUDIENCE", ""),
			Algorithms:     getEnvAsList("AUTH0_ALGORITHMS", []string{"RS256"}),
			JWKSURL:        getEnv("AUTH0_JWKS_URL", ""),
			JWKSCacheTTL:   getEnvAsDuration("JWKS_CACHE_TTL", 10*time.Minute),
			JWKSMinRefresh: getEnvAsDuration("JWKS_MIN_REFRESH", 30*time.Second),
			JWKSTimeout:    getEnvAsDuration("JWKS_TIMEOUT", 5*time.Second),
			Leeway:         getEnvAsDuration("TOKEN_LEEWAY", 0),
		},
		Redis: RedisConfig{
			URL:       getEnv("REDIS_URL", ""),
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "casting:jwks:"),
		},
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "json"),
		},
		Pagination: PaginationConfig{
			PageSize: getEnvAsInt("PAGE_SIZE", 10),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration fields are set
func (c *Config) Validate() error {
	if c.Database.ConnectionString == "" && c.Database.Host == "" {
		return fmt.Errorf("database configuration required: set DATABASE_URL or DB_HOST")
	}

	if c.IsProduction() {
		if c.Auth.Domain == "" {
			return fmt.Errorf("auth domain is required in production")
		}
		if c.Auth.Audience == "" {
			return fmt.Errorf("api audience is required in production")
		}
	}

	if strings.ContainsAny(c.Auth.Domain, "/:") {
		return fmt.Errorf("auth domain must be a host name such as tenant.auth0.com, got %q", c.Auth.Domain)
	}

	if len(c.Auth.Algorithms) == 0 {
		return fmt.Errorf("at least one signing algorithm is required")
	}
	if c.Auth.JWKSTimeout <= 0 {
		return fmt.Errorf("jwks timeout must be positive")
	}

	if c.Pagination.PageSize <= 0 {
		return fmt.Errorf("page size must be positive")
	}

	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// Enabled reports whether an identity provider is configured.
func (c *AuthConfig) Enabled() bool {
	return c.Domain != "" && c.Audience != ""
}

// normalizeDomain accepts the tenant domain with or without an https:// prefix and trailing slash
func normalizeDomain(domain string) string {
	domain = strings.TrimSpace(domain)
	if len(domain) >= len("https://") && strings.EqualFold(domain[:len("https://")], "https://") {
		domain = domain[len("https://"):]
	}
	return strings.TrimSuffix(domain, "/")
}

// Issuer returns the expected "iss" claim, https://<domain>/
func (c *AuthConfig) Issuer() string {
	return fmt.Sprintf("https://%s/", c.Domain)
}

// KeySetURL returns the JWKS endpoint of the identity provider
func (c *AuthConfig) KeySetURL() string {
	if c.JWKSURL != "" {
		return c.JWKSURL
	}
	return fmt.Sprintf("https://%s/.well-known/jwks.json", c.Domain)
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	if c.ConnectionString != "" {
		return c.ConnectionString
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// LogString returns a safe string for logging (no password).
func (c *DatabaseConfig) LogString() string {
	if c.ConnectionString != "" {
		u, err := url.Parse(c.ConnectionString)
		if err == nil {
			port := u.Port()
			if port == "" {
				port = "5432"
			}
			return fmt.Sprintf("host=%s port=%s database=%s", u.Hostname(), port, strings.TrimPrefix(u.Path, "/"))
		}
		return "host=<from DATABASE_URL>"
	}
	return fmt.Sprintf("host=%s port=%d database=%s", c.Host, c.Port, c.Database)
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func loadDatabaseConfig() DatabaseConfig {
	pool := DatabaseConfig{
		MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
	}
	if dbURL := getEnv("DATABASE_URL", ""); dbURL != "" {
		pool.ConnectionString = dbURL
		return pool
	}
	pool.Host = getEnv("DB_HOST", "localhost")
	pool.Port = getEnvAsInt("DB_PORT", 5432)
	pool.User = getEnv("DB_USER", "postgres")
	pool.Password = getEnv("DB_PASSWORD", "")
	pool.Database = getEnv("DB_NAME", "casting")
	pool.SSLMode = getEnv("DB_SSLMODE", "disable")
	return pool
}

// Helper functions

// getPort returns the server port from PORT or SERVER_PORT env vars (default: 8080)
func getPort() int {
	for _, key := range []string{"PORT", "SERVER_PORT"} {
		if value := os.Getenv(key); value != "" {
			if p, err := strconv.Atoi(value); err == nil {
				return p
			}
		}
	}
	return 8080
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList splits a comma separated variable, dropping blanks.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
