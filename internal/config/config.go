package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	neturl "net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment names recognised in APP_ENV.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config centralises runtime configuration.
type Config struct {
	HTTPPort        string
	DatabaseURL     string
	JWTSecret       string
	JWTIssuer       string
	Environment     string
	LogLevel        string
	BcryptCost      int
	AllowedOrigins  []string
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

// IsDevelopment reports whether the service runs in local development.
func (c Config) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

// Load reads configuration from environment variables providing sane defaults.
func Load() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	httpPort := getEnv("HTTP_PORT", "")
	if httpPort == "" {
		httpPort = getEnv("PORT", "8080")
	}

	cfg := Config{
		HTTPPort:        httpPort,
		DatabaseURL:     resolveDatabaseURL(),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTIssuer:       getEnv("JWT_ISSUER", "dash"),
		Environment:     strings.ToLower(getEnv("APP_ENV", EnvProduction)),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		BcryptCost:      getIntEnv("BCRYPT_COST", 10),
		AllowedOrigins:  splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		ReadTimeoutSec:  getIntEnv("HTTP_READ_TIMEOUT", 15),
		WriteTimeoutSec: getIntEnv("HTTP_WRITE_TIMEOUT", 15),
		IdleTimeoutSec:  getIntEnv("HTTP_IDLE_TIMEOUT", 60),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("database configuration missing: provide DATABASE_URL or PG* env vars")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if len(cfg.JWTSecret) < 32 {
		return Config{}, fmt.Errorf("JWT_SECRET must be at least 32 bytes")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func splitCSV(value string) []string {
	parts := []string{}
	for _, part := range strings.Split(value, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

func resolveDatabaseURL() string {
	for _, key := range []string{"DATABASE_URL", "POSTGRES_URL", "PGURL"} {
		if url := coerceDatabaseURL(os.Getenv(key)); url != "" {
			return url
		}
	}
	for _, key := range []string{"DATABASE_URL_FILE", "PGURL_FILE"} {
		if url := coerceDatabaseURL(readEnvFile(key)); url != "" {
			return url
		}
	}

	host := firstNonEmpty(os.Getenv("PGHOST"), os.Getenv("POSTGRES_HOST"))
	user := firstNonEmpty(os.Getenv("PGUSER"), os.Getenv("POSTGRES_USER"))
	if host == "" || user == "" {
		return ""
	}
	password := firstNonEmpty(os.Getenv("PGPASSWORD"), os.Getenv("POSTGRES_PASSWORD"))
	database := firstNonEmpty(os.Getenv("PGDATABASE"), os.Getenv("POSTGRES_DB"), user)
	port := firstNonEmpty(os.Getenv("PGPORT"), os.Getenv("POSTGRES_PORT"), "5432")
	sslMode := firstNonEmpty(os.Getenv("PGSSLMODE"), "require")

	dsn := &neturl.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(host, port),
		Path:   "/" + database,
		User:   neturl.User(user),
	}
	if password != "" {
		dsn.User = neturl.UserPassword(user, password)
	}
	query := dsn.Query()
	query.Set("sslmode", sslMode)
	dsn.RawQuery = query.Encode()

	return dsn.String()
}

func normalisePostgresScheme(url string) string {
	if strings.HasPrefix(url, "postgresql://") {
		return "postgres://" + strings.TrimPrefix(url, "postgresql://")
	}
	return url
}

func coerceDatabaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "postgres://") || strings.HasPrefix(raw, "postgresql://") {
		return normalisePostgresScheme(raw)
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func readEnvFile(key string) string {
	path := os.Getenv(key)
	if path == "" {
		return ""
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
