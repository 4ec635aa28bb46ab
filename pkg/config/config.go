package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store drivers
const (
	StoreFirestore = "firestore"
	StoreHybrid    = "hybrid"
)

type Config struct {
	Port        string
	Env         string
	MetricsPort string
	LogLevel    string
	LogFormat   string

	StoreDriver             string
	FirebaseCredentialsPath string
	FirebaseCredentialsJSON string
	FirebaseProjectID       string
	FirebaseStorageBucket   string
	MongoURI                string
	MongoDatabase           string
	PostgresConnStr         string

	JWTSecret         string
	AdminUsername     string
	AdminPassword     string
	AdminPasswordHash string
	AdminEmails       []string

	SiteURL         string
	SiteTimezone    string
	PushIcon        string
	PublicRateLimit float64
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		MetricsPort: getEnv("METRICS_PORT", "9090"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),

		StoreDriver:             strings.ToLower(getEnv("STORE_DRIVER", StoreFirestore)),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", "./firebase_credentials.json"),
		FirebaseCredentialsJSON: getEnv("FIREBASE_CREDENTIALS_JSON", ""),
		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseStorageBucket:   getEnv("FIREBASE_STORAGE_BUCKET", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "newsline"),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),

		JWTSecret:         getEnv("JWT_SECRET", ""),
		AdminUsername:     getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:     getEnv("ADMIN_PASSWORD", ""),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		AdminEmails:       splitList(getEnv("ADMIN_EMAILS", "")),

		SiteURL:         getEnv("SITE_URL", "https://radio.kenlive.co.ke"),
		SiteTimezone:    getEnv("SITE_TIMEZONE", "UTC"),
		PushIcon:        getEnv("PUSH_ICON", "/newsline-logo.png"),
		PublicRateLimit: getEnvFloat("PUBLIC_RATE_LIMIT", 5),
	}
}

// IsProduction reports whether ENV is production
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Location returns the site time zone used for article date parts
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.SiteTimezone)
}

// Validate checks the settings that would otherwise fail at request time
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreFirestore:
	case StoreHybrid:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required when STORE_DRIVER=%s", StoreHybrid)
		}
		if c.PostgresConnStr == "" {
			return fmt.Errorf("POSTGRES_CONN_STR is required when STORE_DRIVER=%s", StoreHybrid)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (want %s or %s)", c.StoreDriver, StoreFirestore, StoreHybrid)
	}
	if c.IsProduction() && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid SITE_TIMEZONE %q: %w", c.SiteTimezone, err)
	}
	if c.PublicRateLimit <= 0 {
		return fmt.Errorf("PUBLIC_RATE_LIMIT must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToLower(part))
		}
	}
	return out
}
