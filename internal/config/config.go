package config

import (
	"os"
	"time"
)

type Config struct {
	// Server
	Port        string
	CORSOrigins string

	// Identity tokens (Bearer / accessToken body field)
	JWTSecret string

	// Log sink database (optional; sink disabled when password is empty)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Event store (columnar, JSON-per-row inserts)
	StoreAPIURL   string
	StoreAPIToken string

	// Geo-IP lookup
	GeoAPIURL   string
	GeoAPIToken string

	// Quota / entitlement service
	QuotaAPIURL string
	QuotaAPIKey string

	// Realtime broadcast
	RealtimeAPIURL string
	RealtimeAPIKey string

	// Translation service
	TranslateAPIURL string
	TranslateAPIKey string

	// Deadline applied to each outbound collaborator call
	ExternalTimeout time.Duration

	TranslateCacheTTL time.Duration
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "4000"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "ingest_ops"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		StoreAPIURL:   getEnv("EVENTSTORE_API_URL", "https://api.tinybird.co"),
		StoreAPIToken: getEnv("EVENTSTORE_API_TOKEN", ""),

		GeoAPIURL:   getEnv("GEO_API_URL", "https://ipinfo.io"),
		GeoAPIToken: getEnv("GEO_API_TOKEN", ""),

		QuotaAPIURL: getEnv("QUOTA_API_URL", ""),
		QuotaAPIKey: getEnv("QUOTA_API_KEY", ""),

		RealtimeAPIURL: getEnv("REALTIME_API_URL", ""),
		RealtimeAPIKey: getEnv("REALTIME_API_KEY", ""),

		TranslateAPIURL: getEnv("TRANSLATE_API_URL", ""),
		TranslateAPIKey: getEnv("TRANSLATE_API_KEY", ""),

		ExternalTimeout: parseDuration(getEnv("EXTERNAL_TIMEOUT", "10s"), 10*time.Second),

		TranslateCacheTTL: parseDuration(getEnv("TRANSLATE_CACHE_TTL", "5m"), 5*time.Minute),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// LogSinkEnabled reports whether the Postgres error-log sink should be wired.
func (c *Config) LogSinkEnabled() bool {
	return c.DBPassword != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
