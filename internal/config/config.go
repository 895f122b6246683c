package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	LogLevel            string
	DatabaseURL         string
	RedisURL            string
	AnalysisURL         string // base URL of the analysis service, e.g. http://localhost:8001
	AnalysisAPIKey      string // forwarded as api_key when the request carries none
	AnalysisTimeout     time.Duration
	RefreshDelay        time.Duration // how long clients should wait before re-fetching after /analyze
	SnapshotTTL         time.Duration
	DBMaxOpenConns      int
	DBMaxIdleConns      int
	DBConnMaxLifetime   time.Duration
	FrontendURLEndsWith string
	DevPassword         string
	HealthAdminKey      string
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("ANALYSIS_URL", "http://localhost:8001")
	viper.SetDefault("ANALYSIS_TIMEOUT_SECONDS", 120)
	viper.SetDefault("REFRESH_DELAY_MS", 2000)
	viper.SetDefault("SNAPSHOT_TTL_SECONDS", 30)
	viper.SetDefault("DB_MAX_OPEN_CONNS", 10)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 30)

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL_DEV")
	if env == "production" {
		dbURL = viper.GetString("DATABASE_URL_PROD")
	} else if env == "test" {
		dbURL = viper.GetString("DATABASE_URL_TEST")
	}
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL_DEV")
	}

	return &Config{
		Env:                 env,
		Port:                viper.GetString("PORT"),
		LogLevel:            viper.GetString("LOG_LEVEL"),
		DatabaseURL:         dbURL,
		RedisURL:            viper.GetString("REDIS_URL"),
		AnalysisURL:         strings.TrimRight(viper.GetString("ANALYSIS_URL"), "/"),
		AnalysisAPIKey:      viper.GetString("ANALYSIS_API_KEY"),
		AnalysisTimeout:     time.Duration(viper.GetInt("ANALYSIS_TIMEOUT_SECONDS")) * time.Second,
		RefreshDelay:        time.Duration(viper.GetInt("REFRESH_DELAY_MS")) * time.Millisecond,
		SnapshotTTL:         time.Duration(viper.GetInt("SNAPSHOT_TTL_SECONDS")) * time.Second,
		DBMaxOpenConns:      viper.GetInt("DB_MAX_OPEN_CONNS"),
		DBMaxIdleConns:      viper.GetInt("DB_MAX_IDLE_CONNS"),
		DBConnMaxLifetime:   time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")) * time.Minute,
		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         viper.GetString("DEV_PASSWORD"),
		HealthAdminKey:      viper.GetString("HEALTH_ADMIN_KEY"),
	}, nil
}

// IsProduction reports whether the app runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
