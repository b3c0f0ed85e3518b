package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Database
	DatabaseURL       string
	MigrateOnStart    bool
	MigrationsDir     string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	// ConnectTimeout bounds the startup dial and ping of Postgres and Redis.
	ConnectTimeout time.Duration

	// Redis
	RedisURL    string
	SnapshotTTL time.Duration

	// Server
	Port        string
	FrontendURL string

	// Table
	TableID      string
	LayoutName   string
	LayoutFile   string
	TickInterval time.Duration
	MaxSubstep   time.Duration

	// Security
	JWTSecret            string
	ControllerTokenTTL   time.Duration
	OperatorPasswordHash string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database (empty disables the layout store)
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MigrateOnStart: getEnv("MIGRATE_ON_START", "false") == "true",
		MigrationsDir:  getEnv("MIGRATIONS_DIR", "migrations"),

		DBMaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 2),
		DBConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME_MINUTES", time.Minute, 30*time.Minute),
		ConnectTimeout:    getEnvDuration("CONNECT_TIMEOUT_SECONDS", time.Second, 5*time.Second),

		// Redis (empty disables snapshot caching and events)
		RedisURL:    getEnv("REDIS_URL", ""),
		SnapshotTTL: getEnvDuration("SNAPSHOT_TTL_SECONDS", time.Second, 60*time.Second),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Table
		TableID:      getEnv("TABLE_ID", "main"),
		LayoutName:   getEnv("LAYOUT_NAME", "standard"),
		LayoutFile:   getEnv("LAYOUT_FILE", ""),
		TickInterval: getEnvDuration("TICK_INTERVAL_MS", time.Millisecond, 16*time.Millisecond),
		MaxSubstep:   getEnvDuration("MAX_SUBSTEP_MS", time.Millisecond, 0),

		// Security
		JWTSecret:            getEnv("JWT_SECRET", "change-me-in-production"),
		ControllerTokenTTL:   getEnvDuration("CONTROLLER_TOKEN_TTL_MINUTES", time.Minute, 60*time.Minute),
		OperatorPasswordHash: getEnv("OPERATOR_PASSWORD_HASH", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration reads an integer count of unit.
func getEnvDuration(key string, unit, defaultValue time.Duration) time.Duration {
	n := getEnvInt(key, -1)
	if n < 0 {
		return defaultValue
	}
	return time.Duration(n) * unit
}
