package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Logging  LoggingConfig
	Admin    AdminConfig
}

type ServerConfig struct {
	Port    string
	AppName string
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogLevel        string
}

type RedisConfig struct {
	URL     string
	Channel string
}

// Enabled reports whether a Redis URL was configured
func (r RedisConfig) Enabled() bool {
	return r.URL != ""
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

type LoggingConfig struct {
	Level    string
	Encoding string
}

type AdminConfig struct {
	FullName string
	Username string
	Password string
}

// Load reads .env (when present) and the process environment
func Load() (*Config, error) {
	// .env is optional, the process environment wins either way
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "5000"),
			AppName: getEnv("APP_NAME", "Office Inventory API"),
		},
		Database: loadDatabase(),
		Redis: RedisConfig{
			URL:     getEnv("REDIS_URL", ""),
			Channel: getEnv("REDIS_CHANNEL", "inventory:stock-events"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
			Expiry: time.Duration(getEnvAsInt("JWT_EXPIRY_HOURS", 8)) * time.Hour,
		},
		Logging: LoggingConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Encoding: getEnv("LOG_ENCODING", "json"),
		},
		Admin: AdminConfig{
			FullName: getEnv("ADMIN_FULL_NAME", "Administrator"),
			Username: getEnv("ADMIN_USERNAME", "admin"),
			Password: getEnv("ADMIN_PASSWORD", "admin123"),
		},
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}
	if cfg.JWT.Expiry <= 0 {
		return nil, fmt.Errorf("JWT_EXPIRY_HOURS must be positive")
	}

	return cfg, nil
}

// LoadDatabase reads only the store settings, for tools that never serve HTTP
func LoadDatabase() DatabaseConfig {
	_ = godotenv.Load()
	return loadDatabase()
}

func loadDatabase() DatabaseConfig {
	return DatabaseConfig{
		URL:             databaseURL(),
		MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: time.Duration(getEnvAsInt("DB_CONN_MAX_LIFETIME_MINUTES", 60)) * time.Minute,
		LogLevel:        getEnv("DB_LOG_LEVEL", "warn"),
	}
}

func databaseURL() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", ""),
		getEnv("DB_NAME", "inventory"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_SSLMODE", "disable"),
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
