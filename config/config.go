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
	StoreDriverMySQL = "mysql"
	StoreDriverMongo = "mongo"

	AttemptBackendStore = "store"
	AttemptBackendRedis = "redis"

	EnvProduction = "production"
)

type Config struct {
	App   AppConfig
	HTTP  HTTPConfig
	Store StoreConfig
	Redis RedisConfig
	Log   LogConfig
}

type AppConfig struct {
	Env                 string
	EnableClearEndpoint bool
	ListLimit           int
}

type HTTPConfig struct {
	Host string
	Port string
}

type StoreConfig struct {
	Driver         string
	MySQLDSN       string
	MongoURI       string
	MongoDatabase  string
	Timeout        time.Duration
	AttemptBackend string
}

type RedisConfig struct {
	URL           string
	AttemptKey    string
	AttemptLogCap int64
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignores error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Env:                 strings.ToLower(getEnv("APP_ENV", "development")),
			EnableClearEndpoint: getBoolEnv("ENABLE_CLEAR_ENDPOINT", false),
			ListLimit:           getIntEnv("LIST_LIMIT", 100),
		},
		HTTP: HTTPConfig{
			Host: getEnv("HTTP_HOST", "0.0.0.0"),
			Port: getEnv("HTTP_PORT", "8080"),
		},
		Store: StoreConfig{
			Driver:         strings.ToLower(getEnv("STORE_DRIVER", StoreDriverMySQL)),
			MySQLDSN:       strings.TrimSpace(os.Getenv("MYSQL_DSN")),
			MongoURI:       strings.TrimSpace(os.Getenv("MONGO_URI")),
			MongoDatabase:  getEnv("MONGO_DATABASE", "redundancy_system"),
			Timeout:        getSecondsEnv("STORE_TIMEOUT", 5*time.Second),
			AttemptBackend: strings.ToLower(getEnv("ATTEMPT_BACKEND", AttemptBackendStore)),
		},
		Redis: RedisConfig{
			URL:           strings.TrimSpace(os.Getenv("REDIS_URL")),
			AttemptKey:    getEnv("REDIS_ATTEMPT_KEY", "contacts:attempts"),
			AttemptLogCap: int64(getIntEnv("REDIS_ATTEMPT_LOG_CAP", 1000)),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case StoreDriverMySQL:
		if c.Store.MySQLDSN == "" {
			return errors.New("MYSQL_DSN environment variable is required")
		}
	case StoreDriverMongo:
		if c.Store.MongoURI == "" {
			return errors.New("MONGO_URI environment variable is required")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}

	switch c.Store.AttemptBackend {
	case AttemptBackendStore:
	case AttemptBackendRedis:
		if c.Redis.URL == "" {
			return errors.New("REDIS_URL environment variable is required when ATTEMPT_BACKEND=redis")
		}
	default:
		return fmt.Errorf("unsupported ATTEMPT_BACKEND %q", c.Store.AttemptBackend)
	}

	if c.App.EnableClearEndpoint && c.IsProduction() {
		return errors.New("ENABLE_CLEAR_ENDPOINT cannot be set when APP_ENV=production")
	}
	if c.App.ListLimit <= 0 {
		return errors.New("LIST_LIMIT must be greater than 0")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Env == EnvProduction
}

func (c *Config) ClearAllowed() bool {
	return c.App.EnableClearEndpoint && !c.IsProduction()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getSecondsEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
