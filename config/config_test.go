package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func chdirTemp(t *testing.T) string {
	t.Helper()

	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd failed: %v", err)
	}
	tmp := t.TempDir()
	if err := os.Chdir(tmp); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(origDir)
	})
	return tmp
}

func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"APP_ENV", "ENABLE_CLEAR_ENDPOINT", "LIST_LIMIT", "HTTP_HOST", "HTTP_PORT",
		"STORE_DRIVER", "MYSQL_DSN", "MONGO_URI", "MONGO_DATABASE", "STORE_TIMEOUT",
		"ATTEMPT_BACKEND", "REDIS_URL", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_STRING", "value")
	if got := getEnv("TEST_STRING", "default"); got != "value" {
		t.Fatalf("expected value, got %q", got)
	}
	if got := getEnv("MISSING_STRING", "default"); got != "default" {
		t.Fatalf("expected default, got %q", got)
	}

	t.Setenv("TEST_SECONDS", "30")
	if got := getSecondsEnv("TEST_SECONDS", 5*time.Second); got != 30*time.Second {
		t.Fatalf("expected 30s, got %v", got)
	}
	t.Setenv("TEST_SECONDS", "-1")
	if got := getSecondsEnv("TEST_SECONDS", 5*time.Second); got != 5*time.Second {
		t.Fatalf("expected default duration, got %v", got)
	}

	t.Setenv("TEST_BOOL", "true")
	if got := getBoolEnv("TEST_BOOL", false); got != true {
		t.Fatalf("expected true, got %v", got)
	}
	t.Setenv("TEST_BOOL", "invalid")
	if got := getBoolEnv("TEST_BOOL", true); got != true {
		t.Fatalf("expected default bool, got %v", got)
	}

	t.Setenv("TEST_INT", "42")
	if got := getIntEnv("TEST_INT", 5); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	t.Setenv("TEST_INT", "invalid")
	if got := getIntEnv("TEST_INT", 5); got != 5 {
		t.Fatalf("expected default int, got %d", got)
	}
}

func TestLoadRequiresMySQLDSN(t *testing.T) {
	chdirTemp(t)
	clearEnv(t)

	if cfg, err := Load(); err == nil || cfg != nil {
		t.Fatalf("expected error when MYSQL_DSN is missing")
	}
}

func TestLoadRequiresMongoURI(t *testing.T) {
	chdirTemp(t)
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "mongo")

	if cfg, err := Load(); err == nil || cfg != nil {
		t.Fatalf("expected error when MONGO_URI is missing")
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	chdirTemp(t)
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "sqlite")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}

func TestLoadRequiresRedisURLForRedisAttempts(t *testing.T) {
	chdirTemp(t)
	clearEnv(t)
	t.Setenv("MYSQL_DSN", "user:pass@tcp(localhost:3306)/contacts?parseTime=true")
	t.Setenv("ATTEMPT_BACKEND", "redis")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when REDIS_URL is missing")
	}
}

func TestLoadRefusesClearInProduction(t *testing.T) {
	chdirTemp(t)
	clearEnv(t)
	t.Setenv("MYSQL_DSN", "user:pass@tcp(localhost:3306)/contacts?parseTime=true")
	t.Setenv("APP_ENV", "production")
	t.Setenv("ENABLE_CLEAR_ENDPOINT", "true")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when clear is enabled in production")
	}
}

func TestLoadSuccess(t *testing.T) {
	chdirTemp(t)
	clearEnv(t)
	t.Setenv("MYSQL_DSN", "user:pass@tcp(db:3306)/contacts?parseTime=true")
	t.Setenv("HTTP_PORT", "8081")
	t.Setenv("STORE_TIMEOUT", "3")
	t.Setenv("ENABLE_CLEAR_ENDPOINT", "true")
	t.Setenv("LIST_LIMIT", "50")
	t.Setenv("ATTEMPT_BACKEND", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.HTTP.Port != "8081" || cfg.HTTP.Host != "0.0.0.0" {
		t.Fatalf("unexpected http config: %+v", cfg.HTTP)
	}
	if cfg.Store.Driver != StoreDriverMySQL || cfg.Store.MySQLDSN != "user:pass@tcp(db:3306)/contacts?parseTime=true" {
		t.Fatalf("unexpected store config: %+v", cfg.Store)
	}
	if cfg.Store.Timeout != 3*time.Second {
		t.Fatalf("expected 3s timeout, got %v", cfg.Store.Timeout)
	}
	if cfg.Store.AttemptBackend != AttemptBackendRedis || cfg.Redis.URL != "redis://localhost:6379/0" {
		t.Fatalf("unexpected attempt backend: %s %s", cfg.Store.AttemptBackend, cfg.Redis.URL)
	}
	if !cfg.ClearAllowed() {
		t.Fatalf("expected clear to be allowed")
	}
	if cfg.App.ListLimit != 50 {
		t.Fatalf("expected list limit 50, got %d", cfg.App.ListLimit)
	}
}

func TestLoadUsesDefaults(t *testing.T) {
	chdirTemp(t)
	clearEnv(t)
	t.Setenv("MYSQL_DSN", "user:pass@tcp(localhost:3306)/contacts?parseTime=true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.HTTP.Port != "8080" || cfg.Store.Timeout != 5*time.Second || cfg.App.ListLimit != 100 {
		t.Fatalf("expected defaults to be populated, got %+v", cfg)
	}
	if cfg.ClearAllowed() {
		t.Fatalf("expected clear to be disabled by default")
	}
	if cfg.Store.AttemptBackend != AttemptBackendStore {
		t.Fatalf("expected store attempt backend, got %s", cfg.Store.AttemptBackend)
	}
}

func TestLoadRespectsEnvFileLocation(t *testing.T) {
	tmp := chdirTemp(t)
	clearEnv(t)

	envPath := filepath.Join(tmp, ".env")
	if err := os.WriteFile(envPath, []byte("STORE_DRIVER=mongo\nMONGO_URI=mongodb://localhost:27017\nHTTP_PORT=9099\n"), 0600); err != nil {
		t.Fatalf("write .env failed: %v", err)
	}
	// godotenv does not override variables that are already set, even when empty.
	for _, key := range []string{"STORE_DRIVER", "MONGO_URI", "HTTP_PORT"} {
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unsetenv failed: %v", err)
		}
	}
	t.Cleanup(func() {
		for _, key := range []string{"STORE_DRIVER", "MONGO_URI", "HTTP_PORT"} {
			_ = os.Unsetenv(key)
		}
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Store.Driver != StoreDriverMongo || cfg.HTTP.Port != "9099" {
		t.Fatalf("expected env file values, got %s %s", cfg.Store.Driver, cfg.HTTP.Port)
	}
	if cfg.Store.MongoDatabase != "redundancy_system" {
		t.Fatalf("expected default mongo database, got %s", cfg.Store.MongoDatabase)
	}
}
