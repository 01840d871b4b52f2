package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != "3000" {
		t.Fatalf("server port = %q, want 3000", cfg.Server.Port)
	}
	if cfg.Database.Driver != DriverPostgres {
		t.Fatalf("database driver = %q, want %q", cfg.Database.Driver, DriverPostgres)
	}
	if !cfg.Database.AutoMigrate {
		t.Fatalf("expected auto_migrate to default to true")
	}
	if cfg.Observability.ServiceName != ServiceName {
		t.Fatalf("service name = %q, want %q", cfg.Observability.ServiceName, ServiceName)
	}
	if cfg.Observability.Environment != cfg.Primary.Env {
		t.Fatalf("observability environment %q does not follow primary env %q", cfg.Observability.Environment, cfg.Primary.Env)
	}
	if cfg.Observability.HealthChecks.Timeout != 5*time.Second {
		t.Fatalf("health check timeout = %v, want 5s", cfg.Observability.HealthChecks.Timeout)
	}
	if cfg.Redis.Enabled() {
		t.Fatalf("expected redis to be disabled without an address")
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("QUIZ_PRIMARY.ENV", "production")
	t.Setenv("QUIZ_SERVER.PORT", "8080")
	t.Setenv("QUIZ_SERVER.CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("QUIZ_DATABASE.DRIVER", "sqlite")
	t.Setenv("QUIZ_DATABASE.PATH", "/tmp/questions.db")
	t.Setenv("QUIZ_REDIS.ADDRESS", "localhost:6379")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Fatalf("server port = %q, want 8080", cfg.Server.Port)
	}
	if got := cfg.Server.CORSAllowedOrigins; len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Fatalf("unexpected cors origins: %#v", got)
	}
	if cfg.Database.Driver != DriverSQLite || cfg.Database.Path != "/tmp/questions.db" {
		t.Fatalf("unexpected database config: %+v", cfg.Database)
	}
	if !cfg.Observability.IsProduction() {
		t.Fatalf("expected production observability environment")
	}
	if !cfg.Redis.Enabled() {
		t.Fatalf("expected redis to be enabled")
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
server:
  port: "9090"
database:
  driver: sqlite
  path: file.db
observability:
  logging:
    level: warn
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv(ConfigFileEnv, path)
	t.Setenv("QUIZ_DATABASE.PATH", "env.db")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Fatalf("server port = %q, want 9090 from file", cfg.Server.Port)
	}
	if cfg.Database.Path != "env.db" {
		t.Fatalf("database path = %q, env should win over file", cfg.Database.Path)
	}
	if cfg.Observability.Logging.Level != "warn" {
		t.Fatalf("log level = %q, want warn", cfg.Observability.Logging.Level)
	}
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	t.Setenv("QUIZ_DATABASE.DRIVER", "mysql")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected validation error for unknown driver")
	}
}

func TestObservabilityValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *ObservabilityConfig)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *ObservabilityConfig) {}},
		{name: "bad level", mutate: func(c *ObservabilityConfig) { c.Logging.Level = "verbose" }, wantErr: true},
		{name: "negative threshold", mutate: func(c *ObservabilityConfig) { c.Logging.SlowQueryThreshold = -time.Second }, wantErr: true},
		{name: "unknown check", mutate: func(c *ObservabilityConfig) { c.HealthChecks.Checks = []string{"kafka"} }, wantErr: true},
		{name: "missing service name", mutate: func(c *ObservabilityConfig) { c.ServiceName = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultObservabilityConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRunsCheck(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	cfg.HealthChecks.Checks = []string{"database"}

	if !cfg.RunsCheck("database") {
		t.Fatalf("expected database check to run")
	}
	if cfg.RunsCheck("redis") {
		t.Fatalf("expected redis check to be skipped")
	}

	cfg.HealthChecks.Enabled = false
	if cfg.RunsCheck("database") {
		t.Fatalf("expected no checks when health checks are disabled")
	}
}

func TestDatabaseDSNEscapesPassword(t *testing.T) {
	d := DatabaseConfig{
		Host:     "::1",
		Port:     5432,
		User:     "quiz",
		Password: "pa:ss@word",
		Name:     "quiz_database",
		SSLMode:  "disable",
	}

	want := "postgres://quiz:pa%3Ass%40word@[::1]:5432/quiz_database?sslmode=disable"
	if got := d.DSN(); got != want {
		t.Fatalf("DSN() = %q, want %q", got, want)
	}
}
