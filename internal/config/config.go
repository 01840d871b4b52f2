// Package config manages the service configuration.
//
// It reads built-in defaults, an optional YAML file and `QUIZ_`
// prefixed environment variables (a `.env` file is picked up too),
// loads them into structured Go types and validates that required
// values are present so the process fails fast on bad config.
//
// Responsibilities:
//   - Layer defaults, file and environment sources (later wins).
//   - Map the merged keys into the Config struct tree.
//   - Validate required values, including driver-dependent ones.
//   - Validate the observability block with its own rules.
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists in the working directory
	// it is loaded into the process environment before anything reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

/*
	Key layout:
	- Env vars are read using the prefix QUIZ_.
	- Keys are lowercased and the prefix is removed.
	- "." is the nesting delimiter, so QUIZ_DATABASE.HOST -> database.host
	  -> Config.Database.Host. Underscores stay part of the key name
	  (QUIZ_SERVER.READ_TIMEOUT -> server.read_timeout).
	- QUIZ_CONFIG_FILE may point at a YAML file using the same key tree.
*/

const (
	// EnvPrefix is the prefix every configuration variable carries.
	EnvPrefix = "QUIZ_"

	// ConfigFileEnv names the optional YAML config file.
	ConfigFileEnv = "QUIZ_CONFIG_FILE"

	// ServiceName tags logs and traces.
	ServiceName = "online-quiz"
)

// Supported store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is the root configuration object for the application.
//
// The `koanf:"..."` tags name the key each field is read from and the
// `validate:"..."` tags are enforced by go-playground/validator.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis"`
	Observability *ObservabilityConfig `koanf:"observability" validate:"required"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are whole seconds.
type ServerConfig struct {
	Port               string          `koanf:"port" validate:"required"`
	ReadTimeout        int             `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int             `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int             `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string        `koanf:"cors_allowed_origins" validate:"required"`
	RateLimit          RateLimitConfig `koanf:"rate_limit"`
}

// RateLimitConfig configures the per-IP fixed window limiter.
// It only takes effect when Redis is configured as well.
type RateLimitConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Requests int           `koanf:"requests" validate:"required_if=Enabled true"`
	Window   time.Duration `koanf:"window" validate:"required_if=Enabled true"`
}

// DatabaseConfig selects the question store and carries its connection
// parameters. Host/User/Name apply to postgres, Path to sqlite.
// Pool lifetimes are whole seconds.
type DatabaseConfig struct {
	Driver          string `koanf:"driver" validate:"required,oneof=postgres sqlite"`
	Host            string `koanf:"host" validate:"required_if=Driver postgres"`
	Port            int    `koanf:"port" validate:"required_if=Driver postgres"`
	User            string `koanf:"user" validate:"required_if=Driver postgres"`
	Password        string `koanf:"password"`
	Name            string `koanf:"name" validate:"required_if=Driver postgres"`
	SSLMode         string `koanf:"ssl_mode" validate:"required_if=Driver postgres"`
	Path            string `koanf:"path" validate:"required_if=Driver sqlite"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
	AutoMigrate     bool   `koanf:"auto_migrate"`
}

// DSN builds the postgres connection URL.
//
// The host/port pair is joined with net.JoinHostPort (IPv6 safe) and the
// password is escaped so characters like ':' or '@' cannot break the URL.
func (d DatabaseConfig) DSN() string {
	hostPort := net.JoinHostPort(d.Host, strconv.Itoa(d.Port))

	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		d.User,
		url.QueryEscape(d.Password),
		hostPort,
		d.Name,
		d.SSLMode,
	)
}

// RedisConfig contains Redis connection details.
// An empty Address disables Redis (rate limiting and its health check).
type RedisConfig struct {
	Address string `koanf:"address"`
}

// Enabled reports whether a Redis address was configured.
func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

// defaults is the lowest-priority source. Every other source overrides it.
func defaults() map[string]interface{} {
	obs := DefaultObservabilityConfig()

	return map[string]interface{}{
		"primary.env": "development",

		"server.port":                 "3000",
		"server.read_timeout":         30,
		"server.write_timeout":        30,
		"server.idle_timeout":         60,
		"server.cors_allowed_origins": []string{"*"},
		"server.rate_limit.enabled":   false,
		"server.rate_limit.requests":  100,
		"server.rate_limit.window":    time.Minute,

		"database.driver":             DriverPostgres,
		"database.host":               "localhost",
		"database.port":               5432,
		"database.user":               "postgres",
		"database.name":               "quiz_database",
		"database.ssl_mode":           "disable",
		"database.path":               "quiz.db",
		"database.max_open_conns":     10,
		"database.max_idle_conns":     2,
		"database.conn_max_lifetime":  3600,
		"database.conn_max_idle_time": 300,
		"database.auto_migrate":       true,

		"observability.service_name":                         obs.ServiceName,
		"observability.environment":                          obs.Environment,
		"observability.logging.level":                        obs.Logging.Level,
		"observability.logging.format":                       obs.Logging.Format,
		"observability.logging.slow_query_threshold":         obs.Logging.SlowQueryThreshold,
		"observability.new_relic.app_log_forwarding_enabled": obs.NewRelic.AppLogForwardingEnabled,
		"observability.new_relic.distributed_tracing_enabled": obs.NewRelic.DistributedTracingEnabled,
		"observability.new_relic.debug_logging":               obs.NewRelic.DebugLogging,
		"observability.health_checks.enabled":                 obs.HealthChecks.Enabled,
		"observability.health_checks.timeout":                 obs.HealthChecks.Timeout,
		"observability.health_checks.checks":                  obs.HealthChecks.Checks,
	}
}

// listKeys hold comma separated values when they come from the environment.
var listKeys = map[string]bool{
	"server.cors_allowed_origins":        true,
	"observability.health_checks.checks": true,
}

// envKey maps QUIZ_DATABASE.HOST to database.host and splits list values.
func envKey(key, value string) (string, interface{}) {
	k := strings.ToLower(strings.TrimPrefix(key, EnvPrefix))

	// QUIZ_CONFIG_FILE is a loader setting, not part of the key tree.
	if k == "config_file" {
		return "", nil
	}

	if listKeys[k] {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return k, parts
	}

	return k, value
}

// LoadConfig merges defaults, the optional YAML file and the environment,
// unmarshals the result into Config and validates it.
//
// Behavior summary:
//   - Defaults come first so every block exists even with an empty env.
//   - QUIZ_CONFIG_FILE (if set) is parsed as YAML.
//   - QUIZ_* env vars override both.
//   - Struct tags are validated, then ObservabilityConfig.Validate runs.
//   - Observability service name is forced and its environment follows
//     primary.env so every log line is tagged consistently.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("could not load default config: %w", err)
	}

	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("could not load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}
