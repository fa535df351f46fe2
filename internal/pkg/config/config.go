package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/samirrijal/railboard/internal/core/domain"
)

// Config holds all application configuration.
type Config struct {
	Server       ServerConfig                    `mapstructure:"server"`
	Log          LogConfig                       `mapstructure:"log"`
	Darwin       DarwinConfig                    `mapstructure:"darwin"`
	Scrape       ScrapeConfig                    `mapstructure:"scrape"`
	Stations     []StationCode                   `mapstructure:"stations"`
	Origins      []domain.OriginAndCallingPoints `mapstructure:"origins"`
	ConfigSource string                          `mapstructure:"config_source"`
	Publisher    string                          `mapstructure:"publisher"`
	Database     DatabaseConfig                  `mapstructure:"database"`
	NATS         NATSConfig                      `mapstructure:"nats"`
	Valkey       ValkeyConfig                    `mapstructure:"valkey"`
	Telemetry    TelemetryConfig                 `mapstructure:"telemetry"`
	Temporal     TemporalConfig                  `mapstructure:"temporal"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

// StationCode maps a station name to its CRS code. Stations are a list
// rather than a map because viper folds map keys to lower case.
type StationCode struct {
	Name string `mapstructure:"name"`
	CRS  string `mapstructure:"crs"`
}

// StationCodes returns the configured stations keyed by name.
func (c *Config) StationCodes() map[string]string {
	codes := make(map[string]string, len(c.Stations))
	for _, s := range c.Stations {
		codes[s.Name] = s.CRS
	}
	return codes
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DarwinConfig configures the departure board source. With FixtureDir set,
// boards are read from recorded JSON files instead of the live service.
type DarwinConfig struct {
	Endpoint   string        `mapstructure:"endpoint"`
	Token      string        `mapstructure:"token"`
	NumRows    int           `mapstructure:"num_rows"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
	FixtureDir string        `mapstructure:"fixture_dir"`
}

type ScrapeConfig struct {
	Concurrency int           `mapstructure:"concurrency"`
	Mode        string        `mapstructure:"mode"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

type TemporalConfig struct {
	HostPort  string `mapstructure:"host_port"`
	Namespace string `mapstructure:"namespace"`
	TaskQueue string `mapstructure:"task_queue"`
}

const (
	SourceStatic   = "static"
	SourcePostgres = "postgres"

	PublisherConsole = "console"
	PublisherNATS    = "nats"
)

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	return load(service, ".", "./configs")
}

func load(service string, paths ...string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("darwin.endpoint", "https://lite.realtime.nationalrail.co.uk/OpenLDBWS/ldb11.asmx")
	v.SetDefault("darwin.token", "")
	v.SetDefault("darwin.num_rows", 100)
	v.SetDefault("darwin.timeout", "30s")
	v.SetDefault("darwin.max_retries", 3)
	v.SetDefault("darwin.fixture_dir", "")
	v.SetDefault("scrape.concurrency", 1)
	v.SetDefault("scrape.mode", "fail_fast")
	v.SetDefault("scrape.cache_ttl", "0s")
	v.SetDefault("config_source", SourceStatic)
	v.SetDefault("publisher", PublisherConsole)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "railboard")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "railboard")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "railboard-scrape")

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: RAILBOARD_DARWIN_TOKEN → darwin.token
	v.SetEnvPrefix("RAILBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Darwin.FixtureDir == "" && c.Darwin.Endpoint == "" {
		errs = append(errs, "darwin.endpoint is required")
	}
	if c.Darwin.NumRows <= 0 || c.Darwin.NumRows > 150 {
		errs = append(errs, fmt.Sprintf("darwin.num_rows must be 1-150, got %d", c.Darwin.NumRows))
	}
	if c.Darwin.Timeout <= 0 {
		errs = append(errs, "darwin.timeout must be positive")
	}
	if c.Scrape.Concurrency < 1 {
		errs = append(errs, fmt.Sprintf("scrape.concurrency must be at least 1, got %d", c.Scrape.Concurrency))
	}
	if c.Scrape.Mode != "fail_fast" && c.Scrape.Mode != "best_effort" {
		errs = append(errs, fmt.Sprintf("scrape.mode must be fail_fast or best_effort, got %q", c.Scrape.Mode))
	}
	if c.Scrape.CacheTTL < 0 {
		errs = append(errs, "scrape.cache_ttl must not be negative")
	}

	switch c.ConfigSource {
	case SourceStatic:
		for i, s := range c.Stations {
			if s.Name == "" || s.CRS == "" {
				errs = append(errs, fmt.Sprintf("stations[%d] needs both name and crs", i))
			}
		}
		for i, o := range c.Origins {
			if o.OriginName == "" {
				errs = append(errs, fmt.Sprintf("origins[%d].origin_name is required", i))
			}
			if len(o.CallingPointNames) == 0 {
				errs = append(errs, fmt.Sprintf("origins[%d].calling_point_names must not be empty", i))
			}
		}
	case SourcePostgres:
		if c.Database.Host == "" {
			errs = append(errs, "database.host is required")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
		}
		if c.Database.User == "" {
			errs = append(errs, "database.user is required")
		}
		if c.Database.DBName == "" {
			errs = append(errs, "database.dbname is required")
		}
	default:
		errs = append(errs, fmt.Sprintf("config_source must be static or postgres, got %q", c.ConfigSource))
	}

	switch c.Publisher {
	case PublisherConsole:
	case PublisherNATS:
		if c.NATS.URL == "" {
			errs = append(errs, "nats.url is required")
		}
	default:
		errs = append(errs, fmt.Sprintf("publisher must be console or nats, got %q", c.Publisher))
	}

	if c.Scrape.CacheTTL > 0 && c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required when scrape.cache_ttl is set")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
