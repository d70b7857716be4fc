// Package config loads the explorer's configuration from YAML with
// environment-variable overrides. Defaults first, then the file, then the
// environment; validation runs last over the merged result.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/prabhakarm7/sn-graph-sub002/catalog"
	"github.com/prabhakarm7/sn-graph-sub002/errors"
	"github.com/prabhakarm7/sn-graph-sub002/executor"
)

// EnvPrefix namespaces every environment override.
const EnvPrefix = "GRAPH_EXPLORER"

// Transport selects how query executions reach the backend.
const (
	TransportHTTP = "http"
	TransportNATS = "nats"
)

// Config is the complete application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Snapshot  SnapshotConfig  `yaml:"snapshot"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Backend   BackendConfig   `yaml:"backend"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// ServerConfig configures the explorer's own HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// SnapshotConfig configures the graph dataset source. An empty data file
// serves an empty graph.
type SnapshotConfig struct {
	DataFile string `yaml:"data_file"`
}

// CatalogConfig configures smart-query catalog sourcing. An empty remote
// base URL means builtin-only operation.
type CatalogConfig struct {
	Remote   catalog.RemoteConfig `yaml:"remote"`
	TTL      time.Duration        `yaml:"ttl"`
	WatchURL string               `yaml:"watch_url"`
}

// BackendConfig selects and configures the query-service transport.
type BackendConfig struct {
	Transport string              `yaml:"transport"`
	HTTP      executor.HTTPConfig `yaml:"http"`
	NATS      NATSConfig          `yaml:"nats"`
}

// NATSConfig holds the broker connection plus the request subject.
type NATSConfig struct {
	URLs    []string            `yaml:"urls"`
	Request executor.NATSConfig `yaml:"request"`
}

// TelemetryConfig configures the usage-event sink.
type TelemetryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Subject string `yaml:"subject"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8084"
	}
	if c.Catalog.TTL <= 0 {
		c.Catalog.TTL = catalog.DefaultTTL
	}
	if c.Backend.Transport == "" {
		c.Backend.Transport = TransportHTTP
	}
	if len(c.Backend.NATS.URLs) == 0 {
		c.Backend.NATS.URLs = []string{"nats://localhost:4222"}
	}
	c.Backend.NATS.Request.SetDefaults()
	if c.Telemetry.Subject == "" {
		c.Telemetry.Subject = "explorer.telemetry.queries"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = ":9402"
	}
}

// Validate checks the merged configuration.
func (c *Config) Validate() error {
	switch c.Backend.Transport {
	case TransportHTTP:
		c.Backend.HTTP.SetDefaults()
		if err := c.Backend.HTTP.Validate(); err != nil {
			return err
		}
	case TransportNATS:
		if len(c.Backend.NATS.URLs) == 0 {
			return errors.WrapFatal(errors.ErrMissingConfig,
				"Config", "Validate", "backend.nats.urls required")
		}
	default:
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			fmt.Sprintf("unknown backend transport %q", c.Backend.Transport))
	}

	if c.Catalog.Remote.BaseURL != "" {
		c.Catalog.Remote.SetDefaults()
		if err := c.Catalog.Remote.Validate(); err != nil {
			return err
		}
	}

	if c.Telemetry.Enabled && c.Telemetry.Subject == "" {
		return errors.WrapFatal(errors.ErrMissingConfig,
			"Config", "Validate", "telemetry.subject required when enabled")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			fmt.Sprintf("unknown log level %q", c.Logging.Level))
	}

	return nil
}

// Load reads a YAML config file, applies environment overrides, and
// validates. An empty path loads defaults plus environment only.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.WrapFatal(err, "config", "Load", "config file read")
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.WrapInvalid(err, "config", "Load", "config file parse")
		}
	}

	cfg.SetDefaults()
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides layers environment variables over the file values.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv(EnvPrefix + "_ADDR"); val != "" {
		cfg.Server.Addr = val
	}
	if val := os.Getenv(EnvPrefix + "_DATA_FILE"); val != "" {
		cfg.Snapshot.DataFile = val
	}
	if val := os.Getenv(EnvPrefix + "_CATALOG_URL"); val != "" {
		cfg.Catalog.Remote.BaseURL = val
	}
	if val := os.Getenv(EnvPrefix + "_CATALOG_TTL"); val != "" {
		if ttl, err := time.ParseDuration(val); err == nil {
			cfg.Catalog.TTL = ttl
		}
	}
	if val := os.Getenv(EnvPrefix + "_CATALOG_WATCH_URL"); val != "" {
		cfg.Catalog.WatchURL = val
	}
	if val := os.Getenv(EnvPrefix + "_BACKEND_TRANSPORT"); val != "" {
		cfg.Backend.Transport = val
	}
	if val := os.Getenv(EnvPrefix + "_BACKEND_URL"); val != "" {
		cfg.Backend.HTTP.BaseURL = val
	}
	if val := os.Getenv(EnvPrefix + "_NATS_URLS"); val != "" {
		cfg.Backend.NATS.URLs = strings.Split(val, ",")
	}
	if val := os.Getenv(EnvPrefix + "_TELEMETRY_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Enabled = enabled
		}
	}
	if val := os.Getenv(EnvPrefix + "_LOG_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv(EnvPrefix + "_METRICS_ADDR"); val != "" {
		cfg.Metrics.Addr = val
	}
}
