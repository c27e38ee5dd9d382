package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config struct to hold the configuration settings
type Config struct {
	NATS          NATSConfig          `yaml:"nats"`
	Guild         GuildConfig         `yaml:"guild"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	URL              string        `yaml:"url"`
	ClientName       string        `yaml:"client_name"`
	NKeySeed         string        `yaml:"nkey_seed"`
	QueueGroup       string        `yaml:"queue_group"`
	SubscribersCount int           `yaml:"subscribers_count"`
	ReconnectWait    time.Duration `yaml:"reconnect_wait"`
}

// GuildConfig holds guild hook settings.
type GuildConfig struct {
	// RealmID is the realm this game server belongs to.
	RealmID     uint32 `yaml:"realm_id"`
	FilterRealm bool   `yaml:"filter_realm"`
	// QueueSize bounds hook calls waiting for the game server to process them.
	QueueSize         int           `yaml:"queue_size"`
	ProcessInterval   time.Duration `yaml:"process_interval"`
	NoHookLogInterval time.Duration `yaml:"no_hook_log_interval"`
	EventVersion      string        `yaml:"event_version"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	MetricsAddress string `yaml:"metrics_address"`
	Environment    string `yaml:"environment"`
	LogLevel       string `yaml:"log_level"`

	// OTLPEndpoint is an OTLP/HTTP traces URL, e.g. http://tempo:4318/v1/traces.
	// Empty disables span export.
	OTLPEndpoint    string  `yaml:"otlp_endpoint"`
	TraceSampleRate float64 `yaml:"trace_sample_rate"`
}

// Default returns the configuration used for anything not set explicitly.
func Default() Config {
	return Config{
		NATS: NATSConfig{
			URL:              "nats://localhost:4222",
			ClientName:       "guild-sidecar",
			SubscribersCount: 1,
			ReconnectWait:    time.Second,
		},
		Guild: GuildConfig{
			QueueSize:         1000,
			ProcessInterval:   50 * time.Millisecond,
			NoHookLogInterval: time.Minute,
			EventVersion:      "1.0.0",
		},
		Observability: ObservabilityConfig{
			MetricsAddress:  ":9090",
			Environment:     "development",
			LogLevel:        "info",
			TraceSampleRate: 1,
		},
	}
}

// LoadConfig loads the configuration from a YAML file. Environment variables
// override file values; a missing file means environment-only configuration.
func LoadConfig(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", filename, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// --- OVERRIDE WITH ENV VARS IF PRESENT ---
func applyEnv(cfg *Config) error {
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("NATS_CLIENT_NAME"); v != "" {
		cfg.NATS.ClientName = v
	}
	if v := os.Getenv("NATS_NKEY_SEED"); v != "" {
		cfg.NATS.NKeySeed = v
	}
	if v := os.Getenv("NATS_QUEUE_GROUP"); v != "" {
		cfg.NATS.QueueGroup = v
	}
	if v := os.Getenv("NATS_SUBSCRIBERS_COUNT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid NATS_SUBSCRIBERS_COUNT value: %w", err)
		}
		cfg.NATS.SubscribersCount = n
	}
	if v := os.Getenv("REALM_ID"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid REALM_ID value: %w", err)
		}
		cfg.Guild.RealmID = uint32(id)
		cfg.Guild.FilterRealm = true
	}
	if v := os.Getenv("GUILD_FILTER_REALM"); v != "" {
		cfg.Guild.FilterRealm = v == "true"
	}
	if v := os.Getenv("GUILD_QUEUE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid GUILD_QUEUE_SIZE value: %w", err)
		}
		cfg.Guild.QueueSize = n
	}
	if v := os.Getenv("GUILD_PROCESS_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid GUILD_PROCESS_INTERVAL value: %w", err)
		}
		cfg.Guild.ProcessInterval = d
	}
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Observability.MetricsAddress = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("OTLP_ENDPOINT"); v != "" {
		cfg.Observability.OTLPEndpoint = v
	}
	if v := os.Getenv("TRACE_SAMPLE_RATE"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid TRACE_SAMPLE_RATE value: %w", err)
		}
		cfg.Observability.TraceSampleRate = rate
	}
	return nil
}

// Validate checks the settings the sidecar cannot run without.
func (c *Config) Validate() error {
	if c.NATS.URL == "" {
		return fmt.Errorf("%w: nats.url is required", ErrInvalidConfig)
	}
	if c.Guild.QueueSize <= 0 {
		return fmt.Errorf("%w: guild.queue_size must be positive", ErrInvalidConfig)
	}
	if c.Guild.ProcessInterval <= 0 {
		return fmt.Errorf("%w: guild.process_interval must be positive", ErrInvalidConfig)
	}
	if r := c.Observability.TraceSampleRate; r < 0 || r > 1 {
		return fmt.Errorf("%w: observability.trace_sample_rate must be within [0, 1]", ErrInvalidConfig)
	}
	if _, err := c.Observability.Level(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Level parses LogLevel.
func (o ObservabilityConfig) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(o.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level %q: %w", o.LogLevel, err)
	}
	return lvl, nil
}
