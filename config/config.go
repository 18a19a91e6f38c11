package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultServer is the itBit production REST endpoint.
	DefaultServer = "https://api.itbit.com/v1"

	// Default search window around an order's creation time when matching
	// wallet trades to a filled order.
	DefaultTimeRangeBeforeCreated = time.Minute
	DefaultTimeRangeAfterCreated  = 30 * time.Minute
)

type Config struct {
	Itbitflow ItbitflowConfig `yaml:"itbitflow"`
	Exchange  ExchangeConfig  `yaml:"exchange"`
	Watch     WatchConfig     `yaml:"watch"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ItbitflowConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

type ExchangeConfig struct {
	Server   string `yaml:"server"`
	Key      string `yaml:"key"`
	Secret   string `yaml:"secret"`
	WalletID string `yaml:"wallet_id"`

	// Window around order creation time searched for the wallet trades
	// that filled the order.
	TimeRangeBeforeCreated time.Duration `yaml:"time_range_before_created"`
	TimeRangeAfterCreated  time.Duration `yaml:"time_range_after_created"`

	Timeout        time.Duration        `yaml:"timeout"`
	ConnectionPool ConnectionPoolConfig `yaml:"connection_pool"`
	RateLimit      RateLimitConfig      `yaml:"rate_limit"`
}

type ConnectionPoolConfig struct {
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxConnsPerHost int           `yaml:"max_conns_per_host"`
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
}

type RateLimitConfig struct {
	RequestsPerSecond int `yaml:"requests_per_second"`
	BurstSize         int `yaml:"burst_size"`
}

// WatchConfig drives the ticker poll loop in main. Pairs are canonical
// currency pair codes such as "BTCUSD".
type WatchConfig struct {
	Pairs    []string      `yaml:"pairs"`
	Interval time.Duration `yaml:"interval"`
}

type MetricsConfig struct {
	CloudWatch CloudWatchConfig `yaml:"cloudwatch"`
}

type CloudWatchConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Region    string `yaml:"region"`
	Namespace string `yaml:"namespace"`
	Dashboard string `yaml:"dashboard_name"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
	MaxAge int    `yaml:"max_age"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Config{}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&config)

	// Credentials are usually injected through the environment rather than
	// committed in the config file.
	if v := os.Getenv("ITBIT_KEY"); v != "" {
		config.Exchange.Key = strings.TrimSpace(v)
	}
	if v := os.Getenv("ITBIT_SECRET"); v != "" {
		config.Exchange.Secret = strings.TrimSpace(v)
	}
	if v := os.Getenv("ITBIT_WALLET_ID"); v != "" {
		config.Exchange.WalletID = strings.TrimSpace(v)
	}
	if config.Metrics.CloudWatch.Enabled {
		if v := os.Getenv("AWS_REGION"); v != "" {
			config.Metrics.CloudWatch.Region = strings.TrimSpace(v)
		}
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Exchange.Server == "" {
		cfg.Exchange.Server = DefaultServer
	}
	if cfg.Exchange.TimeRangeBeforeCreated == 0 {
		cfg.Exchange.TimeRangeBeforeCreated = DefaultTimeRangeBeforeCreated
	}
	if cfg.Exchange.TimeRangeAfterCreated == 0 {
		cfg.Exchange.TimeRangeAfterCreated = DefaultTimeRangeAfterCreated
	}
	if cfg.Exchange.Timeout == 0 {
		cfg.Exchange.Timeout = 15 * time.Second
	}
	if cfg.Exchange.ConnectionPool.MaxIdleConns == 0 {
		cfg.Exchange.ConnectionPool.MaxIdleConns = 10
	}
	if cfg.Exchange.ConnectionPool.MaxConnsPerHost == 0 {
		cfg.Exchange.ConnectionPool.MaxConnsPerHost = 10
	}
	if cfg.Exchange.ConnectionPool.IdleConnTimeout == 0 {
		cfg.Exchange.ConnectionPool.IdleConnTimeout = 90 * time.Second
	}
	if cfg.Exchange.RateLimit.RequestsPerSecond == 0 {
		cfg.Exchange.RateLimit.RequestsPerSecond = 5
	}
	if cfg.Exchange.RateLimit.BurstSize == 0 {
		cfg.Exchange.RateLimit.BurstSize = 1
	}
	if cfg.Watch.Interval == 0 {
		cfg.Watch.Interval = 30 * time.Second
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Itbitflow.Name == "" {
		return fmt.Errorf("itbitflow.name is required")
	}

	if cfg.Itbitflow.Version == "" {
		return fmt.Errorf("itbitflow.version is required")
	}

	if _, err := url.ParseRequestURI(cfg.Exchange.Server); err != nil {
		return fmt.Errorf("exchange.server '%s' is not a valid URL: %w", cfg.Exchange.Server, err)
	}

	if cfg.Exchange.TimeRangeBeforeCreated < 0 {
		return fmt.Errorf("exchange.time_range_before_created must not be negative")
	}
	if cfg.Exchange.TimeRangeAfterCreated < 0 {
		return fmt.Errorf("exchange.time_range_after_created must not be negative")
	}

	if cfg.Exchange.Timeout <= 0 {
		return fmt.Errorf("exchange.timeout must be greater than 0")
	}

	if cfg.Exchange.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("exchange.rate_limit.requests_per_second must be greater than 0")
	}
	if cfg.Exchange.RateLimit.BurstSize <= 0 {
		return fmt.Errorf("exchange.rate_limit.burst_size must be greater than 0")
	}

	for _, pair := range cfg.Watch.Pairs {
		if len(pair) < 6 {
			return fmt.Errorf("watch.pairs entry '%s' is not a currency pair", pair)
		}
	}

	if cfg.Metrics.CloudWatch.Enabled && cfg.Metrics.CloudWatch.Region == "" {
		return fmt.Errorf("metrics.cloudwatch.region is required when CloudWatch is enabled")
	}

	return nil
}
