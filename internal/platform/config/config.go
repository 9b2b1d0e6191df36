// Package config loads runtime configuration from environment variables and an optional
// config.yaml. Environment variables take precedence over the file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	minSearchDebounce = 300 * time.Millisecond
	maxSearchDebounce = 500 * time.Millisecond
)

// Config holds all configuration for the stockwatch binaries.
type Config struct {
	AlphaVantageAPIKey         string        `mapstructure:"alphavantage_api_key"`
	AlphaVantageBaseURL        string        `mapstructure:"alphavantage_base_url"`
	AlphaVantageRequestsPerMin int           `mapstructure:"alphavantage_requests_per_minute"`
	HTTPTimeout                time.Duration `mapstructure:"http_timeout"`

	DBDriver string `mapstructure:"db_driver"`
	DBDSN    string `mapstructure:"db_dsn"`

	RedisHost      string        `mapstructure:"redis_host"`
	RedisPort      string        `mapstructure:"redis_port"`
	RedisPassword  string        `mapstructure:"redis_password"`
	RemoteCacheTTL time.Duration `mapstructure:"remote_cache_ttl"`

	SearchDebounce              time.Duration `mapstructure:"search_debounce"`
	IntradayTradingDayStaleness bool          `mapstructure:"intraday_trading_day_staleness"`
	RefreshTimeout              time.Duration `mapstructure:"refresh_timeout"`

	JWTSecret  string `mapstructure:"jwt_secret"`
	ServerAddr string `mapstructure:"server_addr"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// RedisEnabled reports whether a Redis host is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

var envKeys = []string{
	"alphavantage_api_key",
	"alphavantage_base_url",
	"alphavantage_requests_per_minute",
	"http_timeout",
	"db_driver",
	"db_dsn",
	"redis_host",
	"redis_port",
	"redis_password",
	"remote_cache_ttl",
	"search_debounce",
	"intraday_trading_day_staleness",
	"refresh_timeout",
	"jwt_secret",
	"server_addr",
	"log_level",
	"log_format",
}

// Load reads configuration from environment variables and optional config file.
//
// Expected environment variables:
//   - ALPHAVANTAGE_API_KEY (required)
//   - ALPHAVANTAGE_BASE_URL, ALPHAVANTAGE_REQUESTS_PER_MINUTE, HTTP_TIMEOUT
//   - DB_DRIVER (sqlite|postgres), DB_DSN
//   - REDIS_HOST, REDIS_PORT, REDIS_PASSWORD, REMOTE_CACHE_TTL (Redis is optional)
//   - SEARCH_DEBOUNCE, INTRADAY_TRADING_DAY_STALENESS, REFRESH_TIMEOUT
//   - JWT_SECRET, SERVER_ADDR, LOG_LEVEL, LOG_FORMAT
func Load() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()

	v.SetDefault("alphavantage_base_url", "https://www.alphavantage.co/query")
	// free tier: 5 requests per minute
	v.SetDefault("alphavantage_requests_per_minute", 5)
	v.SetDefault("http_timeout", 10*time.Second)
	v.SetDefault("db_driver", "sqlite")
	v.SetDefault("db_dsn", "stockwatch.db")
	v.SetDefault("redis_port", "6379")
	v.SetDefault("remote_cache_ttl", time.Minute)
	v.SetDefault("search_debounce", maxSearchDebounce)
	v.SetDefault("intraday_trading_day_staleness", false)
	v.SetDefault("refresh_timeout", 30*time.Second)
	v.SetDefault("server_addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.stockwatch")

	// config file is optional
	_ = v.ReadInConfig()

	for _, k := range envKeys {
		_ = v.BindEnv(k, strings.ToUpper(k))
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.AlphaVantageAPIKey == "" {
		return nil, fmt.Errorf("missing required configuration: ALPHAVANTAGE_API_KEY")
	}
	switch cfg.DBDriver {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (want sqlite or postgres)", cfg.DBDriver)
	}

	cfg.SearchDebounce = ClampDebounce(cfg.SearchDebounce)
	return cfg, nil
}

// ClampDebounce keeps a search debounce delay within 300ms..500ms.
func ClampDebounce(d time.Duration) time.Duration {
	return min(max(d, minSearchDebounce), maxSearchDebounce)
}
