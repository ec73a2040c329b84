package config

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Server struct {
	Port               string   `mapstructure:"port"`
	ReadTimeoutSec     int      `mapstructure:"read_timeout_sec"`
	WriteTimeoutSec    int      `mapstructure:"write_timeout_sec"`
	ShutdownTimeoutSec int      `mapstructure:"shutdown_timeout_sec"`
	RequestTimeoutSec  int      `mapstructure:"request_timeout_sec"`
	CORSOrigins        []string `mapstructure:"cors_origins"`
}

type CoinGecko struct {
	BaseURL              string `mapstructure:"base_url"`
	APIKey               string `mapstructure:"api_key"`
	TimeoutSec           int    `mapstructure:"timeout_sec"`
	RetryCount           int    `mapstructure:"retry_count"`
	MaxRequestsPerMinute int    `mapstructure:"max_requests_per_minute"`
	Burst                int    `mapstructure:"burst"`
}

type Yahoo struct {
	BaseURL              string `mapstructure:"base_url"`
	CookieURL            string `mapstructure:"cookie_url"`
	CrumbEnabled         bool   `mapstructure:"crumb_enabled"`
	TimeoutSec           int    `mapstructure:"timeout_sec"`
	RetryCount           int    `mapstructure:"retry_count"`
	MaxRequestsPerMinute int    `mapstructure:"max_requests_per_minute"`
	Burst                int    `mapstructure:"burst"`
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type Cache struct {
	Enabled  bool   `mapstructure:"enabled"`
	Backend  string `mapstructure:"backend"`
	TTLSec   int    `mapstructure:"ttl_sec"`
	MaxItems int    `mapstructure:"max_items"`
	Redis    Redis  `mapstructure:"redis"`
}

type Logging struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type Config struct {
	Server    Server    `mapstructure:"server"`
	CoinGecko CoinGecko `mapstructure:"coingecko"`
	Yahoo     Yahoo     `mapstructure:"yahoo"`
	Cache     Cache     `mapstructure:"cache"`
	Logging   Logging   `mapstructure:"logging"`
}

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

func Default() Config {
	return Config{
		Server: Server{
			Port:               "3000",
			ReadTimeoutSec:     15,
			WriteTimeoutSec:    30,
			ShutdownTimeoutSec: 10,
			RequestTimeoutSec:  25,
			CORSOrigins:        []string{"*"},
		},
		CoinGecko: CoinGecko{
			BaseURL:    "https://api.coingecko.com/api/v3",
			TimeoutSec: 10,
			RetryCount: 2,
			Burst:      1,
		},
		Yahoo: Yahoo{
			BaseURL:      "https://query1.finance.yahoo.com",
			CookieURL:    "https://fc.yahoo.com",
			CrumbEnabled: true,
			TimeoutSec:   10,
			RetryCount:   2,
			Burst:        1,
		},
		Cache: Cache{
			Enabled:  true,
			Backend:  BackendMemory,
			TTLSec:   10,
			MaxItems: 100,
			Redis:    Redis{Addr: "localhost:6379"},
		},
		Logging: Logging{Level: "info", Format: "json"},
	}
}

// Load builds the configuration from defaults, an optional config file and
// the environment, in increasing order of precedence. A .env file in the
// working directory is loaded into the environment first when present.
// An explicit path must exist; without one, config.yaml (or .json) in . or
// ./config is used if found.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v, Default())

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// PORT is what most platforms inject.
	if err := v.BindEnv("server.port", "SERVER_PORT", "PORT"); err != nil {
		return Config{}, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.Server.CORSOrigins = splitCSV(strings.Join(cfg.Server.CORSOrigins, ","))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.read_timeout_sec", d.Server.ReadTimeoutSec)
	v.SetDefault("server.write_timeout_sec", d.Server.WriteTimeoutSec)
	v.SetDefault("server.shutdown_timeout_sec", d.Server.ShutdownTimeoutSec)
	v.SetDefault("server.request_timeout_sec", d.Server.RequestTimeoutSec)
	v.SetDefault("server.cors_origins", d.Server.CORSOrigins)

	v.SetDefault("coingecko.base_url", d.CoinGecko.BaseURL)
	v.SetDefault("coingecko.api_key", d.CoinGecko.APIKey)
	v.SetDefault("coingecko.timeout_sec", d.CoinGecko.TimeoutSec)
	v.SetDefault("coingecko.retry_count", d.CoinGecko.RetryCount)
	v.SetDefault("coingecko.max_requests_per_minute", d.CoinGecko.MaxRequestsPerMinute)
	v.SetDefault("coingecko.burst", d.CoinGecko.Burst)

	v.SetDefault("yahoo.base_url", d.Yahoo.BaseURL)
	v.SetDefault("yahoo.cookie_url", d.Yahoo.CookieURL)
	v.SetDefault("yahoo.crumb_enabled", d.Yahoo.CrumbEnabled)
	v.SetDefault("yahoo.timeout_sec", d.Yahoo.TimeoutSec)
	v.SetDefault("yahoo.retry_count", d.Yahoo.RetryCount)
	v.SetDefault("yahoo.max_requests_per_minute", d.Yahoo.MaxRequestsPerMinute)
	v.SetDefault("yahoo.burst", d.Yahoo.Burst)

	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.backend", d.Cache.Backend)
	v.SetDefault("cache.ttl_sec", d.Cache.TTLSec)
	v.SetDefault("cache.max_items", d.Cache.MaxItems)
	v.SetDefault("cache.redis.addr", d.Cache.Redis.Addr)
	v.SetDefault("cache.redis.password", d.Cache.Redis.Password)
	v.SetDefault("cache.redis.db", d.Cache.Redis.DB)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
}

// Validate rejects values the server cannot start with.
func (c Config) Validate() error {
	var problems []string
	if p, err := strconv.Atoi(c.Server.Port); err != nil || p < 1 || p > 65535 {
		problems = append(problems, fmt.Sprintf("server.port %q is not a valid port", c.Server.Port))
	}
	for name, v := range map[string]int{
		"server.read_timeout_sec":           c.Server.ReadTimeoutSec,
		"server.write_timeout_sec":          c.Server.WriteTimeoutSec,
		"server.shutdown_timeout_sec":       c.Server.ShutdownTimeoutSec,
		"server.request_timeout_sec":        c.Server.RequestTimeoutSec,
		"coingecko.timeout_sec":             c.CoinGecko.TimeoutSec,
		"coingecko.retry_count":             c.CoinGecko.RetryCount,
		"coingecko.max_requests_per_minute": c.CoinGecko.MaxRequestsPerMinute,
		"coingecko.burst":                   c.CoinGecko.Burst,
		"yahoo.timeout_sec":                 c.Yahoo.TimeoutSec,
		"yahoo.retry_count":                 c.Yahoo.RetryCount,
		"yahoo.max_requests_per_minute":     c.Yahoo.MaxRequestsPerMinute,
		"yahoo.burst":                       c.Yahoo.Burst,
		"cache.ttl_sec":                     c.Cache.TTLSec,
		"cache.max_items":                   c.Cache.MaxItems,
	} {
		if v < 0 {
			problems = append(problems, fmt.Sprintf("%s must not be negative", name))
		}
	}
	// The handler must answer before the server abandons the write.
	if c.Server.WriteTimeoutSec > 0 && (c.Server.RequestTimeoutSec == 0 || c.Server.RequestTimeoutSec >= c.Server.WriteTimeoutSec) {
		problems = append(problems, "server.request_timeout_sec must be positive and below server.write_timeout_sec")
	}
	switch c.Cache.Backend {
	case BackendMemory, BackendRedis:
	default:
		problems = append(problems, fmt.Sprintf("cache.backend %q must be %q or %q", c.Cache.Backend, BackendMemory, BackendRedis))
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		problems = append(problems, fmt.Sprintf("logging.format %q must be json or console", c.Logging.Format))
	}
	if len(problems) == 0 {
		return nil
	}
	// map iteration order is random
	slices.Sort(problems)
	return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
}

func (s Server) Addr() string { return ":" + s.Port }

func (s Server) ReadTimeout() time.Duration     { return seconds(s.ReadTimeoutSec) }
func (s Server) WriteTimeout() time.Duration    { return seconds(s.WriteTimeoutSec) }
func (s Server) ShutdownTimeout() time.Duration { return seconds(s.ShutdownTimeoutSec) }
func (s Server) RequestTimeout() time.Duration  { return seconds(s.RequestTimeoutSec) }
func (c CoinGecko) Timeout() time.Duration      { return seconds(c.TimeoutSec) }
func (y Yahoo) Timeout() time.Duration          { return seconds(y.TimeoutSec) }
func (c Cache) TTL() time.Duration              { return seconds(c.TTLSec) }

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
