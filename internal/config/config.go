package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/jwalitptl/practice-api/pkg/cache"
	"github.com/jwalitptl/practice-api/pkg/logger"
)

// EnvPrefix prefixes every environment override, e.g. PRACTICE_DATABASE_HOST.
const EnvPrefix = "PRACTICE"

type Config struct {
	Environment string         `mapstructure:"environment"`
	Log         LogConfig      `mapstructure:"log"`
	Database    DatabaseConfig `mapstructure:"database"`
	Cache       CacheConfig    `mapstructure:"cache"`
	Mail        MailConfig     `mapstructure:"mail"`
	Reset       ResetConfig    `mapstructure:"reset"`
	Security    SecurityConfig `mapstructure:"security"`
	Worker      WorkerConfig   `mapstructure:"worker"`
	Metrics     MetricsConfig  `mapstructure:"metrics"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

func (c LogConfig) ToLoggerConfig() *logger.Config {
	return &logger.Config{
		Level:      logger.ParseLevel(c.Level),
		TimeFormat: time.RFC3339,
		JSON:       c.JSON,
	}
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	URL             string        `mapstructure:"url"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode" envconfig:"SSLMODE"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" split_words:"true"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" split_words:"true"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" split_words:"true"`
}

// DSN returns URL when set, otherwise a key/value string both drivers accept.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.Name,
		c.SSLMode,
	)
}

type CacheConfig struct {
	Driver   string        `mapstructure:"driver"`
	RedisURL string        `mapstructure:"redis_url" split_words:"true"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

func (c CacheConfig) ToRedisConfig() cache.RedisConfig {
	return cache.RedisConfig{
		URL:    c.RedisURL,
		Prefix: c.Prefix,
	}
}

type MailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	ResetURL string `mapstructure:"reset_url" split_words:"true"`
}

// Enabled reports whether an SMTP relay is configured.
func (c MailConfig) Enabled() bool {
	return c.Host != ""
}

// ResetConfig bounds password reset redemption. The limit is shared by every
// caller in the process, not applied per user or per address.
type ResetConfig struct {
	TokenTTL          time.Duration `mapstructure:"token_ttl" split_words:"true"`
	AttemptsPerMinute int           `mapstructure:"attempts_per_minute" split_words:"true"`
	Burst             int           `mapstructure:"burst"`
}

type SecurityConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost" split_words:"true"`
	// TokenKey is the hex encoded 32 byte key sealing Google tokens at rest.
	TokenKey string `mapstructure:"token_key" split_words:"true"`
}

type WorkerConfig struct {
	Interval        time.Duration `mapstructure:"interval"`
	Retention       time.Duration `mapstructure:"retention"`
	StaleAfter      time.Duration `mapstructure:"stale_after" split_words:"true"`
	RefreshWindow   time.Duration `mapstructure:"refresh_window" split_words:"true"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" split_words:"true"`
}

type MetricsConfig struct {
	Addr      string `mapstructure:"addr"`
	Namespace string `mapstructure:"namespace"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "practice")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)

	v.SetDefault("cache.driver", "memory")
	v.SetDefault("cache.prefix", "practice:")
	v.SetDefault("cache.ttl", 5*time.Minute)

	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.from", "no-reply@localhost")
	v.SetDefault("mail.reset_url", "http://localhost:3000/reset-password")

	v.SetDefault("reset.token_ttl", time.Hour)
	v.SetDefault("reset.attempts_per_minute", 10)
	v.SetDefault("reset.burst", 5)

	v.SetDefault("security.bcrypt_cost", 12)

	v.SetDefault("worker.interval", 15*time.Minute)
	v.SetDefault("worker.retention", 24*time.Hour)
	v.SetDefault("worker.stale_after", 6*time.Hour)
	v.SetDefault("worker.refresh_window", 10*time.Minute)
	v.SetDefault("worker.shutdown_timeout", 10*time.Second)

	v.SetDefault("metrics.addr", ":9090")
	v.SetDefault("metrics.namespace", "practice")
}

// LoadConfig reads .env, then config.yaml from the given paths (default "." and
// "./config"), then applies PRACTICE_* environment overrides. A missing config
// file is not an error.
func LoadConfig(paths ...string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "./config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, &config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "pgx":
	default:
		return fmt.Errorf("invalid database.driver %q: want postgres or pgx", c.Database.Driver)
	}

	switch c.Cache.Driver {
	case "memory":
	case "redis":
		if _, err := url.Parse(c.Cache.RedisURL); err != nil || c.Cache.RedisURL == "" {
			return fmt.Errorf("cache.redis_url is required for the redis cache")
		}
	default:
		return fmt.Errorf("invalid cache.driver %q: want memory or redis", c.Cache.Driver)
	}

	if c.Security.TokenKey != "" && len(c.Security.TokenKey) != 64 {
		return fmt.Errorf("security.token_key must be 64 hex characters")
	}
	if c.Reset.TokenTTL <= 0 {
		return fmt.Errorf("reset.token_ttl must be positive")
	}
	if c.Reset.AttemptsPerMinute <= 0 {
		return fmt.Errorf("reset.attempts_per_minute must be positive")
	}
	if c.Reset.Burst <= 0 {
		return fmt.Errorf("reset.burst must be positive")
	}
	if c.Worker.Interval <= 0 {
		return fmt.Errorf("worker.interval must be positive")
	}

	return nil
}
