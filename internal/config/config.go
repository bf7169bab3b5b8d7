// Package config resolves coursefit settings from defaults, an optional
// YAML file, COURSEFIT_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Storage backends for the assessment results slot.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

type Config struct {
	// DB is the SQLite database path. Empty means the default data path.
	DB string `mapstructure:"db"`

	// Catalog is a custom catalog file. Empty means the embedded catalog.
	Catalog string `mapstructure:"catalog"`

	Log     LogConfig     `mapstructure:"log"`
	Storage StorageConfig `mapstructure:"storage"`
	Blog    BlogConfig    `mapstructure:"blog"`
	Server  ServerConfig  `mapstructure:"server"`
}

type LogConfig struct {
	Mode  string `mapstructure:"mode"`
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type StorageConfig struct {
	Backend     string      `mapstructure:"backend"`
	HistoryKeep int         `mapstructure:"history_keep"`
	Redis       RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type BlogConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	CacheSize  int           `mapstructure:"cache_size"`
	CacheTTL   time.Duration `mapstructure:"cache_ttl"`
	MaxRetries int           `mapstructure:"max_retries"`
}

type ServerConfig struct {
	Addr         string   `mapstructure:"addr"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// Options controls where Load looks.
type Options struct {
	// File is an explicit config file. When empty, coursefit.yaml is
	// searched in the user config directory and the working directory.
	File string

	// Flags are bound by name: "db", "catalog", "addr".
	Flags *pflag.FlagSet
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db", "")
	v.SetDefault("catalog", "")

	v.SetDefault("log.mode", "development")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")

	v.SetDefault("storage.backend", BackendSQLite)
	v.SetDefault("storage.history_keep", 50)
	v.SetDefault("storage.redis.addr", "localhost:6379")
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.prefix", "coursefit:")

	v.SetDefault("blog.base_url", "")
	v.SetDefault("blog.timeout", 10*time.Second)
	v.SetDefault("blog.cache_size", 128)
	v.SetDefault("blog.cache_ttl", 5*time.Minute)
	v.SetDefault("blog.max_retries", 3)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allow_origins", []string{"*"})
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"db":      "db",
	"catalog": "catalog",
	"addr":    "server.addr",
}

// Load resolves the configuration.
func Load(opts Options) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("COURSEFIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName("coursefit")
		v.SetConfigType("yaml")
		if dir, err := Dir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendRedis:
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.Backend == BackendRedis && c.Storage.Redis.Addr == "" {
		return errors.New("config: storage.redis.addr is required for the redis backend")
	}
	if c.Blog.MaxRetries < 0 {
		return errors.New("config: blog.max_retries must not be negative")
	}
	return nil
}

// Dir returns $XDG_CONFIG_HOME/coursefit, or ~/.config/coursefit.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "coursefit"), nil
}
