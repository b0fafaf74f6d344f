package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the catering platform
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	RabbitMQ RabbitMQConfig `mapstructure:"rabbitmq"`
	Ordering OrderingConfig `mapstructure:"ordering"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	Timezone       string   `mapstructure:"timezone"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"sslmode"`
}

// StorageConfig selects the record store backend
type StorageConfig struct {
	Backend     string `mapstructure:"backend"`
	GormDialect string `mapstructure:"gorm_dialect"`
	SQLitePath  string `mapstructure:"sqlite_path"`
	BadgerPath  string `mapstructure:"badger_path"`
}

// RabbitMQConfig holds RabbitMQ connection configuration
type RabbitMQConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// OrderingConfig toggles the optional ordering rules. All default to the
// permissive behaviour.
type OrderingConfig struct {
	EnforceCapacity   bool `mapstructure:"enforce_capacity"`
	StrictTransitions bool `mapstructure:"strict_transitions"`
	UniqueMenuPerDate bool `mapstructure:"unique_menu_per_date"`
	VerifyTotal       bool `mapstructure:"verify_total"`
	DefaultMaxOrders  int  `mapstructure:"default_max_orders"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

const (
	BackendPostgres = "postgres"
	BackendGorm     = "gorm"
	BackendBadger   = "badger"
	BackendMemory   = "memory"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.timezone", "Local")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "catering")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("storage.backend", BackendPostgres)
	v.SetDefault("storage.gorm_dialect", "sqlite")
	v.SetDefault("storage.sqlite_path", "catering.db")
	v.SetDefault("storage.badger_path", "data/badger")

	v.SetDefault("rabbitmq.enabled", false)
	v.SetDefault("rabbitmq.host", "localhost")
	v.SetDefault("rabbitmq.port", 5672)
	v.SetDefault("rabbitmq.user", "guest")
	v.SetDefault("rabbitmq.password", "guest")

	v.SetDefault("ordering.enforce_capacity", false)
	v.SetDefault("ordering.strict_transitions", false)
	v.SetDefault("ordering.unique_menu_per_date", false)
	v.SetDefault("ordering.verify_total", false)
	v.SetDefault("ordering.default_max_orders", 50)

	v.SetDefault("log.level", "info")
}

// Load reads configuration from a YAML file, a .env file and CATERING_*
// environment variables, in increasing order of precedence. A missing file
// is not an error; defaults apply.
func Load(filename string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("CATERING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if filename != "" {
		if _, err := os.Stat(filename); err == nil {
			v.SetConfigFile(filename)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that would otherwise fail late at startup
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendPostgres, BackendGorm, BackendBadger, BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend: %s", c.Storage.Backend)
	}
	if c.Storage.Backend == BackendGorm {
		switch c.Storage.GormDialect {
		case "postgres", "sqlite":
		default:
			return fmt.Errorf("unknown gorm dialect: %s", c.Storage.GormDialect)
		}
	}
	if c.Ordering.DefaultMaxOrders <= 0 {
		return fmt.Errorf("ordering.default_max_orders must be positive")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid server.timezone: %w", err)
	}
	return nil
}

// Location returns the time zone used for calendar-day matching
func (c *Config) Location() (*time.Location, error) {
	if c.Server.Timezone == "" || c.Server.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Server.Timezone)
}

// DatabaseURL returns a PostgreSQL connection URL
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Database, c.Database.SSLMode)
}

// RabbitMQURL returns an AMQP connection URL
func (c *Config) RabbitMQURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/",
		c.RabbitMQ.User, c.RabbitMQ.Password, c.RabbitMQ.Host, c.RabbitMQ.Port)
}
