package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported database drivers.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type Config struct {
	Port    string     `mapstructure:"port"`
	GinMode string     `mapstructure:"gin_mode"`
	Log     LogConfig  `mapstructure:"log"`
	DB      DBConfig   `mapstructure:"db"`
	Seed    SeedConfig `mapstructure:"seed"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console | json
}

type DBConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	Path     string `mapstructure:"path"` // sqlite file
}

type SeedConfig struct {
	Count int `mapstructure:"count"`
}

// envBindings maps config keys to the environment variables overriding them.
var envBindings = map[string]string{
	"port":        "PORT",
	"gin_mode":    "GIN_MODE",
	"log.level":   "LOG_LEVEL",
	"log.format":  "LOG_FORMAT",
	"db.driver":   "DB_DRIVER",
	"db.host":     "DB_HOST",
	"db.port":     "DB_PORT",
	"db.user":     "DB_USER",
	"db.password": "DB_PASSWORD",
	"db.name":     "DB_NAME",
	"db.path":     "DB_PATH",
	"seed.count":  "SEED_COUNT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("gin_mode", "release")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("db.driver", DriverMySQL)
	v.SetDefault("db.host", "127.0.0.1")
	v.SetDefault("db.port", 3306)
	v.SetDefault("db.user", "root")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "user_manager")
	v.SetDefault("db.path", "app.db")
	v.SetDefault("seed.count", 0)
}

// Load reads .env (if present), then <configDir>/config.yml (if present), then
// applies environment overrides. Missing files are not an error.
func Load(configDir string) (*Config, error) {
	// .env is optional; real environment variables always win.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(configDir) // configs/config.yml
	v.SetConfigName("config")
	v.SetConfigType("yml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.DB.Driver = strings.ToLower(strings.TrimSpace(c.DB.Driver))
	switch c.DB.Driver {
	case DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("unsupported db.driver %q (want %s or %s)", c.DB.Driver, DriverMySQL, DriverSQLite)
	}
	if c.Seed.Count < 0 {
		return fmt.Errorf("seed.count must be >= 0, got %d", c.Seed.Count)
	}
	return nil
}
