package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the server settings.
type Config struct {
	DBDriver  string
	DBDSN     string
	DBLogSQL  bool
	Port      string
	GinMode   string
	LogLevel  string
	LogPretty bool
}

// Load reads settings.toml from the working directory (or its parent) when
// present and lets TIGERLILLY_* environment variables override any key,
// e.g. TIGERLILLY_DATABASE_DSN for database.dsn.
func Load() (*Config, error) {
	v := viper.New()
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	v.SetConfigName("settings")
	v.SetConfigType("toml")

	v.SetEnvPrefix("tigerlilly")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read settings: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "tigerlilly.db")
	v.SetDefault("database.log_sql", false)
	v.SetDefault("http.port", "8080")
	v.SetDefault("http.mode", "release")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", true)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DBDriver:  strings.ToLower(v.GetString("database.driver")),
		DBDSN:     v.GetString("database.dsn"),
		DBLogSQL:  v.GetBool("database.log_sql"),
		Port:      v.GetString("http.port"),
		GinMode:   v.GetString("http.mode"),
		LogLevel:  v.GetString("log.level"),
		LogPretty: v.GetBool("log.pretty"),
	}

	switch cfg.DBDriver {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("unsupported database.driver %q (want sqlite or postgres)", cfg.DBDriver)
	}
	if cfg.DBDSN == "" {
		return nil, errors.New("database.dsn must not be empty")
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		return nil, fmt.Errorf("unsupported http.mode %q (want debug, release or test)", cfg.GinMode)
	}

	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
