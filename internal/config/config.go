// Package config loads server configuration from a YAML file and
// environment variables. Environment variables use the REWEAR_ prefix
// with underscores, for example REWEAR_AUTH_JWT_SECRET.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full server configuration. Values are read once at
// startup and never mutated.
type Config struct {
	Server struct {
		Addr string
	}
	Database struct {
		Path string
	}
	Auth struct {
		JWTSecret string
	}
	Classifier struct {
		APIKey  string
		Model   string
		Timeout time.Duration
	}
	Notify struct {
		QueueSize int
	}
}

// Load reads configuration from the given file (optional), the working
// directory, and the environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("rewear")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if path != "" {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("REWEAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("database.path", "rewear.db")
	v.SetDefault("classifier.model", "gemini-2.0-flash")
	v.SetDefault("classifier.timeout", "10s")
	v.SetDefault("notify.queue_size", 256)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{}
	cfg.Server.Addr = v.GetString("server.addr")
	cfg.Database.Path = v.GetString("database.path")
	cfg.Auth.JWTSecret = v.GetString("auth.jwt_secret")
	cfg.Classifier.APIKey = v.GetString("classifier.api_key")
	cfg.Classifier.Model = v.GetString("classifier.model")
	cfg.Classifier.Timeout = v.GetDuration("classifier.timeout")
	cfg.Notify.QueueSize = v.GetInt("notify.queue_size")

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth.jwt_secret is required")
	}
	return cfg, nil
}
