// Package config holds calcwidget settings read from calcwidget.yaml and
// CALCWIDGET_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Name is the config file base name and the env prefix source.
const Name = "calcwidget"

const (
	defaultAddr         = "127.0.0.1:8080"
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 10 * time.Second
)

// ServerConfig holds settings for the HTTP solve endpoint.
type ServerConfig struct {
	// Addr is the listen address (default 127.0.0.1:8080).
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// ReadTimeout bounds reading a request, body included (default 10s).
	ReadTimeout time.Duration `json:"read_timeout" yaml:"read_timeout" mapstructure:"read_timeout"`

	// WriteTimeout bounds writing a response (default 10s).
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout" mapstructure:"write_timeout"`
}

// Config is the top-level settings document.
type Config struct {
	// LogLevel is a logrus level name: panic, fatal, error, warn, info, debug or trace.
	LogLevel string `json:"log_level" yaml:"log_level" mapstructure:"log_level"`

	// Simplify controls whether results pass through the symbolic simplifier.
	Simplify bool `json:"simplify" yaml:"simplify" mapstructure:"simplify"`

	Server ServerConfig `json:"server" yaml:"server" mapstructure:"server"`
}

// Defaults registers default values on v.
func Defaults(v *viper.Viper) {
	v.SetDefault("log_level", log.InfoLevel.String())
	v.SetDefault("simplify", true)
	v.SetDefault("server.addr", defaultAddr)
	v.SetDefault("server.read_timeout", defaultReadTimeout)
	v.SetDefault("server.write_timeout", defaultWriteTimeout)
}

// Setup points v at cfgFile, or at calcwidget.yaml in the working directory
// or ~/.config/calcwidget when cfgFile is empty, and binds the environment.
func Setup(v *viper.Viper, cfgFile string) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(Name)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", Name))
		}
	}

	v.SetEnvPrefix(strings.ToUpper(Name))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load applies defaults, reads the config file if one is found, and decodes
// the result. A missing file is not an error; an explicit cfgFile that
// cannot be read is.
func Load(v *viper.Viper) (Config, error) {
	Defaults(v)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		log.WithField("file", v.ConfigFileUsed()).Debug("using config file")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings that cannot be applied.
func (c Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		return fmt.Errorf("server timeouts must not be negative")
	}
	return nil
}

// Level returns the parsed log level. Call after Validate.
func (c Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
