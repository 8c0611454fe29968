package app

import (
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/viper"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvPrefix = "CONSTRICTOR"
	EnvHost   = EnvPrefix + "_HOST"
	EnvPort   = EnvPrefix + "_PORT"
	EnvDebug  = EnvPrefix + "_DEBUG"
)

// Server defaults.
const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 5000
)

// Config holds server settings for an App.
type Config struct {
	Host  string `mapstructure:"host"`
	Port  int    `mapstructure:"port"`
	Debug bool   `mapstructure:"debug"`
}

// DefaultConfig returns the development-server defaults.
func DefaultConfig() Config {
	return Config{Host: DefaultHost, Port: DefaultPort}
}

// ConfigFromEnv reads CONSTRICTOR_HOST, CONSTRICTOR_PORT and
// CONSTRICTOR_DEBUG, falling back to the defaults. `constrictor run` sets
// these for the child process.
func ConfigFromEnv() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetDefault("host", DefaultHost)
	v.SetDefault("port", DefaultPort)
	v.SetDefault("debug", false)
	for _, key := range []string{"host", "port", "debug"} {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("reading server config from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the port range and fills an empty host.
func (c *Config) Validate() error {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", c.Port)
	}
	return nil
}

// Addr returns host:port.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
