package config

import (
	"os"
	"strconv"

	"github.com/charmbracelet/log"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolvedValue is a configuration value together with where it came from
// and the lower-precedence values it shadowed.
type ResolvedValue struct {
	Key      string
	Value    string
	Source   ConfigSource
	Shadowed map[ConfigSource]string
}

// ResolveString resolves a value using precedence flag > env > config > default.
// flagSet distinguishes an explicitly passed empty flag from an unset one.
func ResolveString(key, flagValue string, flagSet bool, envVar, configValue, defaultValue string) ResolvedValue {
	rv := ResolvedValue{Key: key, Shadowed: make(map[ConfigSource]string)}
	envValue := os.Getenv(envVar)

	candidates := []struct {
		source ConfigSource
		value  string
		ok     bool
	}{
		{SourceFlag, flagValue, flagSet},
		{SourceEnv, envValue, envValue != ""},
		{SourceConfig, configValue, configValue != ""},
		{SourceDefault, defaultValue, true},
	}

	for _, c := range candidates {
		if !c.ok {
			continue
		}
		if rv.Source == "" {
			rv.Value = c.value
			rv.Source = c.source
			continue
		}
		if c.source != SourceDefault || c.value != rv.Value {
			rv.Shadowed[c.source] = c.value
		}
	}

	return rv
}

// RunSettings are the resolved dev-server settings for `constrictor run`.
type RunSettings struct {
	Host  ResolvedValue
	Port  ResolvedValue
	Debug ResolvedValue
}

// RunFlags carries the raw `run` flag values and whether each was set.
type RunFlags struct {
	Host     string
	HostSet  bool
	Port     int
	PortSet  bool
	Debug    bool
	DebugSet bool
}

// ResolveRun resolves host, port and debug for the dev server.
func ResolveRun(flags RunFlags, cfg *Config) RunSettings {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var cfgPort, cfgDebug string
	if cfg.Run.Port != 0 {
		cfgPort = strconv.Itoa(cfg.Run.Port)
	}
	if cfg.Run.Debug {
		cfgDebug = "true"
	}

	return RunSettings{
		Host: ResolveString("run.host", flags.Host, flags.HostSet,
			envPrefix+"_RUN_HOST", cfg.Run.Host, DefaultHost),
		Port: ResolveString("run.port", strconv.Itoa(flags.Port), flags.PortSet,
			envPrefix+"_RUN_PORT", cfgPort, strconv.Itoa(DefaultPort)),
		Debug: ResolveString("run.debug", strconv.FormatBool(flags.Debug), flags.DebugSet,
			envPrefix+"_RUN_DEBUG", cfgDebug, "false"),
	}
}

// LogResolvedValues logs each value's resolution at debug level.
func LogResolvedValues(logger *log.Logger, values ...ResolvedValue) {
	for _, v := range values {
		logger.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			logger.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", shadowed,
			)
		}
	}
}
