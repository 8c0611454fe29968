package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Environment variable prefix for constrictor configuration.
const envPrefix = "CONSTRICTOR"

// Loader handles loading and merging configuration from the project file
// and the environment.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only applies to keys viper already knows about, so bind the
	// ones that may be absent from the file.
	_ = v.BindEnv("templates.default")
	_ = v.BindEnv("templates.dir")
	_ = v.BindEnv("run.host")
	_ = v.BindEnv("run.port")
	_ = v.BindEnv("run.debug")
	_ = v.BindEnv("log.timestamps")

	return &Loader{v: v}
}

// Load reads <projectDir>/constrictor.yaml if present. A missing file is not
// an error; environment variables take precedence over file values.
func (l *Loader) Load(projectDir string) (*Config, error) {
	return l.LoadFile(filepath.Join(projectDir, ProjectConfigFile))
}

// LoadFile reads configuration from an explicit file path.
func (l *Loader) LoadFile(configFile string) (*Config, error) {
	expanded, err := ExpandPath(configFile)
	if err != nil {
		return nil, fmt.Errorf("expanding config path: %w", err)
	}

	l.v.SetConfigFile(expanded)
	l.v.SetConfigType("yaml")

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// LoadWithDefaults loads configuration and applies defaults.
func (l *Loader) LoadWithDefaults(projectDir string) (*Config, error) {
	cfg, err := l.Load(projectDir)
	if err != nil {
		return nil, err
	}
	return cfg.WithDefaults(), nil
}
