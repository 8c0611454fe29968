// Package config provides configuration loading and management.
package config

import "time"

// TemplatesConfig contains generator settings.
type TemplatesConfig struct {
	// Default is the template used when --template is omitted.
	// Env: CONSTRICTOR_TEMPLATES_DEFAULT, Default: "default"
	Default string `mapstructure:"default" yaml:"default,omitempty"`

	// Dir is an extra directory searched for custom template documents
	// (<dir>/<name>.yml) before the built-in registry.
	Dir string `mapstructure:"dir" yaml:"dir,omitempty"`
}

// RegistrarConfig contains module discovery settings.
type RegistrarConfig struct {
	// Ignore lists glob patterns; matching module directory names are not
	// treated as candidates.
	Ignore []string `mapstructure:"ignore" yaml:"ignore,omitempty"`
}

// ReloadConfig contains `run --reload` watcher settings.
type ReloadConfig struct {
	// Ignore lists glob patterns (relative to the project root) whose
	// changes never trigger a restart.
	Ignore []string `mapstructure:"ignore" yaml:"ignore,omitempty"`

	// Debounce is how long the watcher waits for a burst of changes to settle.
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce,omitempty"`
}

// MarshalYAML writes Debounce as a duration string such as "300ms".
func (r ReloadConfig) MarshalYAML() (interface{}, error) {
	type plain struct {
		Ignore   []string `yaml:"ignore,omitempty"`
		Debounce string   `yaml:"debounce,omitempty"`
	}
	p := plain{Ignore: r.Ignore}
	if r.Debounce > 0 {
		p.Debounce = r.Debounce.String()
	}
	return p, nil
}

// RunConfig contains development server settings.
type RunConfig struct {
	Host   string       `mapstructure:"host" yaml:"host,omitempty"`
	Port   int          `mapstructure:"port" yaml:"port,omitempty"`
	Debug  bool         `mapstructure:"debug" yaml:"debug,omitempty"`
	Reload ReloadConfig `mapstructure:"reload" yaml:"reload,omitempty"`
}

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `mapstructure:"timestamps" yaml:"timestamps,omitempty"`
}

// Config represents the constrictor project configuration, read from
// constrictor.yaml in the project root.
type Config struct {
	Templates TemplatesConfig `mapstructure:"templates" yaml:"templates,omitempty"`
	Registrar RegistrarConfig `mapstructure:"registrar" yaml:"registrar,omitempty"`
	Run       RunConfig       `mapstructure:"run" yaml:"run,omitempty"`
	Log       LogConfig       `mapstructure:"log" yaml:"log,omitempty"`
}

// Defaults.
const (
	DefaultTemplate = "default"
	DefaultHost     = "127.0.0.1"
	DefaultPort     = 5000
	DefaultDebounce = 300 * time.Millisecond
)

// DefaultReloadIgnore are paths whose changes never restart the dev server.
var DefaultReloadIgnore = []string{
	".git/**",
	"**/*_test.go",
	"**/.*",
	"tmp/**",
}

// DefaultConfig returns a Config with all default values populated.
// Used by `constrictor new` to write the initial constrictor.yaml.
func DefaultConfig() *Config {
	return &Config{
		Templates: TemplatesConfig{
			Default: DefaultTemplate,
		},
		Run: RunConfig{
			Host: DefaultHost,
			Port: DefaultPort,
			Reload: ReloadConfig{
				Ignore:   append([]string(nil), DefaultReloadIgnore...),
				Debounce: DefaultDebounce,
			},
		},
	}
}

// WithDefaults returns a copy of c with empty fields filled from DefaultConfig.
func (c *Config) WithDefaults() *Config {
	out := *c
	def := DefaultConfig()

	if out.Templates.Default == "" {
		out.Templates.Default = def.Templates.Default
	}
	if out.Run.Host == "" {
		out.Run.Host = def.Run.Host
	}
	if out.Run.Port == 0 {
		out.Run.Port = def.Run.Port
	}
	if out.Run.Reload.Debounce == 0 {
		out.Run.Reload.Debounce = def.Run.Reload.Debounce
	}
	if len(out.Run.Reload.Ignore) == 0 {
		out.Run.Reload.Ignore = def.Run.Reload.Ignore
	}
	return &out
}
