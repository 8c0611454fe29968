package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	assert.NotNil(t, loader)
	assert.NotNil(t, loader.v)
}

func TestLoaderLoad(t *testing.T) {
	t.Run("loads config from project dir", func(t *testing.T) {
		dir := t.TempDir()
		content := `
templates:
  default: api
  dir: ./my-templates
registrar:
  ignore: ["_*", "legacy"]
run:
  host: 0.0.0.0
  port: 8080
  debug: true
  reload:
    debounce: 500ms
log:
  timestamps: false
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectConfigFile), []byte(content), 0o644))

		cfg, err := NewLoader().Load(dir)

		require.NoError(t, err)
		assert.Equal(t, "api", cfg.Templates.Default)
		assert.Equal(t, "./my-templates", cfg.Templates.Dir)
		assert.Equal(t, []string{"_*", "legacy"}, cfg.Registrar.Ignore)
		assert.Equal(t, "0.0.0.0", cfg.Run.Host)
		assert.Equal(t, 8080, cfg.Run.Port)
		assert.True(t, cfg.Run.Debug)
		assert.Equal(t, 500*time.Millisecond, cfg.Run.Reload.Debounce)
		require.NotNil(t, cfg.Log.Timestamps)
		assert.False(t, *cfg.Log.Timestamps)
	})

	t.Run("returns empty config for missing file", func(t *testing.T) {
		cfg, err := NewLoader().Load(t.TempDir())

		require.NoError(t, err)
		assert.Empty(t, cfg.Templates.Default)
		assert.Zero(t, cfg.Run.Port)
	})

	t.Run("env vars override file values", func(t *testing.T) {
		t.Setenv("CONSTRICTOR_RUN_PORT", "9090")
		t.Setenv("CONSTRICTOR_TEMPLATES_DEFAULT", "minimal")

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectConfigFile),
			[]byte("run:\n  port: 8080\n"), 0o644))

		cfg, err := NewLoader().Load(dir)

		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Run.Port)
		assert.Equal(t, "minimal", cfg.Templates.Default)
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectConfigFile),
			[]byte("run: [unclosed"), 0o644))

		_, err := NewLoader().Load(dir)
		assert.Error(t, err)
	})
}

func TestLoaderLoadWithDefaults(t *testing.T) {
	cfg, err := NewLoader().LoadWithDefaults(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, DefaultTemplate, cfg.Templates.Default)
	assert.Equal(t, DefaultPort, cfg.Run.Port)
	assert.Equal(t, DefaultHost, cfg.Run.Host)
}

func TestLoaderLoad_DefaultConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	data, err := yaml.Marshal(DefaultConfig())
	require.NoError(t, err)
	assert.Contains(t, string(data), "debounce: 300ms")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectConfigFile), data, 0o644))

	cfg, err := NewLoader().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}
