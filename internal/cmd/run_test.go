package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/constrictor-dev/constrictor/internal/config"
	oerrors "github.com/constrictor-dev/constrictor/internal/errors"
)

func settings(host, port, debug string) config.RunSettings {
	return config.RunSettings{
		Host:  config.ResolvedValue{Key: "run.host", Value: host, Source: config.SourceFlag},
		Port:  config.ResolvedValue{Key: "run.port", Value: port, Source: config.SourceFlag},
		Debug: config.ResolvedValue{Key: "run.debug", Value: debug, Source: config.SourceFlag},
	}
}

func TestServerEnv(t *testing.T) {
	env, err := serverEnv(settings("0.0.0.0", "8080", "true"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"CONSTRICTOR_HOST=0.0.0.0",
		"CONSTRICTOR_PORT=8080",
		"CONSTRICTOR_DEBUG=true",
	}, env)
}

func TestServerEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		s    config.RunSettings
		want string
	}{
		{"port not a number", settings("127.0.0.1", "http", "false"), "not a number"},
		{"port out of range", settings("127.0.0.1", "70000", "false"), "invalid port"},
		{"debug not a bool", settings("127.0.0.1", "5000", "maybe"), "not a boolean"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := serverEnv(tt.s)
			require.Error(t, err)
			assert.ErrorIs(t, err, oerrors.ErrValidation)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRunCmd_OutsideProject(t *testing.T) {
	_, err := execute(t, "-C", t.TempDir(), "run")
	require.Error(t, err)
	assert.Equal(t, oerrors.ExitNotFound, oerrors.ExitCodeFromError(err))
	assert.Contains(t, err.Error(), "constrictor project")
}

func TestRunCmd_Flags(t *testing.T) {
	c := NewRunCmd(nil)
	for _, name := range []string{"host", "port", "debug", "reload"} {
		assert.NotNil(t, c.Flags().Lookup(name), name)
	}
}
