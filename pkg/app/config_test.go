package app

import (
	"net"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	_, port, err := net.SplitHostPort(l.Addr().String())
	require.NoError(t, err)
	p, err := strconv.Atoi(port)
	require.NoError(t, err)
	return p
}

func TestConfigFromEnv(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    Config
		wantErr string
	}{
		{
			name: "defaults",
			want: Config{Host: DefaultHost, Port: DefaultPort},
		},
		{
			name: "all set",
			env:  map[string]string{EnvHost: "0.0.0.0", EnvPort: "8080", EnvDebug: "true"},
			want: Config{Host: "0.0.0.0", Port: 8080, Debug: true},
		},
		{
			name:    "port out of range",
			env:     map[string]string{EnvPort: "0"},
			wantErr: "invalid port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{EnvHost, EnvPort, EnvDebug} {
				t.Setenv(k, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := ConfigFromEnv()
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg)
		})
	}
}

func TestConfig_Addr(t *testing.T) {
	assert.Equal(t, "127.0.0.1:5000", DefaultConfig().Addr())
	assert.Equal(t, "[::1]:8080", Config{Host: "::1", Port: 8080}.Addr())
}
