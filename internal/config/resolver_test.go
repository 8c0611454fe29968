package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveString(t *testing.T) {
	t.Run("flag wins and shadows the rest", func(t *testing.T) {
		t.Setenv("CONSTRICTOR_TEST_KEY", "from-env")
		rv := ResolveString("k", "from-flag", true, "CONSTRICTOR_TEST_KEY", "from-config", "from-default")

		assert.Equal(t, "from-flag", rv.Value)
		assert.Equal(t, SourceFlag, rv.Source)
		assert.Equal(t, "from-env", rv.Shadowed[SourceEnv])
		assert.Equal(t, "from-config", rv.Shadowed[SourceConfig])
		assert.Equal(t, "from-default", rv.Shadowed[SourceDefault])
	})

	t.Run("env beats config", func(t *testing.T) {
		t.Setenv("CONSTRICTOR_TEST_KEY", "from-env")
		rv := ResolveString("k", "", false, "CONSTRICTOR_TEST_KEY", "from-config", "d")
		assert.Equal(t, "from-env", rv.Value)
		assert.Equal(t, SourceEnv, rv.Source)
	})

	t.Run("config beats default", func(t *testing.T) {
		rv := ResolveString("k", "", false, "CONSTRICTOR_UNSET_KEY", "from-config", "d")
		assert.Equal(t, "from-config", rv.Value)
		assert.Equal(t, SourceConfig, rv.Source)
	})

	t.Run("default when nothing set", func(t *testing.T) {
		rv := ResolveString("k", "", false, "CONSTRICTOR_UNSET_KEY", "", "d")
		assert.Equal(t, "d", rv.Value)
		assert.Equal(t, SourceDefault, rv.Source)
		assert.Empty(t, rv.Shadowed)
	})

	t.Run("explicit empty flag still wins", func(t *testing.T) {
		rv := ResolveString("k", "", true, "CONSTRICTOR_UNSET_KEY", "c", "d")
		assert.Equal(t, "", rv.Value)
		assert.Equal(t, SourceFlag, rv.Source)
	})
}

func TestResolveRun(t *testing.T) {
	cfg := &Config{Run: RunConfig{Host: "0.0.0.0", Port: 8080}}

	rs := ResolveRun(RunFlags{Port: 3000, PortSet: true}, cfg)

	assert.Equal(t, "0.0.0.0", rs.Host.Value)
	assert.Equal(t, SourceConfig, rs.Host.Source)
	assert.Equal(t, "3000", rs.Port.Value)
	assert.Equal(t, SourceFlag, rs.Port.Source)
	assert.Equal(t, "false", rs.Debug.Value)
	assert.Equal(t, SourceDefault, rs.Debug.Source)
}

func TestResolveRun_NilConfig(t *testing.T) {
	rs := ResolveRun(RunFlags{}, nil)
	assert.Equal(t, DefaultHost, rs.Host.Value)
	assert.Equal(t, "5000", rs.Port.Value)
}
