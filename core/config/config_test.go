package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/librarium/core/config"
)

// Each subtest uses its own struct type: the cache is keyed by concrete type,
// so distinct types keep the subtests independent. t.Setenv forbids
// t.Parallel, so these run sequentially.

func TestLoad(t *testing.T) {
	t.Run("parses environment into struct", func(t *testing.T) {
		type cfg struct {
			Name  string `env:"CFGTEST_PARSE_NAME"`
			Count int    `env:"CFGTEST_PARSE_COUNT"`
		}
		t.Setenv("CFGTEST_PARSE_NAME", "librarium")
		t.Setenv("CFGTEST_PARSE_COUNT", "7")

		var c cfg
		require.NoError(t, config.Load(&c))
		assert.Equal(t, "librarium", c.Name)
		assert.Equal(t, 7, c.Count)
	})

	t.Run("applies defaults when unset", func(t *testing.T) {
		type cfg struct {
			Name  string `env:"CFGTEST_DEFAULT_NAME" envDefault:"fallback"`
			Count int    `env:"CFGTEST_DEFAULT_COUNT" envDefault:"3"`
		}

		var c cfg
		require.NoError(t, config.Load(&c))
		assert.Equal(t, "fallback", c.Name)
		assert.Equal(t, 3, c.Count)
	})

	t.Run("caches per type", func(t *testing.T) {
		type cfg struct {
			Name string `env:"CFGTEST_CACHE_NAME" envDefault:"first"`
		}
		t.Setenv("CFGTEST_CACHE_NAME", "first")

		var a cfg
		require.NoError(t, config.Load(&a))
		require.Equal(t, "first", a.Name)

		// A later env change must not be visible: the first parse wins.
		t.Setenv("CFGTEST_CACHE_NAME", "second")

		var b cfg
		require.NoError(t, config.Load(&b))
		assert.Equal(t, "first", b.Name)
	})

	t.Run("nil target rejected", func(t *testing.T) {
		type cfg struct {
			Name string `env:"CFGTEST_NIL_NAME"`
		}

		var c *cfg
		assert.Error(t, config.Load(c))
	})

	t.Run("unparsable value surfaces the field", func(t *testing.T) {
		type cfg struct {
			Count int `env:"CFGTEST_BROKEN_COUNT"`
		}
		t.Setenv("CFGTEST_BROKEN_COUNT", "not-a-number")

		var c cfg
		assert.Error(t, config.Load(&c))
	})
}

func TestMustLoad(t *testing.T) {
	t.Run("returns populated struct", func(t *testing.T) {
		type cfg struct {
			Name string `env:"CFGTEST_MUST_NAME" envDefault:"ok"`
		}

		var c cfg
		require.NotPanics(t, func() { config.MustLoad(&c) })
		assert.Equal(t, "ok", c.Name)
	})

	t.Run("panics on parse failure", func(t *testing.T) {
		type cfg struct {
			Count int `env:"CFGTEST_MUSTBAD_COUNT"`
		}
		t.Setenv("CFGTEST_MUSTBAD_COUNT", "boom")

		var c cfg
		assert.Panics(t, func() { config.MustLoad(&c) })
	})
}
