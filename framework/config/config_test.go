package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/km-arc/dico/framework/config"
)

// ── helpers ──────────────────────────────────────────────────────────────────

// unset clears key for the duration of the test so .env files can set it.
func unset(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "") // restored after test
	os.Unsetenv(key)
}

// ── Load ─────────────────────────────────────────────────────────────────────

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_NAME", "APP_ENV", "LOG_LEVEL", "LOG_FORMAT", "DICO_CONTAINER", "DICO_CONFIG", "HTTP_ENABLED", "HTTP_PORT"} {
		unset(t, key)
	}
	cfg := config.Load("testdata/empty.env")

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"App.Name", cfg.App.Name, "dico"},
		{"App.Env", cfg.App.Env, "local"},
		{"Log.Level", cfg.Log.Level, "info"},
		{"Log.Format", cfg.Log.Format, "console"},
		{"Container.Name", cfg.Container.Name, "default"},
		{"Container.File", cfg.Container.File, ""},
		{"HTTP.Enabled", cfg.HTTP.Enabled, true},
		{"HTTP.Port", cfg.HTTP.Port, "8000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	for _, key := range []string{"APP_NAME", "DICO_CONTAINER", "DICO_CONFIG", "LOG_LEVEL"} {
		unset(t, key)
	}

	cfg := config.Load("testdata/app.env")

	assert.Equal(t, "dico-file", cfg.App.Name)
	assert.Equal(t, "from-file", cfg.Container.Name)
	assert.Equal(t, "services.yaml", cfg.Container.File)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("DICO_CONTAINER", "from-env")

	cfg := config.Load("testdata/app.env")

	assert.Equal(t, "from-env", cfg.Container.Name)
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("HTTP_ENABLED", "false")
	t.Setenv("LOG_FORMAT", "json")

	cfg := config.Load("testdata/empty.env")

	assert.Equal(t, "production", cfg.App.Env)
	assert.Equal(t, "9000", cfg.HTTP.Port)
	assert.False(t, cfg.HTTP.Enabled)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_AppDebug(t *testing.T) {
	t.Setenv("APP_DEBUG", "true")
	assert.True(t, config.Load("testdata/empty.env").App.Debug)

	t.Setenv("APP_DEBUG", "false")
	assert.False(t, config.Load("testdata/empty.env").App.Debug)
}

// ── Get / GetInt / GetBool ───────────────────────────────────────────────────

func TestGet(t *testing.T) {
	t.Setenv("CUSTOM_KEY", "hello")
	assert.Equal(t, "hello", config.Get("CUSTOM_KEY", "default"))

	unset(t, "MISSING_KEY")
	assert.Equal(t, "fallback", config.Get("MISSING_KEY", "fallback"))
}

func TestGetInt(t *testing.T) {
	t.Setenv("SOME_INT", "42")
	assert.Equal(t, 42, config.GetInt("SOME_INT", 0))

	t.Setenv("SOME_INT", "notanint")
	assert.Equal(t, 99, config.GetInt("SOME_INT", 99))
}

func TestGetBool(t *testing.T) {
	for _, val := range []string{"true", "1", "True", "TRUE"} {
		t.Setenv("BOOL_KEY", val)
		assert.True(t, config.GetBool("BOOL_KEY", false), val)
	}

	t.Setenv("BOOL_KEY", "false")
	assert.False(t, config.GetBool("BOOL_KEY", true))

	t.Setenv("BOOL_KEY", "notabool")
	assert.True(t, config.GetBool("BOOL_KEY", true))
}
