package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every setting for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DB_PATH", "LOG_LEVEL", "RECENT_LIMIT", "FAIL_SOFT"} {
		key = Prefix + "_" + key
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestNewDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv(envHome, home)
	clearEnv(t)

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, dbFilename), cfg.DBPath)
	assert.Equal(t, 5, cfg.RecentLimit)
	assert.False(t, cfg.FailSoft)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, lvl)
}

func TestNewEnvOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("GRUDGEBOOK_DB_PATH", "/tmp/custom.db")
	t.Setenv("GRUDGEBOOK_RECENT_LIMIT", "10")
	t.Setenv("GRUDGEBOOK_FAIL_SOFT", "true")
	t.Setenv("GRUDGEBOOK_LOG_LEVEL", "DEBUG")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.db", cfg.DBPath)
	assert.Equal(t, 10, cfg.RecentLimit)
	assert.True(t, cfg.FailSoft)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, lvl)
}

func TestNewRejectsBadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv(envHome, t.TempDir())

	t.Setenv("GRUDGEBOOK_RECENT_LIMIT", "0")
	_, err := New()
	assert.Error(t, err)

	t.Setenv("GRUDGEBOOK_RECENT_LIMIT", "5")
	t.Setenv("GRUDGEBOOK_LOG_LEVEL", "loud")
	_, err = New()
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))

	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("GRUDGEBOOK_TEST_DOTENV=loaded\n"), 0o600))
	t.Setenv("GRUDGEBOOK_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("GRUDGEBOOK_TEST_DOTENV"))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "loaded", os.Getenv("GRUDGEBOOK_TEST_DOTENV"))
}

func TestDataDirOverride(t *testing.T) {
	custom := filepath.Join(t.TempDir(), "nested", "state")
	t.Setenv(envHome, custom)

	dir, err := DataDir()
	require.NoError(t, err)
	assert.Equal(t, custom, dir)
	assert.DirExists(t, custom)
}

func TestInitLogger(t *testing.T) {
	prev := log.Logger
	defer func() { log.Logger = prev }()

	var buf bytes.Buffer
	InitLoggerTo(&buf)
	SetLogLevel(zerolog.InfoLevel)
	defer SetLogLevel(zerolog.TraceLevel)

	log.Debug().Msg("hidden")
	log.Info().Str("k", "v").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "k=v")
}
