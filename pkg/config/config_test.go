package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets a variable for the test while restoring the original value
// afterwards.
func clearEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

// chdir changes the working directory for the test while restoring the
// original directory afterwards. (testing.T.Chdir needs Go 1.24+.)
func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(orig) })
}

func TestLoadReadsDotEnvBeforeFirstEnvRead(t *testing.T) {
	clearEnv(t, "PORT")
	clearEnv(t, "ENV")
	clearEnv(t, "DATABASE_URL")
	clearEnv(t, "JWT_SECRET")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(dir+"/.env", []byte(
		"DATABASE_URL=postgres://env-file-host/stackload\n"+
			"JWT_SECRET=from-dotenv\n"+
			"PORT=9090\n",
	), 0o600))
	chdir(t, dir)

	cfg := Load()

	assert.Equal(t, "postgres://env-file-host/stackload", cfg.DatabaseURL)
	assert.Equal(t, "from-dotenv", cfg.JWTSecret)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
}

func TestLoadEnvironmentWinsOverDotEnv(t *testing.T) {
	clearEnv(t, "PORT")
	clearEnv(t, "ENV")
	t.Setenv("DATABASE_URL", "postgres://real-env-host/stackload")
	t.Setenv("JWT_SECRET", "from-environment")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(dir+"/.env", []byte(
		"DATABASE_URL=postgres://env-file-host/stackload\n"+
			"JWT_SECRET=from-dotenv\n",
	), 0o600))
	chdir(t, dir)

	cfg := Load()

	assert.Equal(t, "postgres://real-env-host/stackload", cfg.DatabaseURL)
	assert.Equal(t, "from-environment", cfg.JWTSecret)
}

func TestLoadDefaultsWithoutDotEnv(t *testing.T) {
	clearEnv(t, "PORT")
	clearEnv(t, "ENV")
	clearEnv(t, "DATABASE_URL")
	clearEnv(t, "JWT_SECRET")
	chdir(t, t.TempDir())

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Empty(t, cfg.DatabaseURL)
	assert.NotEmpty(t, cfg.JWTSecret)
}
