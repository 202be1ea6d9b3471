package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PNAAS_CONFIG_PATH", "PNAAS_SERVER_HOST", "PNAAS_SERVER_PORT", "PNAAS_SERVER_TRUST_PROXY",
		"DATABASE_URL", "PNAAS_DB_URL", "PNAAS_DB_DRIVER", "PNAAS_LOG_LEVEL",
		"PNAAS_LOG_FORMAT", "PNAAS_LOG_PATH", "PNAAS_RESPONSES_TOKEN",
	} {
		t.Setenv(key, "")
	}
	// Keep a developer's .env out of the picture.
	t.Chdir(t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "pnaas.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
  read_timeout: 3s
db:
  url: postgres://u:p@localhost:5432/pnaas
log:
  level: debug
  format: json
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	require.Equal(t, 10*time.Second, cfg.Server.WriteTimeout)
	require.Equal(t, "postgres://u:p@localhost:5432/pnaas", cfg.DB.URL)
	require.Equal(t, DriverGorm, cfg.DB.Driver)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "pnaas.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db:\n  url: sqlite://from-file.db\n"), 0o600))

	t.Setenv("PNAAS_CONFIG_PATH", path)
	t.Setenv("PNAAS_DB_URL", "sqlite://from-env.db")
	t.Setenv("PNAAS_DB_DRIVER", "sql")
	t.Setenv("PNAAS_SERVER_PORT", "7070")
	t.Setenv("PNAAS_RESPONSES_TOKEN", "s3cret")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "sqlite://from-env.db", cfg.DB.URL)
	require.Equal(t, DriverSQL, cfg.DB.Driver)
	require.Equal(t, 7070, cfg.Server.Port)
	require.Equal(t, "s3cret", cfg.Responses.Token)
}

func TestLoad_DatabaseURLFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://db/pnaas")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "postgres://db/pnaas", cfg.DB.URL)
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("PNAAS_LOG_LEVEL")
	require.NoError(t, os.WriteFile(".env", []byte("PNAAS_LOG_LEVEL=warn\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("PNAAS_LOG_LEVEL") })

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)

	t.Setenv("PNAAS_SERVER_PORT", "http")
	_, err := Load("")
	require.Error(t, err)

	t.Setenv("PNAAS_SERVER_PORT", "")
	t.Setenv("PNAAS_DB_DRIVER", "mongo")
	_, err = Load("")
	require.ErrorContains(t, err, "invalid db driver")

	t.Setenv("PNAAS_DB_DRIVER", "")
	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "read config file")
}
