package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "tigerlilly.db", cfg.DBDSN)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TIGERLILLY_DATABASE_DRIVER", "postgres")
	t.Setenv("TIGERLILLY_DATABASE_DSN", "host=db user=magazine dbname=tigerlilly")
	t.Setenv("TIGERLILLY_HTTP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "host=db user=magazine dbname=tigerlilly", cfg.DBDSN)
	assert.Equal(t, ":9090", cfg.Addr())
}

func TestFromViperRejectsUnknownDriver(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("database.driver", "oracle")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestFromViperRejectsEmptyDSN(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("database.dsn", "")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestFromViperRejectsUnknownMode(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("http.mode", "production")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestLoadSettingsFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	settings := "[database]\ndsn = \"magazine.db\"\nlog_sql = true\n\n[log]\nlevel = \"debug\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.toml"), []byte(settings), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "magazine.db", cfg.DBDSN)
	assert.True(t, cfg.DBLogSQL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "sqlite", cfg.DBDriver)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
