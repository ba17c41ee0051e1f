package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("should fall back to defaults without a file", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

		require.NoError(t, err)
		assert.Equal(t, Defaults(), cfg)
	})

	t.Run("should layer file and environment over defaults", func(t *testing.T) {
		// given
		path := filepath.Join(t.TempDir(), "application.yaml")
		yaml := "port: 9090\nstore:\n  backend: remote\n  remote:\n    baseurl: http://store:3001\n    timeout: 3s\ndisplay:\n  currency: \"$\"\n"
		require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
		t.Setenv("BILLBOOK_DB_HOST", "db.internal")
		t.Setenv("BILLBOOK_DISPLAY_TIMEZONE", "Europe/Warsaw")
		t.Setenv("BILLBOOK_CORS_ORIGINS", "http://a.test,http://b.test")

		// when
		cfg, err := Load(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Port)
		assert.Equal(t, BackendRemote, cfg.Store.Backend)
		assert.Equal(t, "http://store:3001", cfg.Store.Remote.BaseUrl)
		assert.Equal(t, 3*time.Second, cfg.Store.Remote.Timeout)
		assert.Equal(t, "$", cfg.Display.Currency)
		assert.Equal(t, "Europe/Warsaw", cfg.Display.Timezone)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Cors.Origins)
	})

	t.Run("should fail on a malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "application.yaml")
		require.NoError(t, os.WriteFile(path, []byte("port: [1, 2"), 0o600))

		_, err := Load(path)

		assert.Error(t, err)
	})
}

func TestDisplay_Location(t *testing.T) {
	assert.Equal(t, time.UTC, Display{}.Location())
	assert.Equal(t, time.UTC, Display{Timezone: "Mars/Olympus"}.Location())
	assert.Equal(t, "Asia/Kolkata", Display{Timezone: "Asia/Kolkata"}.Location().String())
}
