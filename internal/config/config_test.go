package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("STORE_TIMEZONE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 540, cfg.Store.OpenMinutes)
	assert.Equal(t, 1200, cfg.Store.CloseMinutes)
	assert.Equal(t, "America/New_York", cfg.Location().String())
}

func TestLoadTOMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
server_port = "9000"
staff_emails = ["owner@example.com"]

[store]
timezone = "America/Chicago"
open_minutes = 600
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("STAFF_EMAILS", " Front@Example.com , back@example.com,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.ServerPort)
	assert.Equal(t, 600, cfg.Store.OpenMinutes)
	assert.Equal(t, "America/Chicago", cfg.Location().String())
	assert.Equal(t, []string{"front@example.com", "back@example.com"}, cfg.StaffEmails)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := defaults()
	cfg.Store.Timezone = "Mars/Olympus"
	assert.Error(t, cfg.Validate())

	cfg = defaults()
	cfg.Store.CloseMinutes = cfg.Store.OpenMinutes
	assert.Error(t, cfg.Validate())

	t.Setenv("STORE_OPEN_MINUTES", "nine")
	t.Setenv("CONFIG_FILE", "")
	_, err := Load()
	assert.Error(t, err)
}
