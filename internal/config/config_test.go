package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv clears keys for the duration of the test
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoad_Defaults(t *testing.T) {
	unsetEnv(t, "APP_PORT", "SMTP_USERNAME", "SMTP_PASSWORD", "GMAIL_USER", "GMAIL_PASS",
		"NOTIFY_TIMEOUT", "STORE_TIMEOUT", "DB_DRIVER", "REDIS_ADDR")

	cfg := Load()

	assert.Equal(t, "5000", cfg.App.Port)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, 4*time.Second, cfg.Ingest.NotifyTimeout)
	assert.Equal(t, 5*time.Second, cfg.Ingest.StoreTimeout)
	assert.False(t, cfg.SMTP.HasCredentials())
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoad_GmailFallback(t *testing.T) {
	unsetEnv(t, "SMTP_USERNAME", "SMTP_PASSWORD", "SMTP_FROM")
	t.Setenv("GMAIL_USER", "door@example.com")
	t.Setenv("GMAIL_PASS", "app-password")

	cfg := Load()

	assert.Equal(t, "door@example.com", cfg.SMTP.Username)
	assert.Equal(t, "app-password", cfg.SMTP.Password)
	assert.Equal(t, "door@example.com", cfg.SMTP.From)
	assert.True(t, cfg.SMTP.HasCredentials())
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv("NOTIFY_TIMEOUT", "soon")
	t.Setenv("COMMAND_TTL", "90s")

	cfg := Load()

	assert.Equal(t, 4*time.Second, cfg.Ingest.NotifyTimeout)
	assert.Equal(t, 90*time.Second, cfg.Commands.TTL)
}

func TestDBConfig_URLOverride(t *testing.T) {
	d := DBConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/n?sslmode=disable", d.URL())

	d.URLOverride = "postgres://other/db"
	assert.Equal(t, "postgres://other/db", d.URL())
	assert.Equal(t, "postgres://other/db", d.DSN())
}

func TestValidate(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	cfg := Load()
	require.Error(t, cfg.Validate())

	t.Setenv("DB_DRIVER", "sqlite")
	cfg = Load()
	require.NoError(t, cfg.Validate())
}

func TestLoadBridge_ArgsOverrideEnv(t *testing.T) {
	t.Setenv("SERIAL_PORT", "/dev/ttyUSB0")
	t.Setenv("SERVER_URL", "http://env:5000")
	unsetEnv(t, "BRIDGE_TIMEOUT", "DEVICE_ID", "COMMAND_POLL_INTERVAL")

	cfg := LoadBridge(nil)
	assert.Equal(t, "/dev/ttyUSB0", cfg.SerialPort)
	assert.Equal(t, "http://env:5000", cfg.ServerURL)
	assert.Equal(t, 5*time.Second, cfg.AttemptTimeout)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
	assert.Empty(t, cfg.DeviceID)

	cfg = LoadBridge([]string{"/dev/ttyACM0", "http://arg:8080"})
	assert.Equal(t, "/dev/ttyACM0", cfg.SerialPort)
	assert.Equal(t, "http://arg:8080", cfg.ServerURL)
}
