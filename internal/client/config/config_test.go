package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "en", c.SourceLanguage)
	assert.Equal(t, "es", c.TargetLanguage)
	assert.Equal(t, "sqlite", c.StorageDriver)
	assert.Equal(t, "babelx.db", c.StoragePath)
	assert.Equal(t, 15*time.Second, c.RequestTimeout)
	assert.Equal(t, "info", c.LogLevel)
	assert.False(t, c.BackupEnabled())
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"translate_url":   "http://json/translate",
		"storage_driver":  "bolt",
		"request_timeout": "20s",
	})
	t.Setenv("BABELX_STORAGE_DRIVER", "memory")
	t.Setenv("BABELX_S3_BUCKET", "backups")

	os.Args = []string{"babelx", "-c", path, "-r", "5"}
	cfg := LoadConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, "http://json/translate", cfg.TranslateURL)
	assert.Equal(t, "memory", cfg.StorageDriver)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.BackupEnabled())
}
