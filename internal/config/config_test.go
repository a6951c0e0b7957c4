package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfigFile(t *testing.T, values map[string]interface{}) {
	t.Helper()
	raw, err := yaml.Marshal(values)
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), raw, 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadConfig_Defaults(t *testing.T) {
	writeConfigFile(t, map[string]interface{}{})

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, "queentouch", cfg.DBName)
	assert.Equal(t, "keyword", cfg.ModerationMode)
	assert.Equal(t, 5*time.Second, cfg.ModerationTimeout)
	assert.False(t, cfg.TracingEnabled)
}

func TestLoadConfig_FromFile(t *testing.T) {
	writeConfigFile(t, map[string]interface{}{
		"PORT":            "4000",
		"MODERATION_MODE": "remote",
		"MODERATION_URL":  "http://moderation.internal/v1/review",
	})

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, "remote", cfg.ModerationMode)
	assert.Equal(t, "http://moderation.internal/v1/review", cfg.ModerationURL)
}

func TestValidate(t *testing.T) {
	t.Parallel()
	base := Config{
		Port:           "3001",
		JWTSecret:      "a-perfectly-long-secret-for-testing-12345",
		ModerationMode: "keyword",
	}

	t.Run("Valid", func(t *testing.T) {
		t.Parallel()
		cfg := base
		assert.NoError(t, cfg.Validate())
	})

	t.Run("Missing JWT Secret", func(t *testing.T) {
		t.Parallel()
		cfg := base
		cfg.JWTSecret = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("Unknown Moderation Mode", func(t *testing.T) {
		t.Parallel()
		cfg := base
		cfg.ModerationMode = "oracle"
		assert.Error(t, cfg.Validate())
	})

	t.Run("Remote Mode Requires URL", func(t *testing.T) {
		t.Parallel()
		cfg := base
		cfg.ModerationMode = "remote"
		assert.Error(t, cfg.Validate())

		cfg.ModerationURL = "http://moderation.internal"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("Production Rejects Default Secret", func(t *testing.T) {
		t.Parallel()
		cfg := base
		cfg.Env = "production"
		cfg.JWTSecret = "queen-touch-secret-key-CHANGE_IN_PROD"
		assert.Error(t, cfg.Validate())
	})

	t.Run("Production Rejects Weak DB Password", func(t *testing.T) {
		t.Parallel()
		cfg := base
		cfg.Env = "production"
		cfg.DBPassword = "password"
		assert.Error(t, cfg.Validate())
	})
}
