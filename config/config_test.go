package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"DISCORD_TOKEN", "TOKEN", "GUILD_ID", "DB_PATH",
		"REFRESH_INTERVAL", "TEMPLATES_FILE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DISCORD_TOKEN", "secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Token)
	assert.Equal(t, "rollcall.db", cfg.DBPath)
	assert.Equal(t, time.Hour, cfg.RefreshInterval)
	assert.Empty(t, cfg.GuildID)
	assert.Empty(t, cfg.TemplatesFile)
}

func TestLoadConfig_FallsBackToToken(t *testing.T) {
	clearEnv(t)
	t.Setenv("TOKEN", "legacy")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "legacy", cfg.Token)
}

func TestLoadConfig_RequiresToken(t *testing.T) {
	clearEnv(t)

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "DISCORD_TOKEN")
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DISCORD_TOKEN", "secret")
	t.Setenv("GUILD_ID", "123")
	t.Setenv("DB_PATH", "/data/events.db")
	t.Setenv("KEEPALIVE_ADDR", "")
	t.Setenv("REFRESH_INTERVAL", "15m")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "123", cfg.GuildID)
	assert.Equal(t, "/data/events.db", cfg.DBPath)
	assert.Empty(t, cfg.KeepaliveAddr)
	assert.Equal(t, 15*time.Minute, cfg.RefreshInterval)
}

func TestLoadConfig_InvalidInterval(t *testing.T) {
	clearEnv(t)
	t.Setenv("DISCORD_TOKEN", "secret")

	t.Setenv("REFRESH_INTERVAL", "soon")
	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("REFRESH_INTERVAL", "-1m")
	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestLoadStorageConfig_NeedsNoToken(t *testing.T) {
	clearEnv(t)
	t.Setenv("TEMPLATES_FILE", "templates.yaml")

	storage := LoadStorageConfig()
	assert.Equal(t, "rollcall.db", storage.DBPath)
	assert.Equal(t, "templates.yaml", storage.TemplatesFile)
}
