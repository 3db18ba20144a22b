package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "saves", cfg.Game.SaveDir)
	assert.Equal(t, "tui", cfg.UI.Mode)
	assert.True(t, cfg.UI.Color)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Logging.File)
	assert.Zero(t, cfg.Game.TypewriterDelay)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "serpens.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
game:
  content_dir: worlds/hollow
  save_dir: /tmp/serpens
  typewriter_delay: 40ms
  cheats: true
  seed: 42
ui:
  mode: plain
  color: false
logging:
  level: debug
  format: console
  file: serpens.log
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "worlds/hollow", cfg.Game.ContentDir)
	assert.Equal(t, 40*time.Millisecond, cfg.Game.TypewriterDelay)
	assert.True(t, cfg.Game.Cheats)
	assert.EqualValues(t, 42, cfg.Game.Seed)
	assert.Equal(t, "plain", cfg.UI.Mode)
	assert.False(t, cfg.UI.Color)
	assert.Equal(t, "serpens.log", cfg.Logging.File)
	assert.Equal(t, 128, cfg.Game.Width)
	assert.Equal(t, 32, cfg.Game.Height)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SERPENS_UI_MODE", "plain")
	t.Setenv("SERPENS_GAME_CHEATS", "true")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "plain", cfg.UI.Mode)
	assert.True(t, cfg.Game.Cheats)
}

func TestLoadRejectsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ui:\n  mode: holo\nlogging:\n  level: loud\n"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ui.mode")
	assert.Contains(t, err.Error(), "logging.level")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"empty save dir", func(c *Config) { c.Game.SaveDir = "" }, "game.save_dir"},
		{"negative delay", func(c *Config) { c.Game.TypewriterDelay = -time.Second }, "typewriter_delay"},
		{"narrow", func(c *Config) { c.Game.Width = 10 }, "game.width"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"negative backups", func(c *Config) { c.Logging.MaxBackups = -1 }, "rotation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateLevelProperty(t *testing.T) {
	valid := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	rapid.Check(t, func(t *rapid.T) {
		level := rapid.String().Draw(t, "level")
		cfg := Default()
		cfg.Logging.Level = level
		if valid[level] {
			assert.NoError(t, cfg.Validate())
		} else {
			assert.Error(t, cfg.Validate())
		}
	})
}
