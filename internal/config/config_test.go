package config

import (
	"os"
	"path/filepath"
	"testing"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	cfg := FromViper(v)

	assert.False(t, cfg.Debug)
	assert.Equal(t, "", cfg.LogFormat)
	assert.Equal(t, float32(1200), cfg.WindowWidth)
	assert.Equal(t, float32(800), cfg.WindowHeight)
	assert.Equal(t, 1024, cfg.DisplayMaxWidth)
	assert.Equal(t, 768, cfg.DisplayMaxHeight)
	assert.Equal(t, "processed_image.png", cfg.DefaultSaveName)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := []byte(`
debug: true
log:
  format: json
window:
  width: 640
display:
  max_height: 400
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, float32(640), cfg.WindowWidth)
	assert.Equal(t, float32(800), cfg.WindowHeight)
	assert.Equal(t, 400, cfg.DisplayMaxHeight)
}

func TestLoadEnvironmentOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("display:\n  max_width: 500\n"), 0o644))
	t.Setenv("IMAGEPROC_DISPLAY_MAX_WIDTH", "320")
	t.Setenv("IMAGEPROC_SAVE_DEFAULT_NAME", "edited.bmp")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, 320, cfg.DisplayMaxWidth)
	assert.Equal(t, "edited.bmp", cfg.DefaultSaveName)
}

func TestLoadWithoutHomeConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	homedir.DisableCache = true

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.DisplayMaxWidth)
}

func TestLoadHomeConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	homedir.DisableCache = true
	require.NoError(t, os.WriteFile(filepath.Join(home, ".imageproc.yaml"), []byte("window:\n  height: 700\n"), 0o644))

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, float32(700), cfg.WindowHeight)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		v := viper.New()
		SetDefaults(v)
		return FromViper(v)
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"log format", func(c *Config) { c.LogFormat = "xml" }},
		{"window width", func(c *Config) { c.WindowWidth = 0 }},
		{"display height", func(c *Config) { c.DisplayMaxHeight = -1 }},
		{"save name", func(c *Config) { c.DefaultSaveName = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
