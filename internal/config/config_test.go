package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, logrus.InfoLevel, cfg.Level())
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, int64(5<<20), cfg.HTTP.MaxUploadBytes)
	assert.Equal(t, 300, cfg.Render.Width)
	assert.Equal(t, 400, cfg.Render.Height)
	assert.Equal(t, 4.0, cfg.Render.StrokeWidth)
	assert.Equal(t, "vector", cfg.Render.Backend)
	assert.Equal(t, 120, cfg.Decode.WorkingHeight)
	assert.Equal(t, 0.75, cfg.Decode.Acceptance)
	assert.Equal(t, 0.1, cfg.Decode.MinMargin)

	opts := cfg.DecoderOptions()
	assert.Equal(t, 120, opts.Normalize.WorkingHeight)
	assert.Equal(t, 0.75, opts.Match.Acceptance)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("CISTERCIAN_RENDER_WIDTH", "600")
	t.Setenv("CISTERCIAN_RENDER_BACKEND", "gg")
	t.Setenv("CISTERCIAN_HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("CISTERCIAN_LOG_LEVEL", "debug")
	t.Setenv("CISTERCIAN_DECODE_BLUR", "1.5")

	cfg, err := load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, 600, cfg.Render.Width)
	assert.Equal(t, "gg", cfg.Render.Backend)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTP.Addr)
	assert.Equal(t, logrus.DebugLevel, cfg.Level())
	assert.Equal(t, 1.5, cfg.DecoderOptions().Normalize.BlurRadius)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cistercian.yaml")
	yaml := []byte(`
log_level: warn
http:
  max_upload_bytes: 1024
render:
  foreground: "#1e3a8a"
  stroke_width: 6
decode:
  acceptance: 0.8
`)
	require.NoError(t, os.WriteFile(path, yaml, 0o600))

	cfg, err := load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, logrus.WarnLevel, cfg.Level())
	assert.Equal(t, int64(1024), cfg.HTTP.MaxUploadBytes)
	assert.Equal(t, "#1e3a8a", cfg.Render.Foreground)
	assert.Equal(t, 6.0, cfg.Render.StrokeWidth)
	assert.Equal(t, 0.8, cfg.Decode.Acceptance)
	assert.Equal(t, 300, cfg.Render.Width, "unset keys keep defaults")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
		{"empty addr", func(c *Config) { c.HTTP.Addr = "" }},
		{"zero upload limit", func(c *Config) { c.HTTP.MaxUploadBytes = 0 }},
		{"tiny canvas", func(c *Config) { c.Render.Width = 8 }},
		{"huge canvas", func(c *Config) { c.Render.Height = 100000 }},
		{"unknown backend", func(c *Config) { c.Render.Backend = "svg" }},
		{"no contrast", func(c *Config) { c.Render.Foreground = "#fefefe" }},
		{"working height", func(c *Config) { c.Decode.WorkingHeight = 10 }},
		{"acceptance above one", func(c *Config) { c.Decode.Acceptance = 1.5 }},
		{"negative margin", func(c *Config) { c.Decode.MinMargin = -0.1 }},
		{"negative blur", func(c *Config) { c.Decode.Blur = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := load(viper.New(), "")
			require.NoError(t, err)

			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
