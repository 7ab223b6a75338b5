// Package config loads service settings from defaults, an optional config
// file and CISTERCIAN_* environment variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/ironsheep/cistercian-mcp/internal/cistercian"
	"github.com/ironsheep/cistercian-mcp/internal/render"
)

// EnvPrefix prefixes every environment variable, e.g. CISTERCIAN_HTTP_ADDR.
const EnvPrefix = "CISTERCIAN"

// FileEnv names the environment variable holding an optional config file
// path (YAML, JSON or TOML, by extension).
const FileEnv = EnvPrefix + "_CONFIG"

// Config is the complete service configuration.
type Config struct {
	LogLevel string
	HTTP     HTTPConfig
	Render   render.Options
	Decode   DecodeConfig
}

// HTTPConfig configures the HTTP API.
type HTTPConfig struct {
	Addr           string
	MaxUploadBytes int64
}

// DecodeConfig exposes the recognition knobs worth tuning in deployment.
type DecodeConfig struct {
	WorkingHeight int
	Acceptance    float64
	MinMargin     float64
	Blur          float64
}

func setDefaults(v *viper.Viper) {
	ro := render.DefaultOptions()
	mo := cistercian.DefaultDecoderOptions()

	v.SetDefault("log_level", "info")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.max_upload_bytes", 5<<20)
	v.SetDefault("render.width", ro.Width)
	v.SetDefault("render.height", ro.Height)
	v.SetDefault("render.stroke_width", ro.StrokeWidth)
	v.SetDefault("render.background", ro.Background)
	v.SetDefault("render.foreground", ro.Foreground)
	v.SetDefault("render.backend", ro.Backend)
	v.SetDefault("decode.working_height", mo.Normalize.WorkingHeight)
	v.SetDefault("decode.acceptance", mo.Match.Acceptance)
	v.SetDefault("decode.min_margin", mo.Match.MinMargin)
	v.SetDefault("decode.blur", 0.0)
}

// Load reads the configuration from defaults, the file named by
// CISTERCIAN_CONFIG (if set) and the environment, then validates it.
func Load() (*Config, error) {
	return load(viper.New(), os.Getenv(FileEnv))
}

func load(v *viper.Viper, file string) (*Config, error) {
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", file, err)
		}
	}

	cfg := &Config{
		LogLevel: v.GetString("log_level"),
		HTTP: HTTPConfig{
			Addr:           v.GetString("http.addr"),
			MaxUploadBytes: v.GetInt64("http.max_upload_bytes"),
		},
		Render: render.Options{
			Width:       v.GetInt("render.width"),
			Height:      v.GetInt("render.height"),
			StrokeWidth: v.GetFloat64("render.stroke_width"),
			Background:  v.GetString("render.background"),
			Foreground:  v.GetString("render.foreground"),
			Backend:     v.GetString("render.backend"),
		},
		Decode: DecodeConfig{
			WorkingHeight: v.GetInt("decode.working_height"),
			Acceptance:    v.GetFloat64("decode.acceptance"),
			MinMargin:     v.GetFloat64("decode.min_margin"),
			Blur:          v.GetFloat64("decode.blur"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	if c.HTTP.Addr == "" {
		return fmt.Errorf("http.addr must not be empty")
	}
	if c.HTTP.MaxUploadBytes <= 0 {
		return fmt.Errorf("http.max_upload_bytes must be positive, got %d", c.HTTP.MaxUploadBytes)
	}
	if err := c.Render.Validate(); err != nil {
		return fmt.Errorf("invalid render settings: %w", err)
	}
	if c.Decode.WorkingHeight < 32 {
		return fmt.Errorf("decode.working_height must be at least 32, got %d", c.Decode.WorkingHeight)
	}
	if c.Decode.Acceptance <= 0 || c.Decode.Acceptance > 1 {
		return fmt.Errorf("decode.acceptance must be in (0, 1], got %g", c.Decode.Acceptance)
	}
	if c.Decode.MinMargin <= 0 || c.Decode.MinMargin >= 1 {
		return fmt.Errorf("decode.min_margin must be in (0, 1), got %g", c.Decode.MinMargin)
	}
	if c.Decode.Blur < 0 {
		return fmt.Errorf("decode.blur must not be negative, got %g", c.Decode.Blur)
	}
	return nil
}

// Level returns the parsed log level. Call Validate first.
func (c *Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// DecoderOptions translates the decode settings into codec options.
func (c *Config) DecoderOptions() cistercian.DecoderOptions {
	opts := cistercian.DefaultDecoderOptions()
	opts.Normalize.WorkingHeight = c.Decode.WorkingHeight
	opts.Normalize.BlurRadius = c.Decode.Blur
	opts.Match.Acceptance = c.Decode.Acceptance
	opts.Match.MinMargin = c.Decode.MinMargin
	return opts
}
