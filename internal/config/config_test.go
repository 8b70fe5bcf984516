package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENV", "LOG_LEVEL", "CONFIG_FILE", "SERVER_PORT", "SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT",
		"SERVER_IDLE_TIMEOUT", "CORS_ORIGINS", "MAX_UPLOAD_BYTES", "UPLOAD_RATE", "UPLOAD_BURST",
		"DEFAULT_COLOR", "SIGNATURE_WIDTH", "SIGNATURE_HEIGHT", "ZOOM_STEP", "ZOOM_MIN", "ZOOM_MAX",
		"CAPTURE_WIDTH", "CAPTURE_HEIGHT", "CAPTURE_PIXEL_RATIO", "CAPTURE_STROKE_WIDTH", "CAPTURE_STROKE_COLOR",
		"MAX_PREVIEW_PIXELS", "CAPTURE_MAX_WIDTH", "CAPTURE_MAX_HEIGHT",
	} {
		t.Setenv(key, "")
	}
}

func noEnvFile(t *testing.T) []string {
	t.Helper()
	return []string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}
}

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Server: ServerConfig{
			Port:             "8080",
			MaxUploadBytes:   1 << 20,
			UploadRate:       1,
			UploadBurst:      5,
			MaxPreviewPixels: 1 << 24,
		},
		Annotation: AnnotationConfig{
			DefaultColor:    "#FFDE17",
			SignatureWidth:  200,
			SignatureHeight: 100,
			ZoomStep:        0.1,
			MinZoom:         0.5,
			MaxZoom:         3,
		},
		Capture: CaptureConfig{
			Width:       400,
			Height:      256,
			PixelRatio:  2,
			StrokeWidth: 2,
			StrokeColor: "#000000",
			MaxWidth:    2048,
			MaxHeight:   2048,
		},
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "#FFDE17", cfg.Annotation.DefaultColor)
	assert.InDelta(t, 200, cfg.Annotation.SignatureWidth, 0)
	assert.InDelta(t, 100, cfg.Annotation.SignatureHeight, 0)
	assert.InDelta(t, 0.1, cfg.Annotation.ZoomStep, 0)
	assert.InDelta(t, 0.5, cfg.Annotation.MinZoom, 0)
	assert.InDelta(t, 3.0, cfg.Annotation.MaxZoom, 0)
	assert.InDelta(t, 2, cfg.Capture.PixelRatio, 0)
	assert.Equal(t, 4096*4096, cfg.Server.MaxPreviewPixels)
	assert.InDelta(t, 2048, cfg.Capture.MaxWidth, 0)
	assert.InDelta(t, 2048, cfg.Capture.MaxHeight, 0)
}

func TestLoad_Precedence(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "inkmark.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
logger:
  level: warn
server:
  port: "7000"
  cors_origins: [https://a.example, https://b.example]
annotation:
  default_color: "#0A84FF"
  max_zoom: 4
`), 0o600))

	t.Setenv("SERVER_PORT", "7500")

	cfg, err := Load(append(noEnvFile(t), "--config", yamlPath, "--log-level", "debug"))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level, "flag beats file")
	assert.Equal(t, "7500", cfg.Server.Port, "env beats file")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "#0A84FF", cfg.Annotation.DefaultColor, "file beats default")
	assert.InDelta(t, 4.0, cfg.Annotation.MaxZoom, 0)
	assert.InDelta(t, 0.5, cfg.Annotation.MinZoom, 0)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(append(noEnvFile(t), "--config", filepath.Join(t.TempDir(), "nope.yaml")))
	assert.ErrorContains(t, err, "read config file")
}

func TestLoad_BadTimeout(t *testing.T) {
	clearEnv(t)

	_, err := Load(append(noEnvFile(t), "--read-timeout", "soon"))
	assert.ErrorContains(t, err, "server_read_timeout")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing env", func(c *Config) { c.App.Environment = "" }, "ENV is required"},
		{"unknown env", func(c *Config) { c.App.Environment = "test" }, "invalid environment"},
		{"bad log level", func(c *Config) { c.Logger.Level = "verbose" }, "invalid log level"},
		{"upper log level", func(c *Config) { c.Logger.Level = "DEBUG" }, ""},
		{"zero signature box", func(c *Config) { c.Annotation.SignatureHeight = 0 }, "signature box"},
		{"inverted zoom", func(c *Config) { c.Annotation.MinZoom = 3 }, "zoom range"},
		{"zero zoom step", func(c *Config) { c.Annotation.ZoomStep = 0 }, "zoom step"},
		{"zero pixel ratio", func(c *Config) { c.Capture.PixelRatio = 0 }, "capture surface"},
		{"zero upload burst", func(c *Config) { c.Server.UploadBurst = 0 }, "upload rate"},
		{"zero preview budget", func(c *Config) { c.Server.MaxPreviewPixels = 0 }, "max preview pixels"},
		{"capture over maximum", func(c *Config) { c.Capture.MaxWidth = 300 }, "exceeds maximum"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("INKMARK_TEST_KEY", "env-value")

	assert.Equal(t, "flag-value", getConfigValue("flag-value", "INKMARK_TEST_KEY", "default"))
	assert.Equal(t, "env-value", getConfigValue("", "INKMARK_TEST_KEY", "default"))
	assert.Equal(t, "default", getConfigValue("", "INKMARK_TEST_MISSING", "default"))
}

func TestGetFloatConfigValue_InvalidFallsBack(t *testing.T) {
	t.Setenv("INKMARK_TEST_FLOAT", "wide")

	assert.InDelta(t, 2.5, getFloatConfigValue("", "INKMARK_TEST_FLOAT", 2.5), 0)
	assert.InDelta(t, 1.25, getFloatConfigValue("1.25", "INKMARK_TEST_FLOAT", 2.5), 0)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b "))
	assert.Nil(t, splitList(""))
}

func TestLoadEnvFile(t *testing.T) {
	t.Setenv("INKMARK_TEST_A", "")
	t.Setenv("INKMARK_TEST_B", "original")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(`
# comment
INKMARK_TEST_A = "quoted value"

INKMARK_TEST_B=from-file
`), 0o600))

	require.NoError(t, loadEnvFile(path))
	assert.Equal(t, "quoted value", os.Getenv("INKMARK_TEST_A"))
	assert.Equal(t, "original", os.Getenv("INKMARK_TEST_B"))
}

func TestLoadEnvFile_InvalidFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("NOT_A_PAIR\n"), 0o600))

	assert.ErrorContains(t, loadEnvFile(path), "invalid format at line 1")
}

func TestLoadEnvFile_NonExistentFile(t *testing.T) {
	assert.Error(t, loadEnvFile(filepath.Join(t.TempDir(), "absent.env")))
}
