// Package config loads server configuration from flags, environment variables, a .env file,
// an optional YAML file, and defaults, in that order of precedence.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App        AppConfig
	Logger     LoggerConfig
	Server     ServerConfig
	Annotation AnnotationConfig
	Capture    CaptureConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	CORSOrigins  []string
	// MaxUploadBytes caps decoded document size.
	MaxUploadBytes int64
	// UploadRate and UploadBurst throttle document uploads per client IP.
	UploadRate  float64
	UploadBurst int
	// MaxPreviewPixels caps the raster size of a page preview.
	MaxPreviewPixels int
}

// AnnotationConfig holds session defaults.
type AnnotationConfig struct {
	DefaultColor    string
	SignatureWidth  float64
	SignatureHeight float64
	ZoomStep        float64
	MinZoom         float64
	MaxZoom         float64
}

// CaptureConfig holds signature capture surface settings.
type CaptureConfig struct {
	Width       float64
	Height      float64
	PixelRatio  float64
	StrokeWidth float64
	StrokeColor string
	// MaxWidth and MaxHeight bound the surface size a client may open.
	MaxWidth  float64
	MaxHeight float64
}

// LoadConfig loads configuration from the process arguments.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load loads configuration with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. YAML file given by --config.
// 5. Default values (lowest priority).
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("inkmark", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	envFile := fs.String("env-file", ".env", "Path to .env file")
	configFile := fs.String("config", "", "Path to YAML config file")

	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 60s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := fs.String("cors-origins", "", "Comma-separated allowed CORS origins (default: *)")
	maxUpload := fs.String("max-upload-bytes", "", "Largest accepted document in bytes (default: 50MiB)")
	uploadRate := fs.String("upload-rate", "", "Uploads per second per client (default: 1)")
	uploadBurst := fs.String("upload-burst", "", "Upload burst per client (default: 5)")
	maxPreview := fs.String("max-preview-pixels", "", "Largest page preview in pixels (default: 16777216)")

	defaultColor := fs.String("default-color", "", "Initial annotation color (default: #FFDE17)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// Missing .env is fine.
	_ = loadEnvFile(*envFile)

	file, err := loadYAMLFile(getConfigValue(*configFile, "CONFIG_FILE", ""))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", or(file.App.Environment, "development")),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", or(file.Logger.Level, "info")),
		},
		Server: ServerConfig{
			Port:             getConfigValue(*serverPort, "SERVER_PORT", or(file.Server.Port, "8080")),
			CORSOrigins:      splitList(getConfigValue(*corsOrigins, "CORS_ORIGINS", or(strings.Join(file.Server.CORSOrigins, ","), "*"))),
			MaxUploadBytes:   int64(getIntConfigValue(*maxUpload, "MAX_UPLOAD_BYTES", orInt(int(file.Server.MaxUploadBytes), 50<<20))),
			UploadRate:       getFloatConfigValue(*uploadRate, "UPLOAD_RATE", orFloat(file.Server.UploadRate, 1)),
			UploadBurst:      getIntConfigValue(*uploadBurst, "UPLOAD_BURST", orInt(file.Server.UploadBurst, 5)),
			MaxPreviewPixels: getIntConfigValue(*maxPreview, "MAX_PREVIEW_PIXELS", orInt(file.Server.MaxPreviewPixels, 4096*4096)),
		},
		Annotation: AnnotationConfig{
			DefaultColor:    getConfigValue(*defaultColor, "DEFAULT_COLOR", or(file.Annotation.DefaultColor, "#FFDE17")),
			SignatureWidth:  getFloatConfigValue("", "SIGNATURE_WIDTH", orFloat(file.Annotation.SignatureWidth, 200)),
			SignatureHeight: getFloatConfigValue("", "SIGNATURE_HEIGHT", orFloat(file.Annotation.SignatureHeight, 100)),
			ZoomStep:        getFloatConfigValue("", "ZOOM_STEP", orFloat(file.Annotation.ZoomStep, 0.1)),
			MinZoom:         getFloatConfigValue("", "ZOOM_MIN", orFloat(file.Annotation.MinZoom, 0.5)),
			MaxZoom:         getFloatConfigValue("", "ZOOM_MAX", orFloat(file.Annotation.MaxZoom, 3.0)),
		},
		Capture: CaptureConfig{
			Width:       getFloatConfigValue("", "CAPTURE_WIDTH", orFloat(file.Capture.Width, 400)),
			Height:      getFloatConfigValue("", "CAPTURE_HEIGHT", orFloat(file.Capture.Height, 256)),
			PixelRatio:  getFloatConfigValue("", "CAPTURE_PIXEL_RATIO", orFloat(file.Capture.PixelRatio, 2)),
			StrokeWidth: getFloatConfigValue("", "CAPTURE_STROKE_WIDTH", orFloat(file.Capture.StrokeWidth, 2)),
			StrokeColor: getConfigValue("", "CAPTURE_STROKE_COLOR", or(file.Capture.StrokeColor, "#000000")),
			MaxWidth:    getFloatConfigValue("", "CAPTURE_MAX_WIDTH", orFloat(file.Capture.MaxWidth, 2048)),
			MaxHeight:   getFloatConfigValue("", "CAPTURE_MAX_HEIGHT", orFloat(file.Capture.MaxHeight, 2048)),
		},
	}

	timeouts := []struct {
		flagValue, envKey, fileValue, fallback string
		dst                                    *time.Duration
	}{
		{*readTimeout, "SERVER_READ_TIMEOUT", file.Server.ReadTimeout, "15s", &cfg.Server.ReadTimeout},
		{*writeTimeout, "SERVER_WRITE_TIMEOUT", file.Server.WriteTimeout, "60s", &cfg.Server.WriteTimeout},
		{*idleTimeout, "SERVER_IDLE_TIMEOUT", file.Server.IdleTimeout, "60s", &cfg.Server.IdleTimeout},
	}
	for _, t := range timeouts {
		raw := getConfigValue(t.flagValue, t.envKey, or(t.fileValue, t.fallback))
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", strings.ToLower(t.envKey), raw, err)
		}
		*t.dst = d
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all config values are present and in range.
func (c *Config) Validate() error {
	switch c.App.Environment {
	case "development", "staging", "production":
	case "":
		return errors.New("ENV is required")
	default:
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	switch strings.ToLower(c.Logger.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Server.Port == "" {
		return errors.New("server port cannot be empty")
	}
	if c.Server.MaxUploadBytes <= 0 {
		return errors.New("max upload bytes must be positive")
	}
	if c.Server.UploadRate <= 0 || c.Server.UploadBurst <= 0 {
		return errors.New("upload rate and burst must be positive")
	}
	if c.Server.MaxPreviewPixels <= 0 {
		return errors.New("max preview pixels must be positive")
	}

	a := c.Annotation
	if a.SignatureWidth <= 0 || a.SignatureHeight <= 0 {
		return fmt.Errorf("signature box must be positive, got %gx%g", a.SignatureWidth, a.SignatureHeight)
	}
	if a.ZoomStep <= 0 {
		return fmt.Errorf("zoom step must be positive, got %g", a.ZoomStep)
	}
	if a.MinZoom <= 0 || a.MinZoom >= a.MaxZoom {
		return fmt.Errorf("zoom range invalid: min %g, max %g", a.MinZoom, a.MaxZoom)
	}
	if a.DefaultColor == "" {
		return errors.New("default color cannot be empty")
	}

	cp := c.Capture
	if cp.Width <= 0 || cp.Height <= 0 || cp.PixelRatio <= 0 || cp.StrokeWidth <= 0 {
		return errors.New("capture surface dimensions, pixel ratio and stroke width must be positive")
	}
	if cp.Width > cp.MaxWidth || cp.Height > cp.MaxHeight {
		return fmt.Errorf("capture surface %gx%g exceeds maximum %gx%g", cp.Width, cp.Height, cp.MaxWidth, cp.MaxHeight)
	}

	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	raw := getConfigValue(flagValue, envKey, "")
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return v
}

// getFloatConfigValue returns a float from flag, env var, or default.
func getFloatConfigValue(flagValue, envKey string, defaultValue float64) float64 {
	raw := getConfigValue(flagValue, envKey, "")
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return defaultValue
	}
	return v
}

func or(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func orInt(value, fallback int) int {
	if value != 0 {
		return value
	}
	return fallback
}

func orFloat(value, fallback float64) float64 {
	if value != 0 {
		return value
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for part := range strings.SplitSeq(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Real environment variables win over the file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
