package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config for the optional YAML file. Zero values mean "not set".
type fileConfig struct {
	App struct {
		Environment string `yaml:"environment"`
	} `yaml:"app"`
	Logger struct {
		Level string `yaml:"level"`
	} `yaml:"logger"`
	Server struct {
		Port             string   `yaml:"port"`
		ReadTimeout      string   `yaml:"read_timeout"`
		WriteTimeout     string   `yaml:"write_timeout"`
		IdleTimeout      string   `yaml:"idle_timeout"`
		CORSOrigins      []string `yaml:"cors_origins"`
		MaxUploadBytes   int64    `yaml:"max_upload_bytes"`
		UploadRate       float64  `yaml:"upload_rate"`
		UploadBurst      int      `yaml:"upload_burst"`
		MaxPreviewPixels int      `yaml:"max_preview_pixels"`
	} `yaml:"server"`
	Annotation struct {
		DefaultColor    string  `yaml:"default_color"`
		SignatureWidth  float64 `yaml:"signature_width"`
		SignatureHeight float64 `yaml:"signature_height"`
		ZoomStep        float64 `yaml:"zoom_step"`
		MinZoom         float64 `yaml:"min_zoom"`
		MaxZoom         float64 `yaml:"max_zoom"`
	} `yaml:"annotation"`
	Capture struct {
		Width       float64 `yaml:"width"`
		Height      float64 `yaml:"height"`
		PixelRatio  float64 `yaml:"pixel_ratio"`
		StrokeWidth float64 `yaml:"stroke_width"`
		StrokeColor string  `yaml:"stroke_color"`
		MaxWidth    float64 `yaml:"max_width"`
		MaxHeight   float64 `yaml:"max_height"`
	} `yaml:"capture"`
}

// loadYAMLFile reads path into a fileConfig. An empty path yields an empty config;
// a named file that is missing or malformed is an error.
func loadYAMLFile(path string) (*fileConfig, error) {
	cfg := &fileConfig{}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}
