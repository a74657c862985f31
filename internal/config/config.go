// Package config loads carta.yaml, the project configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the carta.yaml configuration.
type Config struct {
	// Document configuration
	Document *DocumentConfig `yaml:"document,omitempty"`

	// Viewport configuration
	Viewport *ViewportConfig `yaml:"viewport,omitempty"`

	// Canvas rendering configuration
	Canvas *CanvasConfig `yaml:"canvas,omitempty"`

	// Serve command configuration
	Serve *ServeConfig `yaml:"serve,omitempty"`
}

// DocumentConfig locates the diagram file.
type DocumentConfig struct {
	// Path to the diagram YAML file
	Path string `yaml:"path,omitempty"`

	// Whether to reload the document when the file changes
	Watch bool `yaml:"watch"`
}

// ViewportConfig bounds the zoom range.
type ViewportConfig struct {
	MinZoom float64 `yaml:"minZoom,omitempty"`
	MaxZoom float64 `yaml:"maxZoom,omitempty"`
}

// CanvasConfig tunes edge rendering.
type CanvasConfig struct {
	// Maximum Bézier control-point extension in canvas units
	CurveCap float64 `yaml:"curveCap,omitempty"`
}

// ServeConfig contains the live server configuration.
type ServeConfig struct {
	// Server port
	Port int `yaml:"port,omitempty"`

	// Server host
	Host string `yaml:"host,omitempty"`
}

// Load loads configuration from carta.yaml under projectPath, falling
// back to defaults when the file does not exist.
func Load(projectPath string) (*Config, error) {
	configPath := filepath.Join(projectPath, "carta.yaml")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}

	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}

	return &config, nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Document: &DocumentConfig{
			Path:  "diagram.yaml",
			Watch: true,
		},
		Viewport: &ViewportConfig{
			MinZoom: 0.2,
			MaxZoom: 5.0,
		},
		Canvas: &CanvasConfig{
			CurveCap: 150,
		},
		Serve: &ServeConfig{
			Port: 8080,
			Host: "localhost",
		},
	}
}

// applyDefaults applies default values to missing configuration.
func applyDefaults(config *Config) {
	defaults := DefaultConfig()

	if config.Document == nil {
		config.Document = defaults.Document
	} else if config.Document.Path == "" {
		config.Document.Path = defaults.Document.Path
	}

	if config.Viewport == nil {
		config.Viewport = defaults.Viewport
	} else {
		if config.Viewport.MinZoom == 0 {
			config.Viewport.MinZoom = defaults.Viewport.MinZoom
		}
		if config.Viewport.MaxZoom == 0 {
			config.Viewport.MaxZoom = defaults.Viewport.MaxZoom
		}
	}

	if config.Canvas == nil {
		config.Canvas = defaults.Canvas
	} else if config.Canvas.CurveCap == 0 {
		config.Canvas.CurveCap = defaults.Canvas.CurveCap
	}

	if config.Serve == nil {
		config.Serve = defaults.Serve
	} else {
		if config.Serve.Port == 0 {
			config.Serve.Port = defaults.Serve.Port
		}
		if config.Serve.Host == "" {
			config.Serve.Host = defaults.Serve.Host
		}
	}
}

// Validate checks the configuration for inconsistent values.
func (c *Config) Validate() error {
	if c.Viewport.MinZoom <= 0 {
		return fmt.Errorf("viewport.minZoom must be positive, got %v", c.Viewport.MinZoom)
	}
	if c.Viewport.MaxZoom < c.Viewport.MinZoom {
		return fmt.Errorf("viewport.maxZoom %v is below minZoom %v", c.Viewport.MaxZoom, c.Viewport.MinZoom)
	}
	if c.Canvas.CurveCap <= 0 {
		return fmt.Errorf("canvas.curveCap must be positive, got %v", c.Canvas.CurveCap)
	}
	return nil
}

// Addr returns the host:port the serve command listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Serve.Host, c.Serve.Port)
}
