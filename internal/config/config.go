// Package config loads and validates the assistant configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// CameraConfig selects and shapes the capture device.
type CameraConfig struct {
	DeviceID int `yaml:"device_id"`
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
}

// GestureConfig holds the calibration for the pinch-to-volume mapping.
// MinDist and MaxDist are pixel distances between thumb tip and index
// fingertip at the preview resolution: pinch closed and fingers spread.
type GestureConfig struct {
	MinDist       float64 `yaml:"min_dist"`
	MaxDist       float64 `yaml:"max_dist"`
	Smoothing     float64 `yaml:"smoothing"`
	DetectionConf float64 `yaml:"detection_confidence"`
	TrackingConf  float64 `yaml:"tracking_confidence"`
	PreviewScale  float64 `yaml:"preview_scale"`
}

// ServerConfig holds the HTTP dashboard settings.
type ServerConfig struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir"`
}

// SpeechConfig controls spoken confirmations.
type SpeechConfig struct {
	Enabled bool `yaml:"enabled"`
}

// LLMConfig points the URL resolver at a hosted model. The API key is
// taken from the environment, never from the file.
type LLMConfig struct {
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// Config aggregates all application configuration.
type Config struct {
	Camera  CameraConfig  `yaml:"camera"`
	Gesture GestureConfig `yaml:"gesture"`
	Server  ServerConfig  `yaml:"server"`
	Speech  SpeechConfig  `yaml:"speech"`
	LLM     LLMConfig     `yaml:"llm"`

	// APIKey is filled from the GEMINI_API_KEY environment variable.
	APIKey string `yaml:"-"`
}

// Default returns the configuration used when no file is present.
// The gesture calibration matches a 640x480 capture scaled to 35%.
func Default() *Config {
	return &Config{
		Camera: CameraConfig{
			DeviceID: 0,
			Width:    640,
			Height:   480,
		},
		Gesture: GestureConfig{
			MinDist:       20,
			MaxDist:       180,
			Smoothing:     0.1,
			DetectionConf: 0.7,
			TrackingConf:  0.7,
			PreviewScale:  0.35,
		},
		Server: ServerConfig{
			Addr: ":8765",
		},
		Speech: SpeechConfig{
			Enabled: true,
		},
		LLM: LLMConfig{
			Model:     "gemini-2.0-flash",
			BaseURL:   "https://generativelanguage.googleapis.com/v1beta/openai/",
			TimeoutMs: 10000,
		},
	}
}

// Load reads a YAML file and returns the configuration. A missing file
// is not an error: the defaults are returned so the assistant can run
// without any setup.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		return fmt.Errorf("camera resolution must be positive, got %dx%d", c.Camera.Width, c.Camera.Height)
	}
	if c.Gesture.MinDist <= 0 {
		return fmt.Errorf("gesture.min_dist must be > 0, got %.1f", c.Gesture.MinDist)
	}
	if c.Gesture.MaxDist <= c.Gesture.MinDist {
		return fmt.Errorf("gesture.max_dist must be > min_dist, got %.1f <= %.1f", c.Gesture.MaxDist, c.Gesture.MinDist)
	}
	if c.Gesture.Smoothing <= 0 || c.Gesture.Smoothing >= 1 {
		return fmt.Errorf("gesture.smoothing must be in (0,1), got %.3f", c.Gesture.Smoothing)
	}
	if c.Gesture.DetectionConf <= 0 || c.Gesture.DetectionConf > 1 {
		return fmt.Errorf("gesture.detection_confidence must be in (0,1], got %.2f", c.Gesture.DetectionConf)
	}
	if c.Gesture.TrackingConf <= 0 || c.Gesture.TrackingConf > 1 {
		return fmt.Errorf("gesture.tracking_confidence must be in (0,1], got %.2f", c.Gesture.TrackingConf)
	}
	if c.Gesture.PreviewScale <= 0 || c.Gesture.PreviewScale > 1 {
		return fmt.Errorf("gesture.preview_scale must be in (0,1], got %.2f", c.Gesture.PreviewScale)
	}
	if c.LLM.TimeoutMs <= 0 {
		c.LLM.TimeoutMs = 10000
	}
	return nil
}

// LLMTimeout returns the resolver request timeout.
func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLM.TimeoutMs) * time.Millisecond
}
