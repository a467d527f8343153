package hand

import (
	"encoding/json"
	"os"
)

const DefaultConfigFile = "uhand.json"

// Config holds the robot configuration
type Config struct {
	Hand   HandConfig   `json:"hand"`
	Camera CameraConfig `json:"camera"`
}

// HandConfig holds configuration for the servo bus
type HandConfig struct {
	Port        string      `json:"port"`
	Calibration Calibration `json:"calibration,omitempty"`
}

// CameraConfig holds configuration for the vision coprocessor
type CameraConfig struct {
	// Bus is the I2C adapter name ("" picks the first one).
	Bus string `json:"bus"`
	// Track selects which color channel ColorPosition follows
	// ("green" or "blue"; the stock clamp firmware uses green, the
	// trace firmware blue).
	Track string `json:"track,omitempty"`
}

// IsCalibrated returns true if the hand has calibration data
func (h *HandConfig) IsCalibrated() bool {
	return len(h.Calibration) > 0
}

// LoadConfig loads configuration from the default config file
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(DefaultConfigFile)
}

// LoadConfigFrom loads configuration from a specific file
func LoadConfigFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save saves configuration to the default config file
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigFile)
}

// SaveTo saves configuration to a specific file
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ConfigExists returns true if the default config file exists
func ConfigExists() bool {
	_, err := os.Stat(DefaultConfigFile)
	return err == nil
}
