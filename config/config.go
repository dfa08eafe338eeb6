// Package config loads engine configuration from YAML. Missing files and
// missing fields fall back to defaults so a bare binary still runs.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type PhysicsConfig struct {
	GravityX     float64 `yaml:"gravity_x"`
	GravityY     float64 `yaml:"gravity_y"`
	TimeStep     float64 `yaml:"time_step"`
	MaxSubSteps  int     `yaml:"max_sub_steps"`
	Iterations   int     `yaml:"iterations"`
	Damping      float64 `yaml:"damping"`
	PollContacts bool    `yaml:"poll_contacts"`
}

type Config struct {
	Window   WindowConfig  `yaml:"window"`
	Physics  PhysicsConfig `yaml:"physics"`
	Scene    string        `yaml:"scene"`
	LogLevel string        `yaml:"log_level"`
}

func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "helix",
			Width:  1280,
			Height: 720,
		},
		Physics: PhysicsConfig{
			GravityY:    900,
			TimeStep:    1.0 / 60.0,
			MaxSubSteps: 4,
			Iterations:  10,
			Damping:     1,
		},
		LogLevel: "info",
	}
}

// Load reads filename over the defaults. A missing file is not an error;
// the defaults are returned as-is.
func Load(filename string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", filename, err)
	}
	return cfg, nil
}
