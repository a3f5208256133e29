package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTopic    = "http"
	DefaultSpeed    = 1.0
	DefaultTheme    = "slate"
	DefaultLogLevel = "warn"
	DefaultDataDir  = "runs"

	MinSpeed = 0.25
	MaxSpeed = 4.0
)

type Config struct {
	Topic    string  `yaml:"topic"`
	Diagram  string  `yaml:"diagram"`
	Loop     bool    `yaml:"loop"`
	Speed    float64 `yaml:"speed"`
	Theme    string  `yaml:"theme"`
	LogLevel string  `yaml:"log_level"`
	DataDir  string  `yaml:"data_dir"`
}

func DefaultConfig() *Config {
	return &Config{
		Topic:    DefaultTopic,
		Speed:    DefaultSpeed,
		Theme:    DefaultTheme,
		LogLevel: DefaultLogLevel,
		DataDir:  DefaultDataDir,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the values a file or flag can get wrong.
func (c *Config) Validate() error {
	if c.Speed < MinSpeed || c.Speed > MaxSpeed {
		return fmt.Errorf("speed %.2f out of range [%.2f, %.2f]", c.Speed, MinSpeed, MaxSpeed)
	}
	return nil
}

// Merge copies the non-zero fields of other onto c.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.Topic != "" {
		c.Topic = other.Topic
	}
	if other.Diagram != "" {
		c.Diagram = other.Diagram
	}
	if other.Loop {
		c.Loop = true
	}
	if other.Speed != 0 {
		c.Speed = other.Speed
	}
	if other.Theme != "" {
		c.Theme = other.Theme
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.DataDir != "" {
		c.DataDir = other.DataDir
	}
}
