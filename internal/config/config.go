package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDemo  = "lorenz"
	DefaultFPS   = 30
	DefaultTicks = 1000
	DefaultTheme = "dark"
)

type Config struct {
	Demo       string             `yaml:"demo"`
	Integrator string             `yaml:"integrator,omitempty"`
	Seed       int64              `yaml:"seed"`
	Ticks      uint64             `yaml:"ticks"`
	FPS        int                `yaml:"fps"`
	Theme      string             `yaml:"theme,omitempty"`
	Params     map[string]float64 `yaml:"params,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Demo:  DefaultDemo,
		Ticks: DefaultTicks,
		FPS:   DefaultFPS,
		Theme: DefaultTheme,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if cfg.FPS <= 0 {
		return nil, fmt.Errorf("config %s: fps must be positive, got %d", path, cfg.FPS)
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

// Interval is the tick period implied by FPS.
func (c *Config) Interval() time.Duration {
	if c.FPS <= 0 {
		return time.Second / DefaultFPS
	}
	return time.Second / time.Duration(c.FPS)
}

// Overlay copies every parameter of p into c, overwriting existing names.
func (c *Config) Overlay(p map[string]float64) {
	if len(p) == 0 {
		return
	}
	if c.Params == nil {
		c.Params = make(map[string]float64, len(p))
	}
	for k, v := range p {
		c.Params[k] = v
	}
}

// WithPreset returns a copy of c with the named preset's parameters laid
// over its own.
func (c *Config) WithPreset(name string) (*Config, error) {
	p := GetPreset(c.Demo, name)
	if p == nil {
		return nil, fmt.Errorf("no preset %q for demo %s (have %v)", name, c.Demo, ListPresets(c.Demo))
	}
	out := *c
	out.Params = nil
	out.Overlay(c.Params)
	out.Overlay(p.Params)
	return &out, nil
}
