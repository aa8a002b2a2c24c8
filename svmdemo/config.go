package svmdemo

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const defaultConfigFile = "config.json"

const (
	DefaultWidth  = 800
	DefaultHeight = 600
	maxCanvasSide = 4096
)

// FormConfig is the last hyperparameter form state. Cost and gamma are
// kept as the text the user typed.
type FormConfig struct {
	Kernel Kernel `json:"kernel"`
	Cost   string `json:"cost"`
	Gamma  string `json:"gamma"`
	Degree int    `json:"degree"`
}

// Config aggregates runtime settings persisted to config.json.
type Config struct {
	Width      int        `json:"width"`
	Height     int        `json:"height"`
	Workers    int        `json:"workers"`
	Form       FormConfig `json:"form"`
	PointsPath string     `json:"pointsPath"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() Config {
	cfg := Config{Form: FormConfig{Degree: 1}}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults populates zero values with sensible defaults. Degree 0 is a
// valid choice and is left alone.
func (c *Config) ApplyDefaults() {
	if c.Width == 0 {
		c.Width = DefaultWidth
	}
	if c.Height == 0 {
		c.Height = DefaultHeight
	}
	if c.Workers == 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.Form.Kernel == "" {
		c.Form.Kernel = KernelLinear
	}
	if c.Form.Cost == "" {
		c.Form.Cost = "1.0"
	}
	if c.Form.Gamma == "" {
		c.Form.Gamma = "1.0"
	}
}

// Sanitize clamps values read from disk into their valid ranges.
func (c *Config) Sanitize() {
	c.ApplyDefaults()
	c.Width = clampInt(c.Width, 1, maxCanvasSide)
	c.Height = clampInt(c.Height, 1, maxCanvasSide)
	if c.Workers < 1 {
		c.Workers = 1
	}
	if _, err := ParseKernel(string(c.Form.Kernel)); err != nil {
		c.Form.Kernel = KernelLinear
	}
	c.Form.Degree = clampInt(c.Form.Degree, 0, MaxDegree)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// LoadConfig loads configuration from the given path or the default config.json.
// Fields missing from the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = defaultConfigFile
	}
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.Sanitize()
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	cfg.Sanitize()
	return cfg, nil
}

// SaveConfig persists configuration to disk.
func SaveConfig(path string, cfg Config) error {
	if path == "" {
		path = defaultConfigFile
	}
	tmp := path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	cfg.Sanitize()
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}
