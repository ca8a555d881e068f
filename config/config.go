// Package config reads the optional signalview.yaml file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/delaneyj/signalview/observer"
	"github.com/delaneyj/signalview/view"
	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

const FileName = "signalview.yaml"

// Config represents the optional signalview.yaml configuration.
type Config struct {
	DevMode     bool           `yaml:"dev_mode,omitempty"`
	ContainerID string         `yaml:"container_id,omitempty"`
	Observer    ObserverConfig `yaml:"observer"`
}

// ObserverConfig configures the diagnostics registry. Unset fields keep the
// registry defaults.
type ObserverConfig struct {
	Output      *bool `yaml:"output,omitempty"`
	StackTraces *bool `yaml:"stack_traces,omitempty"`
	// MaxPayload is a human readable size such as "10 KiB".
	MaxPayload string `yaml:"max_payload,omitempty"`
}

// Load reads and validates the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return parse(path, data)
}

// LoadOptional reads signalview.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}
	return parse(path, data)
}

func parse(path string, data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if _, err := cfg.maxPayload(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return &cfg, nil
}

// Container returns the mount container id, defaulting to view.DefaultContainerID.
func (c *Config) Container() string {
	if id := strings.TrimSpace(c.ContainerID); id != "" {
		return id
	}
	return view.DefaultContainerID
}

// ObserverOptions turns the observer section into registry options.
func (c *Config) ObserverOptions() []observer.Option {
	var opts []observer.Option
	if c.Observer.Output != nil {
		opts = append(opts, observer.WithOutput(*c.Observer.Output))
	}
	if c.Observer.StackTraces != nil {
		opts = append(opts, observer.WithStackTraces(*c.Observer.StackTraces))
	}
	if n, err := c.maxPayload(); err == nil && n > 0 {
		opts = append(opts, observer.WithMaxPayload(n))
	}
	return opts
}

// Apply sets the view dev mode and returns a registry built from the file.
func (c *Config) Apply(extra ...observer.Option) *observer.Registry {
	view.SetDevMode(c.DevMode)
	return observer.New(append(c.ObserverOptions(), extra...)...)
}

func (c *Config) maxPayload() (int, error) {
	s := strings.TrimSpace(c.Observer.MaxPayload)
	if s == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("observer.max_payload: %w", err)
	}
	if n == 0 || n > 1<<30 {
		return 0, fmt.Errorf("observer.max_payload: %s out of range", s)
	}
	return int(n), nil
}
