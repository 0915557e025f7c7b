// Package config loads the gcl configuration file.
package config

import (
	"errors"
	"fmt"
	"go/types"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/benbjohnson/gcl"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file read when no path is given.
const DefaultPath = ".gcl.yaml"

// Solver backends.
const (
	SolverGini = "gini"
	SolverZ3   = "z3"
)

// Config represents the configuration file.
type Config struct {
	Strategy string        `yaml:"strategy"`
	Solver   string        `yaml:"solver"`
	Timeout  time.Duration `yaml:"timeout"` // per check, zero is unlimited
	Arch     string        `yaml:"arch"`
	Log      LogConfig     `yaml:"log"`
}

// LogConfig represents the logging section.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns a configuration with default values.
func Default() Config {
	return Config{
		Strategy: string(gcl.StrategyEfseFeas),
		Solver:   SolverGini,
		Arch:     runtime.GOARCH,
		Log:      LogConfig{Level: "info"},
	}
}

// Load reads the file at path over the defaults.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// LoadDefault reads DefaultPath if it exists. Otherwise it returns the defaults.
func LoadDefault() (Config, error) {
	c, err := Load(DefaultPath)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return c, err
}

// Decode reads YAML from r over the defaults. Unknown keys are rejected.
func Decode(r io.Reader) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return Config{}, err
	}
	return c, c.Validate()
}

// Validate returns an error if any field holds an unknown value.
func (c Config) Validate() error {
	if _, err := gcl.ParseStrategy(c.Strategy); err != nil {
		return err
	}

	switch c.Solver {
	case SolverGini, SolverZ3:
	default:
		return fmt.Errorf("unknown solver: %q", c.Solver)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("negative timeout: %s", c.Timeout)
	} else if types.SizesFor("gc", c.Arch) == nil {
		return fmt.Errorf("unknown architecture: %q", c.Arch)
	}

	if _, err := c.Log.ZapLevel(); err != nil {
		return err
	}
	return nil
}

// ZapLevel returns the parsed log level.
func (c LogConfig) ZapLevel() (zapcore.Level, error) {
	return zapcore.ParseLevel(c.Level)
}
