// Package config loads gobf settings from TOML or YAML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"gobf/pkg/codegen"
	"gobf/pkg/machine"
)

// EnvVar names the environment variable holding the config path.
const EnvVar = "GOBF_CONFIG"

// Config is the root of a gobf config file.
type Config struct {
	Tape    TapeConfig           `toml:"tape" yaml:"tape"`
	Run     RunConfig            `toml:"run" yaml:"run"`
	Codegen codegen.TargetConfig `toml:"codegen" yaml:"codegen"`
	Log     LogConfig            `toml:"log" yaml:"log"`
}

type TapeConfig struct {
	Size   int    `toml:"size" yaml:"size"`
	Policy string `toml:"policy" yaml:"policy"` // wrap, strict or grow
}

type RunConfig struct {
	Optimize bool     `toml:"optimize" yaml:"optimize"`
	MaxSteps uint64   `toml:"max_steps" yaml:"max_steps"`
	Timeout  Duration `toml:"timeout" yaml:"timeout"`
	// SnapshotDir is where `run --snapshot` writes relative archive names.
	SnapshotDir string `toml:"snapshot_dir" yaml:"snapshot_dir"`
}

type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
	File   string `toml:"file" yaml:"file"` // empty means stderr
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file, chosen by extension.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}
	if err != nil {
		return nil, err
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case ".toml", "":
		if _, err := toml.Decode(string(content), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadFromEnv loads the file named by GOBF_CONFIG, or the first default
// location that exists. With neither it returns Default().
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv(EnvVar); path != "" {
		return Load(path)
	}
	for _, p := range defaultPaths() {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}
	return Default(), nil
}

func defaultPaths() []string {
	paths := []string{"./gobf.toml", "./gobf.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config/gobf/config.toml"),
			filepath.Join(home, ".config/gobf/config.yaml"),
		)
	}
	return paths
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Tape.Size <= 0 {
		c.Tape.Size = machine.DefaultTapeSize
	}
	if c.Tape.Policy == "" {
		c.Tape.Policy = machine.PolicyWrap.String()
	}
	if c.Codegen.TapeSize <= 0 {
		c.Codegen.TapeSize = c.Tape.Size
	}
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

func (c *Config) expandEnvVars() {
	c.Run.SnapshotDir = os.ExpandEnv(c.Run.SnapshotDir)
	c.Log.File = os.ExpandEnv(c.Log.File)
}

// Validate checks the fields that are parsed later on.
func (c *Config) Validate() error {
	if _, err := machine.ParsePolicy(c.Tape.Policy); err != nil {
		return err
	}
	if c.Run.Timeout.Duration < 0 {
		return fmt.Errorf("negative run timeout %s", c.Run.Timeout)
	}
	cg, err := c.Codegen.WithDefaults()
	if err != nil {
		return err
	}
	return cg.Validate()
}

// MachineOptions translates the tape and run sections into machine options.
func (c *Config) MachineOptions() ([]machine.Option, error) {
	policy, err := machine.ParsePolicy(c.Tape.Policy)
	if err != nil {
		return nil, err
	}
	return []machine.Option{
		machine.WithPolicy(policy),
		machine.WithTapeSize(c.Tape.Size),
		machine.WithMaxSteps(c.Run.MaxSteps),
	}, nil
}
